package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"taskline/internal/models"
	"taskline/internal/repository"
)

// MinPasswordLength is the shortest password Register accepts.
const MinPasswordLength = 5

// TokenType is reported next to every issued access token.
const TokenType = "bearer"

type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

type CredentialsConfig struct {
	Secret     []byte
	TokenTTL   time.Duration
	BcryptCost int
}

// Credentials registers users, checks passwords and issues and validates
// stateless bearer tokens.
type Credentials struct {
	users   UserRepository
	revoker TokenRevoker
	secret  []byte
	ttl     time.Duration
	cost    int
	now     func() time.Time

	// dummyHash is compared against when the name is unknown so a failed
	// login costs one bcrypt comparison either way.
	dummyHash []byte
	compare   func(hash, password []byte) error
}

type tokenClaims struct {
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

func NewCredentials(users UserRepository, revoker TokenRevoker, cfg CredentialsConfig) *Credentials {
	cost := cfg.BcryptCost
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	dummy, err := bcrypt.GenerateFromPassword([]byte("taskline-unknown-user"), cost)
	if err != nil {
		panic(fmt.Sprintf("service: hash dummy password: %v", err))
	}
	return &Credentials{
		users:     users,
		revoker:   revoker,
		secret:    cfg.Secret,
		ttl:       cfg.TokenTTL,
		cost:      cost,
		now:       time.Now,
		dummyHash: dummy,
		compare:   bcrypt.CompareHashAndPassword,
	}
}

func (s *Credentials) Register(ctx context.Context, name, password string) (models.UserPublic, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.UserPublic{}, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return models.UserPublic{}, ErrWeakCredential
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return models.UserPublic{}, fmt.Errorf("hash password: %w", err)
	}

	u, err := s.users.CreateUser(ctx, name, string(hash))
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return models.UserPublic{}, ErrDuplicateUser
		}
		return models.UserPublic{}, err
	}
	return u.Public(), nil
}

// Login answers ErrInvalidCredentials both for an unknown name and for a
// wrong password.
func (s *Credentials) Login(ctx context.Context, name, password string) (Token, error) {
	u, err := s.users.GetUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			_ = s.compare(s.dummyHash, []byte(password))
			return Token{}, ErrInvalidCredentials
		}
		return Token{}, err
	}
	if err := s.compare([]byte(u.PasswordHash), []byte(password)); err != nil {
		return Token{}, ErrInvalidCredentials
	}

	now := s.now()
	claims := tokenClaims{
		UserName: u.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(u.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return Token{}, fmt.Errorf("sign token: %w", err)
	}
	return Token{AccessToken: signed, TokenType: TokenType}, nil
}

// Authenticate resolves a bearer token to the user it was issued for. It
// performs no writes.
func (s *Credentials) Authenticate(ctx context.Context, token string) (models.UserPublic, error) {
	claims, err := s.parse(token)
	if err != nil {
		return models.UserPublic{}, err
	}
	if s.revoker != nil && claims.ID != "" {
		revoked, err := s.revoker.IsRevoked(ctx, claims.ID)
		if err != nil {
			return models.UserPublic{}, err
		}
		if revoked {
			return models.UserPublic{}, fmt.Errorf("%w: token revoked", ErrTokenInvalid)
		}
	}

	id, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return models.UserPublic{}, fmt.Errorf("%w: bad subject", ErrTokenInvalid)
	}
	u, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.UserPublic{}, ErrUserNotFound
		}
		return models.UserPublic{}, err
	}
	return u.Public(), nil
}

// VerifyOwnership reports whether identity still resolves to a user row
// whose id is expectedUserID.
func (s *Credentials) VerifyOwnership(ctx context.Context, identity models.UserPublic, expectedUserID int) (bool, error) {
	u, err := s.users.GetUserByName(ctx, identity.Name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return u.ID == identity.ID && u.ID == expectedUserID, nil
}

// Logout revokes the token until it would have expired anyway.
func (s *Credentials) Logout(ctx context.Context, token string) error {
	claims, err := s.parse(token)
	if err != nil {
		return err
	}
	if s.revoker == nil || claims.ID == "" {
		return nil
	}
	return s.revoker.Revoke(ctx, claims.ID, time.Until(claims.ExpiresAt.Time))
}

func (s *Credentials) parse(token string) (*tokenClaims, error) {
	claims := &tokenClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !parsed.Valid || claims.ExpiresAt == nil || claims.UserName == "" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
