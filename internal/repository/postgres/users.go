package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"taskline/internal/models"
	"taskline/internal/repository"
)

func (s *Storage) CreateUser(ctx context.Context, name, passwordHash string) (models.User, error) {
	u := models.User{Name: name, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (name, password_hash) VALUES ($1, $2) RETURNING id, created_at",
		name, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, repository.ErrConflict
		}
		return models.User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

func (s *Storage) GetUserByName(ctx context.Context, name string) (models.User, error) {
	return s.getUser(ctx, "SELECT id, name, password_hash, created_at FROM users WHERE name = $1", name)
}

func (s *Storage) GetUserByID(ctx context.Context, id int) (models.User, error) {
	return s.getUser(ctx, "SELECT id, name, password_hash, created_at FROM users WHERE id = $1", id)
}

func (s *Storage) getUser(ctx context.Context, query string, arg any) (models.User, error) {
	var u models.User
	err := s.db.QueryRowContext(ctx, query, arg).Scan(&u.ID, &u.Name, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, repository.ErrNotFound
		}
		return models.User{}, fmt.Errorf("select user: %w", err)
	}
	return u, nil
}
