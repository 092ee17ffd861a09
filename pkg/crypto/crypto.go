// Package crypto seals small secrets, such as the client's stored access
// token, under a passphrase.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize = 16
	keySize  = 32

	// argon2id parameters: one pass over 19 MiB.
	argonTime    = 1
	argonMemory  = 19 * 1024
	argonThreads = 2
)

var ErrDecrypt = errors.New("crypto: cannot decrypt data")

// Encrypt seals data with AES-256-GCM under a key derived from passphrase.
// The result is base64 of salt, nonce and ciphertext.
func Encrypt(data, passphrase string) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("crypto: read salt: %w", err)
	}
	gcm, err := newGCM(passphrase, salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, gcm.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("crypto: read nonce: %w", err)
	}

	out := make([]byte, 0, saltSize+len(nonce)+len(data)+gcm.Overhead())
	out = append(out, salt...)
	out = append(out, nonce...)
	out = gcm.Seal(out, nonce, []byte(data), nil)
	return base64.StdEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. A wrong passphrase or tampered input yields
// ErrDecrypt.
func Decrypt(data, passphrase string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil || len(raw) < saltSize {
		return "", ErrDecrypt
	}
	gcm, err := newGCM(passphrase, raw[:saltSize])
	if err != nil {
		return "", err
	}
	raw = raw[saltSize:]
	if len(raw) < gcm.NonceSize() {
		return "", ErrDecrypt
	}
	plain, err := gcm.Open(nil, raw[:gcm.NonceSize()], raw[gcm.NonceSize():], nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}

func newGCM(passphrase string, salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey([]byte(passphrase), salt, argonTime, argonMemory, argonThreads, keySize)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return cipher.NewGCM(block)
}
