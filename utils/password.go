package utils

import (
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword = errors.New("password must not be empty")
	// ErrCryptoFailure means a stored hash could not be used for comparison.
	ErrCryptoFailure = errors.New("crypto failure")
)

// dummyHashes caches, per bcrypt cost, a hash no user password is compared
// against successfully.
var dummyHashes sync.Map

// PasswordHasher hashes passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	Cost int
}

func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return PasswordHasher{Cost: cost}
}

func (h PasswordHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.Cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// CompareDummy spends the work of one failed verification at the hasher's
// cost. Callers run it when no account matches an email, so lookups for
// unknown and known accounts take the same time.
func (h PasswordHasher) CompareDummy(plaintext string) {
	hash, ok := dummyHashes.Load(h.Cost)
	if !ok {
		generated, err := bcrypt.GenerateFromPassword([]byte("no account uses this password"), h.Cost)
		if err != nil {
			return
		}
		hash, _ = dummyHashes.LoadOrStore(h.Cost, generated)
	}
	_ = bcrypt.CompareHashAndPassword(hash.([]byte), []byte(plaintext))
}

// VerifyPassword reports whether plaintext matches storedHash. A mismatch is
// not an error; only an unusable hash is.
func VerifyPassword(plaintext, storedHash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrCryptoFailure, err)
	}
}
