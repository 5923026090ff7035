package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type countingHasher struct {
	dummies []string
}

func (h *countingHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (h *countingHasher) CompareDummy(plaintext string) {
	h.dummies = append(h.dummies, plaintext)
}

// emptyDB answers every query as if no row matched.
func emptyDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := dryRunDB(t)
	err := db.Callback().Query().After("gorm:query").Register("test:no_rows", func(tx *gorm.DB) {
		_ = tx.AddError(gorm.ErrRecordNotFound)
	})
	require.NoError(t, err)
	return db
}

func TestCompanyAuthenticateUnknownEmailComparesDummy(t *testing.T) {
	hasher := &countingHasher{}
	s := NewCompanyStore(emptyDB(t), hasher)

	company, err := s.Authenticate(context.Background(), "nobody@acme.test", "secret1")
	assert.Nil(t, company)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []string{"secret1"}, hasher.dummies)
}

func TestUserAuthenticateUnknownEmailComparesDummy(t *testing.T) {
	hasher := &countingHasher{}
	s := NewUserStore(emptyDB(t), hasher)

	user, err := s.Authenticate(context.Background(), "nobody@acme.test", "secret1")
	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, []string{"secret1"}, hasher.dummies)
}
