package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translateError(nil))
	})

	t.Run("record not found", func(t *testing.T) {
		assert.ErrorIs(t, translateError(gorm.ErrRecordNotFound), ErrNotFound)
	})

	t.Run("translated duplicate key", func(t *testing.T) {
		assert.ErrorIs(t, translateError(gorm.ErrDuplicatedKey), ErrConflict)
	})

	t.Run("postgres unique violation", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23505", ConstraintName: "idx_users_email"}
		err := translateError(fmt.Errorf("insert: %w", pgErr))

		assert.ErrorIs(t, err, ErrConflict)
		assert.Contains(t, err.Error(), "idx_users_email")
	})

	t.Run("postgres foreign key violation", func(t *testing.T) {
		err := translateError(&pgconn.PgError{Code: "23503"})
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("other errors pass through", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Equal(t, boom, translateError(boom))
	})
}
