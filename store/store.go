// Package store persists companies, users, objectives and key results.
//
// Uniqueness of company and user emails is enforced by database indexes, not
// by lookups before insert. A violated index surfaces as ErrConflict.
package store

import (
	"context"
	"errors"

	"okrtracker/models"
)

var (
	ErrNotFound           = errors.New("record not found")
	ErrConflict           = errors.New("record already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// PasswordHasher turns a plaintext password into a storable hash.
type PasswordHasher interface {
	Hash(password string) (string, error)
	// CompareDummy burns one verification's worth of work for a login
	// whose email matched nothing.
	CompareDummy(plaintext string)
}

type CompanyStore interface {
	// Create hashes password and inserts the company.
	Create(ctx context.Context, company *models.Company, password string) error
	FindByID(ctx context.Context, id uint) (*models.Company, error)
	FindByEmail(ctx context.Context, email string) (*models.Company, error)
	// Authenticate returns the company owning email when password matches,
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*models.Company, error)
	List(ctx context.Context, offset, limit int) ([]models.Company, int64, error)
	// Update saves company; a non-empty password replaces the stored hash.
	Update(ctx context.Context, company *models.Company, password string) error
	Delete(ctx context.Context, id uint) error
}

type UserStore interface {
	// Register hashes password and inserts the user.
	Register(ctx context.Context, user *models.User, password string) error
	// Authenticate returns the user owning email when password matches,
	// ErrInvalidCredentials otherwise.
	Authenticate(ctx context.Context, email, password string) (*models.User, error)
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindInCompany(ctx context.Context, companyID, userID uint) (*models.User, error)
	ListByCompany(ctx context.Context, companyID uint) ([]models.User, error)
	Update(ctx context.Context, user *models.User, password string) error
	Delete(ctx context.Context, companyID, userID uint) error
}

type ObjectiveStore interface {
	Create(ctx context.Context, objective *models.Objective) error
	// List returns the company's objectives, filtered by status when non-empty.
	List(ctx context.Context, companyID uint, status string) ([]models.Objective, error)
	// Find loads the objective with its key results.
	Find(ctx context.Context, companyID, objectiveID uint) (*models.Objective, error)
	Update(ctx context.Context, objective *models.Objective) error
	Delete(ctx context.Context, companyID, objectiveID uint) error
}

// KeyResultStore keeps the parent objective's progress in step with every
// mutation it performs.
type KeyResultStore interface {
	Create(ctx context.Context, keyResult *models.KeyResult) error
	List(ctx context.Context, objectiveID uint) ([]models.KeyResult, error)
	Find(ctx context.Context, objectiveID, keyResultID uint) (*models.KeyResult, error)
	Update(ctx context.Context, keyResult *models.KeyResult) error
	Delete(ctx context.Context, objectiveID, keyResultID uint) error
}
