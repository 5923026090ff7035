package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"okrtracker/models"
	"okrtracker/utils"
)

type GormUserStore struct {
	db     *gorm.DB
	hasher PasswordHasher
}

func NewUserStore(db *gorm.DB, hasher PasswordHasher) *GormUserStore {
	return &GormUserStore{db: db, hasher: hasher}
}

func (s *GormUserStore) Register(ctx context.Context, user *models.User, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return translateError(s.db.WithContext(ctx).Create(user).Error)
}

func (s *GormUserStore) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		err = translateError(err)
		if errors.Is(err, ErrNotFound) {
			s.hasher.CompareDummy(password)
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

func (s *GormUserStore) FindByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *GormUserStore) FindInCompany(ctx context.Context, companyID, userID uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).
		Where("id = ? AND company_id = ?", userID, companyID).
		First(&user).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &user, nil
}

func (s *GormUserStore) ListByCompany(ctx context.Context, companyID uint) ([]models.User, error) {
	users := []models.User{}
	err := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Order("id").
		Find(&users).Error
	if err != nil {
		return nil, translateError(err)
	}
	return users, nil
}

func (s *GormUserStore) Update(ctx context.Context, user *models.User, password string) error {
	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hash
	}
	return translateError(s.db.WithContext(ctx).Omit("Company").Save(user).Error)
}

func (s *GormUserStore) Delete(ctx context.Context, companyID, userID uint) error {
	result := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.User{}, userID)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
