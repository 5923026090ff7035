package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"okrtracker/models"
	"okrtracker/utils"
)

type GormCompanyStore struct {
	db     *gorm.DB
	hasher PasswordHasher
}

func NewCompanyStore(db *gorm.DB, hasher PasswordHasher) *GormCompanyStore {
	return &GormCompanyStore{db: db, hasher: hasher}
}

func (s *GormCompanyStore) Create(ctx context.Context, company *models.Company, password string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return err
	}
	company.PasswordHash = hash
	return translateError(s.db.WithContext(ctx).Create(company).Error)
}

func (s *GormCompanyStore) FindByID(ctx context.Context, id uint) (*models.Company, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).First(&company, id).Error; err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}

func (s *GormCompanyStore) FindByEmail(ctx context.Context, email string) (*models.Company, error) {
	var company models.Company
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&company).Error; err != nil {
		return nil, translateError(err)
	}
	return &company, nil
}

func (s *GormCompanyStore) Authenticate(ctx context.Context, email, password string) (*models.Company, error) {
	company, err := s.FindByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		s.hasher.CompareDummy(password)
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := utils.VerifyPassword(password, company.PasswordHash)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}
	return company, nil
}

func (s *GormCompanyStore) List(ctx context.Context, offset, limit int) ([]models.Company, int64, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Company{}).Count(&count).Error; err != nil {
		return nil, 0, translateError(err)
	}

	companies := make([]models.Company, 0, limit)
	err := s.db.WithContext(ctx).
		Order("id").
		Offset(offset).
		Limit(limit).
		Find(&companies).Error
	if err != nil {
		return nil, 0, translateError(err)
	}
	return companies, count, nil
}

func (s *GormCompanyStore) Update(ctx context.Context, company *models.Company, password string) error {
	if password != "" {
		hash, err := s.hasher.Hash(password)
		if err != nil {
			return err
		}
		company.PasswordHash = hash
	}
	return translateError(s.db.WithContext(ctx).Save(company).Error)
}

func (s *GormCompanyStore) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&models.Company{}, id)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
