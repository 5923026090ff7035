package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"okrtracker/models"
)

type GormObjectiveStore struct {
	db *gorm.DB
}

func NewObjectiveStore(db *gorm.DB) *GormObjectiveStore {
	return &GormObjectiveStore{db: db}
}

func (s *GormObjectiveStore) Create(ctx context.Context, objective *models.Objective) error {
	return translateError(s.db.WithContext(ctx).Omit(clause.Associations).Create(objective).Error)
}

func (s *GormObjectiveStore) List(ctx context.Context, companyID uint, status string) ([]models.Objective, error) {
	q := s.db.WithContext(ctx).Where("company_id = ?", companyID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	objectives := []models.Objective{}
	if err := q.Order("start_date, id").Find(&objectives).Error; err != nil {
		return nil, translateError(err)
	}
	return objectives, nil
}

func (s *GormObjectiveStore) Find(ctx context.Context, companyID, objectiveID uint) (*models.Objective, error) {
	var objective models.Objective
	err := s.db.WithContext(ctx).
		Preload("KeyResults", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Where("id = ? AND company_id = ?", objectiveID, companyID).
		First(&objective).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &objective, nil
}

// Update writes every client-editable column. Progress belongs to the
// key-result store and is never written from here.
func (s *GormObjectiveStore) Update(ctx context.Context, objective *models.Objective) error {
	result := updateObjective(s.db.WithContext(ctx), objective)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func updateObjective(db *gorm.DB, objective *models.Objective) *gorm.DB {
	return db.Model(objective).
		Where("company_id = ?", objective.CompanyID).
		Select("*").
		Omit(clause.Associations, "id", "company_id", "progress", "created_at").
		Updates(objective)
}

func (s *GormObjectiveStore) Delete(ctx context.Context, companyID, objectiveID uint) error {
	result := s.db.WithContext(ctx).
		Where("company_id = ?", companyID).
		Delete(&models.Objective{}, objectiveID)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
