package store

import (
	"context"

	"gorm.io/gorm"

	"okrtracker/models"
)

type GormKeyResultStore struct {
	db *gorm.DB
}

func NewKeyResultStore(db *gorm.DB) *GormKeyResultStore {
	return &GormKeyResultStore{db: db}
}

func (s *GormKeyResultStore) Create(ctx context.Context, keyResult *models.KeyResult) error {
	keyResult.RecalculateProgress()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(keyResult).Error; err != nil {
			return translateError(err)
		}
		return refreshObjectiveProgress(tx, keyResult.ObjectiveID)
	})
}

func (s *GormKeyResultStore) List(ctx context.Context, objectiveID uint) ([]models.KeyResult, error) {
	keyResults := []models.KeyResult{}
	err := s.db.WithContext(ctx).
		Where("objective_id = ?", objectiveID).
		Order("id").
		Find(&keyResults).Error
	if err != nil {
		return nil, translateError(err)
	}
	return keyResults, nil
}

func (s *GormKeyResultStore) Find(ctx context.Context, objectiveID, keyResultID uint) (*models.KeyResult, error) {
	var keyResult models.KeyResult
	err := s.db.WithContext(ctx).
		Where("id = ? AND objective_id = ?", keyResultID, objectiveID).
		First(&keyResult).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &keyResult, nil
}

func (s *GormKeyResultStore) Update(ctx context.Context, keyResult *models.KeyResult) error {
	keyResult.RecalculateProgress()
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(keyResult).Error; err != nil {
			return translateError(err)
		}
		return refreshObjectiveProgress(tx, keyResult.ObjectiveID)
	})
}

func (s *GormKeyResultStore) Delete(ctx context.Context, objectiveID, keyResultID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("objective_id = ?", objectiveID).Delete(&models.KeyResult{}, keyResultID)
		if result.Error != nil {
			return translateError(result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return refreshObjectiveProgress(tx, objectiveID)
	})
}

func refreshObjectiveProgress(tx *gorm.DB, objectiveID uint) error {
	var keyResults []models.KeyResult
	if err := tx.Select("progress").Where("objective_id = ?", objectiveID).Find(&keyResults).Error; err != nil {
		return translateError(err)
	}
	err := tx.Model(&models.Objective{}).
		Where("id = ?", objectiveID).
		Update("progress", models.AggregateProgress(keyResults)).Error
	return translateError(err)
}
