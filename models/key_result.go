package models

import "time"

const (
	KeyResultNotStarted = "not started"
	KeyResultInProgress = "in progress"
	KeyResultAchieved   = "achieved"
	KeyResultFailed     = "failed"

	DefaultConfidence = 0.7
)

var KeyResultStatuses = []string{KeyResultNotStarted, KeyResultInProgress, KeyResultAchieved, KeyResultFailed}

// KeyResult is a measurable outcome of an objective.
type KeyResult struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	ObjectiveID   uint       `gorm:"not null;index" json:"objectiveID"`
	Description   string     `gorm:"not null" json:"description"`
	TargetValue   float64    `gorm:"not null" json:"targetValue"`
	CurrentValue  float64    `gorm:"default:0" json:"currentValue"`
	Progress      float64    `gorm:"default:0" json:"progress"`
	Owners        []uint     `gorm:"serializer:json" json:"owners"`
	CreatedBy     uint       `gorm:"not null" json:"createdBy"`
	// No column default: gorm would swap a legitimate zero for it on insert.
	Confidence    float64    `gorm:"not null" json:"confidence"`
	Status        string     `gorm:"default:'not started';not null" json:"status"`
	TargetDate    time.Time  `gorm:"not null" json:"targetDate"`
	EstimatedDate *time.Time `json:"estimatedDate,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

func IsKeyResultStatus(status string) bool {
	return contains(KeyResultStatuses, status)
}

// RecalculateProgress derives Progress from the current and target values,
// clamped to 0..100.
func (k *KeyResult) RecalculateProgress() {
	if k.TargetValue <= 0 {
		k.Progress = 0
		return
	}
	p := k.CurrentValue / k.TargetValue * 100
	switch {
	case p < 0:
		p = 0
	case p > 100:
		p = 100
	}
	k.Progress = round2(p)
}
