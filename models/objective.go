package models

import (
	"math"
	"time"
)

const (
	ObjectiveDraft     = "draft"
	ObjectiveActive    = "active"
	ObjectiveCompleted = "completed"
	ObjectiveArchived  = "archived"
)

var (
	ObjectiveStatuses = []string{ObjectiveDraft, ObjectiveActive, ObjectiveCompleted, ObjectiveArchived}
	Quarters          = []string{"Q1", "Q2", "Q3", "Q4"}
)

// Objective is a company goal for one or more quarters. Progress is derived
// from its key results and is never written by clients.
type Objective struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CompanyID   uint      `gorm:"not null;index" json:"companyID"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description"`
	Owners      []uint    `gorm:"serializer:json" json:"owners"`
	CreatedBy   uint      `gorm:"not null" json:"createdBy"`
	StartDate   time.Time `gorm:"not null" json:"startDate"`
	EndDate     time.Time `gorm:"not null" json:"endDate"`
	Period      []string  `gorm:"serializer:json" json:"period"`
	Progress    float64   `gorm:"default:0" json:"progress"`
	Status      string    `gorm:"default:'draft';not null" json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	KeyResults []KeyResult `gorm:"constraint:OnDelete:CASCADE" json:"keyResults,omitempty"`
}

func IsObjectiveStatus(status string) bool {
	return contains(ObjectiveStatuses, status)
}

func IsQuarter(q string) bool {
	return contains(Quarters, q)
}

// AggregateProgress is the mean progress of the given key results, or zero
// when there are none.
func AggregateProgress(keyResults []KeyResult) float64 {
	if len(keyResults) == 0 {
		return 0
	}
	var total float64
	for _, kr := range keyResults {
		total += kr.Progress
	}
	return round2(total / float64(len(keyResults)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
