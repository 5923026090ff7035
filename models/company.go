package models

import (
	"strconv"
	"time"
)

// Company is a tenant. It authenticates with its own email and password and
// owns every user and objective created under it.
type Company struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Users      []User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Objectives []Objective `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// PublicID is the identifier used in URLs, sessions and token claims.
func (c *Company) PublicID() string {
	return strconv.FormatUint(uint64(c.ID), 10)
}

// CompanySummary is the public projection returned at login.
type CompanySummary struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (c *Company) Summary() CompanySummary {
	return CompanySummary{ID: c.ID, Name: c.Name, Email: c.Email}
}
