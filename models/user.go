package models

import (
	"strconv"
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User belongs to exactly one company. Email is unique across the system.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	CompanyID    uint      `gorm:"not null;index" json:"companyID"`
	Role         string    `gorm:"default:'user';not null" json:"role"`
	L1Team       string    `gorm:"column:l1_team;not null" json:"l1Team"`
	L2Team       string    `gorm:"column:l2_team;not null" json:"l2Team"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`

	Company *Company `json:"-"`
}

func (u *User) PublicID() string {
	return strconv.FormatUint(uint64(u.ID), 10)
}

// UserProfile is what a user sees about themselves after logging in.
type UserProfile struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CompanyID uint   `json:"companyID"`
	Role      string `json:"role"`
}

func (u *User) Profile() UserProfile {
	return UserProfile{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CompanyID: u.CompanyID,
		Role:      u.Role,
	}
}

// IsValidRole reports whether role is one of the known user roles.
func IsValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
