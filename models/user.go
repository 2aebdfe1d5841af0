package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleDesigner UserRole = "designer"
	RoleViewer   UserRole = "viewer"
)

// User is a firm staff member. Authentication itself lives at the route
// layer; the backend only stores the account record.
type User struct {
	ID           uint      `json:"id" db:"id" gorm:"primaryKey"`
	Name         string    `json:"name" db:"name" gorm:"type:text;not null"`
	Email        string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex"`
	PasswordHash string    `json:"-" db:"password_hash" gorm:"type:text;not null"`
	Role         UserRole  `json:"role" db:"role" gorm:"type:varchar(20);not null"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}
