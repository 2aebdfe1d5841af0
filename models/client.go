package models

import "time"

// Client is a firm customer; projects, proposals and estimates reference it.
type Client struct {
	ID      uint   `json:"id" db:"id" gorm:"primaryKey"`
	Name    string `json:"name" db:"name" gorm:"type:text;not null"`
	Company string `json:"company" db:"company" gorm:"type:text"`
	Email   string `json:"email" db:"email" gorm:"type:text"`
	Phone   string `json:"phone" db:"phone" gorm:"type:varchar(50)"`
	Address string `json:"address" db:"address" gorm:"type:text"`
	Notes   string `json:"notes" db:"notes" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
