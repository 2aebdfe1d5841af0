package models

import (
	"time"

	"gorm.io/datatypes"
)

// Moodboard is a collection of reference images and swatches for a project.
// Items is an ordered JSON array of {url, note, position} entries.
type Moodboard struct {
	ID        uint  `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID *uint `json:"projectId" db:"project_id" gorm:"index"`

	Name  string         `json:"name" db:"name" gorm:"type:text;not null"`
	Items datatypes.JSON `json:"items" db:"items"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
