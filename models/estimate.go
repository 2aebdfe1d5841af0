package models

import (
	"time"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

// Estimate is an AI-drafted cost estimate for a project brief. Embedding is
// the vector embedding of the brief, used to find comparable past estimates.
type Estimate struct {
	ID        uint  `json:"id" db:"id" gorm:"primaryKey"`
	ProjectID *uint `json:"projectId" db:"project_id" gorm:"index"`
	ClientID  *uint `json:"clientId" db:"client_id" gorm:"index"`

	Brief     string          `json:"brief" db:"brief" gorm:"type:text;not null"`
	Total     float64         `json:"total" db:"total"`
	LineItems datatypes.JSON  `json:"lineItems" db:"line_items"`
	Embedding pgvector.Vector `json:"-" db:"embedding" gorm:"type:vector(1536)"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
