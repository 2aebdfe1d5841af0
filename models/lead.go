package models

import (
	"time"

	"gorm.io/datatypes"
)

type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadQualified LeadStatus = "qualified"
	LeadWon       LeadStatus = "won"
	LeadLost      LeadStatus = "lost"
)

// Lead is a prospective client. Metadata holds source-specific fields
// (campaign ids, referral info) that vary per acquisition channel.
type Lead struct {
	ID       uint              `json:"id" db:"id" gorm:"primaryKey"`
	Name     string            `json:"name" db:"name" gorm:"type:text;not null"`
	Email    string            `json:"email" db:"email" gorm:"type:text"`
	Phone    string            `json:"phone" db:"phone" gorm:"type:varchar(50)"`
	Source   string            `json:"source" db:"source" gorm:"type:varchar(100)"`
	Status   LeadStatus        `json:"status" db:"status" gorm:"type:varchar(50)"`
	Budget   float64           `json:"budget" db:"budget"`
	Notes    string            `json:"notes" db:"notes" gorm:"type:text"`
	Metadata datatypes.JSONMap `json:"metadata" db:"metadata"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
