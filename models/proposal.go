package models

import (
	"time"

	"gorm.io/datatypes"
)

type ProposalStatus string

const (
	ProposalDraft    ProposalStatus = "draft"
	ProposalSent     ProposalStatus = "sent"
	ProposalAccepted ProposalStatus = "accepted"
	ProposalDeclined ProposalStatus = "declined"
)

// Proposal is a priced offer sent to a client, optionally tied to a project.
// Items is the line-item breakdown as sent; it is never edited in place.
type Proposal struct {
	ID        uint  `json:"id" db:"id" gorm:"primaryKey"`
	ClientID  uint  `json:"clientId" db:"client_id" gorm:"index;not null"`
	ProjectID *uint `json:"projectId" db:"project_id" gorm:"index"`

	Title  string         `json:"title" db:"title" gorm:"type:text;not null"`
	Status ProposalStatus `json:"status" db:"status" gorm:"type:varchar(50)"`
	Amount float64        `json:"amount" db:"amount"`
	Items  datatypes.JSON `json:"items" db:"items"`
	SentAt *time.Time     `json:"sentAt" db:"sent_at"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
