package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusTrial     LeadStatus = "trial"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

// Lead is a prospective family in the CRM pipeline. Mailing-list
// synchronization consumes these records through its own pipeline.
type Lead struct {
	ID          snowflake.ID  `gorm:"primaryKey" json:"id"`
	ContactName string        `gorm:"not null" json:"contact_name"`
	Email       string        `gorm:"not null;index" json:"email"`
	Source      string        `gorm:"type:text" json:"source,omitempty"`
	Status      LeadStatus    `gorm:"type:text;not null;default:'new';index" json:"status"`
	Notes       string        `gorm:"type:text" json:"notes,omitempty"`
	FamilyID    *snowflake.ID `gorm:"index" json:"family_id,omitempty"`
	CreatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Lead) TableName() string { return "leads" }
