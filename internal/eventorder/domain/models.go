// Package domain contains event registration orders.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EventOrder is one event registration purchase. The purchaser may or may
// not be linked to a family; unlinked orders cannot be invoiced.
type EventOrder struct {
	ID             snowflake.ID  `gorm:"primaryKey" json:"id"`
	FamilyID       *snowflake.ID `gorm:"index" json:"family_id,omitempty"`
	PurchaserName  string        `gorm:"not null" json:"purchaser_name"`
	PurchaserEmail string        `gorm:"not null" json:"purchaser_email"`
	EventName      string        `gorm:"not null" json:"event_name"`
	TicketQuantity int64         `gorm:"not null;default:1" json:"ticket_quantity"`
	TotalCents     int64         `gorm:"not null" json:"total_cents"`
	Invoiced       bool          `gorm:"not null;default:false;index" json:"invoiced"`
	OrderedAt      time.Time     `gorm:"not null" json:"ordered_at"`
	CreatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt      time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (EventOrder) TableName() string { return "event_orders" }
