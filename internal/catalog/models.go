package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Service defines a bookable dental-hygiene service.
// Price and DepositAmount are integer minor units (halers) — never floats,
// so financial arithmetic cannot accumulate rounding errors.
type Service struct {
	ID              uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	Name            string    `gorm:"not null" json:"name"`
	Slug            string    `gorm:"uniqueIndex;not null" json:"slug"`
	Description     string    `gorm:"type:text" json:"description,omitempty"`
	Price           int64     `gorm:"not null;check:price >= 0" json:"price"`
	DepositAmount   int64     `gorm:"not null;check:deposit_amount >= 0" json:"depositAmount"`
	DurationMinutes int       `gorm:"not null" json:"durationMinutes"`
	Active          bool      `gorm:"default:true;index" json:"active"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// TableName sets the table name for Service
func (Service) TableName() string {
	return "services"
}
