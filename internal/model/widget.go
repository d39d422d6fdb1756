package model

import (
	"time"

	"github.com/google/uuid"
)

// Widget is the record type the demo server exposes through the /widgets
// endpoint. It exists to give GridifyQuery something concrete to query:
// a mix of a string, a numeric, a bool, a nullable time, a UUID, and a
// string-slice field so every RHS value kind and every membership
// operator has a field mapped to it by the /widgets handler.
type Widget struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name      string     `gorm:"index" json:"name"`
	Category  string     `json:"category"`
	Price     float64    `json:"price"`
	InStock   bool       `json:"inStock"`
	Tags      []string   `gorm:"-" json:"tags"`
	ExpiresAt *time.Time `json:"expiresAt,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// TableName pins the gorm table name independent of the type name.
func (Widget) TableName() string {
	return "widgets"
}
