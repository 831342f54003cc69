package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Note - free-form note. Schema-less leftovers (tags) live in a JSON column;
// notes are addressed by an opaque uuid like the document store they
// replaced.
type Note struct {
	ID        string         `gorm:"type:uuid;primaryKey"`
	Title     string         `gorm:"size:200;not null"`
	Content   string         `gorm:"type:text"`
	Tags      datatypes.JSON `gorm:"type:jsonb"`
	ClientID  *uint          `gorm:"index"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
