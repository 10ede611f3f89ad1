package models

import (
	"time"

	"github.com/google/uuid"
)

// CodeSequenceModel is the counter row behind generated document codes.
type CodeSequenceModel struct {
	TenantID  uuid.UUID `gorm:"type:uuid;primaryKey"`
	Prefix    string    `gorm:"type:varchar(10);primaryKey"`
	LastValue int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CodeSequenceModel) TableName() string {
	return "code_sequences"
}
