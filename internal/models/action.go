package models

import (
	"time"

	"gorm.io/gorm"
)

// Action processing outcomes.
const (
	ActionSucceeded = "succeeded"
	ActionRejected  = "rejected"
)

// ActionRecord is the audit trail of dispatched actions. Every submitted
// action ends up here exactly once, with the rejection reason when the
// engine refused it.
type ActionRecord struct {
	gorm.Model
	ActionID    string    `gorm:"size:36;uniqueIndex;not null"`
	Kind        string    `gorm:"size:32;index;not null"`
	Caller      string    `gorm:"size:44;index"`
	Status      string    `gorm:"size:16;index;not null"`
	Reason      string    `gorm:"size:255"`
	Payload     string    `gorm:"type:jsonb"`
	ProcessedAt time.Time `gorm:"index"`
}
