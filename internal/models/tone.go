package models

import (
	"time"

	"gorm.io/gorm"
)

// ToneHistoryEntry persists one tone-engineer result for a user, per
// SPEC_FULL.md §4.3: the free-text description, the sanitized spec the LLM
// ultimately produced, and the mapping summary/warnings from applying it.
type ToneHistoryEntry struct {
	ID                uint           `gorm:"primarykey" json:"id"`
	CreatedAt         time.Time      `json:"created_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	UserID            uint           `gorm:"index" json:"user_id"`
	Description       string         `gorm:"type:text;not null" json:"description"`
	SanitizedToneJSON string         `gorm:"type:text;not null" json:"sanitized_tone_json"`
	MappingSummary    string         `gorm:"type:text" json:"mapping_summary"`
	WarningsJSON      string         `gorm:"type:text" json:"warnings_json"`
}

// MappingRun records what a host/apply call actually executed, for audit
// and for rebuilding the corresponding undo transaction.
type MappingRun struct {
	ID                 uint           `gorm:"primarykey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	UserID             uint           `gorm:"index" json:"user_id"`
	Track              int            `json:"track"`
	ActionsJSON        string         `gorm:"type:text;not null" json:"actions_json"`
	RequiresResnapshot bool           `json:"requires_resnapshot"`
	UndoTransactionID  string         `gorm:"index" json:"undo_transaction_id"`
}
