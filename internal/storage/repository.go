// Package storage persists tone history and mapping runs, the "persistent
// storage of recent-tone history" spec.md §1 names as an external
// collaborator, using the teacher's gorm/Postgres stack.
package storage

import (
	"encoding/json"
	"fmt"

	"github.com/toneforge/toneforge-api/internal/models"
	"github.com/toneforge/toneforge-api/internal/tone"
	"gorm.io/gorm"
)

// Repository wraps a gorm DB handle with tone-domain persistence methods.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a Repository over an already-connected gorm DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Migrate runs auto-migration for every table this service owns: the
// tone-domain tables plus the user/auth tables needed when AUTH_MODE=local.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&models.User{},
		&models.UserCredits{},
		&models.UsageLog{},
		&models.OAuthProvider{},
		&models.EmailVerificationToken{},
		&models.InvitationCode{},
		&models.ToneHistoryEntry{},
		&models.MappingRun{},
	)
}

// SaveToneHistory records one tone-engineer result for userID.
func (r *Repository) SaveToneHistory(
	userID uint, description string, sanitized tone.SanitizedTone, mappingSummary string,
) (*models.ToneHistoryEntry, error) {
	toneJSON, err := json.Marshal(sanitized.Parameters)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal sanitized tone: %w", err)
	}
	warningsJSON, err := json.Marshal(sanitized.Warnings)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal warnings: %w", err)
	}

	entry := &models.ToneHistoryEntry{
		UserID:            userID,
		Description:       description,
		SanitizedToneJSON: string(toneJSON),
		MappingSummary:    mappingSummary,
		WarningsJSON:      string(warningsJSON),
	}
	if err := r.db.Create(entry).Error; err != nil {
		return nil, fmt.Errorf("storage: save tone history: %w", err)
	}
	return entry, nil
}

// RecentToneHistory returns the most recent limit tone history entries for
// userID, newest first.
func (r *Repository) RecentToneHistory(userID uint, limit int) ([]models.ToneHistoryEntry, error) {
	var entries []models.ToneHistoryEntry
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("storage: query tone history: %w", err)
	}
	return entries, nil
}

// SaveMappingRun records what host/apply actually executed.
func (r *Repository) SaveMappingRun(
	userID uint, track int, actions []tone.Action, requiresResnapshot bool, undoTransactionID string,
) (*models.MappingRun, error) {
	actionsJSON, err := json.Marshal(actions)
	if err != nil {
		return nil, fmt.Errorf("storage: marshal actions: %w", err)
	}

	run := &models.MappingRun{
		UserID:             userID,
		Track:              track,
		ActionsJSON:        string(actionsJSON),
		RequiresResnapshot: requiresResnapshot,
		UndoTransactionID:  undoTransactionID,
	}
	if err := r.db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("storage: save mapping run: %w", err)
	}
	return run, nil
}
