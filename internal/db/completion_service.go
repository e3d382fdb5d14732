package db

import (
	"fmt"
	"time"

	"github.com/torudo-dev/torudo/internal/models"
)

// RecordCompletion stores a completion entry
func RecordCompletion(entry *models.Completion) error {
	if DB == nil {
		return fmt.Errorf("journal is not initialized")
	}
	if entry.CompletedAt.IsZero() {
		entry.CompletedAt = time.Now()
	}
	if entry.Source == "" {
		entry.Source = "cli"
	}
	if err := DB.Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record completion: %w", err)
	}
	return nil
}

// RecentCompletions returns the newest completions first
func RecentCompletions(limit int) ([]models.Completion, error) {
	if DB == nil {
		return nil, fmt.Errorf("journal is not initialized")
	}

	var completions []models.Completion
	query := DB.Order("completed_at DESC").Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	return completions, nil
}

// CompletionsFor returns every completion recorded for a record id
func CompletionsFor(recordID string) ([]models.Completion, error) {
	if DB == nil {
		return nil, fmt.Errorf("journal is not initialized")
	}

	var completions []models.Completion
	if err := DB.Where("record_id = ?", recordID).Order("completed_at ASC").Find(&completions).Error; err != nil {
		return nil, fmt.Errorf("failed to load completions: %w", err)
	}
	return completions, nil
}

// CountCompletedSince counts completions at or after the given time
func CountCompletedSince(since time.Time) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("journal is not initialized")
	}

	var count int64
	if err := DB.Model(&models.Completion{}).Where("completed_at >= ?", since).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count completions: %w", err)
	}
	return count, nil
}

// Journal adapts the package level database to the board's journal interface
type Journal struct{}

// Record stores a completion made from the board
func (Journal) Record(entry models.Completion) error {
	return RecordCompletion(&entry)
}
