package models

import (
	"time"

	"gorm.io/gorm"
)

// Completion is a journal entry written every time a record is marked done
type Completion struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	RecordID    string    `gorm:"index;not null" json:"record_id"`
	Description string    `json:"description"`
	Projects    string    `json:"projects"` // space separated
	Priority    string    `json:"priority"`
	Line        string    `gorm:"not null" json:"line"` // exact line appended to done.txt
	Source      string    `gorm:"default:tui" json:"source"`
	CompletedAt time.Time `gorm:"index;not null" json:"completed_at"`
}
