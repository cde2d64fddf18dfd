package domain

import (
	"strings"
	"time"
)

// MemoryCategory classifies a memory-vault entry.
type MemoryCategory string

const (
	MemoryFamilyEvent MemoryCategory = "Family Event"
	MemoryAchievement MemoryCategory = "Achievement"
	MemoryTravel      MemoryCategory = "Travel"
	MemoryMedical     MemoryCategory = "Medical"
	MemoryOther       MemoryCategory = "Other"
)

// IsValid reports whether c is a known category.
func (c MemoryCategory) IsValid() bool {
	switch c {
	case MemoryFamilyEvent, MemoryAchievement, MemoryTravel, MemoryMedical, MemoryOther:
		return true
	default:
		return false
	}
}

// MemoryDateLayout is the calendar-date format used for memory entries.
const MemoryDateLayout = "2006-01-02"

// MemoryEntry is a single personal memory stored in the vault.
type MemoryEntry struct {
	ID        string         `json:"id"`
	PatientID string         `json:"patient_id"`
	Title     string         `json:"title"`
	Date      string         `json:"date"`
	Category  MemoryCategory `json:"category"`
	Notes     string         `json:"notes"`
	Tags      []string       `json:"tags"`
	PhotoURL  string         `json:"photo_url,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Validate checks an entry before it is written to the vault.
func (m *MemoryEntry) Validate() []*ValidationError {
	var errs []*ValidationError
	if strings.TrimSpace(m.Title) == "" {
		errs = append(errs, NewValidationError("title", "is required", m.Title))
	}
	if _, err := time.Parse(MemoryDateLayout, m.Date); err != nil {
		errs = append(errs, NewValidationError("date", "must be formatted as YYYY-MM-DD", m.Date))
	}
	if !m.Category.IsValid() {
		errs = append(errs, NewValidationError("category", "unknown memory category", m.Category))
	}
	return errs
}

// MemoryInsights summarises the contents of a patient's vault.
type MemoryInsights struct {
	Total      int                    `json:"total"`
	Categories map[MemoryCategory]int `json:"categories"`
	Monthly    []MonthlyCount         `json:"monthly"`
	TopTags    []TagCount             `json:"top_tags"`
}

// MonthlyCount is the number of memories dated in one calendar month.
type MonthlyCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// TagCount is the number of memories carrying one tag.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// ChatRole marks who authored a chat message.
type ChatRole string

const (
	ChatRoleUser  ChatRole = "user"
	ChatRoleModel ChatRole = "model"
)

// ChatMessage is one turn of the memory-assistant conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      ChatRole  `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}
