package domain

import "time"

// Duration bounds for entries; EntryInput's validate tag repeats them.
const (
	MinDuration = 1
	MaxDuration = 1000
)

// Entry is a saved link with a review schedule. DismissedAt is nil until
// the first visit.
type Entry struct {
	ID           string     `json:"id"`
	UserID       string     `json:"user_id"`
	CollectionID *string    `json:"collection_id,omitempty"`
	URL          string     `json:"url"`
	Title        string     `json:"title"`
	Description  *string    `json:"description,omitempty"`
	Duration     int64      `json:"duration"`
	Interval     Interval   `json:"interval"`
	DismissedAt  *time.Time `json:"dismissed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// EntryWithCount pairs an entry with the number of visits recorded for it.
type EntryWithCount struct {
	Entry
	VisitCount int64
}

// EntryView is the rendered state of an entry at a given instant.
type EntryView struct {
	ID           string  `json:"id"`
	URL          string  `json:"url"`
	Title        string  `json:"title"`
	Description  *string `json:"description,omitempty"`
	LastSeen     string  `json:"last_seen,omitempty"`
	Remaining    string  `json:"remaining,omitempty"`
	IsAvailable  bool    `json:"is_available"`
	VisitCount   int64   `json:"visit_count"`
	CollectionID *string `json:"collection_id,omitempty"`
	IsOwner      bool    `json:"is_owner"`
}

// EntryDetail is what the owner edits.
type EntryDetail struct {
	Entry Entry     `json:"entry"`
	Tags  []string  `json:"tags"`
	View  EntryView `json:"view"`
}

// EntryInput carries user-supplied fields for create and update.
type EntryInput struct {
	URL          string   `json:"url" validate:"required,max=2048,httpscheme"`
	Title        string   `json:"title" validate:"required,max=500"`
	Description  string   `json:"description" validate:"max=5000"`
	Duration     int64    `json:"duration" validate:"min=1,max=1000"`
	Interval     string   `json:"interval" validate:"required,oneof=hours days weeks months years"`
	CollectionID string   `json:"collection_id"`
	Tags         []string `json:"tags" validate:"max=20,dive,max=50"`
}
