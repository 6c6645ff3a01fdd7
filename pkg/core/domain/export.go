package domain

import "time"

// Export is the downloadable snapshot of a user's own entries.
type Export struct {
	ExportedAt time.Time       `json:"exported_at"`
	Entries    []ExportedEntry `json:"entries"`
}

type ExportedEntry struct {
	ID          string     `json:"id"`
	URL         string     `json:"url"`
	Title       string     `json:"title"`
	Description *string    `json:"description"`
	Duration    int64      `json:"duration"`
	Interval    Interval   `json:"interval"`
	DismissedAt *time.Time `json:"dismissed_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Tags        []string   `json:"tags"`
}

// ImportedEntry is one entry from a legacy dump, ready to be stored with
// VisitCount synthetic visit rows.
type ImportedEntry struct {
	Entry      Entry
	VisitCount int64
}
