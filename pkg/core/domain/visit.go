package domain

import "time"

// Visit records one review of an entry. Rows are only ever inserted.
type Visit struct {
	ID        string    `json:"id"`
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	VisitedAt time.Time `json:"visited_at"`
}
