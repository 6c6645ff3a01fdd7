// Package visibility turns stored entries into the filtered, ordered lists
// a user browses.
package visibility

import (
	"sort"
	"time"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/core/schedule"
)

type Filter string

const (
	FilterReady   Filter = "ready"
	FilterWaiting Filter = "waiting"
	FilterUnseen  Filter = "unseen"
	FilterAll     Filter = "all"
)

// ParseFilter falls back to FilterReady for anything it does not know.
func ParseFilter(s string) Filter {
	switch f := Filter(s); f {
	case FilterReady, FilterWaiting, FilterUnseen, FilterAll:
		return f
	}
	return FilterReady
}

func (f Filter) keep(v domain.EntryView) bool {
	switch f {
	case FilterWaiting:
		return !v.IsAvailable
	case FilterUnseen:
		return v.VisitCount == 0
	case FilterAll:
		return true
	}
	return v.IsAvailable
}

// View renders one entry for viewerID at now.
func View(viewerID string, e domain.EntryWithCount, now time.Time) domain.EntryView {
	available, remaining := schedule.Availability(e.Duration, e.Interval, e.DismissedAt, now)
	return domain.EntryView{
		ID:           e.ID,
		URL:          e.URL,
		Title:        e.Title,
		Description:  e.Description,
		LastSeen:     schedule.LastSeen(e.DismissedAt, now),
		Remaining:    remaining,
		IsAvailable:  available,
		VisitCount:   e.VisitCount,
		CollectionID: e.CollectionID,
		IsOwner:      e.UserID == viewerID,
	}
}

// Aggregate renders every candidate against the same now, applies the
// filter and orders the result: never dismissed first, then most recently
// dismissed, then by creation time and id.
func Aggregate(viewerID string, candidates []domain.EntryWithCount, f Filter, now time.Time) []domain.EntryView {
	sorted := make([]domain.EntryWithCount, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return less(sorted[i].Entry, sorted[j].Entry)
	})

	views := make([]domain.EntryView, 0, len(sorted))
	for _, c := range sorted {
		v := View(viewerID, c, now)
		if f.keep(v) {
			views = append(views, v)
		}
	}
	return views
}

func less(a, b domain.Entry) bool {
	switch {
	case a.DismissedAt == nil && b.DismissedAt != nil:
		return true
	case a.DismissedAt != nil && b.DismissedAt == nil:
		return false
	case a.DismissedAt != nil && !a.DismissedAt.Equal(*b.DismissedAt):
		return a.DismissedAt.After(*b.DismissedAt)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}
