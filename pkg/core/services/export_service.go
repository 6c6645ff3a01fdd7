package services

import (
	"context"
	"time"

	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type ExportService struct {
	repo  ports.EntryRepository
	clock clock.Clock
}

func NewExportService(repo ports.EntryRepository, clk clock.Clock) *ExportService {
	return &ExportService{repo: repo, clock: clk}
}

// Export snapshots the actor's own entries, oldest first, with their tags.
// Shared entries owned by others are not included.
func (s *ExportService) Export(ctx context.Context, actorID string) (*domain.Export, error) {
	exportedAt := s.clock.Now()
	entries, err := s.repo.OwnedEntries(ctx, actorID)
	if err != nil {
		return nil, err
	}

	out := &domain.Export{ExportedAt: exportedAt, Entries: make([]domain.ExportedEntry, 0, len(entries))}
	for _, e := range entries {
		tags, err := s.repo.EntryTags(ctx, e.ID)
		if err != nil {
			return nil, err
		}
		out.Entries = append(out.Entries, domain.ExportedEntry{
			ID:          e.ID,
			URL:         e.URL,
			Title:       e.Title,
			Description: e.Description,
			Duration:    e.Duration,
			Interval:    e.Interval,
			DismissedAt: e.DismissedAt,
			CreatedAt:   e.CreatedAt,
			UpdatedAt:   e.UpdatedAt,
			Tags:        tags,
		})
	}
	return out, nil
}

// ExportFilename names the download after the day it was taken.
func ExportFilename(exportedAt time.Time) string {
	return "interne-export-" + exportedAt.UTC().Format("2006-01-02") + ".json"
}
