package services

import (
	"context"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/core/tagcloud"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type TagService struct {
	repo ports.EntryRepository
}

func NewTagService(repo ports.EntryRepository) *TagService {
	return &TagService{repo: repo}
}

// Cloud weighs the tags on the actor's own entries.
func (s *TagService) Cloud(ctx context.Context, actorID string) ([]domain.TagWeight, error) {
	counts, err := s.repo.TagsForUser(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return tagcloud.Weigh(counts), nil
}
