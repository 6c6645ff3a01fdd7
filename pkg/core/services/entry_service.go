package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/wadjakorntonsri/interne/pkg/core/access"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/core/visibility"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type EntryService struct {
	repo     ports.Repository
	clock    clock.Clock
	validate *validator.Validate
}

func NewEntryService(repo ports.Repository, clk clock.Clock) *EntryService {
	return &EntryService{repo: repo, clock: clk, validate: newValidator()}
}

func (s *EntryService) List(ctx context.Context, actorID, filter string) ([]domain.EntryView, error) {
	now := s.clock.Now()
	candidates, err := s.repo.EntriesVisibleTo(ctx, actorID)
	if err != nil {
		return nil, err
	}
	return visibility.Aggregate(actorID, candidates, visibility.ParseFilter(filter), now), nil
}

func (s *EntryService) ListByTag(ctx context.Context, actorID, tag string) ([]domain.EntryView, error) {
	now := s.clock.Now()
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return []domain.EntryView{}, nil
	}
	candidates, err := s.repo.EntriesWithTag(ctx, actorID, tag)
	if err != nil {
		return nil, err
	}
	return visibility.Aggregate(actorID, candidates, visibility.FilterAll, now), nil
}

// Get returns an entry with its tags to anyone allowed to see it.
func (s *EntryService) Get(ctx context.Context, actorID, entryID string) (*domain.EntryDetail, error) {
	now := s.clock.Now()
	entry, err := s.viewable(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	tags, err := s.repo.EntryTags(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	count, err := s.repo.VisitCount(ctx, entry.ID)
	if err != nil {
		return nil, err
	}

	return &domain.EntryDetail{
		Entry: *entry,
		Tags:  tags,
		View:  visibility.View(actorID, domain.EntryWithCount{Entry: *entry, VisitCount: count}, now),
	}, nil
}

func (s *EntryService) Create(ctx context.Context, actorID string, in domain.EntryInput) (*domain.Entry, error) {
	in = normalizeEntryInput(in)
	if err := check(s.validate, in); err != nil {
		return nil, err
	}
	unit, err := domain.ParseInterval(in.Interval)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	entry := &domain.Entry{
		UserID:      actorID,
		URL:         in.URL,
		Title:       in.Title,
		Description: optional(in.Description),
		Duration:    in.Duration,
		Interval:    unit,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if entry.CollectionID, err = s.assignableCollection(ctx, actorID, in.CollectionID, nil); err != nil {
		return nil, err
	}

	if err := s.repo.CreateEntry(ctx, entry, in.Tags); err != nil {
		return nil, err
	}
	return entry, nil
}

// Update rewrites an entry the actor owns. Anything else is ignored.
func (s *EntryService) Update(ctx context.Context, actorID, entryID string, in domain.EntryInput) error {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !access.CanMutateEntry(actorID, *entry) {
		return nil
	}

	in = normalizeEntryInput(in)
	if err := check(s.validate, in); err != nil {
		return err
	}
	unit, err := domain.ParseInterval(in.Interval)
	if err != nil {
		return err
	}

	entry.URL = in.URL
	entry.Title = in.Title
	entry.Description = optional(in.Description)
	entry.Duration = in.Duration
	entry.Interval = unit
	entry.UpdatedAt = s.clock.Now()
	if entry.CollectionID, err = s.assignableCollection(ctx, actorID, in.CollectionID, entry.CollectionID); err != nil {
		return err
	}

	_, err = s.repo.UpdateEntry(ctx, entry, in.Tags)
	return err
}

func (s *EntryService) Delete(ctx context.Context, actorID, entryID string) error {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if !access.CanMutateEntry(actorID, *entry) {
		return nil
	}
	_, err = s.repo.DeleteEntry(ctx, entryID, actorID)
	return err
}

// Visit marks the entry as just reviewed and returns its new state.
// Viewers who do not own the entry get its current state back unchanged.
func (s *EntryService) Visit(ctx context.Context, actorID, entryID string) (*domain.EntryView, error) {
	now := s.clock.Now()
	entry, err := s.viewable(ctx, actorID, entryID)
	if err != nil {
		return nil, err
	}

	if access.CanMutateEntry(actorID, *entry) {
		visit := &domain.Visit{EntryID: entry.ID, UserID: actorID, VisitedAt: now}
		if err := s.repo.RecordVisit(ctx, visit); err != nil {
			return nil, err
		}
		entry.DismissedAt = &visit.VisitedAt
	}

	count, err := s.repo.VisitCount(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	view := visibility.View(actorID, domain.EntryWithCount{Entry: *entry, VisitCount: count}, now)
	return &view, nil
}

// viewable loads an entry and hides it behind ErrNotFound when the actor
// may not see it.
func (s *EntryService) viewable(ctx context.Context, actorID, entryID string) (*domain.Entry, error) {
	entry, err := s.repo.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	m, err := membership(ctx, s.repo, actorID, *entry)
	if err != nil {
		return nil, err
	}
	if !access.CanViewEntry(actorID, *entry, m) {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// assignableCollection resolves the requested collection id. An entry keeps
// its current collection when the request names it again; any other
// collection the actor cannot use is dropped.
func (s *EntryService) assignableCollection(ctx context.Context, actorID, requested string, current *string) (*string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return nil, nil
	}
	if current != nil && *current == requested {
		return current, nil
	}

	c, err := s.repo.GetCollection(ctx, requested)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	isMember, err := s.repo.IsMember(ctx, c.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.CanAssignCollection(actorID, *c, isMember) {
		return nil, nil
	}
	return &c.ID, nil
}

func membership(ctx context.Context, repo ports.CollectionRepository, actorID string, e domain.Entry) (access.Membership, error) {
	if e.CollectionID == nil || e.UserID == actorID {
		return access.Membership{}, nil
	}
	c, err := repo.GetCollection(ctx, *e.CollectionID)
	if errors.Is(err, domain.ErrNotFound) {
		return access.Membership{}, nil
	}
	if err != nil {
		return access.Membership{}, err
	}
	isMember, err := repo.IsMember(ctx, c.ID, actorID)
	if err != nil {
		return access.Membership{}, err
	}
	return access.Membership{CollectionOwnerID: c.OwnerID, IsMember: isMember}, nil
}

func normalizeEntryInput(in domain.EntryInput) domain.EntryInput {
	in.URL = strings.TrimSpace(in.URL)
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Interval = strings.ToLower(strings.TrimSpace(in.Interval))
	in.Tags = domain.NormalizeTags(in.Tags)
	return in
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
