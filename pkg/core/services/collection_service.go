package services

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/wadjakorntonsri/interne/pkg/core/access"
	"github.com/wadjakorntonsri/interne/pkg/core/clock"
	"github.com/wadjakorntonsri/interne/pkg/core/domain"
	"github.com/wadjakorntonsri/interne/pkg/core/visibility"
	"github.com/wadjakorntonsri/interne/pkg/ports"
)

type CollectionService struct {
	repo     ports.Repository
	clock    clock.Clock
	validate *validator.Validate
}

func NewCollectionService(repo ports.Repository, clk clock.Clock) *CollectionService {
	return &CollectionService{repo: repo, clock: clk, validate: newValidator()}
}

func (s *CollectionService) List(ctx context.Context, actorID string) ([]domain.CollectionView, error) {
	rows, err := s.repo.CollectionsVisibleTo(ctx, actorID)
	if err != nil {
		return nil, err
	}

	views := make([]domain.CollectionView, 0, len(rows))
	for _, c := range rows {
		views = append(views, domain.CollectionView{
			ID:          c.ID,
			Name:        c.Name,
			IsOwner:     c.OwnerID == actorID,
			MemberCount: c.MemberCount + 1,
		})
	}
	return views, nil
}

func (s *CollectionService) Create(ctx context.Context, actorID, name string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if err := check(s.validate, collectionInput{Name: name}); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	collection := &domain.Collection{
		OwnerID:    actorID,
		Name:       name,
		InviteCode: uuid.NewString(),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateCollection(ctx, collection); err != nil {
		return nil, err
	}
	return collection, nil
}

// Show returns the collection with its members and entries. The invite code
// is only included for the owner.
func (s *CollectionService) Show(ctx context.Context, actorID, collectionID string) (*domain.CollectionDetail, error) {
	now := s.clock.Now()
	collection, err := s.repo.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	isMember, err := s.repo.IsMember(ctx, collection.ID, actorID)
	if err != nil {
		return nil, err
	}
	if !access.CanViewCollection(actorID, *collection, isMember) {
		return nil, domain.ErrNotFound
	}

	members, err := s.repo.CollectionMembers(ctx, collection.ID)
	if err != nil {
		return nil, err
	}
	entries, err := s.repo.EntriesInCollection(ctx, collection.ID)
	if err != nil {
		return nil, err
	}

	isOwner := access.CanMutateCollection(actorID, *collection)
	if !isOwner {
		collection.InviteCode = ""
	}
	return &domain.CollectionDetail{
		Collection: *collection,
		IsOwner:    isOwner,
		Members:    members,
		Entries:    visibility.Aggregate(actorID, entries, visibility.FilterAll, now),
	}, nil
}

// Join redeems an invite code. Joining twice, or joining one's own
// collection, changes nothing.
func (s *CollectionService) Join(ctx context.Context, actorID, inviteCode string) (*domain.Collection, error) {
	inviteCode = strings.TrimSpace(inviteCode)
	if inviteCode == "" {
		return nil, domain.ErrNotFound
	}
	collection, err := s.repo.GetCollectionByInvite(ctx, inviteCode)
	if err != nil {
		return nil, err
	}
	isMember, err := s.repo.IsMember(ctx, collection.ID, actorID)
	if err != nil {
		return nil, err
	}

	if access.Join(actorID, *collection, isMember) == access.JoinAdd {
		member := &domain.CollectionMember{
			CollectionID: collection.ID,
			UserID:       actorID,
			JoinedAt:     s.clock.Now(),
		}
		if err := s.repo.AddMember(ctx, member); err != nil {
			return nil, err
		}
	}
	return collection, nil
}

func (s *CollectionService) Rename(ctx context.Context, actorID, collectionID, name string) error {
	collection, err := s.owned(ctx, actorID, collectionID)
	if err != nil || collection == nil {
		return err
	}

	name = strings.TrimSpace(name)
	if err := check(s.validate, collectionInput{Name: name}); err != nil {
		return err
	}
	_, err = s.repo.RenameCollection(ctx, collection.ID, actorID, name, s.clock.Now())
	return err
}

func (s *CollectionService) Delete(ctx context.Context, actorID, collectionID string) error {
	collection, err := s.owned(ctx, actorID, collectionID)
	if err != nil || collection == nil {
		return err
	}
	_, err = s.repo.DeleteCollection(ctx, collection.ID, actorID)
	return err
}

func (s *CollectionService) RegenerateInvite(ctx context.Context, actorID, collectionID string) (string, error) {
	collection, err := s.owned(ctx, actorID, collectionID)
	if err != nil || collection == nil {
		return "", err
	}

	code := uuid.NewString()
	ok, err := s.repo.RotateInvite(ctx, collection.ID, actorID, code, s.clock.Now())
	if err != nil || !ok {
		return "", err
	}
	return code, nil
}

// Leave drops the actor's own membership. Owners cannot leave.
func (s *CollectionService) Leave(ctx context.Context, actorID, collectionID string) error {
	collection, err := s.repo.GetCollection(ctx, collectionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	isMember, err := s.repo.IsMember(ctx, collection.ID, actorID)
	if err != nil {
		return err
	}
	if !access.CanLeaveCollection(actorID, *collection, isMember) {
		return nil
	}
	_, err = s.repo.RemoveMember(ctx, collection.ID, actorID)
	return err
}

func (s *CollectionService) RemoveMember(ctx context.Context, actorID, collectionID, memberID string) error {
	collection, err := s.owned(ctx, actorID, collectionID)
	if err != nil || collection == nil {
		return err
	}
	_, err = s.repo.RemoveMember(ctx, collection.ID, memberID)
	return err
}

// owned returns the collection when the actor owns it, and nil without an
// error when it is missing or belongs to someone else.
func (s *CollectionService) owned(ctx context.Context, actorID, collectionID string) (*domain.Collection, error) {
	collection, err := s.repo.GetCollection(ctx, collectionID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !access.CanMutateCollection(actorID, *collection) {
		return nil, nil
	}
	return collection, nil
}
