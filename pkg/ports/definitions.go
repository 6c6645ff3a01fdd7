package ports

import (
	"context"
	"io"
	"time"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

// EntryRepository defines storage operations for entries, visits and tags
type EntryRepository interface {
	CreateEntry(ctx context.Context, entry *domain.Entry, tags []string) error
	GetEntry(ctx context.Context, id string) (*domain.Entry, error)
	// UpdateEntry rewrites the entry and replaces its tag set. Rows not
	// owned by entry.UserID are left alone.
	UpdateEntry(ctx context.Context, entry *domain.Entry, tags []string) (bool, error)
	DeleteEntry(ctx context.Context, id, ownerID string) (bool, error)
	EntryTags(ctx context.Context, entryID string) ([]string, error)
	VisitCount(ctx context.Context, entryID string) (int64, error)

	// Reads feeding the visibility aggregator
	EntriesVisibleTo(ctx context.Context, userID string) ([]domain.EntryWithCount, error)
	EntriesInCollection(ctx context.Context, collectionID string) ([]domain.EntryWithCount, error)
	EntriesWithTag(ctx context.Context, userID, tag string) ([]domain.EntryWithCount, error)
	OwnedEntries(ctx context.Context, userID string) ([]domain.Entry, error)

	// RecordVisit inserts the visit and moves the entry's dismissed_at in
	// one transaction.
	RecordVisit(ctx context.Context, visit *domain.Visit) error

	TagsForUser(ctx context.Context, userID string) ([]domain.TagCount, error)
	ImportEntries(ctx context.Context, entries []domain.ImportedEntry) error
}

// CollectionRepository defines storage operations for collections and memberships
type CollectionRepository interface {
	CreateCollection(ctx context.Context, collection *domain.Collection) error
	GetCollection(ctx context.Context, id string) (*domain.Collection, error)
	GetCollectionByInvite(ctx context.Context, code string) (*domain.Collection, error)
	CollectionsVisibleTo(ctx context.Context, userID string) ([]domain.CollectionWithCount, error)
	RenameCollection(ctx context.Context, id, ownerID, name string, at time.Time) (bool, error)
	RotateInvite(ctx context.Context, id, ownerID, code string, at time.Time) (bool, error)
	DeleteCollection(ctx context.Context, id, ownerID string) (bool, error)

	IsMember(ctx context.Context, collectionID, userID string) (bool, error)
	IsOwner(ctx context.Context, collectionID, userID string) (bool, error)
	AddMember(ctx context.Context, member *domain.CollectionMember) error
	RemoveMember(ctx context.Context, collectionID, userID string) (bool, error)
	CollectionMembers(ctx context.Context, collectionID string) ([]domain.User, error)
}

// UserRepository defines storage operations for users
type UserRepository interface {
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByInvite(ctx context.Context, code string) (*domain.User, error)
}

// Repository is everything the services need from the store.
type Repository interface {
	EntryRepository
	CollectionRepository
	UserRepository
}

// TokenRevoker remembers session tokens that were logged out before expiry
type TokenRevoker interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// EntryService defines the business logic for entries. The acting user
// is always passed explicitly.
type EntryService interface {
	List(ctx context.Context, actorID, filter string) ([]domain.EntryView, error)
	Get(ctx context.Context, actorID, entryID string) (*domain.EntryDetail, error)
	Create(ctx context.Context, actorID string, in domain.EntryInput) (*domain.Entry, error)
	Update(ctx context.Context, actorID, entryID string, in domain.EntryInput) error
	Delete(ctx context.Context, actorID, entryID string) error
	Visit(ctx context.Context, actorID, entryID string) (*domain.EntryView, error)
	ListByTag(ctx context.Context, actorID, tag string) ([]domain.EntryView, error)
}

// CollectionService defines business logic for collections
type CollectionService interface {
	List(ctx context.Context, actorID string) ([]domain.CollectionView, error)
	Create(ctx context.Context, actorID, name string) (*domain.Collection, error)
	Show(ctx context.Context, actorID, collectionID string) (*domain.CollectionDetail, error)
	Join(ctx context.Context, actorID, inviteCode string) (*domain.Collection, error)
	Rename(ctx context.Context, actorID, collectionID, name string) error
	Delete(ctx context.Context, actorID, collectionID string) error
	// RegenerateInvite returns the new code, or "" when the actor is not the owner.
	RegenerateInvite(ctx context.Context, actorID, collectionID string) (string, error)
	Leave(ctx context.Context, actorID, collectionID string) error
	RemoveMember(ctx context.Context, actorID, collectionID, memberID string) error
}

type TagService interface {
	Cloud(ctx context.Context, actorID string) ([]domain.TagWeight, error)
}

type UserService interface {
	Login(ctx context.Context, inviteCode string) (*domain.User, error)
	Get(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, name string, email *string) (*domain.User, error)
	ImportLegacy(ctx context.Context, userID string, r io.Reader) (int, error)
}

type ExportService interface {
	Export(ctx context.Context, actorID string) (*domain.Export, error)
}
