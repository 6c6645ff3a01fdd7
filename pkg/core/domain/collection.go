package domain

import "time"

// Collection shares entries with everyone who joined through its invite code.
type Collection struct {
	ID         string    `json:"id"`
	OwnerID    string    `json:"owner_id"`
	Name       string    `json:"name"`
	InviteCode string    `json:"invite_code,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// CollectionMember never includes the owner.
type CollectionMember struct {
	CollectionID string    `json:"collection_id"`
	UserID       string    `json:"user_id"`
	JoinedAt     time.Time `json:"joined_at"`
}

type CollectionWithCount struct {
	Collection
	MemberCount int64
}

// CollectionView is a row of the collection listing. MemberCount includes the owner.
type CollectionView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	IsOwner     bool   `json:"is_owner"`
	MemberCount int64  `json:"member_count"`
}

type CollectionDetail struct {
	Collection Collection  `json:"collection"`
	IsOwner    bool        `json:"is_owner"`
	Members    []User      `json:"members"`
	Entries    []EntryView `json:"entries"`
}
