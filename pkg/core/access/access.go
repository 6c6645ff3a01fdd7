// Package access decides who may see or change entries and collections.
//
// Callers treat a denied read as a missing record and a denied write as a
// no-op.
package access

import "github.com/wadjakorntonsri/interne/pkg/core/domain"

// Membership describes the actor's relation to the collection an entry
// belongs to. The zero value means the entry is private or the actor has
// no relation to its collection.
type Membership struct {
	CollectionOwnerID string
	IsMember          bool
}

func CanViewEntry(actorID string, e domain.Entry, m Membership) bool {
	if actorID == "" {
		return false
	}
	if e.UserID == actorID {
		return true
	}
	if e.CollectionID == nil {
		return false
	}
	return m.IsMember || m.CollectionOwnerID == actorID
}

// CanMutateEntry covers edit, delete and visit. Sharing an entry through a
// collection never hands these rights to anyone else.
func CanMutateEntry(actorID string, e domain.Entry) bool {
	return actorID != "" && e.UserID == actorID
}

func CanViewCollection(actorID string, c domain.Collection, isMember bool) bool {
	if actorID == "" {
		return false
	}
	return c.OwnerID == actorID || isMember
}

// CanMutateCollection covers rename, delete, invite rotation and member removal.
func CanMutateCollection(actorID string, c domain.Collection) bool {
	return actorID != "" && c.OwnerID == actorID
}

// CanLeaveCollection is false for the owner, who holds no membership row.
func CanLeaveCollection(actorID string, c domain.Collection, isMember bool) bool {
	return actorID != "" && isMember && c.OwnerID != actorID
}

// CanAssignCollection reports whether the actor may file an entry into c.
func CanAssignCollection(actorID string, c domain.Collection, isMember bool) bool {
	return CanViewCollection(actorID, c, isMember)
}

type JoinOutcome int

const (
	JoinNoop JoinOutcome = iota
	JoinAdd
)

// Join decides what redeeming an invite code does. Owners and existing
// members are left as they are.
func Join(actorID string, c domain.Collection, isMember bool) JoinOutcome {
	if actorID == "" || c.OwnerID == actorID || isMember {
		return JoinNoop
	}
	return JoinAdd
}
