package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

const (
	alice = "alice"
	bob   = "bob"
	carol = "carol"
)

func shared(owner, collectionID string) domain.Entry {
	return domain.Entry{ID: "e1", UserID: owner, CollectionID: &collectionID}
}

func TestCanViewEntry(t *testing.T) {
	private := domain.Entry{ID: "e1", UserID: alice}
	inCollection := shared(alice, "c1")

	tests := []struct {
		name  string
		actor string
		entry domain.Entry
		m     Membership
		want  bool
	}{
		{"owner private", alice, private, Membership{}, true},
		{"stranger private", bob, private, Membership{}, false},
		{"member flag ignored for private", bob, private, Membership{IsMember: true}, false},
		{"owner shared", alice, inCollection, Membership{CollectionOwnerID: carol}, true},
		{"member shared", bob, inCollection, Membership{CollectionOwnerID: carol, IsMember: true}, true},
		{"collection owner", carol, inCollection, Membership{CollectionOwnerID: carol}, true},
		{"stranger shared", bob, inCollection, Membership{CollectionOwnerID: carol}, false},
		{"anonymous", "", private, Membership{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanViewEntry(tt.actor, tt.entry, tt.m))
		})
	}
}

func TestCanMutateEntry_OwnerOnly(t *testing.T) {
	e := shared(alice, "c1")

	assert.True(t, CanMutateEntry(alice, e))
	assert.False(t, CanMutateEntry(bob, e), "members may view but not change")
	assert.False(t, CanMutateEntry(carol, e), "collection owner may not change other users' entries")
	assert.False(t, CanMutateEntry("", domain.Entry{}))
}

func TestCollectionRights(t *testing.T) {
	c := domain.Collection{ID: "c1", OwnerID: alice}

	assert.True(t, CanViewCollection(alice, c, false))
	assert.True(t, CanViewCollection(bob, c, true))
	assert.False(t, CanViewCollection(carol, c, false))

	assert.True(t, CanMutateCollection(alice, c))
	assert.False(t, CanMutateCollection(bob, c))

	assert.True(t, CanLeaveCollection(bob, c, true))
	assert.False(t, CanLeaveCollection(alice, c, false))
	assert.False(t, CanLeaveCollection(carol, c, false))

	assert.True(t, CanAssignCollection(alice, c, false))
	assert.True(t, CanAssignCollection(bob, c, true))
	assert.False(t, CanAssignCollection(carol, c, false))
}

func TestJoin(t *testing.T) {
	c := domain.Collection{ID: "c1", OwnerID: alice}

	assert.Equal(t, JoinNoop, Join(alice, c, false))
	assert.Equal(t, JoinNoop, Join(bob, c, true))
	assert.Equal(t, JoinAdd, Join(carol, c, false))
	assert.Equal(t, JoinNoop, Join("", c, false))
}
