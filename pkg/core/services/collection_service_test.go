package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wadjakorntonsri/interne/pkg/core/domain"
)

func TestCollectionService_CreateValidation(t *testing.T) {
	env := newEnv(t)
	alice := env.user(t, "Alice")

	_, err := env.collections.Create(context.Background(), alice.ID, "   ")
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "Name is required", ve.Fields["name"])
}

func TestCollectionService_JoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner := env.user(t, "Owner")
	member := env.user(t, "Member")

	c, err := env.collections.Create(ctx, owner.ID, "Reading")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		joined, err := env.collections.Join(ctx, member.ID, " "+c.InviteCode+" ")
		require.NoError(t, err)
		assert.Equal(t, c.ID, joined.ID)
	}
	_, err = env.collections.Join(ctx, owner.ID, c.InviteCode)
	require.NoError(t, err)

	views, err := env.collections.List(ctx, owner.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.True(t, views[0].IsOwner)
	assert.Equal(t, int64(2), views[0].MemberCount)

	views, err = env.collections.List(ctx, member.ID)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.False(t, views[0].IsOwner)
}

func TestCollectionService_JoinUnknownInvite(t *testing.T) {
	env := newEnv(t)
	alice := env.user(t, "Alice")

	_, err := env.collections.Join(context.Background(), alice.ID, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.collections.Join(context.Background(), alice.ID, "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollectionService_Show(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner, member, stranger, c, e := sharedSetup(t, env)

	detail, err := env.collections.Show(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	assert.True(t, detail.IsOwner)
	assert.Equal(t, c.InviteCode, detail.Collection.InviteCode)
	require.Len(t, detail.Members, 1)
	assert.Equal(t, member.ID, detail.Members[0].ID)
	assert.Equal(t, []string{e.ID}, viewIDs(detail.Entries))

	detail, err = env.collections.Show(ctx, member.ID, c.ID)
	require.NoError(t, err)
	assert.False(t, detail.IsOwner)
	assert.Empty(t, detail.Collection.InviteCode)

	_, err = env.collections.Show(ctx, stranger.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCollectionService_OwnerOnlyOperations(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner, member, _, c, _ := sharedSetup(t, env)

	require.NoError(t, env.collections.Rename(ctx, member.ID, c.ID, "Hijacked"))
	code, err := env.collections.RegenerateInvite(ctx, member.ID, c.ID)
	require.NoError(t, err)
	assert.Empty(t, code)
	require.NoError(t, env.collections.Delete(ctx, member.ID, c.ID))
	require.NoError(t, env.collections.RemoveMember(ctx, member.ID, c.ID, member.ID))

	detail, err := env.collections.Show(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Reading", detail.Collection.Name)
	assert.Equal(t, c.InviteCode, detail.Collection.InviteCode)
	assert.Len(t, detail.Members, 1)
}

func TestCollectionService_RenameAndRegenerate(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner, member, _, c, _ := sharedSetup(t, env)

	err := env.collections.Rename(ctx, owner.ID, c.ID, "")
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))

	require.NoError(t, env.collections.Rename(ctx, owner.ID, c.ID, " Papers "))
	code, err := env.collections.RegenerateInvite(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, code)
	assert.NotEqual(t, c.InviteCode, code)

	_, err = env.collections.Join(ctx, member.ID, c.InviteCode)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	detail, err := env.collections.Show(ctx, owner.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "Papers", detail.Collection.Name)
	assert.Equal(t, code, detail.Collection.InviteCode)
}

func TestCollectionService_Leave(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner, member, _, c, e := sharedSetup(t, env)

	require.NoError(t, env.collections.Leave(ctx, owner.ID, c.ID))
	_, err := env.collections.Show(ctx, owner.ID, c.ID)
	require.NoError(t, err, "owner cannot leave their own collection")

	require.NoError(t, env.collections.Leave(ctx, member.ID, c.ID))
	_, err = env.collections.Show(ctx, member.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = env.entries.Get(ctx, member.ID, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.NoError(t, env.collections.Leave(ctx, member.ID, "missing"))
}

func TestCollectionService_RemoveMember(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner, member, _, c, _ := sharedSetup(t, env)

	require.NoError(t, env.collections.RemoveMember(ctx, owner.ID, c.ID, member.ID))
	views, err := env.collections.List(ctx, member.ID)
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestCollectionService_DeleteKeepsEntries(t *testing.T) {
	ctx := context.Background()
	env := newEnv(t)
	owner, member, _, c, e := sharedSetup(t, env)

	require.NoError(t, env.collections.Delete(ctx, owner.ID, c.ID))

	_, err := env.collections.Show(ctx, owner.ID, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	detail, err := env.entries.Get(ctx, owner.ID, e.ID)
	require.NoError(t, err)
	assert.Nil(t, detail.Entry.CollectionID)

	_, err = env.entries.Get(ctx, member.ID, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
