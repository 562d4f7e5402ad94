package entity_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"diceparty/internal/entity"
	"diceparty/internal/store"
)

func TestSession_HasNicknameAndInGame(t *testing.T) {
	sess := entity.NewSession("s1", "c1")

	assert.False(t, sess.HasNickname())
	assert.False(t, sess.InGame())

	nickname := "Alice"
	sess.Nickname = &nickname
	assert.True(t, sess.HasNickname())

	gameID := "ABCD"
	sess.GameID = &gameID
	assert.True(t, sess.InGame())
}

func TestSession_HasNicknameFalseForEmptyString(t *testing.T) {
	sess := entity.NewSession("s1", "c1")
	empty := ""
	sess.Nickname = &empty

	assert.False(t, sess.HasNickname())
}

func TestSession_SaveThenFromDBRoundtrips(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	sess := entity.NewSession("s1", "c1")
	require.NoError(t, sess.Save(ctx, st))

	loaded, err := entity.SessionFromDB(ctx, st, "s1")
	require.NoError(t, err)
	assert.Equal(t, "c1", loaded.ConnectionID)
	assert.Equal(t, entity.ActionCreateConnection, loaded.ModifiedAction)
}

func TestSession_DeleteRemovesIt(t *testing.T) {
	st := store.NewMemoryStore()
	ctx := context.Background()

	sess := entity.NewSession("s1", "c1")
	require.NoError(t, sess.Save(ctx, st))
	require.NoError(t, sess.Delete(ctx, st))

	_, err := entity.SessionFromDB(ctx, st, "s1")
	assert.ErrorIs(t, err, store.ErrNotFound)
}
