package services

import (
	"context"
	"testing"

	"socialapi/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLoadProfile_ResolvesInReferenceOrder(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	social := NewSocialService(store, nil)

	me := seedUser(t, store, "me")
	x := seedUser(t, store, "x")
	y := seedUser(t, store, "y")

	first := seedPost(t, store, me.ID, "first")
	second := seedPost(t, store, me.ID, "second")
	other := seedPost(t, store, x.ID, "other")

	_, err := social.ToggleFollow(ctx, me.ID, y.ID)
	require.NoError(t, err)
	_, err = social.ToggleFollow(ctx, me.ID, x.ID)
	require.NoError(t, err)
	_, err = social.ToggleFollow(ctx, x.ID, me.ID)
	require.NoError(t, err)
	_, err = social.ToggleBookmark(ctx, me.ID, other.ID)
	require.NoError(t, err)
	_, err = social.ToggleLike(ctx, me.ID, other.ID)
	require.NoError(t, err)

	profile, err := NewProfileService(store).LoadProfile(ctx, me.ID)
	require.NoError(t, err)

	require.Len(t, profile.Posts, 2)
	assert.Equal(t, first.ID, profile.Posts[0].ID)
	assert.Equal(t, second.ID, profile.Posts[1].ID)
	require.NotNil(t, profile.Posts[0].Author)
	assert.Equal(t, "me", profile.Posts[0].Author.UserName)

	require.Len(t, profile.Following, 2)
	assert.Equal(t, y.ID, profile.Following[0].ID)
	assert.Equal(t, x.ID, profile.Following[1].ID)
	require.Len(t, profile.Follower, 1)
	assert.Equal(t, x.ID, profile.Follower[0].ID)

	require.Len(t, profile.Bookmarks, 1)
	assert.Equal(t, other.ID, profile.Bookmarks[0].ID)
	require.Len(t, profile.PostsLiked, 1)
	assert.Equal(t, other.ID, profile.PostsLiked[0].ID)
}

func TestLoadProfile_SkipsDanglingReferences(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	me := seedUser(t, store, "me")

	_, err := store.AddToUserSet(ctx, me.ID, database.UserBookmarks, primitive.NewObjectID())
	require.NoError(t, err)

	profile, err := NewProfileService(store).LoadProfile(ctx, me.ID)
	require.NoError(t, err)
	assert.Empty(t, profile.Bookmarks)
	assert.NotNil(t, profile.Bookmarks)
}

func TestLoadProfile_UnknownUser(t *testing.T) {
	_, err := NewProfileService(database.NewMockStore()).LoadProfile(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, database.ErrNotFound)
}
