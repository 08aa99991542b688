package services

import (
	"context"
	"errors"
	"testing"

	"socialapi/database"
	"socialapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestToggleLike_TwiceRestoresBothSides(t *testing.T) {
	store := database.NewMockStore()
	notifier := newRecordingNotifier()
	social := NewSocialService(store, notifier)
	ctx := context.Background()

	author := seedUser(t, store, "author")
	fan := seedUser(t, store, "fan")
	post := seedPost(t, store, author.ID, "hello")

	res, err := social.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Contains(t, res.Post.Likes, fan.ID)
	assert.Contains(t, res.User.PostsLiked, post.ID)
	require.Len(t, notifier.For(author.ID), 1)
	assert.Equal(t, models.EventPostLiked, notifier.For(author.ID)[0].Type)

	res, err = social.ToggleLike(ctx, fan.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.NotContains(t, res.Post.Likes, fan.ID)
	assert.NotContains(t, res.User.PostsLiked, post.ID)
	assert.Len(t, notifier.For(author.ID), 1)
	assert.Equal(t, 3, store.Transactions)
}

func TestToggleLike_OwnPostDoesNotNotify(t *testing.T) {
	store := database.NewMockStore()
	notifier := newRecordingNotifier()
	social := NewSocialService(store, notifier)

	author := seedUser(t, store, "author")
	post := seedPost(t, store, author.ID, "hello")

	_, err := social.ToggleLike(context.Background(), author.ID, post.ID)
	require.NoError(t, err)
	assert.Empty(t, notifier.For(author.ID))
}

func TestToggleLike_MissingPost(t *testing.T) {
	store := database.NewMockStore()
	user := seedUser(t, store, "fan")

	_, err := NewSocialService(store, nil).ToggleLike(context.Background(), user.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestToggleFollow_MirroredEdges(t *testing.T) {
	store := database.NewMockStore()
	notifier := newRecordingNotifier()
	social := NewSocialService(store, notifier)
	ctx := context.Background()

	a := seedUser(t, store, "a")
	b := seedUser(t, store, "b")

	following, err := social.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	a2, _ := store.FindUserByID(ctx, a.ID)
	b2, _ := store.FindUserByID(ctx, b.ID)
	assert.Equal(t, []primitive.ObjectID{b.ID}, a2.Following)
	assert.Equal(t, []primitive.ObjectID{a.ID}, b2.Follower)
	assert.Empty(t, a2.Follower)
	require.Len(t, notifier.For(b.ID), 1)
	assert.Equal(t, models.EventNewFollower, notifier.For(b.ID)[0].Type)

	following, err = social.ToggleFollow(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	a3, _ := store.FindUserByID(ctx, a.ID)
	b3, _ := store.FindUserByID(ctx, b.ID)
	assert.Empty(t, a3.Following)
	assert.Empty(t, b3.Follower)
}

func TestToggleFollow_Self(t *testing.T) {
	store := database.NewMockStore()
	a := seedUser(t, store, "a")

	_, err := NewSocialService(store, nil).ToggleFollow(context.Background(), a.ID, a.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)

	a2, _ := store.FindUserByID(context.Background(), a.ID)
	assert.Empty(t, a2.Following)
	assert.Empty(t, a2.Follower)
}

func TestToggleFollow_UnknownTarget(t *testing.T) {
	store := database.NewMockStore()
	a := seedUser(t, store, "a")

	_, err := NewSocialService(store, nil).ToggleFollow(context.Background(), a.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestToggleFollow_StoreErrorPropagates(t *testing.T) {
	store := database.NewMockStore()
	a := seedUser(t, store, "a")
	b := seedUser(t, store, "b")
	boom := errors.New("boom")
	store.FailOn("AddToUserSet", boom)

	_, err := NewSocialService(store, nil).ToggleFollow(context.Background(), a.ID, b.ID)
	assert.ErrorIs(t, err, boom)
}

func TestToggleBookmark(t *testing.T) {
	store := database.NewMockStore()
	social := NewSocialService(store, nil)
	ctx := context.Background()

	author := seedUser(t, store, "author")
	reader := seedUser(t, store, "reader")
	post := seedPost(t, store, author.ID, "hello")

	on, err := social.ToggleBookmark(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, on)
	r, _ := store.FindUserByID(ctx, reader.ID)
	assert.Equal(t, []primitive.ObjectID{post.ID}, r.Bookmarks)

	on, err = social.ToggleBookmark(ctx, reader.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, on)
	r, _ = store.FindUserByID(ctx, reader.ID)
	assert.Empty(t, r.Bookmarks)
}

func TestAddComment(t *testing.T) {
	store := database.NewMockStore()
	notifier := newRecordingNotifier()
	social := NewSocialService(store, notifier)
	ctx := context.Background()

	author := seedUser(t, store, "author")
	reader := seedUser(t, store, "reader")
	post := seedPost(t, store, author.ID, "hello")

	updated, err := social.AddComment(ctx, reader.ID, post.ID, "first")
	require.NoError(t, err)
	updated, err = social.AddComment(ctx, reader.ID, post.ID, "second")
	require.NoError(t, err)

	require.Len(t, updated.Comments, 2)
	assert.Equal(t, "first", updated.Comments[0].Content)
	assert.Equal(t, "second", updated.Comments[1].Content)
	assert.Equal(t, reader.ID, updated.Comments[1].Author)
	assert.Len(t, notifier.For(author.ID), 2)
}

func TestAddComment_Empty(t *testing.T) {
	store := database.NewMockStore()
	author := seedUser(t, store, "author")
	post := seedPost(t, store, author.ID, "hello")

	_, err := NewSocialService(store, nil).AddComment(context.Background(), author.ID, post.ID, "   ")
	assert.ErrorIs(t, err, ErrEmptyComment)
}
