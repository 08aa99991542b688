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

func TestCreatePost_LinksAuthor(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	author := seedUser(t, store, "author")

	post, err := NewPostService(store).CreatePost(ctx, NewPost{Title: "t", TextContent: "body", Author: author.ID})
	require.NoError(t, err)
	assert.False(t, post.ID.IsZero())
	assert.Empty(t, post.Likes)
	assert.Empty(t, post.Comments)

	a, _ := store.FindUserByID(ctx, author.ID)
	assert.Equal(t, []primitive.ObjectID{post.ID}, a.Posts)
}

func TestCreatePost_RequiresContent(t *testing.T) {
	store := database.NewMockStore()
	author := seedUser(t, store, "author")

	_, err := NewPostService(store).CreatePost(context.Background(), NewPost{Title: "only a title", Author: author.ID})
	assert.ErrorIs(t, err, ErrEmptyPost)

	views, _ := store.ListPostViews(context.Background())
	assert.Empty(t, views)
}

func TestCreatePost_ImageOnly(t *testing.T) {
	store := database.NewMockStore()
	author := seedUser(t, store, "author")

	post, err := NewPostService(store).CreatePost(context.Background(), NewPost{
		ImgContent: "https://cdn.example.com/a.png",
		Author:     author.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/a.png", post.ImgContent)
}

func TestCreatePost_UnknownAuthor(t *testing.T) {
	store := database.NewMockStore()

	_, err := NewPostService(store).CreatePost(context.Background(), NewPost{TextContent: "x", Author: primitive.NewObjectID()})
	assert.ErrorIs(t, err, database.ErrNotFound)

	views, _ := store.ListPostViews(context.Background())
	assert.Empty(t, views)
}

func TestCreatePost_CompensatesWhenAuthorLinkFails(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	author := seedUser(t, store, "author")
	boom := errors.New("write failed")
	store.FailOn("AddToUserSet", boom)

	_, err := NewPostService(store).CreatePost(ctx, NewPost{TextContent: "x", Author: author.ID})
	assert.ErrorIs(t, err, boom)

	views, _ := store.ListPostViews(ctx)
	assert.Empty(t, views)
	a, _ := store.FindUserByID(ctx, author.ID)
	assert.Empty(t, a.Posts)
}

func TestDeletePost_CreateThenDeleteLeavesNothing(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	posts := NewPostService(store)
	author := seedUser(t, store, "author")

	post := seedPost(t, store, author.ID, "bye")
	deleted, err := posts.DeletePost(ctx, author.ID, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, deleted.ID)

	_, err = store.FindPostByID(ctx, post.ID)
	assert.ErrorIs(t, err, database.ErrNotFound)
	a, _ := store.FindUserByID(ctx, author.ID)
	assert.Empty(t, a.Posts)
}

func TestDeletePost_RestoresWithSameID(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	author := seedUser(t, store, "author")
	post := seedPost(t, store, author.ID, "keep me")

	boom := errors.New("write failed")
	store.FailOn("PullFromUserSet", boom)

	_, err := NewPostService(store).DeletePost(ctx, author.ID, post.ID)
	assert.ErrorIs(t, err, boom)

	restored, err := store.FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep me", restored.TextContent)
	assert.Equal(t, post.CreatedAt, restored.CreatedAt)
	a, _ := store.FindUserByID(ctx, author.ID)
	assert.Equal(t, []primitive.ObjectID{post.ID}, a.Posts)
}

func TestDeletePost_Missing(t *testing.T) {
	store := database.NewMockStore()
	author := seedUser(t, store, "author")

	_, err := NewPostService(store).DeletePost(context.Background(), author.ID, primitive.NewObjectID())
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestUpdatePost_OnlyGivenFields(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	author := seedUser(t, store, "author")
	post := seedPost(t, store, author.ID, "before")

	text := "after"
	updated, err := NewPostService(store).UpdatePost(ctx, post.ID, models.PostUpdate{TextContent: &text})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.TextContent)
	assert.Equal(t, author.ID, updated.Author)
}

func TestDeletePost_RejectsOtherUsers(t *testing.T) {
	store := database.NewMockStore()
	ctx := context.Background()
	author := seedUser(t, store, "author")
	stranger := seedUser(t, store, "stranger")
	post := seedPost(t, store, author.ID, "mine")

	_, err := NewPostService(store).DeletePost(ctx, stranger.ID, post.ID)
	assert.ErrorIs(t, err, ErrNotPostOwner)

	kept, err := store.FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, kept.Author)
	a, _ := store.FindUserByID(ctx, author.ID)
	assert.Equal(t, []primitive.ObjectID{post.ID}, a.Posts)
	assert.Equal(t, 0, store.Calls("DeletePost"))
}

func TestCreatePost_TransactionalStoreRollsBack(t *testing.T) {
	store := database.NewMockStore()
	store.RollbackOnError = true
	ctx := context.Background()
	author := seedUser(t, store, "author")
	boom := errors.New("write failed")
	store.FailOn("AddToUserSet", boom)

	_, err := NewPostService(store).CreatePost(ctx, NewPost{TextContent: "x", Author: author.ID})
	assert.ErrorIs(t, err, boom)

	views, _ := store.ListPostViews(ctx)
	assert.Empty(t, views)
	assert.Equal(t, 0, store.Calls("DeletePost"))
}

func TestDeletePost_TransactionalStoreRollsBack(t *testing.T) {
	store := database.NewMockStore()
	store.RollbackOnError = true
	ctx := context.Background()
	author := seedUser(t, store, "author")
	post := seedPost(t, store, author.ID, "keep me")

	boom := errors.New("write failed")
	store.FailOn("PullFromUserSet", boom)

	_, err := NewPostService(store).DeletePost(ctx, author.ID, post.ID)
	assert.ErrorIs(t, err, boom)

	restored, err := store.FindPostByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, restored.ID)
	assert.Equal(t, 1, store.Calls("InsertPost"))
	a, _ := store.FindUserByID(ctx, author.ID)
	assert.Equal(t, []primitive.ObjectID{post.ID}, a.Posts)
}
