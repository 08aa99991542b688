package database

import (
	"context"
	"errors"

	"socialapi/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrDuplicate = errors.New("duplicate key")
)

// UserSet names one of the reference arrays on a user document.
type UserSet string

const (
	UserPosts      UserSet = "posts"
	UserFollowing  UserSet = "following"
	UserFollower   UserSet = "follower"
	UserBookmarks  UserSet = "bookmarks"
	UserPostsLiked UserSet = "postsLiked"
)

// Store is the document access layer for the users and posts collections.
// Every single call is atomic on one document; multi-document sequences
// should run through WithTransaction.
type Store interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
	// Transactional reports whether WithTransaction rolls back on error.
	Transactional() bool

	InsertUser(ctx context.Context, user *models.User) error
	FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	ListUserSummaries(ctx context.Context) ([]models.UserSummary, error)
	UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error)
	AddToUserSet(ctx context.Context, userID primitive.ObjectID, set UserSet, ref primitive.ObjectID) (*models.User, error)
	PullFromUserSet(ctx context.Context, userID primitive.ObjectID, set UserSet, ref primitive.ObjectID) (*models.User, error)

	InsertPost(ctx context.Context, post *models.Post) error
	FindPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	FindPostViewsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PostView, error)
	ListPostViews(ctx context.Context) ([]models.PostView, error)
	UpdatePost(ctx context.Context, id primitive.ObjectID, update models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	PullLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error)
	AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error)
}

// ContainsID reports whether id is a member of refs.
func ContainsID(refs []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, ref := range refs {
		if ref == id {
			return true
		}
	}
	return false
}
