package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"socialapi/database"
	"socialapi/metrics"
	"socialapi/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrSelfFollow   = errors.New("users cannot follow themselves")
	ErrEmptyComment = errors.New("comment content is required")
)

// Notifier pushes an event to one connected user.
type Notifier interface {
	Notify(userID string, event models.Event)
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, models.Event) {}

// SocialService keeps the denormalised cross references between users and
// posts consistent. Every toggle is add-if-absent / remove-if-present.
type SocialService struct {
	store    database.Store
	notifier Notifier
}

func NewSocialService(store database.Store, notifier Notifier) *SocialService {
	if notifier == nil {
		notifier = nopNotifier{}
	}
	return &SocialService{store: store, notifier: notifier}
}

type LikeResult struct {
	Liked bool
	Post  *models.Post
	User  *models.User
}

// ToggleLike flips userID's membership in post.likes and postID's membership
// in user.postsLiked together.
func (s *SocialService) ToggleLike(ctx context.Context, userID, postID primitive.ObjectID) (*LikeResult, error) {
	post, err := s.store.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}

	res := &LikeResult{Liked: !database.ContainsID(post.Likes, userID)}
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if res.Liked {
			if res.Post, err = s.store.AddLike(ctx, postID, userID); err != nil {
				return fmt.Errorf("add like: %w", err)
			}
			if res.User, err = s.store.AddToUserSet(ctx, userID, database.UserPostsLiked, postID); err != nil {
				return fmt.Errorf("add liked post: %w", err)
			}
			return nil
		}
		if res.Post, err = s.store.PullLike(ctx, postID, userID); err != nil {
			return fmt.Errorf("pull like: %w", err)
		}
		if res.User, err = s.store.PullFromUserSet(ctx, userID, database.UserPostsLiked, postID); err != nil {
			return fmt.Errorf("pull liked post: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecordToggle("like", res.Liked)
	if res.Liked && post.Author != userID {
		s.notifier.Notify(post.Author.Hex(), models.Event{
			Type: models.EventPostLiked,
			Payload: map[string]interface{}{
				"postId": postID.Hex(),
				"userId": userID.Hex(),
			},
		})
	}
	return res, nil
}

// ToggleFollow adds or removes the mirrored edge follower -> target. Without
// transactions the two writes are independent and a crash between them
// leaves a one-sided edge.
func (s *SocialService) ToggleFollow(ctx context.Context, followerID, targetID primitive.ObjectID) (bool, error) {
	if followerID == targetID {
		return false, ErrSelfFollow
	}

	follower, err := s.store.FindUserByID(ctx, followerID)
	if err != nil {
		return false, err
	}
	if _, err := s.store.FindUserByID(ctx, targetID); err != nil {
		return false, err
	}

	following := !database.ContainsID(follower.Following, targetID)
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if following {
			if _, err := s.store.AddToUserSet(ctx, followerID, database.UserFollowing, targetID); err != nil {
				return fmt.Errorf("add following: %w", err)
			}
			if _, err := s.store.AddToUserSet(ctx, targetID, database.UserFollower, followerID); err != nil {
				return fmt.Errorf("add follower: %w", err)
			}
			return nil
		}
		if _, err := s.store.PullFromUserSet(ctx, followerID, database.UserFollowing, targetID); err != nil {
			return fmt.Errorf("pull following: %w", err)
		}
		if _, err := s.store.PullFromUserSet(ctx, targetID, database.UserFollower, followerID); err != nil {
			return fmt.Errorf("pull follower: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	metrics.RecordToggle("follow", following)
	if following {
		s.notifier.Notify(targetID.Hex(), models.Event{
			Type:    models.EventNewFollower,
			Payload: map[string]interface{}{"userId": followerID.Hex()},
		})
	}
	return following, nil
}

// ToggleBookmark only touches the user's bookmarks set.
func (s *SocialService) ToggleBookmark(ctx context.Context, userID, postID primitive.ObjectID) (bool, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return false, err
	}
	if _, err := s.store.FindPostByID(ctx, postID); err != nil {
		return false, err
	}

	bookmarked := !database.ContainsID(user.Bookmarks, postID)
	if bookmarked {
		_, err = s.store.AddToUserSet(ctx, userID, database.UserBookmarks, postID)
	} else {
		_, err = s.store.PullFromUserSet(ctx, userID, database.UserBookmarks, postID)
	}
	if err != nil {
		return false, fmt.Errorf("toggle bookmark: %w", err)
	}

	metrics.RecordToggle("bookmark", bookmarked)
	return bookmarked, nil
}

// AddComment appends to the post's comment sequence. Comments are never edited.
func (s *SocialService) AddComment(ctx context.Context, userID, postID primitive.ObjectID, content string) (*models.Post, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyComment
	}
	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	if _, err := s.store.FindPostByID(ctx, postID); err != nil {
		return nil, err
	}

	post, err := s.store.AppendComment(ctx, postID, models.Comment{
		ID:        primitive.NewObjectID(),
		Content:   content,
		Author:    userID,
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("append comment: %w", err)
	}

	if post.Author != userID {
		s.notifier.Notify(post.Author.Hex(), models.Event{
			Type: models.EventNewComment,
			Payload: map[string]interface{}{
				"postId":  postID.Hex(),
				"userId":  userID.Hex(),
				"content": content,
			},
		})
	}
	return post, nil
}
