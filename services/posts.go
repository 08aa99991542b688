package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"socialapi/database"
	"socialapi/metrics"
	"socialapi/models"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrEmptyPost    = errors.New("post image or post content is required")
	ErrNotPostOwner = errors.New("post belongs to another user")
)

type NewPost struct {
	Title       string
	TextContent string
	ImgContent  string
	Author      primitive.ObjectID
}

// PostService owns the post <-> author.posts reference.
type PostService struct {
	store database.Store
}

func NewPostService(store database.Store) *PostService {
	return &PostService{store: store}
}

// CreatePost inserts the post and then records it on the author. If the
// second write fails the new post is deleted again, unless the store rolls
// the transaction back itself.
func (s *PostService) CreatePost(ctx context.Context, in NewPost) (*models.Post, error) {
	if strings.TrimSpace(in.TextContent) == "" && in.ImgContent == "" {
		return nil, ErrEmptyPost
	}
	if _, err := s.store.FindUserByID(ctx, in.Author); err != nil {
		return nil, err
	}

	post := &models.Post{
		Title:       in.Title,
		TextContent: in.TextContent,
		ImgContent:  in.ImgContent,
		Likes:       []primitive.ObjectID{},
		Author:      in.Author,
		Comments:    []models.Comment{},
	}

	err := s.store.WithTransaction(ctx, func(ctx context.Context) error {
		if err := s.store.InsertPost(ctx, post); err != nil {
			return err
		}
		if _, err := s.store.AddToUserSet(ctx, post.Author, database.UserPosts, post.ID); err != nil {
			if !s.store.Transactional() {
				s.discardPost(ctx, post.ID)
			}
			return fmt.Errorf("add post to author: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return post, nil
}

func (s *PostService) discardPost(ctx context.Context, postID primitive.ObjectID) {
	_, err := s.store.DeletePost(ctx, postID)
	metrics.RecordCompensation("create_post", err)
	if err != nil {
		log.WithError(err).WithField("postId", postID.Hex()).
			Error("[CreatePost] orphaned post left behind, needs reconciliation")
	}
}

// DeletePost removes a post owned by userID and then pulls it from the
// owner's posts. If the pull fails and the store does not roll back, the
// deleted document is written back under its original id.
func (s *PostService) DeletePost(ctx context.Context, userID, postID primitive.ObjectID) (*models.Post, error) {
	if _, err := s.store.FindUserByID(ctx, userID); err != nil {
		return nil, err
	}
	post, err := s.store.FindPostByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post.Author != userID {
		return nil, ErrNotPostOwner
	}

	var deleted *models.Post
	err = s.store.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if deleted, err = s.store.DeletePost(ctx, postID); err != nil {
			return err
		}
		if _, err := s.store.PullFromUserSet(ctx, userID, database.UserPosts, postID); err != nil {
			if !s.store.Transactional() {
				s.restorePost(ctx, userID, deleted)
			}
			return fmt.Errorf("pull post from user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (s *PostService) restorePost(ctx context.Context, userID primitive.ObjectID, post *models.Post) {
	restored := *post
	err := s.store.InsertPost(ctx, &restored)
	metrics.RecordCompensation("delete_post", err)
	if err != nil {
		log.WithError(err).WithFields(log.Fields{
			"postId": post.ID.Hex(),
			"userId": userID.Hex(),
		}).Error("[DeletePost] post deleted but still referenced by user, needs reconciliation")
	}
}

func (s *PostService) UpdatePost(ctx context.Context, postID primitive.ObjectID, update models.PostUpdate) (*models.Post, error) {
	return s.store.UpdatePost(ctx, postID, update)
}
