package services

import (
	"context"
	"fmt"

	"socialapi/database"
	"socialapi/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ProfileService struct {
	store database.Store
}

func NewProfileService(store database.Store) *ProfileService {
	return &ProfileService{store: store}
}

// LoadProfile resolves every reference set on the user. Each resolved list
// follows the order of the reference array, and dangling references are skipped.
func (s *ProfileService) LoadProfile(ctx context.Context, userID primitive.ObjectID) (*models.Profile, error) {
	user, err := s.store.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:          user.ID,
		Name:        user.Name,
		UserName:    user.UserName,
		Email:       user.Email,
		Bio:         user.Bio,
		DisplayPic:  user.DisplayPic,
		WebsiteLink: user.WebsiteLink,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	}

	if profile.Follower, err = s.users(ctx, user.Follower); err != nil {
		return nil, fmt.Errorf("load followers: %w", err)
	}
	if profile.Following, err = s.users(ctx, user.Following); err != nil {
		return nil, fmt.Errorf("load following: %w", err)
	}
	if profile.Posts, err = s.posts(ctx, user.Posts); err != nil {
		return nil, fmt.Errorf("load posts: %w", err)
	}
	if profile.Bookmarks, err = s.posts(ctx, user.Bookmarks); err != nil {
		return nil, fmt.Errorf("load bookmarks: %w", err)
	}
	if profile.PostsLiked, err = s.posts(ctx, user.PostsLiked); err != nil {
		return nil, fmt.Errorf("load liked posts: %w", err)
	}
	return profile, nil
}

func (s *ProfileService) users(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	found, err := s.store.FindUsersByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.User, len(found))
	for _, u := range found {
		byID[u.ID] = u
	}

	ordered := make([]models.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := byID[id]; ok {
			ordered = append(ordered, u)
		}
	}
	return ordered, nil
}

func (s *ProfileService) posts(ctx context.Context, ids []primitive.ObjectID) ([]models.PostView, error) {
	found, err := s.store.FindPostViewsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]models.PostView, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}

	ordered := make([]models.PostView, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
