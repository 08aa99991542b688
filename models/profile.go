package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is a user with every reference set resolved to documents.
type Profile struct {
	ID          primitive.ObjectID `json:"_id"`
	Name        string             `json:"name"`
	UserName    string             `json:"userName"`
	Email       string             `json:"email"`
	Bio         string             `json:"bio"`
	DisplayPic  string             `json:"displayPic"`
	WebsiteLink string             `json:"websiteLink"`
	Posts       []PostView         `json:"posts"`
	Following   []User             `json:"following"`
	Follower    []User             `json:"follower"`
	Bookmarks   []PostView         `json:"bookmarks"`
	PostsLiked  []PostView         `json:"postsLiked"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
}
