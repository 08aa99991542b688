package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type User struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name     string             `bson:"name" json:"name"`
	UserName string             `bson:"userName" json:"userName"`
	Email    string             `bson:"email" json:"email"`
	Password string             `bson:"password" json:"-"`

	// Profile fields
	Bio         string `bson:"bio" json:"bio"`
	DisplayPic  string `bson:"displayPic" json:"displayPic"`
	WebsiteLink string `bson:"websiteLink" json:"websiteLink"`

	// Reference sets. Always stored as arrays so $addToSet/$pull never hit a null field.
	Posts      []primitive.ObjectID `bson:"posts" json:"posts"`
	Following  []primitive.ObjectID `bson:"following" json:"following"`
	Follower   []primitive.ObjectID `bson:"follower" json:"follower"`
	Bookmarks  []primitive.ObjectID `bson:"bookmarks" json:"bookmarks"`
	PostsLiked []primitive.ObjectID `bson:"postsLiked" json:"postsLiked"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// NewUser returns a user with every reference set initialised.
func NewUser(name, userName, email, passwordHash string) *User {
	return &User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		UserName:   userName,
		Email:      email,
		Password:   passwordHash,
		Posts:      []primitive.ObjectID{},
		Following:  []primitive.ObjectID{},
		Follower:   []primitive.ObjectID{},
		Bookmarks:  []primitive.ObjectID{},
		PostsLiked: []primitive.ObjectID{},
	}
}

// UserSummary is the author card embedded in post listings.
type UserSummary struct {
	ID         primitive.ObjectID `bson:"_id" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	UserName   string             `bson:"userName" json:"userName"`
	DisplayPic string             `bson:"displayPic" json:"displayPic"`
}

// ProfileUpdate holds the user fields an edit request may change. Nil means untouched.
type ProfileUpdate struct {
	Name        *string `json:"name" form:"name"`
	UserName    *string `json:"userName" form:"userName"`
	Email       *string `json:"email" form:"email"`
	Bio         *string `json:"bio" form:"bio"`
	DisplayPic  *string `json:"displayPic" form:"displayPic"`
	WebsiteLink *string `json:"websiteLink" form:"websiteLink"`
}

// Fields flattens the update into a bson-ready field map.
func (u ProfileUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(key string, v *string) {
		if v != nil {
			fields[key] = *v
		}
	}
	set("name", u.Name)
	set("userName", u.UserName)
	set("email", u.Email)
	set("bio", u.Bio)
	set("displayPic", u.DisplayPic)
	set("websiteLink", u.WebsiteLink)
	return fields
}
