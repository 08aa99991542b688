package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	Title       string               `bson:"title,omitempty" json:"title,omitempty"`
	TextContent string               `bson:"textContent" json:"textContent"`
	ImgContent  string               `bson:"imgContent,omitempty" json:"imgContent,omitempty"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Author      primitive.ObjectID   `bson:"author" json:"author"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// Comment is embedded in Post.Comments and never edited in place.
type Comment struct {
	ID        primitive.ObjectID `bson:"_id" json:"_id"`
	Content   string             `bson:"content" json:"content"`
	Author    primitive.ObjectID `bson:"author" json:"author"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}

// PostView is a post with its author populated, as returned by listings.
type PostView struct {
	ID          primitive.ObjectID   `bson:"_id" json:"_id"`
	Title       string               `bson:"title,omitempty" json:"title,omitempty"`
	TextContent string               `bson:"textContent" json:"textContent"`
	ImgContent  string               `bson:"imgContent,omitempty" json:"imgContent,omitempty"`
	Likes       []primitive.ObjectID `bson:"likes" json:"likes"`
	Author      *UserSummary         `bson:"author,omitempty" json:"author"`
	Comments    []Comment            `bson:"comments" json:"comments"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}

// PostUpdate holds the post fields an edit request may change. Nil means untouched.
type PostUpdate struct {
	TextContent *string
	ImgContent  *string
}

func (u PostUpdate) Fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if u.TextContent != nil {
		fields["textContent"] = *u.TextContent
	}
	if u.ImgContent != nil {
		fields["imgContent"] = *u.ImgContent
	}
	return fields
}
