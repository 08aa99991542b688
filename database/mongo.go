package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"socialapi/config"
	"socialapi/models"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var _ Store = (*MongoStore)(nil)

type MongoStore struct {
	client       *mongo.Client
	users        *mongo.Collection
	posts        *mongo.Collection
	transactions bool
}

func Connect(ctx context.Context, cfg config.Mongo) (*MongoStore, error) {
	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	db := client.Database(cfg.Database)
	return &MongoStore{
		client:       client,
		users:        db.Collection("users"),
		posts:        db.Collection("posts"),
		transactions: cfg.Transactions,
	}, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Disconnect(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the unique email index and the post author index.
// Failures are logged, not returned.
func (s *MongoStore) EnsureIndexes(ctx context.Context) {
	_, err := s.users.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		log.WithError(err).Warn("[EnsureIndexes] unique email index not created")
	}

	_, err = s.posts.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "author", Value: 1}},
	})
	if err != nil {
		log.WithError(err).Warn("[EnsureIndexes] post author index not created")
	}
}

func (s *MongoStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.transactions {
		return fn(ctx)
	}

	session, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (s *MongoStore) Transactional() bool {
	return s.transactions
}

// ===== USERS =====

func (s *MongoStore) InsertUser(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	_, err := s.users.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (s *MongoStore) FindUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id})
}

func (s *MongoStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": email})
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := s.users.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (s *MongoStore) FindUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	return s.listUsers(ctx, bson.M{"_id": bson.M{"$in": ids}})
}

func (s *MongoStore) ListUsers(ctx context.Context) ([]models.User, error) {
	return s.listUsers(ctx, bson.M{})
}

func (s *MongoStore) listUsers(ctx context.Context, filter bson.M) ([]models.User, error) {
	cursor, err := s.users.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (s *MongoStore) ListUserSummaries(ctx context.Context) ([]models.UserSummary, error) {
	opts := options.Find().SetProjection(bson.M{"name": 1, "userName": 1, "displayPic": 1})
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find user summaries: %w", err)
	}
	defer cursor.Close(ctx)

	summaries := []models.UserSummary{}
	if err := cursor.All(ctx, &summaries); err != nil {
		return nil, fmt.Errorf("decode user summaries: %w", err)
	}
	return summaries, nil
}

func (s *MongoStore) UpdateUserProfile(ctx context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return s.FindUserByID(ctx, id)
	}
	fields["updatedAt"] = time.Now().UTC()

	user, err := s.updateUser(ctx, id, bson.M{"$set": fields})
	if mongo.IsDuplicateKeyError(err) {
		return nil, ErrDuplicate
	}
	return user, err
}

func (s *MongoStore) AddToUserSet(ctx context.Context, userID primitive.ObjectID, set UserSet, ref primitive.ObjectID) (*models.User, error) {
	return s.updateUser(ctx, userID, bson.M{
		"$addToSet": bson.M{string(set): ref},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoStore) PullFromUserSet(ctx context.Context, userID primitive.ObjectID, set UserSet, ref primitive.ObjectID) (*models.User, error) {
	return s.updateUser(ctx, userID, bson.M{
		"$pull": bson.M{string(set): ref},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoStore) updateUser(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.User, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user models.User
	err := s.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ===== POSTS =====

func (s *MongoStore) InsertPost(ctx context.Context, post *models.Post) error {
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	_, err := s.posts.InsertOne(ctx, post)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *MongoStore) FindPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &post, nil
}

func (s *MongoStore) ListPostViews(ctx context.Context) ([]models.PostView, error) {
	return s.postViews(ctx, bson.D{})
}

func (s *MongoStore) FindPostViewsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.PostView, error) {
	if len(ids) == 0 {
		return []models.PostView{}, nil
	}
	return s.postViews(ctx, bson.D{{Key: "_id", Value: bson.D{{Key: "$in", Value: ids}}}})
}

// postViews joins each matching post with a summary of its author.
func (s *MongoStore) postViews(ctx context.Context, match bson.D) ([]models.PostView, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}}}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: s.users.Name()},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "author"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$author"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "author.password", Value: 0},
			{Key: "author.email", Value: 0},
		}}},
	}

	cursor, err := s.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate posts: %w", err)
	}
	defer cursor.Close(ctx)

	views := []models.PostView{}
	if err := cursor.All(ctx, &views); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return views, nil
}

func (s *MongoStore) UpdatePost(ctx context.Context, id primitive.ObjectID, update models.PostUpdate) (*models.Post, error) {
	fields := update.Fields()
	if len(fields) == 0 {
		return s.FindPostByID(ctx, id)
	}
	fields["updatedAt"] = time.Now().UTC()
	return s.updatePost(ctx, id, bson.M{"$set": fields})
}

func (s *MongoStore) DeletePost(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.posts.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("delete post: %w", err)
	}
	return &post, nil
}

func (s *MongoStore) AddLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return s.updatePost(ctx, postID, bson.M{
		"$addToSet": bson.M{"likes": userID},
		"$set":      bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoStore) PullLike(ctx context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return s.updatePost(ctx, postID, bson.M{
		"$pull": bson.M{"likes": userID},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoStore) AppendComment(ctx context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return s.updatePost(ctx, postID, bson.M{
		"$push": bson.M{"comments": comment},
		"$set":  bson.M{"updatedAt": time.Now().UTC()},
	})
}

func (s *MongoStore) updatePost(ctx context.Context, id primitive.ObjectID, update bson.M) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var post models.Post
	err := s.posts.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return &post, nil
}
