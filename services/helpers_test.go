package services

import (
	"context"
	"sync"
	"testing"

	"socialapi/database"
	"socialapi/models"

	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedUser(t *testing.T, store *database.MockStore, userName string) *models.User {
	t.Helper()
	user := models.NewUser(userName, userName, userName+"@example.com", "hash")
	require.NoError(t, store.InsertUser(context.Background(), user))
	return user
}

func seedPost(t *testing.T, store *database.MockStore, author primitive.ObjectID, text string) *models.Post {
	t.Helper()
	post, err := NewPostService(store).CreatePost(context.Background(), NewPost{
		TextContent: text,
		Author:      author,
	})
	require.NoError(t, err)
	return post
}

type recordingNotifier struct {
	mu     sync.Mutex
	events map[string][]models.Event
}

func newRecordingNotifier() *recordingNotifier {
	return &recordingNotifier{events: make(map[string][]models.Event)}
}

func (r *recordingNotifier) Notify(userID string, event models.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[userID] = append(r.events[userID], event)
}

func (r *recordingNotifier) For(userID primitive.ObjectID) []models.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[userID.Hex()]
}
