package database

import (
	"context"
	"sort"
	"sync"
	"time"

	"socialapi/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockStore is an in-memory Store for tests. It keeps insertion order and
// copies documents in and out so callers never share slices with it.
type MockStore struct {
	mu sync.Mutex

	users     map[primitive.ObjectID]*models.User
	userOrder []primitive.ObjectID
	posts     map[primitive.ObjectID]*models.Post
	postOrder []primitive.ObjectID

	failures map[string]error
	calls    map[string]int

	// Transactions counts WithTransaction calls.
	Transactions int
	// RollbackOnError makes WithTransaction restore the state it started
	// from when fn fails, like a MongoDB transaction does.
	RollbackOnError bool
}

var _ Store = (*MockStore)(nil)

func NewMockStore() *MockStore {
	return &MockStore{
		users:    make(map[primitive.ObjectID]*models.User),
		posts:    make(map[primitive.ObjectID]*models.Post),
		failures: make(map[string]error),
		calls:    make(map[string]int),
	}
}

// FailOn makes the next call to method return err.
func (m *MockStore) FailOn(method string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures[method] = err
}

// Calls returns how many times method has been invoked.
func (m *MockStore) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// checkError counts the call and returns and clears any error injected for
// method. Callers hold mu.
func (m *MockStore) checkError(method string) error {
	m.calls[method]++
	if err, ok := m.failures[method]; ok {
		delete(m.failures, method)
		return err
	}
	return nil
}

func (m *MockStore) Transactional() bool {
	return m.RollbackOnError
}

func (m *MockStore) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	m.Transactions++
	var snap *mockSnapshot
	if m.RollbackOnError {
		snap = m.snapshot()
	}
	m.mu.Unlock()

	err := fn(ctx)
	if err != nil && snap != nil {
		m.mu.Lock()
		m.restore(snap)
		m.mu.Unlock()
	}
	return err
}

type mockSnapshot struct {
	users     map[primitive.ObjectID]*models.User
	userOrder []primitive.ObjectID
	posts     map[primitive.ObjectID]*models.Post
	postOrder []primitive.ObjectID
}

// snapshot deep-copies the documents. Callers hold mu.
func (m *MockStore) snapshot() *mockSnapshot {
	snap := &mockSnapshot{
		users:     make(map[primitive.ObjectID]*models.User, len(m.users)),
		userOrder: cloneIDs(m.userOrder),
		posts:     make(map[primitive.ObjectID]*models.Post, len(m.posts)),
		postOrder: cloneIDs(m.postOrder),
	}
	for id, u := range m.users {
		snap.users[id] = copyUser(u)
	}
	for id, p := range m.posts {
		snap.posts[id] = copyPost(p)
	}
	return snap
}

func (m *MockStore) restore(snap *mockSnapshot) {
	m.users = snap.users
	m.userOrder = snap.userOrder
	m.posts = snap.posts
	m.postOrder = snap.postOrder
}

// ===== USERS =====

func (m *MockStore) InsertUser(_ context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("InsertUser"); err != nil {
		return err
	}

	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now

	m.users[user.ID] = copyUser(user)
	m.userOrder = append(m.userOrder, user.ID)
	return nil
}

func (m *MockStore) FindUserByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("FindUserByID"); err != nil {
		return nil, err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (m *MockStore) FindUserByEmail(_ context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("FindUserByEmail"); err != nil {
		return nil, err
	}

	for _, id := range m.userOrder {
		if u := m.users[id]; u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, ErrNotFound
}

func (m *MockStore) FindUsersByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("FindUsersByIDs"); err != nil {
		return nil, err
	}

	users := []models.User{}
	for _, id := range m.userOrder {
		if ContainsID(ids, id) {
			users = append(users, *copyUser(m.users[id]))
		}
	}
	return users, nil
}

func (m *MockStore) ListUsers(_ context.Context) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListUsers"); err != nil {
		return nil, err
	}

	users := make([]models.User, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		users = append(users, *copyUser(m.users[id]))
	}
	return users, nil
}

func (m *MockStore) ListUserSummaries(_ context.Context) ([]models.UserSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListUserSummaries"); err != nil {
		return nil, err
	}

	summaries := make([]models.UserSummary, 0, len(m.userOrder))
	for _, id := range m.userOrder {
		summaries = append(summaries, summarize(m.users[id]))
	}
	return summaries, nil
}

func (m *MockStore) UpdateUserProfile(_ context.Context, id primitive.ObjectID, update models.ProfileUpdate) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdateUserProfile"); err != nil {
		return nil, err
	}

	u, ok := m.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.Email != nil {
		for otherID, other := range m.users {
			if otherID != id && other.Email == *update.Email {
				return nil, ErrDuplicate
			}
		}
	}

	apply := func(dst *string, v *string) {
		if v != nil {
			*dst = *v
		}
	}
	apply(&u.Name, update.Name)
	apply(&u.UserName, update.UserName)
	apply(&u.Email, update.Email)
	apply(&u.Bio, update.Bio)
	apply(&u.DisplayPic, update.DisplayPic)
	apply(&u.WebsiteLink, update.WebsiteLink)
	if len(update.Fields()) > 0 {
		u.UpdatedAt = time.Now().UTC()
	}
	return copyUser(u), nil
}

func (m *MockStore) AddToUserSet(_ context.Context, userID primitive.ObjectID, set UserSet, ref primitive.ObjectID) (*models.User, error) {
	return m.mutateUserSet("AddToUserSet", userID, set, func(refs []primitive.ObjectID) []primitive.ObjectID {
		return addToSet(refs, ref)
	})
}

func (m *MockStore) PullFromUserSet(_ context.Context, userID primitive.ObjectID, set UserSet, ref primitive.ObjectID) (*models.User, error) {
	return m.mutateUserSet("PullFromUserSet", userID, set, func(refs []primitive.ObjectID) []primitive.ObjectID {
		return pull(refs, ref)
	})
}

func (m *MockStore) mutateUserSet(method string, userID primitive.ObjectID, set UserSet, fn func([]primitive.ObjectID) []primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(method); err != nil {
		return nil, err
	}

	u, ok := m.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	switch set {
	case UserPosts:
		u.Posts = fn(u.Posts)
	case UserFollowing:
		u.Following = fn(u.Following)
	case UserFollower:
		u.Follower = fn(u.Follower)
	case UserBookmarks:
		u.Bookmarks = fn(u.Bookmarks)
	case UserPostsLiked:
		u.PostsLiked = fn(u.PostsLiked)
	}
	u.UpdatedAt = time.Now().UTC()
	return copyUser(u), nil
}

// ===== POSTS =====

func (m *MockStore) InsertPost(_ context.Context, post *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("InsertPost"); err != nil {
		return err
	}

	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if _, exists := m.posts[post.ID]; exists {
		return ErrDuplicate
	}
	now := time.Now().UTC()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = now

	m.posts[post.ID] = copyPost(post)
	m.postOrder = append(m.postOrder, post.ID)
	return nil
}

func (m *MockStore) FindPostByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("FindPostByID"); err != nil {
		return nil, err
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPost(p), nil
}

func (m *MockStore) ListPostViews(_ context.Context) ([]models.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("ListPostViews"); err != nil {
		return nil, err
	}
	return m.views(func(primitive.ObjectID) bool { return true }), nil
}

func (m *MockStore) FindPostViewsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.PostView, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("FindPostViewsByIDs"); err != nil {
		return nil, err
	}
	return m.views(func(id primitive.ObjectID) bool { return ContainsID(ids, id) }), nil
}

// views mirrors the Mongo pipeline: newest first, author joined as a summary.
func (m *MockStore) views(match func(primitive.ObjectID) bool) []models.PostView {
	views := []models.PostView{}
	for _, id := range m.postOrder {
		if !match(id) {
			continue
		}
		p := copyPost(m.posts[id])
		view := models.PostView{
			ID:          p.ID,
			Title:       p.Title,
			TextContent: p.TextContent,
			ImgContent:  p.ImgContent,
			Likes:       p.Likes,
			Comments:    p.Comments,
			CreatedAt:   p.CreatedAt,
			UpdatedAt:   p.UpdatedAt,
		}
		if author, ok := m.users[p.Author]; ok {
			summary := summarize(author)
			view.Author = &summary
		}
		views = append(views, view)
	}
	sort.SliceStable(views, func(i, j int) bool {
		return views[i].CreatedAt.After(views[j].CreatedAt)
	})
	return views
}

func (m *MockStore) UpdatePost(_ context.Context, id primitive.ObjectID, update models.PostUpdate) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("UpdatePost"); err != nil {
		return nil, err
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	if update.TextContent != nil {
		p.TextContent = *update.TextContent
	}
	if update.ImgContent != nil {
		p.ImgContent = *update.ImgContent
	}
	if len(update.Fields()) > 0 {
		p.UpdatedAt = time.Now().UTC()
	}
	return copyPost(p), nil
}

func (m *MockStore) DeletePost(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError("DeletePost"); err != nil {
		return nil, err
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.posts, id)
	m.postOrder = pull(m.postOrder, id)
	return p, nil
}

func (m *MockStore) AddLike(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return m.mutatePost("AddLike", postID, func(p *models.Post) {
		p.Likes = addToSet(p.Likes, userID)
	})
}

func (m *MockStore) PullLike(_ context.Context, postID, userID primitive.ObjectID) (*models.Post, error) {
	return m.mutatePost("PullLike", postID, func(p *models.Post) {
		p.Likes = pull(p.Likes, userID)
	})
}

func (m *MockStore) AppendComment(_ context.Context, postID primitive.ObjectID, comment models.Comment) (*models.Post, error) {
	return m.mutatePost("AppendComment", postID, func(p *models.Post) {
		p.Comments = append(p.Comments, comment)
	})
}

func (m *MockStore) mutatePost(method string, id primitive.ObjectID, fn func(*models.Post)) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkError(method); err != nil {
		return nil, err
	}

	p, ok := m.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return copyPost(p), nil
}

func addToSet(refs []primitive.ObjectID, ref primitive.ObjectID) []primitive.ObjectID {
	if ContainsID(refs, ref) {
		return refs
	}
	return append(refs, ref)
}

func pull(refs []primitive.ObjectID, ref primitive.ObjectID) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(refs))
	for _, r := range refs {
		if r != ref {
			out = append(out, r)
		}
	}
	return out
}

func cloneIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	return append([]primitive.ObjectID{}, ids...)
}

func copyUser(u *models.User) *models.User {
	c := *u
	c.Posts = cloneIDs(u.Posts)
	c.Following = cloneIDs(u.Following)
	c.Follower = cloneIDs(u.Follower)
	c.Bookmarks = cloneIDs(u.Bookmarks)
	c.PostsLiked = cloneIDs(u.PostsLiked)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = cloneIDs(p.Likes)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}

func summarize(u *models.User) models.UserSummary {
	return models.UserSummary{
		ID:         u.ID,
		Name:       u.Name,
		UserName:   u.UserName,
		DisplayPic: u.DisplayPic,
	}
}
