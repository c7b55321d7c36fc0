package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/cache"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/jmoiron/sqlx"
)

// pngHeader is enough for content sniffing to report image/png.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

// fakeStorage keeps blobs in memory and can be told to fail deletes.
type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string][]byte
	deleted    []string
	failDelete bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string][]byte)}
}

func (s *fakeStorage) Put(ctx context.Context, data []byte, contentType, folder string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	url := fmt.Sprintf("https://cdn.test/%s/%s", folder, uuid.New().String())
	s.objects[url] = data
	return url, nil
}

func (s *fakeStorage) Delete(ctx context.Context, publicURL string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failDelete {
		return errors.New("blob store unavailable")
	}
	delete(s.objects, publicURL)
	s.deleted = append(s.deleted, publicURL)
	return nil
}

func (s *fakeStorage) has(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[url]
	return ok
}

func (s *fakeStorage) deletedURLs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}

type testEnv struct {
	db            *sqlx.DB
	storage       *fakeStorage
	users         repository.UserRepository
	goals         repository.GoalRepository
	posts         repository.PostRepository
	reactionsRepo repository.ReactionRepository
	friendships   repository.FriendshipRepository
	notifyRepo    repository.NotificationRepository

	auth          *AuthService
	user          *UserService
	goal          *GoalService
	post          *PostService
	feed          *FeedService
	reaction      *ReactionService
	friendship    *FriendshipService
	notifications *NotificationService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "streakd.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)&_txlock=immediate&_time_format=sqlite"

	database, err := db.Init(db.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	err = db.RunMigrations(context.Background(), database.DB, db.DriverSQLite)
	if err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return wireTestEnv(database)
}

// wireTestEnv builds repositories and services over an opened database.
func wireTestEnv(database *sqlx.DB) *testEnv {
	env := &testEnv{
		db:            database,
		storage:       newFakeStorage(),
		users:         repository.NewUserRepository(database),
		goals:         repository.NewGoalRepository(database),
		posts:         repository.NewPostRepository(database),
		reactionsRepo: repository.NewReactionRepository(database),
		friendships:   repository.NewFriendshipRepository(database),
		notifyRepo:    repository.NewNotificationRepository(database),
	}

	email := NewEmailService("", "noreply@streakd.test", "streakd", true)
	media := NewMediaService(env.storage)
	env.notifications = NewNotificationService(database, env.notifyRepo)
	env.auth = NewAuthService(database, env.users, env.notifyRepo, cache.NewMemoryStore(), email,
		"test-secret-test-secret-test-secret", 15*time.Minute, 24*time.Hour)
	env.user = NewUserService(env.users, env.friendships, env.posts, media, email)
	env.goal = NewGoalService(database, env.goals, env.posts, media)
	env.post = NewPostService(env.posts, env.goals, env.users, media)
	env.feed = NewFeedService(env.posts, env.friendships)
	env.reaction = NewReactionService(database, env.posts, env.reactionsRepo)
	env.friendship = NewFriendshipService(database, env.friendships, env.users, env.notifications, email)

	return env
}

func (e *testEnv) createUser(t *testing.T, username string) *model.User {
	t.Helper()

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        strings.ToLower(username) + "@streakd.test",
		PasswordHash: "x",
		CreatedAt:    time.Now().UTC(),
	}
	err := e.users.Create(context.Background(), e.db, user)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", username, err)
	}
	return user
}

func (e *testEnv) createGoal(t *testing.T, userID, privacy string) *model.Goal {
	t.Helper()

	goal := &model.Goal{
		ID:        uuid.New().String(),
		UserID:    userID,
		Title:     "run every day",
		Privacy:   privacy,
		CreatedAt: time.Now().UTC(),
	}
	err := e.goals.Create(context.Background(), e.db, goal)
	if err != nil {
		t.Fatalf("failed to create goal: %v", err)
	}
	return goal
}

func (e *testEnv) createPost(t *testing.T, goal *model.Goal, createdAt time.Time) *model.Post {
	t.Helper()

	post := &model.Post{
		ID:        uuid.New().String(),
		UserID:    goal.UserID,
		GoalID:    goal.ID,
		CreatedAt: createdAt.UTC(),
	}
	err := e.posts.Create(context.Background(), post)
	if err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return post
}

func (e *testEnv) befriend(t *testing.T, a, b string) {
	t.Helper()

	ctx := context.Background()
	view, err := e.friendship.SendRequest(ctx, a, b)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}
	_, err = e.friendship.Accept(ctx, b, view.ID)
	if err != nil {
		t.Fatalf("Accept() error = %v", err)
	}
}

func (e *testEnv) postCounts(t *testing.T, postID string) model.ReactionCounts {
	t.Helper()

	post, err := e.posts.ByID(context.Background(), postID)
	if err != nil {
		t.Fatalf("failed to read post: %v", err)
	}
	return post.ReactionCounts
}

func (e *testEnv) rowCounts(t *testing.T, postID string) model.ReactionCounts {
	t.Helper()

	counts, err := e.reactionsRepo.CountsByPost(context.Background(), e.db, postID)
	if err != nil {
		t.Fatalf("failed to count reactions: %v", err)
	}
	return counts
}

func ptr[T any](v T) *T { return &v }
