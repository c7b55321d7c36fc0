package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/model"
)

func TestGoalCreate(t *testing.T) {
	zero := 0
	weekly := 7
	longDesc := strings.Repeat("d", 1001)

	tests := []struct {
		name        string
		in          CreateGoalInput
		wantErr     error
		wantPrivacy string
		wantTitle   string
	}{
		{name: "defaults to public", in: CreateGoalInput{Title: "Read"}, wantPrivacy: model.GoalPrivacyPublic, wantTitle: "Read"},
		{name: "explicit privacy", in: CreateGoalInput{Title: "Run", Privacy: "private", StreakInterval: &weekly}, wantPrivacy: model.GoalPrivacyPrivate, wantTitle: "Run"},
		{name: "markup is stripped", in: CreateGoalInput{Title: "<b>Lift</b>"}, wantPrivacy: model.GoalPrivacyPublic, wantTitle: "Lift"},
		{name: "empty title", in: CreateGoalInput{Title: "   "}, wantErr: ErrInvalidInput},
		{name: "title too long", in: CreateGoalInput{Title: strings.Repeat("t", 201)}, wantErr: ErrInvalidInput},
		{name: "description too long", in: CreateGoalInput{Title: "Swim", Description: &longDesc}, wantErr: ErrInvalidInput},
		{name: "unknown privacy", in: CreateGoalInput{Title: "Swim", Privacy: "secret"}, wantErr: ErrInvalidInput},
		{name: "zero interval", in: CreateGoalInput{Title: "Swim", StreakInterval: &zero}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			user := env.createUser(t, "me")

			goal, err := env.goal.Create(context.Background(), user.ID, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			if goal.Privacy != tt.wantPrivacy {
				t.Errorf("privacy = %s, want %s", goal.Privacy, tt.wantPrivacy)
			}
			if goal.Title != tt.wantTitle {
				t.Errorf("title = %q, want %q", goal.Title, tt.wantTitle)
			}
			if goal.Completed || goal.StreakCount != 0 {
				t.Errorf("new goal = %+v, want active with zero streak", goal)
			}
		})
	}
}

func TestGoalActiveLimit(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "me")

	var goals []*model.Goal
	for range model.MaxActiveGoals {
		g, err := env.goal.Create(ctx, user.ID, CreateGoalInput{Title: "goal"})
		if err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		goals = append(goals, g)
	}

	_, err := env.goal.Create(ctx, user.ID, CreateGoalInput{Title: "one too many"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("Create() over limit error = %v, want invalid input", err)
	}

	// Completing frees a slot.
	_, err = env.goal.Complete(ctx, user.ID, goals[0].ID)
	if err != nil {
		t.Fatalf("Complete() error = %v", err)
	}
	_, err = env.goal.Create(ctx, user.ID, CreateGoalInput{Title: "replacement"})
	if err != nil {
		t.Errorf("Create() after completion error = %v", err)
	}

	active, err := env.goal.ActiveGoals(ctx, user.ID)
	if err != nil {
		t.Fatalf("ActiveGoals() error = %v", err)
	}
	if len(active) != model.MaxActiveGoals {
		t.Errorf("ActiveGoals() = %d, want %d", len(active), model.MaxActiveGoals)
	}

	all, err := env.goal.Goals(ctx, user.ID)
	if err != nil {
		t.Fatalf("Goals() error = %v", err)
	}
	if len(all) != model.MaxActiveGoals+1 {
		t.Errorf("Goals() = %d, want %d", len(all), model.MaxActiveGoals+1)
	}
}

func TestGoalActiveLimitConcurrent(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "me")

	concurrentCreatesStayCapped(t, []*GoalService{env.goal}, user.ID)
}

// Separate services share the database but not their per-user locks.
func TestGoalActiveLimitAcrossReplicas(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "me")

	replica := NewGoalService(env.db, env.goals, env.posts, NewMediaService(env.storage))
	concurrentCreatesStayCapped(t, []*GoalService{env.goal, replica}, user.ID)
}

// concurrentCreatesStayCapped races goal creation for one user across
// services and expects exactly MaxActiveGoals to succeed.
func concurrentCreatesStayCapped(t *testing.T, services []*GoalService, userID string) {
	t.Helper()
	ctx := context.Background()

	const attempts = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := range attempts {
		svc := services[i%len(services)]
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Create(ctx, userID, CreateGoalInput{Title: "goal"})
			if err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			} else if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("Create() error = %v", err)
			}
		}()
	}
	wg.Wait()

	if created != model.MaxActiveGoals {
		t.Errorf("created %d goals, want %d", created, model.MaxActiveGoals)
	}

	active, err := services[0].ActiveGoals(ctx, userID)
	if err != nil {
		t.Fatalf("ActiveGoals() error = %v", err)
	}
	if len(active) != model.MaxActiveGoals {
		t.Errorf("%d active goals stored, want %d", len(active), model.MaxActiveGoals)
	}
}

func TestGoalCreateUnknownOwner(t *testing.T) {
	env := setupTestEnv(t)

	_, err := env.goal.Create(context.Background(), uuid.New().String(), CreateGoalInput{Title: "goal"})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Create() error = %v, want not found", err)
	}
}

func TestGoalCompleteAndStreak(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	goal := env.createGoal(t, owner.ID, model.GoalPrivacyPublic)

	_, err := env.goal.IncrementStreak(ctx, other.ID, goal.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("IncrementStreak(by other) error = %v, want not found", err)
	}

	for want := 1; want <= 2; want++ {
		g, err := env.goal.IncrementStreak(ctx, owner.ID, goal.ID)
		if err != nil {
			t.Fatalf("IncrementStreak() error = %v", err)
		}
		if g.StreakCount != want {
			t.Errorf("streak = %d, want %d", g.StreakCount, want)
		}
		if g.LastPostedAt == nil {
			t.Error("last_posted_at not set")
		}
	}

	_, err = env.goal.Complete(ctx, other.ID, goal.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Complete(by other) error = %v, want not found", err)
	}

	for range 2 {
		g, err := env.goal.Complete(ctx, owner.ID, goal.ID)
		if err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if !g.Completed {
			t.Error("goal not completed")
		}
	}
}

func TestGoalDeleteReleasesImages(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	user := env.createUser(t, "me")
	goal := env.createGoal(t, user.ID, model.GoalPrivacyPublic)

	post, err := env.post.Create(ctx, user.ID, goal.ID, nil, &Upload{Data: pngHeader, Filename: "a.png"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if post.ImageURL == nil || !env.storage.has(*post.ImageURL) {
		t.Fatalf("image not stored: %v", post.ImageURL)
	}
	env.createPost(t, goal, time.Now())

	err = env.goal.Delete(ctx, user.ID, goal.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if env.storage.has(*post.ImageURL) {
		t.Error("image still stored after goal delete")
	}
	_, err = env.posts.ByID(ctx, post.ID)
	if err == nil {
		t.Error("post survived goal delete")
	}

	err = env.goal.Delete(ctx, user.ID, goal.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() error = %v, want not found", err)
	}
}
