package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/storage"
)

func TestPostCreate(t *testing.T) {
	caption := "  <i>day 3</i>  "
	longCaption := strings.Repeat("c", 1001)

	tests := []struct {
		name        string
		caption     *string
		image       *Upload
		wantErr     error
		wantCaption *string
		wantImage   bool
	}{
		{name: "caption only", caption: &caption, wantCaption: strPtr("day 3")},
		{name: "image only", image: &Upload{Data: pngHeader, Filename: "progress.png"}, wantImage: true},
		{name: "nothing", wantCaption: nil},
		{name: "caption too long", caption: &longCaption, wantErr: ErrInvalidInput},
		{name: "not an image", image: &Upload{Data: []byte("plain text"), Filename: "notes.png"}, wantErr: ErrInvalidInput},
		{name: "bad extension", image: &Upload{Data: pngHeader, Filename: "progress.exe"}, wantErr: ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			user := env.createUser(t, "me")
			goal := env.createGoal(t, user.ID, model.GoalPrivacyFriends)

			post, err := env.post.Create(context.Background(), user.ID, goal.ID, tt.caption, tt.image)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Create() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}

			if (tt.wantCaption == nil) != (post.Caption == nil) ||
				(tt.wantCaption != nil && *tt.wantCaption != *post.Caption) {
				t.Errorf("caption = %v, want %v", post.Caption, tt.wantCaption)
			}
			if got := post.ImageURL != nil; got != tt.wantImage {
				t.Errorf("has image = %v, want %v", got, tt.wantImage)
			}
			if tt.wantImage && !strings.Contains(*post.ImageURL, "/"+FolderPosts+"/") {
				t.Errorf("image url = %s, want posts folder", *post.ImageURL)
			}
			if post.Username != user.Username || post.GoalTitle != goal.Title || post.GoalPrivacy != goal.Privacy {
				t.Errorf("enrichment = %q %q %q", post.Username, post.GoalTitle, post.GoalPrivacy)
			}
			if post.ReactionCounts != (model.ReactionCounts{}) {
				t.Errorf("counts = %+v, want zero", post.ReactionCounts)
			}
		})
	}
}

func TestPostCreateOnForeignGoal(t *testing.T) {
	env := setupTestEnv(t)
	owner := env.createUser(t, "owner")
	other := env.createUser(t, "other")
	goal := env.createGoal(t, owner.ID, model.GoalPrivacyPublic)

	_, err := env.post.Create(context.Background(), other.ID, goal.ID, nil, nil)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Create() error = %v, want not found", err)
	}
}

func TestPostDelete(t *testing.T) {
	tests := []struct {
		name       string
		failDelete bool
	}{
		{name: "image released"},
		{name: "blob failure is swallowed", failDelete: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			ctx := context.Background()
			owner := env.createUser(t, "owner")
			reactor := env.createUser(t, "reactor")
			goal := env.createGoal(t, owner.ID, model.GoalPrivacyPublic)

			post, err := env.post.Create(ctx, owner.ID, goal.ID, nil, &Upload{Data: pngHeader, Filename: "a.png"})
			if err != nil {
				t.Fatalf("Create() error = %v", err)
			}
			_, err = env.reaction.Toggle(ctx, post.ID, reactor.ID, string(model.EmojiFire))
			if err != nil {
				t.Fatalf("Toggle() error = %v", err)
			}

			err = env.post.Delete(ctx, reactor.ID, post.ID)
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Delete(by other) error = %v, want not found", err)
			}

			env.storage.failDelete = tt.failDelete

			err = env.post.Delete(ctx, owner.ID, post.ID)
			if err != nil {
				t.Fatalf("Delete() error = %v", err)
			}

			if stored := env.storage.has(*post.ImageURL); stored != tt.failDelete {
				t.Errorf("image stored = %v, want %v", stored, tt.failDelete)
			}
			if got := env.rowCounts(t, post.ID); got.Total() != 0 {
				t.Errorf("reactions survived post delete: %+v", got)
			}

			_, err = env.reaction.Toggle(ctx, post.ID, reactor.ID, string(model.EmojiFire))
			if !errors.Is(err, ErrNotFound) {
				t.Errorf("Toggle() on deleted post error = %v, want not found", err)
			}
		})
	}
}

func TestPostCreateWithUploadsDisabled(t *testing.T) {
	env := setupTestEnv(t)
	env.post.media = NewMediaService(storage.Disabled{})
	user := env.createUser(t, "me")
	goal := env.createGoal(t, user.ID, model.GoalPrivacyPublic)

	_, err := env.post.Create(context.Background(), user.ID, goal.ID, nil, &Upload{Data: pngHeader, Filename: "a.png"})
	if !errors.Is(err, ErrUploadsDisabled) {
		t.Errorf("Create() error = %v, want uploads disabled", err)
	}

	posts, err := env.feed.Feed(context.Background(), user.ID, time.Now())
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(posts) != 0 {
		t.Errorf("post created despite failed upload")
	}
}

func strPtr(s string) *string { return &s }
