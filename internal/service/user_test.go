package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/iackson05/streakd/internal/model"
)

func TestUserProfile(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	me := env.createUser(t, "me")
	friend := env.createUser(t, "friend")
	pending := env.createUser(t, "pending")
	env.befriend(t, me.ID, friend.ID)
	_, err := env.friendship.SendRequest(ctx, pending.ID, me.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	profile, err := env.user.Profile(ctx, me.ID)
	if err != nil {
		t.Fatalf("Profile() error = %v", err)
	}
	if profile.FriendCount != 1 {
		t.Errorf("friend count = %d, want 1", profile.FriendCount)
	}

	_, err = env.user.Profile(ctx, "00000000-0000-0000-0000-000000000000")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Profile(unknown) error = %v, want not found", err)
	}
}

func TestUserSearch(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	me := env.createUser(t, "runner_me")
	env.createUser(t, "runner_bob")
	env.createUser(t, "runnerxcarol")
	env.createUser(t, "swimmer")
	for i := range SearchLimit + 5 {
		env.createUser(t, fmt.Sprintf("lifter%02d", i))
	}

	tests := []struct {
		query string
		want  int
	}{
		{query: "runner", want: 2},
		{query: "RUNNER_", want: 1},
		{query: "swim", want: 1},
		{query: "lifter", want: SearchLimit},
		{query: "", want: 0},
		{query: "nobody", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			users, err := env.user.Search(ctx, me.ID, tt.query)
			if err != nil {
				t.Fatalf("Search() error = %v", err)
			}
			if len(users) != tt.want {
				t.Errorf("Search(%q) = %d users, want %d", tt.query, len(users), tt.want)
			}
			for _, u := range users {
				if u.ID == me.ID {
					t.Error("Search() returned the caller")
				}
			}
		})
	}
}

func TestUpdateUsername(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	me := env.createUser(t, "me_old")
	env.createUser(t, "taken")

	got, err := env.user.UpdateUsername(ctx, me.ID, "Me_New")
	if err != nil {
		t.Fatalf("UpdateUsername() error = %v", err)
	}
	if got != "me_new" {
		t.Errorf("UpdateUsername() = %s, want me_new", got)
	}

	_, err = env.user.UpdateUsername(ctx, me.ID, "TAKEN")
	if !errors.Is(err, ErrConflict) {
		t.Errorf("UpdateUsername(taken) error = %v, want conflict", err)
	}
	_, err = env.user.UpdateUsername(ctx, me.ID, "x")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("UpdateUsername(short) error = %v, want invalid input", err)
	}

	tests := []struct {
		username string
		want     bool
	}{
		{username: "free_name", want: true},
		{username: "taken", want: false},
		{username: "ME_NEW", want: true},
		{username: "bad name", want: false},
	}
	for _, tt := range tests {
		available, err := env.user.UsernameAvailable(ctx, me.ID, tt.username)
		if err != nil {
			t.Fatalf("UsernameAvailable() error = %v", err)
		}
		if available != tt.want {
			t.Errorf("UsernameAvailable(%q) = %v, want %v", tt.username, available, tt.want)
		}
	}
}

func TestUpdateProfilePictureReleasesOld(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	me := env.createUser(t, "me")

	first, err := env.user.UpdateProfilePicture(ctx, me.ID, Upload{Data: pngHeader, Filename: "a.png"})
	if err != nil {
		t.Fatalf("UpdateProfilePicture() error = %v", err)
	}
	second, err := env.user.UpdateProfilePicture(ctx, me.ID, Upload{Data: pngHeader, Filename: "b.png"})
	if err != nil {
		t.Fatalf("UpdateProfilePicture() error = %v", err)
	}

	if env.storage.has(first) {
		t.Error("old profile picture not released")
	}
	if !env.storage.has(second) {
		t.Error("new profile picture missing")
	}

	user, err := env.user.ByID(ctx, me.ID)
	if err != nil {
		t.Fatalf("ByID() error = %v", err)
	}
	if user.ProfilePictureURL == nil || *user.ProfilePictureURL != second {
		t.Errorf("profile picture = %v, want %s", user.ProfilePictureURL, second)
	}
}

func TestUpdatePushToken(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	me := env.createUser(t, "me")

	token, err := env.user.UpdatePushToken(ctx, me.ID, "ExponentPushToken[abc]")
	if err != nil {
		t.Fatalf("UpdatePushToken() error = %v", err)
	}
	if token == nil || *token != "ExponentPushToken[abc]" {
		t.Errorf("UpdatePushToken() = %v", token)
	}
	user, _ := env.users.ByID(ctx, me.ID)
	if !user.PushNotificationsEnabled {
		t.Error("push notifications not enabled")
	}

	token, err = env.user.UpdatePushToken(ctx, me.ID, "")
	if err != nil {
		t.Fatalf("UpdatePushToken(clear) error = %v", err)
	}
	if token != nil {
		t.Errorf("UpdatePushToken(clear) = %v, want nil", *token)
	}
	user, _ = env.users.ByID(ctx, me.ID)
	if user.PushNotificationsEnabled || user.PushToken != nil {
		t.Error("push token not cleared")
	}
}

func TestDeleteUserCascades(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()

	me := env.createUser(t, "me")
	friend := env.createUser(t, "friend")
	env.befriend(t, me.ID, friend.ID)

	avatar, err := env.user.UpdateProfilePicture(ctx, me.ID, Upload{Data: pngHeader, Filename: "me.png"})
	if err != nil {
		t.Fatalf("UpdateProfilePicture() error = %v", err)
	}
	goal := env.createGoal(t, me.ID, model.GoalPrivacyPublic)
	post, err := env.post.Create(ctx, me.ID, goal.ID, nil, &Upload{Data: pngHeader, Filename: "p.png"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	friendPost := env.createPost(t, env.createGoal(t, friend.ID, model.GoalPrivacyPublic), time.Now())
	_, err = env.reaction.Toggle(ctx, friendPost.ID, me.ID, string(model.EmojiFist))
	if err != nil {
		t.Fatalf("Toggle() error = %v", err)
	}

	err = env.user.Delete(ctx, me.ID)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if env.storage.has(avatar) || env.storage.has(*post.ImageURL) {
		t.Error("images not released")
	}
	ids, err := env.friendship.AcceptedFriendIDs(ctx, friend.ID)
	if err != nil {
		t.Fatalf("AcceptedFriendIDs() error = %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("friendship survived account deletion: %v", ids)
	}
	if rows := env.rowCounts(t, friendPost.ID); rows.Total() != 0 {
		t.Errorf("reaction rows survived account deletion: %+v", rows)
	}

	_, err = env.user.ByID(ctx, me.ID)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("ByID() after delete error = %v, want not found", err)
	}
}
