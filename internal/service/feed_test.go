package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/iackson05/streakd/internal/model"
)

func TestFeed(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	me := env.createUser(t, "me")
	friend := env.createUser(t, "friend")
	pending := env.createUser(t, "pending")
	stranger := env.createUser(t, "stranger")

	env.befriend(t, me.ID, friend.ID)
	_, err := env.friendship.SendRequest(ctx, pending.ID, me.ID)
	if err != nil {
		t.Fatalf("SendRequest() error = %v", err)
	}

	myPrivate := env.createGoal(t, me.ID, model.GoalPrivacyPrivate)
	friendPublic := env.createGoal(t, friend.ID, model.GoalPrivacyPublic)
	friendFriends := env.createGoal(t, friend.ID, model.GoalPrivacyFriends)
	friendPrivate := env.createGoal(t, friend.ID, model.GoalPrivacyPrivate)

	ownPrivatePost := env.createPost(t, myPrivate, now.Add(-1*time.Hour))
	friendPublicPost := env.createPost(t, friendPublic, now.Add(-2*time.Hour))
	friendFriendsPost := env.createPost(t, friendFriends, now.Add(-30*time.Minute))
	env.createPost(t, friendPrivate, now.Add(-10*time.Minute))
	env.createPost(t, friendPublic, now.Add(-25*time.Hour))
	env.createPost(t, env.createGoal(t, pending.ID, model.GoalPrivacyPublic), now.Add(-time.Hour))
	env.createPost(t, env.createGoal(t, stranger.ID, model.GoalPrivacyPublic), now.Add(-time.Hour))

	feed, err := env.feed.Feed(ctx, me.ID, now)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}

	want := []string{friendFriendsPost.ID, ownPrivatePost.ID, friendPublicPost.ID}
	if len(feed) != len(want) {
		t.Fatalf("Feed() returned %d posts, want %d", len(feed), len(want))
	}
	for i, id := range want {
		if feed[i].ID != id {
			t.Errorf("feed[%d] = %s, want %s", i, feed[i].ID, id)
		}
	}

	first := feed[0]
	if first.Username != friend.Username || first.GoalTitle != friendFriends.Title || first.GoalPrivacy != model.GoalPrivacyFriends {
		t.Errorf("feed[0] enrichment = %q %q %q", first.Username, first.GoalTitle, first.GoalPrivacy)
	}
}

func TestFeedEnrichment(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	now := time.Now().UTC()

	me := env.createUser(t, "me")
	friend := env.createUser(t, "friend")
	env.befriend(t, me.ID, friend.ID)

	avatar := "https://cdn.test/profile-pictures/friend.png"
	err := env.users.UpdateProfilePicture(ctx, friend.ID, &avatar)
	if err != nil {
		t.Fatalf("UpdateProfilePicture() error = %v", err)
	}

	goal := env.createGoal(t, friend.ID, model.GoalPrivacyPublic)
	for range 3 {
		err = env.goals.IncrementStreak(ctx, friend.ID, goal.ID, now)
		if err != nil {
			t.Fatalf("IncrementStreak() error = %v", err)
		}
	}
	post := env.createPost(t, goal, now.Add(-time.Minute))

	feed, err := env.feed.Feed(ctx, me.ID, now)
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 1 || feed[0].ID != post.ID {
		t.Fatalf("Feed() = %v, want [%s]", postIDs(feed), post.ID)
	}

	got := feed[0]
	if got.Username != friend.Username {
		t.Errorf("username = %q, want %q", got.Username, friend.Username)
	}
	if got.ProfilePictureURL == nil || *got.ProfilePictureURL != avatar {
		t.Errorf("profile_picture_url = %v, want %q", got.ProfilePictureURL, avatar)
	}
	if got.StreakCount != 3 {
		t.Errorf("streak_count = %d, want 3", got.StreakCount)
	}
	if got.GoalTitle != goal.Title || got.GoalPrivacy != model.GoalPrivacyPublic {
		t.Errorf("goal = %q %q", got.GoalTitle, got.GoalPrivacy)
	}
}

func TestFeedTieBreak(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Now().UTC()
	createdAt := now.Add(-time.Hour)

	user := env.createUser(t, "me")
	goal := env.createGoal(t, user.ID, model.GoalPrivacyPublic)

	var want []string
	for range 4 {
		want = append(want, env.createPost(t, goal, createdAt).ID)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(want)))

	for run := range 3 {
		feed, err := env.feed.Feed(context.Background(), user.ID, now)
		if err != nil {
			t.Fatalf("Feed() error = %v", err)
		}

		got := postIDs(feed)
		if len(got) != len(want) {
			t.Fatalf("run %d: Feed() returned %d posts, want %d", run, len(got), len(want))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("run %d: feed = %v, want %v", run, got, want)
				break
			}
		}
	}
}

func TestFeedWindow(t *testing.T) {
	tests := []struct {
		name   string
		age    time.Duration
		inFeed bool
	}{
		{name: "fresh", age: time.Minute, inFeed: true},
		{name: "just inside window", age: FeedWindow - time.Minute, inFeed: true},
		{name: "just outside window", age: FeedWindow + time.Minute, inFeed: false},
		{name: "day old", age: 25 * time.Hour, inFeed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv(t)
			now := time.Now().UTC()

			user := env.createUser(t, "me")
			env.createPost(t, env.createGoal(t, user.ID, model.GoalPrivacyPublic), now.Add(-tt.age))

			feed, err := env.feed.Feed(context.Background(), user.ID, now)
			if err != nil {
				t.Fatalf("Feed() error = %v", err)
			}
			if got := len(feed) == 1; got != tt.inFeed {
				t.Errorf("post in feed = %v, want %v", got, tt.inFeed)
			}
		})
	}
}

func TestFeedEmpty(t *testing.T) {
	env := setupTestEnv(t)
	user := env.createUser(t, "loner")

	feed, err := env.feed.Feed(context.Background(), user.ID, time.Now())
	if err != nil {
		t.Fatalf("Feed() error = %v", err)
	}
	if len(feed) != 0 {
		t.Errorf("Feed() returned %d posts, want 0", len(feed))
	}
}

func TestGoalPosts(t *testing.T) {
	env := setupTestEnv(t)
	now := time.Now().UTC()

	user := env.createUser(t, "me")
	goal := env.createGoal(t, user.ID, model.GoalPrivacyPrivate)
	older := env.createPost(t, goal, now.Add(-48*time.Hour))
	newer := env.createPost(t, goal, now.Add(-time.Hour))
	env.createPost(t, env.createGoal(t, user.ID, model.GoalPrivacyPublic), now)

	posts, err := env.feed.GoalPosts(context.Background(), goal.ID)
	if err != nil {
		t.Fatalf("GoalPosts() error = %v", err)
	}
	if len(posts) != 2 || posts[0].ID != newer.ID || posts[1].ID != older.ID {
		t.Errorf("GoalPosts() = %v, want [%s %s]", postIDs(posts), newer.ID, older.ID)
	}
}

func postIDs(posts []*model.FeedPost) []string {
	ids := make([]string, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}
