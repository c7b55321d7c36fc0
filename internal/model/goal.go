package model

import (
	"time"
)

const (
	GoalPrivacyPublic  = "public"
	GoalPrivacyFriends = "friends"
	GoalPrivacyPrivate = "private"
)

// MaxActiveGoals caps the number of non-completed goals a user may hold.
const MaxActiveGoals = 3

type Goal struct {
	ID             string     `db:"id" json:"id"`
	UserID         string     `db:"user_id" json:"user_id"`
	Title          string     `db:"title" json:"title"`
	Description    *string    `db:"description" json:"description"`
	Completed      bool       `db:"completed" json:"completed"`
	Privacy        string     `db:"privacy" json:"privacy"`
	StreakCount    int        `db:"streak_count" json:"streak_count"`
	StreakInterval *int       `db:"streak_interval" json:"streak_interval"`
	LastPostedAt   *time.Time `db:"last_posted_at" json:"last_posted_at"`
	RemindedAt     *time.Time `db:"reminded_at" json:"-"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

// StreakGoal is an active goal with a running streak and the owner's
// contact details, as read by the reminder job.
type StreakGoal struct {
	Goal
	Username string `db:"username"`
	Email    string `db:"email"`
}

// StreakExpiresAt is when the streak lapses without a new post. ok is false
// for goals that have no interval or were never posted to.
func (g *Goal) StreakExpiresAt() (expires time.Time, ok bool) {
	if g.StreakInterval == nil || g.LastPostedAt == nil {
		return time.Time{}, false
	}
	return g.LastPostedAt.Add(time.Duration(*g.StreakInterval) * 24 * time.Hour), true
}

func (g *Goal) IsPrivate() bool {
	return g.Privacy == GoalPrivacyPrivate
}

func ValidGoalPrivacy(p string) bool {
	switch p {
	case GoalPrivacyPublic, GoalPrivacyFriends, GoalPrivacyPrivate:
		return true
	}
	return false
}
