package model

import (
	"time"
)

type Post struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	GoalID    string    `db:"goal_id" json:"goal_id"`
	ImageURL  *string   `db:"image_url" json:"image_url"`
	Caption   *string   `db:"caption" json:"caption"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	ReactionCounts
}

// FeedPost is a post enriched with its author and goal, read at query time.
type FeedPost struct {
	Post
	Username          string  `db:"username" json:"username"`
	ProfilePictureURL *string `db:"profile_picture_url" json:"profile_picture_url"`
	GoalTitle         string  `db:"goal_title" json:"goal_title"`
	GoalPrivacy       string  `db:"goal_privacy" json:"goal_privacy"`
	StreakCount       int     `db:"streak_count" json:"streak_count"`
}
