package model

import (
	"time"
)

type User struct {
	ID                       string    `db:"id" json:"id"`
	Username                 string    `db:"username" json:"username"`
	Email                    string    `db:"email" json:"email"`
	PasswordHash             string    `db:"password_hash" json:"-"`
	ProfilePictureURL        *string   `db:"profile_picture_url" json:"profile_picture_url"`
	PushToken                *string   `db:"push_token" json:"-"`
	PushNotificationsEnabled bool      `db:"push_notifications_enabled" json:"-"`
	CreatedAt                time.Time `db:"created_at" json:"created_at"`
}

// UserProfile is the public view of a user.
type UserProfile struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	Email             string    `json:"email"`
	ProfilePictureURL *string   `json:"profile_picture_url"`
	CreatedAt         time.Time `json:"created_at"`
	FriendCount       int       `json:"friend_count"`
}

// UserSummary is what search results and friend lists expose about another user.
type UserSummary struct {
	ID                string  `db:"id" json:"id"`
	Username          string  `db:"username" json:"username"`
	ProfilePictureURL *string `db:"profile_picture_url" json:"profile_picture_url"`
}
