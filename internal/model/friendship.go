package model

import (
	"time"
)

const (
	FriendshipStatusPending  = "pending"
	FriendshipStatusAccepted = "accepted"
)

type Friendship struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	FriendID  string    `db:"friend_id" json:"friend_id"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Other returns the id of the party that is not userID.
func (f *Friendship) Other(userID string) string {
	if f.UserID == userID {
		return f.FriendID
	}
	return f.UserID
}

func (f *Friendship) IsPending() bool {
	return f.Status == FriendshipStatusPending
}

// FriendshipView is a friendship enriched with the other party's public fields.
type FriendshipView struct {
	Friendship
	FriendUsername          *string `db:"friend_username" json:"friend_username"`
	FriendProfilePictureURL *string `db:"friend_profile_picture_url" json:"friend_profile_picture_url"`
}
