package model

type NotificationSettings struct {
	ID              string `db:"id" json:"-"`
	UserID          string `db:"user_id" json:"-"`
	FriendRequests  bool   `db:"friend_requests" json:"friend_requests"`
	Reactions       bool   `db:"reactions" json:"reactions"`
	StreakReminders bool   `db:"streak_reminders" json:"streak_reminders"`
}

// DefaultNotificationSettings returns the settings a new user starts with.
func DefaultNotificationSettings(userID string) *NotificationSettings {
	return &NotificationSettings{
		UserID:          userID,
		FriendRequests:  true,
		Reactions:       true,
		StreakReminders: true,
	}
}
