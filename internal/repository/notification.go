package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iackson05/streakd/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrNotificationSettingsNotFound = errors.New("notification settings not found")
)

type NotificationRepository interface {
	ByUserID(ctx context.Context, userID string) (*model.NotificationSettings, error)
	Create(ctx context.Context, q Querier, settings *model.NotificationSettings) error
	Update(ctx context.Context, settings *model.NotificationSettings) error
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ByUserID(ctx context.Context, userID string) (*model.NotificationSettings, error) {
	settings := &model.NotificationSettings{}
	query := `SELECT * FROM notification_settings WHERE user_id = $1`

	err := r.db.GetContext(ctx, settings, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotificationSettingsNotFound
	}
	if err != nil {
		return nil, err
	}

	return settings, nil
}

func (r *notificationRepository) Create(ctx context.Context, q Querier, settings *model.NotificationSettings) error {
	query := `INSERT INTO notification_settings (id, user_id, friend_requests, reactions, streak_reminders)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := q.ExecContext(ctx, query,
		settings.ID,
		settings.UserID,
		settings.FriendRequests,
		settings.Reactions,
		settings.StreakReminders,
	)

	return err
}

func (r *notificationRepository) Update(ctx context.Context, settings *model.NotificationSettings) error {
	query := `UPDATE notification_settings
	          SET friend_requests = $1, reactions = $2, streak_reminders = $3
	          WHERE user_id = $4`

	result, err := r.db.ExecContext(ctx, query,
		settings.FriendRequests,
		settings.Reactions,
		settings.StreakReminders,
		settings.UserID,
	)
	if err != nil {
		return err
	}
	return expectRow(result, ErrNotificationSettingsNotFound)
}
