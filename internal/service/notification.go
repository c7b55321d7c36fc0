package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/jmoiron/sqlx"
)

type NotificationService struct {
	db   *sqlx.DB
	repo repository.NotificationRepository
}

func NewNotificationService(db *sqlx.DB, repo repository.NotificationRepository) *NotificationService {
	return &NotificationService{db: db, repo: repo}
}

// Settings returns the user's settings, creating the defaults on first access.
func (s *NotificationService) Settings(ctx context.Context, userID string) (*model.NotificationSettings, error) {
	settings, err := s.repo.ByUserID(ctx, userID)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, repository.ErrNotificationSettingsNotFound) {
		return nil, fmt.Errorf("failed to get notification settings: %w", err)
	}

	settings = model.DefaultNotificationSettings(userID)
	settings.ID = uuid.New().String()

	err = s.repo.Create(ctx, s.db, settings)
	if err != nil {
		// Lost a race with a concurrent first access
		existing, getErr := s.repo.ByUserID(ctx, userID)
		if getErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to create notification settings: %w", err)
	}

	return settings, nil
}

// Update replaces the three flags.
func (s *NotificationService) Update(ctx context.Context, userID string, friendRequests, reactions, streakReminders bool) (*model.NotificationSettings, error) {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}

	settings.FriendRequests = friendRequests
	settings.Reactions = reactions
	settings.StreakReminders = streakReminders

	err = s.repo.Update(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("failed to update notification settings: %w", err)
	}

	return settings, nil
}

// Wants reports whether the user opted in to a notification kind. Lookup
// failures count as opted out.
func (s *NotificationService) Wants(ctx context.Context, userID string, kind func(*model.NotificationSettings) bool) bool {
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		slog.Warn("failed to read notification settings", "error", err, "user_id", userID)
		return false
	}
	return kind(settings)
}
