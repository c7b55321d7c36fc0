package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/iackson05/streakd/internal/metrics"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
)

const (
	ReminderFourHours = "streak_4hr"
	ReminderOneHour   = "streak_1hr"
)

// A goal gets at most one four-hour reminder per fourHourGap and one
// one-hour reminder per oneHourGap.
const (
	fourHourGap = 3 * time.Hour
	oneHourGap  = 30 * time.Minute
)

// Reminder is a streak warning due for one goal.
type Reminder struct {
	Kind      string
	HoursLeft int
	ExpiresAt time.Time
}

// DueReminder decides whether goal needs a warning at now. The four-hour
// warning covers [expiry-4h, expiry-1h), the one-hour warning covers
// [expiry-1h, expiry). Lapsed streaks get nothing.
func DueReminder(goal *model.Goal, now time.Time) (Reminder, bool) {
	expires, ok := goal.StreakExpiresAt()
	if !ok || !now.Before(expires) {
		return Reminder{}, false
	}

	fourHour := expires.Add(-4 * time.Hour)
	oneHour := expires.Add(-1 * time.Hour)

	sendFour := !now.Before(fourHour) && now.Before(oneHour)
	sendOne := !now.Before(oneHour)

	if goal.RemindedAt != nil {
		since := now.Sub(*goal.RemindedAt)
		if since < fourHourGap {
			sendFour = false
		}
		if since < oneHourGap {
			sendOne = false
		}
	}

	switch {
	case sendFour:
		return Reminder{Kind: ReminderFourHours, HoursLeft: 4, ExpiresAt: expires}, true
	case sendOne:
		return Reminder{Kind: ReminderOneHour, HoursLeft: 1, ExpiresAt: expires}, true
	}
	return Reminder{}, false
}

type ReminderService struct {
	goalRepo      repository.GoalRepository
	notifications *NotificationService
	emailService  *EmailService
}

func NewReminderService(goalRepo repository.GoalRepository, notifications *NotificationService, emailService *EmailService) *ReminderService {
	return &ReminderService{
		goalRepo:      goalRepo,
		notifications: notifications,
		emailService:  emailService,
	}
}

// SendDue emails every owner whose streak is about to lapse and who keeps
// streak reminders on, then stamps the goal so the next run does not repeat
// the warning. It returns how many reminders went out.
func (s *ReminderService) SendDue(ctx context.Context, now time.Time) (int, error) {
	goals, err := s.goalRepo.StreakGoals(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list streak goals: %w", err)
	}

	sent := 0
	for _, g := range goals {
		if err := ctx.Err(); err != nil {
			return sent, err
		}

		reminder, ok := DueReminder(&g.Goal, now)
		if !ok {
			continue
		}

		if !s.notifications.Wants(ctx, g.UserID, func(ns *model.NotificationSettings) bool { return ns.StreakReminders }) {
			continue
		}

		err := s.emailService.SendStreakReminderEmail(ctx, g.Email, g.Username, g.Title, reminder.HoursLeft)
		if err != nil {
			metrics.StreakRemindersTotal.WithLabelValues(reminder.Kind, "error").Inc()
			slog.Warn("failed to send streak reminder", "error", err, "goal_id", g.ID, "kind", reminder.Kind)
			continue
		}
		metrics.StreakRemindersTotal.WithLabelValues(reminder.Kind, "sent").Inc()

		err = s.goalRepo.MarkReminded(ctx, g.ID, now.UTC())
		if err != nil {
			return sent, fmt.Errorf("failed to mark goal %s reminded: %w", g.ID, err)
		}
		sent++
	}

	slog.Info("streak reminders finished", "goals", len(goals), "sent", sent)
	return sent, nil
}
