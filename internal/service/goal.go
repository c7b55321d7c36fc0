package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/validation"
	"github.com/jmoiron/sqlx"
)

// CreateGoalInput is what a client may set on a new goal.
type CreateGoalInput struct {
	Title          string
	Description    *string
	Privacy        string
	StreakInterval *int
}

type GoalService struct {
	db       *sqlx.DB
	repo     repository.GoalRepository
	postRepo repository.PostRepository
	media    *MediaService
	// serializes the active-goal cap check per user; the owner row lock
	// covers other processes
	userLocks *keyedMutex
}

func NewGoalService(
	db *sqlx.DB,
	repo repository.GoalRepository,
	postRepo repository.PostRepository,
	media *MediaService,
) *GoalService {
	return &GoalService{
		db:        db,
		repo:      repo,
		postRepo:  postRepo,
		media:     media,
		userLocks: newKeyedMutex(),
	}
}

func (s *GoalService) Create(ctx context.Context, userID string, in CreateGoalInput) (*model.Goal, error) {
	title := validation.SanitizeText(in.Title)
	if title == "" {
		return nil, invalidInput("title is required")
	}
	if utf8.RuneCountInString(title) > 200 {
		return nil, invalidInput("title is too long (max 200 characters)")
	}

	description := validation.SanitizeOptional(in.Description)
	if description != nil && utf8.RuneCountInString(*description) > 1000 {
		return nil, invalidInput("description is too long (max 1000 characters)")
	}

	privacy := in.Privacy
	if privacy == "" {
		privacy = model.GoalPrivacyPublic
	}
	if !model.ValidGoalPrivacy(privacy) {
		return nil, ErrInvalidPrivacy
	}

	if in.StreakInterval != nil && *in.StreakInterval < 1 {
		return nil, invalidInput("streak_interval must be at least 1 day")
	}

	goal := &model.Goal{
		ID:             uuid.New().String(),
		UserID:         userID,
		Title:          title,
		Description:    description,
		Privacy:        privacy,
		StreakInterval: in.StreakInterval,
		CreatedAt:      time.Now().UTC(),
	}

	unlock, err := s.userLocks.Lock(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		err := s.repo.LockOwner(ctx, tx, userID)
		if err != nil {
			return err
		}

		count, err := s.repo.CountActive(ctx, tx, userID)
		if err != nil {
			return err
		}

		if count >= model.MaxActiveGoals {
			return ErrGoalLimitReached
		}

		return s.repo.Create(ctx, tx, goal)
	})
	if err != nil {
		if errors.Is(err, ErrGoalLimitReached) {
			return nil, err
		}
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to create goal: %w", err)
	}

	slog.Info("goal created", "goal_id", goal.ID, "user_id", userID)
	return goal, nil
}

// Goals returns all of the user's goals, newest first.
func (s *GoalService) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.repo.Goals(ctx, userID)
}

// ActiveGoals returns the goals that are not completed, newest first.
func (s *GoalService) ActiveGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	return s.repo.ActiveGoals(ctx, userID)
}

// ByID returns a goal owned by userID.
func (s *GoalService) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal, err := s.repo.ByID(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}
	return goal, nil
}

// Complete marks a goal completed. Completing twice is a no-op; there is no
// way back.
func (s *GoalService) Complete(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	err := s.repo.Complete(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to complete goal: %w", err)
	}

	return s.ByID(ctx, userID, goalID)
}

// IncrementStreak adds one to the streak and stamps last_posted_at.
func (s *GoalService) IncrementStreak(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	err := s.repo.IncrementStreak(ctx, userID, goalID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to increment streak: %w", err)
	}

	return s.ByID(ctx, userID, goalID)
}

// Delete removes a goal with its posts and reactions, then releases the
// post images.
func (s *GoalService) Delete(ctx context.Context, userID, goalID string) error {
	_, err := s.ByID(ctx, userID, goalID)
	if err != nil {
		return err
	}

	urls, err := s.postRepo.ImageURLsByGoal(ctx, goalID)
	if err != nil {
		return fmt.Errorf("failed to list goal images: %w", err)
	}

	err = s.repo.Delete(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return ErrGoalNotFound
		}
		return fmt.Errorf("failed to delete goal: %w", err)
	}

	slog.Info("goal deleted", "goal_id", goalID, "user_id", userID, "images", len(urls))

	s.media.Release(ctx, urls...)
	return nil
}
