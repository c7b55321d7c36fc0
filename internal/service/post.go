package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/validation"
)

// Upload is an image received from a client.
type Upload struct {
	Data     []byte
	Filename string
}

type PostService struct {
	repo     repository.PostRepository
	goalRepo repository.GoalRepository
	userRepo repository.UserRepository
	media    *MediaService
}

func NewPostService(
	repo repository.PostRepository,
	goalRepo repository.GoalRepository,
	userRepo repository.UserRepository,
	media *MediaService,
) *PostService {
	return &PostService{
		repo:     repo,
		goalRepo: goalRepo,
		userRepo: userRepo,
		media:    media,
	}
}

// Create posts progress on one of the caller's goals. The image, when
// present, is uploaded to the posts folder first and released again if the
// insert fails.
func (s *PostService) Create(ctx context.Context, userID, goalID string, caption *string, image *Upload) (*model.FeedPost, error) {
	goal, err := s.goalRepo.ByID(ctx, userID, goalID)
	if err != nil {
		if errors.Is(err, repository.ErrGoalNotFound) {
			return nil, ErrGoalNotFound
		}
		return nil, fmt.Errorf("failed to get goal: %w", err)
	}

	caption = validation.SanitizeOptional(caption)
	if caption != nil && utf8.RuneCountInString(*caption) > 1000 {
		return nil, invalidInput("caption is too long (max 1000 characters)")
	}

	author, err := s.userRepo.ByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	post := &model.Post{
		ID:        uuid.New().String(),
		UserID:    userID,
		GoalID:    goal.ID,
		Caption:   caption,
		CreatedAt: time.Now().UTC(),
	}

	if image != nil && len(image.Data) > 0 {
		url, err := s.media.Upload(ctx, image.Data, image.Filename, FolderPosts)
		if err != nil {
			return nil, err
		}
		post.ImageURL = &url
	}

	err = s.repo.Create(ctx, post)
	if err != nil {
		if post.ImageURL != nil {
			s.media.Release(ctx, *post.ImageURL)
		}
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	slog.Info("post created", "post_id", post.ID, "goal_id", goal.ID, "user_id", userID)

	return &model.FeedPost{
		Post:              *post,
		Username:          author.Username,
		ProfilePictureURL: author.ProfilePictureURL,
		GoalTitle:         goal.Title,
		GoalPrivacy:       goal.Privacy,
		StreakCount:       goal.StreakCount,
	}, nil
}

// Delete removes one of the caller's posts with its reactions, then releases
// its image.
func (s *PostService) Delete(ctx context.Context, userID, postID string) error {
	post, err := s.repo.ByID(ctx, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to get post: %w", err)
	}

	if post.UserID != userID {
		return ErrPostNotFound
	}

	err = s.repo.Delete(ctx, userID, postID)
	if err != nil {
		if errors.Is(err, repository.ErrPostNotFound) {
			return ErrPostNotFound
		}
		return fmt.Errorf("failed to delete post: %w", err)
	}

	slog.Info("post deleted", "post_id", postID, "user_id", userID)

	if post.ImageURL != nil {
		s.media.Release(ctx, *post.ImageURL)
	}
	return nil
}
