package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/validation"
)

// SearchLimit caps username search results.
const SearchLimit = 20

type UserService struct {
	userRepository       repository.UserRepository
	friendshipRepository repository.FriendshipRepository
	postRepository       repository.PostRepository
	media                *MediaService
	emailService         *EmailService
}

func NewUserService(
	userRepository repository.UserRepository,
	friendshipRepository repository.FriendshipRepository,
	postRepository repository.PostRepository,
	media *MediaService,
	emailService *EmailService,
) *UserService {
	return &UserService{
		userRepository:       userRepository,
		friendshipRepository: friendshipRepository,
		postRepository:       postRepository,
		media:                media,
		emailService:         emailService,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.userRepository.ByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// Profile returns the public view of a user with their accepted friend count.
func (s *UserService) Profile(ctx context.Context, id string) (*model.UserProfile, error) {
	user, err := s.ByID(ctx, id)
	if err != nil {
		return nil, err
	}

	count, err := s.friendshipRepository.CountAccepted(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to count friends: %w", err)
	}

	return &model.UserProfile{
		ID:                user.ID,
		Username:          user.Username,
		Email:             user.Email,
		ProfilePictureURL: user.ProfilePictureURL,
		CreatedAt:         user.CreatedAt,
		FriendCount:       count,
	}, nil
}

// Search finds users whose handle contains query, excluding the caller.
func (s *UserService) Search(ctx context.Context, callerID, query string) ([]*model.UserSummary, error) {
	query = validation.NormalizeUsername(query)
	if query == "" {
		return []*model.UserSummary{}, nil
	}

	users, err := s.userRepository.Search(ctx, query, callerID, SearchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	return users, nil
}

func (s *UserService) UpdateUsername(ctx context.Context, userID, username string) (string, error) {
	username = validation.NormalizeUsername(username)

	err := validation.ValidateUsername(username)
	if err != nil {
		return "", invalidInput("%s", err.Error())
	}

	err = s.userRepository.UpdateUsername(ctx, userID, username)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicateUsername):
			return "", ErrUsernameTaken
		case errors.Is(err, repository.ErrUserNotFound):
			return "", ErrUserNotFound
		}
		return "", fmt.Errorf("failed to update username: %w", err)
	}

	slog.Info("username updated", "user_id", userID, "username", username)
	return username, nil
}

// UsernameAvailable reports whether the caller could take username. The
// caller's own handle counts as available; malformed handles do not.
func (s *UserService) UsernameAvailable(ctx context.Context, callerID, username string) (bool, error) {
	username = validation.NormalizeUsername(username)
	if validation.ValidateUsername(username) != nil {
		return false, nil
	}

	user, err := s.userRepository.ByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return true, nil
		}
		return false, fmt.Errorf("failed to check username: %w", err)
	}

	return user.ID == callerID, nil
}

// UpdateProfilePicture stores a new avatar and releases the previous one
// once the user row points at the new image.
func (s *UserService) UpdateProfilePicture(ctx context.Context, userID string, image Upload) (string, error) {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return "", err
	}

	url, err := s.media.Upload(ctx, image.Data, image.Filename, FolderProfilePictures)
	if err != nil {
		return "", err
	}

	err = s.userRepository.UpdateProfilePicture(ctx, userID, &url)
	if err != nil {
		s.media.Release(ctx, url)
		return "", fmt.Errorf("failed to update profile picture: %w", err)
	}

	if user.ProfilePictureURL != nil {
		s.media.Release(ctx, *user.ProfilePictureURL)
	}

	return url, nil
}

// UpdatePushToken stores the device token; an empty token clears it and
// disables push.
func (s *UserService) UpdatePushToken(ctx context.Context, userID, token string) (*string, error) {
	var stored *string
	if token = strings.TrimSpace(token); token != "" {
		stored = &token
	}

	err := s.userRepository.UpdatePushToken(ctx, userID, stored)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update push token: %w", err)
	}

	return stored, nil
}

// Delete removes the account and everything it owns, then releases the
// avatar and post images.
func (s *UserService) Delete(ctx context.Context, userID string) error {
	user, err := s.ByID(ctx, userID)
	if err != nil {
		return err
	}

	urls, err := s.postRepository.ImageURLsByUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to list user images: %w", err)
	}
	if user.ProfilePictureURL != nil {
		urls = append(urls, *user.ProfilePictureURL)
	}

	err = s.userRepository.Delete(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrUserNotFound
		}
		return fmt.Errorf("failed to delete user: %w", err)
	}

	slog.Info("user deleted", "user_id", userID, "images", len(urls))

	s.media.Release(ctx, urls...)

	err = s.emailService.SendAccountDeletedEmail(ctx, user.Email, user.Username)
	if err != nil {
		slog.Warn("failed to send account deleted email", "error", err, "user_id", userID)
	}

	return nil
}
