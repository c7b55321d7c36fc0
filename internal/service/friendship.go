package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/jmoiron/sqlx"
)

// FriendshipService runs the friendship state machine:
// pending -> accepted by the target, pending -> removed by the target's
// reject, and any -> removed by either party.
type FriendshipService struct {
	db            *sqlx.DB
	repo          repository.FriendshipRepository
	userRepo      repository.UserRepository
	notifications *NotificationService
	emailService  *EmailService
	// serializes requests per unordered pair; the unordered-pair unique
	// index covers other processes
	pairLocks *keyedMutex
}

func NewFriendshipService(
	db *sqlx.DB,
	repo repository.FriendshipRepository,
	userRepo repository.UserRepository,
	notifications *NotificationService,
	emailService *EmailService,
) *FriendshipService {
	return &FriendshipService{
		db:            db,
		repo:          repo,
		userRepo:      userRepo,
		notifications: notifications,
		emailService:  emailService,
		pairLocks:     newKeyedMutex(),
	}
}

// Friendships lists every record the user takes part in, newest first.
func (s *FriendshipService) Friendships(ctx context.Context, userID string) ([]*model.FriendshipView, error) {
	friendships, err := s.repo.ForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friendships: %w", err)
	}
	return friendships, nil
}

func (s *FriendshipService) AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	ids, err := s.repo.AcceptedFriendIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get friend ids: %w", err)
	}
	return ids, nil
}

// SendRequest creates a pending record from userID to friendID.
func (s *FriendshipService) SendRequest(ctx context.Context, userID, friendID string) (*model.FriendshipView, error) {
	if userID == friendID {
		return nil, ErrSelfFriendship
	}

	unlock, err := s.pairLocks.Lock(ctx, pairKey(userID, friendID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	target, err := s.userRepo.ByID(ctx, friendID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	friendship := &model.Friendship{
		ID:        uuid.New().String(),
		UserID:    userID,
		FriendID:  friendID,
		Status:    model.FriendshipStatusPending,
		CreatedAt: time.Now().UTC(),
	}

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := s.repo.Between(ctx, tx, userID, friendID)
		if err == nil {
			return repository.ErrDuplicateFriendship
		}
		if !errors.Is(err, repository.ErrFriendshipNotFound) {
			return err
		}

		return s.repo.Create(ctx, tx, friendship)
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateFriendship) {
			return nil, ErrFriendshipExists
		}
		return nil, fmt.Errorf("failed to create friendship: %w", err)
	}

	slog.Info("friend request sent", "friendship_id", friendship.ID, "user_id", userID, "friend_id", friendID)

	s.notifyFriendRequest(ctx, target, userID)

	return &model.FriendshipView{
		Friendship:              *friendship,
		FriendUsername:          &target.Username,
		FriendProfilePictureURL: target.ProfilePictureURL,
	}, nil
}

// Accept moves a pending request addressed to userID to accepted.
func (s *FriendshipService) Accept(ctx context.Context, userID, friendshipID string) (*model.FriendshipView, error) {
	friendship, err := s.repo.PendingFor(ctx, userID, friendshipID)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return nil, ErrFriendRequestGone
		}
		return nil, fmt.Errorf("failed to get friend request: %w", err)
	}

	err = s.repo.Accept(ctx, friendship.ID)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return nil, ErrFriendRequestGone
		}
		return nil, fmt.Errorf("failed to accept friend request: %w", err)
	}
	friendship.Status = model.FriendshipStatusAccepted

	slog.Info("friend request accepted", "friendship_id", friendship.ID, "user_id", userID)

	view := &model.FriendshipView{Friendship: *friendship}

	sender, err := s.userRepo.ByID(ctx, friendship.UserID)
	if err != nil {
		slog.Warn("failed to load friend request sender", "error", err, "friendship_id", friendship.ID)
		return view, nil
	}

	view.FriendUsername = &sender.Username
	view.FriendProfilePictureURL = sender.ProfilePictureURL

	s.notifyAccepted(ctx, sender, userID)

	return view, nil
}

// Reject deletes a pending request addressed to userID. The status check
// and the delete are one statement, so a request accepted meanwhile stays.
func (s *FriendshipService) Reject(ctx context.Context, userID, friendshipID string) error {
	err := s.repo.DeletePending(ctx, userID, friendshipID)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return ErrFriendRequestGone
		}
		return fmt.Errorf("failed to reject friend request: %w", err)
	}

	slog.Info("friend request rejected", "friendship_id", friendshipID, "user_id", userID)
	return nil
}

// Remove deletes the record between userID and friendID whatever its status
// or direction. It covers unfriending and cancelling a sent request.
func (s *FriendshipService) Remove(ctx context.Context, userID, friendID string) error {
	friendship, err := s.repo.Between(ctx, s.db, userID, friendID)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return ErrFriendshipNotFound
		}
		return fmt.Errorf("failed to get friendship: %w", err)
	}

	err = s.repo.Delete(ctx, friendship.ID)
	if err != nil {
		if errors.Is(err, repository.ErrFriendshipNotFound) {
			return ErrFriendshipNotFound
		}
		return fmt.Errorf("failed to remove friendship: %w", err)
	}

	slog.Info("friendship removed", "friendship_id", friendship.ID, "user_id", userID, "status", friendship.Status)
	return nil
}

func (s *FriendshipService) notifyFriendRequest(ctx context.Context, target *model.User, fromUserID string) {
	if !s.notifications.Wants(ctx, target.ID, func(ns *model.NotificationSettings) bool { return ns.FriendRequests }) {
		return
	}

	from, err := s.userRepo.ByID(ctx, fromUserID)
	if err != nil {
		slog.Warn("failed to load friend request sender", "error", err, "user_id", fromUserID)
		return
	}

	err = s.emailService.SendFriendRequestEmail(ctx, target.Email, target.Username, from.Username)
	if err != nil {
		slog.Warn("failed to send friend request email", "error", err, "user_id", target.ID)
	}
}

func (s *FriendshipService) notifyAccepted(ctx context.Context, sender *model.User, accepterID string) {
	if !s.notifications.Wants(ctx, sender.ID, func(ns *model.NotificationSettings) bool { return ns.FriendRequests }) {
		return
	}

	accepter, err := s.userRepo.ByID(ctx, accepterID)
	if err != nil {
		slog.Warn("failed to load friend request accepter", "error", err, "user_id", accepterID)
		return
	}

	err = s.emailService.SendFriendAcceptedEmail(ctx, sender.Email, sender.Username, accepter.Username)
	if err != nil {
		slog.Warn("failed to send friend accepted email", "error", err, "user_id", sender.ID)
	}
}

// pairKey is the same for (a, b) and (b, a).
func pairKey(a, b string) string {
	if a > b {
		a, b = b, a
	}
	return a + ":" + b
}
