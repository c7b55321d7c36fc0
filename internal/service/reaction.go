package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/metrics"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/jmoiron/sqlx"
)

// ToggleResult is the state of a post right after a toggle.
type ToggleResult struct {
	model.ReactionCounts
	UserReaction *model.Emoji `json:"user_reaction"`
}

// ReconcileResult reports a post whose cached counters were corrected.
type ReconcileResult struct {
	PostID string
	Before model.ReactionCounts
	After  model.ReactionCounts
}

type ReactionService struct {
	db           *sqlx.DB
	postRepo     repository.PostRepository
	reactionRepo repository.ReactionRepository
	// one critical section per post; the row lock covers other processes
	postLocks *keyedMutex
}

func NewReactionService(db *sqlx.DB, postRepo repository.PostRepository, reactionRepo repository.ReactionRepository) *ReactionService {
	return &ReactionService{
		db:           db,
		postRepo:     postRepo,
		reactionRepo: reactionRepo,
		postLocks:    newKeyedMutex(),
	}
}

// Toggle applies the caller's reaction to a post:
//   - no reaction yet: add it
//   - same emoji: remove it
//   - other emoji: switch to the new one
//
// Counters and the reaction row change in one transaction while the post is
// locked, so concurrent toggles on a post are applied one at a time.
func (s *ReactionService) Toggle(ctx context.Context, postID, userID, emoji string) (*ToggleResult, error) {
	e, ok := model.ParseEmoji(emoji)
	if !ok {
		return nil, ErrInvalidEmoji
	}

	start := time.Now()
	unlock, err := s.postLocks.Lock(ctx, postID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var result *ToggleResult
	var outcome string

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		post, err := s.postRepo.ByIDForUpdate(ctx, tx, postID)
		if err != nil {
			return err
		}

		counts := post.ReactionCounts
		var current *model.Emoji

		existing, err := s.reactionRepo.ByPostAndUser(ctx, tx, postID, userID)
		switch {
		case errors.Is(err, repository.ErrReactionNotFound):
			err = s.reactionRepo.Create(ctx, tx, &model.Reaction{
				ID:        uuid.New().String(),
				PostID:    postID,
				UserID:    userID,
				Emoji:     e,
				CreatedAt: time.Now().UTC(),
			})
			if err != nil {
				return err
			}
			counts.Increment(e)
			current = &e
			outcome = "added"

		case err != nil:
			return err

		case existing.Emoji == e:
			err = s.reactionRepo.Delete(ctx, tx, existing.ID)
			if err != nil {
				return err
			}
			counts.Decrement(e)
			outcome = "removed"

		default:
			err = s.reactionRepo.UpdateEmoji(ctx, tx, existing.ID, e)
			if err != nil {
				return err
			}
			counts.Decrement(existing.Emoji)
			counts.Increment(e)
			current = &e
			outcome = "switched"
		}

		err = s.postRepo.UpdateCounts(ctx, tx, postID, counts)
		if err != nil {
			return err
		}

		result = &ToggleResult{ReactionCounts: counts, UserReaction: current}
		return nil
	})
	if err != nil {
		metrics.RecordToggle("error", time.Since(start))
		if errors.Is(err, repository.ErrPostNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to toggle reaction: %w", err)
	}

	metrics.RecordToggle(outcome, time.Since(start))
	slog.Debug("reaction toggled", "post_id", postID, "user_id", userID, "outcome", outcome)
	return result, nil
}

// UserReactionsForPosts returns the caller's reaction on each of postIDs
// that has one.
func (s *ReactionService) UserReactionsForPosts(ctx context.Context, userID string, postIDs []string) ([]*model.UserReaction, error) {
	reactions, err := s.reactionRepo.ForUserAndPosts(ctx, userID, postIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get reactions: %w", err)
	}
	return reactions, nil
}

// PostReactions returns the caller's reaction on one post, as a list of at
// most one element. Other users' reactions are never exposed.
func (s *ReactionService) PostReactions(ctx context.Context, userID, postID string) ([]*model.UserReaction, error) {
	return s.UserReactionsForPosts(ctx, userID, []string{postID})
}

// Reconcile recomputes every post's counters from its reaction rows and
// rewrites the ones that drifted. Each post is fixed under the same lock a
// toggle takes.
func (s *ReactionService) Reconcile(ctx context.Context) ([]ReconcileResult, error) {
	ids, err := s.postRepo.IDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	var fixed []ReconcileResult
	for _, id := range ids {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}

		res, err := s.reconcilePost(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrPostNotFound) {
				continue // deleted meanwhile
			}
			return fixed, fmt.Errorf("failed to reconcile post %s: %w", id, err)
		}

		if res != nil {
			fixed = append(fixed, *res)
			metrics.ReactionCountersRepaired.Inc()
			slog.Warn("reaction counters repaired", "post_id", id, "before", res.Before, "after", res.After)
		}
	}

	slog.Info("reaction reconciliation finished", "posts", len(ids), "repaired", len(fixed))
	return fixed, nil
}

func (s *ReactionService) reconcilePost(ctx context.Context, postID string) (*ReconcileResult, error) {
	unlock, err := s.postLocks.Lock(ctx, postID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	var res *ReconcileResult

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		post, err := s.postRepo.ByIDForUpdate(ctx, tx, postID)
		if err != nil {
			return err
		}

		actual, err := s.reactionRepo.CountsByPost(ctx, tx, postID)
		if err != nil {
			return err
		}

		if actual == post.ReactionCounts {
			return nil
		}

		err = s.postRepo.UpdateCounts(ctx, tx, postID, actual)
		if err != nil {
			return err
		}

		res = &ReconcileResult{PostID: postID, Before: post.ReactionCounts, After: actual}
		return nil
	})

	return res, err
}
