package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iackson05/streakd/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrReactionNotFound  = errors.New("reaction not found")
	ErrDuplicateReaction = errors.New("user already reacted to this post")
)

// ReactionRepository methods that mutate take a Querier so they can share the
// transaction holding the post lock.
type ReactionRepository interface {
	ByPostAndUser(ctx context.Context, q Querier, postID, userID string) (*model.Reaction, error)
	Create(ctx context.Context, q Querier, reaction *model.Reaction) error
	UpdateEmoji(ctx context.Context, q Querier, reactionID string, emoji model.Emoji) error
	Delete(ctx context.Context, q Querier, reactionID string) error
	ForUserAndPosts(ctx context.Context, userID string, postIDs []string) ([]*model.UserReaction, error)
	CountsByPost(ctx context.Context, q Querier, postID string) (model.ReactionCounts, error)
}

type reactionRepository struct {
	db *sqlx.DB
}

func NewReactionRepository(db *sqlx.DB) ReactionRepository {
	return &reactionRepository{db: db}
}

func (r *reactionRepository) ByPostAndUser(ctx context.Context, q Querier, postID, userID string) (*model.Reaction, error) {
	reaction := &model.Reaction{}
	query := `SELECT * FROM reactions WHERE post_id = $1 AND user_id = $2`

	err := sqlx.GetContext(ctx, q, reaction, query, postID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrReactionNotFound
	}
	if err != nil {
		return nil, err
	}

	return reaction, nil
}

func (r *reactionRepository) Create(ctx context.Context, q Querier, reaction *model.Reaction) error {
	query := `INSERT INTO reactions (id, post_id, user_id, emoji, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := q.ExecContext(ctx, query,
		reaction.ID,
		reaction.PostID,
		reaction.UserID,
		reaction.Emoji,
		reaction.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateReaction
	}

	return err
}

func (r *reactionRepository) UpdateEmoji(ctx context.Context, q Querier, reactionID string, emoji model.Emoji) error {
	result, err := q.ExecContext(ctx, `UPDATE reactions SET emoji = $1 WHERE id = $2`, emoji, reactionID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrReactionNotFound)
}

func (r *reactionRepository) Delete(ctx context.Context, q Querier, reactionID string) error {
	result, err := q.ExecContext(ctx, `DELETE FROM reactions WHERE id = $1`, reactionID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrReactionNotFound)
}

func (r *reactionRepository) ForUserAndPosts(ctx context.Context, userID string, postIDs []string) ([]*model.UserReaction, error) {
	reactions := []*model.UserReaction{}
	if len(postIDs) == 0 {
		return reactions, nil
	}

	query, args, err := sqlx.In(`SELECT post_id, emoji FROM reactions WHERE user_id = ? AND post_id IN (?)`, userID, postIDs)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &reactions, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return reactions, nil
}

// CountsByPost recomputes the four counters from the reaction rows of a post.
func (r *reactionRepository) CountsByPost(ctx context.Context, q Querier, postID string) (model.ReactionCounts, error) {
	var rows []struct {
		Emoji model.Emoji `db:"emoji"`
		Count int         `db:"count"`
	}

	var counts model.ReactionCounts
	query := `SELECT emoji, COUNT(*) AS count FROM reactions WHERE post_id = $1 GROUP BY emoji`

	err := sqlx.SelectContext(ctx, q, &rows, query, postID)
	if err != nil {
		return counts, err
	}

	for _, row := range rows {
		for i := 0; i < row.Count; i++ {
			counts.Increment(row.Emoji)
		}
	}

	return counts, nil
}
