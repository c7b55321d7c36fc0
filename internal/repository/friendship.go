package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iackson05/streakd/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrFriendshipNotFound  = errors.New("friendship not found")
	ErrDuplicateFriendship = errors.New("friendship already exists")
)

type FriendshipRepository interface {
	Create(ctx context.Context, q Querier, friendship *model.Friendship) error
	// Between returns the record linking a and b in either direction.
	Between(ctx context.Context, q Querier, a, b string) (*model.Friendship, error)
	PendingFor(ctx context.Context, userID, friendshipID string) (*model.Friendship, error)
	Accept(ctx context.Context, friendshipID string) error
	Delete(ctx context.Context, friendshipID string) error
	// DeletePending removes a record only while it is pending and addressed
	// to userID.
	DeletePending(ctx context.Context, userID, friendshipID string) error
	ForUser(ctx context.Context, userID string) ([]*model.FriendshipView, error)
	AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error)
	CountAccepted(ctx context.Context, userID string) (int, error)
}

type friendshipRepository struct {
	db *sqlx.DB
}

func NewFriendshipRepository(db *sqlx.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, q Querier, friendship *model.Friendship) error {
	query := `INSERT INTO friendships (id, user_id, friend_id, status, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := q.ExecContext(ctx, query,
		friendship.ID,
		friendship.UserID,
		friendship.FriendID,
		friendship.Status,
		friendship.CreatedAt,
	)
	// uq_friendships_unordered_pair rejects a second record for the pair in
	// either direction
	if isUniqueViolation(err) {
		return ErrDuplicateFriendship
	}

	return err
}

func (r *friendshipRepository) Between(ctx context.Context, q Querier, a, b string) (*model.Friendship, error) {
	friendship := &model.Friendship{}
	query := `SELECT * FROM friendships
	          WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
	          LIMIT 1`

	err := sqlx.GetContext(ctx, q, friendship, query, a, b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFriendshipNotFound
	}
	if err != nil {
		return nil, err
	}

	return friendship, nil
}

// PendingFor returns a pending record only when userID is its target.
func (r *friendshipRepository) PendingFor(ctx context.Context, userID, friendshipID string) (*model.Friendship, error) {
	friendship := &model.Friendship{}
	query := `SELECT * FROM friendships WHERE id = $1 AND friend_id = $2 AND status = $3`

	err := r.db.GetContext(ctx, friendship, query, friendshipID, userID, model.FriendshipStatusPending)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFriendshipNotFound
	}
	if err != nil {
		return nil, err
	}

	return friendship, nil
}

func (r *friendshipRepository) Accept(ctx context.Context, friendshipID string) error {
	query := `UPDATE friendships SET status = $1 WHERE id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, model.FriendshipStatusAccepted, friendshipID, model.FriendshipStatusPending)
	if err != nil {
		return err
	}
	return expectRow(result, ErrFriendshipNotFound)
}

func (r *friendshipRepository) Delete(ctx context.Context, friendshipID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM friendships WHERE id = $1`, friendshipID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrFriendshipNotFound)
}

func (r *friendshipRepository) DeletePending(ctx context.Context, userID, friendshipID string) error {
	query := `DELETE FROM friendships WHERE id = $1 AND friend_id = $2 AND status = $3`
	result, err := r.db.ExecContext(ctx, query, friendshipID, userID, model.FriendshipStatusPending)
	if err != nil {
		return err
	}
	return expectRow(result, ErrFriendshipNotFound)
}

// ForUser lists every record the user takes part in, with the other party's
// username and avatar.
func (r *friendshipRepository) ForUser(ctx context.Context, userID string) ([]*model.FriendshipView, error) {
	friendships := []*model.FriendshipView{}
	query := `SELECT f.*, u.username AS friend_username, u.profile_picture_url AS friend_profile_picture_url
	          FROM friendships f
	          LEFT JOIN users u ON u.id = CASE WHEN f.user_id = $1 THEN f.friend_id ELSE f.user_id END
	          WHERE f.user_id = $1 OR f.friend_id = $1
	          ORDER BY f.created_at DESC, f.id DESC`

	err := r.db.SelectContext(ctx, &friendships, query, userID)
	if err != nil {
		return nil, err
	}

	return friendships, nil
}

func (r *friendshipRepository) AcceptedFriendIDs(ctx context.Context, userID string) ([]string, error) {
	ids := []string{}
	query := `SELECT CASE WHEN user_id = $1 THEN friend_id ELSE user_id END AS id
	          FROM friendships
	          WHERE (user_id = $1 OR friend_id = $1) AND status = $2`

	err := r.db.SelectContext(ctx, &ids, query, userID, model.FriendshipStatusAccepted)
	if err != nil {
		return nil, err
	}

	return ids, nil
}

func (r *friendshipRepository) CountAccepted(ctx context.Context, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM friendships WHERE (user_id = $1 OR friend_id = $1) AND status = $2`
	err := r.db.GetContext(ctx, &count, query, userID, model.FriendshipStatusAccepted)
	return count, err
}
