package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrPostNotFound = errors.New("post not found")
)

const feedColumns = `p.*, u.username, u.profile_picture_url,
	g.title AS goal_title, g.privacy AS goal_privacy, g.streak_count`

const feedJoins = `FROM posts p
	JOIN users u ON u.id = p.user_id
	JOIN goals g ON g.id = p.goal_id`

type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	ByID(ctx context.Context, postID string) (*model.Post, error)
	ByIDForUpdate(ctx context.Context, q Querier, postID string) (*model.Post, error)
	UpdateCounts(ctx context.Context, q Querier, postID string, counts model.ReactionCounts) error
	Delete(ctx context.Context, userID, postID string) error
	Feed(ctx context.Context, userIDs []string, since time.Time) ([]*model.FeedPost, error)
	ByGoal(ctx context.Context, goalID string) ([]*model.FeedPost, error)
	ImageURLsByGoal(ctx context.Context, goalID string) ([]string, error)
	ImageURLsByUser(ctx context.Context, userID string) ([]string, error)
	IDs(ctx context.Context) ([]string, error)
}

type postRepository struct {
	db *sqlx.DB
}

func NewPostRepository(db *sqlx.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	query := `INSERT INTO posts (id, user_id, goal_id, image_url, caption, created_at, reaction_fire, reaction_fist, reaction_party, reaction_heart)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		post.ID,
		post.UserID,
		post.GoalID,
		post.ImageURL,
		post.Caption,
		post.CreatedAt,
		post.Fire,
		post.Fist,
		post.Party,
		post.Heart,
	)

	return err
}

func (r *postRepository) ByID(ctx context.Context, postID string) (*model.Post, error) {
	return r.get(ctx, r.db, `SELECT * FROM posts WHERE id = $1`, postID)
}

// ByIDForUpdate reads a post and, on drivers that support it, holds its row
// lock until q's transaction ends.
func (r *postRepository) ByIDForUpdate(ctx context.Context, q Querier, postID string) (*model.Post, error) {
	query := `SELECT * FROM posts WHERE id = $1`
	if db.SupportsRowLocks(q.DriverName()) {
		query += ` FOR UPDATE`
	}
	return r.get(ctx, q, query, postID)
}

func (r *postRepository) get(ctx context.Context, q Querier, query, postID string) (*model.Post, error) {
	post := &model.Post{}

	err := sqlx.GetContext(ctx, q, post, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (r *postRepository) UpdateCounts(ctx context.Context, q Querier, postID string, counts model.ReactionCounts) error {
	query := `UPDATE posts
	          SET reaction_fire = $1, reaction_fist = $2, reaction_party = $3, reaction_heart = $4
	          WHERE id = $5`

	result, err := q.ExecContext(ctx, query, counts.Fire, counts.Fist, counts.Party, counts.Heart, postID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrPostNotFound)
}

func (r *postRepository) Delete(ctx context.Context, userID, postID string) error {
	query := `DELETE FROM posts WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, postID, userID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrPostNotFound)
}

// Feed returns every post authored by userIDs since the given instant,
// newest first. Privacy filtering is left to the caller.
func (r *postRepository) Feed(ctx context.Context, userIDs []string, since time.Time) ([]*model.FeedPost, error) {
	posts := []*model.FeedPost{}
	if len(userIDs) == 0 {
		return posts, nil
	}

	query, args, err := sqlx.In(`SELECT `+feedColumns+` `+feedJoins+`
		WHERE p.user_id IN (?) AND p.created_at >= ?
		ORDER BY p.created_at DESC, p.id DESC`, userIDs, since)
	if err != nil {
		return nil, err
	}

	err = r.db.SelectContext(ctx, &posts, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) ByGoal(ctx context.Context, goalID string) ([]*model.FeedPost, error) {
	posts := []*model.FeedPost{}
	query := `SELECT ` + feedColumns + ` ` + feedJoins + `
		WHERE p.goal_id = $1
		ORDER BY p.created_at DESC, p.id DESC`

	err := r.db.SelectContext(ctx, &posts, query, goalID)
	if err != nil {
		return nil, err
	}

	return posts, nil
}

func (r *postRepository) ImageURLsByGoal(ctx context.Context, goalID string) ([]string, error) {
	return r.imageURLs(ctx, `SELECT image_url FROM posts WHERE goal_id = $1 AND image_url IS NOT NULL`, goalID)
}

func (r *postRepository) ImageURLsByUser(ctx context.Context, userID string) ([]string, error) {
	return r.imageURLs(ctx, `SELECT image_url FROM posts WHERE user_id = $1 AND image_url IS NOT NULL`, userID)
}

func (r *postRepository) imageURLs(ctx context.Context, query, id string) ([]string, error) {
	urls := []string{}

	err := r.db.SelectContext(ctx, &urls, query, id)
	if err != nil {
		return nil, err
	}

	return urls, nil
}

func (r *postRepository) IDs(ctx context.Context) ([]string, error) {
	ids := []string{}

	err := r.db.SelectContext(ctx, &ids, `SELECT id FROM posts ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}

	return ids, nil
}
