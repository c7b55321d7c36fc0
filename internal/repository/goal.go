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
	ErrGoalNotFound = errors.New("goal not found")
)

type GoalRepository interface {
	Create(ctx context.Context, q Querier, goal *model.Goal) error
	ByID(ctx context.Context, userID, goalID string) (*model.Goal, error)
	Goals(ctx context.Context, userID string) ([]*model.Goal, error)
	ActiveGoals(ctx context.Context, userID string) ([]*model.Goal, error)
	CountActive(ctx context.Context, q Querier, userID string) (int, error)
	// LockOwner holds the owner's user row lock until q's transaction ends.
	LockOwner(ctx context.Context, q Querier, userID string) error
	Complete(ctx context.Context, userID, goalID string) error
	IncrementStreak(ctx context.Context, userID, goalID string, postedAt time.Time) error
	Delete(ctx context.Context, userID, goalID string) error
	StreakGoals(ctx context.Context) ([]*model.StreakGoal, error)
	MarkReminded(ctx context.Context, goalID string, at time.Time) error
}

type goalRepository struct {
	db *sqlx.DB
}

func NewGoalRepository(db *sqlx.DB) GoalRepository {
	return &goalRepository{db: db}
}

func (r *goalRepository) Create(ctx context.Context, q Querier, goal *model.Goal) error {
	query := `INSERT INTO goals (id, user_id, title, description, completed, privacy, streak_count, streak_interval, last_posted_at, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := q.ExecContext(ctx, query,
		goal.ID,
		goal.UserID,
		goal.Title,
		goal.Description,
		goal.Completed,
		goal.Privacy,
		goal.StreakCount,
		goal.StreakInterval,
		goal.LastPostedAt,
		goal.CreatedAt,
	)

	return err
}

func (r *goalRepository) ByID(ctx context.Context, userID, goalID string) (*model.Goal, error) {
	goal := &model.Goal{}
	query := `SELECT * FROM goals WHERE id = $1 AND user_id = $2`

	err := r.db.GetContext(ctx, goal, query, goalID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}

	return goal, nil
}

func (r *goalRepository) Goals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &goals, query, userID)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) ActiveGoals(ctx context.Context, userID string) ([]*model.Goal, error) {
	goals := []*model.Goal{}
	query := `SELECT * FROM goals WHERE user_id = $1 AND completed = $2 ORDER BY created_at DESC, id DESC`

	err := r.db.SelectContext(ctx, &goals, query, userID, false)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) CountActive(ctx context.Context, q Querier, userID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM goals WHERE user_id = $1 AND completed = $2`
	err := sqlx.GetContext(ctx, q, &count, query, userID, false)
	return count, err
}

func (r *goalRepository) LockOwner(ctx context.Context, q Querier, userID string) error {
	query := `SELECT id FROM users WHERE id = $1`
	if db.SupportsRowLocks(q.DriverName()) {
		query += ` FOR UPDATE`
	}

	var id string
	err := sqlx.GetContext(ctx, q, &id, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrUserNotFound
	}
	return err
}

func (r *goalRepository) Complete(ctx context.Context, userID, goalID string) error {
	query := `UPDATE goals SET completed = $1 WHERE id = $2 AND user_id = $3`
	result, err := r.db.ExecContext(ctx, query, true, goalID, userID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrGoalNotFound)
}

func (r *goalRepository) IncrementStreak(ctx context.Context, userID, goalID string, postedAt time.Time) error {
	query := `UPDATE goals
	          SET streak_count = streak_count + 1, last_posted_at = $1
	          WHERE id = $2 AND user_id = $3`

	result, err := r.db.ExecContext(ctx, query, postedAt, goalID, userID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrGoalNotFound)
}

func (r *goalRepository) Delete(ctx context.Context, userID, goalID string) error {
	query := `DELETE FROM goals WHERE id = $1 AND user_id = $2`
	result, err := r.db.ExecContext(ctx, query, goalID, userID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrGoalNotFound)
}

// StreakGoals returns the active goals that have been posted to and carry a
// streak interval, with their owners' username and email.
func (r *goalRepository) StreakGoals(ctx context.Context) ([]*model.StreakGoal, error) {
	goals := []*model.StreakGoal{}
	query := `SELECT g.*, u.username, u.email
	          FROM goals g
	          JOIN users u ON u.id = g.user_id
	          WHERE g.completed = $1 AND g.last_posted_at IS NOT NULL AND g.streak_interval IS NOT NULL
	          ORDER BY g.last_posted_at, g.id`

	err := r.db.SelectContext(ctx, &goals, query, false)
	if err != nil {
		return nil, err
	}

	return goals, nil
}

func (r *goalRepository) MarkReminded(ctx context.Context, goalID string, at time.Time) error {
	result, err := r.db.ExecContext(ctx, `UPDATE goals SET reminded_at = $1 WHERE id = $2`, at, goalID)
	if err != nil {
		return err
	}
	return expectRow(result, ErrGoalNotFound)
}
