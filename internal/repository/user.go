package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iackson05/streakd/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already exists")
	ErrDuplicateUsername = errors.New("username already exists")
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

type UserRepository interface {
	Create(ctx context.Context, q Querier, user *model.User) error
	ByID(ctx context.Context, id string) (*model.User, error)
	ByEmail(ctx context.Context, email string) (*model.User, error)
	ByUsername(ctx context.Context, username string) (*model.User, error)
	Search(ctx context.Context, query, excludeID string, limit int) ([]*model.UserSummary, error)
	UpdateUsername(ctx context.Context, id, username string) error
	UpdateProfilePicture(ctx context.Context, id string, url *string) error
	UpdatePushToken(ctx context.Context, id string, token *string) error
	Delete(ctx context.Context, id string) error
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, q Querier, user *model.User) error {
	query := `INSERT INTO users (id, username, email, password_hash, profile_picture_url, push_token, push_notifications_enabled, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := q.ExecContext(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.ProfilePictureURL,
		user.PushToken,
		user.PushNotificationsEnabled,
		user.CreatedAt,
	)
	if err != nil {
		return uniqueUserError(err)
	}

	return nil
}

func uniqueUserError(err error) error {
	switch {
	case violatesConstraint(err, "email"):
		return ErrDuplicateEmail
	case violatesConstraint(err, "username"):
		return ErrDuplicateUsername
	}
	return err
}

func (r *userRepository) ByID(ctx context.Context, id string) (*model.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE id = $1`, id)
}

func (r *userRepository) ByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE email = $1`, email)
}

func (r *userRepository) ByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.getOne(ctx, `SELECT * FROM users WHERE username = $1`, username)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*model.User, error) {
	user := &model.User{}

	err := r.db.GetContext(ctx, user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	return user, nil
}

func (r *userRepository) Search(ctx context.Context, query, excludeID string, limit int) ([]*model.UserSummary, error) {
	users := []*model.UserSummary{}
	stmt := `SELECT id, username, profile_picture_url FROM users
	         WHERE LOWER(username) LIKE $1 ESCAPE '\' AND id <> $2
	         ORDER BY username ASC
	         LIMIT $3`

	err := r.db.SelectContext(ctx, &users, stmt, "%"+likeEscaper.Replace(strings.ToLower(query))+"%", excludeID, limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}

func (r *userRepository) UpdateUsername(ctx context.Context, id, username string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET username = $1 WHERE id = $2`, username, id)
	if err != nil {
		return uniqueUserError(err)
	}
	return expectRow(result, ErrUserNotFound)
}

func (r *userRepository) UpdateProfilePicture(ctx context.Context, id string, url *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET profile_picture_url = $1 WHERE id = $2`, url, id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrUserNotFound)
}

func (r *userRepository) UpdatePushToken(ctx context.Context, id string, token *string) error {
	result, err := r.db.ExecContext(ctx, `UPDATE users SET push_token = $1, push_notifications_enabled = $2 WHERE id = $3`, token, token != nil, id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrUserNotFound)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return expectRow(result, ErrUserNotFound)
}

// expectRow returns notFound when the statement touched no rows.
func expectRow(result sql.Result, notFound error) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return notFound
	}

	return nil
}
