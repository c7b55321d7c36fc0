package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/cache"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/validation"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// tokenClaims are the claims of both access and refresh tokens; Type tells
// them apart so a refresh token is never accepted as an access token.
type tokenClaims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

type AuthService struct {
	db                     *sqlx.DB
	userRepository         repository.UserRepository
	notificationRepository repository.NotificationRepository
	revocations            cache.RevocationStore
	emailService           *EmailService
	jwtSecret              []byte
	accessExpiry           time.Duration
	refreshExpiry          time.Duration
}

func NewAuthService(
	db *sqlx.DB,
	userRepository repository.UserRepository,
	notificationRepository repository.NotificationRepository,
	revocations cache.RevocationStore,
	emailService *EmailService,
	jwtSecret string,
	accessExpiry time.Duration,
	refreshExpiry time.Duration,
) *AuthService {
	return &AuthService{
		db:                     db,
		userRepository:         userRepository,
		notificationRepository: notificationRepository,
		revocations:            revocations,
		emailService:           emailService,
		jwtSecret:              []byte(jwtSecret),
		accessExpiry:           accessExpiry,
		refreshExpiry:          refreshExpiry,
	}
}

// Signup creates the user and its default notification settings in one
// transaction and returns a fresh token pair.
func (s *AuthService) Signup(ctx context.Context, email, password, username string) (*model.TokenPair, error) {
	email = validation.NormalizeEmail(email)
	username = validation.NormalizeUsername(username)

	err := validation.ValidateEmail(email)
	if err != nil {
		return nil, invalidInput("%s", err.Error())
	}
	err = validation.ValidateUsername(username)
	if err != nil {
		return nil, invalidInput("%s", err.Error())
	}
	err = validation.ValidatePassword(password)
	if err != nil {
		return nil, invalidInput("%s", err.Error())
	}

	hash, err := s.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		ID:           uuid.New().String(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		err := s.userRepository.Create(ctx, tx, user)
		if err != nil {
			return err
		}

		settings := model.DefaultNotificationSettings(user.ID)
		settings.ID = uuid.New().String()
		return s.notificationRepository.Create(ctx, tx, settings)
	})
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return nil, ErrEmailAlreadyExists
	case errors.Is(err, repository.ErrDuplicateUsername):
		return nil, ErrUsernameTaken
	case err != nil:
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("user signed up", "user_id", user.ID, "username", user.Username)

	err = s.emailService.SendWelcomeEmail(ctx, user.Email, user.Username)
	if err != nil {
		slog.Warn("failed to send welcome email", "error", err, "user_id", user.ID)
	}

	return s.issueTokens(user.ID)
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	email = validation.NormalizeEmail(email)

	user, err := s.userRepository.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.ComparePassword(password, user.PasswordHash)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.issueTokens(user.ID)
}

// Refresh exchanges a refresh token for a new pair. The presented refresh
// token is revoked so it can only be used once.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.TokenPair, error) {
	session, err := s.verify(ctx, refreshToken, model.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	_, err = s.userRepository.ByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	err = s.revocations.Revoke(ctx, session.TokenID, session.ExpiresAt)
	if err != nil {
		slog.Warn("failed to revoke used refresh token", "error", err, "user_id", session.UserID)
	}

	return s.issueTokens(session.UserID)
}

// Logout revokes the caller's access token and, when given, its refresh token.
func (s *AuthService) Logout(ctx context.Context, access *model.Session, refreshToken string) error {
	err := s.revocations.Revoke(ctx, access.TokenID, access.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to revoke access token: %w", err)
	}

	if refreshToken == "" {
		return nil
	}

	refresh, err := s.verify(ctx, refreshToken, model.TokenTypeRefresh)
	if err != nil || refresh.UserID != access.UserID {
		return nil
	}

	err = s.revocations.Revoke(ctx, refresh.TokenID, refresh.ExpiresAt)
	if err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	slog.Info("user logged out", "user_id", access.UserID)
	return nil
}

// Authenticate verifies a bearer access token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	return s.verify(ctx, token, model.TokenTypeAccess)
}

// VerifyAccessToken returns the user id an access token was issued to.
func (s *AuthService) VerifyAccessToken(ctx context.Context, token string) (string, error) {
	session, err := s.Authenticate(ctx, token)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

func (s *AuthService) HashPassword(password string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

func (s *AuthService) ComparePassword(password, hash string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}

func (s *AuthService) issueTokens(userID string) (*model.TokenPair, error) {
	access, err := s.signToken(userID, model.TokenTypeAccess, s.accessExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign access token: %w", err)
	}

	refresh, err := s.signToken(userID, model.TokenTypeRefresh, s.refreshExpiry)
	if err != nil {
		return nil, fmt.Errorf("failed to sign refresh token: %w", err)
	}

	return &model.TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

func (s *AuthService) signToken(userID, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func (s *AuthService) verify(ctx context.Context, tokenString, tokenType string) (*model.Session, error) {
	claims := &tokenClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return s.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	if claims.Type != tokenType || claims.Subject == "" || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		slog.Warn("token revocation check failed", "error", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	return &model.Session{
		UserID:    claims.Subject,
		TokenID:   claims.ID,
		Type:      claims.Type,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
