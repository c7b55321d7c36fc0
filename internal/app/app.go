package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/iackson05/streakd/internal/cache"
	"github.com/iackson05/streakd/internal/config"
	"github.com/iackson05/streakd/internal/db"
	"github.com/iackson05/streakd/internal/repository"
	"github.com/iackson05/streakd/internal/service"
	"github.com/iackson05/streakd/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg                 *config.Config
	DB                  *sqlx.DB
	Revocations         cache.RevocationStore
	AuthService         *service.AuthService
	UserService         *service.UserService
	EmailService        *service.EmailService
	MediaService        *service.MediaService
	NotificationService *service.NotificationService
	GoalService         *service.GoalService
	PostService         *service.PostService
	FeedService         *service.FeedService
	ReactionService     *service.ReactionService
	FriendshipService   *service.FriendshipService
	ReminderService     *service.ReminderService
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	revocations := cache.New(ctx, cfg)

	return Wire(cfg, database, blobStorage, revocations), nil
}

// Wire builds the repositories and services on top of already opened
// infrastructure.
func Wire(cfg *config.Config, database *sqlx.DB, blobStorage storage.Storage, revocations cache.RevocationStore) *App {
	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)
	postRepository := repository.NewPostRepository(database)
	reactionRepository := repository.NewReactionRepository(database)
	friendshipRepository := repository.NewFriendshipRepository(database)
	notificationRepository := repository.NewNotificationRepository(database)

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	mediaService := service.NewMediaService(blobStorage)
	notificationService := service.NewNotificationService(database, notificationRepository)
	authService := service.NewAuthService(
		database,
		userRepository,
		notificationRepository,
		revocations,
		emailService,
		cfg.JWTSecret,
		cfg.AccessTokenExpiry,
		cfg.RefreshTokenExpiry,
	)
	userService := service.NewUserService(userRepository, friendshipRepository, postRepository, mediaService, emailService)
	goalService := service.NewGoalService(database, goalRepository, postRepository, mediaService)
	postService := service.NewPostService(postRepository, goalRepository, userRepository, mediaService)
	feedService := service.NewFeedService(postRepository, friendshipRepository)
	reactionService := service.NewReactionService(database, postRepository, reactionRepository)
	friendshipService := service.NewFriendshipService(database, friendshipRepository, userRepository, notificationService, emailService)
	reminderService := service.NewReminderService(goalRepository, notificationService, emailService)

	return &App{
		Cfg:                 cfg,
		DB:                  database,
		Revocations:         revocations,
		AuthService:         authService,
		UserService:         userService,
		EmailService:        emailService,
		MediaService:        mediaService,
		NotificationService: notificationService,
		GoalService:         goalService,
		PostService:         postService,
		FeedService:         feedService,
		ReactionService:     reactionService,
		FriendshipService:   friendshipService,
		ReminderService:     reminderService,
	}
}

func (a *App) Close() error {
	var errs []error
	if closer, ok := a.Revocations.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
