package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/iackson05/streakd/internal/app"
	"github.com/iackson05/streakd/internal/handler"
	"github.com/iackson05/streakd/internal/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func SetupRoutes(app *app.App) http.Handler {
	// Handlers
	health := handler.NewHealthHandler(app.DB)
	auth := handler.NewAuthHandler(app.AuthService, app.UserService)
	user := handler.NewUserHandler(app.UserService, app.NotificationService)
	goal := handler.NewGoalHandler(app.GoalService)
	post := handler.NewPostHandler(app.PostService, app.FeedService)
	reaction := handler.NewReactionHandler(app.ReactionService)
	friend := handler.NewFriendHandler(app.FriendshipService)

	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.RequestLogging)
	r.Use(middleware.SecurityHeaders)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.Cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// ============================================================================
	// PUBLIC ROUTES
	// ============================================================================

	r.Get("/health", health.Health)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.RequireAuth(app.AuthService)

	r.Route("/auth", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.RateLimitAuth(app.Cfg.AuthRateLimit))
			r.Post("/signup", auth.Signup)
			r.Post("/login", auth.Login)
			r.Post("/refresh", auth.Refresh)
		})

		r.With(requireAuth).Post("/logout", auth.Logout)
		r.With(requireAuth).Get("/me", auth.Me)
	})

	// ============================================================================
	// PROTECTED ROUTES
	// ============================================================================

	r.Group(func(r chi.Router) {
		r.Use(requireAuth)

		r.Route("/users", func(r chi.Router) {
			r.Get("/profile/{userID}", user.Profile)
			r.Get("/search", user.Search)
			r.Put("/username", user.UpdateUsername)
			r.Get("/check-username/{username}", user.CheckUsername)
			r.Put("/profile-picture", user.UpdateProfilePicture)
			r.Get("/notification-settings", user.NotificationSettings)
			r.Put("/notification-settings", user.UpdateNotificationSettings)
			r.Put("/push-token", user.UpdatePushToken)
			r.Delete("/me", user.DeleteAccount)
		})

		r.Route("/goals", func(r chi.Router) {
			r.Get("/", goal.List)
			r.Get("/active", goal.Active)
			r.Post("/", goal.Create)
			r.Delete("/{goalID}", goal.Delete)
			r.Put("/{goalID}/complete", goal.Complete)
			r.Put("/{goalID}/streak", goal.IncrementStreak)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/feed", post.Feed)
			r.Get("/goal/{goalID}", post.GoalPosts)
			r.Post("/", post.Create)
			r.Delete("/{postID}", post.Delete)
		})

		r.Route("/reactions", func(r chi.Router) {
			r.Post("/toggle", reaction.Toggle)
			r.Get("/user", reaction.UserReactions)
			r.Get("/post/{postID}", reaction.PostReactions)
		})

		r.Route("/friends", func(r chi.Router) {
			r.Get("/", friend.List)
			r.Get("/accepted-ids", friend.AcceptedIDs)
			r.Post("/request", friend.SendRequest)
			r.Put("/accept", friend.Accept)
			r.Delete("/reject", friend.Reject)
			r.Delete("/{friendID}", friend.Remove)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"not found"}`))
	})

	return r
}
