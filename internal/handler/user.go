package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/iackson05/streakd/internal/ctxkeys"
	"github.com/iackson05/streakd/internal/service"
)

type UserHandler struct {
	userService         *service.UserService
	notificationService *service.NotificationService
}

func NewUserHandler(userService *service.UserService, notificationService *service.NotificationService) *UserHandler {
	return &UserHandler{
		userService:         userService,
		notificationService: notificationService,
	}
}

type updateUsernameRequest struct {
	Username string `json:"username" validate:"required,username"`
}

type notificationSettingsRequest struct {
	FriendRequests  *bool `json:"friend_requests"`
	Reactions       *bool `json:"reactions"`
	StreakReminders *bool `json:"streak_reminders"`
}

type pushTokenRequest struct {
	PushToken string `json:"push_token" validate:"max=512"`
}

func (h *UserHandler) Profile(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(w, r, "userID")
	if !ok {
		return
	}

	profile, err := h.userService.Profile(r.Context(), userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) Search(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.Search(r.Context(), ctxkeys.UserID(r.Context()), r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, users)
}

func (h *UserHandler) UpdateUsername(w http.ResponseWriter, r *http.Request) {
	var req updateUsernameRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	username, err := h.userService.UpdateUsername(r.Context(), ctxkeys.UserID(r.Context()), req.Username)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"username": username})
}

func (h *UserHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	available, err := h.userService.UsernameAvailable(r.Context(), ctxkeys.UserID(r.Context()), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]bool{"available": available})
}

func (h *UserHandler) UpdateProfilePicture(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	upload, err := readUpload(r, "file")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid file upload")
		return
	}
	if upload == nil {
		writeDetail(w, http.StatusBadRequest, "file is required")
		return
	}

	url, err := h.userService.UpdateProfilePicture(r.Context(), ctxkeys.UserID(r.Context()), *upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"profile_picture_url": url})
}

func (h *UserHandler) NotificationSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.notificationService.Settings(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

// UpdateNotificationSettings replaces all flags; omitted flags are enabled.
func (h *UserHandler) UpdateNotificationSettings(w http.ResponseWriter, r *http.Request) {
	var req notificationSettingsRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	settings, err := h.notificationService.Update(
		r.Context(),
		ctxkeys.UserID(r.Context()),
		flagOrDefault(req.FriendRequests),
		flagOrDefault(req.Reactions),
		flagOrDefault(req.StreakReminders),
	)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, settings)
}

func (h *UserHandler) UpdatePushToken(w http.ResponseWriter, r *http.Request) {
	var req pushTokenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	token, err := h.userService.UpdatePushToken(r.Context(), ctxkeys.UserID(r.Context()), req.PushToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*string{"push_token": token})
}

func (h *UserHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	err := h.userService.Delete(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func flagOrDefault(v *bool) bool {
	if v == nil {
		return true
	}
	return *v
}
