package handler

import (
	"net/http"

	"github.com/iackson05/streakd/internal/ctxkeys"
	"github.com/iackson05/streakd/internal/service"
)

type GoalHandler struct {
	goalService *service.GoalService
}

func NewGoalHandler(goalService *service.GoalService) *GoalHandler {
	return &GoalHandler{
		goalService: goalService,
	}
}

type createGoalRequest struct {
	Title          string  `json:"title" validate:"required,max=200"`
	Description    *string `json:"description" validate:"omitempty,max=1000"`
	Privacy        string  `json:"privacy" validate:"omitempty,oneof=public friends private"`
	StreakInterval *int    `json:"streak_interval" validate:"omitempty,gte=1"`
}

func (h *GoalHandler) List(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.Goals(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Active(w http.ResponseWriter, r *http.Request) {
	goals, err := h.goalService.ActiveGoals(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goals)
}

func (h *GoalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	goal, err := h.goalService.Create(r.Context(), ctxkeys.UserID(r.Context()), service.CreateGoalInput{
		Title:          req.Title,
		Description:    req.Description,
		Privacy:        req.Privacy,
		StreakInterval: req.StreakInterval,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, goal)
}

func (h *GoalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	err := h.goalService.Delete(r.Context(), ctxkeys.UserID(r.Context()), goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *GoalHandler) Complete(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	goal, err := h.goalService.Complete(r.Context(), ctxkeys.UserID(r.Context()), goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}

func (h *GoalHandler) IncrementStreak(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	goal, err := h.goalService.IncrementStreak(r.Context(), ctxkeys.UserID(r.Context()), goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, goal)
}
