package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/ctxkeys"
	"github.com/iackson05/streakd/internal/service"
)

type PostHandler struct {
	postService *service.PostService
	feedService *service.FeedService
	now         func() time.Time
}

func NewPostHandler(postService *service.PostService, feedService *service.FeedService) *PostHandler {
	return &PostHandler{
		postService: postService,
		feedService: feedService,
		now:         time.Now,
	}
}

func (h *PostHandler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.feedService.Feed(r.Context(), ctxkeys.UserID(r.Context()), h.now())
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

func (h *PostHandler) GoalPosts(w http.ResponseWriter, r *http.Request) {
	goalID, ok := pathID(w, r, "goalID")
	if !ok {
		return
	}

	posts, err := h.feedService.GoalPosts(r.Context(), goalID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, posts)
}

// Create takes a multipart form with goal_id, an optional caption and an
// optional image.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	if !parseMultipart(w, r) {
		return
	}

	goalID := r.FormValue("goal_id")
	if uuid.Validate(goalID) != nil {
		writeDetail(w, http.StatusBadRequest, "invalid goal_id")
		return
	}

	var caption *string
	if c := strings.TrimSpace(r.FormValue("caption")); c != "" {
		caption = &c
	}

	image, err := readUpload(r, "image")
	if err != nil {
		writeDetail(w, http.StatusBadRequest, "invalid image upload")
		return
	}

	post, err := h.postService.Create(r.Context(), ctxkeys.UserID(r.Context()), goalID, caption, image)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, post)
}

func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	err := h.postService.Delete(r.Context(), ctxkeys.UserID(r.Context()), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
