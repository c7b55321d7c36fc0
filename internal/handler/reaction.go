package handler

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/iackson05/streakd/internal/ctxkeys"
	"github.com/iackson05/streakd/internal/model"
	"github.com/iackson05/streakd/internal/service"
)

// maxPostIDs bounds the post_ids query of a reaction lookup.
const maxPostIDs = 100

type ReactionHandler struct {
	reactionService *service.ReactionService
}

func NewReactionHandler(reactionService *service.ReactionService) *ReactionHandler {
	return &ReactionHandler{
		reactionService: reactionService,
	}
}

type toggleReactionRequest struct {
	PostID     string `json:"post_id" validate:"required,uuid"`
	ReactEmoji string `json:"react_emoji" validate:"required"`
}

func (h *ReactionHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req toggleReactionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.reactionService.Toggle(r.Context(), req.PostID, ctxkeys.UserID(r.Context()), req.ReactEmoji)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// UserReactions returns the caller's reactions on a comma separated list of
// posts. An empty list yields an empty result.
func (h *ReactionHandler) UserReactions(w http.ResponseWriter, r *http.Request) {
	var postIDs []string
	for _, id := range strings.Split(r.URL.Query().Get("post_ids"), ",") {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if uuid.Validate(id) != nil {
			writeDetail(w, http.StatusBadRequest, "invalid post_ids")
			return
		}
		postIDs = append(postIDs, id)
	}

	if len(postIDs) == 0 {
		writeJSON(w, http.StatusOK, []*model.UserReaction{})
		return
	}
	if len(postIDs) > maxPostIDs {
		writeDetail(w, http.StatusBadRequest, "too many post_ids")
		return
	}

	reactions, err := h.reactionService.UserReactionsForPosts(r.Context(), ctxkeys.UserID(r.Context()), postIDs)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reactions)
}

func (h *ReactionHandler) PostReactions(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(w, r, "postID")
	if !ok {
		return
	}

	reactions, err := h.reactionService.PostReactions(r.Context(), ctxkeys.UserID(r.Context()), postID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, reactions)
}
