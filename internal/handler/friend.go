package handler

import (
	"net/http"

	"github.com/iackson05/streakd/internal/ctxkeys"
	"github.com/iackson05/streakd/internal/service"
)

type FriendHandler struct {
	friendshipService *service.FriendshipService
}

func NewFriendHandler(friendshipService *service.FriendshipService) *FriendHandler {
	return &FriendHandler{
		friendshipService: friendshipService,
	}
}

type friendRequest struct {
	FriendID string `json:"friend_id" validate:"required,uuid"`
}

type friendshipActionRequest struct {
	FriendshipID string `json:"friendship_id" validate:"required,uuid"`
}

func (h *FriendHandler) List(w http.ResponseWriter, r *http.Request) {
	friendships, err := h.friendshipService.Friendships(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, friendships)
}

func (h *FriendHandler) AcceptedIDs(w http.ResponseWriter, r *http.Request) {
	ids, err := h.friendshipService.AcceptedFriendIDs(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{"friend_ids": ids})
}

func (h *FriendHandler) SendRequest(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	friendship, err := h.friendshipService.SendRequest(r.Context(), ctxkeys.UserID(r.Context()), req.FriendID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, friendship)
}

func (h *FriendHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req friendshipActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	friendship, err := h.friendshipService.Accept(r.Context(), ctxkeys.UserID(r.Context()), req.FriendshipID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, friendship)
}

func (h *FriendHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req friendshipActionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	err := h.friendshipService.Reject(r.Context(), ctxkeys.UserID(r.Context()), req.FriendshipID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *FriendHandler) Remove(w http.ResponseWriter, r *http.Request) {
	friendID, ok := pathID(w, r, "friendID")
	if !ok {
		return
	}

	err := h.friendshipService.Remove(r.Context(), ctxkeys.UserID(r.Context()), friendID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
