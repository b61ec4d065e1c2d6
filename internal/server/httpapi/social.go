package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) listFriendships(w http.ResponseWriter, r *http.Request) {
	me := principal(r).UserID
	fs, err := h.svc.Friendships.List(r.Context(), me)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(fs, friendship(me)))
}

func (h *Handler) requestFriendship(w http.ResponseWriter, r *http.Request) {
	var req friendRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	me := principal(r).UserID
	f, err := h.svc.Friendships.Request(r.Context(), me, req.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, friendship(me)(f))
}

func (h *Handler) setFriendshipStatus(w http.ResponseWriter, r *http.Request) {
	var req friendStatusRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	me := principal(r).UserID
	f, err := h.svc.Friendships.SetStatus(r.Context(), me, mux.Vars(r)["userID"], req.Status)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, friendship(me)(f))
}

func (h *Handler) removeFriendship(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Friendships.Remove(r.Context(), principal(r).UserID, mux.Vars(r)["userID"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	ns, err := h.svc.Notifications.List(r.Context(), principal(r).UserID, boolParam(r, "unread"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(ns, notification))
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifications.MarkRead(r.Context(), principal(r).UserID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) deleteNotification(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Notifications.Delete(r.Context(), principal(r).UserID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
