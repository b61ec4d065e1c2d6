package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.svc.Users.Register(r.Context(), services.RegisterRequest{
		Username:            req.Username,
		Email:               req.Email,
		Password:            req.Password,
		PublicKey:           req.PublicKey,
		EncryptedPrivateKey: req.EncryptedPrivateKey,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ownUser(u))
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.GetUser(r.Context(), principal(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ownUser(u))
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateUserRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	u, err := h.svc.Users.UpdateUser(r.Context(), principal(r).UserID, models.UserPatch{
		Email:               req.Email,
		PublicKey:           req.PublicKey,
		EncryptedPrivateKey: req.EncryptedPrivateKey,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ownUser(u))
}

// deleteMe runs the full user-deletion cascade for the caller.
func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Membership.DeleteUser(r.Context(), principal(r).UserID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// changePassword keeps the calling session and revokes the others.
func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p := principal(r)
	if err := h.svc.Users.ChangePassword(r.Context(), p.UserID, p.SessionID, req.OldPassword, req.NewPassword); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.svc.Users.GetUser(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, publicUser(u))
}

func (h *Handler) searchUsers(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	found, err := h.svc.Users.SearchUsers(r.Context(), r.URL.Query().Get("q"), limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(found, publicUser))
}
