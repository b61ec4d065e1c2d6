package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/server/models"
	"github.com/gorilla/mux"
)

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	pair, err := h.svc.Users.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, tokens(pair))
}

func (h *Handler) refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	pair, err := h.svc.Sessions.Refresh(r.Context(), req.SessionToken)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokens(pair))
}

// listSessions shows the caller's active sessions; expired rows waiting
// for the sweep are left out.
func (h *Handler) listSessions(w http.ResponseWriter, r *http.Request) {
	p := principal(r)
	all, err := h.svc.Sessions.GetSessionsByUser(r.Context(), p.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	result := make([]sessionResponse, 0, len(all))
	for _, s := range all {
		if !s.ActiveAt(now) {
			continue
		}
		result = append(result, session(s, p.SessionID))
	}
	writeJSON(w, http.StatusOK, result)
}

func session(s *models.Session, current string) sessionResponse {
	return sessionResponse{ID: s.ID, CreatedAt: s.CreatedAt, ExpiresAt: s.ExpiresAt, Current: s.ID == current}
}

func (h *Handler) revokeSession(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Sessions.RevokeUserSession(r.Context(), principal(r).UserID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
