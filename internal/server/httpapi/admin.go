package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"
)

// sweepSessions deletes expired sessions. The body is optional; "now"
// defaults to the server clock.
func (h *Handler) sweepSessions(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := decodeOptional(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.fail(w, r, err)
		return
	}

	now := h.now()
	if req.Now != nil {
		now = *req.Now
	}

	removed, err := h.svc.Sessions.SweepExpired(r.Context(), now)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sweepResponse{Removed: removed})
}

// adminSetGroupOwner reassigns a group without the owner's consent.
func (h *Handler) adminSetGroupOwner(w http.ResponseWriter, r *http.Request) {
	var req ownerRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.Membership.UpdateGroupOwner(r.Context(), mux.Vars(r)["id"], req.UserID); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
