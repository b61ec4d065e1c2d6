package httpapi

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	g, err := h.svc.Groups.CreateGroup(r.Context(), principal(r).UserID, req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, group(g))
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.svc.Groups.ListGroupsForUser(r.Context(), principal(r).UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(groups, group))
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	g, err := h.svc.Groups.GetGroup(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group(g))
}

func (h *Handler) renameGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	g, err := h.svc.Groups.RenameGroup(r.Context(), principal(r).UserID, mux.Vars(r)["id"], req.Name)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, group(g))
}

func (h *Handler) deleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Groups.DeleteGroup(r.Context(), principal(r).UserID, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) transferOwnership(w http.ResponseWriter, r *http.Request) {
	var req ownerRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	groupID := mux.Vars(r)["id"]
	if err := h.svc.Membership.TransferGroupOwnership(r.Context(), principal(r).UserID, groupID, req.UserID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.respondGroup(w, r, groupID)
}

// respondGroup renders the current state of a group after a change.
func (h *Handler) respondGroup(w http.ResponseWriter, r *http.Request, groupID string) {
	g, err := h.svc.Groups.GetGroup(r.Context(), principal(r).UserID, groupID)
	if err != nil {
		// The caller may have just given the group away and left it.
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, group(g))
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.svc.Groups.ListMembers(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(members, member))
}

func (h *Handler) addMember(w http.ResponseWriter, r *http.Request) {
	var req memberRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.svc.Groups.AddMember(r.Context(), principal(r).UserID, mux.Vars(r)["id"], req.UserID, req.Role)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, member(m))
}

func (h *Handler) updateMemberRole(w http.ResponseWriter, r *http.Request) {
	var req roleRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	vars := mux.Vars(r)
	if err := h.svc.Groups.UpdateMemberRole(r.Context(), principal(r).UserID, vars["id"], vars["userID"], req.Role); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) removeMember(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Groups.RemoveMember(r.Context(), principal(r).UserID, vars["id"], vars["userID"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
