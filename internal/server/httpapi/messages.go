package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/gorilla/mux"
)

func (h *Handler) sendMessage(w http.ResponseWriter, r *http.Request) {
	var req sendMessageRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.svc.Messages.Send(r.Context(), principal(r).UserID, services.SendRequest{
		RecipientID: req.RecipientID,
		GroupID:     req.GroupID,
		Content:     req.Content,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, message(m))
}

func (h *Handler) getMessage(w http.ResponseWriter, r *http.Request) {
	m, err := h.svc.Messages.Get(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message(m))
}

func (h *Handler) editMessage(w http.ResponseWriter, r *http.Request) {
	var req editMessageRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	m, err := h.svc.Messages.Edit(r.Context(), principal(r).UserID, mux.Vars(r)["id"], req.Content)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, message(m))
}

// deleteMessage soft-deletes unless ?hard=true.
func (h *Handler) deleteMessage(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Messages.Delete(r.Context(), principal(r).UserID, mux.Vars(r)["id"], boolParam(r, "hard")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listDirectMessages(w http.ResponseWriter, r *http.Request) {
	before, limit, err := page(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msgs, err := h.svc.Messages.ListDirect(r.Context(), principal(r).UserID, mux.Vars(r)["id"], before, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(msgs, message))
}

func (h *Handler) listGroupMessages(w http.ResponseWriter, r *http.Request) {
	before, limit, err := page(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	msgs, err := h.svc.Messages.ListGroup(r.Context(), principal(r).UserID, mux.Vars(r)["id"], before, limit)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(msgs, message))
}

func (h *Handler) requestUpload(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Messages.RequestAttachmentUpload(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ticket(t))
}

func (h *Handler) downloadAttachment(w http.ResponseWriter, r *http.Request) {
	t, err := h.svc.Messages.AttachmentDownloadURL(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ticket(t))
}

func (h *Handler) listReactions(w http.ResponseWriter, r *http.Request) {
	rs, err := h.svc.Reactions.List(r.Context(), principal(r).UserID, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list(rs, reaction))
}

func (h *Handler) addReaction(w http.ResponseWriter, r *http.Request) {
	var req reactionRequest
	if err := decode(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	rc, err := h.svc.Reactions.Add(r.Context(), principal(r).UserID, mux.Vars(r)["id"], req.Emoji)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, reaction(rc))
}

func (h *Handler) removeReaction(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.svc.Reactions.Remove(r.Context(), principal(r).UserID, vars["id"], vars["emoji"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
