// Package httpapi exposes the gophchat services as a JSON REST API routed
// with gorilla/mux.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/logging"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// maxBodyBytes bounds request bodies; message content is at most 64 KiB
// before base64.
const maxBodyBytes = 1 << 20

const tracerName = "github.com/dmitrijs2005/gophchat/internal/server/httpapi"

// Services bundles the business services the handlers call.
type Services struct {
	Sessions      *services.SessionService
	Users         *services.UserService
	Membership    *services.MembershipService
	Groups        *services.GroupService
	Messages      *services.MessageService
	Friendships   *services.FriendshipService
	Reactions     *services.ReactionService
	Notifications *services.NotificationService
}

// Pinger reports store health for /healthz.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	svc      Services
	health   Pinger
	adminKey string
	logger   logging.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

func NewHandler(svc Services, health Pinger, adminKey string, l logging.Logger) *Handler {
	return &Handler{
		svc:      svc,
		health:   health,
		adminKey: adminKey,
		logger:   l.With("module", "http_api"),
		tracer:   otel.Tracer(tracerName),
		now:      time.Now,
	}
}

// Routes builds the router. Public routes come first; everything else
// under /api requires a bearer access token, /api/admin the admin key.
func (h *Handler) Routes() http.Handler {
	r := mux.NewRouter()
	r.Use(h.tracing, h.logging)

	r.HandleFunc("/healthz", h.healthz).Methods(http.MethodGet)
	r.HandleFunc("/api/users", h.register).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions", h.login).Methods(http.MethodPost)
	r.HandleFunc("/api/sessions/refresh", h.refresh).Methods(http.MethodPost)

	admin := r.PathPrefix("/api/admin").Subrouter()
	admin.Use(h.requireAdmin)
	admin.HandleFunc("/sessions/sweep", h.sweepSessions).Methods(http.MethodPost)
	admin.HandleFunc("/groups/{id}/owner", h.adminSetGroupOwner).Methods(http.MethodPut)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(h.authenticate)

	api.HandleFunc("/users", h.searchUsers).Methods(http.MethodGet)
	api.HandleFunc("/users/me", h.getMe).Methods(http.MethodGet)
	api.HandleFunc("/users/me", h.updateMe).Methods(http.MethodPatch)
	api.HandleFunc("/users/me", h.deleteMe).Methods(http.MethodDelete)
	api.HandleFunc("/users/me/password", h.changePassword).Methods(http.MethodPut)
	api.HandleFunc("/users/{id}", h.getUser).Methods(http.MethodGet)
	api.HandleFunc("/users/{id}/messages", h.listDirectMessages).Methods(http.MethodGet)

	api.HandleFunc("/sessions", h.listSessions).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}", h.revokeSession).Methods(http.MethodDelete)

	api.HandleFunc("/groups", h.createGroup).Methods(http.MethodPost)
	api.HandleFunc("/groups", h.listGroups).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", h.getGroup).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}", h.renameGroup).Methods(http.MethodPatch)
	api.HandleFunc("/groups/{id}", h.deleteGroup).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{id}/owner", h.transferOwnership).Methods(http.MethodPut)
	api.HandleFunc("/groups/{id}/members", h.listMembers).Methods(http.MethodGet)
	api.HandleFunc("/groups/{id}/members", h.addMember).Methods(http.MethodPost)
	api.HandleFunc("/groups/{id}/members/{userID}", h.updateMemberRole).Methods(http.MethodPatch)
	api.HandleFunc("/groups/{id}/members/{userID}", h.removeMember).Methods(http.MethodDelete)
	api.HandleFunc("/groups/{id}/messages", h.listGroupMessages).Methods(http.MethodGet)

	api.HandleFunc("/messages", h.sendMessage).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id}", h.getMessage).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id}", h.editMessage).Methods(http.MethodPatch)
	api.HandleFunc("/messages/{id}", h.deleteMessage).Methods(http.MethodDelete)
	api.HandleFunc("/messages/{id}/attachment", h.requestUpload).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id}/attachment", h.downloadAttachment).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id}/reactions", h.listReactions).Methods(http.MethodGet)
	api.HandleFunc("/messages/{id}/reactions", h.addReaction).Methods(http.MethodPost)
	api.HandleFunc("/messages/{id}/reactions/{emoji}", h.removeReaction).Methods(http.MethodDelete)

	api.HandleFunc("/friendships", h.listFriendships).Methods(http.MethodGet)
	api.HandleFunc("/friendships", h.requestFriendship).Methods(http.MethodPost)
	api.HandleFunc("/friendships/{userID}", h.setFriendshipStatus).Methods(http.MethodPatch)
	api.HandleFunc("/friendships/{userID}", h.removeFriendship).Methods(http.MethodDelete)

	api.HandleFunc("/notifications", h.listNotifications).Methods(http.MethodGet)
	api.HandleFunc("/notifications/{id}/read", h.markNotificationRead).Methods(http.MethodPost)
	api.HandleFunc("/notifications/{id}", h.deleteNotification).Methods(http.MethodDelete)

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	if err := h.health.Ping(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// decode reads a single JSON object from the body into v.
func decode(w http.ResponseWriter, r *http.Request, v any) error {
	err := decodeOptional(w, r, v)
	if errors.Is(err, io.EOF) {
		return common.InvalidArgument("request body is required")
	}
	return err
}

// decodeOptional is decode for endpoints whose body may be empty; an empty
// body is reported as io.EOF.
func decodeOptional(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		return common.InvalidArgument("malformed request body")
	}
	return nil
}

// page reads the before/limit paging parameters.
func page(r *http.Request) (time.Time, int, error) {
	var before time.Time
	if v := r.URL.Query().Get("before"); v != "" {
		t, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return time.Time{}, 0, common.InvalidArgument("before must be an RFC 3339 timestamp")
		}
		before = t
	}
	limit, err := intParam(r, "limit")
	if err != nil {
		return time.Time{}, 0, err
	}
	return before, services.PageLimit(limit), nil
}

func intParam(r *http.Request, name string) (int, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, common.InvalidArgument(name + " must be an integer")
	}
	return n, nil
}

func boolParam(r *http.Request, name string) bool {
	b, _ := strconv.ParseBool(r.URL.Query().Get(name))
	return b
}
