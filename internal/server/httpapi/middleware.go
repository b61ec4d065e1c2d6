package httpapi

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophchat/internal/common"
	"github.com/dmitrijs2005/gophchat/internal/server/services"
	"github.com/gorilla/mux"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

const principalKey ctxKey = "principal"

// PrincipalFrom returns the caller authenticated by the bearer middleware.
func PrincipalFrom(ctx context.Context) (*services.Principal, bool) {
	p, ok := ctx.Value(principalKey).(*services.Principal)
	return p, ok
}

func principal(r *http.Request) *services.Principal {
	p, _ := PrincipalFrom(r.Context())
	return p
}

// authenticate requires "Authorization: Bearer <access token>" bound to an
// active session.
func (h *Handler) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			h.fail(w, r, common.ErrorUnauthorized)
			return
		}

		p, err := h.svc.Sessions.AuthenticateAccessToken(r.Context(), token)
		if err != nil {
			h.fail(w, r, err)
			return
		}

		trace.SpanFromContext(r.Context()).SetAttributes(attribute.String("enduser.id", p.UserID))
		ctx := context.WithValue(r.Context(), principalKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireAdmin checks the admin key header in constant time. An empty
// configured key disables the admin routes.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.adminKey == "" {
			h.fail(w, r, forbiddenErr("admin api is disabled"))
			return
		}
		got := r.Header.Get(common.AdminKeyHeaderName)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.adminKey)) != 1 {
			h.fail(w, r, common.ErrorUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func recorder(w http.ResponseWriter) *statusRecorder {
	if rec, ok := w.(*statusRecorder); ok {
		return rec
	}
	return &statusRecorder{ResponseWriter: w, status: http.StatusOK}
}

func routeName(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return r.Method + " " + tpl
		}
	}
	return r.Method
}

// tracing opens a server span per request named after the route template.
func (h *Handler) tracing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx, span := h.tracer.Start(r.Context(), routeName(r),
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(
				attribute.String("http.request.method", r.Method),
				attribute.String("url.path", r.URL.Path),
			),
		)
		defer span.End()

		rec := recorder(w)
		next.ServeHTTP(rec, r.WithContext(ctx))

		span.SetAttributes(attribute.Int("http.response.status_code", rec.status))
		if rec.status >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(rec.status))
		}
	})
}

func (h *Handler) logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := recorder(w)
		next.ServeHTTP(rec, r)
		h.logger.Info(r.Context(), "request",
			"method", r.Method,
			"route", routeName(r),
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
