package server

import (
	"context"
	"net/http"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"pointsdesk/domain/entities"
)

type contextKey string

const actorContextKey contextKey = "actor"

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// ActorFromContext returns the staff member resolved by the identity
// middleware for this request.
func ActorFromContext(ctx context.Context) (entities.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey).(entities.Actor)
	return actor, ok
}

// IdentityMiddleware resolves the acting staff member from the headers set
// by the fronting identity proxy. Requests without a valid identity are
// rejected before reaching any handler.
func IdentityMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		actorID, err := strconv.ParseInt(r.Header.Get(headerActorID), 10, 64)
		if err != nil || actorID <= 0 {
			writeError(w, http.StatusUnauthorized, "missing or invalid actor identity")
			return
		}

		role := entities.Role(r.Header.Get(headerActorRole))
		if !role.Valid() {
			writeError(w, http.StatusUnauthorized, "missing or invalid actor role")
			return
		}

		actor := entities.Actor{UserID: actorID, Role: role}
		ctx := context.WithValue(r.Context(), actorContextKey, actor)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// requireApprover gates handlers behind the approval authority level
func requireApprover(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || !actor.CanApprove() {
			writeError(w, http.StatusForbidden, "operator role or above required")
			return
		}
		next(w, r)
	}
}

// requireRequester gates handlers behind the request authority level
func requireRequester(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		actor, ok := ActorFromContext(r.Context())
		if !ok || !actor.CanRequest() {
			writeError(w, http.StatusForbidden, "staff role or above required")
			return
		}
		next(w, r)
	}
}

// RequestLogger logs one line per request with method, path, status and
// duration.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		log.WithFields(log.Fields{
			"method":   r.Method,
			"path":     r.URL.Path,
			"status":   recorder.status,
			"duration": time.Since(start).String(),
		}).Info("Handled request")
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
