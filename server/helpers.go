package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"pointsdesk/domain/interfaces"
)

// withUnitOfWork runs fn inside one transaction. Commit on success,
// rollback on any error.
func (s *Server) withUnitOfWork(ctx context.Context, fn func(uow interfaces.UnitOfWork) error) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := fn(uow); err != nil {
		if rbErr := uow.Rollback(); rbErr != nil {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// idParam parses the named chi URL parameter as a positive int64
func idParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s parameter", name)
	}
	return id, nil
}

// mustActor returns the actor resolved by the identity middleware. The
// middleware rejects unauthenticated requests, so absence here is a
// programming error and treated as an anonymous actor.
func mustActor(r *http.Request) int64 {
	actor, _ := ActorFromContext(r.Context())
	return actor.UserID
}
