package rest

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/go-chi/chi/v5/middleware"
)

// verifyRequest reads and verifies the bearer token of r.
func (s *Server) verifyRequest(r *http.Request) (auth.Identity, time.Time, error) {
	token, err := auth.BearerToken(r.Header.Get(common.AuthorizationHeaderName))
	if err != nil {
		return auth.Identity{}, time.Time{}, err
	}
	return s.auth.Verify(token)
}

// authenticate binds the verified Identity to the request context. A
// request without a valid token never reaches the wrapped handler.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _, err := s.verifyRequest(r)
		if err != nil {
			s.rejectUnauthenticated(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithIdentity(r.Context(), id)))
	})
}

// rejectUnauthenticated logs the failure kind, never the token.
func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Warn(r.Context(), "authentication failed",
		"kind", errorKind(err),
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
	)
	w.Header().Set("WWW-Authenticate", common.BearerScheme)
	writeError(w, http.StatusUnauthorized, "unauthorized")
}

// logRequests writes one access log line per request.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
