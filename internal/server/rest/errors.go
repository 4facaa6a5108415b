package rest

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
)

// errorKind names err for logs.
func errorKind(err error) string {
	var ve *common.ValidationError
	switch {
	case errors.Is(err, common.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, common.ErrMalformedToken):
		return "malformed_token"
	case errors.Is(err, common.ErrInvalidSignature):
		return "invalid_signature"
	case errors.Is(err, common.ErrTokenExpired):
		return "token_expired"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid_credentials"
	case errors.As(err, &ve):
		return "validation"
	case errors.Is(err, common.ErrorNotFound):
		return "not_found"
	case errors.Is(err, common.ErrorAlreadyExists):
		return "already_exists"
	case errors.Is(err, common.ErrorUnauthorized):
		return "unauthorized"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return "internal"
	}
}

// writeServiceError maps a service error to its HTTP status. Unexpected
// errors are logged in full and answered with a generic message.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	kind := errorKind(err)

	var userID string
	if id, ok := auth.IdentityFromContext(ctx); ok {
		userID = id.UserID
	}

	var ve *common.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: common.ErrorValidation.Error(), Fields: ve.Fields})
	case errors.Is(err, common.ErrorNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, common.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, common.ErrInvalidCredentials.Error())
	case errors.Is(err, common.ErrorUnauthorized), common.IsTokenError(err):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, common.ErrorAlreadyExists):
		writeError(w, http.StatusConflict, "email already registered")
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		// middleware.Timeout answers 504 once the handler returns.
		s.logger.Warn(ctx, "request aborted", "user_id", userID, "kind", kind)
		return
	default:
		s.logger.Error(ctx, "request failed", "user_id", userID, "kind", kind, "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	s.logger.Warn(ctx, "request rejected", "user_id", userID, "kind", kind, "path", r.URL.Path)
}
