package rest

import (
	"net/http"

	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	user, err := s.auth.Register(r.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, signupResponse{
		User: userResponse{
			ID:        user.ID,
			Email:     user.Email,
			Name:      user.Name,
			CreatedAt: user.CreatedAt.UTC(),
		},
		Message: "user created successfully",
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := parseJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	res, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     res.Token,
		TokenType: "bearer",
		Identity:  newIdentityResponse(res.Identity),
		ExpiresAt: res.ExpiresAt.UTC(),
	})
}

// handleVerify reports who the bearer token belongs to and until when.
func (s *Server) handleVerify(w http.ResponseWriter, r *http.Request) {
	id, expiresAt, err := s.verifyRequest(r)
	if err != nil {
		s.rejectUnauthenticated(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, verifyResponse{
		Identity:  newIdentityResponse(id),
		ExpiresAt: expiresAt.UTC(),
	})
}

// handleLogout is stateless: the token stays valid until it expires and
// the client is expected to drop it.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	id, _ := auth.IdentityFromContext(r.Context())
	s.logger.Info(r.Context(), "logout", "user_id", id.UserID)

	writeJSON(w, http.StatusOK, messageResponse{Message: "logged out successfully"})
}
