// Package services contains server-side business logic.
//
// AuthService handles signup, credential checks and token verification.
// TaskService is the only path to task data and scopes every operation to
// the caller's identity.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/taskkeeper/internal/common"
	"github.com/dmitrijs2005/taskkeeper/internal/dbx"
	"github.com/dmitrijs2005/taskkeeper/internal/logging"
	"github.com/dmitrijs2005/taskkeeper/internal/server/auth"
	"github.com/dmitrijs2005/taskkeeper/internal/server/config"
	"github.com/dmitrijs2005/taskkeeper/internal/server/models"
	"github.com/dmitrijs2005/taskkeeper/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	Token     string
	Identity  auth.Identity
	ExpiresAt time.Time
}

type AuthService struct {
	repomanager repomanager.RepositoryManager
	issuer      *auth.Issuer
	verifier    *auth.Verifier
	logger      logging.Logger
	bcryptCost  int
	dummyHash   []byte
}

// NewAuthService wires the credential store with the token issuer and
// verifier. A bcryptCost of zero means bcrypt.DefaultCost.
func NewAuthService(m repomanager.RepositoryManager, issuer *auth.Issuer, verifier *auth.Verifier, logger logging.Logger, bcryptCost int) *AuthService {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	// Compared against when the email is unknown so that both failure
	// paths spend the same time in bcrypt.
	dummy, _ := bcrypt.GenerateFromPassword([]byte(uuid.NewString()), bcryptCost)

	return &AuthService{
		repomanager: m,
		issuer:      issuer,
		verifier:    verifier,
		logger:      logger.With("module", "auth"),
		bcryptCost:  bcryptCost,
		dummyHash:   dummy,
	}
}

// Login checks the credential and, on success, issues a token. Unknown
// email and wrong password both yield common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	repo := s.repomanager.Users(s.repomanager.DB())

	user, err := repo.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummyHash, []byte(password))
			s.logger.Warn(ctx, "login rejected", "reason", "invalid_credentials")
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn(ctx, "login rejected", "user_id", user.ID, "reason", "invalid_credentials")
		return nil, common.ErrInvalidCredentials
	}

	token, claims, err := s.issuer.Issue(user.ID, user.Email)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "user_id", user.ID, "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "login succeeded", "user_id", user.ID)

	return &LoginResult{
		Token:     token,
		Identity:  auth.Identity{UserID: user.ID, Email: user.Email},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}

// Verify checks a token. It never touches the store.
func (s *AuthService) Verify(token string) (auth.Identity, time.Time, error) {
	return s.verifier.Verify(token)
}

// Register creates a user with a bcrypt-hashed password. A taken email
// yields common.ErrorAlreadyExists.
func (s *AuthService) Register(ctx context.Context, email, password, name string) (*models.User, error) {
	user, err := s.newUser(email, password, name)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Users(s.repomanager.DB())
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, common.ErrorAlreadyExists
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// SeedUsers inserts the configured users in one transaction and skips
// emails that already exist. It returns how many users were created.
func (s *AuthService) SeedUsers(ctx context.Context, seeds []config.SeedUser) (int, error) {
	if len(seeds) == 0 {
		return 0, nil
	}

	created := 0
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Users(tx)
		for _, seed := range seeds {
			_, err := repo.GetByEmail(ctx, normalizeEmail(seed.Email))
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return err
			}

			user, err := s.newUser(seed.Email, seed.Password, seed.Name)
			if err != nil {
				return fmt.Errorf("seed user %q: %w", seed.Email, err)
			}
			if _, err := repo.Create(ctx, user); err != nil {
				return fmt.Errorf("seed user %q: %w", seed.Email, err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.logger.Info(ctx, "seed users applied", "created", created, "skipped", len(seeds)-created)
	return created, nil
}

func (s *AuthService) newUser(email, password, name string) (*models.User, error) {
	fields := signupFields{Email: normalizeEmail(email), Password: password, Name: name}
	if err := fields.Validate(); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return &models.User{
		ID:           uuid.NewString(),
		Email:        fields.Email,
		PasswordHash: string(hash),
		Name:         fields.Name,
	}, nil
}
