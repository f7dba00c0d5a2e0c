// Package services contains server-side business logic. This file implements
// UserService, the single gate through which identity enters the system:
// signup, login, bearer-token authorization and account deletion.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"todoapp/internal/common"
	"todoapp/internal/server/auth"
	"todoapp/internal/server/config"
	"todoapp/internal/server/models"
	"todoapp/internal/server/repositories/repomanager"
)

// UserService provides authentication-related operations:
//   - SignUp: create accounts
//   - Login: verify credentials and mint an access token
//   - Authorize: resolve a bearer credential to an account
//   - DeleteAccount: password-confirmed account removal
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.Hasher
	tokens      *auth.TokenManager
}

// NewUserService constructs a UserService using repositories and server
// config. The token secret and the bcrypt cost are fixed here, once, at
// startup.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      auth.NewHasher(cfg.BcryptCost),
		tokens:      auth.NewTokenManager(cfg.SecretKey, cfg.AccessTokenTTL),
	}
}

// SignUp hashes the password and creates the account. A concurrent signup
// with the same username is settled by the storage-level uniqueness
// constraint; the loser observes common.ErrorLoginAlreadyExists.
// Neither the plaintext nor the hash appear in errors or logs.
func (s *UserService) SignUp(ctx context.Context, username, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Username: username, PasswordHash: hash}
	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorLoginAlreadyExists) {
			return nil, common.ErrorLoginAlreadyExists
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login verifies the password and mints an access token. An unknown
// username and a wrong password both return the identical
// common.ErrorUnauthorized, so the two causes cannot be told apart.
func (s *UserService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", nil, common.ErrorUnauthorized
		}
		return "", nil, common.ErrorInternal
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", nil, common.ErrorUnauthorized
	}

	token, err := s.tokens.Issue(user.Username)
	if err != nil {
		return "", nil, common.ErrorInternal
	}

	return token, user, nil
}

// Authorize resolves a raw Authorization header to an account. Every
// rejection cause (missing prefix, bad signature, expiry, missing subject,
// account deleted after issuance) collapses into common.ErrorUnauthorized;
// the cause survives in the error text for server-side logging only.
func (s *UserService) Authorize(ctx context.Context, authorizationHeader string) (*models.User, error) {
	raw, err := auth.ParseBearer(authorizationHeader)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorUnauthorized, err)
	}

	subject, err := s.tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrorUnauthorized, err)
	}

	repo := s.repomanager.Users(s.db)
	user, err := repo.GetByUsername(ctx, subject)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, fmt.Errorf("%w: subject no longer exists", common.ErrorUnauthorized)
		}
		return nil, common.ErrorInternal
	}

	return user, nil
}

// DeleteAccount removes the account after re-confirming the password.
// Owned todos are cascade-deleted by the storage layer.
func (s *UserService) DeleteAccount(ctx context.Context, user *models.User, password string) error {
	if !s.hasher.Verify(password, user.PasswordHash) {
		return common.ErrorUnauthorized
	}

	repo := s.repomanager.Users(s.db)
	if err := repo.Delete(ctx, user.ID); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorUnauthorized
		}
		return fmt.Errorf("error deleting user: %w", err)
	}
	return nil
}
