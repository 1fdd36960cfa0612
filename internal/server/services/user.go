// Package services contains server-side business logic. This file implements
// UserService, the identity store: registration, authentication and the
// access tokens that identify requesters afterwards.
package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/server/auth"
	"github.com/dmitrijs2005/voices/internal/server/config"
	"github.com/dmitrijs2005/voices/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// UserService provides account operations:
// - Register: create accounts with a unique email
// - Authenticate: check an email/credential pair
// - IssueToken / Identify: mint and resolve access tokens
type UserService struct {
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
	newID                       func() string
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
		newID:                       uuid.NewString,
	}
}

// Register creates an account. Emails are matched exactly, so addresses
// differing only in case are distinct accounts.
func (s *UserService) Register(ctx context.Context, email, credential string) (models.Account, error) {
	if strings.TrimSpace(email) == "" || credential == "" {
		return models.Account{}, fmt.Errorf("%w: email and password are required", common.ErrorValidation)
	}

	user := &models.User{ID: s.newID(), Email: email, Credential: credential}
	u, err := s.repomanager.Users().Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return models.Account{}, common.ErrorDuplicateAccount
		}
		return models.Account{}, fmt.Errorf("error creating user: %w", err)
	}
	return u.Account(), nil
}

// Authenticate returns the account whose email and credential both match.
// An unknown email and a wrong credential are indistinguishable.
func (s *UserService) Authenticate(ctx context.Context, email, credential string) (models.Account, error) {
	user, err := s.repomanager.Users().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return models.Account{}, common.ErrorInvalidCredentials
		}
		return models.Account{}, common.ErrorInternal
	}
	if !s.checkCredential(user.Credential, credential) {
		return models.Account{}, common.ErrorInvalidCredentials
	}
	return user.Account(), nil
}

// IssueToken mints an access token identifying acc.
func (s *UserService) IssueToken(acc models.Account) (string, error) {
	token, err := auth.GenerateToken(acc.ID, acc.Email, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// Identify resolves an access token back to the account it was issued for.
func (s *UserService) Identify(token string) (models.Account, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return models.Account{}, err
	}
	return models.Account{ID: claims.UserID, Email: claims.Email}, nil
}

func (s *UserService) checkCredential(stored, candidate string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(candidate)) == 1
}
