// Package services contains application services for the Voices CLI.
// This file defines the authentication service: register, login, logout and
// the session that survives restarts in the local key-value store.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/voices/internal/client/client"
	"github.com/dmitrijs2005/voices/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
)

// Session is the last authenticated account together with the access token
// the ledger issued for it.
type Session struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	AccessToken string `json:"access_token"`
}

func (s *Session) Account() models.Account {
	return models.Account{ID: s.ID, Email: s.Email}
}

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register / Login: talk to the ledger, then persist the session.
//   - Logout: forget the session locally and in the store.
//   - Restore: load a previously saved session on startup.
//   - Account: the current account, if any.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	Logout(ctx context.Context) error
	Restore(ctx context.Context) (*Session, error)
	Account() (models.Account, bool)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

// authService is the concrete AuthService backed by a remote Client and the
// metadata store.
type authService struct {
	client client.Client
	store  metadata.Repository

	mu      sync.RWMutex
	session *Session
}

// NewAuthService constructs an AuthService bound to the given API client and store.
func NewAuthService(client client.Client, store metadata.Repository) AuthService {
	return &authService{client: client, store: store}
}

func (a *authService) Register(ctx context.Context, email, password string) (*Session, error) {
	acc, token, err := a.client.Register(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.begin(ctx, acc, token)
}

func (a *authService) Login(ctx context.Context, email, password string) (*Session, error) {
	acc, token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return a.begin(ctx, acc, token)
}

// begin makes acc the current account and persists it.
func (a *authService) begin(ctx context.Context, acc models.Account, token string) (*Session, error) {
	s := &Session{ID: acc.ID, Email: acc.Email, AccessToken: token}

	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := a.store.Set(ctx, common.SessionKey, data); err != nil {
		return nil, fmt.Errorf("session saving error: %w", err)
	}

	a.activate(s)
	return s, nil
}

func (a *authService) activate(s *Session) {
	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	if s == nil {
		a.client.SetAccessToken("")
	} else {
		a.client.SetAccessToken(s.AccessToken)
	}
}

// Logout clears the current account even when the store cannot be updated.
func (a *authService) Logout(ctx context.Context) error {
	a.activate(nil)
	if err := a.store.Delete(ctx, common.SessionKey); err != nil {
		return fmt.Errorf("session removal error: %w", err)
	}
	return nil
}

// Restore returns the saved session, or nil when there is none. A stored
// value that does not parse is removed and treated as no session.
func (a *authService) Restore(ctx context.Context) (*Session, error) {
	data, found, err := a.store.Get(ctx, common.SessionKey)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil || s.ID == "" {
		if err := a.store.Delete(ctx, common.SessionKey); err != nil {
			return nil, fmt.Errorf("session removal error: %w", err)
		}
		return nil, nil
	}

	a.activate(&s)
	return &s, nil
}

func (a *authService) Account() (models.Account, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.session == nil {
		return models.Account{}, false
	}
	return a.session.Account(), true
}

// Ping proxies a liveness check to the underlying client.
func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

// Close releases resources held by the underlying client.
func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
