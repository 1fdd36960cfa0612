package cli

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/voices/internal/client/services"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for an email and password, creates the account and logs
// it in.
func (a *App) Register(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	s, err := a.authService.Register(ctx, email, password)
	if err != nil {
		a.println("Registration failed:", err)
		return err
	}

	a.println("Welcome,", s.Email)
	return nil
}

// Login prompts for credentials and authenticates. The session is saved and
// restored on the next start.
func (a *App) Login(ctx context.Context) error {
	email, password, err := a.credentials()
	if err != nil {
		return err
	}

	s, err := a.authService.Login(ctx, email, password)
	if err != nil {
		a.println("Login failed:", err)
		return err
	}

	a.println("Logged in as", s.Email)
	return nil
}

// Logout forgets the session. Returns any error from the session store.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx); err != nil {
		a.println("Error:", err)
		return err
	}
	a.println("Logged out")
	return nil
}

func (a *App) credentials() (string, string, error) {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

// requireLogin opens the login prompt for anonymous users.
func (a *App) requireLogin(ctx context.Context) error {
	if a.isLoggedIn() {
		return nil
	}
	a.println("Please log in first.")
	if err := a.Login(ctx); err != nil {
		return errors.Join(services.ErrAuthRequired, err)
	}
	return nil
}
