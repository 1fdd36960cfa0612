// Package users stores registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/voices/internal/models"
)

// Repository persists accounts. Create reports common.ErrorAlreadyExists
// for a taken email and GetByEmail reports common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}
