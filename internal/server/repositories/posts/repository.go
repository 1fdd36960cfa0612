// Package posts stores proposals in the ledger's natural order, most
// recently inserted first.
package posts

import (
	"context"

	"github.com/dmitrijs2005/voices/internal/models"
)

// Repository persists posts. Lookups and mutations of a missing id report
// common.ErrorNotFound.
type Repository interface {
	// Insert places p at the head of the natural order.
	Insert(ctx context.Context, p *models.Post) error
	Get(ctx context.Context, id string) (*models.Post, error)
	// GetForUpdate is Get that also locks the row until the surrounding
	// transaction ends.
	GetForUpdate(ctx context.Context, id string) (*models.Post, error)
	// List returns posts in natural order, restricted to category when it is
	// not nil.
	List(ctx context.Context, category *models.Category) ([]*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
}
