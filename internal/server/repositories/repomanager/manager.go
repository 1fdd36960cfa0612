// Package repomanager vends the ledger's repositories and runs multi-step
// operations atomically against them.
package repomanager

import (
	"context"

	"github.com/dmitrijs2005/voices/internal/server/repositories/posts"
	"github.com/dmitrijs2005/voices/internal/server/repositories/users"
)

// TxFunc receives repositories bound to the running transaction.
type TxFunc func(ctx context.Context, users users.Repository, posts posts.Repository) error

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Posts() posts.Repository
	// WithTx runs fn so that no other WithTx body interleaves with it.
	WithTx(ctx context.Context, fn TxFunc) error
	Close() error
}
