package repomanager

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/voices/internal/server/repositories/posts"
	"github.com/dmitrijs2005/voices/internal/server/repositories/users"
)

// MemoryRepositoryManager owns an in-process ledger. Its contents live as
// long as the value does.
type MemoryRepositoryManager struct {
	txMu  sync.Mutex
	users *users.MemoryRepository
	posts *posts.MemoryRepository
}

func NewMemoryRepositoryManager() *MemoryRepositoryManager {
	return &MemoryRepositoryManager{
		users: users.NewMemoryRepository(),
		posts: posts.NewMemoryRepository(),
	}
}

func (m *MemoryRepositoryManager) RunMigrations(ctx context.Context) error { return nil }

func (m *MemoryRepositoryManager) Users() users.Repository { return m.users }

func (m *MemoryRepositoryManager) Posts() posts.Repository { return m.posts }

// WithTx serializes fn against other WithTx calls. There is no rollback:
// fn must not write before it has finished validating.
func (m *MemoryRepositoryManager) WithTx(ctx context.Context, fn TxFunc) error {
	m.txMu.Lock()
	defer m.txMu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	return fn(ctx, m.users, m.posts)
}

func (m *MemoryRepositoryManager) Close() error { return nil }
