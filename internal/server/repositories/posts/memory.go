package posts

import (
	"context"
	"slices"
	"sync"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
)

// MemoryRepository keeps posts in a slice whose head is the most recently
// inserted post. Every read and write goes through a deep copy.
type MemoryRepository struct {
	mu    sync.RWMutex
	posts []*models.Post
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{}
}

func (r *MemoryRepository) indexOf(id string) int {
	return slices.IndexFunc(r.posts, func(p *models.Post) bool { return p.ID == id })
}

func (r *MemoryRepository) Insert(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.indexOf(p.ID) >= 0 {
		return common.ErrorAlreadyExists
	}
	r.posts = slices.Insert(r.posts, 0, p.Clone())
	return nil
}

func (r *MemoryRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, common.ErrorNotFound
	}
	return r.posts[i].Clone(), nil
}

// GetForUpdate is plain Get: the memory manager serializes transactions
// as a whole.
func (r *MemoryRepository) GetForUpdate(ctx context.Context, id string) (*models.Post, error) {
	return r.Get(ctx, id)
}

func (r *MemoryRepository) List(ctx context.Context, category *models.Category) ([]*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]*models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if category != nil && p.Category != *category {
			continue
		}
		result = append(result, p.Clone())
	}
	return result, nil
}

func (r *MemoryRepository) Update(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(p.ID)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.posts[i] = p.Clone()
	return nil
}

func (r *MemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(id)
	if i < 0 {
		return common.ErrorNotFound
	}
	r.posts = slices.Delete(r.posts, i, i+1)
	return nil
}
