package services

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

// PostsClient is the part of client.Client the board talks to.
type PostsClient interface {
	ListPosts(ctx context.Context, sort models.SortOrder, category *models.Category) ([]*models.Post, error)
	CreatePost(ctx context.Context, np models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ApplyVote(ctx context.Context, id string, delta votes.Vote) (*models.Post, error)
}

// Identity tells who is acting, if anyone.
type Identity interface {
	Account() (models.Account, bool)
}

const (
	voteFailedMsg   = "Failed to save your vote. Please try again."
	updateFailedMsg = "Failed to update post. Please try again."
	deleteFailedMsg = "Failed to delete the post. Please try again."
)

// Board holds the listing the user is looking at and keeps it in step with
// the ledger. Votes, edits and deletes are shown before the ledger answers
// and rolled back if it refuses. Only one change per post may be pending.
type Board struct {
	client   PostsClient
	identity Identity

	mu        sync.Mutex
	posts     []*models.Post
	sort      models.SortOrder
	category  *models.Category
	inFlight  map[string]struct{}
	observers []func([]*models.Post)
}

func NewBoard(c PostsClient, identity Identity) *Board {
	return &Board{
		client:   c,
		identity: identity,
		sort:     models.SortNewest,
		inFlight: map[string]struct{}{},
	}
}

// OnChange registers fn to receive every published listing: speculative,
// confirmed and rolled back. fn gets its own copy.
func (b *Board) OnChange(fn func([]*models.Post)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.observers = append(b.observers, fn)
}

// Posts returns a copy of the current listing.
func (b *Board) Posts() []*models.Post {
	b.mu.Lock()
	defer b.mu.Unlock()
	return clonePosts(b.posts)
}

// Post returns a copy of the listed post with the given id.
func (b *Board) Post(id string) (*models.Post, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := b.indexLocked(id)
	if i < 0 {
		return nil, false
	}
	return b.posts[i].Clone(), true
}

func (b *Board) Sort() models.SortOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sort
}

// Category returns the active filter, nil meaning all categories.
func (b *Board) Category() *models.Category {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.category == nil {
		return nil
	}
	c := *b.category
	return &c
}

// Refresh fetches the listing for the current sort and filter. On failure
// the displayed listing is left as it was.
func (b *Board) Refresh(ctx context.Context) error {
	b.mu.Lock()
	sort, category := b.sort, b.category
	b.mu.Unlock()

	posts, err := b.client.ListPosts(ctx, sort, category)
	if err != nil {
		return err
	}

	b.mu.Lock()
	b.posts = posts
	notify := b.changedLocked()
	b.mu.Unlock()

	notify()
	return nil
}

func (b *Board) SetSort(ctx context.Context, sort models.SortOrder) error {
	b.mu.Lock()
	b.sort = sort
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// SetCategory changes the filter; nil shows every category.
func (b *Board) SetCategory(ctx context.Context, category *models.Category) error {
	b.mu.Lock()
	b.category = category
	b.mu.Unlock()
	return b.Refresh(ctx)
}

// Vote shows the effect of delta at once and then records it. On success the
// post is replaced by the ledger's copy. On failure the listing is fetched
// again, or restored to what it was when that fetch fails too.
func (b *Board) Vote(ctx context.Context, id string, delta votes.Vote) (*models.Post, error) {
	acc, ok := b.identity.Account()
	if !ok {
		return nil, ErrAuthRequired
	}
	if err := delta.Validate(); err != nil {
		return nil, err
	}

	snapshot, err := b.speculate(id, func(posts []*models.Post, i int) []*models.Post {
		p := posts[i].Clone()
		_ = p.ApplyVote(acc.ID, delta)
		posts[i] = p
		return posts
	})
	if err != nil {
		return nil, err
	}

	canonical, err := b.client.ApplyVote(ctx, id, delta)
	if err == nil {
		b.confirm(id, canonical)
		return canonical.Clone(), nil
	}

	b.release(id)
	if ferr := b.Refresh(ctx); ferr != nil {
		b.restore(snapshot)
	}
	return nil, &AlertError{Message: voteFailedMsg, Err: err}
}

// Edit applies u locally, then asks the ledger to do the same. Any failure
// puts the listing back exactly as it was.
func (b *Board) Edit(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	acc, ok := b.identity.Account()
	if !ok {
		return nil, ErrAuthRequired
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if p, ok := b.Post(id); ok && p.AuthorID != acc.ID {
		return nil, common.ErrorUnauthorized
	}

	snapshot, err := b.speculate(id, func(posts []*models.Post, i int) []*models.Post {
		p := posts[i].Clone()
		p.ApplyUpdate(u)
		posts[i] = p
		return posts
	})
	if err != nil {
		return nil, err
	}

	canonical, err := b.client.UpdatePost(ctx, id, u)
	if err != nil {
		b.release(id)
		b.restore(snapshot)
		return nil, &AlertError{Message: updateFailedMsg, Err: err}
	}

	b.confirm(id, canonical)
	return canonical.Clone(), nil
}

// Delete removes the post from the listing at once and restores it if the
// ledger refuses.
func (b *Board) Delete(ctx context.Context, id string) error {
	acc, ok := b.identity.Account()
	if !ok {
		return ErrAuthRequired
	}
	if p, ok := b.Post(id); ok && p.AuthorID != acc.ID {
		return common.ErrorUnauthorized
	}

	snapshot, err := b.speculate(id, func(posts []*models.Post, i int) []*models.Post {
		return slices.Delete(posts, i, i+1)
	})
	if err != nil {
		return err
	}

	err = b.client.DeletePost(ctx, id)
	b.release(id)
	if err != nil {
		b.restore(snapshot)
		return &AlertError{Message: deleteFailedMsg, Err: err}
	}
	return nil
}

// Create submits a new post without showing it first. Afterwards the listing
// switches to newest-first, or is fetched again if it already was.
func (b *Board) Create(ctx context.Context, np models.NewPost) (*models.Post, error) {
	acc, ok := b.identity.Account()
	if !ok {
		return nil, ErrAuthRequired
	}
	np.AuthorID, np.AuthorEmail = acc.ID, acc.Email

	p, err := b.client.CreatePost(ctx, np)
	if err != nil {
		return nil, err
	}

	if b.Sort() != models.SortNewest {
		err = b.SetSort(ctx, models.SortNewest)
	} else {
		err = b.Refresh(ctx)
	}
	if err != nil {
		return p, fmt.Errorf("post created, listing not refreshed: %w", err)
	}
	return p, nil
}

// speculate marks id as in flight and publishes change applied to a copy of
// the listing. It returns the listing as it was before.
func (b *Board) speculate(id string, change func(posts []*models.Post, i int) []*models.Post) ([]*models.Post, error) {
	b.mu.Lock()

	if _, busy := b.inFlight[id]; busy {
		b.mu.Unlock()
		return nil, ErrPostBusy
	}
	i := b.indexLocked(id)
	if i < 0 {
		b.mu.Unlock()
		return nil, common.ErrorNotFound
	}

	snapshot := b.posts
	b.posts = change(slices.Clone(b.posts), i)
	b.inFlight[id] = struct{}{}
	notify := b.changedLocked()
	b.mu.Unlock()

	notify()
	return snapshot, nil
}

// confirm swaps in the ledger's copy of a post, if it is still listed.
func (b *Board) confirm(id string, canonical *models.Post) {
	b.mu.Lock()
	delete(b.inFlight, id)
	if i := b.indexLocked(id); i >= 0 && canonical != nil {
		posts := slices.Clone(b.posts)
		posts[i] = canonical
		b.posts = posts
	}
	notify := b.changedLocked()
	b.mu.Unlock()

	notify()
}

func (b *Board) release(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.inFlight, id)
}

func (b *Board) restore(snapshot []*models.Post) {
	b.mu.Lock()
	b.posts = snapshot
	notify := b.changedLocked()
	b.mu.Unlock()

	notify()
}

func (b *Board) indexLocked(id string) int {
	return slices.IndexFunc(b.posts, func(p *models.Post) bool { return p.ID == id })
}

// changedLocked captures the listing for the observers. The returned func
// must be called after b.mu is released.
func (b *Board) changedLocked() func() {
	view := clonePosts(b.posts)
	observers := slices.Clone(b.observers)
	return func() {
		for _, fn := range observers {
			fn(clonePosts(view))
		}
	}
}

func clonePosts(posts []*models.Post) []*models.Post {
	out := make([]*models.Post, len(posts))
	for i, p := range posts {
		out[i] = p.Clone()
	}
	return out
}
