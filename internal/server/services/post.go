package services

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/server/repositories/posts"
	"github.com/dmitrijs2005/voices/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/voices/internal/server/repositories/users"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/google/uuid"
)

// PostService is the post ledger. Every mutation runs inside
// repomanager.WithTx so concurrent calls never interleave.
type PostService struct {
	repomanager repomanager.RepositoryManager
	now         func() time.Time
	newID       func() string
}

func NewPostService(m repomanager.RepositoryManager) *PostService {
	return &PostService{
		repomanager: m,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// List returns posts ordered by sort and optionally restricted to category.
// Ties keep the ledger's natural order.
func (s *PostService) List(ctx context.Context, sort models.SortOrder, category *models.Category) ([]*models.Post, error) {
	if category != nil && !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", common.ErrorValidation, *category)
	}

	var less func(a, b *models.Post) int
	switch sort {
	case models.SortNewest, "":
		less = func(a, b *models.Post) int { return b.CreatedAt.Compare(a.CreatedAt) }
	case models.SortMostVoted:
		less = func(a, b *models.Post) int { return cmp.Compare(b.Votes, a.Votes) }
	default:
		return nil, fmt.Errorf("%w: unknown sort order %q", common.ErrorValidation, sort)
	}

	list, err := s.repomanager.Posts().List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	slices.SortStableFunc(list, less)
	return list, nil
}

// Create validates np and inserts a fresh post at the head of the ledger.
func (s *PostService) Create(ctx context.Context, np models.NewPost) (*models.Post, error) {
	if np.AuthorID == "" {
		return nil, common.ErrorUnauthenticated
	}
	if err := models.ValidateContent(np.Problem, np.Solution, np.Category); err != nil {
		return nil, err
	}

	p := &models.Post{
		ID:          s.newID(),
		Problem:     np.Problem,
		Solution:    np.Solution,
		Category:    np.Category,
		CreatedAt:   s.now().UTC(),
		AuthorID:    np.AuthorID,
		AuthorEmail: np.AuthorEmail,
		VotesBy:     map[string]votes.Vote{},
		Address:     models.NormalizeAddress(np.Address),
	}
	if np.Location != nil {
		loc := *np.Location
		p.Location = &loc
	}

	if err := s.repomanager.Posts().Insert(ctx, p); err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	return p, nil
}

// Update applies u to the post on behalf of requesterID. Existence is
// checked first, then ownership, then the new field values.
func (s *PostService) Update(ctx context.Context, id, requesterID string, u models.PostUpdate) (*models.Post, error) {
	var updated *models.Post
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, _ users.Repository, pr posts.Repository) error {
		p, err := pr.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.AuthorID != requesterID {
			return common.ErrorUnauthorized
		}
		if err := u.Validate(); err != nil {
			return err
		}

		p.ApplyUpdate(u)
		if err := pr.Update(ctx, p); err != nil {
			return err
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes the post when requesterID is its author.
func (s *PostService) Delete(ctx context.Context, id, requesterID string) error {
	return s.repomanager.WithTx(ctx, func(ctx context.Context, _ users.Repository, pr posts.Repository) error {
		p, err := pr.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if p.AuthorID != requesterID {
			return common.ErrorUnauthorized
		}
		return pr.Delete(ctx, id)
	})
}

// ApplyVote records voterID's intent on the post and returns the result.
// Repeating the current vote retracts it.
func (s *PostService) ApplyVote(ctx context.Context, id, voterID string, delta votes.Vote) (*models.Post, error) {
	if err := delta.Validate(); err != nil {
		return nil, err
	}
	if strings.TrimSpace(voterID) == "" {
		return nil, common.ErrorUnauthenticated
	}

	var voted *models.Post
	err := s.repomanager.WithTx(ctx, func(ctx context.Context, _ users.Repository, pr posts.Repository) error {
		p, err := pr.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if err := p.ApplyVote(voterID, delta); err != nil {
			return err
		}
		if err := pr.Update(ctx, p); err != nil {
			return err
		}
		voted = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return voted, nil
}
