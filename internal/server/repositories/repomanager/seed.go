package repomanager

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/server/repositories/posts"
	"github.com/dmitrijs2005/voices/internal/server/repositories/users"
	"github.com/dmitrijs2005/voices/internal/votes"
)

const demoCredential = "password123"

// DemoUsers are the accounts loaded by Seed.
func DemoUsers() []*models.User {
	return []*models.User{
		{ID: "user1", Email: "test@example.com", Credential: demoCredential},
		{ID: "user2", Email: "jane.doe@example.com", Credential: demoCredential},
	}
}

// DemoPosts are the proposals loaded by Seed, head of the natural order
// first. Their stored scores do not equal the sum of votesBy; the ledger
// keeps that offset through every later vote.
func DemoPosts(now time.Time) []*models.Post {
	return []*models.Post{
		{
			ID:          "1",
			Problem:     "Potholes on Main Street are damaging cars.",
			Solution:    `Organize a community-led "Pothole Blitz Day" to fill the worst ones with city-supplied materials.`,
			Category:    models.CategoryRoads,
			Votes:       15,
			CreatedAt:   now.Add(-2 * time.Hour),
			AuthorID:    "user1",
			AuthorEmail: "test@example.com",
			VotesBy:     map[string]votes.Vote{"user1": votes.Up, "user2": votes.Up},
			Address:     "123 Main St, Victoria, BC",
			Location:    &models.Location{Lat: 48.4284, Lng: -123.3656},
		},
		{
			ID:          "2",
			Problem:     "Lack of affordable housing for young families.",
			Solution:    "Lobby the city council to approve zoning for more duplexes and triplexes in single-family neighborhoods.",
			Category:    models.CategoryHousing,
			Votes:       28,
			CreatedAt:   now.Add(-24 * time.Hour),
			AuthorID:    "user2",
			AuthorEmail: "jane.doe@example.com",
			VotesBy:     map[string]votes.Vote{"user2": votes.Up},
		},
		{
			ID:          "3",
			Problem:     "The downtown bus route is unreliable and infrequent.",
			Solution:    "Implement dedicated bus lanes during peak hours to improve speed and stick to the schedule.",
			Category:    models.CategoryTransit,
			Votes:       8,
			CreatedAt:   now.Add(-30 * time.Minute),
			AuthorID:    "user1",
			AuthorEmail: "test@example.com",
			VotesBy:     map[string]votes.Vote{},
			Address:     "Douglas St corridor",
			Location:    &models.Location{Lat: 48.4258, Lng: -123.3642},
		},
		{
			ID:          "4",
			Problem:     "Riverside Park playground equipment is outdated and unsafe.",
			Solution:    "Fundraise for modern, inclusive playground equipment through local business sponsorships.",
			Category:    models.CategoryParks,
			Votes:       22,
			CreatedAt:   now.Add(-72 * time.Hour),
			AuthorID:    "user2",
			AuthorEmail: "jane.doe@example.com",
			VotesBy:     map[string]votes.Vote{"user1": votes.Up},
			Address:     "2999 Riverside Dr",
		},
	}
}

// Seed loads the demo accounts and posts. It does nothing when the ledger
// already holds posts, and reports whether it wrote anything.
func Seed(ctx context.Context, m RepositoryManager, now time.Time) (bool, error) {
	seeded := false
	err := m.WithTx(ctx, func(ctx context.Context, ur users.Repository, pr posts.Repository) error {
		existing, err := pr.List(ctx, nil)
		if err != nil {
			return fmt.Errorf("list posts: %w", err)
		}
		if len(existing) > 0 {
			return nil
		}

		for _, u := range DemoUsers() {
			_, err := ur.GetByEmail(ctx, u.Email)
			if err == nil {
				continue
			}
			if !errors.Is(err, common.ErrorNotFound) {
				return fmt.Errorf("lookup user %s: %w", u.Email, err)
			}
			if _, err := ur.Create(ctx, u); err != nil {
				return fmt.Errorf("seed user %s: %w", u.Email, err)
			}
		}

		// Insert places at the head, so walk backwards.
		for _, p := range slices.Backward(DemoPosts(now)) {
			if err := pr.Insert(ctx, p); err != nil {
				return fmt.Errorf("seed post %s: %w", p.ID, err)
			}
		}
		seeded = true
		return nil
	})
	return seeded, err
}
