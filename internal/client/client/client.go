package client

import (
	"context"

	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

type Client interface {
	Close() error
	Register(ctx context.Context, email, password string) (models.Account, string, error)
	Login(ctx context.Context, email, password string) (models.Account, string, error)
	SetAccessToken(token string)
	Ping(ctx context.Context) error
	ListPosts(ctx context.Context, sort models.SortOrder, category *models.Category) ([]*models.Post, error)
	CreatePost(ctx context.Context, np models.NewPost) (*models.Post, error)
	UpdatePost(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error)
	DeletePost(ctx context.Context, id string) error
	ApplyVote(ctx context.Context, id string, delta votes.Vote) (*models.Post, error)
}
