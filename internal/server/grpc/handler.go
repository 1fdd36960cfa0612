package grpc

import (
	"context"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/wire"
)

func (s *GRPCServer) issue(ctx context.Context, acc models.Account) (*wire.AuthResponse, error) {
	token, err := s.users.IssueToken(acc)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return nil, toStatus(err)
	}
	return &wire.AuthResponse{Account: acc, AccessToken: token}, nil
}

func (s *GRPCServer) Register(ctx context.Context, req *wire.CredentialsRequest) (*wire.AuthResponse, error) {

	s.logger.Info(ctx, "Registration request")

	acc, err := s.users.Register(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Warn(ctx, "registration failed", "error", err)
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Registered", "user_id", acc.ID)
	return s.issue(ctx, acc)
}

func (s *GRPCServer) Login(ctx context.Context, req *wire.CredentialsRequest) (*wire.AuthResponse, error) {

	acc, err := s.users.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		return nil, toStatus(err)
	}

	return s.issue(ctx, acc)
}

func (s *GRPCServer) ListPosts(ctx context.Context, req *wire.ListPostsRequest) (*wire.ListPostsResponse, error) {

	sort, err := models.ParseSortOrder(string(req.Sort))
	if err != nil {
		return nil, toStatus(err)
	}
	category, err := models.ParseCategory(req.Category)
	if err != nil {
		return nil, toStatus(err)
	}

	posts, err := s.posts.List(ctx, sort, category)
	if err != nil {
		s.logger.Error(ctx, "list failed", "error", err)
		return nil, toStatus(err)
	}

	return &wire.ListPostsResponse{Posts: posts}, nil
}

func (s *GRPCServer) CreatePost(ctx context.Context, req *wire.CreatePostRequest) (*wire.PostResponse, error) {
	acc, ok := requester(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthenticated)
	}

	p, err := s.posts.Create(ctx, models.NewPost{
		Problem:     req.Problem,
		Solution:    req.Solution,
		Category:    req.Category,
		Address:     req.Address,
		Location:    req.Location,
		AuthorID:    acc.ID,
		AuthorEmail: acc.Email,
	})
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "post created", "post_id", p.ID, "author_id", acc.ID)
	return &wire.PostResponse{Post: p}, nil
}

func (s *GRPCServer) UpdatePost(ctx context.Context, req *wire.UpdatePostRequest) (*wire.PostResponse, error) {
	acc, ok := requester(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthenticated)
	}

	p, err := s.posts.Update(ctx, req.ID, acc.ID, req.Update)
	if err != nil {
		return nil, toStatus(err)
	}

	return &wire.PostResponse{Post: p}, nil
}

func (s *GRPCServer) DeletePost(ctx context.Context, req *wire.DeletePostRequest) (*wire.DeletePostResponse, error) {
	acc, ok := requester(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthenticated)
	}

	if err := s.posts.Delete(ctx, req.ID, acc.ID); err != nil {
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "post deleted", "post_id", req.ID, "author_id", acc.ID)
	return &wire.DeletePostResponse{}, nil
}

func (s *GRPCServer) ApplyVote(ctx context.Context, req *wire.ApplyVoteRequest) (*wire.PostResponse, error) {
	acc, ok := requester(ctx)
	if !ok {
		return nil, toStatus(common.ErrorUnauthenticated)
	}

	p, err := s.posts.ApplyVote(ctx, req.ID, acc.ID, req.Delta)
	if err != nil {
		return nil, toStatus(err)
	}

	return &wire.PostResponse{Post: p}, nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *wire.PingRequest) (*wire.PingResponse, error) {

	return &wire.PingResponse{Status: "OK"}, nil

}
