// Package grpc exposes the identity store and the post ledger over gRPC
// using the hand-written service descriptor from internal/wire.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/voices/internal/logging"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/dmitrijs2005/voices/internal/wire"
	"google.golang.org/grpc"
)

type userSvc interface {
	Register(ctx context.Context, email, credential string) (models.Account, error)
	Authenticate(ctx context.Context, email, credential string) (models.Account, error)
	IssueToken(acc models.Account) (string, error)
	Identify(token string) (models.Account, error)
}

type postSvc interface {
	List(ctx context.Context, sort models.SortOrder, category *models.Category) ([]*models.Post, error)
	Create(ctx context.Context, np models.NewPost) (*models.Post, error)
	Update(ctx context.Context, id, requesterID string, u models.PostUpdate) (*models.Post, error)
	Delete(ctx context.Context, id, requesterID string) error
	ApplyVote(ctx context.Context, id, voterID string, delta votes.Vote) (*models.Post, error)
}

type GRPCServer struct {
	address       string
	users         userSvc
	posts         postSvc
	logger        logging.Logger
	responseDelay time.Duration
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, ps postSvc, responseDelay time.Duration) *GRPCServer {
	return &GRPCServer{
		address:       a,
		logger:        l.With("module", "grpc_server"),
		users:         us,
		posts:         ps,
		responseDelay: responseDelay,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.delayInterceptor, s.accessTokenInterceptor))
	wire.RegisterLedgerServer(srv, s)
	return srv
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}
