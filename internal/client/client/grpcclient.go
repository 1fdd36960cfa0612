package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/dmitrijs2005/voices/internal/wire"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// ledger is the subset of wire.LedgerClient used here.
type ledger interface {
	Register(ctx context.Context, in *wire.CredentialsRequest, opts ...grpc.CallOption) (*wire.AuthResponse, error)
	Login(ctx context.Context, in *wire.CredentialsRequest, opts ...grpc.CallOption) (*wire.AuthResponse, error)
	ListPosts(ctx context.Context, in *wire.ListPostsRequest, opts ...grpc.CallOption) (*wire.ListPostsResponse, error)
	CreatePost(ctx context.Context, in *wire.CreatePostRequest, opts ...grpc.CallOption) (*wire.PostResponse, error)
	UpdatePost(ctx context.Context, in *wire.UpdatePostRequest, opts ...grpc.CallOption) (*wire.PostResponse, error)
	DeletePost(ctx context.Context, in *wire.DeletePostRequest, opts ...grpc.CallOption) (*wire.DeletePostResponse, error)
	ApplyVote(ctx context.Context, in *wire.ApplyVoteRequest, opts ...grpc.CallOption) (*wire.PostResponse, error)
	Ping(ctx context.Context, in *wire.PingRequest, opts ...grpc.CallOption) (*wire.PingResponse, error)
}

type GRPCClient struct {
	endpointURL    string
	requestTimeout time.Duration
	conn           *grpc.ClientConn
	client         ledger

	mu          sync.RWMutex
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	return invoker(withAccessToken(ctx, s.token()), method, req, reply, cc, opts...)
}

// NewVoicesClient dials endpointURL lazily; the first call establishes the
// connection. requestTimeout bounds every call, zero disables the bound.
func NewVoicesClient(endpointURL string, requestTimeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, requestTimeout: requestTimeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {
	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = wire.NewLedgerClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

// SetAccessToken replaces the token sent with every call. An empty token
// sends none.
func (s *GRPCClient) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = token
}

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.requestTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.requestTimeout)
}

func (s *GRPCClient) Register(ctx context.Context, email, password string) (models.Account, string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Register(ctx, &wire.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return models.Account{}, "", s.mapError(err)
	}
	return resp.Account, resp.AccessToken, nil
}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (models.Account, string, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Login(ctx, &wire.CredentialsRequest{Email: email, Password: password})
	if err != nil {
		return models.Account{}, "", s.mapError(err)
	}
	return resp.Account, resp.AccessToken, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.Ping(ctx, &wire.PingRequest{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil
}

func (s *GRPCClient) ListPosts(ctx context.Context, sort models.SortOrder, category *models.Category) ([]*models.Post, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	req := &wire.ListPostsRequest{Sort: sort}
	if category != nil {
		req.Category = string(*category)
	}

	resp, err := s.client.ListPosts(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Posts, nil
}

// CreatePost submits np. The author is taken from the access token, so
// np.AuthorID and np.AuthorEmail are not sent.
func (s *GRPCClient) CreatePost(ctx context.Context, np models.NewPost) (*models.Post, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.CreatePost(ctx, &wire.CreatePostRequest{
		Problem:  np.Problem,
		Solution: np.Solution,
		Category: np.Category,
		Address:  np.Address,
		Location: np.Location,
	})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Post, nil
}

func (s *GRPCClient) UpdatePost(ctx context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.UpdatePost(ctx, &wire.UpdatePostRequest{ID: id, Update: u})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Post, nil
}

func (s *GRPCClient) DeletePost(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if _, err := s.client.DeletePost(ctx, &wire.DeletePostRequest{ID: id}); err != nil {
		return s.mapError(err)
	}
	return nil
}

func (s *GRPCClient) ApplyVote(ctx context.Context, id string, delta votes.Vote) (*models.Post, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	resp, err := s.client.ApplyVote(ctx, &wire.ApplyVoteRequest{ID: id, Delta: delta})
	if err != nil {
		return nil, s.mapError(err)
	}
	return resp.Post, nil
}

// mapError turns a gRPC status back into the ledger's sentinel errors.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrUnavailable
	}

	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}

	switch st.Code() {
	case codes.AlreadyExists:
		return common.ErrorDuplicateAccount
	case codes.Unauthenticated:
		if st.Message() == "invalid credentials" {
			return common.ErrorInvalidCredentials
		}
		return rewrap(common.ErrorUnauthenticated, st.Message())
	case codes.InvalidArgument:
		return rewrap(common.ErrorValidation, st.Message())
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.PermissionDenied:
		return common.ErrorUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

// rewrap restores sentinel around a status message that was produced by
// wrapping it on the server.
func rewrap(sentinel error, msg string) error {
	msg = strings.TrimPrefix(msg, sentinel.Error()+": ")
	if msg == sentinel.Error() || msg == "" {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}
