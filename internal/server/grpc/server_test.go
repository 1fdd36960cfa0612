package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/logging"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/server/config"
	"github.com/dmitrijs2005/voices/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/voices/internal/server/services"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/dmitrijs2005/voices/internal/wire"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

func TestRun_StopsOnContextCancel(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:0", nopLogger{}, &fakeUser{}, &fakePosts{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- srv.Run(ctx)
	}()

	select {
	case err := <-done:
		t.Fatalf("server exited too early: %v", err)
	case <-time.After(150 * time.Millisecond):
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run returned error on graceful stop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("server did not stop within timeout after context cancel")
	}
}

func TestRun_ReturnsErrorOnBadAddress(t *testing.T) {
	t.Parallel()

	srv := NewGRPCServer("127.0.0.1:99999", nopLogger{}, &fakeUser{}, &fakePosts{}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := srv.Run(ctx); err == nil {
		t.Fatal("expected error from Run on bad address, got nil")
	}
}

// startLedger serves a seeded in-memory ledger over bufconn.
func startLedger(t *testing.T) *wire.LedgerClient {
	t.Helper()

	rm := repomanager.NewMemoryRepositoryManager()
	_, err := repomanager.Seed(context.Background(), rm, time.Now())
	require.NoError(t, err)

	cfg := &config.Config{SecretKey: "k", AccessTokenValidityDuration: time.Hour}
	srv := NewGRPCServer("bufnet", nopLogger{}, services.NewUserService(rm, cfg), services.NewPostService(rm), 0)

	lis := bufconn.Listen(1 << 20)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = srv.Serve(ctx, lis)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return wire.NewLedgerClient(conn)
}

func withToken(ctx context.Context, token string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, common.AccessTokenHeaderName, token)
}

func TestLedger_EndToEnd(t *testing.T) {
	c := startLedger(t)
	ctx := context.Background()

	_, err := c.Register(ctx, &wire.CredentialsRequest{Email: "test@example.com", Password: "x"})
	assert.Equal(t, codes.AlreadyExists, status.Code(err))

	_, err = c.Login(ctx, &wire.CredentialsRequest{Email: "test@example.com", Password: "nope"})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	jane, err := c.Login(ctx, &wire.CredentialsRequest{Email: "jane.doe@example.com", Password: "password123"})
	require.NoError(t, err)
	assert.Equal(t, "user2", jane.Account.ID)

	_, err = c.ApplyVote(ctx, &wire.ApplyVoteRequest{ID: "1", Delta: votes.Up})
	assert.Equal(t, codes.Unauthenticated, status.Code(err), "votes need a token")

	authed := withToken(ctx, jane.AccessToken)

	voted, err := c.ApplyVote(authed, &wire.ApplyVoteRequest{ID: "1", Delta: votes.Up})
	require.NoError(t, err)
	assert.Equal(t, 14, voted.Post.Votes)

	_, err = c.DeletePost(authed, &wire.DeletePostRequest{ID: "1"})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = c.UpdatePost(authed, &wire.UpdatePostRequest{ID: "missing", Update: models.PostUpdate{}})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.CreatePost(authed, &wire.CreatePostRequest{Problem: " ", Solution: "s", Category: models.CategoryParks})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	created, err := c.CreatePost(authed, &wire.CreatePostRequest{
		Problem:  "Broken bench",
		Solution: "Replace it",
		Category: models.CategoryParks,
	})
	require.NoError(t, err)
	assert.Equal(t, "jane.doe@example.com", created.Post.AuthorEmail)

	list, err := c.ListPosts(ctx, &wire.ListPostsRequest{Sort: models.SortNewest, Category: "Parks"})
	require.NoError(t, err)
	require.Len(t, list.Posts, 2)
	assert.Equal(t, created.Post.ID, list.Posts[0].ID)

	updated, err := c.UpdatePost(authed, &wire.UpdatePostRequest{ID: created.Post.ID, Update: models.PostUpdate{
		Problem:  "Broken bench",
		Solution: "Replace it",
		Category: models.CategoryParks,
		Address:  models.Set("Beacon Hill Park"),
	}})
	require.NoError(t, err)
	assert.Equal(t, "Beacon Hill Park", updated.Post.Address)

	_, err = c.DeletePost(authed, &wire.DeletePostRequest{ID: created.Post.ID})
	require.NoError(t, err)

	_, err = c.ListPosts(ctx, &wire.ListPostsRequest{Category: "Weather"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
