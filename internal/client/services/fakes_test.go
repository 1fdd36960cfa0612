package services

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/voices/internal/client/client"
	"github.com/dmitrijs2005/voices/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

// ---- helpers ----

func setupStore(t *testing.T) (*metadata.SQLiteRepository, *sql.DB) {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	db, err := sql.Open("sqlite", "file:"+name+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, client.RunMigrations(context.Background(), db))
	return metadata.NewSQLiteRepository(db), db
}

// ---- fake client ----

// fakeClient implements client.Client for unit tests. Calls to the post
// methods block on gate when it is set.
type fakeClient struct {
	mu sync.Mutex

	Account  models.Account
	Token    string
	AuthErr  error
	PingErr  error
	CloseErr error

	LastToken string

	Posts   []*models.Post
	ListErr error
	Lists   int
	Sorts   []models.SortOrder

	Canonical *models.Post
	MutErr    error
	Created   []models.NewPost
	Deleted   []string
	Votes     []votes.Vote
	Voter     string

	gate chan struct{}
}

var _ client.Client = (*fakeClient)(nil)

func (f *fakeClient) wait() {
	if f.gate != nil {
		<-f.gate
	}
}

func (f *fakeClient) Close() error { return f.CloseErr }

func (f *fakeClient) Register(context.Context, string, string) (models.Account, string, error) {
	return f.Account, f.Token, f.AuthErr
}

func (f *fakeClient) Login(context.Context, string, string) (models.Account, string, error) {
	return f.Account, f.Token, f.AuthErr
}

func (f *fakeClient) SetAccessToken(token string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastToken = token
}

func (f *fakeClient) Ping(context.Context) error { return f.PingErr }

func (f *fakeClient) ListPosts(_ context.Context, sort models.SortOrder, _ *models.Category) ([]*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Lists++
	f.Sorts = append(f.Sorts, sort)
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	return clonePosts(f.Posts), nil
}

func (f *fakeClient) CreatePost(_ context.Context, np models.NewPost) (*models.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Created = append(f.Created, np)
	return f.Canonical, f.MutErr
}

func (f *fakeClient) UpdatePost(context.Context, string, models.PostUpdate) (*models.Post, error) {
	f.wait()
	return f.Canonical, f.MutErr
}

func (f *fakeClient) DeletePost(_ context.Context, id string) error {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Deleted = append(f.Deleted, id)
	return f.MutErr
}

// ApplyVote answers with Canonical, or, when Voter is set, records the vote
// on its own copy of the post the way the ledger would.
func (f *fakeClient) ApplyVote(_ context.Context, id string, delta votes.Vote) (*models.Post, error) {
	f.wait()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Votes = append(f.Votes, delta)
	if f.Voter == "" {
		return f.Canonical, f.MutErr
	}
	for _, p := range f.Posts {
		if p.ID == id {
			_ = p.ApplyVote(f.Voter, delta)
			return p.Clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}

// ---- fake identity ----

type staticIdentity struct {
	acc models.Account
	ok  bool
}

func (s staticIdentity) Account() (models.Account, bool) { return s.acc, s.ok }

func loggedIn(id string) staticIdentity {
	return staticIdentity{acc: models.Account{ID: id, Email: id + "@example.com"}, ok: true}
}
