package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/voices/internal/client/services"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

// ---- fake auth ----

type fakeAuth struct {
	mu sync.Mutex

	session *services.Session
	restore *services.Session

	loginAs  *services.Session
	loginErr error
	regErr   error
	pingErr  error

	gotEmail, gotPassword string
	logouts               int
	pings                 int
}

func (f *fakeAuth) Register(_ context.Context, email, password string) (*services.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.regErr != nil {
		return nil, f.regErr
	}
	f.session = &services.Session{ID: "new", Email: email}
	return f.session, nil
}

func (f *fakeAuth) Login(_ context.Context, email, password string) (*services.Session, error) {
	f.gotEmail, f.gotPassword = email, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.session = f.loginAs
	return f.session, nil
}

func (f *fakeAuth) Logout(context.Context) error {
	f.logouts++
	f.session = nil
	return nil
}

func (f *fakeAuth) Restore(context.Context) (*services.Session, error) {
	f.session = f.restore
	return f.restore, nil
}

func (f *fakeAuth) Account() (models.Account, bool) {
	if f.session == nil {
		return models.Account{}, false
	}
	return f.session.Account(), true
}

func (f *fakeAuth) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeAuth) Close(context.Context) error { return nil }

// ---- fake ledger behind the board ----

type fakePosts struct {
	posts   []*models.Post
	mutErr  error
	created []models.NewPost
	updates []models.PostUpdate
	deleted []string
}

func (f *fakePosts) ListPosts(context.Context, models.SortOrder, *models.Category) ([]*models.Post, error) {
	out := make([]*models.Post, len(f.posts))
	for i, p := range f.posts {
		out[i] = p.Clone()
	}
	return out, nil
}

func (f *fakePosts) CreatePost(_ context.Context, np models.NewPost) (*models.Post, error) {
	f.created = append(f.created, np)
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	return &models.Post{ID: "new-post", Problem: np.Problem}, nil
}

func (f *fakePosts) UpdatePost(_ context.Context, id string, u models.PostUpdate) (*models.Post, error) {
	f.updates = append(f.updates, u)
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	for _, p := range f.posts {
		if p.ID == id {
			p.ApplyUpdate(u)
			return p.Clone(), nil
		}
	}
	return nil, nil
}

func (f *fakePosts) DeletePost(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return f.mutErr
}

func (f *fakePosts) ApplyVote(_ context.Context, id string, delta votes.Vote) (*models.Post, error) {
	if f.mutErr != nil {
		return nil, f.mutErr
	}
	p := f.posts[0].Clone()
	_ = p.ApplyVote("me", delta)
	return p, nil
}

// ---- helpers ----

func samplePosts() []*models.Post {
	return []*models.Post{
		{ID: "1", Problem: "Broken bench", Solution: "Fix it", Category: models.CategoryParks, Votes: 4,
			AuthorID: "me", AuthorEmail: "me@example.com", VotesBy: map[string]votes.Vote{},
			Address: "Beacon Hill Park", Location: &models.Location{Lat: 48.41, Lng: -123.36}},
		{ID: "2", Problem: "Slow bus", Solution: "More buses", Category: models.CategoryTransit, Votes: 9,
			AuthorID: "other", AuthorEmail: "other@example.com", VotesBy: map[string]votes.Vote{}},
	}
}

var me = &services.Session{ID: "me", Email: "me@example.com", AccessToken: "t"}

// newTestApp builds an App whose prompts read input line by line.
func newTestApp(t *testing.T, auth *fakeAuth, posts *fakePosts, input ...string) (*App, *bytes.Buffer) {
	t.Helper()

	origPW := getPassword
	getPassword = func(io.Writer) (string, error) { return "pw", nil }
	t.Cleanup(func() { getPassword = origPW })

	b := services.NewBoard(posts, auth)
	if err := b.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}

	var out bytes.Buffer
	return &App{
		authService: auth,
		board:       b,
		reader:      bufio.NewReader(strings.NewReader(strings.Join(input, "\n") + "\n")),
		out:         &out,
	}, &out
}
