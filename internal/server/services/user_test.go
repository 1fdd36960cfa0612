package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/server/config"
	"github.com/dmitrijs2005/voices/internal/server/repositories/posts"
	"github.com/dmitrijs2005/voices/internal/server/repositories/repomanager"
	usersrepo "github.com/dmitrijs2005/voices/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newUserService(t *testing.T, rm repomanager.RepositoryManager) *UserService {
	t.Helper()
	cfg := &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
	}
	return NewUserService(rm, cfg)
}

type fakeUsersRepo struct {
	createErr error
	getErr    error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return nil, f.getErr
}

// fakeRepoManager delegates to a memory manager but lets tests swap the
// repositories it vends.
type fakeRepoManager struct {
	*repomanager.MemoryRepositoryManager
	u usersrepo.Repository
	p posts.Repository
}

func (m *fakeRepoManager) Users() usersrepo.Repository {
	if m.u != nil {
		return m.u
	}
	return m.MemoryRepositoryManager.Users()
}

func (m *fakeRepoManager) Posts() posts.Repository {
	if m.p != nil {
		return m.p
	}
	return m.MemoryRepositoryManager.Posts()
}

func (m *fakeRepoManager) WithTx(ctx context.Context, fn repomanager.TxFunc) error {
	return fn(ctx, m.Users(), m.Posts())
}

// --- tests ---

func TestRegister_Success(t *testing.T) {
	s := newUserService(t, repomanager.NewMemoryRepositoryManager())
	s.newID = func() string { return "u-1" }

	acc, err := s.Register(context.Background(), "alice@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, models.Account{ID: "u-1", Email: "alice@example.com"}, acc)
}

func TestRegister_Duplicate(t *testing.T) {
	s := newUserService(t, repomanager.NewMemoryRepositoryManager())
	ctx := context.Background()

	_, err := s.Register(ctx, "alice@example.com", "pw")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice@example.com", "other")
	assert.ErrorIs(t, err, common.ErrorDuplicateAccount)

	_, err = s.Register(ctx, "Alice@example.com", "other")
	assert.NoError(t, err, "emails differing in case are distinct")
}

func TestRegister_Validation(t *testing.T) {
	s := newUserService(t, repomanager.NewMemoryRepositoryManager())

	tests := []struct {
		name, email, credential string
	}{
		{"empty email", "", "pw"},
		{"blank email", "   ", "pw"},
		{"empty credential", "a@example.com", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.email, tt.credential)
			assert.ErrorIs(t, err, common.ErrorValidation)
		})
	}
}

func TestRegister_RepoError(t *testing.T) {
	rm := &fakeRepoManager{
		MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager(),
		u:                       &fakeUsersRepo{createErr: errBoom{}},
	}
	s := newUserService(t, rm)

	_, err := s.Register(context.Background(), "bob@example.com", "pw")
	assert.ErrorContains(t, err, "error creating user: boom")
}

func TestAuthenticate_Flows(t *testing.T) {
	ctx := context.Background()
	s := newUserService(t, repomanager.NewMemoryRepositoryManager())

	reg, err := s.Register(ctx, "test@example.com", "password123")
	require.NoError(t, err)

	acc, err := s.Authenticate(ctx, "test@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, reg, acc)

	_, err = s.Authenticate(ctx, "test@example.com", "wrong")
	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)

	_, err = s.Authenticate(ctx, "TEST@example.com", "password123")
	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)

	_, err = s.Authenticate(ctx, "nobody@example.com", "password123")
	assert.ErrorIs(t, err, common.ErrorInvalidCredentials)
}

func TestAuthenticate_RepoError(t *testing.T) {
	rm := &fakeRepoManager{
		MemoryRepositoryManager: repomanager.NewMemoryRepositoryManager(),
		u:                       &fakeUsersRepo{getErr: errBoom{}},
	}
	s := newUserService(t, rm)

	_, err := s.Authenticate(context.Background(), "a@example.com", "pw")
	assert.True(t, errors.Is(err, common.ErrorInternal))
}

func TestIssueTokenAndIdentify(t *testing.T) {
	s := newUserService(t, repomanager.NewMemoryRepositoryManager())
	acc := models.Account{ID: "u-9", Email: "nine@example.com"}

	tok, err := s.IssueToken(acc)
	require.NoError(t, err)

	got, err := s.Identify(tok)
	require.NoError(t, err)
	assert.Equal(t, acc, got)

	_, err = s.Identify("garbage")
	assert.ErrorIs(t, err, common.ErrInvalidToken)

	s.accessTokenValidityDuration = -time.Second
	expired, err := s.IssueToken(acc)
	require.NoError(t, err)
	_, err = s.Identify(expired)
	assert.ErrorIs(t, err, common.ErrTokenExpired)
}
