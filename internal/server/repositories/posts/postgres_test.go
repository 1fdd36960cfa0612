package posts

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var columns = []string{"id", "problem", "solution", "category", "votes", "created_at",
	"author_id", "author_email", "votes_by", "address", "lat", "lng"}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

var created = time.Date(2025, 3, 4, 5, 6, 7, 0, time.UTC)

func samplePost() *models.Post {
	return &models.Post{
		ID:          "p1",
		Problem:     "Potholes",
		Solution:    "Fill them",
		Category:    models.CategoryRoads,
		Votes:       2,
		CreatedAt:   created,
		AuthorID:    "u1",
		AuthorEmail: "a@example.com",
		VotesBy:     map[string]votes.Vote{"u1": votes.Up, "u2": votes.Up},
		Address:     "Main St",
		Location:    &models.Location{Lat: 40.7, Lng: -74},
	}
}

func TestInsert_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO posts \(id, problem, solution, category, votes, created_at, author_id, author_email, votes_by, address, lat, lng\)`).
		WithArgs("p1", "Potholes", "Fill them", "Roads", int64(2), created, "u1", "a@example.com",
			[]byte(`{"u1":1,"u2":1}`), "Main St", 40.7, float64(-74)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), samplePost()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_AbsentOptionalFieldsAreNull(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	p := samplePost()
	p.Address = ""
	p.Location = nil
	p.VotesBy = nil

	mock.ExpectExec(`INSERT INTO posts`).
		WithArgs("p1", "Potholes", "Fill them", "Roads", int64(2), created, "u1", "a@example.com",
			[]byte(`{}`), nil, nil, nil).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Insert(context.Background(), p))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestInsert_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`INSERT INTO posts`).WillReturnError(errors.New("db down"))

	err := repo.Insert(context.Background(), samplePost())
	if err == nil || !regexp.MustCompile(`db error: .*db down`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped db error, got %v", err)
	}
}

func TestGet_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("p1", "Potholes", "Fill them", "Roads", 2, created, "u1", "a@example.com",
			[]byte(`{"u1":1,"u2":1}`), "Main St", 40.7, -74.0)
	mock.ExpectQuery(`SELECT .* FROM posts WHERE id = \$1$`).WithArgs("p1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, samplePost(), got)
}

func TestGet_NullOptionalFields(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("p1", "Potholes", "Fill them", "Roads", 0, created, "u1", "a@example.com",
			[]byte(`{}`), nil, nil, nil)
	mock.ExpectQuery(`SELECT .* FROM posts WHERE id = \$1$`).WithArgs("p1").WillReturnRows(rows)

	got, err := repo.Get(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "", got.Address)
	assert.Nil(t, got.Location)
	assert.NotNil(t, got.VotesBy)
	assert.Empty(t, got.VotesBy)
}

func TestGet_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM posts WHERE id = \$1$`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestGetForUpdate_LocksRow(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(columns).
		AddRow("p1", "Potholes", "Fill them", "Roads", 2, created, "u1", "a@example.com",
			[]byte(`{}`), nil, nil, nil)
	mock.ExpectQuery(`SELECT .* FROM posts WHERE id = \$1 FOR UPDATE$`).WithArgs("p1").WillReturnRows(rows)

	got, err := repo.GetForUpdate(context.Background(), "p1")
	require.NoError(t, err)
	assert.Equal(t, "p1", got.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_AllAndFiltered(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM posts ORDER BY seq DESC$`).
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("p2", "b", "b", "Parks", 0, created, "u1", "a@example.com", []byte(`{}`), nil, nil, nil).
			AddRow("p1", "a", "a", "Roads", 0, created, "u1", "a@example.com", []byte(`{}`), nil, nil, nil))

	all, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "p2", all[0].ID)

	roads := models.CategoryRoads
	mock.ExpectQuery(`SELECT .* FROM posts WHERE category = \$1 ORDER BY seq DESC$`).
		WithArgs("Roads").
		WillReturnRows(sqlmock.NewRows(columns).
			AddRow("p1", "a", "a", "Roads", 0, created, "u1", "a@example.com", []byte(`{}`), nil, nil, nil))

	filtered, err := repo.List(context.Background(), &roads)
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, models.CategoryRoads, filtered[0].Category)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM posts ORDER BY seq DESC$`).WillReturnRows(sqlmock.NewRows(columns))

	got, err := repo.List(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_QueryError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT .* FROM posts`).WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), nil)
	if err == nil || !regexp.MustCompile(`failed to select posts: .*boom`).MatchString(err.Error()) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}

func TestUpdate_RowsAffected(t *testing.T) {
	tests := []struct {
		name    string
		result  driver.Result
		wantErr error
	}{
		{name: "updated", result: sqlmock.NewResult(0, 1)},
		{name: "missing", result: sqlmock.NewResult(0, 0), wantErr: common.ErrorNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, mock, db := newRepoWithMock(t)
			defer db.Close()

			mock.ExpectExec(`UPDATE posts SET problem = \$2`).
				WithArgs("p1", "Potholes", "Fill them", "Roads", int64(2),
					[]byte(`{"u1":1,"u2":1}`), "Main St", 40.7, float64(-74)).
				WillReturnResult(tt.result)

			err := repo.Update(context.Background(), samplePost())
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM posts WHERE id = \$1`).WithArgs("p1").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "p1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "p1"), common.ErrorNotFound)
}
