package posts

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/voices/internal/common"
	"github.com/dmitrijs2005/voices/internal/dbx"
	"github.com/dmitrijs2005/voices/internal/models"
	"github.com/dmitrijs2005/voices/internal/votes"
)

const selectColumns = `SELECT id, problem, solution, category, votes, created_at, author_id, author_email, votes_by, address, lat, lng FROM posts`

// PostgresRepository implements post storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var (
		p        models.Post
		votesBy  []byte
		address  sql.NullString
		lat, lng sql.NullFloat64
	)
	if err := row.Scan(&p.ID, &p.Problem, &p.Solution, &p.Category, &p.Votes, &p.CreatedAt,
		&p.AuthorID, &p.AuthorEmail, &votesBy, &address, &lat, &lng); err != nil {
		return nil, err
	}

	p.VotesBy = map[string]votes.Vote{}
	if len(votesBy) > 0 {
		if err := json.Unmarshal(votesBy, &p.VotesBy); err != nil {
			return nil, fmt.Errorf("decode votes_by: %w", err)
		}
	}
	if address.Valid {
		p.Address = address.String
	}
	if lat.Valid && lng.Valid {
		p.Location = &models.Location{Lat: lat.Float64, Lng: lng.Float64}
	}
	return &p, nil
}

// nullable turns the optional fields into SQL NULLs when they are absent.
func nullable(p *models.Post) (votesBy []byte, address sql.NullString, lat, lng sql.NullFloat64, err error) {
	vb := p.VotesBy
	if vb == nil {
		vb = map[string]votes.Vote{}
	}
	votesBy, err = json.Marshal(vb)
	if err != nil {
		return nil, address, lat, lng, fmt.Errorf("encode votes_by: %w", err)
	}
	if p.Address != "" {
		address = sql.NullString{String: p.Address, Valid: true}
	}
	if p.Location != nil {
		lat = sql.NullFloat64{Float64: p.Location.Lat, Valid: true}
		lng = sql.NullFloat64{Float64: p.Location.Lng, Valid: true}
	}
	return votesBy, address, lat, lng, nil
}

func (r *PostgresRepository) Insert(ctx context.Context, p *models.Post) error {
	votesBy, address, lat, lng, err := nullable(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO posts (id, problem, solution, category, votes, created_at, author_id, author_email, votes_by, address, lat, lng)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err = r.db.ExecContext(ctx, query,
		p.ID, p.Problem, p.Solution, string(p.Category), p.Votes, p.CreatedAt,
		p.AuthorID, p.AuthorEmail, votesBy, address, lat, lng)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) get(ctx context.Context, query, id string) (*models.Post, error) {
	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) Get(ctx context.Context, id string) (*models.Post, error) {
	return r.get(ctx, selectColumns+` WHERE id = $1`, id)
}

func (r *PostgresRepository) GetForUpdate(ctx context.Context, id string) (*models.Post, error) {
	return r.get(ctx, selectColumns+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *PostgresRepository) List(ctx context.Context, category *models.Category) ([]*models.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)
	if category == nil {
		rows, err = r.db.QueryContext(ctx, selectColumns+` ORDER BY seq DESC`)
	} else {
		rows, err = r.db.QueryContext(ctx, selectColumns+` WHERE category = $1 ORDER BY seq DESC`, string(*category))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select posts: %w", err)
	}
	defer rows.Close()

	result := []*models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Update(ctx context.Context, p *models.Post) error {
	votesBy, address, lat, lng, err := nullable(p)
	if err != nil {
		return err
	}

	query := `
		UPDATE posts SET problem = $2, solution = $3, category = $4, votes = $5,
			votes_by = $6, address = $7, lat = $8, lng = $9
		WHERE id = $1
	`
	res, err := r.db.ExecContext(ctx, query,
		p.ID, p.Problem, p.Solution, string(p.Category), p.Votes, votesBy, address, lat, lng)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return expectOneRow(res)
}

func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	switch n {
	case 1:
		return nil
	case 0:
		return common.ErrorNotFound
	default:
		return fmt.Errorf("unexpected rows affected: %d", n)
	}
}
