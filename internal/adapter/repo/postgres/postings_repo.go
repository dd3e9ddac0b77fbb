package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fairyhunter13/ai-job-matcher/internal/domain"
)

// PgxPool is a minimal subset of pgxpool used by the repos for easy testing.
type PgxPool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostingRepo persists and loads job postings using a minimal pgx pool.
type PostingRepo struct{ Pool PgxPool }

// NewPostingRepo constructs a PostingRepo with the given pool.
func NewPostingRepo(p PgxPool) *PostingRepo { return &PostingRepo{Pool: p} }

const postingColumns = `id, title, company, location, salary, industry, description, requirements, created_at`

// Create stores a new posting and returns its id (generates one if empty).
func (r *PostingRepo) Create(ctx domain.Context, p domain.JobPosting) (string, error) {
	tracer := otel.Tracer("repo.postings")
	ctx, span := tracer.Start(ctx, "postings.Create")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "INSERT"),
		attribute.String("db.sql.table", "postings"),
	)
	id := p.ID
	if id == "" {
		id = uuid.New().String()
	}
	q := `INSERT INTO postings (id, title, company, location, salary, industry, description, requirements, created_at) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	_, err := r.Pool.Exec(ctx, q, id, p.Title, p.Company, p.Location, p.Salary, p.Industry, p.Description, p.Requirements, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("op=posting.create: %w", err)
	}
	return id, nil
}

// Get loads a posting by id.
func (r *PostingRepo) Get(ctx domain.Context, id string) (domain.JobPosting, error) {
	tracer := otel.Tracer("repo.postings")
	ctx, span := tracer.Start(ctx, "postings.Get")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "postings"),
	)
	q := `SELECT ` + postingColumns + ` FROM postings WHERE id=$1`
	row := r.Pool.QueryRow(ctx, q, id)
	var p domain.JobPosting
	if err := row.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.Salary, &p.Industry, &p.Description, &p.Requirements, &p.CreatedAt); err != nil {
		if err == pgx.ErrNoRows {
			return domain.JobPosting{}, fmt.Errorf("op=posting.get: %w", domain.ErrNotFound)
		}
		return domain.JobPosting{}, fmt.Errorf("op=posting.get: %w", err)
	}
	return p, nil
}

// List returns postings matching the filter, newest first.
func (r *PostingRepo) List(ctx domain.Context, f domain.JobFilter) ([]domain.JobPosting, error) {
	tracer := otel.Tracer("repo.postings")
	ctx, span := tracer.Start(ctx, "postings.List")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "SELECT"),
		attribute.String("db.sql.table", "postings"),
	)
	q := `SELECT ` + postingColumns + ` FROM postings`
	var args []any
	where := ""
	and := func(cond string) {
		if where == "" {
			where = " WHERE " + cond
			return
		}
		where += " AND " + cond
	}
	if f.Industry != "" {
		args = append(args, f.Industry)
		and(fmt.Sprintf("industry ILIKE $%d", len(args)))
	}
	if f.Location != "" {
		args = append(args, "%"+f.Location+"%")
		and(fmt.Sprintf("location ILIKE $%d", len(args)))
	}
	if f.MinSalary > 0 {
		args = append(args, f.MinSalary)
		and(fmt.Sprintf("salary >= $%d", len(args)))
	}
	q += where + " ORDER BY created_at DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.Pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("op=posting.list: %w", err)
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		var p domain.JobPosting
		if err := rows.Scan(&p.ID, &p.Title, &p.Company, &p.Location, &p.Salary, &p.Industry, &p.Description, &p.Requirements, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("op=posting.list: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("op=posting.list: %w", err)
	}
	return out, nil
}

// Count returns the total number of postings.
func (r *PostingRepo) Count(ctx domain.Context) (int, error) {
	tracer := otel.Tracer("repo.postings")
	ctx, span := tracer.Start(ctx, "postings.Count")
	defer span.End()
	span.SetAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation", "COUNT"),
		attribute.String("db.sql.table", "postings"),
	)
	row := r.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM postings`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("op=posting.count: %w", err)
	}
	return count, nil
}
