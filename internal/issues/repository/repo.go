package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackly/tracker/internal/issues/domain"
)

// IssueRepository provides persistence operations for issues
type IssueRepository struct {
	db *pgxpool.Pool
}

func NewIssueRepository(db *pgxpool.Pool) *IssueRepository {
	return &IssueRepository{db: db}
}

const issueColumns = `i.id::text, i.project_id::text, i.title, i.description, i.status, i.priority, i.created_at, i.updated_at`

func scanIssue(row pgx.Row, i *domain.Issue) error {
	return row.Scan(&i.ID, &i.ProjectID, &i.Title, &i.Description, &i.Status, &i.Priority, &i.CreatedAt, &i.UpdatedAt)
}

// orderBy sorts status and priority by workflow rank rather than text.
func orderBy(sortBy string, desc bool) string {
	col := "i.created_at"
	switch sortBy {
	case domain.SortPriority:
		col = `CASE i.priority WHEN 'low' THEN 0 WHEN 'medium' THEN 1 ELSE 2 END`
	case domain.SortStatus:
		col = `CASE i.status WHEN 'open' THEN 0 WHEN 'in_progress' THEN 1 ELSE 2 END`
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, i.created_at DESC, i.id %s", col, dir, dir)
}

// where builds the WHERE clause for a scope condition plus the filter.
// The scope condition uses $1.
func where(scope string, scopeArg any, f domain.Filter) (string, []any) {
	conds := []string{scope}
	args := []any{scopeArg}
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if f.Priority != "" {
		args = append(args, string(f.Priority))
		conds = append(conds, fmt.Sprintf("i.priority = $%d", len(args)))
	}
	return "WHERE " + strings.Join(conds, " AND "), args
}

// List returns one page of a project's issues and the filtered total.
func (r *IssueRepository) List(ctx context.Context, projectID string, opts domain.ListOptions) ([]domain.Issue, int, error) {
	cond, args := where("i.project_id = $1", projectID, opts.Filter)
	return r.page(ctx, "FROM issues i "+cond, args, opts)
}

// ListForOwner returns one page of issues across every project ownerID owns.
func (r *IssueRepository) ListForOwner(ctx context.Context, ownerID string, opts domain.ListOptions) ([]domain.Issue, int, error) {
	cond, args := where("p.owner_id = $1", ownerID, opts.Filter)
	return r.page(ctx, "FROM issues i JOIN projects p ON p.id = i.project_id "+cond, args, opts)
}

func (r *IssueRepository) page(ctx context.Context, from string, args []any, opts domain.ListOptions) ([]domain.Issue, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, "SELECT count(*) "+from+";", args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count issues: %w", err)
	}

	n := len(args)
	q := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT $%d OFFSET $%d;",
		issueColumns, from, orderBy(opts.SortBy, opts.Desc), n+1, n+2)
	rows, err := r.db.Query(ctx, q, append(args, opts.PageSize, opts.Offset())...)
	if err != nil {
		return nil, 0, fmt.Errorf("list issues: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Issue, 0, opts.PageSize)
	for rows.Next() {
		var i domain.Issue
		if err := scanIssue(rows, &i); err != nil {
			return nil, 0, err
		}
		out = append(out, i)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Create inserts an issue under projectID. The input must be normalized.
func (r *IssueRepository) Create(ctx context.Context, projectID string, in domain.CreateIssue) (*domain.Issue, error) {
	const q = `
INSERT INTO issues AS i (id, project_id, title, description, status, priority)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING ` + issueColumns + `;
`
	var i domain.Issue
	err := scanIssue(r.db.QueryRow(ctx, q,
		uuid.NewString(), projectID, in.Title, in.Description, string(in.Status), string(in.Priority)), &i)
	if err != nil {
		return nil, fmt.Errorf("create issue: %w", err)
	}
	return &i, nil
}

func (r *IssueRepository) Get(ctx context.Context, id string) (*domain.Issue, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `SELECT ` + issueColumns + ` FROM issues i WHERE i.id = $1;`

	var i domain.Issue
	if err := scanIssue(r.db.QueryRow(ctx, q, id), &i); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get issue: %w", err)
	}
	return &i, nil
}

// Update applies the non-nil fields and stamps updated_at.
func (r *IssueRepository) Update(ctx context.Context, id string, in domain.UpdateIssue) (*domain.Issue, error) {
	const q = `
UPDATE issues AS i
SET title = COALESCE($2, i.title),
    description = COALESCE($3, i.description),
    status = COALESCE($4, i.status),
    priority = COALESCE($5, i.priority),
    updated_at = now()
WHERE i.id = $1
RETURNING ` + issueColumns + `;
`
	var status, priority *string
	if in.Status != nil {
		s := string(*in.Status)
		status = &s
	}
	if in.Priority != nil {
		p := string(*in.Priority)
		priority = &p
	}

	var i domain.Issue
	if err := scanIssue(r.db.QueryRow(ctx, q, id, in.Title, in.Description, status, priority), &i); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update issue: %w", err)
	}
	return &i, nil
}

func (r *IssueRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM issues WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete issue: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
