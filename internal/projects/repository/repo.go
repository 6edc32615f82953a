package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/trackly/tracker/internal/projects/domain"
)

// ProjectRepository provides persistence operations for projects
type ProjectRepository struct {
	db *pgxpool.Pool
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *pgxpool.Pool) *ProjectRepository {
	return &ProjectRepository{db: db}
}

const projectColumns = `id::text, name, description, owner_id::text, created_at`

func scanProject(row pgx.Row, p *domain.Project) error {
	return row.Scan(&p.ID, &p.Name, &p.Description, &p.OwnerID, &p.CreatedAt)
}

// orderBy maps an allowed sort key to SQL. Unknown keys sort by creation
// time. id breaks ties so pages never overlap.
func orderBy(sortBy string, desc bool) string {
	col := "created_at"
	if sortBy == domain.SortName {
		col = "lower(name)"
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	return fmt.Sprintf("%s %s, id %s", col, dir, dir)
}

// Create inserts a new project for the given owner.
func (r *ProjectRepository) Create(ctx context.Context, ownerID string, in domain.CreateProject) (*domain.Project, error) {
	const q = `
INSERT INTO projects (id, name, description, owner_id)
VALUES ($1, $2, $3, $4)
RETURNING ` + projectColumns + `;
`
	var p domain.Project
	if err := scanProject(r.db.QueryRow(ctx, q, uuid.NewString(), in.Name, in.Description, ownerID), &p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

// Get returns one project regardless of owner.
func (r *ProjectRepository) Get(ctx context.Context, id string) (*domain.Project, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	const q = `SELECT ` + projectColumns + ` FROM projects WHERE id = $1;`

	var p domain.Project
	if err := scanProject(r.db.QueryRow(ctx, q, id), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// List returns one page of the owner's projects and the owner's total.
func (r *ProjectRepository) List(ctx context.Context, ownerID string, opts domain.ListOptions) ([]domain.Project, int, error) {
	var total int
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM projects WHERE owner_id = $1;`, ownerID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	q := `
SELECT ` + projectColumns + `
FROM projects
WHERE owner_id = $1
ORDER BY ` + orderBy(opts.SortBy, opts.Desc) + `
LIMIT $2 OFFSET $3;
`
	rows, err := r.db.Query(ctx, q, ownerID, opts.PageSize, opts.Offset())
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Project, 0, opts.PageSize)
	for rows.Next() {
		var p domain.Project
		if err := scanProject(rows, &p); err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return out, total, nil
}

// Update applies the non-nil fields.
func (r *ProjectRepository) Update(ctx context.Context, id string, in domain.UpdateProject) (*domain.Project, error) {
	const q = `
UPDATE projects
SET name = COALESCE($2, name),
    description = COALESCE($3, description)
WHERE id = $1
RETURNING ` + projectColumns + `;
`
	var p domain.Project
	if err := scanProject(r.db.QueryRow(ctx, q, id, in.Name, in.Description), &p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update project: %w", err)
	}
	return &p, nil
}

// Delete removes a project; its issues go with it (ON DELETE CASCADE).
func (r *ProjectRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM projects WHERE id = $1;`, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
