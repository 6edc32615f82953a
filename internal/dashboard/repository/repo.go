package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/trackly/tracker/internal/dashboard/domain"
)

// StatsRepository runs the aggregate dashboard queries over database/sql.
type StatsRepository struct {
	db *sql.DB
}

func NewStatsRepository(db *sql.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// Stats counts ownerID's projects and their issues by status and priority.
// GeneratedAt is left for the caller.
func (r *StatsRepository) Stats(ctx context.Context, ownerID string) (*domain.Stats, error) {
	s := &domain.Stats{
		ByStatus:   map[string]int{},
		ByPriority: map[string]int{},
	}

	if err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM projects WHERE owner_id = $1`, ownerID,
	).Scan(&s.TotalProjects); err != nil {
		return nil, fmt.Errorf("count projects: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT i.status, i.priority, count(*)
FROM issues i
JOIN projects p ON p.id = i.project_id
WHERE p.owner_id = $1
GROUP BY i.status, i.priority`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count issues: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var status, priority string
		var n int
		if err := rows.Scan(&status, &priority, &n); err != nil {
			return nil, fmt.Errorf("scan issue counts: %w", err)
		}
		s.ByStatus[status] += n
		s.ByPriority[priority] += n
		s.TotalIssues += n
		if status != "done" {
			s.ActiveIssues += n
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issue counts: %w", err)
	}
	return s, nil
}

// Owners lists every user that owns at least one project.
func (r *StatsRepository) Owners(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT DISTINCT owner_id::text FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
