package domain

import "time"

// Stats summarizes one user's projects and issues.
type Stats struct {
	TotalProjects int            `json:"total_projects"`
	TotalIssues   int            `json:"total_issues"`
	ActiveIssues  int            `json:"active_issues"`
	ByStatus      map[string]int `json:"by_status"`
	ByPriority    map[string]int `json:"by_priority"`
	GeneratedAt   time.Time      `json:"generated_at"`
}
