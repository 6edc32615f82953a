package service

import (
	"context"
	"errors"

	"github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/pagination"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

// Repository is the issue storage the service needs.
type Repository interface {
	List(ctx context.Context, projectID string, opts domain.ListOptions) ([]domain.Issue, int, error)
	ListForOwner(ctx context.Context, ownerID string, opts domain.ListOptions) ([]domain.Issue, int, error)
	Create(ctx context.Context, projectID string, in domain.CreateIssue) (*domain.Issue, error)
	Get(ctx context.Context, id string) (*domain.Issue, error)
	Update(ctx context.Context, id string, in domain.UpdateIssue) (*domain.Issue, error)
	Delete(ctx context.Context, id string) error
}

// Projects resolves a project for a user. It returns projectdomain.ErrNotFound
// or projectdomain.ErrForbidden; ProjectService satisfies it.
type Projects interface {
	Get(ctx context.Context, userID, id string) (*projectdomain.Project, error)
}

// IssueService scopes issue operations to projects the caller owns.
type IssueService struct {
	repo     Repository
	projects Projects
}

func NewIssueService(repo Repository, projects Projects) *IssueService {
	return &IssueService{repo: repo, projects: projects}
}

// List returns a page of a project's issues. Project lookup errors are
// returned unchanged so the caller can tell a missing project from a
// missing issue.
func (s *IssueService) List(ctx context.Context, userID, projectID string, opts domain.ListOptions) (pagination.Page[domain.Issue], error) {
	if err := opts.Filter.Validate(); err != nil {
		return pagination.Page[domain.Issue]{}, err
	}
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return pagination.Page[domain.Issue]{}, err
	}
	items, total, err := s.repo.List(ctx, projectID, opts)
	if err != nil {
		return pagination.Page[domain.Issue]{}, err
	}
	return pagination.NewPage(items, opts.Params, total), nil
}

// ListMine returns a page of issues across all of the user's projects.
func (s *IssueService) ListMine(ctx context.Context, userID string, opts domain.ListOptions) (pagination.Page[domain.Issue], error) {
	if err := opts.Filter.Validate(); err != nil {
		return pagination.Page[domain.Issue]{}, err
	}
	items, total, err := s.repo.ListForOwner(ctx, userID, opts)
	if err != nil {
		return pagination.Page[domain.Issue]{}, err
	}
	return pagination.NewPage(items, opts.Params, total), nil
}

func (s *IssueService) Create(ctx context.Context, userID, projectID string, in domain.CreateIssue) (*domain.Issue, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	if _, err := s.projects.Get(ctx, userID, projectID); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, projectID, in)
}

// Get returns the issue if the user owns its project. An issue in someone
// else's project is domain.ErrForbidden; a dangling project reference is
// domain.ErrNotFound.
func (s *IssueService) Get(ctx context.Context, userID, id string) (*domain.Issue, error) {
	issue, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if _, err := s.projects.Get(ctx, userID, issue.ProjectID); err != nil {
		switch {
		case errors.Is(err, projectdomain.ErrForbidden):
			return nil, domain.ErrForbidden
		case errors.Is(err, projectdomain.ErrNotFound):
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return issue, nil
}

func (s *IssueService) Update(ctx context.Context, userID, id string, in domain.UpdateIssue) (*domain.Issue, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	return s.repo.Update(ctx, id, in)
}

func (s *IssueService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
