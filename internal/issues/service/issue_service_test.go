package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackly/tracker/internal/issues/domain"
	"github.com/trackly/tracker/internal/pagination"
	projectdomain "github.com/trackly/tracker/internal/projects/domain"
)

type fakeProjects map[string]string // project id -> owner id

func (f fakeProjects) Get(_ context.Context, userID, id string) (*projectdomain.Project, error) {
	owner, ok := f[id]
	if !ok {
		return nil, projectdomain.ErrNotFound
	}
	if owner != userID {
		return nil, projectdomain.ErrForbidden
	}
	return &projectdomain.Project{ID: id, OwnerID: owner}, nil
}

type memRepo struct {
	mu     sync.Mutex
	seq    int
	issues []domain.Issue
	owners fakeProjects
}

func (r *memRepo) filtered(keep func(domain.Issue) bool, opts domain.ListOptions) ([]domain.Issue, int, error) {
	var out []domain.Issue
	for _, i := range r.issues {
		if !keep(i) {
			continue
		}
		if opts.Status != "" && i.Status != opts.Status {
			continue
		}
		if opts.Priority != "" && i.Priority != opts.Priority {
			continue
		}
		out = append(out, i)
	}
	start := min(opts.Offset(), len(out))
	end := min(start+opts.PageSize, len(out))
	return out[start:end], len(out), nil
}

func (r *memRepo) List(_ context.Context, projectID string, opts domain.ListOptions) ([]domain.Issue, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filtered(func(i domain.Issue) bool { return i.ProjectID == projectID }, opts)
}

func (r *memRepo) ListForOwner(_ context.Context, ownerID string, opts domain.ListOptions) ([]domain.Issue, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.filtered(func(i domain.Issue) bool { return r.owners[i.ProjectID] == ownerID }, opts)
}

func (r *memRepo) Create(_ context.Context, projectID string, in domain.CreateIssue) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	i := domain.Issue{
		ID:          fmt.Sprintf("i%d", r.seq),
		ProjectID:   projectID,
		Title:       in.Title,
		Description: in.Description,
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedAt:   time.Now(),
	}
	r.issues = append(r.issues, i)
	return &i, nil
}

func (r *memRepo) Get(_ context.Context, id string) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, i := range r.issues {
		if i.ID == id {
			return &i, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) Update(_ context.Context, id string, in domain.UpdateIssue) (*domain.Issue, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k := range r.issues {
		i := &r.issues[k]
		if i.ID != id {
			continue
		}
		if in.Title != nil {
			i.Title = *in.Title
		}
		if in.Status != nil {
			i.Status = *in.Status
		}
		if in.Priority != nil {
			i.Priority = *in.Priority
		}
		now := time.Now()
		i.UpdatedAt = &now
		out := *i
		return &out, nil
	}
	return nil, domain.ErrNotFound
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for k, i := range r.issues {
		if i.ID == id {
			r.issues = append(r.issues[:k], r.issues[k+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func setup() (*IssueService, *memRepo) {
	owners := fakeProjects{"p1": "alice", "p2": "alice", "p3": "bob"}
	repo := &memRepo{owners: owners}
	return NewIssueService(repo, owners), repo
}

func firstPage(size int) domain.ListOptions {
	return domain.ListOptions{Params: pagination.Params{Page: 1, PageSize: size}}
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	svc, repo := setup()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "p1", domain.CreateIssue{Title: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	_, err = svc.Create(ctx, "alice", "p1", domain.CreateIssue{Title: "valid", Status: "blocked"})
	assert.ErrorIs(t, err, domain.ErrInvalid)
	assert.Empty(t, repo.issues, "invalid input never reaches storage")

	issue, err := svc.Create(ctx, "alice", "p1", domain.CreateIssue{Title: " Fix login "})
	require.NoError(t, err)
	assert.Equal(t, "Fix login", issue.Title)
	assert.Equal(t, domain.StatusOpen, issue.Status)
	assert.Equal(t, domain.PriorityMedium, issue.Priority)
}

func TestCreateChecksProject(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()

	_, err := svc.Create(ctx, "alice", "nope", domain.CreateIssue{Title: "orphan"})
	assert.ErrorIs(t, err, projectdomain.ErrNotFound)

	_, err = svc.Create(ctx, "alice", "p3", domain.CreateIssue{Title: "intrusion"})
	assert.ErrorIs(t, err, projectdomain.ErrForbidden)
}

func TestListFiltersAndPages(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()
	for n := 0; n < 7; n++ {
		in := domain.CreateIssue{Title: fmt.Sprintf("issue %d", n)}
		if n%2 == 0 {
			in.Priority = domain.PriorityHigh
		}
		_, err := svc.Create(ctx, "alice", "p1", in)
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, "alice", "p1", firstPage(5))
	require.NoError(t, err)
	assert.Len(t, page.Items, 5)
	assert.Equal(t, 7, page.Total)

	opts := firstPage(5)
	opts.Priority = domain.PriorityHigh
	page, err = svc.List(ctx, "alice", "p1", opts)
	require.NoError(t, err)
	assert.Equal(t, 4, page.Total)
	for _, i := range page.Items {
		assert.Equal(t, domain.PriorityHigh, i.Priority)
	}

	opts.Priority = "urgent"
	_, err = svc.List(ctx, "alice", "p1", opts)
	assert.ErrorIs(t, err, domain.ErrInvalid)

	_, err = svc.List(ctx, "bob", "p1", firstPage(5))
	assert.ErrorIs(t, err, projectdomain.ErrForbidden)
}

func TestListMineSpansProjects(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()
	for _, p := range []string{"p1", "p2"} {
		_, err := svc.Create(ctx, "alice", p, domain.CreateIssue{Title: "in " + p})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "bob", "p3", domain.CreateIssue{Title: "bob's"})
	require.NoError(t, err)

	page, err := svc.ListMine(ctx, "alice", firstPage(10))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total)

	page, err = svc.ListMine(ctx, "carol", firstPage(10))
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Zero(t, page.Total)
}

func TestGetUpdateDeleteOwnership(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()
	issue, err := svc.Create(ctx, "bob", "p3", domain.CreateIssue{Title: "private"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "alice", issue.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	done := domain.StatusDone
	_, err = svc.Update(ctx, "alice", issue.ID, domain.UpdateIssue{Status: &done})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "alice", issue.ID), domain.ErrForbidden)

	updated, err := svc.Update(ctx, "bob", issue.ID, domain.UpdateIssue{Status: &done})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusDone, updated.Status)
	assert.NotNil(t, updated.UpdatedAt)

	require.NoError(t, svc.Delete(ctx, "bob", issue.ID))
	_, err = svc.Get(ctx, "bob", issue.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUpdateRejectsEmptyPatch(t *testing.T) {
	svc, _ := setup()
	ctx := context.Background()
	issue, err := svc.Create(ctx, "alice", "p1", domain.CreateIssue{Title: "patch me"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "alice", issue.ID, domain.UpdateIssue{})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	short := "ab"
	_, err = svc.Update(ctx, "alice", issue.ID, domain.UpdateIssue{Title: &short})
	assert.ErrorIs(t, err, domain.ErrInvalid)
}
