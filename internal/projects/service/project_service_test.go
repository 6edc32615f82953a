package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trackly/tracker/internal/pagination"
	"github.com/trackly/tracker/internal/projects/cache"
	"github.com/trackly/tracker/internal/projects/domain"
)

type memRepo struct {
	mu       sync.Mutex
	seq      int
	projects map[string]domain.Project
	gets     int
}

func newMemRepo() *memRepo {
	return &memRepo{projects: map[string]domain.Project{}}
}

func (r *memRepo) Create(_ context.Context, ownerID string, in domain.CreateProject) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	p := domain.Project{
		ID:          fmt.Sprintf("p%d", r.seq),
		Name:        in.Name,
		Description: in.Description,
		OwnerID:     ownerID,
		CreatedAt:   time.Date(2026, 1, 1, 0, 0, r.seq, 0, time.UTC),
	}
	r.projects[p.ID] = p
	return &p, nil
}

func (r *memRepo) Get(_ context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gets++
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (r *memRepo) List(_ context.Context, ownerID string, opts domain.ListOptions) ([]domain.Project, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var mine []domain.Project
	for _, p := range r.projects {
		if p.OwnerID == ownerID {
			mine = append(mine, p)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	start := min(opts.Offset(), len(mine))
	end := min(start+opts.PageSize, len(mine))
	return mine[start:end], len(mine), nil
}

func (r *memRepo) Update(_ context.Context, id string, in domain.UpdateProject) (*domain.Project, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.projects[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		p.Description = in.Description
	}
	r.projects[id] = p
	return &p, nil
}

func (r *memRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.projects[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

func (r *memRepo) getCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.gets
}

func newCachedService(t *testing.T, repo Repository) (*ProjectService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { client.Close() })
	return NewProjectService(repo, cache.NewProjectCache(client, time.Minute)), mr
}

func setupService(t *testing.T) (*ProjectService, *memRepo, *miniredis.Miniredis) {
	repo := newMemRepo()
	svc, mr := newCachedService(t, repo)
	return svc, repo, mr
}

// gatedRepo pauses the next Get after arm() until release is closed. The
// row is read before pausing, so a write during the pause is not seen.
type gatedRepo struct {
	*memRepo

	mu      sync.Mutex
	armed   bool
	ctxErr  error
	started chan struct{}
	release chan struct{}

	beforeUpdate func()
}

func newGatedRepo() *gatedRepo {
	return &gatedRepo{
		memRepo: newMemRepo(),
		started: make(chan struct{}),
		release: make(chan struct{}),
	}
}

func (r *gatedRepo) arm() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.armed = true
}

func (r *gatedRepo) Get(ctx context.Context, id string) (*domain.Project, error) {
	r.mu.Lock()
	armed := r.armed
	r.armed = false
	r.mu.Unlock()

	p, err := r.memRepo.Get(ctx, id)
	if armed {
		close(r.started)
		<-r.release
		r.mu.Lock()
		r.ctxErr = ctx.Err()
		r.mu.Unlock()
	}
	return p, err
}

func (r *gatedRepo) Update(ctx context.Context, id string, in domain.UpdateProject) (*domain.Project, error) {
	if r.beforeUpdate != nil {
		r.beforeUpdate()
	}
	return r.memRepo.Update(ctx, id, in)
}

func (r *gatedRepo) pausedCtxErr() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ctxErr
}

func strptr(s string) *string { return &s }

func TestCreateValidates(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, "u1", domain.CreateProject{Name: " x "})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	long := make([]byte, 501)
	for i := range long {
		long[i] = 'a'
	}
	_, err = svc.Create(ctx, "u1", domain.CreateProject{Name: "ok", Description: strptr(string(long))})
	assert.ErrorIs(t, err, domain.ErrInvalid)

	p, err := svc.Create(ctx, "u1", domain.CreateProject{Name: "  Tracker  "})
	require.NoError(t, err)
	assert.Equal(t, "Tracker", p.Name)
	assert.Equal(t, "u1", p.OwnerID)
}

func TestListPages(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		_, err := svc.Create(ctx, "u1", domain.CreateProject{Name: fmt.Sprintf("proj %d", i)})
		require.NoError(t, err)
	}
	_, err := svc.Create(ctx, "u2", domain.CreateProject{Name: "other"})
	require.NoError(t, err)

	page, err := svc.List(ctx, "u1", domain.ListOptions{Params: pagination.Params{Page: 3, PageSize: 5}})
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 12, page.Total)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 5, page.PageSize)

	page, err = svc.List(ctx, "nobody", domain.ListOptions{Params: pagination.Params{Page: 1, PageSize: 5}})
	require.NoError(t, err)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestGetOwnership(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner", domain.CreateProject{Name: "mine"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "intruder", p.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.Get(ctx, "owner", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	got, err := svc.Get(ctx, "owner", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)
}

func TestGetReadsThroughCache(t *testing.T) {
	svc, repo, mr := setupService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "u1", domain.CreateProject{Name: "cached"})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := svc.Get(ctx, "u1", p.ID)
		require.NoError(t, err)
	}
	assert.Equal(t, 1, repo.getCount(), "only the first lookup hits the repository")
	assert.True(t, mr.Exists("project:"+p.ID))
}

func TestUpdateAndDeleteInvalidateCache(t *testing.T) {
	svc, _, mr := setupService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "u1", domain.CreateProject{Name: "before"})
	require.NoError(t, err)
	_, err = svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	require.True(t, mr.Exists("project:"+p.ID))

	updated, err := svc.Update(ctx, "u1", p.ID, domain.UpdateProject{Name: strptr("after")})
	require.NoError(t, err)
	assert.Equal(t, "after", updated.Name)
	assert.False(t, mr.Exists("project:"+p.ID))

	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name, "no stale cache entry")

	require.NoError(t, svc.Delete(ctx, "u1", p.ID))
	assert.False(t, mr.Exists("project:"+p.ID))
	_, err = svc.Get(ctx, "u1", p.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMutationsRequireOwner(t *testing.T) {
	svc, _, _ := setupService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "owner", domain.CreateProject{Name: "mine"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, "intruder", p.ID, domain.UpdateProject{Name: strptr("hijack")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, svc.Delete(ctx, "intruder", p.ID), domain.ErrForbidden)

	got, err := svc.Get(ctx, "owner", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "mine", got.Name)
}

func TestCacheOutageFallsBackToRepository(t *testing.T) {
	svc, repo, mr := setupService(t)
	ctx := context.Background()
	p, err := svc.Create(ctx, "u1", domain.CreateProject{Name: "resilient"})
	require.NoError(t, err)

	mr.Close()
	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "resilient", got.Name)
	assert.Equal(t, 1, repo.getCount())
}

func TestWithoutCache(t *testing.T) {
	repo := newMemRepo()
	svc := NewProjectService(repo, nil)
	ctx := context.Background()
	p, err := svc.Create(ctx, "u1", domain.CreateProject{Name: "plain"})
	require.NoError(t, err)

	_, err = svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	_, err = svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.getCount())
}

func TestReadRacingUpdateDoesNotCacheOldRow(t *testing.T) {
	repo := newGatedRepo()
	svc, mr := newCachedService(t, repo)
	ctx := context.Background()
	p, err := svc.Create(ctx, "u1", domain.CreateProject{Name: "before"})
	require.NoError(t, err)

	// A reader misses the cache and reads the row just before the write
	// lands, then finishes after the write has invalidated the cache.
	reader := make(chan *domain.Project, 1)
	repo.beforeUpdate = func() {
		repo.arm()
		go func() {
			got, err := svc.Get(ctx, "u1", p.ID)
			assert.NoError(t, err)
			reader <- got
		}()
		<-repo.started
	}
	_, err = svc.Update(ctx, "u1", p.ID, domain.UpdateProject{Name: strptr("after")})
	require.NoError(t, err)

	close(repo.release)
	assert.Equal(t, "before", (<-reader).Name)
	assert.False(t, mr.Exists("project:"+p.ID), "row read before the update must not be cached")

	got, err := svc.Get(ctx, "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Name)
}

func TestCancelledCallerDoesNotCancelSharedLoad(t *testing.T) {
	repo := newGatedRepo()
	svc, mr := newCachedService(t, repo)
	p, err := svc.Create(context.Background(), "u1", domain.CreateProject{Name: "shared"})
	require.NoError(t, err)

	repo.arm()
	ctx, cancel := context.WithCancel(context.Background())
	errs := make(chan error, 1)
	go func() {
		_, err := svc.Get(ctx, "u1", p.ID)
		errs <- err
	}()
	<-repo.started
	cancel()
	assert.ErrorIs(t, <-errs, context.Canceled)

	close(repo.release)
	assert.Eventually(t, func() bool { return mr.Exists("project:" + p.ID) }, time.Second, 10*time.Millisecond)
	assert.NoError(t, repo.pausedCtxErr(), "shared load ran under its own context")

	got, err := svc.Get(context.Background(), "u1", p.ID)
	require.NoError(t, err)
	assert.Equal(t, "shared", got.Name)
	assert.Equal(t, 1, repo.getCount())
}
