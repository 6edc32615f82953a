package service

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trackly/tracker/internal/logging"
	"github.com/trackly/tracker/internal/pagination"
	"github.com/trackly/tracker/internal/projects/domain"
)

// Repository is the project storage the service needs.
type Repository interface {
	Create(ctx context.Context, ownerID string, in domain.CreateProject) (*domain.Project, error)
	Get(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, ownerID string, opts domain.ListOptions) ([]domain.Project, int, error)
	Update(ctx context.Context, id string, in domain.UpdateProject) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

// Cache holds single projects by ID. Get returns (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, id string) (*domain.Project, error)
	Set(ctx context.Context, p *domain.Project) error
	Invalidate(ctx context.Context, id string) error
}

// ProjectService handles project business logic: validation, ownership
// and cache-aside lookups.
type ProjectService struct {
	repo  Repository
	cache Cache
	sf    singleflight.Group

	// gen counts writes per project ID. A cache fill only stores the row
	// when no write happened since it began reading.
	mu  sync.Mutex
	gen map[string]uint64
}

// loadTimeout bounds a shared cache fill, which runs detached from the
// caller that started it.
const loadTimeout = 5 * time.Second

// NewProjectService creates a ProjectService. If cache is nil, caching is
// disabled.
func NewProjectService(repo Repository, cache Cache) *ProjectService {
	return &ProjectService{repo: repo, cache: cache, gen: map[string]uint64{}}
}

func (s *ProjectService) Create(ctx context.Context, userID string, in domain.CreateProject) (*domain.Project, error) {
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, userID, in)
}

func (s *ProjectService) List(ctx context.Context, userID string, opts domain.ListOptions) (pagination.Page[domain.Project], error) {
	items, total, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return pagination.Page[domain.Project]{}, err
	}
	return pagination.NewPage(items, opts.Params, total), nil
}

// Get returns the project if userID owns it: domain.ErrNotFound when it
// does not exist, domain.ErrForbidden when someone else owns it.
func (s *ProjectService) Get(ctx context.Context, userID, id string) (*domain.Project, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != userID {
		return nil, domain.ErrForbidden
	}
	return p, nil
}

func (s *ProjectService) Update(ctx context.Context, userID, id string, in domain.UpdateProject) (*domain.Project, error) {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return nil, err
	}
	if err := in.Normalize(); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)
	p, err := s.repo.Update(ctx, id, in)
	s.invalidate(ctx, id)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	if _, err := s.Get(ctx, userID, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	err := s.repo.Delete(ctx, id)
	s.invalidate(ctx, id)
	return err
}

// load reads through the cache. Concurrent misses for the same ID share
// one database query. The shared query does not inherit the cancellation
// of the caller that started it; each caller still returns as soon as its
// own context is done.
func (s *ProjectService) load(ctx context.Context, id string) (*domain.Project, error) {
	if s.cache == nil {
		return s.repo.Get(ctx, id)
	}

	ch := s.sf.DoChan(flightKey(id), func() (interface{}, error) {
		fctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()
		return s.fill(fctx, id)
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		p := *res.Val.(*domain.Project)
		return &p, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *ProjectService) fill(ctx context.Context, id string) (*domain.Project, error) {
	if p, err := s.cache.Get(ctx, id); err == nil && p != nil {
		return p, nil
	} else if err != nil {
		logging.NewLogger(ctx).LogWarnf("project_cache_get", "id=%s error=%v", id, err)
	}

	gen := s.generation(id)
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	// Held across Set so a concurrent invalidate either stops the store or
	// deletes it afterwards.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen[id] != gen {
		return p, nil
	}
	if err := s.cache.Set(ctx, p); err != nil {
		logging.NewLogger(ctx).LogWarnf("project_cache_set", "id=%s error=%v", id, err)
	}
	return p, nil
}

func (s *ProjectService) generation(id string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gen[id]
}

// invalidate drops the cached row and detaches in-flight fills from later
// readers.
func (s *ProjectService) invalidate(ctx context.Context, id string) {
	if s.cache == nil {
		return
	}
	s.mu.Lock()
	s.gen[id]++
	s.mu.Unlock()
	s.sf.Forget(flightKey(id))

	if err := s.cache.Invalidate(ctx, id); err != nil {
		logging.NewLogger(ctx).LogWarnf("project_cache_invalidate", "id=%s error=%v", id, err)
	}
}

func flightKey(id string) string { return "project:" + id }
