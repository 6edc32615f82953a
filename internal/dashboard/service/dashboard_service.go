package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/trackly/tracker/internal/dashboard/domain"
	"github.com/trackly/tracker/internal/logging"
)

type Repository interface {
	Stats(ctx context.Context, ownerID string) (*domain.Stats, error)
	Owners(ctx context.Context) ([]string, error)
}

// Cache stores precomputed stats. Get returns (nil, nil) on a miss.
type Cache interface {
	Get(ctx context.Context, userID string) (*domain.Stats, error)
	SetMany(ctx context.Context, stats map[string]*domain.Stats) error
}

// computeTimeout bounds an on-demand computation shared by concurrent
// requests for the same user.
const computeTimeout = 10 * time.Second

// DashboardService serves per-user statistics from the snapshot cache,
// computing them on a miss.
type DashboardService struct {
	repo  Repository
	cache Cache
	sf    singleflight.Group
	now   func() time.Time
}

// NewDashboardService creates a DashboardService. A nil cache computes
// stats on every call.
func NewDashboardService(repo Repository, cache Cache) *DashboardService {
	return &DashboardService{repo: repo, cache: cache, now: time.Now}
}

func (s *DashboardService) Get(ctx context.Context, userID string) (*domain.Stats, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			logging.NewLogger(ctx).LogWarnf("dashboard_cache_get", "user_id=%s error=%v", userID, err)
		} else if cached != nil {
			return cached, nil
		}
	}

	ch := s.sf.DoChan(userID, func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		st, err := s.compute(cctx, userID)
		if err != nil {
			return nil, err
		}
		s.store(cctx, map[string]*domain.Stats{userID: st})
		return st, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		st := *res.Val.(*domain.Stats)
		return &st, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Refresh recomputes the snapshot for every project owner. It stops at the
// first database error.
func (s *DashboardService) Refresh(ctx context.Context) (int, error) {
	owners, err := s.repo.Owners(ctx)
	if err != nil {
		return 0, err
	}
	snap := make(map[string]*domain.Stats, len(owners))
	for _, id := range owners {
		st, err := s.compute(ctx, id)
		if err != nil {
			return 0, err
		}
		snap[id] = st
	}
	s.store(ctx, snap)
	return len(snap), nil
}

func (s *DashboardService) compute(ctx context.Context, userID string) (*domain.Stats, error) {
	st, err := s.repo.Stats(ctx, userID)
	if err != nil {
		return nil, err
	}
	st.GeneratedAt = s.now().UTC()
	return st, nil
}

func (s *DashboardService) store(ctx context.Context, snap map[string]*domain.Stats) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetMany(ctx, snap); err != nil {
		logging.NewLogger(ctx).LogWarnf("dashboard_cache_set", "users=%d error=%v", len(snap), err)
	}
}
