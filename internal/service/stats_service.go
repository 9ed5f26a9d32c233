package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/namenice/kamui/internal/domain"
	"github.com/namenice/kamui/internal/repository"
	"github.com/namenice/kamui/internal/store"
)

const (
	statsCacheKey = "kamui:stats:inventory"
	statsCacheTTL = 30 * time.Second
)

// StatsService serves the dashboard counters, cached briefly so dashboard
// refreshes don't hammer the database.
type StatsService struct {
	repo   repository.StatsRepository
	cache  store.KV
	logger *zap.Logger
}

func NewStatsService(repo repository.StatsRepository, cache store.KV, logger *zap.Logger) *StatsService {
	if cache == nil {
		cache = store.NoopKV{}
	}
	return &StatsService{repo: repo, cache: cache, logger: logger}
}

// GetStats returns the inventory summary, from cache when fresh. refresh
// bypasses the cached copy.
func (s *StatsService) GetStats(ctx context.Context, refresh bool) (*domain.InventoryStats, error) {
	if !refresh {
		if raw, err := s.cache.Get(ctx, statsCacheKey); err == nil {
			var stats domain.InventoryStats
			if err := json.Unmarshal([]byte(raw), &stats); err == nil {
				return &stats, nil
			}
			// Corrupt cache entry, fall through to the database.
		} else if !errors.Is(err, store.ErrMiss) {
			s.logger.Warn("stats cache read failed", zap.Error(err))
		}
	}

	stats, err := s.repo.EntityCounts(ctx)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(stats); err == nil {
		if err := s.cache.Set(ctx, statsCacheKey, string(raw), statsCacheTTL); err != nil {
			s.logger.Warn("stats cache write failed", zap.Error(err))
		}
	}
	return stats, nil
}
