package dashboard

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/redis/go-redis/v9"

	"edulegal/internal/domain"
	"edulegal/internal/repository"
)

const (
	statsCacheKey = "cases:stats"
	statsCacheTTL = 5 * time.Minute
)

type Service interface {
	GetStats(ctx context.Context) (*domain.CaseStats, error)
	// Invalidate drops the cached stats after any case or complaint mutation.
	Invalidate(ctx context.Context)
}

type service struct {
	caseRepo repository.CaseRepository
	redis    *redis.Client
}

func NewService(caseRepo repository.CaseRepository, redis *redis.Client) Service {
	return &service{
		caseRepo: caseRepo,
		redis:    redis,
	}
}

func (s *service) GetStats(ctx context.Context) (*domain.CaseStats, error) {
	if s.redis != nil {
		if cached, err := s.redis.Get(ctx, statsCacheKey).Result(); err == nil {
			var stats domain.CaseStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.caseRepo.Stats(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to compute case stats")
	}

	if s.redis != nil {
		if statsJSON, err := json.Marshal(stats); err == nil {
			_ = s.redis.Set(ctx, statsCacheKey, statsJSON, statsCacheTTL).Err()
		}
	}

	return stats, nil
}

func (s *service) Invalidate(ctx context.Context) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, statsCacheKey).Err(); err != nil {
		slog.Warn("failed to invalidate stats cache", "error", err)
	}
}
