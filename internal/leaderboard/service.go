package leaderboard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/event"
	"github.com/victornm/drawboard/internal/score"
)

const (
	publishInterval = 200 * time.Millisecond
)

type Config struct {
	EventBus *event.Bus
	Score    *score.Service
	// Redis is optional. When set, publication is throttled across every
	// process sharing the prefix.
	Redis    redis.UniversalClient
	Prefix   string
	Interval time.Duration
	Now      func() time.Time
}

type Service struct {
	eb       *event.Bus
	score    *score.Service
	redis    redis.UniversalClient
	prefix   string
	interval time.Duration
	now      func() time.Time

	mu       sync.Mutex
	trailing *time.Timer
	closed   bool
}

func NewService(c Config) *Service {
	s := &Service{
		eb:       c.EventBus,
		score:    c.Score,
		redis:    c.Redis,
		prefix:   c.Prefix,
		interval: c.Interval,
		now:      c.Now,
	}

	if s.interval <= 0 {
		s.interval = publishInterval
	}
	if s.now == nil {
		s.now = time.Now
	}

	s.eb.Subscribe(domain.EventNameScoreUpdated, func(ctx context.Context, e event.Event) error {
		return s.UpdateLeaderboard(ctx, e.(domain.EventScoreUpdated))
	})

	return s
}

// GetLeaderboard returns every team and its score, highest first.
func (s *Service) GetLeaderboard(_ context.Context) domain.Leaderboard {
	standings := s.score.Standings()

	entries := make([]domain.LeaderboardEntry, 0, len(standings))
	for _, t := range standings {
		entries = append(entries, domain.LeaderboardEntry{
			TeamID: t.ID,
			Name:   t.Name,
			Score:  t.Score,
		})
	}

	return domain.Leaderboard{
		Entries:    entries,
		UpdateTime: s.now(),
	}
}

// UpdateLeaderboard reacts to a score change.
func (s *Service) UpdateLeaderboard(ctx context.Context, e domain.EventScoreUpdated) error {
	return s.schedulePublishLeaderboard(ctx, e.UpdateTime)
}

// schedulePublishLeaderboard publishes at most one leaderboard per interval.
// Scores often change in bursts (a team is awarded, then corrected), so the
// first change publishes immediately and the rest of the burst is folded
// into a single trailing publication.
func (s *Service) schedulePublishLeaderboard(ctx context.Context, at time.Time) error {
	if s.redis == nil {
		s.publishLeaderboard(ctx)
		return nil
	}

	ok, err := s.redis.SetNX(ctx, s.getLeaderboardTimeKey(), at.UnixMilli(), s.interval).Result()
	if err != nil {
		return fmt.Errorf("setnx: %w", err)
	}

	if !ok {
		s.scheduleTrailing(ctx)
		return nil
	}

	s.publishLeaderboard(ctx)
	return nil
}

func (s *Service) scheduleTrailing(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed || s.trailing != nil {
		return
	}

	ctx = context.WithoutCancel(ctx)
	s.trailing = time.AfterFunc(s.interval, func() {
		s.mu.Lock()
		s.trailing = nil
		closed := s.closed
		s.mu.Unlock()

		if !closed {
			s.publishLeaderboard(ctx)
		}
	})
}

func (s *Service) publishLeaderboard(ctx context.Context) {
	l := s.GetLeaderboard(ctx)

	slog.DebugContext(ctx, "leaderboard: publishing", "teams", len(l.Entries))
	s.eb.Publish(ctx, domain.EventLeaderboardUpdated{
		Leaderboard: l,
	})
}

// Close drops any pending trailing publication.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	if s.trailing != nil {
		s.trailing.Stop()
		s.trailing = nil
	}
}

func (s *Service) getLeaderboardTimeKey() string {
	return fmt.Sprintf("%s:quiz:leaderboard:time", s.prefix)
}
