package score

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/event"
)

const DefaultStep = 10

type Config struct {
	EventBus *event.Bus
	// Step is the manual adjustment increment.
	Step int
	Now  func() time.Time
}

// Service is the quiz score ledger: team id to score, never below zero.
type Service struct {
	eb   *event.Bus
	step int
	now  func() time.Time

	mu    sync.RWMutex
	teams []*domain.Team
}

func NewService(c Config) *Service {
	s := &Service{
		eb:   c.EventBus,
		step: c.Step,
		now:  c.Now,
	}

	if s.step <= 0 {
		s.step = DefaultStep
	}
	if s.now == nil {
		s.now = time.Now
	}

	return s
}

func (s *Service) Step() int { return s.step }

// AddTeam registers a team with a zero score. A blank name is ignored and
// returns nil.
func (s *Service) AddTeam(ctx context.Context, name string) (*domain.Team, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, nil
	}

	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate team ID: %w", err)
	}

	tm := &domain.Team{ID: id.String(), Name: name}

	s.mu.Lock()
	s.teams = append(s.teams, tm)
	s.mu.Unlock()

	slog.InfoContext(ctx, "score: team added", "team", tm.ID, "name", tm.Name)
	s.publish(ctx, *tm)
	return tm, nil
}

// RemoveTeam drops a team. Unknown ids are ignored.
func (s *Service) RemoveTeam(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.teams, func(t *domain.Team) bool { return t.ID == id })
	if i < 0 {
		return false
	}
	s.teams = slices.Delete(s.teams, i, i+1)

	slog.InfoContext(ctx, "score: team removed", "team", id)
	return true
}

// Increase adds one step to the team's score.
func (s *Service) Increase(ctx context.Context, id string) (domain.Team, error) {
	return s.Adjust(ctx, id, s.step)
}

// Decrease removes one step from the team's score, stopping at zero.
func (s *Service) Decrease(ctx context.Context, id string) (domain.Team, error) {
	return s.Adjust(ctx, id, -s.step)
}

// Award adds the points of a solved quiz to one team.
func (s *Service) Award(ctx context.Context, id string, points int) (domain.Team, error) {
	return s.Adjust(ctx, id, points)
}

// Adjust changes a team's score by delta with a floor at zero.
func (s *Service) Adjust(ctx context.Context, id string, delta int) (domain.Team, error) {
	s.mu.Lock()
	tm := s.find(id)
	if tm == nil {
		s.mu.Unlock()
		return domain.Team{}, errors.NotFound("team not found: team=%s", id)
	}
	tm.Score = max(0, tm.Score+delta)
	out := *tm
	s.mu.Unlock()

	s.publish(ctx, out)
	return out, nil
}

func (s *Service) Get(id string) (domain.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tm := s.find(id)
	if tm == nil {
		return domain.Team{}, false
	}
	return *tm, true
}

// Teams returns the teams in registration order.
func (s *Service) Teams() []domain.Team {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Team, 0, len(s.teams))
	for _, t := range s.teams {
		out = append(out, *t)
	}
	return out
}

// Standings returns the teams by score, highest first. Ties keep
// registration order.
func (s *Service) Standings() []domain.Team {
	out := s.Teams()
	slices.SortStableFunc(out, func(a, b domain.Team) int {
		return cmp.Compare(b.Score, a.Score)
	})
	return out
}

func (s *Service) find(id string) *domain.Team {
	for _, t := range s.teams {
		if t.ID == id {
			return t
		}
	}
	return nil
}

func (s *Service) publish(ctx context.Context, tm domain.Team) {
	if s.eb == nil {
		return
	}

	s.eb.Publish(ctx, domain.EventScoreUpdated{
		Team:       tm,
		UpdateTime: s.now(),
	})
}
