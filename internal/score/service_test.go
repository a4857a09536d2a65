package score_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/event"
	"github.com/victornm/drawboard/internal/score"
)

func TestService_Adjust(t *testing.T) {
	type outputs struct {
		team domain.Team
		err  error
	}

	tests := map[string]struct {
		arrange func(t *testing.T, s *score.Service) (id string, delta int)
		assert  func(t *testing.T, out outputs)
	}{
		"increase adds one step": {
			arrange: func(t *testing.T, s *score.Service) (string, int) {
				return addTeam(t, s, "red").ID, s.Step()
			},
			assert: func(t *testing.T, out outputs) {
				require.NoError(t, out.err)
				assert.Equal(t, 10, out.team.Score)
			},
		},
		"decrease stops at zero": {
			arrange: func(t *testing.T, s *score.Service) (string, int) {
				return addTeam(t, s, "red").ID, -s.Step()
			},
			assert: func(t *testing.T, out outputs) {
				require.NoError(t, out.err)
				assert.Zero(t, out.team.Score)
			},
		},
		"unknown team is not found": {
			arrange: func(t *testing.T, s *score.Service) (string, int) {
				return "missing", 10
			},
			assert: func(t *testing.T, out outputs) {
				require.Error(t, out.err)
				assert.Equal(t, errors.CodeNotFound, errors.Convert(out.err).Code)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s := score.NewService(score.Config{EventBus: event.NewBus()})
			id, delta := tt.arrange(t, s)

			team, err := s.Adjust(context.Background(), id, delta)
			tt.assert(t, outputs{team: team, err: err})
		})
	}
}

func TestService_AddTeam(t *testing.T) {
	s := score.NewService(score.Config{})

	tm, err := s.AddTeam(context.Background(), "   ")
	require.NoError(t, err)
	assert.Nil(t, tm, "blank team names are ignored")

	red := addTeam(t, s, " red ")
	assert.Equal(t, "red", red.Name)
	assert.NotEmpty(t, red.ID)

	assert.True(t, s.RemoveTeam(context.Background(), red.ID))
	assert.False(t, s.RemoveTeam(context.Background(), red.ID))
	assert.Empty(t, s.Teams())
}

func TestService_Standings(t *testing.T) {
	ctx := context.Background()
	s := score.NewService(score.Config{})

	red := addTeam(t, s, "red")
	blue := addTeam(t, s, "blue")
	green := addTeam(t, s, "green")

	_, err := s.Award(ctx, blue.ID, 50)
	require.NoError(t, err)
	_, err = s.Increase(ctx, green.ID)
	require.NoError(t, err)

	var names []string
	for _, tm := range s.Standings() {
		names = append(names, tm.Name)
	}
	assert.Equal(t, []string{"blue", "green", "red"}, names)
	assert.Equal(t, red.ID, s.Teams()[0].ID, "teams keep registration order")
}

func TestService_PublishesScoreUpdated(t *testing.T) {
	ctx := context.Background()
	eb := event.NewBus()

	var (
		mu      sync.Mutex
		updates []domain.EventScoreUpdated
	)
	eb.Subscribe(domain.EventNameScoreUpdated, func(_ context.Context, e event.Event) error {
		mu.Lock()
		updates = append(updates, e.(domain.EventScoreUpdated))
		mu.Unlock()
		return nil
	})

	s := score.NewService(score.Config{EventBus: eb})
	red := addTeam(t, s, "red")
	_, err := s.Award(ctx, red.ID, 30)
	require.NoError(t, err)
	eb.Stop()

	require.Len(t, updates, 2)
	var scores []int
	for _, u := range updates {
		scores = append(scores, u.Team.Score)
	}
	assert.ElementsMatch(t, []int{0, 30}, scores)
}

func addTeam(t *testing.T, s *score.Service, name string) *domain.Team {
	t.Helper()

	tm, err := s.AddTeam(context.Background(), name)
	require.NoError(t, err)
	require.NotNil(t, tm)
	return tm
}
