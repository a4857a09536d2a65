package quiz_test

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/loop"
	"github.com/victornm/drawboard/internal/loop/looptest"
	"github.com/victornm/drawboard/internal/quiz"
	"github.com/victornm/drawboard/internal/random"
	"github.com/victornm/drawboard/internal/score"
)

var catalog = []domain.Quiz{
	{ID: 1, Topic: "상식", Question: "What is 2+2?", Points: 10},
	{ID: 2, Topic: "추리", Question: "Who took the cake?", Points: 50},
	{ID: 3, Topic: "음악", Question: "Name this tune", Points: 30},
}

func TestBoard_AwardTeam(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := makeFixture(t)
	defer f.board.Close()

	red := f.addTeam(t, "red")
	blue := f.addTeam(t, "blue")
	require.NoError(t, f.board.StartGame(ctx))
	require.NoError(t, f.board.Open(ctx, 2))

	for range 3 {
		_, err := f.board.Tick(ctx)
		require.NoError(t, err)
	}
	snap := f.board.Snapshot()
	require.NotNil(t, snap.Card)
	assert.Equal(t, "Who", snap.Card.Revealed)

	tm, err := f.board.AwardTeam(ctx, blue.ID)
	require.NoError(t, err)
	assert.Equal(t, 50, tm.Score)

	snap = f.board.Snapshot()
	assert.Nil(t, snap.Card)
	assert.Equal(t, []int{2}, snap.Completed)
	assert.Equal(t, []domain.Team{{ID: red.ID, Name: "red"}, {ID: blue.ID, Name: "blue", Score: 50}}, snap.Teams)

	err = f.board.Open(ctx, 2)
	require.Error(t, err)
	assert.Equal(t, errors.CodeFailedPrecondition, errors.Convert(err).Code, "completed cards cannot be reopened")
}

func TestBoard_CardOutcomes(t *testing.T) {
	defer goleak.VerifyNone(t)

	tests := map[string]struct {
		act    func(t *testing.T, b *quiz.Board, teamID string) error
		assert func(t *testing.T, snap domain.QuizSnapshot, err error)
	}{
		"no winner completes the card without points": {
			act: func(_ *testing.T, b *quiz.Board, _ string) error {
				return b.NoWinner(context.Background())
			},
			assert: func(t *testing.T, snap domain.QuizSnapshot, err error) {
				require.NoError(t, err)
				assert.Equal(t, []int{1}, snap.Completed)
				assert.Zero(t, snap.Teams[0].Score)
			},
		},
		"dismiss completes the card": {
			act: func(_ *testing.T, b *quiz.Board, _ string) error {
				return b.Dismiss(context.Background())
			},
			assert: func(t *testing.T, snap domain.QuizSnapshot, err error) {
				require.NoError(t, err)
				assert.Equal(t, []int{1}, snap.Completed)
				assert.Nil(t, snap.Card)
			},
		},
		"awarding an unknown team keeps the card open": {
			act: func(_ *testing.T, b *quiz.Board, _ string) error {
				_, err := b.AwardTeam(context.Background(), "nobody")
				return err
			},
			assert: func(t *testing.T, snap domain.QuizSnapshot, err error) {
				require.Error(t, err)
				assert.Equal(t, errors.CodeNotFound, errors.Convert(err).Code)
				assert.Empty(t, snap.Completed)
				assert.NotNil(t, snap.Card)
			},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := makeFixture(t)
			defer f.board.Close()

			tm := f.addTeam(t, "red")
			require.NoError(t, f.board.StartGame(context.Background()))
			require.NoError(t, f.board.Open(context.Background(), 1))

			err := tt.act(t, f.board, tm.ID)
			tt.assert(t, f.board.Snapshot(), err)
		})
	}
}

func TestBoard_Preconditions(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := makeFixture(t)
	defer f.board.Close()

	err := f.board.StartGame(ctx)
	require.Error(t, err, "a game needs at least one team")
	require.Error(t, f.board.Open(ctx, 1), "cards are hidden before the game starts")

	f.addTeam(t, "red")
	require.NoError(t, f.board.StartGame(ctx))

	err = f.board.Open(ctx, 42)
	assert.Equal(t, errors.CodeNotFound, errors.Convert(err).Code)

	require.NoError(t, f.board.Open(ctx, 1))
	require.Error(t, f.board.Open(ctx, 3), "only one card can be open")

	_, err = f.board.TogglePause(ctx)
	require.NoError(t, err)
	require.NoError(t, f.board.Dismiss(ctx))
	_, err = f.board.TogglePause(ctx)
	require.Error(t, err)
}

func TestBoard_TypingLoop(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := makeFixture(t)
	defer f.board.Close()

	f.addTeam(t, "red")
	require.NoError(t, f.board.StartGame(ctx))
	require.NoError(t, f.board.Open(ctx, 3))

	revealed := func() string { return f.board.Snapshot().Card.Revealed }

	for i := 1; i <= 4; i++ {
		f.typing.Fire(f.base.Add(time.Duration(i) * 200 * time.Millisecond))
	}
	require.Eventually(t, func() bool { return revealed() == "Name" }, time.Second, time.Millisecond)

	st, err := f.board.TogglePause(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.RevealPaused, st)

	f.typing.Fire(f.base.Add(10 * time.Second))
	f.typing.Fire(f.base.Add(10*time.Second + 200*time.Millisecond))
	time.Sleep(10 * time.Millisecond)
	assert.Equal(t, "Name", revealed(), "nothing is revealed while paused")

	_, err = f.board.TogglePause(ctx)
	require.NoError(t, err)
	f.typing.Fire(f.base.Add(10*time.Second + 400*time.Millisecond))
	require.Eventually(t, func() bool { return revealed() == "Name " }, time.Second, time.Millisecond)

	f.cues.mu.Lock()
	typing := f.cues.count[domain.CueTyping]
	f.cues.mu.Unlock()
	assert.Equal(t, 5, typing, "one typing cue per revealed character")
}

func TestBoard_PickRandom(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := makeFixture(t)
	defer f.board.Close()

	f.addTeam(t, "red")
	require.NoError(t, f.board.StartGame(ctx))
	require.NoError(t, f.board.Open(ctx, 1))
	require.NoError(t, f.board.NoWinner(ctx))

	require.NoError(t, f.board.PickRandom(ctx))
	require.True(t, f.board.Snapshot().Picking)
	require.Error(t, f.board.Open(ctx, 2), "manual open is blocked while picking")
	require.ErrorIs(t, f.board.PickRandom(ctx), errors.DrawAlreadyInProgress)

	f.pick.Fire(f.base.Add(draw.QuizPickDuration))
	require.Eventually(t, func() bool { return f.board.Snapshot().Card != nil }, time.Second, time.Millisecond)

	snap := f.board.Snapshot()
	assert.False(t, snap.Picking)
	assert.Contains(t, []int{2, 3}, snap.Card.Quiz.ID, "completed cards are never picked")
}

func TestBoard_PickedCardKeepsItsSlot(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx := context.Background()
	f := makeFixture(t)
	defer f.board.Close()

	f.addTeam(t, "red")
	require.NoError(t, f.board.StartGame(ctx))

	// The picker's reveal cue is held, so the draw is already revealed while
	// the picked card is not open yet.
	g := f.cues.holdNextClick()
	require.NoError(t, f.board.PickRandom(ctx))
	f.pick.Fire(f.base.Add(draw.QuizPickDuration))
	<-g.reached

	err := f.board.Open(ctx, 2)
	require.Error(t, err, "manual open cannot take the picked card's slot")
	assert.Equal(t, errors.CodeFailedPrecondition, errors.Convert(err).Code)
	assert.True(t, f.board.Snapshot().Picking)

	close(g.release)
	require.Eventually(t, func() bool { return f.board.Snapshot().Card != nil }, time.Second, time.Millisecond)
	assert.False(t, f.board.Snapshot().Picking)
}

func TestParseCatalog(t *testing.T) {
	tests := map[string]struct {
		doc     string
		want    int
		wantErr string
	}{
		"valid catalog": {
			doc: `
quizzes:
  - id: 1
    topic: 추리
    question: 범인은 누구?
    points: 50
  - id: 2
    topic: 상식
    question: 2+2?
    points: 10
`,
			want: 2,
		},
		"duplicate ids are rejected": {
			doc: `
quizzes:
  - {id: 1, question: a, points: 10}
  - {id: 1, question: b, points: 10}
`,
			wantErr: "duplicate id",
		},
		"empty questions are rejected": {
			doc:     "quizzes:\n  - {id: 1, question: '  ', points: 10}\n",
			wantErr: "empty question",
		},
		"unknown fields are rejected": {
			doc:     "quizzes:\n  - {id: 1, question: a, answer: b}\n",
			wantErr: "answer",
		},
		"empty document is an empty catalog": {
			doc:  "",
			want: 0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := quiz.ParseCatalog(strings.NewReader(tt.doc))
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.want)
		})
	}
}

type cueGate struct {
	reached chan struct{}
	release chan struct{}
}

type cueCounter struct {
	mu    sync.Mutex
	count map[domain.Cue]int
	gate  *cueGate
}

// holdNextClick blocks the next click cue until the gate is released.
func (c *cueCounter) holdNextClick() *cueGate {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gate = &cueGate{reached: make(chan struct{}), release: make(chan struct{})}
	return c.gate
}

func (c *cueCounter) Play(_ context.Context, _ domain.Variant, cue domain.Cue) error {
	c.mu.Lock()
	c.count[cue]++
	var g *cueGate
	if cue == domain.CueClick {
		g, c.gate = c.gate, nil
	}
	c.mu.Unlock()

	if g != nil {
		close(g.reached)
		<-g.release
	}
	return nil
}

type fixture struct {
	board  *quiz.Board
	score  *score.Service
	typing *looptest.Ticker
	pick   *looptest.Ticker
	cues   *cueCounter
	base   time.Time
}

func (f *fixture) addTeam(t *testing.T, name string) *domain.Team {
	t.Helper()

	tm, err := f.score.AddTeam(context.Background(), name)
	require.NoError(t, err)
	return tm
}

func makeFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		score:  score.NewService(score.Config{}),
		typing: looptest.NewTicker(),
		pick:   looptest.NewTicker(),
		cues:   &cueCounter{count: make(map[domain.Cue]int)},
		base:   time.Unix(1000, 0),
	}
	now := func() time.Time { return f.base }

	f.board = quiz.NewBoard(quiz.Config{
		Score:          f.score,
		Catalog:        catalog,
		Rand:           random.NewSeeded(5),
		Cues:           f.cues,
		TypingInterval: 200 * time.Millisecond,
		TypingLoop:     loop.Config{NewTickerFunc: f.typing.Func(), Now: now},
		PickLoop:       loop.Config{NewTickerFunc: f.pick.Func(), Now: now},
	})
	return f
}
