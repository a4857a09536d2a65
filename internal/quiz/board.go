package quiz

import (
	"context"
	"log/slog"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/event"
	"github.com/victornm/drawboard/internal/loop"
	"github.com/victornm/drawboard/internal/score"
	"github.com/victornm/drawboard/internal/typewriter"
)

type Config struct {
	EventBus *event.Bus
	Score    *score.Service
	Catalog  []domain.Quiz
	Rand     draw.Rand
	Cues     draw.CuePlayer

	// Shuffle randomizes the card order when the game starts.
	Shuffle        bool
	TypingInterval time.Duration
	PickDuration   time.Duration
	// TypingLoop and PickLoop configure the tickers of the typewriter and of
	// the random card picker.
	TypingLoop loop.Config
	PickLoop   loop.Config
}

type card struct {
	quiz domain.Quiz
	tw   *typewriter.Typewriter
	last time.Duration
}

// Board is the quiz board: a grid of question cards, a score ledger, and at
// most one open card whose question is typed out.
type Board struct {
	eb             *event.Bus
	score          *score.Service
	rand           draw.Rand
	cues           draw.CuePlayer
	shuffle        bool
	typingInterval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	typing *loop.Loop
	picker *draw.Runner

	mu        sync.Mutex
	started   bool
	order     []int
	quizzes   map[int]domain.Quiz
	completed map[int]bool
	card      *card

	// picking holds the open slot for the picked card from PickRandom until
	// the picker's winner is opened.
	picking bool
}

func NewBoard(c Config) *Board {
	ctx, cancel := context.WithCancel(context.Background())

	b := &Board{
		eb:             c.EventBus,
		score:          c.Score,
		rand:           c.Rand,
		cues:           c.Cues,
		shuffle:        c.Shuffle,
		typingInterval: c.TypingInterval,
		ctx:            ctx,
		cancel:         cancel,
		quizzes:        make(map[int]domain.Quiz, len(c.Catalog)),
		completed:      make(map[int]bool),
	}

	if c.TypingLoop.Interval <= 0 {
		c.TypingLoop.Interval = typewriter.DefaultInterval / 4
	}
	b.typing = loop.New(c.TypingLoop)

	for _, q := range c.Catalog {
		b.order = append(b.order, q.ID)
		b.quizzes[q.ID] = q
	}

	o := draw.Preset(domain.VariantQuiz)
	if c.PickDuration > 0 {
		o.Duration = c.PickDuration
	}
	o.Rand = c.Rand
	o.Cues = c.Cues
	if c.EventBus != nil {
		o.Observer = c.EventBus
	}

	b.picker = draw.NewRunner(draw.RunnerConfig{
		Engine:   draw.NewEngine(o),
		Loop:     c.PickLoop,
		OnReveal: b.openPicked,
	})

	return b
}

// Snapshot returns a read-only view of the board.
func (b *Board) Snapshot() domain.QuizSnapshot {
	b.mu.Lock()
	defer b.mu.Unlock()

	s := domain.QuizSnapshot{
		Started:   b.started,
		Teams:     b.score.Teams(),
		Quizzes:   make([]domain.Quiz, 0, len(b.order)),
		Completed: make([]int, 0, len(b.completed)),
		Picking:   b.picking,
	}
	for _, id := range b.order {
		s.Quizzes = append(s.Quizzes, b.quizzes[id])
	}
	for id := range b.completed {
		s.Completed = append(s.Completed, id)
	}
	slices.Sort(s.Completed)

	if b.card != nil {
		s.Card = &domain.Card{
			Quiz:     b.card.quiz,
			Revealed: b.card.tw.Revealed(),
			State:    b.card.tw.State(),
		}
	}

	return s
}

// StartGame shows the cards. At least one team must be registered.
func (b *Board) StartGame(ctx context.Context) error {
	if len(b.score.Teams()) == 0 {
		return errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("add at least one team before starting"))
	}

	b.mu.Lock()
	if !b.started {
		b.started = true
		if b.shuffle && b.rand != nil {
			draw.Shuffle(b.rand, b.order)
		}
	}
	b.mu.Unlock()

	slog.InfoContext(ctx, "quiz: game started")
	b.cue(ctx, domain.CueClick)
	return nil
}

// Open shows a card and starts typing its question.
func (b *Board) Open(ctx context.Context, quizID int) error {
	return b.open(ctx, quizID, false)
}

func (b *Board) open(ctx context.Context, quizID int, picked bool) error {
	b.mu.Lock()
	if !picked && b.picking {
		b.mu.Unlock()
		return errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("a card is being picked"))
	}
	if picked {
		b.picking = false
	}
	c, err := b.openLocked(quizID)
	b.mu.Unlock()
	if err != nil {
		return err
	}

	slog.InfoContext(ctx, "quiz: card opened", "quiz", quizID)
	b.cue(ctx, domain.CueClick)
	b.typing.Start(b.ctx, b.typeStep(c))
	return nil
}

func (b *Board) openLocked(quizID int) (*card, error) {
	if !b.started {
		return nil, errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("game has not started"))
	}
	if b.card != nil {
		return nil, errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("card %d is already open", b.card.quiz.ID))
	}

	q, ok := b.quizzes[quizID]
	if !ok {
		return nil, errors.NotFound("quiz not found: quiz=%d", quizID)
	}
	if b.completed[quizID] {
		return nil, errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("quiz %d is already completed", quizID))
	}

	c := &card{quiz: q}
	c.tw = typewriter.New(q.Question,
		typewriter.WithInterval(b.typingInterval),
		typewriter.OnReveal(func(revealed string) {
			b.cue(b.ctx, domain.CueTyping)
			b.publish(b.ctx, domain.EventTypewriterAdvanced{
				QuizID:   q.ID,
				Revealed: revealed,
				State:    c.tw.State(),
			})
		}),
	)
	b.card = c
	return c, nil
}

func (b *Board) typeStep(c *card) loop.Step {
	return func(ctx context.Context, elapsed time.Duration) bool {
		b.mu.Lock()
		defer b.mu.Unlock()

		if ctx.Err() != nil || b.card != c {
			return true
		}

		delta := elapsed - c.last
		c.last = elapsed
		c.tw.Advance(delta)
		return c.tw.State() == domain.RevealComplete
	}
}

// PickRandom draws one of the remaining cards and opens it once revealed.
func (b *Board) PickRandom(ctx context.Context) error {
	b.mu.Lock()
	if !b.started {
		b.mu.Unlock()
		return errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("game has not started"))
	}
	if b.card != nil {
		b.mu.Unlock()
		return errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("card %d is already open", b.card.quiz.ID))
	}
	if b.picking {
		b.mu.Unlock()
		err := errors.From(errors.DrawAlreadyInProgress)
		b.publish(ctx, domain.EventNoticeRaised{
			Variant: domain.VariantQuiz,
			Kind:    err.Kind(),
			Message: err.Message,
		})
		return err
	}

	remaining := make([]string, 0, len(b.order))
	for _, id := range b.order {
		if !b.completed[id] {
			remaining = append(remaining, strconv.Itoa(id))
		}
	}
	b.picking = true
	b.mu.Unlock()

	b.picker.Replace(remaining)
	if err := b.picker.StartDraw(ctx); err != nil {
		b.mu.Lock()
		b.picking = false
		b.mu.Unlock()
		return err
	}
	return nil
}

func (b *Board) openPicked(ctx context.Context, winner string) {
	id, err := strconv.Atoi(winner)
	if err != nil {
		b.mu.Lock()
		b.picking = false
		b.mu.Unlock()
		slog.ErrorContext(ctx, "quiz: picked card has an invalid id", "winner", winner, "error", err)
		return
	}

	if err := b.open(ctx, id, true); err != nil {
		slog.ErrorContext(ctx, "quiz: open picked card failed", "quiz", id, "error", err)
	}
}

// TogglePause pauses or resumes the typing of the open card.
func (b *Board) TogglePause(ctx context.Context) (domain.RevealState, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.card == nil {
		return "", errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("no card is open"))
	}

	st := b.card.tw.Toggle()
	b.publish(ctx, domain.EventTypewriterAdvanced{
		QuizID:   b.card.quiz.ID,
		Revealed: b.card.tw.Revealed(),
		State:    st,
	})
	return st, nil
}

// Tick reveals one more character of the open card immediately.
func (b *Board) Tick(_ context.Context) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.card == nil {
		return false, errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("no card is open"))
	}

	return b.card.tw.Tick(), nil
}

// AwardTeam gives the open card's points to one team and completes the card.
func (b *Board) AwardTeam(ctx context.Context, teamID string) (domain.Team, error) {
	b.mu.Lock()
	if b.card == nil {
		b.mu.Unlock()
		return domain.Team{}, errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("no card is open"))
	}

	q := b.card.quiz
	tm, err := b.score.Award(ctx, teamID, q.Points)
	if err != nil {
		b.mu.Unlock()
		return domain.Team{}, err
	}
	b.completeLocked(ctx, q, teamID)
	b.mu.Unlock()

	b.typing.Cancel()
	b.cue(ctx, domain.CueClick)
	return tm, nil
}

// NoWinner completes the open card without awarding anyone.
func (b *Board) NoWinner(ctx context.Context) error {
	if err := b.dismiss(ctx); err != nil {
		return err
	}

	b.cue(ctx, domain.CueClick)
	return nil
}

// Dismiss closes the open card. The card counts as completed.
func (b *Board) Dismiss(ctx context.Context) error {
	return b.dismiss(ctx)
}

func (b *Board) dismiss(ctx context.Context) error {
	b.mu.Lock()
	if b.card == nil {
		b.mu.Unlock()
		return errors.New(errors.CodeFailedPrecondition, errors.WithMessagef("no card is open"))
	}
	b.completeLocked(ctx, b.card.quiz, "")
	b.mu.Unlock()

	b.typing.Cancel()
	return nil
}

func (b *Board) completeLocked(ctx context.Context, q domain.Quiz, teamID string) {
	b.completed[q.ID] = true
	b.card = nil

	points := 0
	if teamID != "" {
		points = q.Points
	}

	slog.InfoContext(ctx, "quiz: card completed", "quiz", q.ID, "team", teamID, "points", points)
	b.publish(ctx, domain.EventQuizCompleted{
		QuizID: q.ID,
		TeamID: teamID,
		Points: points,
	})
}

// Close stops every timer owned by the board.
func (b *Board) Close() {
	b.cancel()
	b.typing.Cancel()
	b.picker.Close()
	b.typing.Wait()
}

func (b *Board) cue(ctx context.Context, c domain.Cue) {
	draw.PlayCue(ctx, b.cues, draw.LogCues, domain.VariantQuiz, c)
}

func (b *Board) publish(ctx context.Context, e event.Event) {
	if b.eb != nil {
		b.eb.Publish(ctx, e)
	}
}
