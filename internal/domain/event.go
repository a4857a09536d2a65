package domain

import "time"

const (
	EventNameDrawStarted        = "draw.started"
	EventNameDrawPreviewed      = "draw.previewed"
	EventNameDrawRevealed       = "draw.revealed"
	EventNameDrawReset          = "draw.reset"
	EventNameDrawCancelled      = "draw.cancelled"
	EventNameCuePlayed          = "cue.played"
	EventNameNoticeRaised       = "notice.raised"
	EventNameTypewriterAdvanced = "typewriter.advanced"
	EventNameScoreUpdated       = "score.updated"
	EventNameLeaderboardUpdated = "leaderboard.updated"
	EventNameQuizCompleted      = "quiz.completed"
)

// EventNames lists every event published by the boards.
var EventNames = []string{
	EventNameDrawStarted,
	EventNameDrawPreviewed,
	EventNameDrawRevealed,
	EventNameDrawReset,
	EventNameDrawCancelled,
	EventNameCuePlayed,
	EventNameNoticeRaised,
	EventNameTypewriterAdvanced,
	EventNameScoreUpdated,
	EventNameLeaderboardUpdated,
	EventNameQuizCompleted,
}

// Scoped is implemented by events that belong to a single board.
type Scoped interface {
	Scope() Variant
}

type EventDrawStarted struct {
	Variant    Variant  `json:"variant"`
	Candidates []string `json:"candidates"`
}

func (EventDrawStarted) Name() string     { return EventNameDrawStarted }
func (e EventDrawStarted) Scope() Variant { return e.Variant }

// EventDrawPreviewed is cosmetic. The previewed candidate has no bearing on
// the winner.
type EventDrawPreviewed struct {
	Variant   Variant `json:"variant"`
	Index     int     `json:"index"`
	Candidate string  `json:"candidate"`
}

func (EventDrawPreviewed) Name() string     { return EventNameDrawPreviewed }
func (e EventDrawPreviewed) Scope() Variant { return e.Variant }

type EventDrawRevealed struct {
	Variant Variant  `json:"variant"`
	Winner  string   `json:"winner"`
	History []string `json:"history"`
}

func (EventDrawRevealed) Name() string     { return EventNameDrawRevealed }
func (e EventDrawRevealed) Scope() Variant { return e.Variant }

type EventDrawReset struct {
	Variant Variant `json:"variant"`
}

func (EventDrawReset) Name() string     { return EventNameDrawReset }
func (e EventDrawReset) Scope() Variant { return e.Variant }

type EventDrawCancelled struct {
	Variant Variant `json:"variant"`
}

func (EventDrawCancelled) Name() string     { return EventNameDrawCancelled }
func (e EventDrawCancelled) Scope() Variant { return e.Variant }

type EventCuePlayed struct {
	Variant Variant `json:"variant"`
	Cue     Cue     `json:"cue"`
}

func (EventCuePlayed) Name() string     { return EventNameCuePlayed }
func (e EventCuePlayed) Scope() Variant { return e.Variant }

// EventNoticeRaised carries a user-facing message for a recoverable failure.
type EventNoticeRaised struct {
	Variant Variant `json:"variant"`
	Kind    string  `json:"kind"`
	Message string  `json:"message"`
}

func (EventNoticeRaised) Name() string     { return EventNameNoticeRaised }
func (e EventNoticeRaised) Scope() Variant { return e.Variant }

type EventTypewriterAdvanced struct {
	QuizID   int         `json:"quiz_id"`
	Revealed string      `json:"revealed"`
	State    RevealState `json:"state"`
}

func (EventTypewriterAdvanced) Name() string   { return EventNameTypewriterAdvanced }
func (EventTypewriterAdvanced) Scope() Variant { return VariantQuiz }

type EventScoreUpdated struct {
	Team       Team      `json:"team"`
	UpdateTime time.Time `json:"update_time"`
}

func (EventScoreUpdated) Name() string   { return EventNameScoreUpdated }
func (EventScoreUpdated) Scope() Variant { return VariantQuiz }

type EventLeaderboardUpdated struct {
	Leaderboard Leaderboard `json:"leaderboard"`
}

func (EventLeaderboardUpdated) Name() string   { return EventNameLeaderboardUpdated }
func (EventLeaderboardUpdated) Scope() Variant { return VariantQuiz }

// EventQuizCompleted is published when a card is closed for good. TeamID is
// empty when nobody scored.
type EventQuizCompleted struct {
	QuizID int    `json:"quiz_id"`
	TeamID string `json:"team_id,omitempty"`
	Points int    `json:"points"`
}

func (EventQuizCompleted) Name() string   { return EventNameQuizCompleted }
func (EventQuizCompleted) Scope() Variant { return VariantQuiz }
