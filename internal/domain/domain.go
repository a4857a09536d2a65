package domain

import "time"

// Variant identifies one of the hosted boards.
type Variant string

const (
	VariantLucky   Variant = "lucky"
	VariantLottery Variant = "lottery"
	VariantQuiz    Variant = "quiz"
)

// DrawState is the state of a draw session.
type DrawState string

const (
	DrawIdle     DrawState = "idle"
	DrawRunning  DrawState = "running"
	DrawRevealed DrawState = "revealed"
)

// RevealState is the state of a typewriter reveal.
type RevealState string

const (
	RevealPlaying  RevealState = "playing"
	RevealPaused   RevealState = "paused"
	RevealComplete RevealState = "complete"
)

// Cue is a presentational feedback signal, rendered as a sound by the UI.
type Cue string

const (
	CueTick     Cue = "tick"
	CueDrumroll Cue = "drumroll"
	CueWin      Cue = "win"
	CueFanfare  Cue = "fanfare"
	CueTyping   Cue = "typing"
	CueClick    Cue = "click"
)

// DrawSnapshot is a read-only, serializable view of a draw board.
type DrawSnapshot struct {
	Variant  Variant   `json:"variant"`
	State    DrawState `json:"state"`
	Preview  string    `json:"preview,omitempty"`
	Winner   string    `json:"winner,omitempty"`
	Eligible int       `json:"eligible"`
	Pool     []string  `json:"pool"`
	Active   []string  `json:"active,omitempty"`
	History  []string  `json:"history"`
	Muted    bool      `json:"muted"`
}

type Quiz struct {
	ID       int    `json:"id" yaml:"id"`
	Topic    string `json:"topic" yaml:"topic"`
	Question string `json:"question" yaml:"question"`
	Points   int    `json:"points" yaml:"points"`
}

type Team struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Score int    `json:"score"`
}

// Card is the quiz card currently on screen.
type Card struct {
	Quiz     Quiz        `json:"quiz"`
	Revealed string      `json:"revealed"`
	State    RevealState `json:"state"`
}

// QuizSnapshot is a read-only view of the quiz board.
type QuizSnapshot struct {
	Started   bool   `json:"started"`
	Teams     []Team `json:"teams"`
	Quizzes   []Quiz `json:"quizzes"`
	Completed []int  `json:"completed"`
	Card      *Card  `json:"card,omitempty"`
	Picking   bool   `json:"picking"`
}

// Leaderboard lists teams by score in descending order.
type Leaderboard struct {
	Entries    []LeaderboardEntry `json:"entries"`
	UpdateTime time.Time          `json:"update_time"`
}

type LeaderboardEntry struct {
	TeamID string `json:"team_id"`
	Name   string `json:"name"`
	Score  int    `json:"score"`
}
