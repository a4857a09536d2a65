package api

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
	"github.com/victornm/drawboard/internal/errors"
	"github.com/victornm/drawboard/internal/leaderboard"
	"github.com/victornm/drawboard/internal/quiz"
	"github.com/victornm/drawboard/internal/score"
)

type Config struct {
	Router      gin.IRouter
	Boards      []*draw.Runner
	Quiz        *quiz.Board
	Score       *score.Service
	Leaderboard *leaderboard.Service
}

// API exposes the draw boards and the quiz board over HTTP.
type API struct {
	boards map[domain.Variant]*draw.Runner
	quiz   *quiz.Board
	ss     *score.Service
	ls     *leaderboard.Service
}

func New(c Config) *API {
	a := &API{
		boards: make(map[domain.Variant]*draw.Runner, len(c.Boards)),
		quiz:   c.Quiz,
		ss:     c.Score,
		ls:     c.Leaderboard,
	}

	for _, b := range c.Boards {
		a.boards[b.Variant()] = b
	}

	v1 := c.Router.Group("/api/v1")

	boards := v1.Group("/boards/:variant", a.board)
	boards.GET("", a.GetBoard)
	boards.POST("/candidates", a.AddCandidate)
	boards.DELETE("/candidates/:id", a.RemoveCandidate)
	boards.POST("/candidates/:id/toggle", a.ToggleCandidate)
	boards.POST("/candidates/activate", a.ActivateAll)
	boards.POST("/candidates/import", a.ImportCandidates)
	boards.POST("/draw", a.StartDraw)
	boards.POST("/reset", a.ResetBoard)
	boards.GET("/winners.csv", a.ExportWinners)
	boards.POST("/mute", a.MuteBoard)

	if a.quiz != nil {
		q := v1.Group("/quiz")
		q.GET("", a.GetQuiz)
		q.GET("/leaderboard", a.GetLeaderboard)
		q.POST("/teams", a.AddTeam)
		q.DELETE("/teams/:id", a.RemoveTeam)
		q.POST("/teams/:id/score", a.AdjustScore)
		q.POST("/start", a.StartGame)
		q.POST("/cards/:id/open", a.OpenCard)
		q.POST("/cards/pick", a.PickCard)
		q.POST("/card/pause", a.PauseCard)
		q.POST("/card/award", a.AwardCard)
		q.POST("/card/no-winner", a.NoWinner)
		q.POST("/card/close", a.CloseCard)
	}

	return a
}

const boardKey = "board"

// board resolves the :variant parameter for every board route.
func (a *API) board(c *gin.Context) {
	v := domain.Variant(c.Param("variant"))
	b, ok := a.boards[v]
	if !ok {
		renderError(c, errors.NotFound("board not found: variant=%s", v))
		c.Abort()
		return
	}

	c.Set(boardKey, b)
	c.Next()
}

func boardOf(c *gin.Context) *draw.Runner {
	return c.MustGet(boardKey).(*draw.Runner)
}

func renderError(c *gin.Context, err error) {
	e := errors.Convert(err)
	if e.Code == errors.CodeInternal {
		slog.ErrorContext(c.Request.Context(), "api: request failed", "path", c.FullPath(), "error", err)
	}

	c.JSON(e.HTTPStatusCode(), e)
}

func bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		renderError(c, errors.InvalidArgument("invalid request body: %v", err))
		return false
	}
	return true
}

func ok(c *gin.Context, v any) {
	c.JSON(http.StatusOK, v)
}
