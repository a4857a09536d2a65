package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/errors"
)

type (
	AddTeamRequest struct {
		Name string `json:"name"`
	}

	// AdjustScoreRequest changes a team score by Delta. A zero Delta is
	// rejected; use the configured score step for the +/- buttons.
	AdjustScoreRequest struct {
		Delta int `json:"delta"`
	}

	AwardRequest struct {
		TeamID string `json:"teamId" binding:"required"`
	}

	PauseResponse struct {
		State domain.RevealState `json:"state"`
	}
)

func (a *API) GetQuiz(c *gin.Context) {
	ok(c, a.quiz.Snapshot())
}

func (a *API) GetLeaderboard(c *gin.Context) {
	ok(c, a.ls.GetLeaderboard(c.Request.Context()))
}

func (a *API) AddTeam(c *gin.Context) {
	var req AddTeamRequest
	if !bind(c, &req) {
		return
	}

	tm, err := a.ss.AddTeam(c.Request.Context(), req.Name)
	if err != nil {
		renderError(c, err)
		return
	}
	if tm == nil {
		renderError(c, errors.InvalidArgument("team name must not be blank"))
		return
	}

	ok(c, tm)
}

func (a *API) RemoveTeam(c *gin.Context) {
	if !a.ss.RemoveTeam(c.Request.Context(), c.Param("id")) {
		renderError(c, errors.NotFound("team not found: id=%s", c.Param("id")))
		return
	}

	ok(c, a.quiz.Snapshot())
}

func (a *API) AdjustScore(c *gin.Context) {
	var req AdjustScoreRequest
	if !bind(c, &req) {
		return
	}
	if req.Delta == 0 {
		renderError(c, errors.InvalidArgument("delta must not be zero"))
		return
	}

	tm, err := a.ss.Adjust(c.Request.Context(), c.Param("id"), req.Delta)
	if err != nil {
		renderError(c, err)
		return
	}

	ok(c, tm)
}

func (a *API) StartGame(c *gin.Context) {
	if err := a.quiz.StartGame(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	ok(c, a.quiz.Snapshot())
}

func (a *API) OpenCard(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		renderError(c, errors.InvalidArgument("invalid quiz id: %s", c.Param("id")))
		return
	}

	if err := a.quiz.Open(c.Request.Context(), id); err != nil {
		renderError(c, err)
		return
	}

	ok(c, a.quiz.Snapshot())
}

func (a *API) PickCard(c *gin.Context) {
	if err := a.quiz.PickRandom(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	ok(c, a.quiz.Snapshot())
}

func (a *API) PauseCard(c *gin.Context) {
	st, err := a.quiz.TogglePause(c.Request.Context())
	if err != nil {
		renderError(c, err)
		return
	}

	ok(c, PauseResponse{State: st})
}

func (a *API) AwardCard(c *gin.Context) {
	var req AwardRequest
	if !bind(c, &req) {
		return
	}

	tm, err := a.quiz.AwardTeam(c.Request.Context(), req.TeamID)
	if err != nil {
		renderError(c, err)
		return
	}

	ok(c, tm)
}

func (a *API) NoWinner(c *gin.Context) {
	if err := a.quiz.NoWinner(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	ok(c, a.quiz.Snapshot())
}

func (a *API) CloseCard(c *gin.Context) {
	if err := a.quiz.Dismiss(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	ok(c, a.quiz.Snapshot())
}
