package api

import (
	"github.com/gin-gonic/gin"
)

type (
	AddCandidateRequest struct {
		ID string `json:"id"`
	}

	ActivateRequest struct {
		Active bool `json:"active"`
	}

	MuteRequest struct {
		Muted bool `json:"muted"`
	}

	ImportResponse struct {
		Added int `json:"added"`
	}
)

func (a *API) GetBoard(c *gin.Context) {
	ok(c, boardOf(c).Snapshot())
}

func (a *API) AddCandidate(c *gin.Context) {
	var req AddCandidateRequest
	if !bind(c, &req) {
		return
	}

	// Blank and duplicate ids leave the pool as it is.
	b := boardOf(c)
	b.Add(req.ID)
	ok(c, b.Snapshot())
}

// RemoveCandidate drops one candidate. Unknown ids are ignored.
func (a *API) RemoveCandidate(c *gin.Context) {
	b := boardOf(c)
	b.Remove(c.Param("id"))
	ok(c, b.Snapshot())
}

// ToggleCandidate flips the active flag of one candidate. Boards without
// activation, unknown ids and past winners are left untouched.
func (a *API) ToggleCandidate(c *gin.Context) {
	b := boardOf(c)
	b.ToggleActive(c.Param("id"))
	ok(c, b.Snapshot())
}

func (a *API) ActivateAll(c *gin.Context) {
	var req ActivateRequest
	if !bind(c, &req) {
		return
	}

	b := boardOf(c)
	b.SetAllActive(req.Active)
	ok(c, b.Snapshot())
}

func (a *API) StartDraw(c *gin.Context) {
	b := boardOf(c)
	if err := b.StartDraw(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	ok(c, b.Snapshot())
}

func (a *API) ResetBoard(c *gin.Context) {
	b := boardOf(c)
	if err := b.Reset(c.Request.Context()); err != nil {
		renderError(c, err)
		return
	}

	ok(c, b.Snapshot())
}

func (a *API) MuteBoard(c *gin.Context) {
	var req MuteRequest
	if !bind(c, &req) {
		return
	}

	b := boardOf(c)
	b.SetMuted(req.Muted)
	ok(c, b.Snapshot())
}
