package controllers

import (
	"net/http"

	"github.com/bellapacxx/retro-backend/services"

	"github.com/gin-gonic/gin"
)

// CreateSession creates a retrospective session with template columns.
func (a *API) CreateSession(c *gin.Context) {
	var req services.CreateSessionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := a.Sessions.Create(req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session_id": session.ID, "share_link": session.ShareLink})
}

// GetSessionByLink resolves a public share link.
func (a *API) GetSessionByLink(c *gin.Context) {
	session, err := a.Sessions.GetByShareLink(c.Param("shareLink"))
	if err != nil {
		respondError(c, err)
		return
	}
	if session == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSessionDetails returns the full aggregate view of a session.
func (a *API) GetSessionDetails(c *gin.Context) {
	details, err := a.Sessions.Details(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// UpdatePhase records a facilitator-issued phase change.
func (a *API) UpdatePhase(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
		Phase  string `json:"phase" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Sessions.UpdatePhase(c.Param("id"), req.UserID, req.Phase); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"phase": req.Phase})
}

// EndSession permanently deactivates a session.
func (a *API) EndSession(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Sessions.End(c.Param("id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ended": true})
}

func (a *API) timerRequest(c *gin.Context, fn func(sessionID, userID string) error) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := fn(c.Param("id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (a *API) StartTimer(c *gin.Context)   { a.timerRequest(c, a.Sessions.StartTimer) }
func (a *API) StopTimer(c *gin.Context)    { a.timerRequest(c, a.Sessions.StopTimer) }
func (a *API) RestartTimer(c *gin.Context) { a.timerRequest(c, a.Sessions.RestartTimer) }

// GetParticipantCount counts distinct card authors in the session.
func (a *API) GetParticipantCount(c *gin.Context) {
	count, err := a.Sessions.ParticipantCount(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"participants": count})
}

// CanJoinSession previews the participant cap for a prospective author.
func (a *API) CanJoinSession(c *gin.Context) {
	allowance, err := a.Sessions.CanJoin(c.Param("id"), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, allowance)
}

// ExportSession returns the summary consumed by the document exporter.
func (a *API) ExportSession(c *gin.Context) {
	summary, err := a.Sessions.Export(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
