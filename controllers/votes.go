package controllers

import (
	"net/http"

	"github.com/bellapacxx/retro-backend/models"

	"github.com/gin-gonic/gin"
)

// CastVote records a vote on a card or group.
func (a *API) CastVote(c *gin.Context) {
	var req struct {
		SessionID string        `json:"session_id" binding:"required"`
		UserID    string        `json:"user_id" binding:"required"`
		Target    models.Target `json:"target" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	vote, err := a.Votes.Cast(req.SessionID, req.UserID, req.Target)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, vote)
}

// RemoveVote deletes the caller's own vote.
func (a *API) RemoveVote(c *gin.Context) {
	var req struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Votes.Remove(c.Param("id"), req.UserID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": true})
}

// GetRemainingVotes reports the user's vote budget in the session.
func (a *API) GetRemainingVotes(c *gin.Context) {
	remaining, err := a.Votes.Remaining(c.Param("id"), c.Query("user_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, remaining)
}

// GetVoteResults returns the per-target tally, highest first.
func (a *API) GetVoteResults(c *gin.Context) {
	results, err := a.Votes.Results(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, results)
}
