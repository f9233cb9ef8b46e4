package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CreateGroup creates a card group during the grouping phase.
func (a *API) CreateGroup(c *gin.Context) {
	var req struct {
		SessionID string `json:"session_id" binding:"required"`
		ColumnID  string `json:"column_id" binding:"required"`
		UserID    string `json:"user_id" binding:"required"`
		Title     string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := a.Groups.Create(req.SessionID, req.ColumnID, req.UserID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, group)
}

// UpdateGroup renames a group.
func (a *API) UpdateGroup(c *gin.Context) {
	var req struct {
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := a.Groups.Update(c.Param("id"), req.Title); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": true})
}

// DeleteGroup removes a group, ungrouping its cards and dropping its votes.
func (a *API) DeleteGroup(c *gin.Context) {
	if err := a.Groups.Delete(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": true})
}
