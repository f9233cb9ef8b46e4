package routes

import (
	"github.com/bellapacxx/retro-backend/controllers"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, api *controllers.API) {
	v1 := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	v1.POST("/users", api.RegisterUser)                       // Anonymous join / sign-up
	v1.POST("/users/sync", api.SyncUser)                      // Identity provider sync
	v1.GET("/users/:id", api.GetUser)                         // Fetch user
	v1.PUT("/users/:id/subscription", api.UpdateSubscription) // Billing callback
	v1.GET("/users/:id/usage", api.GetUserUsage)              // Usage stats
	v1.GET("/users/:id/can-create", api.CanCreateSession)     // Session quota check
	v1.GET("/users/:id/sessions", api.ListUserSessions)       // Facilitated sessions

	// ----------------------
	// Session routes
	// ----------------------
	v1.POST("/sessions", api.CreateSession)
	v1.GET("/sessions/link/:shareLink", api.GetSessionByLink)
	v1.GET("/sessions/:id", api.GetSessionDetails)
	v1.GET("/sessions/:id/export", api.ExportSession)
	v1.PUT("/sessions/:id/phase", api.UpdatePhase)
	v1.POST("/sessions/:id/end", api.EndSession)
	v1.POST("/sessions/:id/timer/start", api.StartTimer)
	v1.POST("/sessions/:id/timer/stop", api.StopTimer)
	v1.POST("/sessions/:id/timer/restart", api.RestartTimer)
	v1.GET("/sessions/:id/participants", api.GetParticipantCount)
	v1.GET("/sessions/:id/can-join", api.CanJoinSession)
	v1.GET("/sessions/:id/votes/remaining", api.GetRemainingVotes)
	v1.GET("/sessions/:id/votes/results", api.GetVoteResults)

	// ----------------------
	// Card routes
	// ----------------------
	v1.POST("/cards", api.CreateCard)
	v1.PUT("/cards/:id", api.UpdateCard)
	v1.DELETE("/cards/:id", api.DeleteCard)
	v1.PUT("/cards/:id/group", api.MoveCard)

	// ----------------------
	// Group routes
	// ----------------------
	v1.POST("/groups", api.CreateGroup)
	v1.PUT("/groups/:id", api.UpdateGroup)
	v1.DELETE("/groups/:id", api.DeleteGroup)

	// ----------------------
	// Vote routes
	// ----------------------
	v1.POST("/votes", api.CastVote)
	v1.DELETE("/votes/:id", api.RemoveVote)

	// ----------------------
	// Action item routes
	// ----------------------
	v1.POST("/action-items", api.CreateActionItem)
	v1.POST("/action-items/bulk", api.BulkCreateActionItems)
	v1.PUT("/action-items/:id", api.UpdateActionItem)
	v1.DELETE("/action-items/:id", api.DeleteActionItem)

	// ----------------------
	// Maintenance (external scheduler)
	// ----------------------
	v1.POST("/internal/reset-usage", api.ResetUsageCounters)
}
