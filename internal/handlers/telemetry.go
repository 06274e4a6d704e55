package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/models"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/telemetry"
)

// RegisterTelemetryRoutes registers the ingestion-path endpoints.
//
// POST /sessions/:id/actions
// POST /sessions/:id/inputs
// POST /sessions/:id/combat
//
// All three are fire-and-forget from the game loop's point of view: the
// caller never consumes more than the 202 acknowledgment.
func RegisterTelemetryRoutes(r gin.IRoutes, tel *telemetry.Store) {
	r.POST("/sessions/:id/actions", func(c *gin.Context) {
		var req models.ActionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.Type == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type required"})
			return
		}

		err := tel.RecordAction(c.Request.Context(), c.Param("id"), telemetry.ActionEvent{
			Type:      req.Type,
			Target:    req.Target,
			Subtype:   req.Subtype,
			RiskLevel: req.RiskLevel,
			Timestamp: req.Timestamp,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store write failed"})
			return
		}
		c.JSON(http.StatusAccepted, models.RecordedResponse{Recorded: true})
	})

	r.POST("/sessions/:id/inputs", func(c *gin.Context) {
		var req models.InputRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.Type == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type required"})
			return
		}

		ev := telemetry.InputEvent{
			Type:         req.Type,
			ResponseTime: req.ResponseTime,
			Timestamp:    req.Timestamp,
		}
		if req.Data != nil {
			ev.Data = &telemetry.InputData{DeltaX: req.Data.DeltaX, DeltaY: req.Data.DeltaY}
		}

		if err := tel.RecordInput(c.Request.Context(), c.Param("id"), ev); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store write failed"})
			return
		}
		c.JSON(http.StatusAccepted, models.RecordedResponse{Recorded: true})
	})

	r.POST("/sessions/:id/combat", func(c *gin.Context) {
		var req models.CombatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.Result != telemetry.ResultVictory && req.Result != telemetry.ResultDeath {
			c.JSON(http.StatusBadRequest, gin.H{"error": "result must be victory or death"})
			return
		}

		err := tel.RecordCombat(c.Request.Context(), c.Param("id"), telemetry.CombatResult{
			Result:         req.Result,
			HealthLost:     req.HealthLost,
			TimeToComplete: req.TimeToComplete,
			AverageTime:    req.AverageTime,
			Timestamp:      req.Timestamp,
		})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store write failed"})
			return
		}
		c.JSON(http.StatusAccepted, models.RecordedResponse{Recorded: true})
	})
}
