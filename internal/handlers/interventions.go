package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/intervention"
	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/models"
)

// RegisterInterventionRoutes registers the control-path endpoints used by the
// difficulty orchestrator.
//
// POST /sessions/:id/interventions           — activate for a frustration level
// GET  /sessions/:id/interventions           — active effect status
// GET  /sessions/:id/interventions/analytics — decision-log summary
func RegisterInterventionRoutes(r gin.IRoutes, eng *intervention.Engine) {
	r.POST("/sessions/:id/interventions", func(c *gin.Context) {
		var req models.ActivateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
			return
		}
		if req.FrustrationLevel < 0 || req.FrustrationLevel > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "frustration_level must be in [0,1]"})
			return
		}

		out := eng.Activate(c.Request.Context(), c.Param("id"), req.FrustrationLevel, req.PlayerState, req.CombatContext)

		// Activation failures are reported in-band: the caller gets
		// {activated:false}, never a transport error (fail-open).
		c.JSON(http.StatusOK, out)
	})

	r.GET("/sessions/:id/interventions", func(c *gin.Context) {
		entries, err := eng.Status(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store read failed"})
			return
		}
		if entries == nil {
			entries = []intervention.StatusEntry{}
		}
		c.JSON(http.StatusOK, gin.H{"interventions": entries})
	})

	r.GET("/sessions/:id/interventions/analytics", func(c *gin.Context) {
		summary, err := eng.SessionAnalytics(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store read failed"})
			return
		}
		c.JSON(http.StatusOK, summary)
	})
}
