package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/orionjupiterai/ai-adventure-enterprise-sub001/internal/detector"
)

// RegisterIndicatorRoutes registers the detection query endpoints. All three
// are pure reads over the session's telemetry buffers.
//
// GET /sessions/:id/indicators/frustration
// GET /sessions/:id/indicators/boredom
// GET /sessions/:id/state
func RegisterIndicatorRoutes(r gin.IRoutes, det *detector.Detector) {
	r.GET("/sessions/:id/indicators/frustration", func(c *gin.Context) {
		bundle, err := det.FrustrationIndicators(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store read failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"indicators": bundle,
			"score":      detector.FrustrationScore(bundle),
		})
	})

	r.GET("/sessions/:id/indicators/boredom", func(c *gin.Context) {
		bundle, err := det.BoredomIndicators(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store read failed"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"indicators": bundle,
			"score":      detector.BoredomScore(bundle),
		})
	})

	r.GET("/sessions/:id/state", func(c *gin.Context) {
		cls, err := det.Classify(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "store read failed"})
			return
		}
		c.JSON(http.StatusOK, cls)
	})
}
