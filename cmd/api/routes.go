package main

import (
	"sip-bridge/internal/bridge"
	"sip-bridge/internal/httpapi"
	"sip-bridge/internal/status"

	"github.com/gin-gonic/gin"
)

func httpapiHandlers(br *bridge.Bridge, agg *status.Aggregator) httpapi.Handlers {
	return httpapi.Handlers{Bridge: br, Status: agg}
}

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/health", h.Health)
	r.GET("/status", h.GetStatus)

	r.POST("/call", h.StartCall)
	r.POST("/hangup", h.Hangup)
	r.POST("/dtmf", h.SendDTMF)
}
