package httpapi

import (
	"errors"
	"net/http"

	"sip-bridge/internal/bridge"
	"sip-bridge/internal/status"
	"sip-bridge/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups the control-surface HTTP handlers for dependency
// injection. Keep these thin: parse/validate input, call the bridge or
// aggregator, return JSON.
type Handlers struct {
	Bridge *bridge.Bridge
	Status *status.Aggregator
}

type callRequest struct {
	Destination string `json:"destination"`
}

type dtmfRequest struct {
	Digits string `json:"digits"`
}

// Health is a liveness probe for the API process itself, independent of
// the supervised child's state.
func (h Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetStatus returns the aggregated status snapshot.
func (h Handlers) GetStatus(c *gin.Context) {
	if h.Status == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "status aggregator not configured"})
		return
	}
	c.JSON(http.StatusOK, h.Status.Snapshot())
}

// StartCall dials a destination through the supervised pjsua.
func (h Handlers) StartCall(c *gin.Context) {
	if h.Bridge == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "bridge not configured"})
		return
	}
	var req callRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Bridge.Call(req.Destination); err != nil {
		writeBridgeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "calling", "destination": req.Destination})
}

// Hangup ends the current call.
func (h Handlers) Hangup(c *gin.Context) {
	if h.Bridge == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "bridge not configured"})
		return
	}
	if err := h.Bridge.Hangup(); err != nil {
		writeBridgeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "hangup"})
}

// SendDTMF sends DTMF digits on the current call.
func (h Handlers) SendDTMF(c *gin.Context) {
	if h.Bridge == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "bridge not configured"})
		return
	}
	var req dtmfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if err := h.Bridge.Dtmf(req.Digits); err != nil {
		writeBridgeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "dtmf_sent", "digits": req.Digits})
}

// writeBridgeError maps the bridge's error taxonomy to HTTP statuses.
// The underlying reason is always passed through to the caller.
func writeBridgeError(c *gin.Context, err error) {
	log := logger.FromGin(c)
	switch {
	case errors.Is(err, bridge.ErrInvalidArgument):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, bridge.ErrProcessUnavailable):
		log.Warn("command rejected", "err", err)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		log.Error("command failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "command failed"})
	}
}
