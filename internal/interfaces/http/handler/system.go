package handler

import (
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
)

// SessionCounter reports how many terminal sessions are open
type SessionCounter interface {
	Len() int
}

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	sessions  SessionCounter
	startTime time.Time
}

// NewSystemHandler creates a new SystemHandler. sessions may be nil.
func NewSystemHandler(name, version string, sessions SessionCounter) *SystemHandler {
	return &SystemHandler{
		name:      name,
		version:   version,
		sessions:  sessions,
		startTime: time.Now(),
	}
}

// HealthResponse is the liveness report
type HealthResponse struct {
	Status         string `json:"status"`
	ActiveSessions int    `json:"active_sessions"`
	Uptime         string `json:"uptime"`
}

// Health handles GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status: "ok",
		Uptime: time.Since(h.startTime).Round(time.Second).String(),
	}
	if h.sessions != nil {
		resp.ActiveSessions = h.sessions.Len()
	}
	h.Success(c, resp)
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string `json:"name"`
	Version   string `json:"version"`
	GoVersion string `json:"go_version"`
	Uptime    string `json:"uptime"`
}

// GetSystemInfo godoc
// @Summary      Get system information
// @Description  Returns the service name, version, Go runtime and uptime
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=SystemInfoResponse}
// @Router       /system/info [get]
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	h.Success(c, SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
	})
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping godoc
// @Summary      Ping
// @Description  Liveness check under the versioned API
// @Tags         system
// @Produce      json
// @Success      200 {object} dto.Response{data=PingResponse}
// @Router       /ping [get]
func (h *SystemHandler) Ping(c *gin.Context) {
	h.Success(c, PingResponse{
		Message:   "pong",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
