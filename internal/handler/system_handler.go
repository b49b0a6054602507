package handler

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/response"
	ws "github.com/stemsi/interview-assistant/internal/websocket"
)

const pingTimeout = 2 * time.Second

// SystemHandler reports process and runtime status. Host-level metrics are
// left to the Prometheus process collector on /metrics.
type SystemHandler struct {
	rdb         *redis.Client
	hub         *ws.Hub
	storeDriver string
	startTime   time.Time
	log         zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler. rdb may be nil when Redis is
// not configured.
func NewSystemHandler(rdb *redis.Client, hub *ws.Hub, storeDriver string, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		rdb:         rdb,
		hub:         hub,
		storeDriver: storeDriver,
		startTime:   time.Now(),
		log:         log.With().Str("component", "system_handler").Logger(),
	}
}

type systemStatus struct {
	Timestamp int64  `json:"timestamp"`
	Uptime    string `json:"uptime"`

	StoreDriver string `json:"store_driver"`
	Redis       string `json:"redis"`
	StreamConns int    `json:"stream_connections"`

	// Go Application
	Goroutines int    `json:"goroutines"`
	HeapAlloc  uint64 `json:"heap_alloc"`
	HeapSys    uint64 `json:"heap_sys"`
	NumGC      uint32 `json:"num_gc"`
	GoVersion  string `json:"go_version"`
	NumCPU     int    `json:"num_cpu"`
}

// GetStatus godoc
// GET /api/v1/system/status
func (h *SystemHandler) GetStatus(c *gin.Context) {
	response.Success(c, http.StatusOK, h.collect(c.Request.Context()))
}

func (h *SystemHandler) collect(ctx context.Context) systemStatus {
	m := systemStatus{
		Timestamp:   time.Now().Unix(),
		Uptime:      formatDuration(time.Since(h.startTime)),
		StoreDriver: h.storeDriver,
		Redis:       "disabled",
		StreamConns: h.hub.Total(),
		GoVersion:   runtime.Version(),
		NumCPU:      runtime.NumCPU(),
	}

	if h.rdb != nil {
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := h.rdb.Ping(pingCtx).Err(); err != nil {
			h.log.Warn().Err(err).Msg("Redis ping failed")
			m.Redis = "unreachable"
		} else {
			m.Redis = "ok"
		}
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	m.Goroutines = runtime.NumGoroutine()
	m.HeapAlloc = ms.HeapAlloc
	m.HeapSys = ms.Sys
	m.NumGC = ms.NumGC

	return m
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	return fmt.Sprintf("%dm %ds", minutes, seconds)
}
