package handler

import (
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/service"
)

const (
	refreshInterval   = 15 * time.Second
	keepAliveInterval = 30 * time.Second
)

// MonitorHandler streams a candidate's interview events to the interviewer
// over SSE. Events arrive through Redis PubSub, so any instance can serve the
// stream.
type MonitorHandler struct {
	rdb              *redis.Client
	interviewService *service.InterviewService
	log              zerolog.Logger
}

func NewMonitorHandler(rdb *redis.Client, interviewService *service.InterviewService, log zerolog.Logger) *MonitorHandler {
	return &MonitorHandler{
		rdb:              rdb,
		interviewService: interviewService,
		log:              log.With().Str("component", "monitor_handler").Logger(),
	}
}

// MonitorCandidateSSE godoc
// GET /api/v1/candidates/:candidate_id/monitor
func (h *MonitorHandler) MonitorCandidateSSE(c *gin.Context) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return
	}

	candidate, err := h.interviewService.Candidate(candidateID)
	if err != nil {
		failWith(c, err)
		return
	}

	reqCtx := c.Request.Context()

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.SSEvent("message", gin.H{
		"type": "snapshot",
		"data": gin.H{
			"candidate": candidate,
			"current":   h.current(candidateID),
		},
	})
	c.Writer.Flush()

	channelName := config.CacheKey.CandidateEventsChannel(candidateID.String())
	pubsub := h.rdb.Subscribe(reqCtx, channelName)
	defer pubsub.Close()

	ch := pubsub.Channel()

	keepAliveTicker := time.NewTicker(keepAliveInterval)
	defer keepAliveTicker.Stop()

	refreshTicker := time.NewTicker(refreshInterval)
	defer refreshTicker.Stop()

	h.log.Info().Str("candidate_id", candidateID.String()).Msg("Interviewer attached to monitor SSE")

	pingPayload, _ := json.Marshal(map[string]string{"type": "ping"})

	for {
		select {
		case <-reqCtx.Done():
			h.log.Info().Str("candidate_id", candidateID.String()).Msg("Interviewer detached from monitor SSE")
			return

		case msg, ok := <-ch:
			if !ok {
				return
			}
			// Payloads are already JSON-encoded countdown events.
			c.Writer.Write([]byte("data: "))
			c.Writer.Write([]byte(msg.Payload))
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()

		case <-refreshTicker.C:
			c.SSEvent("message", gin.H{
				"type":    "refresh",
				"current": h.current(candidateID),
			})
			c.Writer.Flush()

		case <-keepAliveTicker.C:
			c.Writer.Write([]byte("data: "))
			c.Writer.Write(pingPayload)
			c.Writer.Write([]byte("\n\n"))
			c.Writer.Flush()
		}
	}
}

// current returns the active question, or nil when the candidate is not in a
// session.
func (h *MonitorHandler) current(candidateID uuid.UUID) *service.ActiveQuestion {
	aq, err := h.interviewService.CurrentQuestion(candidateID)
	if err != nil {
		return nil
	}
	return aq
}
