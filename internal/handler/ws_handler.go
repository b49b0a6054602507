package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/middleware"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/validator"
	ws "github.com/stemsi/interview-assistant/internal/websocket"
	"github.com/stemsi/interview-assistant/internal/worker"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// streamState is the snapshot sent when a connection opens.
type streamState struct {
	Candidate *model.Candidate        `json:"candidate"`
	Current   *service.ActiveQuestion `json:"current,omitempty"`
	Remaining *int                    `json:"remaining,omitempty"`
	Draft     string                  `json:"draft,omitempty"`
}

// WSHandler handles the interviewee's live stream: countdown events out,
// draft/submit/pause/resume actions in.
type WSHandler struct {
	interviewService *service.InterviewService
	countdown        *worker.CountdownWorker
	hub              *ws.Hub
	log              zerolog.Logger
	upgrader         websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(
	interviewService *service.InterviewService,
	countdown *worker.CountdownWorker,
	hub *ws.Hub,
	log zerolog.Logger,
	allowedOrigins []string,
) *WSHandler {
	return &WSHandler{
		interviewService: interviewService,
		countdown:        countdown,
		hub:              hub,
		log:              log.With().Str("component", "ws_handler").Logger(),
		upgrader:         buildUpgrader(allowedOrigins),
	}
}

// Relay forwards a countdown event to every connection of its candidate.
// Register it with CountdownWorker.Subscribe.
func (h *WSHandler) Relay(ev worker.Event) {
	h.hub.Broadcast(ev.CandidateID, ws.StreamEvent{Event: ws.Event(ev.Type), Data: ev})
}

// InterviewStream godoc
// WS /ws/v1/interviews/:candidate_id/stream?token=
// Upgrades to WebSocket, arms the countdown on the current question and
// streams its events.
func (h *WSHandler) InterviewStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	candidateID := claims.CandidateID

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		response.RequestLogger(c, h.log).Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	// The candidate may have been removed after the token was issued.
	if _, err := h.interviewService.Candidate(candidateID); err != nil {
		ws.WriteError(conn, string(response.ErrNotFound), response.GetMessage(response.ErrNotFound))
		conn.Close()
		return
	}

	client := h.hub.Register(conn, candidateID)
	defer h.hub.Unregister(client)
	go client.WritePump()

	wsLog := h.log.With().Str("candidate_id", candidateID.String()).Logger()
	wsLog.Info().Msg("Candidate connected")

	if err := h.countdown.Arm(candidateID); err != nil && !errors.Is(err, service.ErrNoActiveSession) {
		wsLog.Warn().Err(err).Msg("Countdown not armed")
	}
	client.Send(ws.StreamEvent{Event: ws.EventState, Data: h.state(candidateID)})

	client.PrepareRead()
	for {
		data, err := client.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}
		h.dispatch(client, wsLog, candidateID, data)
	}
}

func (h *WSHandler) state(candidateID uuid.UUID) streamState {
	var st streamState
	st.Candidate, _ = h.interviewService.Candidate(candidateID)
	if current, err := h.interviewService.CurrentQuestion(candidateID); err == nil {
		st.Current = current
		st.Draft = h.countdown.Draft(candidateID)
	}
	if remaining, armed := h.countdown.Remaining(candidateID); armed {
		st.Remaining = &remaining
	}
	return st
}

// dispatch runs one client action and replies with an ack or an error.
func (h *WSHandler) dispatch(client *ws.Client, wsLog zerolog.Logger, candidateID uuid.UUID, data []byte) {
	ctx := context.Background()

	var env ws.RequestEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		sendCode(client, response.ErrInvalidPayload, nil)
		return
	}

	var err error
	switch env.Action {
	case ws.ActionPing:
		client.Send(ws.PongResponse{Event: ws.EventPong})
		return

	case ws.ActionDraft:
		var req ws.DraftRequest
		if !decodeAction(client, data, &req) {
			return
		}
		err = h.countdown.UpdateDraft(candidateID, req.Answer)

	case ws.ActionSubmit:
		var req ws.SubmitRequest
		if !decodeAction(client, data, &req) {
			return
		}
		var questionID *uuid.UUID
		if req.QuestionID != "" {
			id := uuid.MustParse(req.QuestionID) // validated by the uuid tag
			questionID = &id
		}
		_, err = h.countdown.Submit(ctx, candidateID, questionID, req.Answer)

	case ws.ActionPause:
		err = h.countdown.Pause(ctx, candidateID)

	case ws.ActionResume:
		err = h.countdown.Resume(ctx, candidateID)

	default:
		wsLog.Warn().Str("action", string(env.Action)).Msg("Unknown action")
		sendCode(client, response.ErrInvalidPayload, map[string]string{"action": "unknown action: " + string(env.Action)})
		return
	}

	if err != nil {
		wsLog.Debug().Err(err).Str("action", string(env.Action)).Msg("Action rejected")
		_, code := errorStatus(err)
		sendCode(client, code, nil)
		return
	}
	client.Send(ws.AckResponse{Event: ws.EventAck, Action: env.Action})
}

// decodeAction parses and validates an action payload, replying with an error
// when it is malformed.
func decodeAction(client *ws.Client, data []byte, dst interface{}) bool {
	if err := json.Unmarshal(data, dst); err != nil {
		sendCode(client, response.ErrInvalidPayload, nil)
		return false
	}
	if fields := validator.Struct(dst); fields != nil {
		sendCode(client, response.ErrValidation, fields)
		return false
	}
	return true
}

func sendCode(client *ws.Client, code response.ErrCode, fields map[string]string) {
	client.Send(ws.ErrorResponse{
		Event:  ws.EventError,
		Code:   string(code),
		Error:  response.GetMessage(code),
		Fields: fields,
	})
}
