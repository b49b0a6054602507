package websocket

// ─── Actions (Client → Server) ──────────────────────────────────────

type Action string

const (
	ActionDraft  Action = "draft"
	ActionSubmit Action = "submit"
	ActionPause  Action = "pause"
	ActionResume Action = "resume"
	ActionPing   Action = "ping"
)

// RequestEnvelope is used to peek at the action before full parsing.
type RequestEnvelope struct {
	Action Action `json:"action"`
}

// DraftRequest autosaves the answer being typed. The draft is what gets
// submitted when the countdown runs out.
type DraftRequest struct {
	Action Action `json:"action"`
	Answer string `json:"answer" binding:"max=10000"`
}

// SubmitRequest submits the answer to the current question. QuestionID, when
// set, must match the question on screen.
type SubmitRequest struct {
	Action     Action `json:"action"`
	QuestionID string `json:"question_id" binding:"omitempty,uuid"`
	Answer     string `json:"answer" binding:"max=10000"`
}

// ─── Events (Server → Client) ───────────────────────────────────────

type Event string

const (
	EventError Event = "error"
	EventAck   Event = "ack"
	EventPong  Event = "pong"
	EventState Event = "state"
)

// StreamEvent carries a countdown or session event. Event mirrors the
// countdown event type (question, tick, submitted, completed, paused,
// resumed, expired) or EventState for the snapshot sent on connect.
type StreamEvent struct {
	Event Event       `json:"event"`
	Data  interface{} `json:"data"`
}

type AckResponse struct {
	Event  Event  `json:"event"`
	Action Action `json:"action"`
}

type ErrorResponse struct {
	Event  Event             `json:"event"`
	Code   string            `json:"code,omitempty"`
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

type PongResponse struct {
	Event Event `json:"event"`
}
