package handler

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/bank"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/middleware"
	"github.com/stemsi/interview-assistant/internal/model"
	"github.com/stemsi/interview-assistant/internal/report"
	"github.com/stemsi/interview-assistant/internal/repository"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/scoring"
	"github.com/stemsi/interview-assistant/internal/service"
	"github.com/stemsi/interview-assistant/internal/validator"
	ws "github.com/stemsi/interview-assistant/internal/websocket"
	"github.com/stemsi/interview-assistant/internal/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	validator.Setup()
}

type failingMailer struct{}

func (failingMailer) Send(context.Context, report.Message) error {
	return errors.New("smtp: connection refused")
}

type testAPI struct {
	engine    *gin.Engine
	svc       *service.InterviewService
	countdown *worker.CountdownWorker
	tokens    *service.TokenService
	hub       *ws.Hub
}

// newTestAPI wires the full handler set over a file store. The countdown
// ticks once an hour and submits without delay, so tests drive it directly.
func newTestAPI(t *testing.T, mailer report.Mailer) *testAPI {
	t.Helper()
	log := zerolog.Nop()
	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiry:      time.Hour,
		MaxUploadBytes: 1024 * 1024,
	}

	store := repository.NewFileSnapshotStore(t.TempDir(), "test")
	svc := service.NewInterviewService(bank.Default(), scoring.Fixed(80), store, log)
	svc.Load(context.Background())

	countdown := worker.NewCountdownWorker(svc, time.Hour, -1, log)
	t.Cleanup(countdown.Stop)
	hub := ws.NewHub(log)
	tokens := service.NewTokenService(cfg)
	dashboard := service.NewDashboardService(svc)

	app := NewAppHandler(svc)
	candidates := NewCandidateHandler(svc, dashboard, tokens)
	interview := NewInterviewHandler(svc, countdown, log)
	reports := NewReportHandler(service.NewReportService(svc, mailer, log))
	resumes := NewResumeHandler(service.NewResumeService(cfg, log))
	analytics := NewDashboardHandler(dashboard)
	system := NewSystemHandler(nil, hub, config.StoreDriverFile, log)
	stream := NewWSHandler(svc, countdown, hub, log, nil)
	countdown.Subscribe(stream.Relay)

	r := gin.New()
	r.Use(response.RequestIDMiddleware(log))
	api := r.Group("/api/v1")
	api.GET("/state", app.GetState)
	api.PUT("/state/tab", app.SetTab)
	api.PUT("/state/selection", app.SelectCandidate)
	api.DELETE("/state/welcome-back", app.DismissWelcomeBack)
	api.GET("/sessions/resumable", app.ListResumable)
	api.GET("/candidates", candidates.ListCandidates)
	api.POST("/candidates", candidates.CreateCandidate)
	api.GET("/candidates/:candidate_id", candidates.GetCandidate)
	api.PATCH("/candidates/:candidate_id", candidates.UpdateCandidate)
	api.POST("/candidates/:candidate_id/token", candidates.IssueToken)
	api.POST("/candidates/:candidate_id/interview", interview.StartInterview)
	api.GET("/candidates/:candidate_id/interview", interview.GetCurrent)
	api.DELETE("/candidates/:candidate_id/interview", interview.ResetInterview)
	api.POST("/candidates/:candidate_id/interview/answers", interview.SubmitAnswer)
	api.PUT("/candidates/:candidate_id/interview/draft", interview.SaveDraft)
	api.POST("/candidates/:candidate_id/interview/pause", interview.PauseInterview)
	api.POST("/candidates/:candidate_id/interview/resume", interview.ResumeInterview)
	api.GET("/candidates/:candidate_id/reports/:session_id", reports.GetReport)
	api.POST("/candidates/:candidate_id/reports/:session_id/email", reports.EmailReport)
	api.POST("/resumes/parse", resumes.ParseResume)
	api.GET("/analytics", analytics.GetDashboardData)
	api.GET("/system/status", system.GetStatus)
	r.GET("/ws/v1/interviews/:candidate_id/stream", middleware.RequireCandidateToken(tokens), stream.InterviewStream)

	return &testAPI{engine: r, svc: svc, countdown: countdown, tokens: tokens, hub: hub}
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code   response.ErrCode  `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
	Metadata struct {
		RequestID string `json:"request_id"`
		Count     *int   `json:"count"`
	} `json:"metadata"`
}

func (a *testAPI) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	if ct := w.Header().Get("Content-Type"); len(ct) >= 16 && ct[:16] == "application/json" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func errCode(env envelope) response.ErrCode {
	if env.Error == nil {
		return ""
	}
	return env.Error.Code
}

func (a *testAPI) createCandidate(t *testing.T, req model.CreateCandidateRequest) model.Candidate {
	t.Helper()
	w, env := a.do(t, http.MethodPost, "/api/v1/candidates", req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var data struct {
		Candidate model.Candidate `json:"candidate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	return data.Candidate
}

func completeProfile() model.CreateCandidateRequest {
	return model.CreateCandidateRequest{Name: "A B", Email: "a@b.com", Phone: "1234567890"}
}

func candidatePath(id uuid.UUID, suffix string) string {
	return "/api/v1/candidates/" + id.String() + suffix
}

func TestCreateCandidateValidation(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))

	w, env := api.do(t, http.MethodPost, "/api/v1/candidates", map[string]string{
		"name":  "A B",
		"email": "not-an-email",
		"phone": "call me",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, errCode(env))
	assert.Contains(t, env.Error.Fields, "email")
	assert.Contains(t, env.Error.Fields, "phone")
	assert.NotEmpty(t, env.Metadata.RequestID)
}

func TestStartRequiresCompleteProfile(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, model.CreateCandidateRequest{Name: "A B"})
	assert.False(t, c.ProfileComplete)

	w, env := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, response.ErrProfileIncomplete, errCode(env))

	got, err := api.svc.Candidate(c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentSession)
}

func TestInvalidCandidateID(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))

	w, env := api.do(t, http.MethodGet, "/api/v1/candidates/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrInvalidID, errCode(env))

	w, env = api.do(t, http.MethodGet, candidatePath(uuid.New(), ""), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCode(env))
}

func TestUpdateCandidateCompletesProfile(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, model.CreateCandidateRequest{Name: "A B"})

	w, env := api.do(t, http.MethodPatch, candidatePath(c.ID, ""), map[string]string{
		"email": "a@b.com",
		"phone": "1234567890",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var data struct {
		Candidate model.Candidate `json:"candidate"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.True(t, data.Candidate.ProfileComplete)
	assert.Equal(t, "A B", data.Candidate.Name)
}

func TestInterviewFlow(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())

	w, env := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var started struct {
		Session model.InterviewSession `json:"session"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &started))
	assert.Equal(t, model.SessionStatusInProgress, started.Session.Status)
	assert.Len(t, started.Session.Questions, 6)

	w, env = api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrSessionActive, errCode(env))

	w, env = api.do(t, http.MethodGet, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var current struct {
		Current   service.ActiveQuestion `json:"current"`
		Remaining *int                   `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &current))
	assert.Equal(t, 0, current.Current.Index)
	assert.Equal(t, model.DifficultyEasy, current.Current.Question.Difficulty)
	require.NotNil(t, current.Remaining)
	assert.Equal(t, current.Current.Question.TimeLimit, *current.Remaining)

	var last model.InterviewSession
	for i := 0; i < 6; i++ {
		w, env = api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/answers"), map[string]string{"answer": "my answer"})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var data struct {
			Session model.InterviewSession `json:"session"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &data))
		last = data.Session
	}
	assert.Equal(t, model.SessionStatusCompleted, last.Status)
	require.NotNil(t, last.TotalScore)
	assert.InDelta(t, 80, *last.TotalScore, 0.001)

	w, env = api.do(t, http.MethodGet, candidatePath(c.ID, "/interview"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrNoActiveSession, errCode(env))

	w, env = api.do(t, http.MethodGet, "/api/v1/analytics", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var dash service.DashboardData
	require.NoError(t, json.Unmarshal(env.Data, &dash))
	assert.Equal(t, 1, dash.TotalInterviews)
	assert.Equal(t, 0, dash.ActiveSessions)
}

func TestSubmitStaleQuestionRejected(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())
	w, _ := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, env := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/answers"), map[string]string{
		"question_id": uuid.New().String(),
		"answer":      "late",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrQuestionNotCurrent, errCode(env))
}

func TestPauseAndResume(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())
	w, _ := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/pause"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w, env := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/pause"), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrInvalidTransition, errCode(env))

	w, env = api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/answers"), map[string]string{"answer": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrSessionPaused, errCode(env))

	w, env = api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/resume"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var data struct {
		Current service.ActiveQuestion `json:"current"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, model.SessionStatusInProgress, data.Current.Status)
	assert.Equal(t, 0, data.Current.Index)
}

func TestResumeArmsRestoredSession(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())
	_, err := api.svc.StartInterview(context.Background(), c.ID)
	require.NoError(t, err)

	_, armed := api.countdown.Remaining(c.ID)
	require.False(t, armed)

	w, _ := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview/resume"), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	remaining, armed := api.countdown.Remaining(c.ID)
	assert.True(t, armed)
	assert.Equal(t, 20, remaining)
}

func TestDraftAndReset(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())
	w, _ := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w, _ = api.do(t, http.MethodPut, candidatePath(c.ID, "/interview/draft"), map[string]string{"answer": "half an answ"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "half an answ", api.countdown.Draft(c.ID))

	w, _ = api.do(t, http.MethodDelete, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	w, _ = api.do(t, http.MethodDelete, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := api.svc.Candidate(c.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CurrentSession)
	_, armed := api.countdown.Remaining(c.ID)
	assert.False(t, armed)

	w, env := api.do(t, http.MethodPut, candidatePath(c.ID, "/interview/draft"), map[string]string{"answer": "x"})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, response.ErrNoActiveSession, errCode(env))
}

func TestAppState(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())

	w, env := api.do(t, http.MethodPut, "/api/v1/state/tab", map[string]string{"tab": "settings"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, errCode(env))

	w, _ = api.do(t, http.MethodPut, "/api/v1/state/tab", map[string]string{"tab": "interviewer"})
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = api.do(t, http.MethodPut, "/api/v1/state/selection", map[string]interface{}{"candidate_id": nil})
	require.Equal(t, http.StatusOK, w.Code)

	w, env = api.do(t, http.MethodPut, "/api/v1/state/selection", map[string]string{"candidate_id": uuid.New().String()})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCode(env))

	w, env = api.do(t, http.MethodGet, "/api/v1/state", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var state model.AppState
	require.NoError(t, json.Unmarshal(env.Data, &state))
	assert.Equal(t, model.TabInterviewer, state.ActiveTab)
	assert.Nil(t, state.CurrentCandidateID)
	require.Len(t, state.Candidates, 1)
	assert.Equal(t, c.ID, state.Candidates[0].ID)
}

func TestResumableAndWelcomeBack(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())
	w, _ := api.do(t, http.MethodPost, candidatePath(c.ID, "/interview"), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, api.svc.SetWelcomeBack(context.Background(), true))

	w, env := api.do(t, http.MethodGet, "/api/v1/sessions/resumable", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Metadata.Count)
	assert.Equal(t, 1, *env.Metadata.Count)
	var sessions []service.ResumableSession
	require.NoError(t, json.Unmarshal(env.Data, &sessions))
	assert.Equal(t, c.ID, sessions[0].CandidateID)

	w, _ = api.do(t, http.MethodDelete, "/api/v1/state/welcome-back", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, api.svc.State().ShowWelcomeBack)
}

func TestListCandidatesFilters(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	api.createCandidate(t, model.CreateCandidateRequest{Name: "Jane Doe", Email: "jane@example.com"})
	api.createCandidate(t, model.CreateCandidateRequest{Name: "John Roe", Email: "john@example.com"})

	w, env := api.do(t, http.MethodGet, "/api/v1/candidates?q=JANE&sort=name", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []service.CandidateSummary
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Jane Doe", items[0].Name)
}

func completeInterview(t *testing.T, api *testAPI, candidateID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	_, err := api.svc.StartInterview(ctx, candidateID)
	require.NoError(t, err)
	for i := 0; i < 6; i++ {
		_, err := api.countdown.Submit(ctx, candidateID, nil, "answer")
		require.NoError(t, err)
	}
}

func TestReports(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())

	w, env := api.do(t, http.MethodGet, candidatePath(c.ID, "/reports/latest"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNoCompletedSession, errCode(env))

	completeInterview(t, api, c.ID)

	w, env = api.do(t, http.MethodGet, candidatePath(c.ID, "/reports/latest"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var data struct {
		Report report.Report `json:"report"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "A B", data.Report.CandidateName)
	assert.Len(t, data.Report.Items, 6)

	w, _ = api.do(t, http.MethodGet, candidatePath(c.ID, "/reports/latest?format=text"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".txt")
	assert.Contains(t, w.Body.String(), "Interview Results for A B")
	assert.Contains(t, w.Body.String(), "Overall Score: 80/100")

	sessionID := data.Report.SessionID.String()
	w, _ = api.do(t, http.MethodGet, candidatePath(c.ID, "/reports/"+sessionID+"?format=json"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w, env = api.do(t, http.MethodGet, candidatePath(c.ID, "/reports/latest?format=pdf"), nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrValidation, errCode(env))

	w, env = api.do(t, http.MethodGet, candidatePath(c.ID, "/reports/"+uuid.New().String()), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, response.ErrNotFound, errCode(env))

	w, _ = api.do(t, http.MethodPost, candidatePath(c.ID, "/reports/latest/email"), nil)
	assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func TestEmailFailureLeavesStateAlone(t *testing.T) {
	api := newTestAPI(t, failingMailer{})
	c := api.createCandidate(t, completeProfile())
	completeInterview(t, api, c.ID)
	before := api.svc.State()

	w, env := api.do(t, http.MethodPost, candidatePath(c.ID, "/reports/latest/email"), nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Equal(t, response.ErrEmailFailed, errCode(env))
	assert.Equal(t, before, api.svc.State())
}

func upload(t *testing.T, api *testAPI, filename string, data []byte) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = fw.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/resumes/parse", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	api.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w, env
}

func docx(t *testing.T, lines ...string) []byte {
	t.Helper()
	var doc bytes.Buffer
	doc.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	doc.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, l := range lines {
		doc.WriteString(`<w:p><w:r><w:t>` + l + `</w:t></w:r></w:p>`)
	}
	doc.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write(doc.Bytes())
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestParseResume(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))

	w, env := upload(t, api, "cv.docx", docx(t, "Jane Doe", "jane@example.com", "+1 555 123 4567"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var parsed struct {
		Name    *string `json:"name"`
		Email   *string `json:"email"`
		RawText string  `json:"raw_text"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &parsed))
	require.NotNil(t, parsed.Name)
	assert.Equal(t, "Jane Doe", *parsed.Name)
	require.NotNil(t, parsed.Email)
	assert.Equal(t, "jane@example.com", *parsed.Email)
	assert.Contains(t, parsed.RawText, "Jane Doe")

	w, env = upload(t, api, "cv.txt", []byte("plain"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrUnsupportedFile, errCode(env))

	w, env = upload(t, api, "cv.docx", []byte("not a zip"))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, response.ErrCorruptFile, errCode(env))

	w, env = upload(t, api, "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, response.ErrFileRequired, errCode(env))
}

func TestIssueTokenAndSystemStatus(t *testing.T) {
	api := newTestAPI(t, report.NewLogMailer(zerolog.Nop()))
	c := api.createCandidate(t, completeProfile())

	w, env := api.do(t, http.MethodPost, candidatePath(c.ID, "/token"), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tok struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tok))
	claims, err := api.tokens.ValidateToken(tok.Token)
	require.NoError(t, err)
	assert.Equal(t, c.ID, claims.CandidateID)

	w, env = api.do(t, http.MethodPost, candidatePath(uuid.New(), "/token"), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, env = api.do(t, http.MethodGet, "/api/v1/system/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var status systemStatus
	require.NoError(t, json.Unmarshal(env.Data, &status))
	assert.Equal(t, "disabled", status.Redis)
	assert.Equal(t, config.StoreDriverFile, status.StoreDriver)
}

func TestErrorStatusDefaultsToInternal(t *testing.T) {
	status, code := errorStatus(errors.New("boom"))
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, response.ErrInternal, code)

	status, code = errorStatus(service.ErrPersistFailed)
	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, response.ErrPersistFailed, code)
}
