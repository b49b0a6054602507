package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stemsi/interview-assistant/internal/report"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
)

const latestSession = "latest"

// ReportHandler handles result export and email delivery.
type ReportHandler struct {
	reportService *service.ReportService
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportService *service.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// GetReport godoc
// GET /api/v1/candidates/:candidate_id/reports/:session_id?format=
// Returns the report of a completed session; session_id may be "latest".
// With a format (text or json) the report is sent as a file download.
func (h *ReportHandler) GetReport(c *gin.Context) {
	candidateID, sessionID, ok := reportParams(c)
	if !ok {
		return
	}

	r, err := h.reportService.Build(candidateID, sessionID)
	if err != nil {
		failWith(c, err)
		return
	}

	raw, wantsFile := c.GetQuery("format")
	if !wantsFile {
		response.Success(c, http.StatusOK, gin.H{"report": r})
		return
	}

	format, err := report.ParseFormat(raw)
	if err != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, map[string]string{
			"format": "format must be one of [text json]",
		})
		return
	}
	body, contentType, err := r.Render(format)
	if err != nil {
		failWith(c, err)
		return
	}

	ext := "txt"
	if format == report.FormatJSON {
		ext = "json"
	}
	filename := fmt.Sprintf("interview-%s.%s", r.SessionID, ext)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, contentType, body)
}

// EmailReport godoc
// POST /api/v1/candidates/:candidate_id/reports/:session_id/email
// Emails the report to the candidate. Interview state is never touched.
func (h *ReportHandler) EmailReport(c *gin.Context) {
	candidateID, sessionID, ok := reportParams(c)
	if !ok {
		return
	}

	r, err := h.reportService.Email(c.Request.Context(), candidateID, sessionID)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"message":    "report sent",
		"recipient":  r.CandidateEmail,
		"session_id": r.SessionID,
	})
}

// reportParams parses the candidate and session path parameters. A nil
// session id means the latest completed session.
func reportParams(c *gin.Context) (uuid.UUID, *uuid.UUID, bool) {
	candidateID, ok := candidateIDParam(c)
	if !ok {
		return uuid.Nil, nil, false
	}

	raw := c.Param("session_id")
	if raw == latestSession {
		return candidateID, nil, true
	}
	sessionID, err := uuid.Parse(raw)
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, nil, false
	}
	return candidateID, &sessionID, true
}
