package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/interview-assistant/internal/response"
	"github.com/stemsi/interview-assistant/internal/service"
)

// ResumeHandler handles résumé uploads.
type ResumeHandler struct {
	resumeService *service.ResumeService
}

// NewResumeHandler creates a new ResumeHandler.
func NewResumeHandler(resumeService *service.ResumeService) *ResumeHandler {
	return &ResumeHandler{resumeService: resumeService}
}

// ParseResume godoc
// POST /api/v1/resumes/parse
// Extracts the text and any name, email and phone from a PDF or DOCX upload.
// The file is not stored.
func (h *ResumeHandler) ParseResume(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrFileRequired)
		return
	}
	defer file.Close()

	parsed, err := h.resumeService.ParseUpload(file, header)
	if err != nil {
		failWith(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"name":     parsed.Name,
		"email":    parsed.Email,
		"phone":    parsed.Phone,
		"raw_text": parsed.RawText,
	})
}
