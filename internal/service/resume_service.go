package service

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"

	"github.com/rs/zerolog"
	"github.com/stemsi/interview-assistant/internal/config"
	"github.com/stemsi/interview-assistant/internal/resume"
)

var ErrFileTooLarge = errors.New("file too large")

// ResumeService handles résumé uploads.
type ResumeService struct {
	cfg *config.Config
	log zerolog.Logger
}

// NewResumeService creates a new ResumeService.
func NewResumeService(cfg *config.Config, log zerolog.Logger) *ResumeService {
	return &ResumeService{
		cfg: cfg,
		log: log.With().Str("component", "resume_service").Logger(),
	}
}

// ParseUpload validates an uploaded résumé and extracts its text and contact
// details. Nothing is stored.
func (s *ResumeService) ParseUpload(file multipart.File, header *multipart.FileHeader) (*resume.Parsed, error) {
	if _, err := resume.DetectFormat(header.Filename); err != nil {
		return nil, fmt.Errorf("%w: %s", err, header.Filename)
	}
	if header.Size > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: %d bytes (max: %d)", ErrFileTooLarge, header.Size, s.cfg.MaxUploadBytes)
	}

	// The header size comes from the client; cap what is actually read.
	data, err := io.ReadAll(io.LimitReader(file, s.cfg.MaxUploadBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, s.cfg.MaxUploadBytes)
	}

	parsed, err := resume.Parse(header.Filename, data)
	if err != nil {
		s.log.Warn().Err(err).Str("filename", header.Filename).Msg("Resume parse failed")
		return nil, err
	}

	s.log.Info().
		Str("filename", header.Filename).
		Int("bytes", len(data)).
		Bool("name", parsed.Name != nil).
		Bool("email", parsed.Email != nil).
		Bool("phone", parsed.Phone != nil).
		Msg("Resume parsed")
	return parsed, nil
}
