// Package resume pulls plain text and contact details out of uploaded résumés.
package resume

import (
	"errors"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file format, upload a PDF or DOCX file")
	ErrCorruptFile       = errors.New("failed to parse resume, the file may be corrupted")
)

// Format is a supported résumé container.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

// Parsed holds what could be extracted from a résumé. Fields that could not be
// found are nil.
type Parsed struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	RawText string  `json:"raw_text"`
}

// DetectFormat picks the format from the file extension.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), ".")) {
	case "pdf":
		return FormatPDF, nil
	case "docx":
		return FormatDOCX, nil
	default:
		return "", ErrUnsupportedFormat
	}
}

// Parse extracts text from a PDF or DOCX file and scans it for contact
// details.
func Parse(filename string, data []byte) (*Parsed, error) {
	format, err := DetectFormat(filename)
	if err != nil {
		return nil, err
	}

	var text string
	switch format {
	case FormatPDF:
		text, err = pdfText(data)
	case FormatDOCX:
		text, err = docxText(data)
	}
	if err != nil {
		return nil, err
	}
	return Extract(text), nil
}

var (
	emailRe    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	phoneRe    = regexp.MustCompile(`(\+?1[-.\s]?)?\(?([0-9]{3})\)?[-.\s]?([0-9]{3})[-.\s]?([0-9]{4})`)
	nameWordRe = regexp.MustCompile(`^(?:[A-Z][a-z]*|[A-Z]+)$`)
)

// Lines mentioning these are headers or contact info, never a name.
var nameStopWords = []string{"email", "phone", "resume", "cv"}

const nameSearchLines = 5

// Extract finds the first email and phone number in text, and guesses the
// name from the first few non-empty lines: a line of 2 to 4 capitalized words
// that is not contact info.
func Extract(text string) *Parsed {
	p := &Parsed{RawText: text}

	if m := emailRe.FindString(text); m != "" {
		p.Email = &m
	}
	if m := phoneRe.FindString(text); m != "" {
		p.Phone = &m
	}

	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}

	for i := 0; i < min(nameSearchLines, len(lines)); i++ {
		line := lines[i]
		if looksLikeContact(line) {
			continue
		}
		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		capitalized := true
		for _, w := range words {
			if !nameWordRe.MatchString(w) {
				capitalized = false
				break
			}
		}
		if capitalized {
			name := line
			p.Name = &name
			break
		}
	}
	return p
}

func looksLikeContact(line string) bool {
	lower := strings.ToLower(line)
	for _, w := range nameStopWords {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return emailRe.MatchString(line) || phoneRe.MatchString(line)
}
