package resume

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDOCX(t *testing.T, paragraphs ...string) []byte {
	t.Helper()

	var body strings.Builder
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`)
	body.WriteString(`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(p)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	f, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(body.String()))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtract(t *testing.T) {
	text := "John Smith\nSoftware Engineer\njohn.smith@example.com\n(555) 123-4567\n"
	p := Extract(text)

	require.NotNil(t, p.Name)
	assert.Equal(t, "John Smith", *p.Name)
	require.NotNil(t, p.Email)
	assert.Equal(t, "john.smith@example.com", *p.Email)
	require.NotNil(t, p.Phone)
	assert.Equal(t, "(555) 123-4567", *p.Phone)
	assert.Equal(t, text, p.RawText)
}

func TestExtractSkipsHeadersAndContactLines(t *testing.T) {
	p := Extract("My Resume\n  \nEmail Me Today\njane@doe.io\nJANE DOE\n")
	require.NotNil(t, p.Name)
	assert.Equal(t, "JANE DOE", *p.Name)
}

func TestExtractNameHeuristicLimits(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"lowercase", "john smith\n"},
		{"single word", "John\n"},
		{"too many words", "John Jacob Jingleheimer Schmidt Junior\n"},
		{"beyond first five lines", "one\ntwo\nthree\nfour\nfive\nJohn Smith\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Nil(t, Extract(tt.text).Name)
		})
	}
}

func TestExtractNothing(t *testing.T) {
	p := Extract("")
	assert.Nil(t, p.Name)
	assert.Nil(t, p.Email)
	assert.Nil(t, p.Phone)
}

func TestDetectFormat(t *testing.T) {
	f, err := DetectFormat("CV.PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)

	f, err = DetectFormat("resume.docx")
	require.NoError(t, err)
	assert.Equal(t, FormatDOCX, f)

	_, err = DetectFormat("resume.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	_, err = DetectFormat("resume")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseDOCX(t *testing.T) {
	data := buildDOCX(t, "A B", "a@b.com", "555-123-4567")

	p, err := Parse("resume.docx", data)
	require.NoError(t, err)
	assert.Equal(t, "A B\na@b.com\n555-123-4567\n", p.RawText)
	require.NotNil(t, p.Name)
	assert.Equal(t, "A B", *p.Name)
	require.NotNil(t, p.Email)
	assert.Equal(t, "a@b.com", *p.Email)
	require.NotNil(t, p.Phone)
	assert.Equal(t, "555-123-4567", *p.Phone)
}

func TestParseCorruptFiles(t *testing.T) {
	_, err := Parse("resume.docx", []byte("definitely not a zip"))
	assert.ErrorIs(t, err, ErrCorruptFile)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	_, err = zw.Create("word/styles.xml")
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	_, err = Parse("resume.docx", buf.Bytes())
	assert.ErrorIs(t, err, ErrCorruptFile)

	_, err = Parse("resume.pdf", []byte("%PDF-1.4 garbage"))
	assert.ErrorIs(t, err, ErrCorruptFile)
}

func TestParseDOCXSizeCaps(t *testing.T) {
	prevXML, prevText := maxDocumentXML, maxDocxText
	t.Cleanup(func() { maxDocumentXML, maxDocxText = prevXML, prevText })

	data := buildDOCX(t, strings.Repeat("lorem ipsum ", 200))

	maxDocumentXML = 512
	_, err := Parse("resume.docx", data)
	assert.ErrorIs(t, err, ErrCorruptFile)

	maxDocumentXML, maxDocxText = prevXML, 100
	_, err = Parse("resume.docx", data)
	assert.ErrorIs(t, err, ErrCorruptFile)

	maxDocxText = prevText
	p, err := Parse("resume.docx", data)
	require.NoError(t, err)
	assert.Len(t, p.RawText, 200*len("lorem ipsum ")+1)
}

func TestParseUnsupported(t *testing.T) {
	_, err := Parse("resume.rtf", []byte("{\\rtf1}"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
