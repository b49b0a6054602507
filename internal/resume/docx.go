package resume

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxBody = "word/document.xml"

// Caps on the decompressed document part and on the text taken out of it. A
// small upload can inflate far past the upload limit.
var (
	maxDocumentXML int64 = 32 << 20
	maxDocxText          = 1 << 20
)

// docxText reads the main document part of a DOCX file and returns its text,
// one line per paragraph.
func docxText(data []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBody {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%w: missing %s", ErrCorruptFile, docxBody)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}
	defer rc.Close()

	if body.UncompressedSize64 > uint64(maxDocumentXML) {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrCorruptFile, docxBody, maxDocumentXML)
	}
	lr := &io.LimitedReader{R: rc, N: maxDocumentXML + 1}

	var b strings.Builder
	dec := xml.NewDecoder(lr)
	inText := false
	for {
		tok, err := dec.Token()
		if lr.N == 0 {
			return "", fmt.Errorf("%w: %s exceeds %d bytes", ErrCorruptFile, docxBody, maxDocumentXML)
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
		}
		if b.Len() > maxDocxText {
			return "", fmt.Errorf("%w: text exceeds %d bytes", ErrCorruptFile, maxDocxText)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				b.WriteByte('\t')
			case "br", "cr":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				b.Write(t)
			}
		}
	}
	return b.String(), nil
}
