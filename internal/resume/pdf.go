package resume

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// pdfText returns the text of every page, one line per text row. The parser
// panics on some malformed inputs, which is reported as ErrCorruptFile.
func pdfText(data []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("%w: %v", ErrCorruptFile, r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCorruptFile, err)
	}

	var b strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		rows, err := page.GetTextByRow()
		if err != nil {
			return "", fmt.Errorf("%w: page %d: %v", ErrCorruptFile, i, err)
		}
		for _, row := range rows {
			parts := make([]string, 0, len(row.Content))
			for _, t := range row.Content {
				parts = append(parts, t.S)
			}
			b.WriteString(strings.Join(strings.Fields(strings.Join(parts, " ")), " "))
			b.WriteByte('\n')
		}
	}
	return b.String(), nil
}
