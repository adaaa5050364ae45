// Package manuscript converts uploaded documents into the normalized text
// stream the scoring pipeline works on.
package manuscript

import (
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Format identifies a supported manuscript document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
)

var (
	// ErrUnsupportedFormat indicates the declared format is not recognized.
	ErrUnsupportedFormat = errors.New("unsupported manuscript format")
	// ErrExtractionFailure indicates the document could not be read or
	// produced too little text to evaluate.
	ErrExtractionFailure = errors.New("manuscript text extraction failed")
)

// minTextChars is the smallest extraction considered evaluable. Shorter
// documents are rejected rather than scored against near-empty input.
const minTextChars = 50

// Text is the normalized, immutable text of one manuscript.
type Text struct {
	Content   string
	CharCount int
}

// ParseFormat converts a string form ("pdf", "docx") into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatPDF:
		return FormatPDF, nil
	case FormatDOCX:
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat infers the format from a filename extension.
func DetectFormat(filename string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".pdf":
		return FormatPDF, nil
	case ".docx":
		return FormatDOCX, nil
	default:
		return "", fmt.Errorf("%w: extension %q", ErrUnsupportedFormat, ext)
	}
}

// Extract converts a raw document buffer into manuscript Text.
func Extract(data []byte, format Format) (*Text, error) {
	var (
		raw string
		err error
	)
	switch format {
	case FormatPDF:
		raw, err = extractPDF(data)
	case FormatDOCX:
		raw, err = extractDOCX(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	content := normalizeText(raw)
	n := utf8.RuneCountInString(content)
	if n < minTextChars {
		return nil, fmt.Errorf("%w: only %d extractable characters, need at least %d",
			ErrExtractionFailure, n, minTextChars)
	}

	return &Text{Content: content, CharCount: n}, nil
}

var blankRuns = regexp.MustCompile(`\n{3,}`)

// normalizeText collapses runs of blank lines and trims trailing whitespace
// per line. Paragraph order is preserved exactly as encountered.
func normalizeText(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	s = strings.Join(lines, "\n")

	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
