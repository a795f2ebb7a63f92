package parser

import (
	"fmt"
	"strings"
)

// delimiter is the fixed three-character front-matter marker. It is not
// configurable.
const delimiter = "---"

// FormatError reports a document that does not split into exactly three
// segments around the front-matter delimiters.
type FormatError struct {
	Segments int
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("parser: document must contain exactly two %s delimiters (split into %d segments, want 3)", delimiter, e.Segments)
}

// Split separates raw document text into front-matter and body. The document
// must contain exactly two delimiter occurrences; the segment before the
// first one is discarded.
func Split(raw string) (front, body string, err error) {
	parts := strings.Split(raw, delimiter)
	if len(parts) != 3 {
		return "", "", &FormatError{Segments: len(parts)}
	}
	return parts[1], parts[2], nil
}
