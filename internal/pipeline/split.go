package pipeline

import "strings"

// defaultTitle is used when the extraction's first line is empty.
const defaultTitle = "Untitled"

// SplitTitleBody splits extracted essay text into a title (the first line,
// trimmed) and a body (everything after, trimmed). A single-line extraction
// yields an empty body.
func SplitTitleBody(text string) (title, body string) {
	parts := strings.SplitN(text, "\n", 2)

	title = strings.TrimSpace(parts[0])
	if title == "" {
		title = defaultTitle
	}
	if len(parts) > 1 {
		body = strings.TrimSpace(parts[1])
	}
	return title, body
}
