package meta

import "strings"

// Doc is documentation split into a summary and the remaining detail.
type Doc struct {
	Summary string
	Detail  string
}

// SplitDoc trims every line of text and splits it at the first blank line.
// The first paragraph becomes a one-line summary; Detail is empty when text
// has no blank line.
func SplitDoc(text string) Doc {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	joined := strings.TrimSpace(strings.Join(lines, "\n"))

	summary, detail, _ := strings.Cut(joined, "\n\n")
	return Doc{
		Summary: strings.ReplaceAll(summary, "\n", " "),
		Detail:  strings.TrimSpace(detail),
	}
}

// Full returns the summary and detail joined by a blank line.
func (d Doc) Full() string {
	if d.Detail == "" {
		return d.Summary
	}
	return d.Summary + "\n\n" + d.Detail
}
