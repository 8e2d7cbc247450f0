package reference

import (
	"regexp"
	"strings"
)

// Segment is a slice of text that either matched the search term or not.
type Segment struct {
	Text  string
	Match bool
}

// Highlight splits text around case-insensitive, literal occurrences of the
// trimmed search term. An empty term yields a single plain segment.
func Highlight(text, search string) []Segment {
	term := strings.TrimSpace(search)
	if term == "" || text == "" {
		return []Segment{{Text: text}}
	}
	re, err := regexp.Compile("(?i)" + regexp.QuoteMeta(term))
	if err != nil {
		return []Segment{{Text: text}}
	}
	locs := re.FindAllStringIndex(text, -1)
	if len(locs) == 0 {
		return []Segment{{Text: text}}
	}
	segs := make([]Segment, 0, len(locs)*2+1)
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			segs = append(segs, Segment{Text: text[last:loc[0]]})
		}
		segs = append(segs, Segment{Text: text[loc[0]:loc[1]], Match: true})
		last = loc[1]
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}

// RenderSegments joins segments, passing matched text through mark and plain
// text through plain. A nil func leaves text unchanged.
func RenderSegments(segs []Segment, plain, mark func(string) string) string {
	var b strings.Builder
	for _, s := range segs {
		switch {
		case s.Match && mark != nil:
			b.WriteString(mark(s.Text))
		case !s.Match && plain != nil:
			b.WriteString(plain(s.Text))
		default:
			b.WriteString(s.Text)
		}
	}
	return b.String()
}

// HighlightFunc is a convenience wrapper around Highlight and RenderSegments.
func HighlightFunc(text, search string, plain, mark func(string) string) string {
	return RenderSegments(Highlight(text, search), plain, mark)
}
