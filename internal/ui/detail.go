package ui

import (
	"regexp"
	"strings"

	"charm.land/lipgloss/v2"
	runewidth "github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/refx/pkg/reference"
)

var mdInlineRe = regexp.MustCompile("`([^`]+)`|\\*\\*(.+?)\\*\\*")

type spanKind int

const (
	spanText spanKind = iota
	spanCode
	spanBold
)

type span struct {
	text string
	kind spanKind
}

// parseInline splits a line into plain, `code` and **bold** spans.
func parseInline(s string) []span {
	var out []span
	last := 0
	for _, m := range mdInlineRe.FindAllStringSubmatchIndex(s, -1) {
		if m[0] > last {
			out = append(out, span{text: s[last:m[0]]})
		}
		switch {
		case m[2] >= 0:
			out = append(out, span{text: s[m[2]:m[3]], kind: spanCode})
		case m[4] >= 0:
			out = append(out, span{text: s[m[4]:m[5]], kind: spanBold})
		}
		last = m[1]
	}
	if last < len(s) {
		out = append(out, span{text: s[last:]})
	}
	return out
}

// wrapSpans word-wraps spans to width display cells. Words longer than
// width are hard-broken.
func wrapSpans(spans []span, width int) [][]span {
	if width < 1 {
		width = 1
	}
	var lines [][]span
	var cur []span
	used := 0
	flush := func() {
		lines = append(lines, mergeSpans(cur))
		cur, used = nil, 0
	}
	for _, sp := range spans {
		for _, word := range strings.Fields(sp.text) {
			for runewidth.StringWidth(word) > width {
				if used > 0 {
					flush()
				}
				head := runewidth.Truncate(word, width, "")
				if head == "" {
					head = string([]rune(word)[:1])
				}
				cur = append(cur, span{text: head, kind: sp.kind})
				flush()
				word = strings.TrimPrefix(word, head)
			}
			w := runewidth.StringWidth(word)
			if w == 0 {
				continue
			}
			if used > 0 && used+1+w > width {
				flush()
			}
			if used > 0 {
				cur = append(cur, span{text: " "})
				used++
			}
			cur = append(cur, span{text: word, kind: sp.kind})
			used += w
		}
	}
	if used > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// mergeSpans joins neighbouring spans of the same kind, treating a single
// space between two same-kind spans as part of them, so multi-word search
// terms can be highlighted.
func mergeSpans(in []span) []span {
	var out []span
	for i := 0; i < len(in); i++ {
		sp := in[i]
		if sp.text == " " && len(out) > 0 && i+1 < len(in) && in[i+1].kind == out[len(out)-1].kind {
			out[len(out)-1].text += " " + in[i+1].text
			i++
			continue
		}
		if len(out) > 0 && out[len(out)-1].kind == sp.kind {
			out[len(out)-1].text += sp.text
			continue
		}
		out = append(out, sp)
	}
	return out
}

// renderTips renders tips as wrapped lines with inline Markdown styling and
// search highlighting. Blank lines in tips separate paragraphs.
func renderTips(tips, search string, width int, st styles) []string {
	tips = strings.TrimSpace(strings.ReplaceAll(tips, "\r\n", "\n"))
	if tips == "" {
		return []string{st.muted.Render("No tips.")}
	}
	var out []string
	for _, para := range strings.Split(tips, "\n") {
		if strings.TrimSpace(para) == "" {
			out = append(out, "")
			continue
		}
		for _, line := range wrapSpans(parseInline(para), width) {
			var b strings.Builder
			for _, sp := range line {
				b.WriteString(highlightText(sp.text, search, spanStyle(sp.kind, st), st))
			}
			out = append(out, b.String())
		}
	}
	return out
}

func spanStyle(k spanKind, st styles) lipgloss.Style {
	switch k {
	case spanCode:
		return st.code
	case spanBold:
		return st.bold
	default:
		return st.text
	}
}

// highlightText renders matches of search in the highlight style and the
// rest in base.
func highlightText(text, search string, base lipgloss.Style, st styles) string {
	hl := st.highlight
	return reference.HighlightFunc(text, search,
		func(s string) string { return base.Render(s) },
		func(s string) string { return hl.Render(s) })
}

// detailLines builds the expanded view of a record: its tips, then the docs
// link.
func detailLines(r reference.Record, search string, width int, st styles) []string {
	lines := renderTips(r.Tips, search, width, st)
	if docs := strings.TrimSpace(r.Docs); docs != "" {
		lines = append(lines, st.label.Render("docs: ")+st.muted.Render(runewidth.Truncate(docs, width-6, "…")))
	}
	return lines
}
