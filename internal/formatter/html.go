package formatter

import (
	"fmt"
	"html"
	"html/template"
	"io"
	"regexp"
	"strings"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"github.com/oakwood-commons/refx/pkg/reference"
)

var tagRe = regexp.MustCompile(`<[^>]*>`)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: system-ui, sans-serif; margin: 2rem; }
table { border-collapse: collapse; width: 100%; }
th, td { border: 1px solid #ccc; padding: 6px 10px; text-align: left; vertical-align: top; }
th { background: #2d2d2d; color: #fff; }
tr.tips td { background: #f7f7f7; }
mark.highlight { background: #ffd54f; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<table>
<thead>
<tr><th>Element</th><th>Category</th><th>Example</th><th>Purpose</th><th>Tips</th><th>Docs</th></tr>
</thead>
<tbody>
{{- range .Rows}}
<tr>
<td data-label="Element">{{.Name}}</td>
<td data-label="Category">{{.Category}}</td>
<td data-label="Example"><code>{{.Example}}</code></td>
<td data-label="Purpose">{{.Purpose}}</td>
<td data-label="Tips">See below</td>
<td data-label="Docs">{{if .Docs}}<a href="{{.Docs}}" target="_blank" rel="noopener">Docs</a>{{end}}</td>
</tr>
<tr class="tips"><td colspan="6">{{.Tips}}</td></tr>
{{- else}}
<tr><td colspan="6" style="text-align:center; padding: 20px;">No results found.</td></tr>
{{- end}}
</tbody>
</table>
</body>
</html>
`))

type htmlPage struct {
	Title string
	Rows  []htmlRow
}

type htmlRow struct {
	Name     template.HTML
	Category string
	Example  template.HTML
	Purpose  template.HTML
	Tips     template.HTML
	Docs     string
}

// WriteHTML writes a standalone page with one table row per record and its
// tips, rendered from Markdown, in a row beneath. Every value is escaped and
// search matches are wrapped in <mark class="highlight">.
func WriteHTML(w io.Writer, records []reference.Record, opts Options) error {
	title := opts.Title
	if title == "" {
		title = "Reference"
	}
	page := htmlPage{Title: title, Rows: make([]htmlRow, 0, len(records))}
	for _, r := range records {
		page.Rows = append(page.Rows, htmlRow{
			Name:     markText(r.Name(), opts.Search),
			Category: r.Category,
			Example:  markText(r.Example, opts.Search),
			Purpose:  markText(r.Purpose, opts.Search),
			Tips:     markRendered(renderMarkdown(r.Tips), opts.Search),
			Docs:     r.Docs,
		})
	}
	if err := pageTemplate.Execute(w, page); err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return nil
}

// markText escapes text and wraps search matches in <mark>.
func markText(text, search string) template.HTML {
	//nolint:gosec // every segment is escaped before it is marked
	return template.HTML(reference.HighlightFunc(text, search, template.HTMLEscapeString, func(s string) string {
		return `<mark class="highlight">` + template.HTMLEscapeString(s) + `</mark>`
	}))
}

// renderMarkdown converts tips to HTML. Raw HTML in the source is dropped
// and links open in a new tab.
func renderMarkdown(src string) string {
	if strings.TrimSpace(src) == "" {
		return ""
	}
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.NoEmptyLineBeforeBlock)
	doc := p.Parse([]byte(src))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.HrefTargetBlank | mdhtml.SkipHTML,
	})
	return strings.TrimSpace(string(markdown.Render(doc, renderer)))
}

// markRendered highlights search matches in the text nodes of an HTML
// fragment, leaving tags untouched.
func markRendered(fragment, search string) template.HTML {
	if reference.NormalizeTerm(search) == "" {
		//nolint:gosec // produced by the markdown renderer with raw HTML skipped
		return template.HTML(fragment)
	}
	var b strings.Builder
	last := 0
	for _, loc := range tagRe.FindAllStringIndex(fragment, -1) {
		b.WriteString(string(markText(html.UnescapeString(fragment[last:loc[0]]), search)))
		b.WriteString(fragment[loc[0]:loc[1]])
		last = loc[1]
	}
	b.WriteString(string(markText(html.UnescapeString(fragment[last:]), search)))
	//nolint:gosec // text nodes are re-escaped by markText
	return template.HTML(b.String())
}
