package formatter

import (
	"strings"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// listFields are printed under each record name, in order.
var listFields = []string{
	reference.FieldCategory,
	reference.FieldExample,
	reference.FieldPurpose,
	reference.FieldTips,
	reference.FieldDocs,
}

// RenderList renders one block per record: the name, then every field as
// an indented "key: value" line. Multi-line values continue aligned under
// the first line.
func RenderList(records []reference.Record, opts Options) string {
	if len(records) == 0 {
		return NoResults + "\n"
	}
	labelWidth := 0
	for _, f := range listFields {
		if len(f) > labelWidth {
			labelWidth = len(f)
		}
	}

	var b strings.Builder
	for i, r := range records {
		if i > 0 {
			b.WriteString("\n")
		}
		name := r.Name()
		if opts.NoColor {
			b.WriteString(name)
		} else {
			b.WriteString(highlight(name, opts.Search, headerStyle, false))
		}
		b.WriteString("\n")

		for _, f := range listFields {
			label := padRight(f+":", labelWidth+1)
			if !opts.NoColor {
				label = keyStyle.Render(label)
			}
			indent := strings.Repeat(" ", labelWidth+4)
			lines := strings.Split(strings.ReplaceAll(r.Get(f), "\r\n", "\n"), "\n")
			for j, line := range lines {
				if j == 0 {
					b.WriteString("  " + label + " ")
				} else {
					b.WriteString(indent)
				}
				if f == reference.FieldCategory || f == reference.FieldDocs {
					if !opts.NoColor {
						line = valueStyle.Render(line)
					}
				} else {
					line = highlight(line, opts.Search, valueStyle, opts.NoColor)
				}
				b.WriteString(line)
				b.WriteString("\n")
			}
		}
	}
	return b.String()
}
