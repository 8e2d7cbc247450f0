// Package validate checks reference datasets for required fields.
//
// Every dataset under a root is parsed and every record checked; issues are
// accumulated rather than returned on first failure so a single run reports
// everything that needs fixing.
package validate

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"net/url"
	"path"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/oakwood-commons/refx/pkg/reference"
)

// DatasetGlob matches dataset files relative to a validation root.
const DatasetGlob = "*-reference-helper/*-commands.json"

// Options tunes a validation run.
type Options struct {
	// Strict enables the extra consistency checks: single identity field,
	// absolute http(s) docs URL, unique display names per file.
	Strict bool
}

// Issue is one problem found in a dataset file.
type Issue struct {
	File       string `json:"file" yaml:"file"`
	Index      int    `json:"index" yaml:"index"`
	Identifier string `json:"identifier,omitempty" yaml:"identifier,omitempty"`
	Field      string `json:"field,omitempty" yaml:"field,omitempty"`
	Message    string `json:"message" yaml:"message"`
}

// Location renders the bracketed prefix used in text output.
func (i Issue) Location() string {
	file := path.Base(i.File)
	switch {
	case i.Index < 0:
		return fmt.Sprintf("[%s]", file)
	case i.Identifier != "":
		return fmt.Sprintf("[%s item %q]", file, i.Identifier)
	default:
		return fmt.Sprintf("[%s index %d]", file, i.Index)
	}
}

func (i Issue) String() string {
	return i.Location() + " " + i.Message
}

// FileReport holds the outcome for one dataset file.
type FileReport struct {
	Path    string  `json:"path" yaml:"path"`
	Records int     `json:"records" yaml:"records"`
	Issues  []Issue `json:"issues,omitempty" yaml:"issues,omitempty"`
}

// Report is the outcome of validating a root.
type Report struct {
	Root  string       `json:"root" yaml:"root"`
	Files []FileReport `json:"files" yaml:"files"`
}

// Issues returns every issue across all files in walk order.
func (r Report) Issues() []Issue {
	var out []Issue
	for _, f := range r.Files {
		out = append(out, f.Issues...)
	}
	return out
}

// Failed reports whether any file has an issue.
func (r Report) Failed() bool {
	for _, f := range r.Files {
		if len(f.Issues) > 0 {
			return true
		}
	}
	return false
}

// Validate walks every dataset under fsys and checks each record.
// The returned error is non-nil only when the walk itself fails; dataset
// problems are reported as issues.
func Validate(fsys fs.FS, root string, opts Options) (Report, error) {
	report := Report{Root: root}
	files, err := doublestar.Glob(fsys, DatasetGlob)
	if err != nil {
		return report, fmt.Errorf("discover datasets: %w", err)
	}
	sort.Strings(files)

	for _, name := range files {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			report.Files = append(report.Files, FileReport{
				Path:   name,
				Issues: []Issue{{File: name, Index: -1, Message: fmt.Sprintf("Failed to read file: %v", err)}},
			})
			continue
		}
		report.Files = append(report.Files, ValidateBytes(name, data, opts))
	}
	return report, nil
}

// ValidateBytes checks a single dataset file's content.
func ValidateBytes(name string, data []byte, opts Options) FileReport {
	fr := FileReport{Path: name}

	var root any
	if err := json.Unmarshal(data, &root); err != nil {
		fr.Issues = append(fr.Issues, Issue{File: name, Index: -1, Message: fmt.Sprintf("Failed to parse JSON: %v", err)})
		return fr
	}
	items, ok := root.([]any)
	if !ok {
		fr.Issues = append(fr.Issues, Issue{File: name, Index: -1, Message: "Root must be an array."})
		return fr
	}
	fr.Records = len(items)

	seen := make(map[string]int)
	for idx, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			fr.Issues = append(fr.Issues, Issue{File: name, Index: idx, Message: "Record is not an object."})
			continue
		}
		fr.Issues = append(fr.Issues, checkRecord(name, idx, obj, opts)...)

		if !opts.Strict {
			continue
		}
		id := identifier(obj)
		if id == "" {
			continue
		}
		if first, dup := seen[id]; dup {
			fr.Issues = append(fr.Issues, Issue{
				File: name, Index: idx, Identifier: id,
				Message: fmt.Sprintf("Duplicate name (first defined at index %d).", first),
			})
			continue
		}
		seen[id] = idx
	}
	return fr
}

func checkRecord(file string, idx int, obj map[string]any, opts Options) []Issue {
	var issues []Issue
	id := identifier(obj)
	if id == "" {
		issues = append(issues, Issue{
			File: file, Index: idx,
			Message: fmt.Sprintf("Missing '%s', '%s', or '%s'.",
				reference.FieldElement, reference.FieldCommand, reference.FieldProperty),
		})
	}
	for _, field := range reference.RequiredFields {
		if !reference.Truthy(obj[field]) {
			issues = append(issues, Issue{
				File: file, Index: idx, Identifier: id, Field: field,
				Message: "Missing field: " + field,
			})
		}
	}

	if !opts.Strict {
		return issues
	}
	var present []string
	for _, f := range reference.IdentityFields {
		if reference.Truthy(obj[f]) {
			present = append(present, f)
		}
	}
	if len(present) > 1 {
		issues = append(issues, Issue{
			File: file, Index: idx, Identifier: id,
			Message: "Multiple identity fields: " + strings.Join(present, ", "),
		})
	}
	if docs, ok := obj[reference.FieldDocs].(string); ok && docs != "" && !isHTTPURL(docs) {
		issues = append(issues, Issue{
			File: file, Index: idx, Identifier: id, Field: reference.FieldDocs,
			Message: fmt.Sprintf("Field docs is not an absolute http(s) URL: %q", docs),
		})
	}
	return issues
}

// identifier is reference.Record.Name without the "Unknown" fallback.
func identifier(obj map[string]any) string {
	r := reference.FromMap(obj)
	if r.IdentityField() == "" {
		return ""
	}
	return r.Name()
}

func isHTTPURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
