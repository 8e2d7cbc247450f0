// Package reference holds the dataset record model and the search/category
// filtering used by every refx front end.
package reference

import (
	"fmt"
	"sort"
	"strconv"
)

// UnknownName is the display name of a record without an identity field.
const UnknownName = "Unknown"

// Field names as they appear in dataset files.
const (
	FieldElement  = "element"
	FieldCommand  = "command"
	FieldProperty = "property"
	FieldCategory = "category"
	FieldExample  = "example"
	FieldPurpose  = "purpose"
	FieldTips     = "tips"
	FieldDocs     = "docs"
)

// IdentityFields lists the identity keys in resolution order.
var IdentityFields = []string{FieldElement, FieldCommand, FieldProperty}

// RequiredFields lists the metadata keys every record must carry.
var RequiredFields = []string{FieldCategory, FieldExample, FieldPurpose, FieldDocs, FieldTips}

// Record is one dataset entry describing a language construct.
// Records are treated as immutable once loaded.
type Record struct {
	Element  string `json:"element,omitempty" yaml:"element,omitempty" toml:"element,omitempty"`
	Command  string `json:"command,omitempty" yaml:"command,omitempty" toml:"command,omitempty"`
	Property string `json:"property,omitempty" yaml:"property,omitempty" toml:"property,omitempty"`
	Category string `json:"category" yaml:"category" toml:"category"`
	Example  string `json:"example" yaml:"example" toml:"example"`
	Purpose  string `json:"purpose" yaml:"purpose" toml:"purpose"`
	Tips     string `json:"tips" yaml:"tips" toml:"tips"`
	Docs     string `json:"docs" yaml:"docs" toml:"docs"`

	// Raw is the decoded source object, kept for expression filtering.
	Raw map[string]any `json:"-" yaml:"-" toml:"-"`
}

// Name returns the display name: element, else command, else property,
// else "Unknown". Empty values fall through to the next field.
func (r Record) Name() string {
	switch {
	case r.Element != "":
		return r.Element
	case r.Command != "":
		return r.Command
	case r.Property != "":
		return r.Property
	default:
		return UnknownName
	}
}

// IdentityField reports which identity key supplied the display name, or ""
// when the record has none.
func (r Record) IdentityField() string {
	switch {
	case r.Element != "":
		return FieldElement
	case r.Command != "":
		return FieldCommand
	case r.Property != "":
		return FieldProperty
	default:
		return ""
	}
}

// Get returns a field by its dataset key. Unknown keys return "".
func (r Record) Get(field string) string {
	switch field {
	case FieldElement:
		return r.Element
	case FieldCommand:
		return r.Command
	case FieldProperty:
		return r.Property
	case FieldCategory:
		return r.Category
	case FieldExample:
		return r.Example
	case FieldPurpose:
		return r.Purpose
	case FieldTips:
		return r.Tips
	case FieldDocs:
		return r.Docs
	}
	if r.Raw != nil {
		return stringify(r.Raw[field])
	}
	return ""
}

// Map returns the record as a generic map with every known field present.
// Extra keys from the source object are preserved.
func (r Record) Map() map[string]any {
	out := make(map[string]any, len(r.Raw)+8)
	for k, v := range r.Raw {
		out[k] = v
	}
	for _, f := range append(append([]string{}, IdentityFields...), RequiredFields...) {
		out[f] = r.Get(f)
	}
	return out
}

// FromMap builds a record from a decoded JSON object. Scalars in string
// fields are stringified; null becomes "". Falsy identity values are left
// empty so Name falls through them.
func FromMap(m map[string]any) Record {
	return Record{
		Element:  identity(m[FieldElement]),
		Command:  identity(m[FieldCommand]),
		Property: identity(m[FieldProperty]),
		Category: stringify(m[FieldCategory]),
		Example:  stringify(m[FieldExample]),
		Purpose:  stringify(m[FieldPurpose]),
		Tips:     stringify(m[FieldTips]),
		Docs:     stringify(m[FieldDocs]),
		Raw:      m,
	}
}

// FromMaps converts a decoded array into records. Every element must be an
// object.
func FromMaps(items []any) ([]Record, error) {
	out := make([]Record, 0, len(items))
	for i, item := range items {
		m, ok := asStringMap(item)
		if !ok {
			return nil, fmt.Errorf("record %d: expected an object, got %T", i, item)
		}
		out = append(out, FromMap(m))
	}
	return out, nil
}

// asStringMap accepts both JSON-style and YAML-style decoded objects.
func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	}
	return nil, false
}

func identity(v any) string {
	if !Truthy(v) {
		return ""
	}
	return stringify(v)
}

// Truthy reports whether a decoded value counts as present: absent, null,
// "", false and 0 do not.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	case float64:
		return t != 0
	case int:
		return t != 0
	case int64:
		return t != 0
	case uint64:
		return t != 0
	default:
		return true
	}
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	default:
		return fmt.Sprint(t)
	}
}

// Categories returns the distinct categories found in records. Categories
// named in order come first, in that order; the rest follow alphabetically.
// Empty categories are skipped.
func Categories(records []Record, order []string) []string {
	seen := make(map[string]bool)
	for _, r := range records {
		if r.Category != "" {
			seen[r.Category] = true
		}
	}
	out := make([]string, 0, len(seen))
	for _, c := range order {
		if seen[c] {
			out = append(out, c)
			delete(seen, c)
		}
	}
	rest := make([]string, 0, len(seen))
	for c := range seen {
		rest = append(rest, c)
	}
	sort.Strings(rest)
	return append(out, rest...)
}
