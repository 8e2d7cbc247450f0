// Package cel compiles CEL expressions into record predicates for --where.
//
// Expressions see two variables: r, the record as a map with every known
// field present (missing fields are ""), and name, the record's display name.
//
//	r.category == "Beginner" && r.docs.startsWith("https://")
//	name.matches("^[a-z]+$") && size(r.tips) > 0
package cel

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/refx/pkg/reference"
)

const (
	recordVar = "r"
	nameVar   = "name"
)

// NewEnv creates the CEL environment used for record predicates.
// Additional options can extend it (e.g., custom functions).
func NewEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	allOpts := make([]cel.EnvOption, 0, 6+len(opts))
	allOpts = append(allOpts,
		cel.Variable(recordVar, cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable(nameVar, cel.StringType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	allOpts = append(allOpts, opts...)
	env, err := cel.NewEnv(allOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return env, nil
}

// Predicate is a compiled boolean expression over a record.
type Predicate struct {
	expr string
	prg  cel.Program
}

// Compile parses and type-checks expr. Expressions whose static type is
// known and not bool are rejected up front.
func Compile(expr string) (*Predicate, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return nil, fmt.Errorf("empty expression")
	}
	env, err := NewEnv()
	if err != nil {
		return nil, err
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	if out := ast.OutputType(); out != nil && !out.IsExactType(cel.BoolType) && !out.IsExactType(cel.DynType) {
		return nil, fmt.Errorf("expression must return bool, got %s", out)
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	return &Predicate{expr: expr, prg: prg}, nil
}

// String returns the source expression.
func (p *Predicate) String() string {
	return p.expr
}

// Match evaluates the predicate for one record.
func (p *Predicate) Match(r reference.Record) (bool, error) {
	out, _, err := p.prg.Eval(map[string]any{
		recordVar: r.Map(),
		nameVar:   r.Name(),
	})
	if err != nil {
		return false, fmt.Errorf("eval error for %q: %w", r.Name(), err)
	}
	b, ok := out.(types.Bool)
	if !ok {
		return false, fmt.Errorf("expression returned %s for %q, want bool", out.Type(), r.Name())
	}
	return bool(b), nil
}

// Filter keeps the records for which the predicate holds, preserving order.
// The first evaluation error aborts the filter.
func (p *Predicate) Filter(records []reference.Record) ([]reference.Record, error) {
	out := make([]reference.Record, 0, len(records))
	for _, r := range records {
		ok, err := p.Match(r)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, r)
		}
	}
	return out, nil
}
