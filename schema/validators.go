package schema

import (
	"fmt"
	"regexp"
	"slices"

	"github.com/uconfig/go-uconfig/ir"
)

// Validator checks a single coerced node. A nil result means the node
// passes; a non-nil result carries the violation kind and message, and
// the caller fills in the path.
type Validator interface {
	Validate(n *ir.Node) *Violation
}

type rangeValidator struct {
	min, max float64
}

// Range accepts numeric nodes with min <= value <= max.
func Range(min, max float64) Validator {
	return &rangeValidator{min: min, max: max}
}

func (r *rangeValidator) Validate(n *ir.Node) *Violation {
	if n.Type != ir.NumberType {
		return nil
	}
	var v float64
	if n.Int64 != nil {
		v = float64(*n.Int64)
	} else {
		v = *n.Float64
	}
	if v < r.min || v > r.max {
		return &Violation{
			Kind: RangeCheckFailed,
			Message: fmt.Sprintf("value %v out of range [%v, %v]",
				v, r.min, r.max),
		}
	}
	return nil
}

type oneOfValidator struct {
	values []string
}

// OneOf accepts string nodes whose value is one of values.
func OneOf(values ...string) Validator {
	return &oneOfValidator{values: values}
}

func (o *oneOfValidator) Validate(n *ir.Node) *Violation {
	if n.Type != ir.StringType {
		return nil
	}
	if slices.Contains(o.values, n.String) {
		return nil
	}
	return &Violation{
		Kind:    NotInEnum,
		Message: fmt.Sprintf("value %q not one of %v", n.String, o.values),
	}
}

type patternValidator struct {
	re *regexp.Regexp
}

// Pattern accepts string nodes matching the given regular expression.
// The expression must compile; Pattern panics otherwise, since schemas
// are declared statically in code.
func Pattern(expr string) Validator {
	return &patternValidator{re: regexp.MustCompile(expr)}
}

func (p *patternValidator) Validate(n *ir.Node) *Violation {
	if n.Type != ir.StringType {
		return nil
	}
	if p.re.MatchString(n.String) {
		return nil
	}
	return &Violation{
		Kind:    PatternMismatch,
		Message: fmt.Sprintf("value %q does not match %q", n.String, p.re),
	}
}
