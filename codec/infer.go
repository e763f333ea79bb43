package codec

import (
	"strconv"
	"strings"

	"github.com/uconfig/go-uconfig/ir"
)

// InferScalar converts a bare string from a flat source (environment
// variable, CLI flag, XML text) into the most specific scalar node its
// lexical form allows: null (case-insensitive) gives Null, integer
// grammar gives Int, float grammar gives Float, true/false
// (case-insensitive) gives Bool, anything else stays Str. The null
// case is what lets a flat source unset a lower-priority value under
// the merger's null-override rule. The inference is best-effort; the
// binder's coercion step, which knows the schema's target kind, always
// overrides it.
func InferScalar(v string) *ir.Node {
	switch strings.ToLower(v) {
	case "null":
		return ir.Null()
	case "true":
		return ir.FromBool(true)
	case "false":
		return ir.FromBool(false)
	}
	if i, err := strconv.ParseInt(v, 10, 64); err == nil {
		return ir.FromInt(i)
	}
	if f, err := strconv.ParseFloat(v, 64); err == nil {
		return ir.FromFloat(f)
	}
	return ir.FromString(v)
}

// floatLiteral formats f so it reads back as a float: shortest
// round-trip form, with ".0" appended when the result would otherwise
// look like an integer literal.
func floatLiteral(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eENI") {
		s += ".0"
	}
	return s
}

// ScalarString renders a scalar node back to the flat string form that
// InferScalar would re-read as the same value. Floats use shortest
// round-trip formatting.
func ScalarString(n *ir.Node) (string, bool) {
	switch n.Type {
	case ir.NullType:
		return "null", true
	case ir.BoolType:
		return strconv.FormatBool(n.Bool), true
	case ir.NumberType:
		if n.Int64 != nil {
			return strconv.FormatInt(*n.Int64, 10), true
		}
		return floatLiteral(*n.Float64), true
	case ir.StringType:
		return n.String, true
	default:
		return "", false
	}
}
