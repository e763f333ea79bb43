package bind

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/schema"
)

// coerceScalar applies the fixed coercion table to bring n to the
// field's expected kind. The table is total: anything outside it is a
// TypeMismatch violation, never a guess. The caller fills in the
// violation path.
func coerceScalar(n *ir.Node, f *schema.Field) (*ir.Node, *schema.Violation) {
	switch f.Kind {
	case ir.NumberType:
		if f.WantsFloat() {
			return coerceFloat(n, f)
		}
		return coerceInt(n, f)
	case ir.StringType:
		return coerceString(n, f)
	case ir.BoolType:
		return coerceBool(n, f)
	}
	return nil, mismatch(n, f)
}

func coerceInt(n *ir.Node, f *schema.Field) (*ir.Node, *schema.Violation) {
	switch n.Type {
	case ir.NumberType:
		if n.Int64 != nil {
			return n, nil
		}
		v := *n.Float64
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return ir.FromInt(int64(v)), nil
		}
		return nil, &schema.Violation{
			Kind:    schema.TypeMismatch,
			Message: fmt.Sprintf("expected integer, got non-integral %v", v),
		}
	case ir.StringType:
		if i, err := strconv.ParseInt(n.String, 10, 64); err == nil {
			return ir.FromInt(i), nil
		}
		return nil, &schema.Violation{
			Kind:    schema.TypeMismatch,
			Message: fmt.Sprintf("expected integer, got %q", n.String),
		}
	}
	return nil, mismatch(n, f)
}

func coerceFloat(n *ir.Node, f *schema.Field) (*ir.Node, *schema.Violation) {
	switch n.Type {
	case ir.NumberType:
		if n.Float64 != nil {
			return n, nil
		}
		return ir.FromFloat(float64(*n.Int64)), nil
	case ir.StringType:
		if v, err := strconv.ParseFloat(n.String, 64); err == nil {
			return ir.FromFloat(v), nil
		}
		return nil, &schema.Violation{
			Kind:    schema.TypeMismatch,
			Message: fmt.Sprintf("expected float, got %q", n.String),
		}
	}
	return nil, mismatch(n, f)
}

func coerceString(n *ir.Node, f *schema.Field) (*ir.Node, *schema.Violation) {
	switch n.Type {
	case ir.StringType:
		return n, nil
	case ir.NumberType:
		if n.Int64 != nil {
			return ir.FromString(strconv.FormatInt(*n.Int64, 10)), nil
		}
		return ir.FromString(strconv.FormatFloat(*n.Float64, 'g', -1, 64)), nil
	case ir.BoolType:
		return ir.FromString(strconv.FormatBool(n.Bool)), nil
	}
	return nil, mismatch(n, f)
}

func coerceBool(n *ir.Node, f *schema.Field) (*ir.Node, *schema.Violation) {
	switch n.Type {
	case ir.BoolType:
		return n, nil
	case ir.StringType:
		switch strings.ToLower(n.String) {
		case "true":
			return ir.FromBool(true), nil
		case "false":
			return ir.FromBool(false), nil
		}
		return nil, &schema.Violation{
			Kind:    schema.TypeMismatch,
			Message: fmt.Sprintf("expected bool, got %q", n.String),
		}
	}
	return nil, mismatch(n, f)
}

func mismatch(n *ir.Node, f *schema.Field) *schema.Violation {
	return &schema.Violation{
		Kind:    schema.TypeMismatch,
		Message: fmt.Sprintf("expected %s, got %s", expectedName(f), n.Type),
	}
}

func expectedName(f *schema.Field) string {
	if f.Kind == ir.NumberType {
		if f.WantsFloat() {
			return "Float"
		}
		return "Int"
	}
	return f.Kind.String()
}
