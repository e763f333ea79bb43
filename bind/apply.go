package bind

import (
	"strconv"

	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/schema"
)

// apply walks a schema over a tree, producing the coerced tree the
// binder and validator share: defaults filled in, scalars coerced to
// their declared kinds, fields in schema order. Fields that are absent
// without a default, or that cannot coerce, are left out of the result
// and reported; the walk never stops at the first problem.
//
// An explicit null value counts as absence: merge uses null to unset a
// lower-priority value, and an unset field defaults or goes missing
// exactly like one that was never present.
func apply(tree *ir.Node, sc *schema.Schema, at string) (*ir.Node, schema.Violations) {
	var vs schema.Violations
	if tree.Type != ir.ObjectType {
		vs = append(vs, schema.Violation{
			Path:    at,
			Kind:    schema.TypeMismatch,
			Message: "expected Object, got " + tree.Type.String(),
		})
		return ir.FromKeyVals(nil), vs
	}

	var kvs []ir.KeyVal
	for _, f := range sc.Fields {
		fieldAt := joinPath(at, f.Name)
		val := ir.Get(tree, f.Name)
		if val == nil || val.Type == ir.NullType {
			if f.Default != nil {
				coerced, sub := applyValue(f.Default, f, fieldAt)
				vs = append(vs, sub...)
				if coerced != nil {
					kvs = append(kvs, ir.KeyVal{Key: ir.FromString(f.Name), Val: coerced})
				}
				continue
			}
			if f.Required {
				vs = append(vs, schema.Violation{
					Path:    fieldAt,
					Kind:    schema.MissingRequired,
					Message: "required field is missing",
				})
			}
			continue
		}
		coerced, sub := applyValue(val, f, fieldAt)
		vs = append(vs, sub...)
		if coerced != nil {
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(f.Name), Val: coerced})
		}
	}
	return ir.FromKeyVals(kvs), vs
}

// applyValue coerces one present value against its field descriptor.
// A nil node with empty violations never happens; a nil node means the
// value was reported.
func applyValue(val *ir.Node, f *schema.Field, at string) (*ir.Node, schema.Violations) {
	switch f.Kind {
	case ir.ObjectType:
		if val.Type != ir.ObjectType {
			return nil, schema.Violations{{
				Path:    at,
				Kind:    schema.TypeMismatch,
				Message: "expected Object, got " + val.Type.String(),
			}}
		}
		if f.Sub == nil {
			// freeform section, kept as-is
			return val.Clone(), nil
		}
		return apply(val, f.Sub, at)
	case ir.ArrayType:
		if val.Type != ir.ArrayType {
			return nil, schema.Violations{{
				Path:    at,
				Kind:    schema.TypeMismatch,
				Message: "expected Array, got " + val.Type.String(),
			}}
		}
		if f.Elem == nil {
			return val.Clone(), nil
		}
		var (
			vs    schema.Violations
			elems = make([]*ir.Node, 0, len(val.Values))
		)
		for i, e := range val.Values {
			coerced, sub := applyValue(e, f.Elem, at+"["+strconv.Itoa(i)+"]")
			vs = append(vs, sub...)
			if coerced != nil {
				elems = append(elems, coerced)
			}
		}
		return ir.FromSlice(elems), vs
	default:
		coerced, v := coerceScalar(val, f)
		if v != nil {
			v.Path = at
			return nil, schema.Violations{*v}
		}
		return coerced.Clone(), nil
	}
}

func joinPath(at, name string) string {
	if at == "" {
		return name
	}
	return at + "." + name
}
