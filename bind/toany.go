package bind

import "github.com/uconfig/go-uconfig/ir"

// nodeToAny renders a tree as plain Go values, the shape expected by
// cross-field check environments and any-typed destinations. Integers
// stay int64 and floats float64, so checks can compare without losing
// the distinction.
func nodeToAny(n *ir.Node) any {
	switch n.Type {
	case ir.NullType:
		return nil
	case ir.BoolType:
		return n.Bool
	case ir.StringType:
		return n.String
	case ir.NumberType:
		if n.Int64 != nil {
			return *n.Int64
		}
		return *n.Float64
	case ir.ArrayType:
		out := make([]any, len(n.Values))
		for i, e := range n.Values {
			out[i] = nodeToAny(e)
		}
		return out
	case ir.ObjectType:
		out := make(map[string]any, len(n.Fields))
		for i := range n.Fields {
			out[n.Fields[i].String] = nodeToAny(n.Values[i])
		}
		return out
	}
	return nil
}
