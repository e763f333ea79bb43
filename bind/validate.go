package bind

import (
	"fmt"

	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/schema"
)

// Validate checks a merged tree against sc without populating a
// destination: structural and coercion violations first, then field
// validators against the coerced values, then cross-field checks at
// every object level. Like Bind it accumulates everything it finds.
func Validate(tree *ir.Node, sc *schema.Schema, opts ...Option) schema.Violations {
	cfg := &config{maxDepth: ir.DefaultMaxDepth}
	for _, opt := range opts {
		opt(cfg)
	}
	if tree == nil {
		tree = ir.FromKeyVals(nil)
	}
	if err := ir.CheckDepth(tree, cfg.maxDepth); err != nil {
		return schema.Violations{{
			Kind:    schema.DepthExceeded,
			Message: err.Error(),
		}}
	}
	coerced, vs := apply(tree, sc, "")
	vs = append(vs, validateLevel(coerced, sc, "")...)
	return vs
}

// validateLevel runs validators and checks over one coerced object and
// recurses into nested sections and arrays of structures.
func validateLevel(tree *ir.Node, sc *schema.Schema, at string) schema.Violations {
	var vs schema.Violations
	for _, f := range sc.Fields {
		node := ir.Get(tree, f.Name)
		if node == nil {
			continue
		}
		fieldAt := joinPath(at, f.Name)
		vs = append(vs, validateField(node, f, fieldAt)...)
	}
	if len(sc.Checks) > 0 {
		env, ok := nodeToAny(tree).(map[string]any)
		if !ok {
			env = map[string]any{}
		}
		for _, c := range sc.Checks {
			pass, err := c.Eval(env)
			if err != nil {
				vs = append(vs, schema.Violation{
					Path:    at,
					Kind:    schema.CrossFieldFailed,
					Message: err.Error(),
				})
				continue
			}
			if !pass {
				vs = append(vs, schema.Violation{
					Path:    at,
					Kind:    schema.CrossFieldFailed,
					Message: fmt.Sprintf("check %q failed: %s", c.Name, c.Source),
				})
			}
		}
	}
	return vs
}

func validateField(node *ir.Node, f *schema.Field, at string) schema.Violations {
	var vs schema.Violations
	for _, v := range f.Validators {
		if viol := v.Validate(node); viol != nil {
			viol.Path = at
			vs = append(vs, *viol)
		}
	}
	switch {
	case f.Kind == ir.ObjectType && f.Sub != nil && node.Type == ir.ObjectType:
		vs = append(vs, validateLevel(node, f.Sub, at)...)
	case f.Kind == ir.ArrayType && f.Elem != nil && node.Type == ir.ArrayType:
		for i, e := range node.Values {
			vs = append(vs, validateField(e, f.Elem, fmt.Sprintf("%s[%d]", at, i))...)
		}
	}
	return vs
}
