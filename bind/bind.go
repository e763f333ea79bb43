package bind

import (
	"fmt"
	"math"
	"reflect"
	"strings"

	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/schema"
)

// TagName is the struct tag key naming a field's key in the
// configuration tree; without a tag, fields match case-insensitively
// by name, like encoding/json.
const TagName = "config"

type config struct {
	maxDepth int
}

type Option func(*config)

// WithMaxDepth bounds recursion while binding; deeper trees fail with
// ir.ErrDepthExceeded. Zero means ir.DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// Bind maps a merged tree onto dst according to sc, coercing scalars
// with the fixed coercion table, applying defaults, and accumulating
// every violation across the whole tree before returning. dst must be
// a non-nil pointer to a struct, or nil to check the tree against the
// schema without populating anything.
//
// The returned error reports usage problems (bad dst, excessive
// nesting); data problems are violations, and dst fields whose values
// had violations keep their zero values.
func Bind(tree *ir.Node, sc *schema.Schema, dst any, opts ...Option) (schema.Violations, error) {
	cfg := &config{maxDepth: ir.DefaultMaxDepth}
	for _, opt := range opts {
		opt(cfg)
	}
	if tree == nil {
		tree = ir.FromKeyVals(nil)
	}
	if err := ir.CheckDepth(tree, cfg.maxDepth); err != nil {
		return nil, err
	}
	coerced, vs := apply(tree, sc, "")
	if dst == nil {
		return vs, nil
	}

	val := reflect.ValueOf(dst)
	if val.Kind() != reflect.Pointer || val.IsNil() {
		return nil, fmt.Errorf("bind destination must be a non-nil pointer, got %T", dst)
	}
	elem := val.Elem()
	if elem.Kind() != reflect.Struct {
		return nil, fmt.Errorf("bind destination must point to a struct, got %T", dst)
	}
	if err := populateStruct(coerced, sc, elem, ""); err != nil {
		return nil, err
	}
	return vs, nil
}

func populateStruct(tree *ir.Node, sc *schema.Schema, dst reflect.Value, at string) error {
	for _, f := range sc.Fields {
		node := ir.Get(tree, f.Name)
		if node == nil {
			continue
		}
		fv, ok := structField(dst, f.Name)
		if !ok {
			return fmt.Errorf("no struct field for %q in %s", joinPath(at, f.Name), dst.Type())
		}
		if err := populateValue(node, f, fv, joinPath(at, f.Name)); err != nil {
			return err
		}
	}
	return nil
}

// structField finds the exported struct field for a schema field name,
// preferring an exact `config` tag match over a case-insensitive name
// match.
func structField(v reflect.Value, name string) (reflect.Value, bool) {
	t := v.Type()
	byName := -1
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		tag, ok := sf.Tag.Lookup(TagName)
		if ok {
			tagName, _, _ := strings.Cut(tag, ",")
			if tagName == name {
				return v.Field(i), true
			}
			continue
		}
		if byName < 0 && strings.EqualFold(sf.Name, name) {
			byName = i
		}
	}
	if byName >= 0 {
		return v.Field(byName), true
	}
	return reflect.Value{}, false
}

func populateValue(node *ir.Node, f *schema.Field, dst reflect.Value, at string) error {
	// allocate through pointers
	for dst.Kind() == reflect.Pointer {
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		dst = dst.Elem()
	}
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		dst.Set(reflect.ValueOf(nodeToAny(node)))
		return nil
	}

	switch node.Type {
	case ir.StringType:
		if dst.Kind() != reflect.String {
			return typeErr(at, dst, node)
		}
		dst.SetString(node.String)
	case ir.BoolType:
		if dst.Kind() != reflect.Bool {
			return typeErr(at, dst, node)
		}
		dst.SetBool(node.Bool)
	case ir.NumberType:
		return populateNumber(node, dst, at)
	case ir.ObjectType:
		if dst.Kind() == reflect.Map {
			return populateMap(node, dst, at)
		}
		if dst.Kind() != reflect.Struct {
			return typeErr(at, dst, node)
		}
		if f.Sub == nil {
			return fmt.Errorf("freeform section %q needs a map or any target, got %s", at, dst.Type())
		}
		return populateStruct(node, f.Sub, dst, at)
	case ir.ArrayType:
		if dst.Kind() != reflect.Slice {
			return typeErr(at, dst, node)
		}
		out := reflect.MakeSlice(dst.Type(), len(node.Values), len(node.Values))
		for i, e := range node.Values {
			elem := f.Elem
			if elem == nil {
				elem = &schema.Field{Kind: e.Type}
			}
			if err := populateValue(e, elem, out.Index(i), fmt.Sprintf("%s[%d]", at, i)); err != nil {
				return err
			}
		}
		dst.Set(out)
	case ir.NullType:
		// unset, keep the zero value
	}
	return nil
}

func populateNumber(node *ir.Node, dst reflect.Value, at string) error {
	switch dst.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if node.Int64 == nil {
			return typeErr(at, dst, node)
		}
		if dst.OverflowInt(*node.Int64) {
			return fmt.Errorf("value %d overflows %s at %q", *node.Int64, dst.Type(), at)
		}
		dst.SetInt(*node.Int64)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if node.Int64 == nil || *node.Int64 < 0 {
			return typeErr(at, dst, node)
		}
		if dst.OverflowUint(uint64(*node.Int64)) {
			return fmt.Errorf("value %d overflows %s at %q", *node.Int64, dst.Type(), at)
		}
		dst.SetUint(uint64(*node.Int64))
	case reflect.Float32, reflect.Float64:
		var v float64
		if node.Float64 != nil {
			v = *node.Float64
		} else {
			v = float64(*node.Int64)
		}
		if dst.Kind() == reflect.Float32 && !math.IsInf(v, 0) && math.Abs(v) > math.MaxFloat32 {
			return fmt.Errorf("value %v overflows float32 at %q", v, at)
		}
		dst.SetFloat(v)
	default:
		return typeErr(at, dst, node)
	}
	return nil
}

func populateMap(node *ir.Node, dst reflect.Value, at string) error {
	t := dst.Type()
	if t.Key().Kind() != reflect.String {
		return fmt.Errorf("map target at %q must have string keys, got %s", at, t)
	}
	out := reflect.MakeMapWithSize(t, len(node.Fields))
	for i := range node.Fields {
		key := node.Fields[i].String
		ev := reflect.New(t.Elem()).Elem()
		elem := &schema.Field{Kind: node.Values[i].Type}
		if err := populateValue(node.Values[i], elem, ev, joinPath(at, key)); err != nil {
			return err
		}
		out.SetMapIndex(reflect.ValueOf(key).Convert(t.Key()), ev)
	}
	dst.Set(out)
	return nil
}

func typeErr(at string, dst reflect.Value, node *ir.Node) error {
	return fmt.Errorf("cannot store %s into %s at %q", node.Type, dst.Type(), at)
}
