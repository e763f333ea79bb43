package bind

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/uconfig/go-uconfig/ir"
	"github.com/uconfig/go-uconfig/schema"
)

// Unbind mirrors Bind: it renders src back into a tree laid out in
// schema field order, so a value produced by Bind round-trips through
// any of the format adapters. Nil pointer fields become absent keys
// rather than explicit nulls.
func Unbind(src any, sc *schema.Schema) (*ir.Node, error) {
	val := reflect.ValueOf(src)
	for val.Kind() == reflect.Pointer {
		if val.IsNil() {
			return nil, fmt.Errorf("unbind source is a nil %s", val.Type())
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, fmt.Errorf("unbind source must be a struct, got %T", src)
	}
	return unbindStruct(val, sc, "")
}

func unbindStruct(val reflect.Value, sc *schema.Schema, at string) (*ir.Node, error) {
	kvs := make([]ir.KeyVal, 0, len(sc.Fields))
	for _, f := range sc.Fields {
		fv, ok := structField(val, f.Name)
		if !ok {
			return nil, fmt.Errorf("no struct field for %q in %s", joinPath(at, f.Name), val.Type())
		}
		if fv.Kind() == reflect.Pointer && fv.IsNil() {
			continue
		}
		node, err := unbindValue(fv, f, joinPath(at, f.Name))
		if err != nil {
			return nil, err
		}
		if node == nil {
			continue
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(f.Name), Val: node})
	}
	return ir.FromKeyVals(kvs), nil
}

func unbindValue(fv reflect.Value, f *schema.Field, at string) (*ir.Node, error) {
	for fv.Kind() == reflect.Pointer {
		if fv.IsNil() {
			return nil, nil
		}
		fv = fv.Elem()
	}
	if fv.Kind() == reflect.Interface {
		if fv.IsNil() {
			return nil, nil
		}
		return anyToNode(fv.Interface(), at)
	}

	switch f.Kind {
	case ir.StringType:
		if fv.Kind() != reflect.String {
			return nil, unbindTypeErr(at, fv, f)
		}
		return ir.FromString(fv.String()), nil
	case ir.BoolType:
		if fv.Kind() != reflect.Bool {
			return nil, unbindTypeErr(at, fv, f)
		}
		return ir.FromBool(fv.Bool()), nil
	case ir.NumberType:
		return unbindNumber(fv, f, at)
	case ir.ObjectType:
		if f.Sub == nil {
			return anyToNode(fv.Interface(), at)
		}
		if fv.Kind() != reflect.Struct {
			return nil, unbindTypeErr(at, fv, f)
		}
		return unbindStruct(fv, f.Sub, at)
	case ir.ArrayType:
		if fv.Kind() != reflect.Slice {
			return nil, unbindTypeErr(at, fv, f)
		}
		out := make([]*ir.Node, 0, fv.Len())
		for i := 0; i < fv.Len(); i++ {
			elem := f.Elem
			if elem == nil {
				e, err := anyToNode(fv.Index(i).Interface(), fmt.Sprintf("%s[%d]", at, i))
				if err != nil {
					return nil, err
				}
				out = append(out, e)
				continue
			}
			e, err := unbindValue(fv.Index(i), elem, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			if e == nil {
				e = ir.Null()
			}
			out = append(out, e)
		}
		return ir.FromSlice(out), nil
	}
	return nil, fmt.Errorf("unbindable schema kind %s at %q", f.Kind, at)
}

func unbindNumber(fv reflect.Value, f *schema.Field, at string) (*ir.Node, error) {
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if f.WantsFloat() {
			return ir.FromFloat(float64(fv.Int())), nil
		}
		return ir.FromInt(fv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if f.WantsFloat() {
			return ir.FromFloat(float64(fv.Uint())), nil
		}
		return ir.FromInt(int64(fv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return ir.FromFloat(fv.Float()), nil
	}
	return nil, unbindTypeErr(at, fv, f)
}

// anyToNode renders plain Go values, the escape hatch for freeform
// sections and untyped arrays. Map keys are sorted for determinism.
func anyToNode(v any, at string) (*ir.Node, error) {
	switch v := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(v), nil
	case string:
		return ir.FromString(v), nil
	case int:
		return ir.FromInt(int64(v)), nil
	case int64:
		return ir.FromInt(v), nil
	case float64:
		return ir.FromFloat(v), nil
	case []any:
		out := make([]*ir.Node, len(v))
		for i, e := range v {
			n, err := anyToNode(e, fmt.Sprintf("%s[%d]", at, i))
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return ir.FromSlice(out), nil
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		kvs := make([]ir.KeyVal, 0, len(keys))
		for _, k := range keys {
			n, err := anyToNode(v[k], joinPath(at, k))
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(k), Val: n})
		}
		return ir.FromKeyVals(kvs), nil
	}
	return nil, fmt.Errorf("cannot unbind %T at %q", v, at)
}

func unbindTypeErr(at string, fv reflect.Value, f *schema.Field) error {
	return fmt.Errorf("cannot unbind %s as %s at %q", fv.Type(), f.Kind, at)
}
