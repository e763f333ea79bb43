package codec

import (
	"math"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
)

// YAMLAdapter parses and emits YAML documents via goccy/go-yaml.
// Mappings decode as ordered maps so key order survives a round-trip.
type YAMLAdapter struct{}

func (a *YAMLAdapter) Format() format.Format {
	return format.YAMLFormat
}

func (a *YAMLAdapter) Parse(data []byte) (*ir.Node, error) {
	var v any
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap()); err != nil {
		return nil, &SyntaxError{
			Format:  format.YAMLFormat,
			Message: err.Error(),
			Err:     err,
		}
	}
	node, err := yamlToNode(v)
	if err != nil {
		return nil, err
	}
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	return node, nil
}

func yamlToNode(v any) (*ir.Node, error) {
	switch x := v.(type) {
	case nil:
		return ir.Null(), nil
	case bool:
		return ir.FromBool(x), nil
	case string:
		return ir.FromString(x), nil
	case int:
		return ir.FromInt(int64(x)), nil
	case int64:
		return ir.FromInt(x), nil
	case uint64:
		if x > math.MaxInt64 {
			return ir.FromFloat(float64(x)), nil
		}
		return ir.FromInt(int64(x)), nil
	case float64:
		return ir.FromFloat(x), nil
	case time.Time:
		return ir.FromString(x.Format(time.RFC3339)), nil
	case []any:
		vs := make([]*ir.Node, 0, len(x))
		for _, e := range x {
			n, err := yamlToNode(e)
			if err != nil {
				return nil, err
			}
			vs = append(vs, n)
		}
		return ir.FromSlice(vs), nil
	case yaml.MapSlice:
		var (
			kvs   []ir.KeyVal
			index = map[string]int{}
		)
		for _, item := range x {
			key, err := yamlKey(item.Key)
			if err != nil {
				return nil, err
			}
			val, err := yamlToNode(item.Value)
			if err != nil {
				return nil, err
			}
			// last occurrence wins, keeping keys unique
			if i, ok := index[key]; ok {
				kvs[i].Val = val
				continue
			}
			index[key] = len(kvs)
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: val})
		}
		return ir.FromKeyVals(kvs), nil
	default:
		return nil, &SyntaxError{
			Format:  format.YAMLFormat,
			Message: "unsupported YAML value type",
		}
	}
}

// yamlKey stringifies a mapping key. YAML allows non-string scalar
// keys; they are coerced to their canonical string form since the tree
// requires string keys.
func yamlKey(k any) (string, error) {
	n, err := yamlToNode(k)
	if err != nil {
		return "", err
	}
	s, ok := ScalarString(n)
	if !ok {
		return "", &SyntaxError{
			Format:  format.YAMLFormat,
			Message: "mapping key must be a scalar",
		}
	}
	return s, nil
}

func (a *YAMLAdapter) Emit(node *ir.Node) ([]byte, error) {
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, err
	}
	v, err := nodeToYAML(node)
	if err != nil {
		return nil, err
	}
	d, err := yaml.Marshal(v)
	if err != nil {
		return nil, &UnsupportedShapeError{
			Format:  format.YAMLFormat,
			Path:    node.Path(),
			Message: err.Error(),
		}
	}
	return d, nil
}

// yamlFloat emits a raw float literal so integral floats keep a
// fraction marker and read back as floats.
type yamlFloat float64

func (f yamlFloat) MarshalYAML() ([]byte, error) {
	v := float64(f)
	switch {
	case math.IsNaN(v):
		return []byte(".nan"), nil
	case math.IsInf(v, 1):
		return []byte(".inf"), nil
	case math.IsInf(v, -1):
		return []byte("-.inf"), nil
	}
	return []byte(floatLiteral(v)), nil
}

func nodeToYAML(node *ir.Node) (any, error) {
	switch node.Type {
	case ir.NullType:
		return nil, nil
	case ir.BoolType:
		return node.Bool, nil
	case ir.StringType:
		return node.String, nil
	case ir.NumberType:
		if node.Int64 != nil {
			return *node.Int64, nil
		}
		return yamlFloat(*node.Float64), nil
	case ir.ArrayType:
		vs := make([]any, len(node.Values))
		for i, v := range node.Values {
			e, err := nodeToYAML(v)
			if err != nil {
				return nil, err
			}
			vs[i] = e
		}
		return vs, nil
	case ir.ObjectType:
		ms := make(yaml.MapSlice, len(node.Fields))
		for i := range node.Fields {
			if node.Fields[i].Type != ir.StringType {
				return nil, &UnsupportedShapeError{
					Format:  format.YAMLFormat,
					Path:    node.Path(),
					Message: "object keys must be strings",
				}
			}
			v, err := nodeToYAML(node.Values[i])
			if err != nil {
				return nil, err
			}
			ms[i] = yaml.MapItem{Key: node.Fields[i].String, Value: v}
		}
		return ms, nil
	}
	return nil, &UnsupportedShapeError{
		Format:  format.YAMLFormat,
		Path:    node.Path(),
		Message: "unknown node type",
	}
}
