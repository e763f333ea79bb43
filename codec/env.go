package codec

import (
	"sort"
	"strconv"
	"strings"

	"github.com/uconfig/go-uconfig/format"
	"github.com/uconfig/go-uconfig/ir"
)

// EnvAdapter converts between flat environment-style key/value pairs
// and nested trees.
//
// The key convention is part of the compatibility contract: the nested
// path a.b.c maps to A_B_C (uppercased, dots replaced by underscores),
// and sequence elements flatten to indexed keys, so servers[0].host
// maps to SERVERS_0_HOST. The convention is reversible: on parse,
// single underscores split segments, all-digit segments become
// sequence indices, and everything else lowercases back to field
// names. Field names therefore must not contain underscores and must
// not be all digits; Emit reports such keys as UnsupportedShape.
//
// Values are bare strings; InferScalar gives them their best-effort
// scalar type (null, integer, float, bool, else string), which the
// binder's coercion may later override. The null case means HOST=null
// unsets a lower-priority host under the merger's null-override rule.
//
// The byte form handled by Parse/Emit is dotenv-style lines
// (KEY=VALUE, # comments); ParsePairs and EmitMap work directly on
// pairs for callers feeding os.Environ-shaped data.
type EnvAdapter struct{}

func (a *EnvAdapter) Format() format.Format {
	return format.EnvFormat
}

// Pair is one environment entry.
type Pair struct {
	Key   string
	Value string
}

func (a *EnvAdapter) Parse(data []byte) (*ir.Node, error) {
	var pairs []Pair
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &SyntaxError{
				Format:  format.EnvFormat,
				Line:    i + 1,
				Message: "expected KEY=VALUE, got " + strconv.Quote(line),
			}
		}
		pairs = append(pairs, Pair{Key: strings.TrimSpace(key), Value: unquoteEnv(value)})
	}
	return a.ParsePairs(pairs)
}

func unquoteEnv(v string) string {
	v = strings.TrimSpace(v)
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		if u, err := strconv.Unquote(`"` + v[1:len(v)-1] + `"`); err == nil {
			return u
		}
	}
	return v
}

// ParsePairs unflattens pairs into a tree, preserving first-seen key
// order for object entries.
func (a *EnvAdapter) ParsePairs(pairs []Pair) (*ir.Node, error) {
	root := newEnvBuilder()
	for _, p := range pairs {
		if p.Key == "" {
			return nil, &SyntaxError{Format: format.EnvFormat, Message: "empty key"}
		}
		segs := strings.Split(p.Key, "_")
		if err := root.put(p.Key, segs, InferScalar(p.Value)); err != nil {
			return nil, err
		}
	}
	return root.build("")
}

// ParseEnviron accepts entries in os.Environ form ("KEY=VALUE"),
// keeping only keys with the given prefix and stripping it. An empty
// prefix keeps everything.
func (a *EnvAdapter) ParseEnviron(environ []string, prefix string) (*ir.Node, error) {
	var pairs []Pair
	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if prefix != "" {
			rest, ok := strings.CutPrefix(key, prefix)
			if !ok {
				continue
			}
			key = strings.TrimPrefix(rest, "_")
		}
		pairs = append(pairs, Pair{Key: key, Value: value})
	}
	return a.ParsePairs(pairs)
}

func (a *EnvAdapter) Emit(node *ir.Node) ([]byte, error) {
	m, order, err := a.emitMap(node)
	if err != nil {
		return nil, err
	}
	buf := strings.Builder{}
	for _, key := range order {
		buf.WriteString(key)
		buf.WriteByte('=')
		buf.WriteString(m[key])
		buf.WriteByte('\n')
	}
	return []byte(buf.String()), nil
}

// EmitMap flattens a tree into environment key/value pairs.
func (a *EnvAdapter) EmitMap(node *ir.Node) (map[string]string, error) {
	m, _, err := a.emitMap(node)
	return m, err
}

func (a *EnvAdapter) emitMap(node *ir.Node) (map[string]string, []string, error) {
	if err := ir.CheckDepth(node, 0); err != nil {
		return nil, nil, err
	}
	if node.Type != ir.ObjectType {
		return nil, nil, &UnsupportedShapeError{
			Format:  format.EnvFormat,
			Path:    node.Path(),
			Message: "top level must be an object",
		}
	}
	m := map[string]string{}
	var order []string
	if err := flattenEnv(node, "", m, &order); err != nil {
		return nil, nil, err
	}
	return m, order, nil
}

func flattenEnv(node *ir.Node, prefix string, dst map[string]string, order *[]string) error {
	switch node.Type {
	case ir.ObjectType:
		seen := make(map[string]string, len(node.Fields))
		for i := range node.Fields {
			key := node.Fields[i].String
			if !validEnvSegment(key) {
				return &UnsupportedShapeError{
					Format:  format.EnvFormat,
					Path:    node.Values[i].Path(),
					Message: "key " + strconv.Quote(key) + " cannot flatten reversibly",
				}
			}
			upper := strings.ToUpper(key)
			if prev, ok := seen[upper]; ok {
				return &UnsupportedShapeError{
					Format: format.EnvFormat,
					Path:   node.Values[i].Path(),
					Message: "keys " + strconv.Quote(prev) + " and " + strconv.Quote(key) +
						" collide as " + upper,
				}
			}
			seen[upper] = key
			if err := flattenEnv(node.Values[i], joinEnv(prefix, upper), dst, order); err != nil {
				return err
			}
		}
		return nil
	case ir.ArrayType:
		for i, v := range node.Values {
			if err := flattenEnv(v, joinEnv(prefix, strconv.Itoa(i)), dst, order); err != nil {
				return err
			}
		}
		return nil
	default:
		s, _ := ScalarString(node)
		if prefix == "" {
			return &UnsupportedShapeError{
				Format:  format.EnvFormat,
				Path:    node.Path(),
				Message: "scalar at top level",
			}
		}
		dst[prefix] = s
		*order = append(*order, prefix)
		return nil
	}
}

func joinEnv(prefix, seg string) string {
	if prefix == "" {
		return seg
	}
	return prefix + "_" + seg
}

// validEnvSegment reports whether a field name survives the flatten/
// unflatten round-trip: no underscores (they mark segment boundaries)
// and not all digits (those read back as sequence indices).
func validEnvSegment(s string) bool {
	if s == "" || strings.Contains(s, "_") {
		return false
	}
	allDigits := true
	for _, r := range s {
		if r < '0' || r > '9' {
			allDigits = false
			break
		}
	}
	return !allDigits
}

// envBuilder accumulates flat entries into a mutable intermediate
// shape before the immutable tree is built.
type envBuilder struct {
	format   format.Format
	keepCase bool
	override bool
	scalar   *ir.Node
	keys     []string
	obj      map[string]*envBuilder
	arr      map[int]*envBuilder
}

func newEnvBuilder() *envBuilder {
	return &envBuilder{format: format.EnvFormat}
}

func (b *envBuilder) child() *envBuilder {
	return &envBuilder{format: b.format, keepCase: b.keepCase, override: b.override}
}

func (b *envBuilder) kind() string {
	switch {
	case b.scalar != nil:
		return "value"
	case b.obj != nil:
		return "object"
	case b.arr != nil:
		return "sequence"
	default:
		return "empty"
	}
}

func (b *envBuilder) put(fullKey string, segs []string, val *ir.Node) error {
	if len(segs) == 0 {
		if b.kind() == "value" && b.override {
			b.scalar = val
			return nil
		}
		if b.kind() != "empty" {
			return &SyntaxError{
				Format:  b.format,
				Message: "conflicting entries for key " + fullKey,
			}
		}
		b.scalar = val
		return nil
	}
	seg := segs[0]
	if seg == "" {
		return &SyntaxError{
			Format:  b.format,
			Message: "empty segment in key " + fullKey,
		}
	}
	if idx, err := strconv.Atoi(seg); err == nil && idx >= 0 {
		if b.obj != nil || b.scalar != nil {
			return &SyntaxError{
				Format:  b.format,
				Message: "key " + fullKey + " indexes into a " + b.kind(),
			}
		}
		if b.arr == nil {
			b.arr = map[int]*envBuilder{}
		}
		sub := b.arr[idx]
		if sub == nil {
			sub = b.child()
			b.arr[idx] = sub
		}
		return sub.put(fullKey, segs[1:], val)
	}
	if b.arr != nil || b.scalar != nil {
		return &SyntaxError{
			Format:  b.format,
			Message: "key " + fullKey + " descends into a " + b.kind(),
		}
	}
	field := seg
	if !b.keepCase {
		field = strings.ToLower(seg)
	}
	if b.obj == nil {
		b.obj = map[string]*envBuilder{}
	}
	sub := b.obj[field]
	if sub == nil {
		sub = b.child()
		b.obj[field] = sub
		b.keys = append(b.keys, field)
	}
	return sub.put(fullKey, segs[1:], val)
}

func (b *envBuilder) build(at string) (*ir.Node, error) {
	switch b.kind() {
	case "value":
		return b.scalar, nil
	case "object":
		kvs := make([]ir.KeyVal, 0, len(b.keys))
		for _, key := range b.keys {
			v, err := b.obj[key].build(at + "." + key)
			if err != nil {
				return nil, err
			}
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: v})
		}
		return ir.FromKeyVals(kvs), nil
	case "sequence":
		idxs := make([]int, 0, len(b.arr))
		for i := range b.arr {
			idxs = append(idxs, i)
		}
		sort.Ints(idxs)
		vs := make([]*ir.Node, 0, len(idxs))
		for want, idx := range idxs {
			if idx != want {
				return nil, &SyntaxError{
					Format:  b.format,
					Message: "sequence " + at + " has a gap before index " + strconv.Itoa(idx),
				}
			}
			v, err := b.arr[idx].build(at + "[" + strconv.Itoa(idx) + "]")
			if err != nil {
				return nil, err
			}
			vs = append(vs, v)
		}
		return ir.FromSlice(vs), nil
	default:
		return ir.FromKeyVals(nil), nil
	}
}
