package codec

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uconfig/go-uconfig/ir"
)

func TestJSONParseScalars(t *testing.T) {
	a := &JSONAdapter{}
	tests := []struct {
		in   string
		want *ir.Node
	}{
		{`null`, ir.Null()},
		{`true`, ir.FromBool(true)},
		{`false`, ir.FromBool(false)},
		{`42`, ir.FromInt(42)},
		{`-7`, ir.FromInt(-7)},
		{`1.5`, ir.FromFloat(1.5)},
		{`1e3`, ir.FromFloat(1000)},
		{`1.0`, ir.FromFloat(1)},
		{`"hi"`, ir.FromString("hi")},
		{`"42"`, ir.FromString("42")},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := a.Parse([]byte(tt.in))
			require.NoError(t, err)
			assert.True(t, ir.Equal(got, tt.want), "got %+v, want %+v", got, tt.want)
		})
	}
}

func TestJSONIntFloatDistinction(t *testing.T) {
	a := &JSONAdapter{}
	n, err := a.Parse([]byte(`{"i": 2, "f": 2.0}`))
	require.NoError(t, err)
	i := ir.Get(n, "i")
	f := ir.Get(n, "f")
	require.NotNil(t, i.Int64, "2 must parse as integer")
	require.NotNil(t, f.Float64, "2.0 must parse as float")
}

func TestJSONParseKeyOrder(t *testing.T) {
	a := &JSONAdapter{}
	n, err := a.Parse([]byte(`{"z": 1, "a": 2, "m": 3}`))
	require.NoError(t, err)
	keys := make([]string, len(n.Fields))
	for i, f := range n.Fields {
		keys[i] = f.String
	}
	assert.Equal(t, []string{"z", "a", "m"}, keys)
}

func TestJSONDuplicateKeyLastWins(t *testing.T) {
	a := &JSONAdapter{}
	n, err := a.Parse([]byte(`{"k": 1, "k": 2}`))
	require.NoError(t, err)
	require.Len(t, n.Fields, 1)
	assert.Equal(t, int64(2), *ir.Get(n, "k").Int64)
}

func TestJSONSyntaxErrorPosition(t *testing.T) {
	a := &JSONAdapter{}
	_, err := a.Parse([]byte("{\n  \"a\": 1,\n  oops\n}"))
	require.Error(t, err)
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
	assert.Equal(t, 3, syn.Line)
}

func TestJSONEmitRoundTrip(t *testing.T) {
	a := &JSONAdapter{}
	docs := []string{
		`{"host": "example.com", "port": 80, "ratio": 0.5, "on": true, "none": null}`,
		`{"nested": {"list": [1, 2.5, "three", null], "empty": {}, "none": []}}`,
		`[1, [2, [3]]]`,
		`"top level string"`,
	}
	for _, doc := range docs {
		t.Run(doc, func(t *testing.T) {
			orig, err := a.Parse([]byte(doc))
			require.NoError(t, err)
			out, err := a.Emit(orig)
			require.NoError(t, err)
			back, err := a.Parse(out)
			require.NoError(t, err)
			assert.True(t, ir.Equal(orig, back), "emitted:\n%s", out)
		})
	}
}

func TestJSONEmitIntegralFloatKeepsFraction(t *testing.T) {
	a := &JSONAdapter{}
	out, err := a.Emit(ir.FromFloat(30))
	require.NoError(t, err)
	assert.Equal(t, "30.0\n", string(out))
}

func TestJSONEmitNaNUnsupported(t *testing.T) {
	a := &JSONAdapter{}
	nan := 0.0
	nan = nan / nan
	tree := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("x"), Val: ir.FromFloat(nan)},
	})
	_, err := a.Emit(tree)
	var shape *UnsupportedShapeError
	require.ErrorAs(t, err, &shape)
	assert.Equal(t, "x", shape.Path)
}

func TestJSONDepthLimit(t *testing.T) {
	deep := ir.FromInt(1)
	for range ir.DefaultMaxDepth + 1 {
		deep = ir.FromSlice([]*ir.Node{deep})
	}
	a := &JSONAdapter{}
	_, err := a.Emit(deep)
	assert.True(t, errors.Is(err, ir.ErrDepthExceeded), "got %v", err)
}
