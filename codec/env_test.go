package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/uconfig/go-uconfig/ir"
)

func TestEnvParsePairs(t *testing.T) {
	a := &EnvAdapter{}
	n, err := a.ParsePairs([]Pair{
		{Key: "SERVER_HOST", Value: "example.com"},
		{Key: "SERVER_PORT", Value: "8080"},
		{Key: "DEBUG", Value: "true"},
		{Key: "RATIO", Value: "0.5"},
	})
	require.NoError(t, err)
	server := ir.Get(n, "server")
	require.NotNil(t, server)
	assert.Equal(t, "example.com", ir.Get(server, "host").String)
	assert.Equal(t, int64(8080), *ir.Get(server, "port").Int64)
	assert.True(t, ir.Get(n, "debug").Bool)
	assert.Equal(t, 0.5, *ir.Get(n, "ratio").Float64)
}

func TestEnvDigitSegmentsBecomeSequences(t *testing.T) {
	a := &EnvAdapter{}
	n, err := a.ParsePairs([]Pair{
		{Key: "SERVERS_0_HOST", Value: "a"},
		{Key: "SERVERS_1_HOST", Value: "b"},
		{Key: "TAGS_0", Value: "x"},
		{Key: "TAGS_1", Value: "y"},
	})
	require.NoError(t, err)
	servers := ir.Get(n, "servers")
	require.Equal(t, ir.ArrayType, servers.Type)
	require.Len(t, servers.Values, 2)
	assert.Equal(t, "b", ir.Get(servers.Values[1], "host").String)
	tags := ir.Get(n, "tags")
	require.Len(t, tags.Values, 2)
	assert.Equal(t, "x", tags.Values[0].String)
}

func TestEnvNullValue(t *testing.T) {
	a := &EnvAdapter{}
	n, err := a.ParsePairs([]Pair{{Key: "HOST", Value: "null"}})
	require.NoError(t, err)
	// an explicit null from a flat source participates in the
	// merger's null-override rule
	assert.Equal(t, ir.NullType, ir.Get(n, "host").Type)
}

func TestEnvSequenceGapRejected(t *testing.T) {
	a := &EnvAdapter{}
	_, err := a.ParsePairs([]Pair{
		{Key: "TAGS_0", Value: "x"},
		{Key: "TAGS_2", Value: "y"},
	})
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestEnvConflictingKeysRejected(t *testing.T) {
	a := &EnvAdapter{}
	for _, pairs := range [][]Pair{
		{{Key: "A", Value: "1"}, {Key: "A_B", Value: "2"}},
		{{Key: "A_B", Value: "1"}, {Key: "A_0", Value: "2"}},
		{{Key: "A", Value: "1"}, {Key: "A", Value: "2"}},
	} {
		_, err := a.ParsePairs(pairs)
		var syn *SyntaxError
		require.ErrorAs(t, err, &syn, "pairs %v", pairs)
	}
}

func TestEnvParseDotenv(t *testing.T) {
	a := &EnvAdapter{}
	n, err := a.Parse([]byte(`
# comment
SERVER_HOST=example.com
QUOTED="hello world"

SINGLE='one two'
`))
	require.NoError(t, err)
	assert.Equal(t, "example.com", ir.Get(ir.Get(n, "server"), "host").String)
	assert.Equal(t, "hello world", ir.Get(n, "quoted").String)
	assert.Equal(t, "one two", ir.Get(n, "single").String)
}

func TestEnvParseBadLine(t *testing.T) {
	a := &EnvAdapter{}
	_, err := a.Parse([]byte("JUST_A_KEY\n"))
	var syn *SyntaxError
	require.ErrorAs(t, err, &syn)
}

func TestEnvParseEnvironPrefix(t *testing.T) {
	a := &EnvAdapter{}
	n, err := a.ParseEnviron([]string{
		"APP_SERVER_HOST=h",
		"APP_DEBUG=true",
		"HOME=/root",
		"PATH=/bin",
	}, "APP_")
	require.NoError(t, err)
	require.Len(t, n.Fields, 2)
	assert.Equal(t, "h", ir.Get(ir.Get(n, "server"), "host").String)
}

func TestEnvEmitMap(t *testing.T) {
	a := &EnvAdapter{}
	tree := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("server"), Val: ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString("host"), Val: ir.FromString("h")},
			{Key: ir.FromString("port"), Val: ir.FromInt(80)},
		})},
		{Key: ir.FromString("tags"), Val: ir.FromSlice([]*ir.Node{
			ir.FromString("x"), ir.FromString("y"),
		})},
	})
	m, err := a.EmitMap(tree)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{
		"SERVER_HOST": "h",
		"SERVER_PORT": "80",
		"TAGS_0":      "x",
		"TAGS_1":      "y",
	}, m)
}

func TestEnvEmitParseRoundTrip(t *testing.T) {
	a := &EnvAdapter{}
	orig := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("host"), Val: ir.FromString("example.com")},
		{Key: ir.FromString("servers"), Val: ir.FromSlice([]*ir.Node{
			ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString("port"), Val: ir.FromInt(80)},
			}),
			ir.FromKeyVals([]ir.KeyVal{
				{Key: ir.FromString("port"), Val: ir.FromInt(81)},
			}),
		})},
		{Key: ir.FromString("ratio"), Val: ir.FromFloat(1)},
	})
	data, err := a.Emit(orig)
	require.NoError(t, err)
	back, err := a.Parse(data)
	require.NoError(t, err)
	assert.True(t, ir.Equal(orig, back), "emitted:\n%s", data)
}

func TestEnvEmitIrreversibleKeys(t *testing.T) {
	a := &EnvAdapter{}
	for _, key := range []string{"has_underscore", "123", ""} {
		tree := ir.FromKeyVals([]ir.KeyVal{
			{Key: ir.FromString(key), Val: ir.FromString("v")},
		})
		_, err := a.Emit(tree)
		var shape *UnsupportedShapeError
		require.ErrorAs(t, err, &shape, "key %q", key)
	}
}

func TestEnvEmitCaseCollidingKeys(t *testing.T) {
	a := &EnvAdapter{}
	tree := ir.FromKeyVals([]ir.KeyVal{
		{Key: ir.FromString("host"), Val: ir.FromString("a")},
		{Key: ir.FromString("Host"), Val: ir.FromString("b")},
	})
	_, err := a.Emit(tree)
	var shape *UnsupportedShapeError
	require.ErrorAs(t, err, &shape)
	assert.Contains(t, shape.Message, "HOST")
}

func TestEnvEmitTopLevelMustBeObject(t *testing.T) {
	a := &EnvAdapter{}
	_, err := a.Emit(ir.FromString("scalar"))
	var shape *UnsupportedShapeError
	require.ErrorAs(t, err, &shape)
}
