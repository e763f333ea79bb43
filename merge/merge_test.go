package merge

import (
	"errors"
	"strings"
	"testing"

	"github.com/uconfig/go-uconfig/ir"
)

func obj(kvs ...ir.KeyVal) *ir.Node {
	return ir.FromKeyVals(kvs)
}

func kv(k string, v *ir.Node) ir.KeyVal {
	return ir.KeyVal{Key: ir.FromString(k), Val: v}
}

func in(name string, rank int, tree *ir.Node) Input {
	return Input{Source: Source{Name: name, Rank: rank}, Tree: tree}
}

func TestMerge(t *testing.T) {
	tests := []struct {
		name   string
		inputs []Input
		want   *ir.Node
	}{
		{
			name:   "no inputs yields empty object",
			inputs: nil,
			want:   obj(),
		},
		{
			name: "single input passes through",
			inputs: []Input{
				in("a", 0, obj(kv("x", ir.FromInt(1)))),
			},
			want: obj(kv("x", ir.FromInt(1))),
		},
		{
			name: "higher rank wins scalars",
			inputs: []Input{
				in("low", 0, obj(kv("x", ir.FromInt(1)))),
				in("high", 1, obj(kv("x", ir.FromInt(2)))),
			},
			want: obj(kv("x", ir.FromInt(2))),
		},
		{
			name: "rank order beats input order",
			inputs: []Input{
				in("high", 1, obj(kv("x", ir.FromInt(2)))),
				in("low", 0, obj(kv("x", ir.FromInt(1)))),
			},
			want: obj(kv("x", ir.FromInt(2))),
		},
		{
			name: "equal rank last wins",
			inputs: []Input{
				in("first", 5, obj(kv("x", ir.FromInt(1)))),
				in("second", 5, obj(kv("x", ir.FromInt(2)))),
			},
			want: obj(kv("x", ir.FromInt(2))),
		},
		{
			name: "objects union",
			inputs: []Input{
				in("low", 0, obj(kv("a", ir.FromInt(1)), kv("b", ir.FromInt(2)))),
				in("high", 1, obj(kv("b", ir.FromInt(3)), kv("c", ir.FromInt(4)))),
			},
			want: obj(
				kv("a", ir.FromInt(1)),
				kv("b", ir.FromInt(3)),
				kv("c", ir.FromInt(4)),
			),
		},
		{
			name: "nested objects recurse",
			inputs: []Input{
				in("low", 0, obj(kv("s", obj(
					kv("host", ir.FromString("h")),
					kv("port", ir.FromInt(80)),
				)))),
				in("high", 1, obj(kv("s", obj(
					kv("port", ir.FromInt(443)),
				)))),
			},
			want: obj(kv("s", obj(
				kv("host", ir.FromString("h")),
				kv("port", ir.FromInt(443)),
			))),
		},
		{
			name: "sequences replace wholesale",
			inputs: []Input{
				in("low", 0, obj(kv("xs", ir.FromSlice([]*ir.Node{
					ir.FromInt(1), ir.FromInt(2), ir.FromInt(3),
				})))),
				in("high", 1, obj(kv("xs", ir.FromSlice([]*ir.Node{
					ir.FromInt(9),
				})))),
			},
			want: obj(kv("xs", ir.FromSlice([]*ir.Node{ir.FromInt(9)}))),
		},
		{
			name: "kind mismatch takes higher rank",
			inputs: []Input{
				in("low", 0, obj(kv("x", obj(kv("y", ir.FromInt(1)))))),
				in("high", 1, obj(kv("x", ir.FromString("flat")))),
			},
			want: obj(kv("x", ir.FromString("flat"))),
		},
		{
			name: "explicit null overrides",
			inputs: []Input{
				in("low", 0, obj(kv("x", ir.FromInt(1)))),
				in("high", 1, obj(kv("x", ir.Null()))),
			},
			want: obj(kv("x", ir.Null())),
		},
		{
			name: "absence leaves values",
			inputs: []Input{
				in("low", 0, obj(kv("x", ir.FromInt(1)))),
				in("high", 1, obj()),
			},
			want: obj(kv("x", ir.FromInt(1))),
		},
		{
			name: "nil tree skipped",
			inputs: []Input{
				in("low", 0, obj(kv("x", ir.FromInt(1)))),
				in("empty", 1, nil),
			},
			want: obj(kv("x", ir.FromInt(1))),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Merge(tt.inputs)
			if err != nil {
				t.Fatal(err)
			}
			if !ir.Equal(got, tt.want) {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeKeyOrder(t *testing.T) {
	got, err := Merge([]Input{
		in("low", 0, obj(kv("z", ir.FromInt(1)), kv("a", ir.FromInt(2)))),
		in("high", 1, obj(kv("m", ir.FromInt(3)), kv("a", ir.FromInt(4)))),
	})
	if err != nil {
		t.Fatal(err)
	}
	// base order first, then over-only keys in over's order
	want := []string{"z", "a", "m"}
	if len(got.Fields) != len(want) {
		t.Fatalf("got %d fields, want %d", len(got.Fields), len(want))
	}
	for i, k := range want {
		if got.Fields[i].String != k {
			t.Errorf("field %d: got %q, want %q", i, got.Fields[i].String, k)
		}
	}
}

func TestMergeDoesNotMutateInputs(t *testing.T) {
	low := obj(kv("s", obj(kv("a", ir.FromInt(1)))))
	high := obj(kv("s", obj(kv("b", ir.FromInt(2)))))
	lowCopy := low.Clone()
	highCopy := high.Clone()

	if _, err := Merge([]Input{in("low", 0, low), in("high", 1, high)}); err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(low, lowCopy) || !ir.Equal(high, highCopy) {
		t.Error("merge mutated an input tree")
	}
}

func TestMergeAssociativeForRankedChain(t *testing.T) {
	a := obj(kv("x", ir.FromInt(1)), kv("s", obj(kv("p", ir.FromInt(1)))))
	b := obj(kv("y", ir.FromInt(2)), kv("s", obj(kv("q", ir.FromInt(2)))))
	c := obj(kv("x", ir.FromInt(3)), kv("s", obj(kv("p", ir.FromInt(3)))))

	all, err := Merge([]Input{in("a", 0, a), in("b", 1, b), in("c", 2, c)})
	if err != nil {
		t.Fatal(err)
	}
	ab, err := Merge([]Input{in("a", 0, a), in("b", 1, b)})
	if err != nil {
		t.Fatal(err)
	}
	abc, err := Merge([]Input{in("ab", 0, ab), in("c", 1, c)})
	if err != nil {
		t.Fatal(err)
	}
	if !ir.Equal(all, abc) {
		t.Errorf("merge(a,b,c) != merge(merge(a,b),c):\n%+v\n%+v", all, abc)
	}
}

func TestMergeDepthLimit(t *testing.T) {
	deep := ir.FromInt(1)
	for i := 0; i < 10; i++ {
		deep = obj(kv("k", deep))
	}
	_, err := Merge([]Input{in("deep", 0, deep)}, WithMaxDepth(3))
	if !errors.Is(err, ir.ErrDepthExceeded) {
		t.Fatalf("got %v, want ErrDepthExceeded", err)
	}
	if err == nil || !strings.Contains(err.Error(), "deep") {
		t.Errorf("error must name the source: %v", err)
	}
}
