// Package merge combines an ordered list of configuration trees, one
// per source, into a single tree under a deterministic precedence
// policy.
//
// Sources are processed in ascending priority rank so each later
// source can override earlier ones; rank ties are broken by input
// order, last source wins. The merge itself is a recursive overlay:
// objects union by key and recurse on shared keys, sequences are
// atomic (the higher-priority sequence replaces the lower one
// wholesale), and in every other case, including explicit null, the
// higher-priority node wins outright. An explicit null therefore
// unsets a lower-priority value, while a key's total absence leaves it
// untouched.
package merge

import (
	"fmt"
	"sort"

	"github.com/uconfig/go-uconfig/ir"
)

// Source names one origin of configuration data. Rank orders
// precedence (higher wins); Name is used only for diagnostics.
type Source struct {
	Name string
	Rank int
}

func (s Source) String() string {
	return fmt.Sprintf("%s(rank %d)", s.Name, s.Rank)
}

// Input pairs a source with its parsed tree.
type Input struct {
	Source Source
	Tree   *ir.Node
}

type config struct {
	maxDepth int
}

type Option func(*config)

// WithMaxDepth bounds recursion while merging; deeper trees fail with
// ir.ErrDepthExceeded. Zero means ir.DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *config) { c.maxDepth = n }
}

// Merge combines inputs into one tree. Inputs are not mutated; the
// result is a fresh tree. Merging no inputs yields an empty object.
func Merge(inputs []Input, opts ...Option) (*ir.Node, error) {
	cfg := &config{maxDepth: ir.DefaultMaxDepth}
	for _, opt := range opts {
		opt(cfg)
	}

	// stable sort keeps input order within equal ranks, so the
	// documented "last source wins" tie-break falls out of the
	// left-to-right fold below
	ordered := make([]Input, len(inputs))
	copy(ordered, inputs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source.Rank < ordered[j].Source.Rank
	})

	res := ir.FromKeyVals(nil)
	for _, in := range ordered {
		if in.Tree == nil {
			continue
		}
		if err := ir.CheckDepth(in.Tree, cfg.maxDepth); err != nil {
			return nil, fmt.Errorf("source %s: %w", in.Source, err)
		}
		res = overlay(res, in.Tree)
	}
	return res, nil
}

// overlay merges over onto base, returning a new tree. Neither
// argument is mutated.
func overlay(base, over *ir.Node) *ir.Node {
	if base.Type == ir.ObjectType && over.Type == ir.ObjectType {
		return overlayObjects(base, over)
	}
	// sequences replace wholesale, scalars and kind mismatches take
	// the overriding node, explicit null included
	return over.Clone()
}

func overlayObjects(base, over *ir.Node) *ir.Node {
	overMap := ir.ToMap(over)
	taken := make(map[string]bool, len(overMap))

	kvs := make([]ir.KeyVal, 0, len(base.Fields)+len(over.Fields))
	for i := range base.Fields {
		key := base.Fields[i].String
		bv := base.Values[i]
		ov, present := overMap[key]
		if !present {
			kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: bv.Clone()})
			continue
		}
		taken[key] = true
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: overlay(bv, ov)})
	}
	// keys only in the overriding source append in its order
	for i := range over.Fields {
		key := over.Fields[i].String
		if taken[key] {
			continue
		}
		kvs = append(kvs, ir.KeyVal{Key: ir.FromString(key), Val: over.Values[i].Clone()})
	}
	return ir.FromKeyVals(kvs)
}
