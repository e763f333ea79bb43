// Package ir provides the format-agnostic intermediate representation
// for configuration data.
//
// # Overview
//
// Every supported source format (JSON, YAML, XML, environment
// variables, CLI flags) parses into an ir.Node tree and emits from
// one; nothing outside the codec package touches raw format syntax.
// The merger and binder operate exclusively on these trees.
//
// The IR is a recursive tagged union; values are placed in fields
// depending on the node type:
//
//   - NullType: null value
//   - BoolType: boolean (true/false)
//   - NumberType: numeric value (int64 or float64, distinction kept)
//   - StringType: string value
//   - ArrayType: ordered list of nodes
//   - ObjectType: key-value pairs (fields and values)
//
// # Creating Nodes
//
// Use constructor functions to create nodes:
//
//	node := ir.FromString("hello")
//	num := ir.FromInt(42)
//	flag := ir.FromBool(true)
//	obj := ir.FromMap(map[string]*ir.Node{
//	    "key": ir.FromString("value"),
//	})
//	arr := ir.FromSlice([]*ir.Node{
//	    ir.FromInt(1),
//	    ir.FromInt(2),
//	})
//
// # Structure Constraints
//
// For ObjectType nodes, Fields[i] is the key for the value at
// Values[i], so there are always as many fields as values. Keys are
// StringType nodes and unique within one object; insertion order is
// preserved for emission fidelity. NumberType nodes carry exactly one
// of Int64 or Float64.
//
// # Immutability
//
// Trees are built once and never mutated afterwards: merge and bind
// produce new trees rather than editing in place, which is what makes
// multi-source merge ordering deterministic and every operation safe
// to call concurrently. Clone before mutating if you must build a tree
// incrementally.
//
// # Paths
//
// Nodes report their position as a dotted/indexed path expression:
//
//	p := node.Path() // e.g., "servers[0].host"
//
// and trees resolve such expressions:
//
//	child, err := root.GetPathString("servers[0].host")
//
// Resolution failures are ir.ErrPathNotFound or ir.ErrTypeMismatch,
// both wrapped with the offending path.
//
// # Comparison
//
// Compare gives a total order (positional for objects); Equal is the
// semantic equality used by tests and the merge engine: arrays are
// order-sensitive, object keys are not.
package ir
