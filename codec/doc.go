// Package codec holds one format adapter per supported configuration
// format: JSON, YAML, XML, environment variables and CLI flags.
//
// Every adapter implements the same small interface, parse and emit
// against the ir.Node tree, and lives in a static registry; adding a
// format means implementing Adapter and registering it, the merge and
// bind engines never change.
//
// Adapters are pure functions over their input. Parse either returns a
// complete tree or a *SyntaxError carrying position information where
// the underlying parser provides it; it never returns a partial tree.
// Emit either returns bytes or an *UnsupportedShapeError naming the
// path of the construct the target format cannot express.
//
// The flat formats (env, flags) additionally infer scalar types from
// bare strings; see InferScalar. That inference is best-effort only
// and is overridden by schema-directed coercion during binding.
package codec
