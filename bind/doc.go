// Package bind maps merged configuration trees onto Go structures
// according to a schema, and back.
//
// Binding is schema-driven: the schema decides which fields exist,
// their kinds, defaults and validators, and the coercion table decides
// which scalar conversions are allowed. Problems with the data are
// reported as accumulated [schema.Violations], never as a first-error
// abort, so one run surfaces everything wrong with a configuration.
package bind
