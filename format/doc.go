// Package format enumerates the configuration source formats the
// engine understands and maps them to and from names and file
// extensions.
//
// # Related Packages
//
//   - github.com/uconfig/go-uconfig/codec - One adapter per format
//   - github.com/uconfig/go-uconfig/ir - The tree all adapters share
package format
