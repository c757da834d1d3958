// Package objcrt is the Go-side Objective-C runtime the generated
// bindings target: message sending over goffi, retained/autoreleased
// smart handles, selector/class lookup, NSString bridging, and block
// literals backed by Go closures.
//
//go:build darwin

package objcrt

// ID is an Objective-C object pointer.
type ID uintptr

// SEL is a registered Objective-C selector.
type SEL uintptr

// Class is an Objective-C class pointer, itself a valid ID.
type Class uintptr

// Nil reports whether id is the null object pointer.
func (id ID) Nil() bool { return id == 0 }
