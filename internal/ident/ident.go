// Package ident provides the stable (library, module, name) handle used
// to cross-reference declarations across the translation pipeline.
package ident

import "strings"

// Location is the (library, module) pair a declaration belongs to,
// computed from the declaration's expansion-location file.
type Location struct {
	Library    string
	ModulePath []string
}

// key returns a comparable string encoding of the location, used so
// Location (and therefore Identifier) can be used as a map key despite
// carrying a slice field.
func (l Location) key() string {
	return l.Library + "\x00" + strings.Join(l.ModulePath, "\x01")
}

// Equal reports whether two locations name the same module.
func (l Location) Equal(o Location) bool {
	return l.key() == o.key()
}

// Module returns the dotted module path, e.g. "Foundation.NSString".
func (l Location) Module() string {
	return strings.Join(l.ModulePath, ".")
}

func (l Location) String() string {
	return l.Library + ":" + l.Module()
}

// Identifier is a value-equal handle: two identifiers with the same
// name and location denote the same item regardless of where they were
// discovered.
type Identifier struct {
	Name     string
	Location Location
}

// Key returns a value usable as a map key for this identifier.
func (id Identifier) Key() string {
	return id.Location.key() + "\x02" + id.Name
}

// Equal reports value equality between two identifiers.
func (id Identifier) Equal(o Identifier) bool {
	return id.Name == o.Name && id.Location.Equal(o.Location)
}

func (id Identifier) String() string {
	return id.Location.String() + "#" + id.Name
}

// External builds the Identifier for a declaration the active
// configuration redirects to an external module (spec.md I1).
func External(name, module string) Identifier {
	return Identifier{
		Name: name,
		Location: Location{
			Library:    "external",
			ModulePath: strings.Split(module, "."),
		},
	}
}
