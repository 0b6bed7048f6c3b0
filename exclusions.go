package corvid

import "reflect"

// Exclusions is the pair (types, namespaces) used to filter discovery
// candidates, per spec.md §4.3. A type is excluded iff its
// reflect.Type is in the type set, or its package path is in the
// namespace set — Go has no "namespace" keyword, so a type's package
// path (reflect.Type.PkgPath) stands in for it, matching the teacher's
// habit of using the standard library's own reflective vocabulary
// wherever the spec reaches for something Go doesn't natively have.
type Exclusions struct {
	types      map[reflect.Type]bool
	namespaces map[string]bool
	readOnly   bool
}

// NewExclusions returns an empty, mutable Exclusions set.
func NewExclusions() *Exclusions {
	return &Exclusions{
		types:      make(map[reflect.Type]bool),
		namespaces: make(map[string]bool),
	}
}

// ExcludeType marks t as excluded from discovery. t is typically
// obtained via reflect.TypeOf((*T)(nil)).Elem().
func (e *Exclusions) ExcludeType(t reflect.Type) {
	e.mustBeMutable()
	e.types[t] = true
}

// ExcludeNamespace marks every type in package path ns as excluded.
func (e *Exclusions) ExcludeNamespace(ns string) {
	e.mustBeMutable()
	e.namespaces[ns] = true
}

// IsExcluded reports whether t is excluded by type identity or by its
// package path.
func (e *Exclusions) IsExcluded(t reflect.Type) bool {
	if e.types[t] {
		return true
	}
	return e.namespaces[t.PkgPath()]
}

// AsReadOnly returns a snapshot of e that panics on any further
// mutation attempt, per spec.md §4.3's `asReadOnly()`.
func (e *Exclusions) AsReadOnly() *Exclusions {
	types := make(map[reflect.Type]bool, len(e.types))
	for k, v := range e.types {
		types[k] = v
	}
	namespaces := make(map[string]bool, len(e.namespaces))
	for k, v := range e.namespaces {
		namespaces[k] = v
	}
	return &Exclusions{types: types, namespaces: namespaces, readOnly: true}
}

func (e *Exclusions) mustBeMutable() {
	if e.readOnly {
		panic("corvid: mutation of a read-only Exclusions snapshot")
	}
}
