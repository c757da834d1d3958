package ident

// ThreadSafety records the actor/sendability facts spec.md §3
// associates with an ItemRef.
type ThreadSafety struct {
	MainThreadOnly bool
	// Sendable is nil when unknown, matching spec.md's ?bool.
	Sendable *bool
	Explicit bool
}

// Sendable returns a pointer to v (never nil), a helper for callers
// that need to construct a ThreadSafety literal tersely.
func Sendable(v bool) *bool { return &v }

// ItemRef is produced once per referenced declaration. RequiredItems is
// the transitive set of identifiers any emission of this ref must
// import (spec.md §3).
type ItemRef struct {
	ID            Identifier
	ThreadSafety  ThreadSafety
	RequiredItems []Identifier
}

// AddRequired appends id to r's required-items set if not already
// present, preserving first-seen order (the same discipline
// library.Module statements use, spec.md §5 "Ordering guarantees").
func (r *ItemRef) AddRequired(id Identifier) {
	for _, existing := range r.RequiredItems {
		if existing.Equal(id) {
			return
		}
	}
	r.RequiredItems = append(r.RequiredItems, id)
}
