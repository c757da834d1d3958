package analysis

import (
	"fmt"

	"github.com/gogpu/cocoagen/internal/ident"
)

// UnresolvedReferenceError reports a reference that names no
// declaration anywhere in the library and was not redirected to an
// external module by configuration (spec.md §4.7 step 4).
type UnresolvedReferenceError struct {
	Ref ident.Identifier
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("unresolved reference %q in %s", e.Ref.Name, e.Ref.Location)
}

func verifyReferences(unresolved []ident.Identifier) []error {
	if len(unresolved) == 0 {
		return nil
	}
	errs := make([]error, len(unresolved))
	for i, ref := range unresolved {
		errs[i] = &UnresolvedReferenceError{Ref: ref}
	}
	return errs
}
