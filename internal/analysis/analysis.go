// Package analysis implements the global, whole-library passes
// spec.md §4.7 runs once per-triple parsing has produced a complete
// library: related-result-type propagation, the CF first-argument
// nullability heuristic, the required-items transitive closure, and
// reference verification.
package analysis

import "github.com/gogpu/cocoagen/internal/library"

// Run executes spec.md §4.7's four analysis steps in order. Step 3
// depends on step 1 (related-result rewriting can introduce a new
// Self_ reference that step 3's closure must account for); step 4
// depends on step 3 (it reports exactly the references step 3's
// resolution pass could not find a declaration for). Every statement
// in lib is rewritten in place; Run returns the reference-verification
// failures, if any.
func Run(lib *library.Library) []error {
	propagateRelatedResultType(lib)
	upgradeCFArgumentNullability(lib)
	unresolved := computeRequiredItems(lib)
	return verifyReferences(unresolved)
}
