package analysis

import "github.com/gogpu/cocoagen/internal/stmt"

// relatedResultFamilies is the method-family set spec.md §4.7 step 1
// names: every method in one of these families that returns plain `id`
// gets its pointee rewritten to Self_.
var relatedResultFamilies = map[stmt.MethodFamily]bool{
	stmt.FamilyInit:        true,
	stmt.FamilyAlloc:       true,
	stmt.FamilyNew:         true,
	stmt.FamilyCopy:        true,
	stmt.FamilyMutableCopy: true,
	stmt.FamilyAutorelease: true,
	stmt.FamilyRetain:      true,
	stmt.FamilySelf:        true,
}

// cfNullabilityBlocklist names CF typedefs spec.md §4.7 step 2 exempts
// from the first-argument NonNull upgrade (hand-blocked because these
// arguments are routinely nil by convention: the default allocator, an
// optional OpenDirectory session).
var cfNullabilityBlocklist = map[string]bool{
	"CFAllocator": true,
	"ODSession":   true,
}
