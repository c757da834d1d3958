package stmt

import "strings"

// inferFamily implements Clang's own method-family inference rule: a
// prefix match ending on a word boundary (the next rune, if any, is not
// a lowercase letter), plus three selectors that match by exact name
// rather than prefix. The caller (buildMethod) runs inferFamily first,
// then replaces its result with an explicit NS_METHOD_FAMILY macro and
// then with a configured method-family override, where present.
func inferFamily(selector string) MethodFamily {
	switch selector {
	case "retain":
		return FamilyRetain
	case "autorelease":
		return FamilyAutorelease
	case "self":
		return FamilySelf
	}

	for prefix, family := range familyPrefixes {
		if hasWordPrefix(selector, prefix) {
			return family
		}
	}
	return FamilyNone
}

var familyPrefixes = map[string]MethodFamily{
	"init":        FamilyInit,
	"alloc":       FamilyAlloc,
	"new":         FamilyNew,
	"mutableCopy": FamilyMutableCopy,
	"copy":        FamilyCopy,
}

func hasWordPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	if len(s) == len(prefix) {
		return true
	}
	next := s[len(prefix)]
	return !(next >= 'a' && next <= 'z')
}

// methodFamilyFromMacro maps an NS_METHOD_FAMILY(...) argument to the
// family it forces, or FamilyNone for "none" (explicit opt-out).
func methodFamilyFromMacro(arg string) (MethodFamily, bool) {
	switch strings.TrimSpace(arg) {
	case "none":
		return FamilyNone, true
	case "init":
		return FamilyInit, true
	case "alloc":
		return FamilyAlloc, true
	case "new":
		return FamilyNew, true
	case "copy":
		return FamilyCopy, true
	case "mutableCopy":
		return FamilyMutableCopy, true
	default:
		return FamilyNone, false
	}
}
