package stmt

import "github.com/gogpu/cocoagen/internal/attrparse"

// attributeFacts is the set of macro-driven facts scanAttributes
// recovers from a cursor's raw UnexposedAttr children (spec.md §4.6).
type attributeFacts struct {
	avail                Availability
	wholeDeclUnavailable bool
	renamedTo            *string
	refined              bool
	swiftUnavailable     bool
	explicitFamily       *MethodFamily
	returnsRetained      bool
	returnsNotRetained   bool
	returnsInnerPointer  bool
	bridged              bool
}

func scanAttributes(cursor cursorWithAttributes) attributeFacts {
	var f attributeFacts
	for _, raw := range cursor.Attributes() {
		if containsObjCBridge(raw) {
			f.bridged = true
		}

		_, attrs := attrparse.ParseUnexposed(raw)
		for _, a := range attrs {
			switch a.Kind {
			case attrparse.UnexposedAPIAvailable:
				applyAvailable(&f.avail, a.Args)
			case attrparse.UnexposedAPIUnavailable:
				applyUnavailable(&f.avail, a.Args)
				if a.Args == "" {
					f.wholeDeclUnavailable = true
				}
			case attrparse.UnexposedAPIDeprecated:
				applyDeprecated(&f.avail, a.Args, false)
			case attrparse.UnexposedAPIDeprecatedWithReplacement:
				applyDeprecated(&f.avail, a.Args, true)
			case attrparse.UnexposedSwiftName:
				name := a.Args
				f.renamedTo = &name
			case attrparse.UnexposedRefinedForSwift:
				f.refined = true
			case attrparse.UnexposedSwiftUnavailable:
				f.swiftUnavailable = true
			case attrparse.UnexposedReturnsRetained:
				f.returnsRetained = true
			case attrparse.UnexposedReturnsNotRetained:
				f.returnsNotRetained = true
			case attrparse.UnexposedReturnsInnerPointer:
				f.returnsInnerPointer = true
			case attrparse.UnexposedMethodFamily:
				if fam, ok := methodFamilyFromMacro(a.Args); ok {
					famCopy := fam
					f.explicitFamily = &famCopy
				}
			}
		}
	}
	return f
}

// cursorWithAttributes is the narrow slice of clangx.Cursor
// scanAttributes needs, kept separate from the full interface so this
// file (and its tests) stay decoupled from clangx's other methods.
type cursorWithAttributes interface {
	Attributes() []string
}

func containsObjCBridge(raw string) bool {
	return indexOfWord(raw, "objc_bridge") >= 0
}

func indexOfWord(s, word string) int {
	for i := 0; i+len(word) <= len(s); i++ {
		if s[i:i+len(word)] == word {
			return i
		}
	}
	return -1
}
