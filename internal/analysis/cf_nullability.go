package analysis

import (
	"strings"

	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/library"
	"github.com/gogpu/cocoagen/internal/stmt"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// upgradeCFArgumentNullability implements spec.md §4.7 step 2: a free
// function whose first argument is a CF typedef, and whose own name
// textually names that typedef (minus the "Ref" suffix the typedef
// rename policy already stripped), almost always requires a non-nil
// instance of that type — CFArrayGetCount, CFStringGetLength, and
// so on always crash on a null first argument in practice, even though
// the header itself carries no _Nonnull annotation.
func upgradeCFArgumentNullability(lib *library.Library) {
	for _, mod := range lib.Modules() {
		for i, s := range mod.Statements {
			fn, ok := s.(stmt.FnDecl)
			if !ok || len(fn.Args) == 0 {
				continue
			}
			td, ok := fn.Args[0].Type.(tygraph.TypeDefTy)
			if !ok || !td.IsCF {
				continue
			}
			if cfNullabilityBlocklist[td.ID.Name] {
				continue
			}
			if td.Nullability != ident.Unspecified {
				continue
			}
			if !strings.Contains(fn.ID.Name, td.ID.Name) {
				continue
			}
			td.Nullability = ident.NonNull
			args := append([]stmt.MethodArg(nil), fn.Args...)
			args[0] = stmt.MethodArg{Name: args[0].Name, Type: td}
			fn.Args = args
			mod.Statements[i] = fn
		}
	}
}
