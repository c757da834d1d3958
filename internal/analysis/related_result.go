package analysis

import (
	"github.com/gogpu/cocoagen/internal/library"
	"github.com/gogpu/cocoagen/internal/stmt"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// propagateRelatedResultType implements spec.md §4.7 step 1: every
// method whose return is plain `id` and whose selector belongs to the
// related-result-type families rewrites the returned pointer's pointee
// to Self_, so the generated binding returns the receiver's own type
// instead of the unspecialized object type.
func propagateRelatedResultType(lib *library.Library) {
	for _, mod := range lib.Modules() {
		for i, s := range mod.Statements {
			mod.Statements[i] = rewriteRelatedResult(s)
		}
	}
}

func rewriteRelatedResult(s stmt.Statement) stmt.Statement {
	switch v := s.(type) {
	case stmt.ClassDecl:
		v.Methods = rewriteMethodResults(v.Methods)
		v.CategoryMethods = rewriteMethodResults(v.CategoryMethods)
		return v
	case stmt.ProtocolDecl:
		v.Methods = rewriteMethodResults(v.Methods)
		return v
	case stmt.CategoryDecl:
		v.Methods = rewriteMethodResults(v.Methods)
		return v
	default:
		return s
	}
}

func rewriteMethodResults(methods []stmt.MethodDecl) []stmt.MethodDecl {
	if len(methods) == 0 {
		return methods
	}
	out := make([]stmt.MethodDecl, len(methods))
	for i, m := range methods {
		if relatedResultFamilies[m.Family] {
			if p, ok := plainID(m.Result); ok {
				p.Pointee = tygraph.SelfTy{}
				m.Result = p
			}
		}
		out[i] = m
	}
	return out
}

// plainID reports whether t is the unspecialized `id` type: a pointer
// to AnyObjectTy, Clang's CXType_ObjCObjectPointer over CXType_ObjCId.
func plainID(t tygraph.Ty) (tygraph.PointerTy, bool) {
	p, ok := t.(tygraph.PointerTy)
	if !ok {
		return tygraph.PointerTy{}, false
	}
	_, isAny := p.Pointee.(tygraph.AnyObjectTy)
	return p, isAny
}
