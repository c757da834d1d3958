package analysis

import (
	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// walkTyRefs visits every Identifier a Ty directly names: a referenced
// class/protocol/struct/enum/typedef declaration. It does not recurse
// into an ItemRef's own RequiredItems (that field is this analysis's
// output, not an input).
func walkTyRefs(t tygraph.Ty, visit func(ident.Identifier)) {
	switch v := t.(type) {
	case nil:
		return
	case tygraph.ClassTy:
		visit(v.Decl.ID)
		for _, p := range v.Protocols {
			visit(p.ID)
		}
		for _, g := range v.Generics {
			walkTyRefs(g, visit)
		}
	case tygraph.AnyObjectTy:
		for _, p := range v.Protocols {
			visit(p.ID)
		}
	case tygraph.AnyClassTy:
		for _, p := range v.Protocols {
			visit(p.ID)
		}
	case tygraph.PointerTy:
		walkTyRefs(v.Pointee, visit)
	case tygraph.TypeDefTy:
		visit(v.ID)
		walkTyRefs(v.To, visit)
	case tygraph.IncompleteArrayTy:
		walkTyRefs(v.Pointee, visit)
	case tygraph.ArrayTy:
		walkTyRefs(v.Element, visit)
	case tygraph.RustArrayTy:
		walkTyRefs(v.Element, visit)
	case tygraph.EnumTy:
		visit(v.ID)
		walkTyRefs(v.Underlying, visit)
	case tygraph.StructTy:
		visit(v.ID)
		for _, f := range v.Fields {
			walkTyRefs(f, visit)
		}
	case tygraph.FnTy:
		walkTyRefs(v.Result, visit)
		for _, a := range v.Args {
			walkTyRefs(a, visit)
		}
	case tygraph.BlockTy:
		walkTyRefs(v.Result, visit)
		for _, a := range v.Args {
			walkTyRefs(a, visit)
		}
	}
}

// rewriteTyRefs rebuilds t with every nested ItemRef's RequiredItems
// populated from closures, keyed by ident.Identifier.Key().
func rewriteTyRefs(t tygraph.Ty, closures map[string][]ident.Identifier) tygraph.Ty {
	switch v := t.(type) {
	case tygraph.ClassTy:
		v.Decl = withRequired(v.Decl, closures)
		v.Protocols = withRequiredAll(v.Protocols, closures)
		gens := make([]tygraph.Ty, len(v.Generics))
		for i, g := range v.Generics {
			gens[i] = rewriteTyRefs(g, closures)
		}
		v.Generics = gens
		return v
	case tygraph.AnyObjectTy:
		v.Protocols = withRequiredAll(v.Protocols, closures)
		return v
	case tygraph.AnyClassTy:
		v.Protocols = withRequiredAll(v.Protocols, closures)
		return v
	case tygraph.PointerTy:
		v.Pointee = rewriteTyRefs(v.Pointee, closures)
		return v
	case tygraph.TypeDefTy:
		v.To = rewriteTyRefs(v.To, closures)
		return v
	case tygraph.IncompleteArrayTy:
		v.Pointee = rewriteTyRefs(v.Pointee, closures)
		return v
	case tygraph.ArrayTy:
		v.Element = rewriteTyRefs(v.Element, closures)
		return v
	case tygraph.RustArrayTy:
		v.Element = rewriteTyRefs(v.Element, closures)
		return v
	case tygraph.EnumTy:
		v.Underlying = rewriteTyRefs(v.Underlying, closures)
		return v
	case tygraph.StructTy:
		fields := make([]tygraph.Ty, len(v.Fields))
		for i, f := range v.Fields {
			fields[i] = rewriteTyRefs(f, closures)
		}
		v.Fields = fields
		return v
	case tygraph.FnTy:
		v.Result = rewriteTyRefs(v.Result, closures)
		args := make([]tygraph.Ty, len(v.Args))
		for i, a := range v.Args {
			args[i] = rewriteTyRefs(a, closures)
		}
		v.Args = args
		return v
	case tygraph.BlockTy:
		v.Result = rewriteTyRefs(v.Result, closures)
		args := make([]tygraph.Ty, len(v.Args))
		for i, a := range v.Args {
			args[i] = rewriteTyRefs(a, closures)
		}
		v.Args = args
		return v
	default:
		return t
	}
}

func withRequired(ref ident.ItemRef, closures map[string][]ident.Identifier) ident.ItemRef {
	if c, ok := closures[ref.ID.Key()]; ok {
		ref.RequiredItems = append([]ident.Identifier{ref.ID}, c...)
	}
	return ref
}

func withRequiredAll(refs []ident.ItemRef, closures map[string][]ident.Identifier) []ident.ItemRef {
	if len(refs) == 0 {
		return refs
	}
	out := make([]ident.ItemRef, len(refs))
	for i, r := range refs {
		out[i] = withRequired(r, closures)
	}
	return out
}
