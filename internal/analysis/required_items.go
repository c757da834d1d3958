package analysis

import (
	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/library"
	"github.com/gogpu/cocoagen/internal/stmt"
)

// computeRequiredItems implements spec.md §4.7 steps 3 and 4 together:
// every ItemRef reachable from a statement is first resolved against
// the library's own declarations (internal references are recorded by
// name only at build time, since internal/stmt has no visibility into
// which module a sibling declaration ultimately lands in), then
// annotated with its resolved target plus the transitive set of
// declarations that target references. Unresolved non-external references are returned
// for the caller to report as step 4's verification failures.
func computeRequiredItems(lib *library.Library) []ident.Identifier {
	byName := make(map[string]ident.Identifier)
	for _, mod := range lib.Modules() {
		for _, s := range mod.Statements {
			id := stmt.Identifier(s)
			byName[id.Name] = id
		}
	}

	var unresolved []ident.Identifier
	seenUnresolved := make(map[string]bool)
	resolve := func(id ident.Identifier) ident.Identifier {
		if id.Location.Library == "external" {
			return id
		}
		if full, ok := byName[id.Name]; ok {
			return full
		}
		if !seenUnresolved[id.Key()] {
			seenUnresolved[id.Key()] = true
			unresolved = append(unresolved, id)
		}
		return id
	}

	for _, mod := range lib.Modules() {
		for i, s := range mod.Statements {
			mod.Statements[i] = resolveStatementRefs(s, resolve)
		}
	}

	direct := make(map[string][]ident.Identifier)
	for _, mod := range lib.Modules() {
		for _, s := range mod.Statements {
			id := stmt.Identifier(s)
			direct[id.Key()] = directReferences(s)
		}
	}

	memo := make(map[string][]ident.Identifier)
	closures := make(map[string][]ident.Identifier, len(direct))
	for key := range direct {
		closures[key] = transitiveClosure(key, direct, memo)
	}

	for _, mod := range lib.Modules() {
		for i, s := range mod.Statements {
			mod.Statements[i] = attachRequiredItems(s, closures)
		}
	}

	return unresolved
}

// transitiveClosure returns every identifier reachable from start over
// the direct-reference graph, memoized per key and guarded against
// cycles (classes referencing protocols that reference classes, per
// spec.md's "Cyclic references" edge case).
func transitiveClosure(start string, direct map[string][]ident.Identifier, memo map[string][]ident.Identifier) []ident.Identifier {
	if v, ok := memo[start]; ok {
		return v
	}
	memo[start] = nil // break cycles: a self-reference resolves to "no extra items yet"

	seen := map[string]bool{start: true}
	var order []ident.Identifier
	var visit func(key string)
	visit = func(key string) {
		for _, ref := range direct[key] {
			rk := ref.Key()
			if seen[rk] {
				continue
			}
			seen[rk] = true
			order = append(order, ref)
			visit(rk)
		}
	}
	visit(start)

	memo[start] = order
	return order
}

// resolveStatementRefs rewrites every ItemRef.ID reachable from s
// through resolve, fixing internal references up to the declaration's
// real module location (or leaving them as-is, already flagged in
// resolve's unresolved list, when no declaration by that name exists).
func resolveStatementRefs(s stmt.Statement, resolve func(ident.Identifier) ident.Identifier) stmt.Statement {
	switch v := s.(type) {
	case stmt.ClassDecl:
		if v.Superclass != nil {
			ref := *v.Superclass
			ref.ID = resolve(ref.ID)
			v.Superclass = &ref
		}
		v.Protocols = resolveRefList(v.Protocols, resolve)
		v.Methods = resolveMethodRefs(v.Methods, resolve)
		v.CategoryMethods = resolveMethodRefs(v.CategoryMethods, resolve)
		v.Properties = resolvePropertyRefs(v.Properties, resolve)
		return v
	case stmt.ProtocolDecl:
		v.Protocols = resolveRefList(v.Protocols, resolve)
		v.Methods = resolveMethodRefs(v.Methods, resolve)
		v.Properties = resolvePropertyRefs(v.Properties, resolve)
		return v
	case stmt.CategoryDecl:
		v.ClassName.ID = resolve(v.ClassName.ID)
		v.Protocols = resolveRefList(v.Protocols, resolve)
		v.Methods = resolveMethodRefs(v.Methods, resolve)
		v.Properties = resolvePropertyRefs(v.Properties, resolve)
		return v
	case stmt.TypedefDecl:
		v.Underlying = resolveTyRefs(v.Underlying, resolve)
		return v
	case stmt.EnumDecl:
		v.Underlying = resolveTyRefs(v.Underlying, resolve)
		return v
	case stmt.StructDecl:
		fields := make([]stmt.StructField, len(v.Fields))
		for i, f := range v.Fields {
			f.Type = resolveTyRefs(f.Type, resolve)
			fields[i] = f
		}
		v.Fields = fields
		return v
	case stmt.FnDecl:
		v.Result = resolveTyRefs(v.Result, resolve)
		v.Args = resolveArgRefs(v.Args, resolve)
		return v
	case stmt.StaticDecl:
		v.Type = resolveTyRefs(v.Type, resolve)
		return v
	case stmt.ConstDecl:
		v.Type = resolveTyRefs(v.Type, resolve)
		return v
	default:
		return s
	}
}

func resolveRefList(refs []ident.ItemRef, resolve func(ident.Identifier) ident.Identifier) []ident.ItemRef {
	if len(refs) == 0 {
		return refs
	}
	out := make([]ident.ItemRef, len(refs))
	for i, r := range refs {
		r.ID = resolve(r.ID)
		out[i] = r
	}
	return out
}

func resolveMethodRefs(methods []stmt.MethodDecl, resolve func(ident.Identifier) ident.Identifier) []stmt.MethodDecl {
	if len(methods) == 0 {
		return methods
	}
	out := make([]stmt.MethodDecl, len(methods))
	for i, m := range methods {
		m.Result = resolveTyRefs(m.Result, resolve)
		m.Args = resolveArgRefs(m.Args, resolve)
		out[i] = m
	}
	return out
}

func resolveArgRefs(args []stmt.MethodArg, resolve func(ident.Identifier) ident.Identifier) []stmt.MethodArg {
	if len(args) == 0 {
		return args
	}
	out := make([]stmt.MethodArg, len(args))
	for i, a := range args {
		a.Type = resolveTyRefs(a.Type, resolve)
		out[i] = a
	}
	return out
}

func resolvePropertyRefs(props []stmt.PropertyDecl, resolve func(ident.Identifier) ident.Identifier) []stmt.PropertyDecl {
	if len(props) == 0 {
		return props
	}
	out := make([]stmt.PropertyDecl, len(props))
	for i, p := range props {
		p.Type = resolveTyRefs(p.Type, resolve)
		out[i] = p
	}
	return out
}

func directReferences(s stmt.Statement) []ident.Identifier {
	var refs []ident.Identifier
	seen := make(map[string]bool)
	add := func(id ident.Identifier) {
		k := id.Key()
		if seen[k] {
			return
		}
		seen[k] = true
		refs = append(refs, id)
	}

	switch v := s.(type) {
	case stmt.ClassDecl:
		if v.Superclass != nil {
			add(v.Superclass.ID)
		}
		for _, p := range v.Protocols {
			add(p.ID)
		}
		for _, m := range v.Methods {
			walkMethodRefs(m, add)
		}
		for _, m := range v.CategoryMethods {
			walkMethodRefs(m, add)
		}
		for _, p := range v.Properties {
			walkTyRefs(p.Type, add)
		}
	case stmt.ProtocolDecl:
		for _, p := range v.Protocols {
			add(p.ID)
		}
		for _, m := range v.Methods {
			walkMethodRefs(m, add)
		}
		for _, p := range v.Properties {
			walkTyRefs(p.Type, add)
		}
	case stmt.CategoryDecl:
		add(v.ClassName.ID)
		for _, p := range v.Protocols {
			add(p.ID)
		}
		for _, m := range v.Methods {
			walkMethodRefs(m, add)
		}
		for _, p := range v.Properties {
			walkTyRefs(p.Type, add)
		}
	case stmt.TypedefDecl:
		walkTyRefs(v.Underlying, add)
	case stmt.EnumDecl:
		walkTyRefs(v.Underlying, add)
	case stmt.StructDecl:
		for _, f := range v.Fields {
			walkTyRefs(f.Type, add)
		}
	case stmt.FnDecl:
		walkTyRefs(v.Result, add)
		for _, a := range v.Args {
			walkTyRefs(a.Type, add)
		}
	case stmt.StaticDecl:
		walkTyRefs(v.Type, add)
	case stmt.ConstDecl:
		walkTyRefs(v.Type, add)
	}

	return refs
}

func walkMethodRefs(m stmt.MethodDecl, add func(ident.Identifier)) {
	walkTyRefs(m.Result, add)
	for _, a := range m.Args {
		walkTyRefs(a.Type, add)
	}
}

func attachRequiredItems(s stmt.Statement, closures map[string][]ident.Identifier) stmt.Statement {
	switch v := s.(type) {
	case stmt.ClassDecl:
		if v.Superclass != nil {
			ref := withRequired(*v.Superclass, closures)
			v.Superclass = &ref
		}
		v.Protocols = withRequiredAll(v.Protocols, closures)
		v.Methods = rewriteMethodRefs(v.Methods, closures)
		v.CategoryMethods = rewriteMethodRefs(v.CategoryMethods, closures)
		v.Properties = rewritePropertyRefs(v.Properties, closures)
		return v
	case stmt.ProtocolDecl:
		v.Protocols = withRequiredAll(v.Protocols, closures)
		v.Methods = rewriteMethodRefs(v.Methods, closures)
		v.Properties = rewritePropertyRefs(v.Properties, closures)
		return v
	case stmt.CategoryDecl:
		v.ClassName = withRequired(v.ClassName, closures)
		v.Protocols = withRequiredAll(v.Protocols, closures)
		v.Methods = rewriteMethodRefs(v.Methods, closures)
		v.Properties = rewritePropertyRefs(v.Properties, closures)
		return v
	case stmt.TypedefDecl:
		v.Underlying = rewriteTyRefs(v.Underlying, closures)
		return v
	case stmt.EnumDecl:
		v.Underlying = rewriteTyRefs(v.Underlying, closures)
		return v
	case stmt.StructDecl:
		fields := make([]stmt.StructField, len(v.Fields))
		for i, f := range v.Fields {
			f.Type = rewriteTyRefs(f.Type, closures)
			fields[i] = f
		}
		v.Fields = fields
		return v
	case stmt.FnDecl:
		v.Result = rewriteTyRefs(v.Result, closures)
		v.Args = rewriteArgRefs(v.Args, closures)
		return v
	case stmt.StaticDecl:
		v.Type = rewriteTyRefs(v.Type, closures)
		return v
	case stmt.ConstDecl:
		v.Type = rewriteTyRefs(v.Type, closures)
		return v
	default:
		return s
	}
}

func rewriteMethodRefs(methods []stmt.MethodDecl, closures map[string][]ident.Identifier) []stmt.MethodDecl {
	if len(methods) == 0 {
		return methods
	}
	out := make([]stmt.MethodDecl, len(methods))
	for i, m := range methods {
		m.Result = rewriteTyRefs(m.Result, closures)
		m.Args = rewriteArgRefs(m.Args, closures)
		out[i] = m
	}
	return out
}

func rewriteArgRefs(args []stmt.MethodArg, closures map[string][]ident.Identifier) []stmt.MethodArg {
	if len(args) == 0 {
		return args
	}
	out := make([]stmt.MethodArg, len(args))
	for i, a := range args {
		a.Type = rewriteTyRefs(a.Type, closures)
		out[i] = a
	}
	return out
}

func rewritePropertyRefs(props []stmt.PropertyDecl, closures map[string][]ident.Identifier) []stmt.PropertyDecl {
	if len(props) == 0 {
		return props
	}
	out := make([]stmt.PropertyDecl, len(props))
	for i, p := range props {
		p.Type = rewriteTyRefs(p.Type, closures)
		out[i] = p
	}
	return out
}
