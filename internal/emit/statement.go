package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/stmt"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// RenderStatement renders one declaration to Go source text. The
// caller (RenderModule) concatenates every statement in a module into
// one file, adds the package clause, and runs Format.
func RenderStatement(s stmt.Statement) (string, error) {
	switch v := s.(type) {
	case stmt.ClassDecl:
		return renderClass(v), nil
	case stmt.ProtocolDecl:
		return renderProtocol(v), nil
	case stmt.CategoryDecl:
		return renderCategory(v), nil
	case stmt.TypedefDecl:
		return renderTypedefDecl(v), nil
	case stmt.EnumDecl:
		return renderEnum(v), nil
	case stmt.StructDecl:
		return renderStruct(v), nil
	case stmt.FnDecl:
		return renderFnDecl(v), nil
	case stmt.StaticDecl:
		return renderStatic(v), nil
	case stmt.ConstDecl:
		return renderConst(v), nil
	default:
		return "", fmt.Errorf("emit: unrenderable statement %T", s)
	}
}

func wrapFnName(className string) string { return "New" + className }

func renderClass(c stmt.ClassDecl) string {
	var b strings.Builder
	name := c.ID.Name

	fmt.Fprintf(&b, "// %s wraps an Objective-C %s instance.\n", name, name)
	fmt.Fprintf(&b, "type %s struct {\n\tptr objcrt.ID\n}\n\n", name)
	fmt.Fprintf(&b, "func %s(id objcrt.ID) %s { return %s{ptr: id} }\n\n", wrapFnName(name), name, name)
	fmt.Fprintf(&b, "func (v %s) Ptr() objcrt.ID { return v.ptr }\n\n", name)

	if c.Superclass != nil {
		fmt.Fprintf(&b, "func (v %s) As%s() %s { return %s(v.ptr) }\n\n",
			name, c.Superclass.ID.Name, c.Superclass.ID.Name, wrapFnName(c.Superclass.ID.Name))
	}

	for _, m := range c.Methods {
		b.WriteString(renderMethod(name, m))
	}
	for _, p := range c.Properties {
		b.WriteString(renderProperty(name, p))
	}
	for _, m := range c.CategoryMethods {
		b.WriteString(renderMethod(name, m))
	}
	return b.String()
}

func renderProtocol(p stmt.ProtocolDecl) string {
	var b strings.Builder
	name := p.ID.Name
	fmt.Fprintf(&b, "// %s is the Go interface for the %s protocol.\n", name, name)
	fmt.Fprintf(&b, "type %s interface {\n\tobjcrt.Object\n", name)
	for _, m := range p.Methods {
		if m.ClassMethod {
			continue
		}
		m.Result = substituteSelf(m.Result, name)
		fmt.Fprintf(&b, "\t%s\n", methodSignature(m))
	}
	b.WriteString("}\n\n")
	return b.String()
}

func renderCategory(c stmt.CategoryDecl) string {
	var b strings.Builder
	name := c.ClassName.ID.Name
	for _, m := range c.Methods {
		b.WriteString(renderMethod(name, m))
	}
	return b.String()
}

func renderTypedefDecl(t stmt.TypedefDecl) string {
	if td, ok := t.Underlying.(tygraph.TypeDefTy); ok && td.IsCF {
		return fmt.Sprintf("type %s = objcrt.ID\n\n", t.ID.Name)
	}
	return fmt.Sprintf("type %s = %s\n\n", t.ID.Name, RenderType(t.Underlying, Typedef))
}

func renderEnum(e stmt.EnumDecl) string {
	var b strings.Builder
	underlying := RenderType(e.Underlying, EnumUnderlying)
	fmt.Fprintf(&b, "type %s %s\n\n", e.ID.Name, underlying)
	if len(e.Cases) > 0 {
		b.WriteString("const (\n")
		for _, c := range e.Cases {
			fmt.Fprintf(&b, "\t%s %s = %d\n", c.Name, e.ID.Name, c.Value)
		}
		b.WriteString(")\n\n")
	}
	return b.String()
}

func renderStruct(s stmt.StructDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "type %s struct {\n", s.ID.Name)
	for _, f := range s.Fields {
		fmt.Fprintf(&b, "\t%s %s\n", exportField(f.Name), RenderType(f.Type, StructField))
	}
	b.WriteString("}\n\n")
	return b.String()
}

// renderFnDecl binds a free C function to its symbol via
// objcrt.Call*, the same goffi.GetSymbol/PrepareCallInterface machinery
// internal/objcrt/runtime.go uses for objc_msgSend, generalized in
// internal/objcrt/extern.go to call a named symbol directly instead of
// dispatching a selector against a receiver.
func renderFnDecl(f stmt.FnDecl) string {
	args := make([]string, len(f.Args))
	callArgs := make([]string, len(f.Args))
	for i, a := range f.Args {
		args[i] = fmt.Sprintf("%s %s", a.Name, RenderType(a.Type, FnArgument))
		callArgs[i] = argExpr(a.Type, a.Name)
	}
	result := RenderType(f.Result, FnReturn)
	sig := result
	if sig != "" {
		sig = " " + sig
	}

	callExpr := fmt.Sprintf("objcrt.Call%s(%q, %q%s)",
		sendSuffix(f.Result, false), f.ID.Location.Library, f.ID.Name, prependComma(callArgs))

	var b strings.Builder
	fmt.Fprintf(&b, "func %s(%s)%s {\n", f.ID.Name, strings.Join(args, ", "), sig)

	p, isPrim := f.Result.(tygraph.PrimitiveTy)
	switch {
	case isPrim && p.Kind == tygraph.Void:
		fmt.Fprintf(&b, "\t%s\n", callExpr)
	case isObjectLike(f.Result):
		name := objectClassName(f.Result)
		conv := BuildReturnConverter(name, wrapFnName(name), nullableOf(f.Result), f.ReturnsRetained)
		fmt.Fprintf(&b, "\traw := %s\n", callExpr)
		if conv.Prologue != "" {
			fmt.Fprintf(&b, "\t%s", indent(conv.Prologue))
		}
		fmt.Fprintf(&b, "\t%s", indent(conv.Epilogue))
	default:
		fmt.Fprintf(&b, "\treturn %s\n", callExpr)
	}
	b.WriteString("}\n\n")
	return b.String()
}

// renderStatic reads an extern global's value straight from its loaded
// symbol on every access, rendered as an accessor function rather than
// a package-level var: a var initializer runs at package-init time,
// before any generated package can guarantee the owning framework's
// dylib is loaded, the same ordering hazard renderMethod already avoids
// by resolving selectors lazily inside the method body instead of at
// init time.
func renderStatic(s stmt.StaticDecl) string {
	goType := RenderType(s.Type, Var)
	return fmt.Sprintf("// %s is an extern global.\nfunc %s() %s {\n\treturn objcrt.ReadGlobal[%s](%q, %q)\n}\n\n",
		s.ID.Name, s.ID.Name, goType, goType, s.ID.Location.Library, s.ID.Name)
}

func renderConst(c stmt.ConstDecl) string {
	return fmt.Sprintf("const %s %s = %s\n\n", c.ID.Name, RenderType(c.Type, Plain), c.Value)
}

func renderProperty(className string, p stmt.PropertyDecl) string {
	var b strings.Builder
	getter := p.Getter
	if getter == "" {
		getter = p.ID.Name
	}
	if isObjectLike(p.Type) {
		name := objectClassName(p.Type)
		conv := BuildReturnConverter(name, wrapFnName(name), nullableOf(p.Type), false)
		fmt.Fprintf(&b, "func (v %s) %s() %s {\n", className, exportField(getter), renderObjectReturn(p.Type, nullableOf(p.Type)))
		fmt.Fprintf(&b, "\traw := %s\n", sendExprForReturn(p.Type, getter, nil))
		if conv.Prologue != "" {
			fmt.Fprintf(&b, "\t%s", indent(conv.Prologue))
		}
		fmt.Fprintf(&b, "\t%s}\n\n", indent(conv.Epilogue))
	} else {
		fmt.Fprintf(&b, "func (v %s) %s() %s {\n", className, exportField(getter), RenderType(p.Type, MethodReturn))
		fmt.Fprintf(&b, "\treturn %s\n}\n\n", sendExprForReturn(p.Type, getter, nil))
	}

	if !p.ReadOnly {
		setter := p.Setter
		if setter == "" {
			setter = "set" + strings.ToUpper(p.ID.Name[:1]) + p.ID.Name[1:] + ":"
		}
		fmt.Fprintf(&b, "func (v %s) Set%s(value %s) {\n", className, exportField(p.ID.Name), RenderType(p.Type, MethodArgument))
		fmt.Fprintf(&b, "\tobjcrt.SendVoid(v.ptr, objcrt.Sel(%q), %s)\n}\n\n", setter, argExpr(p.Type, "value"))
	}
	return b.String()
}

func renderMethod(className string, m stmt.MethodDecl) string {
	m.Result = substituteSelf(m.Result, className)
	name := m.RenamedTo
	goName := ""
	if name != nil {
		goName = *name
	} else {
		goName = exportSelector(m.Selector)
	}
	if m.Refined {
		goName += "_Unsafe"
	}

	errArg, hasError := trailingErrorArg(m.Args)
	args := m.Args
	if hasError {
		args = args[:len(args)-1]
	}

	params := make([]string, len(args))
	for i, a := range args {
		params[i] = fmt.Sprintf("%s %s", a.Name, RenderType(a.Type, MethodArgument))
	}

	recv := "v"
	if m.ClassMethod {
		recv = "_"
	}

	var b strings.Builder
	retType := resultType(m, hasError)
	fmt.Fprintf(&b, "func (%s %s) %s(%s) %s {\n", recv, className, goName, strings.Join(params, ", "), retType)

	callArgs := make([]string, len(args))
	for i, a := range args {
		callArgs[i] = argExpr(a.Type, a.Name)
	}
	if hasError {
		callArgs = append(callArgs, "objcrt.ArgPointer(uintptr(unsafe.Pointer(&errOut)))")
		fmt.Fprintf(&b, "\tvar errOut objcrt.ID\n")
	}

	recvExpr := "v.ptr"
	if m.ClassMethod {
		recvExpr = fmt.Sprintf("objcrt.ID(objcrt.GetClass(%q))", className)
	}

	b.WriteString(renderSendAndReturn(m, errArg, hasError, recvExpr, m.Selector, callArgs))
	b.WriteString("}\n\n")
	return b.String()
}

func methodSignature(m stmt.MethodDecl) string {
	params := make([]string, len(m.Args))
	for i, a := range m.Args {
		params[i] = RenderType(a.Type, MethodArgument)
	}
	return fmt.Sprintf("%s(%s) %s", exportSelector(m.Selector), strings.Join(params, ", "), RenderType(m.Result, MethodReturn))
}

func resultType(m stmt.MethodDecl, hasError bool) string {
	if hasError {
		if isBool(m.Result) {
			return "error"
		}
		if isObjectLike(m.Result) {
			return fmt.Sprintf("(%s, error)", renderObjectReturn(m.Result, false))
		}
		return fmt.Sprintf("(%s, error)", RenderType(m.Result, MethodReturn))
	}
	if isObjectLike(m.Result) {
		return renderObjectReturn(m.Result, nullableOf(m.Result))
	}
	return RenderType(m.Result, MethodReturn)
}

func renderObjectReturn(ty tygraph.Ty, nullable bool) string {
	name := objectClassName(ty)
	r := retainedOf(name)
	if nullable {
		return "*" + r
	}
	return r
}

func renderSendAndReturn(m stmt.MethodDecl, errArg *tygraph.Ty, hasError bool, recvExpr, selector string, callArgs []string) string {
	var b strings.Builder
	sendCall := fmt.Sprintf("objcrt.Send%s(%s, objcrt.Sel(%q)%s)",
		sendSuffix(m.Result, hasError), recvExpr, selector, prependComma(callArgs))

	if hasError {
		if isBool(m.Result) {
			fmt.Fprintf(&b, "\tok := %s\n", sendCall)
			fmt.Fprintf(&b, "\t%s", indent(BuildBoolErrorReturnConverter().Epilogue))
			return b.String()
		}
		name := objectClassName(m.Result)
		conv := BuildErrorReturnConverter(name, wrapFnName(name), m.ReturnsRetained)
		fmt.Fprintf(&b, "\traw := %s\n", sendCall)
		if conv.Prologue != "" {
			fmt.Fprintf(&b, "\t%s", indent(conv.Prologue))
		}
		fmt.Fprintf(&b, "\t%s", indent(conv.Epilogue))
		return b.String()
	}

	if isObjectLike(m.Result) {
		name := objectClassName(m.Result)
		conv := BuildReturnConverter(name, wrapFnName(name), nullableOf(m.Result), m.ReturnsRetained)
		fmt.Fprintf(&b, "\traw := %s\n", sendCall)
		if conv.Prologue != "" {
			fmt.Fprintf(&b, "\t%s", indent(conv.Prologue))
		}
		fmt.Fprintf(&b, "\t%s", indent(conv.Epilogue))
		return b.String()
	}

	if _, isVoid := m.Result.(tygraph.PrimitiveTy); isVoid && m.Result.(tygraph.PrimitiveTy).Kind == tygraph.Void {
		fmt.Fprintf(&b, "\t%s\n", sendCall)
		return b.String()
	}

	fmt.Fprintf(&b, "\treturn %s\n", sendCall)
	return b.String()
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	return strings.Join(lines, "\n\t") + "\n"
}

func prependComma(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return ", " + strings.Join(args, ", ")
}

func sendExprForReturn(ty tygraph.Ty, selector string, args []string) string {
	return fmt.Sprintf("objcrt.Send%s(v.ptr, objcrt.Sel(%q)%s)", sendSuffix(ty, false), selector, prependComma(args))
}

func sendSuffix(ty tygraph.Ty, hasError bool) string {
	if hasError && isBool(ty) {
		return "Bool"
	}
	if isObjectLike(ty) {
		return "ID"
	}
	switch t := ty.(type) {
	case tygraph.PrimitiveTy:
		switch t.Kind {
		case tygraph.C99Bool, tygraph.ObjcBool:
			return "Bool"
		case tygraph.Float, tygraph.Double, tygraph.F32, tygraph.F64:
			return "Float64"
		case tygraph.NSUInteger, tygraph.UInt, tygraph.ULong, tygraph.ULongLong, tygraph.U8, tygraph.U16, tygraph.U32, tygraph.U64, tygraph.USize:
			return "Uint"
		case tygraph.Void:
			return "Void"
		default:
			return "Int"
		}
	default:
		return "ID"
	}
}

func isBool(ty tygraph.Ty) bool {
	p, ok := ty.(tygraph.PrimitiveTy)
	return ok && (p.Kind == tygraph.C99Bool || p.Kind == tygraph.ObjcBool)
}

func isObjectLike(ty tygraph.Ty) bool {
	switch t := ty.(type) {
	case tygraph.ClassTy, tygraph.AnyObjectTy, tygraph.SelfTy:
		return true
	case tygraph.PointerTy:
		return isObjectLike(t.Pointee)
	default:
		return false
	}
}

func nullableOf(ty tygraph.Ty) bool {
	if p, ok := ty.(tygraph.PointerTy); ok {
		return p.Nullability == ident.Nullable || p.Nullability == ident.NullableResult
	}
	return false
}

func objectClassName(ty tygraph.Ty) string {
	switch t := ty.(type) {
	case tygraph.ClassTy:
		return t.Decl.ID.Name
	case tygraph.PointerTy:
		return objectClassName(t.Pointee)
	default:
		return "objcrt.ID"
	}
}

// substituteSelf resolves the related-result type (instancetype, e.g.
// the return of init/copy) to the enclosing class, since Go has no
// notion of Self. RenderType has no notion of an enclosing class, so
// this must run before a method's result type is ever rendered.
func substituteSelf(ty tygraph.Ty, enclosing string) tygraph.Ty {
	self := classTyNamed(enclosing)
	switch t := ty.(type) {
	case tygraph.SelfTy:
		return self
	case tygraph.PointerTy:
		t.Pointee = substituteSelf(t.Pointee, enclosing)
		return t
	default:
		return ty
	}
}

func classTyNamed(name string) tygraph.ClassTy {
	return tygraph.ClassTy{Decl: ident.ItemRef{ID: ident.Identifier{Name: name}}}
}

// trailingErrorArg detects the NSError out-parameter convention: the
// last argument is an autoreleasing pointer to a pointer to NSError.
func trailingErrorArg(args []stmt.MethodArg) (*tygraph.Ty, bool) {
	if len(args) == 0 {
		return nil, false
	}
	last := args[len(args)-1]
	outer, ok := last.Type.(tygraph.PointerTy)
	if !ok || outer.Lifetime != ident.LifetimeAutoreleasing {
		return nil, false
	}
	inner, ok := outer.Pointee.(tygraph.PointerTy)
	if !ok {
		return nil, false
	}
	class, ok := inner.Pointee.(tygraph.ClassTy)
	if !ok || class.Decl.ID.Name != "NSError" {
		return nil, false
	}
	return &last.Type, true
}

func argExpr(ty tygraph.Ty, name string) string {
	switch t := ty.(type) {
	case tygraph.ClassTy, tygraph.AnyObjectTy:
		return fmt.Sprintf("objcrt.ArgID(%s.Ptr())", name)
	case tygraph.PointerTy:
		if isObjectLike(t.Pointee) {
			return fmt.Sprintf("objcrt.ArgID(%s.Ptr())", name)
		}
		return fmt.Sprintf("objcrt.ArgPointer(uintptr(%s))", name)
	case tygraph.SelTy:
		return fmt.Sprintf("objcrt.ArgSEL(%s)", name)
	case tygraph.PrimitiveTy:
		switch t.Kind {
		case tygraph.C99Bool, tygraph.ObjcBool:
			return fmt.Sprintf("objcrt.ArgBool(%s)", name)
		case tygraph.Float, tygraph.F32:
			return fmt.Sprintf("objcrt.ArgFloat32(%s)", name)
		case tygraph.Double, tygraph.F64:
			return fmt.Sprintf("objcrt.ArgFloat64(%s)", name)
		case tygraph.NSUInteger, tygraph.UInt, tygraph.ULong, tygraph.ULongLong, tygraph.U8, tygraph.U16, tygraph.U32, tygraph.U64, tygraph.USize:
			return fmt.Sprintf("objcrt.ArgUint64(uint64(%s))", name)
		default:
			return fmt.Sprintf("objcrt.ArgInt64(int64(%s))", name)
		}
	default:
		return fmt.Sprintf("objcrt.ArgPointer(uintptr(%s))", name)
	}
}

// exportSelector turns an Objective-C selector like
// "initWithFoo:bar:" into a Go method name, dropping colons and
// titlecasing each component after the first.
func exportSelector(sel string) string {
	parts := strings.Split(strings.TrimSuffix(sel, ":"), ":")
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	name := b.String()
	if name == "" {
		return "Call"
	}
	return name
}

func exportField(name string) string {
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
