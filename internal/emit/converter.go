package emit

import "fmt"

// Converter is the (return_type, prologue, epilogue) triple spec.md
// §4.4 names for method_return: it wraps the raw ID a message send
// produced into a safe objcrt.Retained handle, choosing between
// leaving the reference alone (the call already returned it at +1,
// ReturnsRetained) and retaining it first (the runtime handed back a
// borrowed, autoreleased reference) based on the method's
// returns-retained fact.
type Converter struct {
	ReturnType string
	Prologue   string
	Epilogue   string
}

// BuildReturnConverter builds the converter triple for a class-typed
// method_return / fn_return position. wrapFn is the generated
// wrapper's constructor, e.g. "NewNSString" — the same function
// objcrt.NewRetained's wrap argument expects.
func BuildReturnConverter(resultClassName, wrapFn string, nullable, returnsRetained bool) Converter {
	retType := retainedOf(resultClassName)

	var prologue string
	if !returnsRetained {
		prologue = "raw = objcrt.Retain(raw)\n"
	}

	if nullable {
		return Converter{
			ReturnType: "*" + retType,
			Prologue:   prologue,
			Epilogue: fmt.Sprintf(
				"if raw.Nil() {\n\treturn nil\n}\nresult := objcrt.NewRetained(raw, %s)\nreturn &result", wrapFn),
		}
	}

	return Converter{
		ReturnType: retType,
		Prologue:   prologue,
		Epilogue:   fmt.Sprintf("return objcrt.NewRetained(raw, %s)", wrapFn),
	}
}

// BuildErrorReturnConverter builds the triple for
// method_return_with_error: a nullable object return plus a trailing
// NSError** out-argument collapses into one (T, error) Go return.
func BuildErrorReturnConverter(resultClassName, wrapFn string, returnsRetained bool) Converter {
	var prologue string
	if !returnsRetained {
		prologue = "raw = objcrt.Retain(raw)\n"
	}
	return Converter{
		ReturnType: fmt.Sprintf("(%s, error)", retainedOf(resultClassName)),
		Prologue:   prologue,
		Epilogue: fmt.Sprintf(
			"err := objcrt.NewNSError(errOut)\nif raw.Nil() {\n\treturn %s{}, err\n}\nreturn objcrt.NewRetained(raw, %s), err",
			retainedOf(resultClassName), wrapFn),
	}
}

// BuildBoolErrorReturnConverter builds the method_return_with_error
// triple for a BOOL-returning method with a trailing NSError** —
// ObjcBool becomes Result<(), …>, the Go shape of a plain error
// return.
func BuildBoolErrorReturnConverter() Converter {
	return Converter{
		ReturnType: "error",
		Epilogue:   "if !ok {\n\treturn objcrt.NewNSError(errOut)\n}\nreturn nil",
	}
}
