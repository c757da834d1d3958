//go:build darwin

package objcrt

import "unsafe"

// NSString creates an NSString from a Go string via alloc/init rather
// than the +stringWithUTF8String: convenience constructor, so the
// result is a +1 retained object the caller owns and must Release.
func NSString(s string) ID {
	class := ID(GetClass("NSString"))
	if len(s) == 0 {
		obj := SendID(class, Sel("alloc"))
		return SendID(obj, Sel("init"))
	}
	cstr := append([]byte(s), 0)
	obj := SendID(class, Sel("alloc"))
	return SendID(obj, Sel("initWithUTF8String:"), ArgPointer(uintptr(unsafe.Pointer(&cstr[0]))))
}

// GoString reads an NSString's UTF8String back into a Go string.
func GoString(nsstr ID) string {
	if nsstr.Nil() {
		return ""
	}
	cstr := SendID(nsstr, Sel("UTF8String"))
	if cstr.Nil() {
		return ""
	}
	return goStringFromCStr(uintptr(cstr))
}

func goStringFromCStr(cstr uintptr) string {
	if cstr == 0 {
		return ""
	}
	ptr := (*byte)(unsafe.Pointer(cstr)) //nolint:govet // C string read across the bridge
	length := 0
	for {
		b := unsafe.Slice(ptr, length+1)
		if b[length] == 0 {
			break
		}
		length++
	}
	return string(unsafe.Slice(ptr, length))
}
