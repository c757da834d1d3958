//go:build darwin

package objcrt

import "testing"

func TestRuntimeBasics(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	pool := NewAutoreleasePool()
	if pool == nil || pool.pool == 0 {
		t.Fatal("NewAutoreleasePool returned nil")
	}
	defer pool.Drain()

	nsObject := GetClass("NSObject")
	if nsObject == 0 {
		t.Fatal("GetClass(NSObject) returned nil")
	}

	alloc := Sel("alloc")
	initSel := Sel("init")
	releaseSel := Sel("release")
	if alloc == 0 || initSel == 0 || releaseSel == 0 {
		t.Fatal("Sel returned nil for a well-known selector")
	}

	value := "cocoagen"
	ns := NSString(value)
	if ns.Nil() {
		t.Fatal("NSString returned nil")
	}

	length := SendUint(ns, Sel("length"))
	if length != uint(len(value)) {
		t.Fatalf("NSString length = %d, want %d", length, len(value))
	}

	got := GoString(ns)
	if got != value {
		t.Fatalf("GoString = %q, want %q", got, value)
	}

	ns2 := NSString(value)
	if !SendBool(ns, Sel("isEqualToString:"), ArgID(ns2)) {
		t.Fatal("NSString isEqualToString returned false")
	}
	Release(ns2)
	Release(ns)

	obj := SendID(ID(nsObject), alloc)
	if obj.Nil() {
		t.Fatal("NSObject alloc returned nil")
	}
	obj = SendID(obj, initSel)
	if obj.Nil() {
		t.Fatal("NSObject init returned nil")
	}
	SendVoid(obj, releaseSel)
}

func TestSelIsCached(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	a := Sel("description")
	b := Sel("description")
	if a != b {
		t.Fatalf("Sel(%q) returned different values across calls: %v vs %v", "description", a, b)
	}
}

// widget is a minimal Object implementation used to exercise the
// generic smart handles without depending on generated code.
type widget struct{ id ID }

func (w widget) Ptr() ID { return w.id }

func newWidget(id ID) widget { return widget{id: id} }

func TestRetainedReleasesExactlyOnce(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	obj := NSString("retained")
	r := NewRetained(obj, newWidget)
	if r.Get().Ptr() != obj {
		t.Fatalf("Get() = %v, want %v", r.Get().Ptr(), obj)
	}
	r.Release()
	r.Release() // must not double-release
}

func TestAutoreleasedRetainPromotesOwnership(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	pool := NewAutoreleasePool()
	defer pool.Drain()

	obj := NSString("autoreleased")
	a := NewAutoreleased(obj, newWidget)
	owned := a.Retain(newWidget)
	defer owned.Release()
	if owned.Get().Ptr() == 0 {
		t.Fatal("Retain produced a nil handle")
	}
}

func TestNewBlockInvokesHandlerWithRawArgs(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	called := make(chan []uintptr, 1)
	block, err := NewBlock(2, func(args []uintptr) {
		called <- args
	})
	if err != nil {
		t.Fatalf("NewBlock failed: %v", err)
	}
	defer block.Release()

	id := block.blockID
	v, ok := blockRegistry.Load(id)
	if !ok {
		t.Fatal("block was not registered")
	}
	v.(Handler)([]uintptr{7, 9})

	select {
	case got := <-called:
		if len(got) != 2 || got[0] != 7 || got[1] != 9 {
			t.Fatalf("handler received %v, want [7 9]", got)
		}
	default:
		t.Fatal("handler was not invoked")
	}
}

func TestNewBlockRejectsUnsupportedArity(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if _, err := NewBlock(99, func([]uintptr) {}); err == nil {
		t.Fatal("expected an error for an unsupported block arity")
	}
}

func TestNewNSErrorNilIsNoError(t *testing.T) {
	if err := NewNSError(0); err != nil {
		t.Fatalf("expected nil error for a null NSError pointer, got %v", err)
	}
}

func TestFrameworkPathFormatsConventionalDylibLocation(t *testing.T) {
	got := FrameworkPath("Foundation")
	want := "/System/Library/Frameworks/Foundation.framework/Foundation"
	if got != want {
		t.Fatalf("FrameworkPath(%q) = %q, want %q", "Foundation", got, want)
	}
}

func TestCallIDInvokesRealFrameworkFunction(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	home := CallID("Foundation", "NSHomeDirectory")
	if home.Nil() {
		t.Fatal("NSHomeDirectory() returned nil")
	}
	if GoString(home) == "" {
		t.Fatal("expected a non-empty home directory string")
	}
}

func TestReadGlobalReadsRealExternSymbol(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	domain := ReadGlobal[ID]("Foundation", "NSCocoaErrorDomain")
	if domain.Nil() {
		t.Fatal("NSCocoaErrorDomain read as nil")
	}
}

func TestReadGlobalUnknownSymbolReturnsZeroValue(t *testing.T) {
	got := ReadGlobal[ID]("Foundation", "NoSuchExternGlobal12345")
	if got != 0 {
		t.Fatalf("expected the zero value for an unresolved symbol, got %v", got)
	}
}

func TestNewNSErrorWrapsLocalizedDescription(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	pool := NewAutoreleasePool()
	defer pool.Drain()

	domain := NSString("CocoagenTestDomain")
	defer Release(domain)

	class := ID(GetClass("NSError"))
	nsErr := SendID(class, Sel("errorWithDomain:code:userInfo:"),
		ArgID(domain), ArgInt64(1), ArgID(0))
	if nsErr.Nil() {
		t.Fatal("errorWithDomain:code:userInfo: returned nil")
	}

	err := NewNSError(nsErr)
	if err == nil {
		t.Fatal("expected a non-nil error")
	}
	if err.Error() == "" {
		t.Fatal("expected a non-empty description")
	}
}
