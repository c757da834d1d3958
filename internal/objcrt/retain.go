//go:build darwin

package objcrt

// Retain sends retain and returns obj, so it composes at a call site
// the way the Objective-C method itself does.
func Retain(obj ID) ID {
	if obj.Nil() {
		return obj
	}
	return SendID(obj, Sel("retain"))
}

// Release sends release.
func Release(obj ID) {
	if obj.Nil() {
		return
	}
	SendVoid(obj, Sel("release"))
}

// AutoreleasePool wraps an NSAutoreleasePool, the GNUstep-compatible
// pool API (used in place of the @autoreleasepool compiler construct,
// which isn't available to a message-send-only bridge).
type AutoreleasePool struct {
	pool ID
}

// NewAutoreleasePool allocates and initializes a pool. Every
// autoreleased object produced while it is open is released when
// Drain is called.
func NewAutoreleasePool() *AutoreleasePool {
	class := GetClass("NSAutoreleasePool")
	pool := SendID(ID(class), Sel("alloc"))
	pool = SendID(pool, Sel("init"))
	return &AutoreleasePool{pool: pool}
}

// Drain releases every object autoreleased into the pool since it was
// created. Safe to call more than once; only the first call does
// anything.
func (p *AutoreleasePool) Drain() {
	if p.pool.Nil() {
		return
	}
	SendVoid(p.pool, Sel("drain"))
	p.pool = 0
}
