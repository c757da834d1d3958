//go:build darwin

package objcrt

// NSError wraps an autoreleased NSError object as a Go error, the Go
// shape of the emission contract's `Result<T, E>` for methods that
// take a trailing `NSError **` out-parameter (spec.md §4.4's
// method_return_with_error / fn_return_with_error positions).
type NSError struct {
	obj ID
}

func (e *NSError) Ptr() ID { return e.obj }

func (e *NSError) Error() string {
	if e == nil || e.obj.Nil() {
		return "NSError: <nil>"
	}
	desc := SendID(e.obj, Sel("localizedDescription"))
	return GoString(desc)
}

// NewNSError wraps id as a Go error, or returns nil if id is the null
// pointer — the Objective-C convention for "no error occurred" after
// a method writes through its `NSError **` out-parameter.
func NewNSError(id ID) error {
	if id.Nil() {
		return nil
	}
	return &NSError{obj: id}
}
