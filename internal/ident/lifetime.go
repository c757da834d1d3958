package ident

import "fmt"

// Nullability mirrors Clang's _Nonnull/_Nullable/_Null_unspecified
// qualifiers.
type Nullability int

const (
	Unspecified Nullability = iota
	NonNull
	Nullable
	NullableResult
)

func (n Nullability) String() string {
	switch n {
	case NonNull:
		return "nonnull"
	case Nullable:
		return "nullable"
	case NullableResult:
		return "nullable_result"
	default:
		return "unspecified"
	}
}

// Lifetime mirrors the ARC/MRC ownership qualifiers Clang attaches to
// an object pointer or CF typedef: __strong, __weak,
// __unsafe_unretained, __autoreleasing.
type Lifetime int

const (
	LifetimeUnspecified Lifetime = iota
	LifetimeUnretained
	LifetimeStrong
	LifetimeWeak
	LifetimeAutoreleasing
)

func (l Lifetime) String() string {
	switch l {
	case LifetimeUnretained:
		return "unretained"
	case LifetimeStrong:
		return "strong"
	case LifetimeWeak:
		return "weak"
	case LifetimeAutoreleasing:
		return "autoreleasing"
	default:
		return "unspecified"
	}
}

// Update applies spec.md I2/§3's write-once-unless-same discipline: a
// Lifetime regresses to Unspecified only as a no-op, moves from
// Unspecified to any other value exactly once, and any other
// reassignment is a logged (soft) error returned to the caller so it
// can be recorded on the active Diagnostics sink.
func (l *Lifetime) Update(next Lifetime) error {
	switch {
	case next == LifetimeUnspecified:
		return nil
	case *l == LifetimeUnspecified:
		*l = next
		return nil
	case *l == next:
		return nil
	default:
		err := fmt.Errorf("lifetime regression: %s -> %s", *l, next)
		return err
	}
}
