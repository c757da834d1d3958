// Package cctx implements the process-wide Context (spec.md §4.5,
// component E): typedef/protocol renaming policy, external-reference
// redirection, the macro-invocation cache, and the soft-error sink
// every one of B/C/D/F writes into (spec.md §4.9).
package cctx

import (
	"fmt"
	"sync"
)

// Severity distinguishes the two error tiers of spec.md §7.
type Severity int

const (
	Soft Severity = iota
	Fatal
)

func (s Severity) String() string {
	if s == Fatal {
		return "fatal"
	}
	return "soft"
}

// Diagnostic is one logged entry: full context (entity, type,
// attributed/canonical spelling) plus the severity, matching spec.md
// §7's "logged with full context" requirement.
type Diagnostic struct {
	Severity Severity
	Entity   string // the declaration or type being processed
	Message  string
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Entity, d.Message)
}

// Diagnostics accumulates soft errors during one library parse so
// header evolution never halts generation (spec.md §4.9); the run only
// aborts for the hard conditions spec.md §7 names, which callers
// surface separately.
type Diagnostics struct {
	mu      sync.Mutex
	entries []Diagnostic
}

// Add records a diagnostic and forwards it to the active logger.
func (d *Diagnostics) Add(sev Severity, entity, format string, args ...any) {
	diag := Diagnostic{Severity: sev, Entity: entity, Message: fmt.Sprintf(format, args...)}
	d.mu.Lock()
	d.entries = append(d.entries, diag)
	d.mu.Unlock()

	if sev == Fatal {
		Logger().Error(diag.Message, "entity", entity)
	} else {
		Logger().Warn(diag.Message, "entity", entity)
	}
}

// Soft records a soft-tier diagnostic (spec.md §7).
func (d *Diagnostics) Soft(entity, format string, args ...any) {
	d.Add(Soft, entity, format, args...)
}

// Entries returns a snapshot of every diagnostic recorded so far.
func (d *Diagnostics) Entries() []Diagnostic {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]Diagnostic, len(d.entries))
	copy(out, d.entries)
	return out
}

// HasFatal reports whether any Fatal-severity diagnostic was recorded.
func (d *Diagnostics) HasFatal() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	for _, e := range d.entries {
		if e.Severity == Fatal {
			return true
		}
	}
	return false
}
