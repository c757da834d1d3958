// Package driver implements the multi-target consistency check
// (spec.md §4.8, component I): a framework's module is parsed once per
// configured LLVM triple, and every parse after the first must produce
// a library model equal to the first.
package driver

import (
	"fmt"

	"github.com/gogpu/cocoagen/internal/analysis"
	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/clangx"
	"github.com/gogpu/cocoagen/internal/config"
	"github.com/gogpu/cocoagen/internal/library"
	"github.com/gogpu/cocoagen/internal/stmt"
)

// Triple is one Clang target the framework is parsed against, plus the
// compiler arguments (sysroot, module map search paths, …) the
// out-of-scope SDK-discovery collaborator computed for it (spec.md
// §1's "Out of scope" list).
type Triple struct {
	// Platform is the spec.md §6 platform name this triple belongs to
	// (macos, ios, tvos, watchos, visionos, maccatalyst), used only for
	// diagnostics.
	Platform string
	// LLVM is the target-triple string passed to Index.Parse, e.g.
	// "arm64-apple-macosx10.15" or "arm64-apple-ios13.0-macabi".
	LLVM string
	// Args are additional compiler arguments for this triple.
	Args []string
}

func (t Triple) String() string {
	if t.Platform == "" {
		return t.LLVM
	}
	return fmt.Sprintf("%s (%s)", t.Platform, t.LLVM)
}

// DivergenceError reports that two triples produced unequal library
// models — spec.md §4.8's "turns silent per-platform ABI drift into a
// build failure", and the Open Question in spec.md §9: every field
// participates in the comparison, so a genuinely platform-specific
// attribute difference surfaces here rather than being filtered out.
type DivergenceError struct {
	Framework string
	Baseline  Triple
	Divergent Triple
}

func (e *DivergenceError) Error() string {
	return fmt.Sprintf("%s: library parsed for %s diverges from the baseline parsed for %s",
		e.Framework, e.Divergent, e.Baseline)
}

// Parse parses fw's module once per triple and asserts that every
// resulting library model is equal to the first (spec.md §4.8). The
// first triple's library, plus any per-triple analysis/build
// diagnostics collected along the way, are returned; a divergence is
// reported as a fatal error but does not stop the remaining triples
// from being parsed, so every divergence in the run is surfaced rather
// than only the first.
func Parse(fw config.Framework, triples []Triple, index clangx.Index) (*library.Library, []error) {
	if len(triples) == 0 {
		return nil, []error{fmt.Errorf("driver: %s: no triples configured", fw.Framework)}
	}

	var errs []error
	var baseline *library.Library
	var baselineTriple Triple

	for _, triple := range triples {
		lib, analysisErrs, err := parseOne(fw, triple, index)
		if err != nil {
			errs = append(errs, fmt.Errorf("driver: %s: parsing %s: %w", fw.Framework, triple, err))
			continue
		}
		for _, e := range analysisErrs {
			errs = append(errs, fmt.Errorf("driver: %s: %s: %w", fw.Framework, triple, e))
		}

		if baseline == nil {
			baseline = lib
			baselineTriple = triple
			continue
		}

		if !baseline.Equal(lib) {
			errs = append(errs, &DivergenceError{Framework: fw.Framework, Baseline: baselineTriple, Divergent: triple})
		}
	}

	return baseline, errs
}

// parseOne constructs a fresh Context, re-runs the cursor visitor over
// fw's module for triple, and runs Global Analysis on the resulting
// library (spec.md §4.8).
func parseOne(fw config.Framework, triple Triple, index clangx.Index) (*library.Library, []error, error) {
	root, err := index.Parse(fw.ModuleMap, triple.LLVM, triple.Args)
	if err != nil {
		return nil, nil, err
	}

	libraries := map[string]cctx.LibraryConfig{fw.Framework: fw.LibraryConfig()}
	ctx := cctx.New(libraries)

	lib := library.New(fw.Framework, libraries[fw.Framework])
	root.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
		for _, s := range stmt.Build(c, ctx, fw.Framework) {
			lib.Add(s)
		}
		return clangx.ChildVisitContinue
	})

	return lib, analysis.Run(lib), nil
}
