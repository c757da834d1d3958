package writers

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/gogpu/cocoagen/internal/emit"
)

// WriteTestAggregator writes a Go file at path that blank-imports
// every generated package (spec.md §6's "test-aggregator manifest
// importing every generated crate"): a `go test ./...` or `go vet
// ./...` run over this one file exercises every generated package's
// compile-time correctness, matching the purpose a Cargo
// workspace-level aggregator crate serves for the original tool
// without inventing a Go equivalent of Cargo features.
func WriteTestAggregator(path, pkgName string, importPaths []string) error {
	sorted := append([]string(nil), importPaths...)
	sort.Strings(sorted)

	var b strings.Builder
	b.WriteString("// Code generated by cocoagen. DO NOT EDIT.\n\n")
	fmt.Fprintf(&b, "package %s\n\n", pkgName)
	for _, imp := range sorted {
		fmt.Fprintf(&b, "import _ %q\n", imp)
	}

	formatted, err := emit.Format([]byte(b.String()), path)
	if err != nil {
		return fmt.Errorf("writers: format test aggregator: %w", err)
	}
	return os.WriteFile(path, formatted, 0o644)
}
