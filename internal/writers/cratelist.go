package writers

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// CrateEntry is one row of the top-level framework-to-package list
// (spec.md §6's "top-level list file mapping framework → crate").
type CrateEntry struct {
	Framework string
	Krate     string
}

// WriteCrateList writes entries to path as a sorted, tab-separated
// manifest that CI scripts can key off rather than re-discovering
// frameworks by walking the output tree. WriteTestAggregator does not
// read it; it takes its import paths from its caller.
func WriteCrateList(path string, entries []CrateEntry) error {
	sorted := append([]CrateEntry(nil), entries...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Framework < sorted[j].Framework })

	var b strings.Builder
	b.WriteString("# framework\tkrate\n")
	for _, e := range sorted {
		fmt.Fprintf(&b, "%s\t%s\n", e.Framework, e.Krate)
	}

	return os.WriteFile(path, []byte(b.String()), 0o644)
}
