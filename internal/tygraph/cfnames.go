package tygraph

import (
	_ "embed"
	"strings"
	"sync"
)

//go:embed cfnames.txt
var cfNamesAsset string

var (
	cfNamesOnce sync.Once
	cfNames     map[string]bool
)

// knownCFName implements spec.md §4.3.a's "typedef name appears in the
// built-in CF type database" branch: a process-wide constant table of
// CoreFoundation/CoreGraphics/CoreText typedef names, lazily parsed
// from the embedded asset once per process.
func knownCFName(name string) bool {
	cfNamesOnce.Do(func() {
		lines := strings.Split(cfNamesAsset, "\n")
		cfNames = make(map[string]bool, len(lines))
		for _, line := range lines {
			line = strings.TrimSpace(line)
			if line == "" || strings.HasPrefix(line, "#") {
				continue
			}
			cfNames[line] = true
		}
	})
	return cfNames[name]
}
