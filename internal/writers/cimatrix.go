package writers

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

const (
	ciMatrixBeginMarker = "BEGIN AUTOMATICALLY GENERATED"
	ciMatrixEndMarker   = "END AUTOMATICALLY GENERATED"
)

// WriteCIMatrix rewrites the region between the fixed
// "BEGIN AUTOMATICALLY GENERATED"/"END AUTOMATICALLY GENERATED"
// marker lines inside the CI workflow file at path, replacing it with
// one `  <env>: --package=<crate> --package=<crate> …` line per entry
// in envs (spec.md §6's CI matrix format). Everything outside the
// marked region — the rest of the workflow YAML — is left untouched.
//
// This is a plain marker-delimited text substitution; no example repo
// in the corpus owns a YAML-aware CI-matrix templating library, and
// pulling one in for a single region replace would be more machinery
// than the problem needs, so this stays on the strings package rather than a
// third-party templating engine.
func WriteCIMatrix(path string, envs map[string][]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("writers: read %s: %w", path, err)
	}

	lines := strings.Split(string(data), "\n")
	beginIdx, endIdx := -1, -1
	for i, line := range lines {
		if strings.Contains(line, ciMatrixBeginMarker) {
			beginIdx = i
		}
		if strings.Contains(line, ciMatrixEndMarker) {
			endIdx = i
			break
		}
	}
	if beginIdx == -1 || endIdx == -1 || endIdx <= beginIdx {
		return fmt.Errorf("writers: %s: missing %q/%q markers", path, ciMatrixBeginMarker, ciMatrixEndMarker)
	}

	generated := renderCIMatrixLines(envs)

	out := make([]string, 0, len(lines))
	out = append(out, lines[:beginIdx+1]...)
	out = append(out, generated...)
	out = append(out, lines[endIdx:]...)

	return os.WriteFile(path, []byte(strings.Join(out, "\n")), 0o644)
}

func renderCIMatrixLines(envs map[string][]string) []string {
	names := make([]string, 0, len(envs))
	for name := range envs {
		names = append(names, name)
	}
	sort.Strings(names)

	lines := make([]string, 0, len(names))
	for _, name := range names {
		crates := envs[name]
		packages := make([]string, len(crates))
		for i, c := range crates {
			packages[i] = "--package=" + c
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", name, strings.Join(packages, " ")))
	}
	return lines
}

// EnvName builds the FRAMEWORKS_<PLATFORM>_<VERSION> environment name
// spec.md §6 specifies, normalizing the version string (dots are
// invalid in a shell environment variable name) into an identifier
// fragment.
func EnvName(platform, version string) string {
	v := strings.NewReplacer(".", "_", "-", "_").Replace(version)
	return fmt.Sprintf("FRAMEWORKS_%s_%s", strings.ToUpper(platform), v)
}
