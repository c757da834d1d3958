// Package config loads a framework's translation-config.toml (spec.md
// §6, SPEC_FULL.md §6.1) into the policy data internal/cctx.Context and
// internal/driver need to parse it.
package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/ident"
)

// ExternalItem mirrors cctx.ExternalItem in TOML-loadable form: an
// `external.<Name>` table redirecting a reference outside the
// configured libraries.
type ExternalItem struct {
	Module         string   `toml:"module"`
	MainThreadOnly bool     `toml:"main_thread_only"`
	Sendable       *bool    `toml:"sendable"`
	RequiredItems  []string `toml:"required_items"`
}

// PlatformVersions holds the optional per-platform minimum-version
// strings spec.md §6 lists; presence of a field signals the framework
// is available on that platform at all.
type PlatformVersions struct {
	MacOS       string `toml:"macos"`
	IOS         string `toml:"ios"`
	TVOS        string `toml:"tvos"`
	WatchOS     string `toml:"watchos"`
	VisionOS    string `toml:"visionos"`
	MacCatalyst string `toml:"maccatalyst"`
}

// Framework is one translation-config.toml, fully parsed.
type Framework struct {
	Framework string `toml:"framework"`
	Krate     string `toml:"krate"`
	IsLibrary bool   `toml:"is_library"`

	PlatformVersions

	GNUstep   bool   `toml:"gnustep"`
	ModuleMap string `toml:"modulemap"`

	External              map[string]ExternalItem `toml:"external"`
	MethodFamilyOverrides map[string]string        `toml:"method_family_overrides"`
	TypedefRenames        map[string]string        `toml:"typedef_renames"`
	Skip                  []string                 `toml:"skip"`
}

// Load reads and parses the translation-config.toml at path.
func Load(path string) (Framework, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Framework{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	var fw Framework
	if err := toml.Unmarshal(data, &fw); err != nil {
		return Framework{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return fw, nil
}

// Platforms reports every platform this framework declares a minimum
// version for, the set cmd/cocoagen derives its LLVM triples from.
func (fw Framework) Platforms() []string {
	var out []string
	add := func(name, version string) {
		if version != "" {
			out = append(out, name)
		}
	}
	add("macos", fw.MacOS)
	add("ios", fw.IOS)
	add("tvos", fw.TVOS)
	add("watchos", fw.WatchOS)
	add("visionos", fw.VisionOS)
	add("maccatalyst", fw.MacCatalyst)
	return out
}

// LibraryConfig adapts the loaded TOML into the narrower view
// internal/cctx.Context consumes, keeping cctx free of a dependency on
// this package (internal/driver sits between the two).
func (fw Framework) LibraryConfig() cctx.LibraryConfig {
	external := make(map[string]cctx.ExternalItem, len(fw.External))
	for name, item := range fw.External {
		external[name] = cctx.ExternalItem{
			Module: item.Module,
			ThreadSafety: ident.ThreadSafety{
				MainThreadOnly: item.MainThreadOnly,
				Sendable:       item.Sendable,
				Explicit:       item.Sendable != nil,
			},
			RequiredItems: item.RequiredItems,
		}
	}

	skip := make(map[string]bool, len(fw.Skip))
	for _, name := range fw.Skip {
		skip[name] = true
	}

	return cctx.LibraryConfig{
		Krate:                 fw.Krate,
		External:              external,
		TypedefRenames:        fw.TypedefRenames,
		Skip:                  skip,
		MethodFamilyOverrides: fw.MethodFamilyOverrides,
	}
}
