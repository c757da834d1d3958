package main

import (
	"fmt"

	"github.com/gogpu/cocoagen/internal/config"
	"github.com/gogpu/cocoagen/internal/driver"
)

// platformTarget names the LLVM OS component and the CPU architectures
// a given spec.md §6 platform name is parsed under. Both arm64 and
// x86_64 are parsed for every platform that ships both, since the
// multi-target driver (component I) exists specifically to catch
// per-architecture attribute drift — parsing only one architecture
// would make the divergence check vacuous.
type platformTarget struct {
	osName string
	archs  []string
	suffix string // appended after the version, e.g. "-macabi" for Catalyst
}

var platformTargets = map[string]platformTarget{
	"macos":       {osName: "macosx", archs: []string{"arm64", "x86_64"}},
	"ios":         {osName: "ios", archs: []string{"arm64"}},
	"tvos":        {osName: "tvos", archs: []string{"arm64"}},
	"watchos":     {osName: "watchos", archs: []string{"arm64_32"}},
	"visionos":    {osName: "xros", archs: []string{"arm64"}},
	"maccatalyst": {osName: "ios", archs: []string{"arm64", "x86_64"}, suffix: "-macabi"},
}

// buildTriples derives one driver.Triple per (architecture, platform)
// pair from the framework's configured platform versions. SDK
// discovery proper — resolving developerDir to a concrete SDK
// sysroot — is the out-of-scope collaborator spec.md §1 names; until
// it's wired in, a developer-dir override is threaded through as a
// plain "-isysroot" compiler argument rather than silently dropped.
func buildTriples(fw config.Framework, developerDir string) []driver.Triple {
	var triples []driver.Triple
	for _, plat := range fw.Platforms() {
		target, ok := platformTargets[plat]
		if !ok {
			continue
		}
		version := versionForPlatform(fw, plat)
		var args []string
		if developerDir != "" {
			args = append(args, "-isysroot", developerDir)
		}
		for _, arch := range target.archs {
			triples = append(triples, driver.Triple{
				Platform: plat,
				LLVM:     fmt.Sprintf("%s-apple-%s%s%s", arch, target.osName, version, target.suffix),
				Args:     args,
			})
		}
	}
	return triples
}
