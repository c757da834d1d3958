// Command cocoagen generates Go bindings from Objective-C framework
// headers, one translation-config.toml per framework (SPEC_FULL.md
// §6.3).
//
// Usage:
//
//	cocoagen [developer-dir] --config-dir config/ --out output/
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/clangx"
	"github.com/gogpu/cocoagen/internal/config"
	"github.com/gogpu/cocoagen/internal/driver"
	"github.com/gogpu/cocoagen/internal/writers"
)

var (
	configDir      string
	outDir         string
	modulePrefix   string
	ciWorkflowPath string
	crateListPath  string
	testAggPath    string
	testAggPkg     string
	verbose        bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cocoagen [developer-dir]",
		Short:        "Generate Go bindings from Objective-C framework headers",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         run,
	}
	cmd.Flags().StringVar(&configDir, "config-dir", "config", "directory containing one <framework>/translation-config.toml per framework")
	cmd.Flags().StringVar(&outDir, "out", "output", "output directory for generated Go packages")
	cmd.Flags().StringVar(&modulePrefix, "module-prefix", "github.com/gogpu/cocoagen/output", "Go import path prefix for generated packages")
	cmd.Flags().StringVar(&ciWorkflowPath, "ci-workflow", "", "CI workflow file whose marked region gets the generated package matrix (skipped if empty)")
	cmd.Flags().StringVar(&crateListPath, "crate-list", "", "path to write the framework-to-package list (skipped if empty)")
	cmd.Flags().StringVar(&testAggPath, "test-aggregator", "", "path to write the generated-package test aggregator (skipped if empty)")
	cmd.Flags().StringVar(&testAggPkg, "test-aggregator-package", "alltests", "package name for the test aggregator")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log soft diagnostics to stderr")
	return cmd
}

// run is the cobra RunE for the root command: load every framework's
// configuration, parse and emit it, then fold per-run results into the
// ancillary manifests (SPEC_FULL.md §6.2). Matches the teacher's
// vk-gen main() shape (parse → sequential generate steps → propagate
// the first hard failure), reworked onto cobra: a framework's load,
// parse or output-tree error is printed to stderr and the remaining
// frameworks are still attempted, and any such error makes the run
// fail once every framework has been processed.
func run(_ *cobra.Command, args []string) error {
	if verbose {
		cctx.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	}

	var developerDir string
	if len(args) == 1 {
		developerDir = args[0]
	}

	configPaths, err := discoverConfigs(configDir)
	if err != nil {
		return fmt.Errorf("cocoagen: %w", err)
	}
	if len(configPaths) == 0 {
		return fmt.Errorf("cocoagen: no translation-config.toml found under %s", configDir)
	}

	index := clangx.NewIndex()
	defer index.Dispose()

	var crates []writers.CrateEntry
	var importPaths []string
	envCrates := make(map[string][]string)
	fatal := false

	for _, path := range configPaths {
		fw, err := config.Load(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cocoagen: %v\n", err)
			fatal = true
			continue
		}

		triples := buildTriples(fw, developerDir)
		lib, errs := driver.Parse(fw, triples, index)
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "cocoagen: %v\n", e)
			fatal = true
		}
		if lib == nil {
			continue
		}

		importPath, err := writers.WriteOutputTree(outDir, modulePrefix, fw, lib)
		if err != nil {
			fmt.Fprintf(os.Stderr, "cocoagen: %v\n", err)
			fatal = true
			continue
		}

		crates = append(crates, writers.CrateEntry{Framework: fw.Framework, Krate: fw.Krate})
		importPaths = append(importPaths, importPath)
		for _, plat := range fw.Platforms() {
			env := writers.EnvName(plat, versionForPlatform(fw, plat))
			envCrates[env] = append(envCrates[env], fw.Krate)
		}
	}

	if crateListPath != "" {
		if err := writers.WriteCrateList(crateListPath, crates); err != nil {
			return fmt.Errorf("cocoagen: %w", err)
		}
	}
	if testAggPath != "" {
		if err := writers.WriteTestAggregator(testAggPath, testAggPkg, importPaths); err != nil {
			return fmt.Errorf("cocoagen: %w", err)
		}
	}
	if ciWorkflowPath != "" {
		if err := writers.WriteCIMatrix(ciWorkflowPath, envCrates); err != nil {
			return fmt.Errorf("cocoagen: %w", err)
		}
	}

	if fatal {
		return fmt.Errorf("cocoagen: one or more frameworks failed to generate")
	}
	fmt.Fprintf(os.Stdout, "cocoagen: generated %d package(s) under %s\n", len(crates), outDir)
	return nil
}

// discoverConfigs globs configDir for one translation-config.toml per
// framework subdirectory, sorted by glob for deterministic run order
// (spec.md P5, emission stability).
func discoverConfigs(configDir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(configDir, "*", "translation-config.toml"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", configDir, err)
	}
	return matches, nil
}

func versionForPlatform(fw config.Framework, platform string) string {
	switch platform {
	case "macos":
		return fw.MacOS
	case "ios":
		return fw.IOS
	case "tvos":
		return fw.TVOS
	case "watchos":
		return fw.WatchOS
	case "visionos":
		return fw.VisionOS
	case "maccatalyst":
		return fw.MacCatalyst
	default:
		return ""
	}
}
