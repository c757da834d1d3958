package main

import (
	"testing"

	"github.com/gogpu/cocoagen/internal/config"
)

func TestBuildTriplesCoversBothArchitecturesOnMacOS(t *testing.T) {
	fw := config.Framework{
		Framework:        "Widgets",
		PlatformVersions: config.PlatformVersions{MacOS: "10.15"},
	}
	triples := buildTriples(fw, "")
	if len(triples) != 2 {
		t.Fatalf("expected 2 triples for macOS, got %d: %v", len(triples), triples)
	}
	var sawArm64, sawX86 bool
	for _, tr := range triples {
		switch tr.LLVM {
		case "arm64-apple-macosx10.15":
			sawArm64 = true
		case "x86_64-apple-macosx10.15":
			sawX86 = true
		}
	}
	if !sawArm64 || !sawX86 {
		t.Fatalf("expected both arm64 and x86_64 triples, got %v", triples)
	}
}

func TestBuildTriplesAppliesMacCatalystSuffix(t *testing.T) {
	fw := config.Framework{
		Framework:        "Widgets",
		PlatformVersions: config.PlatformVersions{MacCatalyst: "13.0"},
	}
	triples := buildTriples(fw, "")
	if len(triples) == 0 {
		t.Fatal("expected at least one maccatalyst triple")
	}
	for _, tr := range triples {
		if tr.Platform != "maccatalyst" {
			t.Fatalf("unexpected platform %q", tr.Platform)
		}
		if tr.LLVM != "arm64-apple-ios13.0-macabi" && tr.LLVM != "x86_64-apple-ios13.0-macabi" {
			t.Fatalf("unexpected LLVM triple %q", tr.LLVM)
		}
	}
}

func TestBuildTriplesThreadsDeveloperDirAsIsysroot(t *testing.T) {
	fw := config.Framework{PlatformVersions: config.PlatformVersions{IOS: "13.0"}}
	triples := buildTriples(fw, "/Applications/Xcode.app/Contents/Developer")
	if len(triples) == 0 {
		t.Fatal("expected at least one ios triple")
	}
	args := triples[0].Args
	if len(args) != 2 || args[0] != "-isysroot" || args[1] != "/Applications/Xcode.app/Contents/Developer" {
		t.Fatalf("expected -isysroot arg, got %v", args)
	}
}

func TestBuildTriplesSkipsUnconfiguredPlatforms(t *testing.T) {
	fw := config.Framework{}
	if triples := buildTriples(fw, ""); len(triples) != 0 {
		t.Fatalf("expected no triples for a framework with no platform versions, got %v", triples)
	}
}

func TestVersionForPlatformLooksUpEachField(t *testing.T) {
	fw := config.Framework{PlatformVersions: config.PlatformVersions{
		MacOS: "10.15", IOS: "13.0", TVOS: "13.0", WatchOS: "6.0", VisionOS: "1.0", MacCatalyst: "13.0",
	}}
	cases := map[string]string{
		"macos": "10.15", "ios": "13.0", "tvos": "13.0",
		"watchos": "6.0", "visionos": "1.0", "maccatalyst": "13.0", "unknown": "",
	}
	for platform, want := range cases {
		if got := versionForPlatform(fw, platform); got != want {
			t.Errorf("versionForPlatform(%q) = %q, want %q", platform, got, want)
		}
	}
}
