// Package config loads and validates zonescan's project configuration,
// the knobs that back zone.Options for the CLI and MCP entry points.
package config

// Config is the root configuration document, populated from defaults,
// then overlaid with .zonescan.kdl if present, then overlaid with CLI
// flags by the caller.
type Config struct {
	Version int

	Project      Project
	Index        Index
	Performance  Performance
	FeatureFlags FeatureFlags

	// Include/Exclude are doublestar glob patterns the CLI's multi-file
	// parse command expands against, in addition to any explicit paths.
	Include []string
	Exclude []string
}

// Project identifies the zone collection being parsed.
type Project struct {
	// Root is the directory glob expansion and relative MCP paths resolve
	// against. $INCLUDE paths resolve against the including file's
	// directory instead.
	Root string
	// Origin is the default origin new top-level zone files start with
	// when the CLI invocation doesn't pass one explicitly.
	Origin string
}

// Index holds the zone.Options defaults that seed every parse.
type Index struct {
	// DefaultTTL seeds last_ttl before any record or $TTL sets it.
	DefaultTTL uint32
	// DefaultClass seeds last_class; one of IN, CS, CH, HS.
	DefaultClass string
}

// Performance holds sizing and concurrency knobs.
type Performance struct {
	// ParallelFiles bounds how many zone files the CLI's multi-file
	// parse command processes concurrently.
	ParallelFiles int
	// WindowSizeKB sizes the byte-stream source's sliding window.
	WindowSizeKB int
	// RDATACacheSize sizes the RDATA ring's slot count.
	RDATACacheSize int
	// WatchDebounceMs coalesces filesystem events in the watch command.
	WatchDebounceMs int
}

// FeatureFlags gates optional or experimental behavior.
type FeatureFlags struct {
	// AllowGenerate is passed to zone.Options.AllowGenerate; $GENERATE
	// still fails with NotImplemented when it is set, and no expansion is
	// performed.
	AllowGenerate bool
	// WatchMode enables the fsnotify-backed watch command.
	WatchMode bool
}

// DefaultConfig returns the configuration a bare `zonescan` invocation
// uses when no .zonescan.kdl is present.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Project: Project{
			Root: ".",
		},
		Index: Index{
			DefaultTTL:   3600,
			DefaultClass: "IN",
		},
		Performance: Performance{
			ParallelFiles:   4,
			WindowSizeKB:    64,
			RDATACacheSize:  4,
			WatchDebounceMs: 200,
		},
		FeatureFlags: FeatureFlags{
			AllowGenerate: false,
			WatchMode:     false,
		},
		Include: []string{"**/*.zone"},
		Exclude: []string{},
	}
}
