package config

import (
	"errors"
	"fmt"
	"runtime"

	zerrors "github.com/standardbeagle/zonescan/internal/errors"
)

// Validator validates configuration and sets smart defaults.
type Validator struct{}

// NewValidator creates a new configuration validator.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateAndSetDefaults validates cfg and applies smart defaults for
// any zero-valued sizing knob. Returns an error if validation fails.
func (v *Validator) ValidateAndSetDefaults(cfg *Config) error {
	if err := v.validateProjectConfig(&cfg.Project); err != nil {
		return zerrors.NewConfigError("project", "", err)
	}
	if err := v.validateIndexConfig(&cfg.Index); err != nil {
		return zerrors.NewConfigError("index", "", err)
	}
	if err := v.validatePerformanceConfig(&cfg.Performance); err != nil {
		return zerrors.NewConfigError("performance", "", err)
	}

	v.setSmartDefaults(cfg)
	return nil
}

func (v *Validator) validateProjectConfig(project *Project) error {
	if project.Root == "" {
		return errors.New("project root cannot be empty")
	}
	return nil
}

func (v *Validator) validateIndexConfig(index *Index) error {
	if index.DefaultTTL == 0 || index.DefaultTTL > 1<<31-1 {
		return fmt.Errorf("default_ttl must be in 1..2^31-1, got %d", index.DefaultTTL)
	}
	if _, ok := classByName(index.DefaultClass); !ok {
		return fmt.Errorf("default_class must be one of IN, CS, CH, HS, got %q", index.DefaultClass)
	}
	return nil
}

func (v *Validator) validatePerformanceConfig(perf *Performance) error {
	if perf.ParallelFiles < 0 {
		return fmt.Errorf("parallel_files cannot be negative, got %d", perf.ParallelFiles)
	}
	if perf.WindowSizeKB < 0 {
		return fmt.Errorf("window_size_kb cannot be negative, got %d", perf.WindowSizeKB)
	}
	if perf.RDATACacheSize < 0 {
		return fmt.Errorf("rdata_cache_size cannot be negative, got %d", perf.RDATACacheSize)
	}
	if perf.WatchDebounceMs < 0 {
		return fmt.Errorf("watch_debounce_ms cannot be negative, got %d", perf.WatchDebounceMs)
	}
	return nil
}

// setSmartDefaults fills knobs left at zero: ParallelFiles from the CPU
// count, the others with fixed defaults, mirroring the
// zero-means-auto-detect convention used throughout.
func (v *Validator) setSmartDefaults(cfg *Config) {
	if cfg.Performance.ParallelFiles == 0 {
		cfg.Performance.ParallelFiles = max(1, runtime.NumCPU()-1)
	}
	if cfg.Performance.WindowSizeKB == 0 {
		cfg.Performance.WindowSizeKB = 64
	}
	if cfg.Performance.RDATACacheSize == 0 {
		cfg.Performance.RDATACacheSize = 4
	}
	if cfg.Performance.WatchDebounceMs == 0 {
		cfg.Performance.WatchDebounceMs = 200
	}
}

func classByName(s string) (uint16, bool) {
	switch s {
	case "IN":
		return 1, true
	case "CS":
		return 2, true
	case "CH":
		return 3, true
	case "HS":
		return 4, true
	default:
		return 0, false
	}
}

// ValidateConfig is a convenience function for quick validation.
func ValidateConfig(cfg *Config) error {
	validator := NewValidator()
	return validator.ValidateAndSetDefaults(cfg)
}
