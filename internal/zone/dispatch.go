package zone

import (
	"os"
	"sync"

	"golang.org/x/sys/cpu"
)

// variantEnv is the override named in spec §6 ("Environment variables").
// Unknown values silently fall through to feature-based selection.
const variantEnv = "ZONE_TARGET"

var (
	variantsOnce sync.Once
	variants     []structuralIndexer
)

// registeredVariants returns the ordered list of available indexer
// variants, most-capable first, with the zero-requirement scalar fallback
// always last (spec §4.10). Lazily built once per process, mirroring the
// teacher's per-language lazy-init pool registration in parser_pool.go.
func registeredVariants() []structuralIndexer {
	variantsOnce.Do(func() {
		variants = []structuralIndexer{
			vectorIndexer{variant: "haswell"}, // AVX2-class
			vectorIndexer{variant: "westmere"}, // SSE4.2-class
			scalarIndexer{},                    // always available
		}
	})
	return variants
}

// requiredFeatures reports whether the named variant's CPU requirements
// are satisfied on this machine. Only "fallback" has no requirement.
func requiredFeatures(name string) bool {
	switch name {
	case "haswell":
		return cpu.X86.HasAVX2
	case "westmere":
		return cpu.X86.HasSSE42
	case "fallback":
		return true
	default:
		return false
	}
}

// selectIndexer picks a variant per spec §4.10: honor an explicit Options
// override, else ZONE_TARGET, else the first variant (in registration
// order) whose required features are present, else the scalar fallback.
func selectIndexer(override string) structuralIndexer {
	want := override
	if want == "" {
		want = os.Getenv(variantEnv)
	}

	all := registeredVariants()
	if want != "" {
		for _, v := range all {
			if v.name() == want {
				return v
			}
		}
		// Unknown ZONE_TARGET value: fall through to feature detection.
	}

	for _, v := range all {
		if requiredFeatures(v.name()) {
			return v
		}
	}
	return scalarIndexer{}
}
