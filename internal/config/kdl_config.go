package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"
)

// LoadKDL attempts to load configuration from a .zonescan.kdl file in
// projectRoot. A missing file is not an error: callers get DefaultConfig
// back with Project.Root resolved to projectRoot.
func LoadKDL(projectRoot string) (*Config, error) {
	kdlPath := filepath.Join(projectRoot, ".zonescan.kdl")

	if _, err := os.Stat(kdlPath); os.IsNotExist(err) {
		cfg := DefaultConfig()
		if abs, err := filepath.Abs(projectRoot); err == nil {
			cfg.Project.Root = abs
		} else {
			cfg.Project.Root = projectRoot
		}
		return cfg, nil
	}

	content, err := os.ReadFile(kdlPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read .zonescan.kdl: %w", err)
	}

	cfg, err := parseKDL(string(content))
	if err != nil {
		return nil, err
	}

	if cfg.Project.Root != "" {
		if filepath.IsAbs(cfg.Project.Root) {
			cfg.Project.Root = filepath.Clean(cfg.Project.Root)
		} else {
			cfg.Project.Root = filepath.Clean(filepath.Join(projectRoot, cfg.Project.Root))
		}
	} else if abs, err := filepath.Abs(projectRoot); err == nil {
		cfg.Project.Root = abs
	} else {
		cfg.Project.Root = projectRoot
	}

	return cfg, nil
}

// parseKDL walks a .zonescan.kdl document's top-level nodes, overlaying
// each recognized field onto DefaultConfig's starting point.
func parseKDL(content string) (*Config, error) {
	cfg := DefaultConfig()

	doc, err := kdl.Parse(strings.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse KDL config: %w", err)
	}

	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "root", func(v string) { cfg.Project.Root = v })
				assignSimpleString(cn, "origin", func(v string) { cfg.Project.Origin = v })
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "default_ttl":
					if v, ok := firstIntArg(cn); ok {
						cfg.Index.DefaultTTL = uint32(v)
					}
					if s, ok := firstStringArg(cn); ok {
						if secs, err := parseDuration(s); err == nil {
							cfg.Index.DefaultTTL = secs
						}
					}
				case "default_class":
					if s, ok := firstStringArg(cn); ok {
						cfg.Index.DefaultClass = strings.ToUpper(s)
					}
				}
			}
		case "performance":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "parallel_files":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.ParallelFiles = v
					}
				case "window_size_kb":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.WindowSizeKB = v
					}
				case "rdata_cache_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.RDATACacheSize = v
					}
				case "watch_debounce_ms":
					if v, ok := firstIntArg(cn); ok {
						cfg.Performance.WatchDebounceMs = v
					}
				}
			}
		case "feature_flags":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "allow_generate":
					if b, ok := firstBoolArg(cn); ok {
						cfg.FeatureFlags.AllowGenerate = b
					}
				case "watch_mode":
					if b, ok := firstBoolArg(cn); ok {
						cfg.FeatureFlags.WatchMode = b
					}
				}
			}
		case "include":
			cfg.Include = collectStringArgs(n)
		case "exclude":
			cfg.Exclude = collectStringArgs(n)
		}
	}

	return cfg, nil
}

// parseDuration accepts the same plain-seconds/unit-suffix shape the zone
// package's TTL field grammar does (spec §4.6), so a .zonescan.kdl author
// can write default_ttl "2h" instead of counting seconds by hand.
func parseDuration(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty duration")
	}
	mult := uint64(1)
	digits := s
	switch s[len(s)-1] {
	case 's', 'S':
		digits = s[:len(s)-1]
	case 'm', 'M':
		mult = 60
		digits = s[:len(s)-1]
	case 'h', 'H':
		mult = 3600
		digits = s[:len(s)-1]
	case 'd', 'D':
		mult = 86400
		digits = s[:len(s)-1]
	case 'w', 'W':
		mult = 604800
		digits = s[:len(s)-1]
	}
	var n uint64
	if _, err := fmt.Sscanf(digits, "%d", &n); err != nil {
		return 0, err
	}
	return uint32(n * mult), nil
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func firstBoolArg(n *document.Node) (bool, bool) {
	if len(n.Arguments) == 0 {
		return false, false
	}
	if b, ok := n.Arguments[0].Value.(bool); ok {
		return b, true
	}
	return false, false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				out = append(out, nodeName(child))
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
