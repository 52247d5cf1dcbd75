package mcp

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/zonescan/internal/zone"
	"github.com/standardbeagle/zonescan/internal/zlog"
)

// parseZoneParams mirrors the parse_zone tool's InputSchema.
type parseZoneParams struct {
	Path          string `json:"path"`
	Content       string `json:"content"`
	Origin        string `json:"origin"`
	DefaultTTL    uint32 `json:"default_ttl"`
	AllowGenerate *bool  `json:"allow_generate"`
}

// recordView is the JSON-friendly projection of a zone.Record.
type recordView struct {
	Owner string `json:"owner"`
	Type  uint16 `json:"type"`
	Class string `json:"class"`
	TTL   uint32 `json:"ttl"`
	RData string `json:"rdata_hex"`
}

func (s *Server) handleParseZone(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
	var params parseZoneParams
	if err := json.Unmarshal(req.Params.Arguments, &params); err != nil {
		return createErrorResponse("parse_zone", fmt.Errorf("invalid parameters: %w", err))
	}

	if params.Path == "" && params.Content == "" {
		return createErrorResponse("parse_zone", fmt.Errorf("either path or content is required"))
	}
	if params.Path != "" && params.Content != "" {
		return createErrorResponse("parse_zone", fmt.Errorf("path and content are mutually exclusive"))
	}

	origin := params.Origin
	if origin == "" {
		origin = s.cfg.Project.Origin
	}
	ttl := params.DefaultTTL
	if ttl == 0 {
		ttl = s.cfg.Index.DefaultTTL
	}
	class, ok := zone.ParseClass(s.cfg.Index.DefaultClass)
	if !ok {
		class = zone.ClassIN
	}
	allowGenerate := s.cfg.FeatureFlags.AllowGenerate
	if params.AllowGenerate != nil {
		allowGenerate = *params.AllowGenerate
	}

	var records []recordView
	opts := zone.Options{
		Origin:        origin,
		DefaultTTL:    ttl,
		DefaultClass:  class,
		AllowGenerate: allowGenerate,
		Log:           zlog.NewStderrWriter(),
		Accept: func(p *zone.Parser, rec zone.Record) int {
			records = append(records, recordView{
				Owner: rec.Owner.String(),
				Type:  rec.Type,
				Class: rec.Class.String(),
				TTL:   rec.TTL,
				RData: hex.EncodeToString(rec.RData),
			})
			return 0
		},
	}

	var code zone.Code
	var err error
	if params.Path != "" {
		path := params.Path
		if !filepath.IsAbs(path) {
			path = filepath.Join(s.cfg.Project.Root, path)
		}
		code, err = zone.ParseFile(opts, path)
	} else {
		code, err = zone.ParseString(opts, []byte(params.Content))
	}

	result := map[string]interface{}{
		"code":    code.String(),
		"records": records,
	}
	if err != nil {
		result["error"] = err.Error()
	}
	return createJSONResponse(result)
}

func (s *Server) handleZoneConfig(ctx context.Context, req *sdk.CallToolRequest) (*sdk.CallToolResult, error) {
	return createJSONResponse(map[string]interface{}{
		"project_root":    s.cfg.Project.Root,
		"origin":          s.cfg.Project.Origin,
		"default_ttl":     s.cfg.Index.DefaultTTL,
		"default_class":   s.cfg.Index.DefaultClass,
		"allow_generate":  s.cfg.FeatureFlags.AllowGenerate,
		"watch_mode":      s.cfg.FeatureFlags.WatchMode,
		"parallel_files":  s.cfg.Performance.ParallelFiles,
		"window_size_kb":  s.cfg.Performance.WindowSizeKB,
		"rdata_cache_size": s.cfg.Performance.RDATACacheSize,
	})
}
