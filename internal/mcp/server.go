// Package mcp exposes zone parsing as an MCP tool surface, so an AI
// assistant can validate and introspect zone files without shelling out
// to the zonescan CLI.
package mcp

import (
	"context"
	"log"
	"os"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/zonescan/internal/config"
)

// Server wraps the MCP SDK server with the zonescan config it resolves
// relative paths against.
type Server struct {
	cfg    *config.Config
	server *sdk.Server
	logger *log.Logger
}

// NewServer builds an MCP server with zonescan's tools registered but
// not yet started.
func NewServer(cfg *config.Config) (*Server, error) {
	s := &Server{
		cfg:    cfg,
		logger: log.New(os.Stderr, "[zonescan-mcp] ", log.LstdFlags),
	}

	s.server = sdk.NewServer(&sdk.Implementation{
		Name:    "zonescan-mcp-server",
		Version: "0.1.0",
	}, nil)

	s.registerTools()
	return s, nil
}

// registerTools registers every tool this server exposes.
func (s *Server) registerTools() {
	s.server.AddTool(&sdk.Tool{
		Name:        "parse_zone",
		Description: "Parse DNS zone-file text or a zone file on disk and return the resulting resource records, or the syntax/semantic error that stopped the parse.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "Path to a zone file, resolved against the server's project root. Mutually exclusive with content.",
				},
				"content": {
					Type:        "string",
					Description: "Zone-file text to parse directly, without touching disk. Mutually exclusive with path.",
				},
				"origin": {
					Type:        "string",
					Description: "Origin new records are relative to, e.g. \"example.com.\". Overrides the configured default.",
				},
				"default_ttl": {
					Type:        "integer",
					Description: "Seconds used as last_ttl before any record or $TTL directive sets it. Overrides the configured default.",
				},
				"allow_generate": {
					Type:        "boolean",
					Description: "Accepted for $GENERATE; the directive still fails the parse with NOT_IMPLEMENTED and is not expanded.",
				},
			},
		},
	}, s.handleParseZone)

	s.server.AddTool(&sdk.Tool{
		Name:        "zone_config",
		Description: "Report the zonescan configuration this server loaded (project root, default TTL/class, feature flags).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
		},
	}, s.handleZoneConfig)
}

// Start runs the server over stdio until ctx is canceled or the
// transport closes.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Printf("starting MCP server with stdio transport")
	return s.server.Run(ctx, &sdk.StdioTransport{})
}
