package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"

	"github.com/standardbeagle/zonescan/internal/config"
	zmcp "github.com/standardbeagle/zonescan/internal/mcp"
	"github.com/standardbeagle/zonescan/internal/version"
	"github.com/standardbeagle/zonescan/internal/watch"
	"github.com/standardbeagle/zonescan/internal/zlog"
	"github.com/standardbeagle/zonescan/internal/zone"
)

// loadConfigWithOverrides loads .zonescan.kdl from the given root and
// applies CLI flag overrides, mirroring the main flags' precedence over
// the config file.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}

	cfg, err := config.LoadKDL(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", root, err)
	}

	if includeFlags := c.StringSlice("include"); len(includeFlags) > 0 {
		cfg.Include = includeFlags
	}
	if excludeFlags := c.StringSlice("exclude"); len(excludeFlags) > 0 {
		cfg.Exclude = append(cfg.Exclude, excludeFlags...)
	}
	if o := c.String("origin"); o != "" {
		cfg.Project.Origin = o
	}
	if ttl := c.Int("default-ttl"); ttl > 0 {
		cfg.Index.DefaultTTL = uint32(ttl)
	}
	if c.Bool("allow-generate") {
		cfg.FeatureFlags.AllowGenerate = true
	}

	if err := config.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	app := &cli.App{
		Name:                   "zonescan",
		Usage:                  "Parse and validate DNS zone files",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory holding .zonescan.kdl and zone files",
				Value:   ".",
			},
			&cli.StringSliceFlag{
				Name:  "include",
				Usage: "Glob patterns selecting zone files (e.g. --include '**/*.zone')",
			},
			&cli.StringSliceFlag{
				Name:  "exclude",
				Usage: "Glob patterns excluding zone files",
			},
			&cli.StringFlag{
				Name:  "origin",
				Usage: "Default origin for files that don't set one via $ORIGIN",
			},
			&cli.IntFlag{
				Name:  "default-ttl",
				Usage: "Seconds used as last_ttl before any record or $TTL directive sets it",
			},
			&cli.BoolFlag{
				Name:  "allow-generate",
				Usage: "Accepted for $GENERATE; the directive still fails with NOT_IMPLEMENTED and is not expanded",
			},
		},
		Commands: []*cli.Command{
			{
				Name:      "parse",
				Usage:     "Parse one or more zone files and print the resulting records",
				ArgsUsage: "[file...]",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output one JSON object per file instead of plain text",
					},
				},
				Action: parseCommand,
			},
			{
				Name:   "watch",
				Usage:  "Re-parse zone files as they change on disk",
				Action: watchCommand,
			},
			{
				Name:   "mcp-serve",
				Usage:  "Serve the parse_zone/zone_config MCP tools over stdio",
				Action: mcpServeCommand,
			},
			{
				Name:  "config",
				Usage: "Inspect the effective configuration",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print the effective configuration as JSON",
						Action: configShowCommand,
					},
					{
						Name:   "validate",
						Usage:  "Validate .zonescan.kdl without parsing any zone files",
						Action: configValidateCommand,
					},
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// resolveFiles expands explicit file arguments, or falls back to
// cfg.Include/Exclude globbed from cfg.Project.Root when no arguments
// are given.
func resolveFiles(c *cli.Context, cfg *config.Config) ([]string, error) {
	if c.Args().Len() > 0 {
		return c.Args().Slice(), nil
	}

	var files []string
	for _, pattern := range cfg.Include {
		matches, err := doublestar.Glob(os.DirFS(cfg.Project.Root), pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid include pattern %q: %w", pattern, err)
		}
		for _, m := range matches {
			excluded := false
			for _, ex := range cfg.Exclude {
				if ok, _ := doublestar.Match(ex, m); ok {
					excluded = true
					break
				}
			}
			if !excluded {
				files = append(files, filepath.Join(cfg.Project.Root, m))
			}
		}
	}
	return files, nil
}

type parseResult struct {
	File    string        `json:"file"`
	Code    string        `json:"code"`
	Records []recordJSON  `json:"records,omitempty"`
	Error   string        `json:"error,omitempty"`
}

type recordJSON struct {
	Owner string `json:"owner"`
	Type  uint16 `json:"type"`
	Class string `json:"class"`
	TTL   uint32 `json:"ttl"`
}

func parseOneFile(cfg *config.Config, path string) parseResult {
	result := parseResult{File: path}

	class, ok := zone.ParseClass(cfg.Index.DefaultClass)
	if !ok {
		class = zone.ClassIN
	}
	opts := zone.Options{
		Origin:        cfg.Project.Origin,
		DefaultTTL:    cfg.Index.DefaultTTL,
		DefaultClass:  class,
		AllowGenerate: cfg.FeatureFlags.AllowGenerate,
		WindowSize:    cfg.Performance.WindowSizeKB * 1024,
		CacheSize:     cfg.Performance.RDATACacheSize,
		Log:           zlog.NewStderrWriter(),
		Accept: func(p *zone.Parser, rec zone.Record) int {
			result.Records = append(result.Records, recordJSON{
				Owner: rec.Owner.String(),
				Type:  rec.Type,
				Class: rec.Class.String(),
				TTL:   rec.TTL,
			})
			return 0
		},
	}

	code, err := zone.ParseFile(opts, path)
	result.Code = code.String()
	if err != nil {
		result.Error = err.Error()
	}
	return result
}

func parseCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	files, err := resolveFiles(c, cfg)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no zone files to parse (pass paths or set include patterns in .zonescan.kdl)")
	}

	results := make([]parseResult, len(files))
	g, _ := errgroup.WithContext(context.Background())
	g.SetLimit(cfg.Performance.ParallelFiles)
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			results[i] = parseOneFile(cfg, f)
			return nil
		})
	}
	_ = g.Wait()

	asJSON := c.Bool("json")
	failed := false
	for _, r := range results {
		if r.Error != "" {
			failed = true
		}
		if asJSON {
			enc, _ := json.Marshal(r)
			fmt.Println(string(enc))
			continue
		}
		fmt.Printf("%s: %s (%d records)\n", r.File, r.Code, len(r.Records))
		if r.Error != "" {
			fmt.Printf("  error: %s\n", r.Error)
		}
	}
	if failed {
		return fmt.Errorf("one or more zone files failed to parse")
	}
	return nil
}

func watchCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	if !cfg.FeatureFlags.WatchMode {
		fmt.Fprintln(os.Stderr, "watch_mode is disabled in .zonescan.kdl; pass feature_flags { watch_mode #true } to enable it")
		return nil
	}

	events := make(chan watch.Event, 16)
	w, err := watch.New(cfg.Project.Root, cfg.Include, cfg.Exclude,
		time.Duration(cfg.Performance.WatchDebounceMs)*time.Millisecond,
		func(path string) watch.Event {
			r := parseOneFile(cfg, path)
			ev := watch.Event{Path: path}
			if r.Error != "" {
				ev.Err = fmt.Errorf("%s", r.Error)
			}
			return ev
		})
	if err != nil {
		return err
	}
	if err := w.Start(events); err != nil {
		return err
	}
	defer w.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	fmt.Fprintf(os.Stderr, "watching %s for zone file changes (ctrl-c to stop)\n", cfg.Project.Root)
	for {
		select {
		case ev := <-events:
			if ev.Err != nil {
				fmt.Printf("%s: error: %v\n", ev.Path, ev.Err)
			} else {
				fmt.Printf("%s: reparsed\n", ev.Path)
			}
		case <-sigChan:
			fmt.Fprintln(os.Stderr, "shutting down")
			return nil
		}
	}
}

func mcpServeCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}

	server, err := zmcp.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to create MCP server: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() { errChan <- server.Start(ctx) }()

	select {
	case err := <-errChan:
		if err != nil {
			return fmt.Errorf("MCP server error: %w", err)
		}
		return nil
	case sig := <-sigChan:
		fmt.Fprintf(os.Stderr, "received signal %v, shutting down\n", sig)
		cancel()
		<-errChan
		return nil
	}
}

func configShowCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return err
	}
	enc, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(enc))
	return nil
}

func configValidateCommand(c *cli.Context) error {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		fmt.Printf("configuration invalid: %v\n", err)
		return err
	}
	fmt.Printf("configuration OK (project root: %s)\n", cfg.Project.Root)
	return nil
}
