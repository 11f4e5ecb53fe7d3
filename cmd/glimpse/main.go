// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/poiesic/glimpse"
	"github.com/poiesic/glimpse/config"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/indexing"
	"github.com/poiesic/glimpse/ingestion"
	"github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "glimpse",
		Usage: "Natural-language search over a local photo and video library",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the configuration file",
				EnvVars: []string{"GLIMPSE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Path to the library database directory",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Scan media directories and build the indices",
				ArgsUsage: "[dir...]",
				Action:    importCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "no-build",
						Usage: "Store the assets without building the indices",
					},
				},
			},
			{
				Name:      "watch",
				Usage:     "Import new media as it appears and keep the indices current",
				ArgsUsage: "[dir...]",
				Action:    watchCommand,
				Flags: []cli.Flag{
					&cli.DurationFlag{
						Name:  "debounce",
						Usage: "Quiet period before a batch of changes is imported (default from config)",
					},
				},
			},
			{
				Name:   "index",
				Usage:  "Build the indices incrementally",
				Action: indexCommand,
				Flags: []cli.Flag{
					&cli.StringSliceFlag{
						Name:  "only",
						Usage: "Build only the named indices (geo, labels, activity)",
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Process at most N new assets per index (0 for no limit)",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Search the library with a natural-language request",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "explain",
						Usage: "Print the parsed query and each search stage",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Print results as JSON",
					},
				},
			},
			{
				Name:      "clear",
				Usage:     "Drop indices so the next build starts over",
				ArgsUsage: "[index...]",
				Action:    clearCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show library and index statistics",
				Action: statsCommand,
			},
			{
				Name:  "config",
				Usage: "Inspect or create the configuration file",
				Subcommands: []*cli.Command{
					{
						Name:   "path",
						Usage:  "Print the configuration file location",
						Action: configPathCommand,
					},
					{
						Name:   "init",
						Usage:  "Write the default configuration",
						Action: configInitCommand,
						Flags: []cli.Flag{
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing file",
							},
						},
					},
				},
			},
		},
	}
}

func configPath(c *cli.Context) (string, error) {
	if path := c.String("config"); path != "" {
		return path, nil
	}
	return config.Path()
}

// loadConfig reads the configuration file and applies the global flags.
func loadConfig(c *cli.Context) (*config.Config, error) {
	path, err := configPath(c)
	if err != nil {
		return nil, err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, err
	}
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	return cfg, nil
}

func openLibrary(c *cli.Context) (*glimpse.Library, *config.Config, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	slog.Debug("opening library", "path", cfg.DataDir)
	lib, err := glimpse.Open(c.Context, cfg.DataDir, glimpse.FromConfig(cfg))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open library: %w", err)
	}
	return lib, cfg, nil
}

// roots returns the directories named on the command line, or the
// configured library roots.
func roots(c *cli.Context, cfg *config.Config) ([]string, error) {
	dirs := c.Args().Slice()
	if len(dirs) == 0 {
		dirs = cfg.Library.Roots
	}
	if len(dirs) == 0 {
		return nil, fmt.Errorf("no directories given and no library roots configured")
	}
	return dirs, nil
}

func signalContext(c *cli.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
}

func importCommand(c *cli.Context) error {
	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	dirs, err := roots(c, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(c)
	defer stop()

	for _, dir := range dirs {
		result, err := lib.Import(ctx, dir)
		if err != nil {
			return fmt.Errorf("import %s: %w", dir, err)
		}
		fmt.Fprintf(os.Stderr, "Imported %s of %s files from %s in %s\n",
			humanize.Comma(int64(result.Stored)), humanize.Comma(int64(result.Scanned)),
			dir, result.Elapsed.Round(time.Millisecond))
	}

	if c.Bool("no-build") {
		return nil
	}
	stats, err := lib.BuildAll(ctx, indexing.WithProgressWriter(os.Stderr))
	printBuildStats(os.Stderr, stats...)
	return err
}

func watchCommand(c *cli.Context) error {
	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	dirs, err := roots(c, cfg)
	if err != nil {
		return err
	}
	debounce := cfg.Watch.Debounce
	if c.IsSet("debounce") {
		debounce = c.Duration("debounce")
	}

	ctx, stop := signalContext(c)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	for _, dir := range dirs {
		g.Go(func() error {
			fmt.Fprintf(os.Stderr, "Watching %s\n", dir)
			return lib.Watch(ctx, dir,
				ingestion.WithDebounce(debounce),
				ingestion.WithFlushHook(func(imported, removed int) {
					fmt.Fprintf(os.Stderr, "%s: %d imported, %d removed\n", dir, imported, removed)
				}))
		})
	}
	return g.Wait()
}

func indexCommand(c *cli.Context) error {
	lib, _, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	ctx, stop := signalContext(c)
	defer stop()

	opts := []indexing.BuildOption{indexing.WithProgressWriter(os.Stderr)}
	if limit := c.Int("limit"); limit > 0 {
		opts = append(opts, indexing.WithLimit(limit))
	}

	only := c.StringSlice("only")
	if len(only) == 0 {
		stats, err := lib.BuildAll(ctx, opts...)
		printBuildStats(os.Stderr, stats...)
		return err
	}
	for _, name := range only {
		stats, err := lib.Build(ctx, name, opts...)
		if err != nil {
			return err
		}
		printBuildStats(os.Stderr, stats)
	}
	return nil
}

func printBuildStats(w io.Writer, stats ...core.BuildStats) {
	for _, s := range stats {
		if s.Index == "" {
			continue
		}
		status := ""
		if s.Cancelled {
			status = " (cancelled)"
		}
		fmt.Fprintf(w, "%-9s %s new, %s skipped, %s failed, %s keys in %s%s\n",
			s.Index,
			humanize.Comma(int64(s.NewlyIndexed)),
			humanize.Comma(int64(s.Skipped)),
			humanize.Comma(int64(s.Failed)),
			humanize.Comma(int64(s.UniqueKeys)),
			s.Elapsed.Round(time.Millisecond),
			status)
	}
}

func searchCommand(c *cli.Context) error {
	text := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if text == "" {
		return fmt.Errorf("search requires a query")
	}

	lib, _, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	var assets []*core.Asset
	if c.Bool("explain") {
		assets, err = lib.SearchWithMonitor(c.Context, text, &explainMonitor{w: os.Stderr})
	} else {
		assets, err = lib.Search(c.Context, text)
	}
	if err != nil {
		return err
	}

	if c.Bool("json") {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(toResults(assets))
	}
	printAssets(os.Stdout, assets)
	return nil
}

type result struct {
	ID        core.AssetID     `json:"id"`
	Path      string           `json:"path,omitempty"`
	MediaType string           `json:"media_type"`
	CreatedAt time.Time        `json:"created_at"`
	Location  *core.Coordinate `json:"location,omitempty"`
	People    []string         `json:"people,omitempty"`
}

func toResults(assets []*core.Asset) []result {
	out := make([]result, len(assets))
	for i, a := range assets {
		out[i] = result{
			ID:        a.ID,
			Path:      a.Path,
			MediaType: a.MediaType.String(),
			CreatedAt: a.CreatedAt,
			Location:  a.Location,
			People:    a.People,
		}
	}
	return out
}

func printAssets(w io.Writer, assets []*core.Asset) {
	if len(assets) == 0 {
		fmt.Fprintln(w, "No matches")
		return
	}
	for i, a := range assets {
		name := a.Path
		if name == "" {
			name = string(a.ID)
		}
		fmt.Fprintf(w, "%3d. %-5s %s  %s (%s)\n", i+1, a.MediaType,
			a.CreatedAt.Format(time.DateOnly), name, humanize.Time(a.CreatedAt))
	}
}

func clearCommand(c *cli.Context) error {
	lib, _, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	names := c.Args().Slice()
	if err := lib.Clear(c.Context, names...); err != nil {
		return err
	}
	if len(names) == 0 {
		names = glimpse.IndexNames
	}
	fmt.Fprintf(os.Stderr, "Cleared %s\n", strings.Join(names, ", "))
	return nil
}

func statsCommand(c *cli.Context) error {
	lib, cfg, err := openLibrary(c)
	if err != nil {
		return err
	}
	defer lib.Close()

	stats, err := lib.Stats(c.Context)
	if err != nil {
		return err
	}
	printStats(os.Stdout, cfg.DataDir, stats)
	return nil
}

func printStats(w io.Writer, dataDir string, stats *glimpse.Stats) {
	fmt.Fprintf(w, "Library:  %s\n", dataDir)
	fmt.Fprintf(w, "Assets:   %s\n", humanize.Comma(int64(stats.Assets)))
	fmt.Fprintf(w, "On disk:  %s\n", humanize.Bytes(uint64(max(stats.DiskBytes, 0))))
	for _, idx := range stats.Indices {
		built := "never built"
		if cp := idx.Checkpoint; cp != nil {
			built = fmt.Sprintf("built %s, %s indexed", humanize.Time(cp.UpdatedAt), humanize.Comma(int64(cp.IndexedSize)))
		}
		fmt.Fprintf(w, "%-9s %s assets, %s keys, %s\n", idx.Name,
			humanize.Comma(int64(idx.Assets)), humanize.Comma(int64(idx.Keys)), built)
	}
}

func configPathCommand(c *cli.Context) error {
	path, err := configPath(c)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, path)
	return nil
}

func configInitCommand(c *cli.Context) error {
	path, err := configPath(c)
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}
	cfg := config.Default()
	if dir := c.String("data-dir"); dir != "" {
		cfg.DataDir = dir
	}
	if err := cfg.Save(path); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Wrote %s\n", path)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
