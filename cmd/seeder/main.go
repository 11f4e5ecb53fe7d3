package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/poiesic/glimpse"
	"github.com/poiesic/glimpse/core"
	"github.com/poiesic/glimpse/storage"
)

var (
	seedFileName = flag.String("file", "", "Seed file with one asset per line: path,RFC3339 time,lat,lon,photo|video,person;person")
	dataDir      = flag.String("db", "./glimpse_db", "Path to the library database directory")
	count        = flag.Int("count", 200, "Number of generated assets when no seed file is given")
	seed         = flag.Uint64("seed", 1, "Random seed for generated assets")
)

type place struct {
	name     string
	lat, lon float64
}

var places = []place{
	{"Athens", 37.9838, 23.7275},
	{"Paris", 48.8566, 2.3522},
	{"Lisbon", 38.7223, -9.1393},
	{"Kyoto", 35.0116, 135.7681},
	{"Reykjavik", 64.1466, -21.9426},
	{"Cape Town", -33.9249, 18.4241},
}

var people = []string{"Alice", "Bob", "Chloe", "Dimitri", "Esther"}

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// parseLine reads one seed file record. Empty coordinates leave the asset
// without a location.
func parseLine(line string) (*core.Asset, error) {
	fields := strings.Split(line, ",")
	if len(fields) < 5 {
		return nil, fmt.Errorf("expected at least 5 fields, got %d", len(fields))
	}
	created, err := time.Parse(time.RFC3339, strings.TrimSpace(fields[1]))
	if err != nil {
		return nil, err
	}
	asset := &core.Asset{
		ID:        core.IDFromContent(fields[0]),
		Path:      fields[0],
		CreatedAt: created,
		MediaType: core.ParseMediaType(strings.TrimSpace(fields[4])),
	}
	if asset.MediaType == core.MediaTypeAll {
		return nil, fmt.Errorf("unknown media type %q", fields[4])
	}
	if lat, lon := strings.TrimSpace(fields[2]), strings.TrimSpace(fields[3]); lat != "" && lon != "" {
		la, err := strconv.ParseFloat(lat, 64)
		if err != nil {
			return nil, err
		}
		lo, err := strconv.ParseFloat(lon, 64)
		if err != nil {
			return nil, err
		}
		asset.Location = &core.Coordinate{Latitude: la, Longitude: lo}
	}
	if len(fields) > 5 && strings.TrimSpace(fields[5]) != "" {
		asset.People = strings.Split(strings.TrimSpace(fields[5]), ";")
	}
	return asset, nil
}

// assetsFromLines parses every line, logging and skipping bad records.
func assetsFromLines(lines iter.Seq[string]) iter.Seq[*core.Asset] {
	return func(yield func(*core.Asset) bool) {
		n := 0
		for line := range lines {
			n++
			if strings.TrimSpace(line) == "" || strings.HasPrefix(line, "#") {
				continue
			}
			asset, err := parseLine(line)
			if err != nil {
				slog.Warn("skipping seed line", "line", n, "err", err)
				continue
			}
			if !yield(asset) {
				return
			}
		}
	}
}

// generatedAssets yields n assets spread over a few trips and a home town.
func generatedAssets(n int, r *rand.Rand) iter.Seq[*core.Asset] {
	return func(yield func(*core.Asset) bool) {
		now := time.Now().UTC().Truncate(time.Hour)
		for i := range n {
			p := places[r.IntN(len(places))]
			created := now.Add(-time.Duration(r.IntN(3*365*24)) * time.Hour)
			asset := &core.Asset{
				Path:      fmt.Sprintf("/demo/%s/IMG_%04d.jpg", strings.ToLower(strings.ReplaceAll(p.name, " ", "_")), i),
				CreatedAt: created,
				MediaType: core.MediaTypePhoto,
				IsSelfie:  r.IntN(10) == 0,
			}
			if r.IntN(5) == 0 {
				asset.MediaType = core.MediaTypeVideo
				asset.Path = strings.TrimSuffix(asset.Path, ".jpg") + ".mp4"
				asset.DurationSeconds = float64(5 + r.IntN(120))
			}
			if r.IntN(8) != 0 {
				// Jitter within a few kilometres of the town centre.
				asset.Location = &core.Coordinate{
					Latitude:  p.lat + (r.Float64()-0.5)*0.05,
					Longitude: p.lon + (r.Float64()-0.5)*0.05,
				}
			}
			if r.IntN(3) == 0 {
				asset.People = []string{people[r.IntN(len(people))]}
			}
			asset.ID = core.IDFromContent(asset.Path)
			if !yield(asset) {
				return
			}
		}
	}
}

// storeBatched reads from a source iterator and stores assets in batches.
func storeBatched(ctx context.Context, repo storage.AssetRepository, source iter.Seq[*core.Asset], batchSize int) (int, error) {
	batch := make([]*core.Asset, 0, batchSize)
	stored := 0

	flush := func() error {
		if _, err := repo.AddAssets(ctx, batch...); err != nil {
			return err
		}
		stored += len(batch)
		batch = batch[:0]
		return nil
	}

	for asset := range source {
		batch = append(batch, asset)
		if len(batch) == batchSize {
			if err := flush(); err != nil {
				return stored, err
			}
		}
	}

	// Store any remaining assets
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return stored, err
		}
	}

	return stored, nil
}

func main() {
	flag.Parse()
	ctx := context.Background()
	lib, err := glimpse.Open(ctx, *dataDir)
	if err != nil {
		panic(err)
	}
	defer lib.Close()

	// Determine source of seed data
	var source iter.Seq[*core.Asset]
	if *seedFileName != "" {
		lines, err := linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
		source = assetsFromLines(lines)
	} else {
		source = generatedAssets(*count, rand.New(rand.NewPCG(*seed, *seed)))
	}

	stored, err := storeBatched(ctx, lib.Assets(), source, 50)
	if err != nil {
		panic(err)
	}
	slog.Info("seeded library", "path", *dataDir, "assets", stored)

	// Locations need no AI services, so the geo index can be built right away.
	stats, err := lib.Build(ctx, "geo")
	if err != nil {
		slog.Warn("geo index build failed", "err", err)
		return
	}
	slog.Info("built geo index", "indexed", stats.NewlyIndexed, "cells", stats.UniqueKeys)
}
