package geoindex

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/poiesic/glimpse/ai"
	"github.com/poiesic/glimpse/core"
)

const (
	// DefaultRadiusKm is used when Search is called without a radius.
	DefaultRadiusKm = 10.0

	resolvedRadiusKm    = 20.0
	regionRadiusKm      = 50.0
	approximateRadiusKm = 25.0
)

const resolvePlacePrompt = `Identify the place named below. It may be a hotel, restaurant, venue, landmark, neighbourhood or a misspelled town.
Reply with only its location in the form "Town, Region, Country" on a single line.
If you do not know the place, reply with the single word unknown.

Place: %s`

const approximateCoordinatesPrompt = `Give the approximate latitude and longitude of the place named below in decimal degrees.
Reply with only the two numbers separated by a comma, latitude first, for example: 37.98, 23.73
If you do not know the place, reply with the single word unknown.

Place: %s`

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// Search resolves placeName to coordinates and returns the assets nearby.
//
// Resolution stops at the first strategy that yields coordinates:
//  1. geocode the name directly, searching at radiusKm
//  2. ask the chat service for "Town, Region, Country", then geocode that
//     (radius at least 20 km) or its "Region, Country" tail (at least 50 km)
//  3. ask the chat service for approximate coordinates (at least 25 km)
//
// Returns core.ErrLocationNotFound when every strategy fails. A resolved
// place with no indexed assets returns an empty result.
func (idx *Index) Search(ctx context.Context, placeName string, radiusKm float64) ([]core.AssetID, error) {
	placeName = strings.TrimSpace(placeName)
	if placeName == "" {
		return nil, core.ErrLocationNotFound
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}

	if coord, ok := idx.geocode(ctx, placeName); ok {
		idx.logger.Debug("geocoded place", "place", placeName, "lat", coord.Latitude, "lon", coord.Longitude)
		return idx.SearchByCoordinate(coord.Latitude, coord.Longitude, radiusKm), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if resolved, ok := idx.resolvePlace(ctx, placeName); ok {
		if coord, ok := idx.geocode(ctx, resolved); ok {
			idx.logger.Debug("geocoded resolved place", "place", placeName, "resolved", resolved)
			return idx.SearchByCoordinate(coord.Latitude, coord.Longitude, max(radiusKm, resolvedRadiusKm)), nil
		}
		if region := regionOnly(resolved); region != "" {
			if coord, ok := idx.geocode(ctx, region); ok {
				idx.logger.Debug("geocoded region", "place", placeName, "region", region)
				return idx.SearchByCoordinate(coord.Latitude, coord.Longitude, max(radiusKm, regionRadiusKm)), nil
			}
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if coord, ok := idx.approximateCoordinates(ctx, placeName); ok {
		idx.logger.Debug("using approximate coordinates", "place", placeName, "lat", coord.Latitude, "lon", coord.Longitude)
		return idx.SearchByCoordinate(coord.Latitude, coord.Longitude, max(radiusKm, approximateRadiusKm)), nil
	}

	idx.logger.Info("location not found", "place", placeName)
	return nil, fmt.Errorf("%w: %s", core.ErrLocationNotFound, placeName)
}

func (idx *Index) geocode(ctx context.Context, query string) (*core.Coordinate, bool) {
	if idx.geocoder == nil {
		return nil, false
	}
	coord, err := idx.geocoder.Geocode(ctx, query)
	if err != nil {
		if !errors.Is(err, ai.ErrNoGeocodeResult) {
			idx.logger.Warn("geocoding failed", "query", query, "err", err)
		}
		return nil, false
	}
	return coord, true
}

func (idx *Index) resolvePlace(ctx context.Context, placeName string) (string, bool) {
	if idx.chat == nil || idx.geocoder == nil {
		return "", false
	}
	reply, err := idx.chat.Complete(ctx, ai.ChatRequest{
		Prompt:    fmt.Sprintf(resolvePlacePrompt, placeName),
		MaxTokens: 64,
	})
	if err != nil {
		idx.logger.Warn("place resolution failed", "place", placeName, "err", err)
		return "", false
	}
	resolved := firstLine(reply)
	if resolved == "" || strings.EqualFold(resolved, "unknown") || strings.EqualFold(resolved, placeName) {
		return "", false
	}
	return resolved, true
}

func (idx *Index) approximateCoordinates(ctx context.Context, placeName string) (*core.Coordinate, bool) {
	if idx.chat == nil {
		return nil, false
	}
	reply, err := idx.chat.Complete(ctx, ai.ChatRequest{
		Prompt:    fmt.Sprintf(approximateCoordinatesPrompt, placeName),
		MaxTokens: 32,
	})
	if err != nil {
		idx.logger.Warn("coordinate lookup failed", "place", placeName, "err", err)
		return nil, false
	}
	return ParseCoordinates(reply)
}

// ParseCoordinates extracts the first two numbers of a reply as latitude and
// longitude. Both must be in range.
func ParseCoordinates(reply string) (*core.Coordinate, bool) {
	nums := numberPattern.FindAllString(reply, 2)
	if len(nums) < 2 {
		return nil, false
	}
	lat, errLat := strconv.ParseFloat(nums[0], 64)
	lon, errLon := strconv.ParseFloat(nums[1], 64)
	if errLat != nil || errLon != nil || core.ValidateCoordinate(lat, lon) != nil {
		return nil, false
	}
	return &core.Coordinate{Latitude: lat, Longitude: lon}, true
}

// regionOnly drops the town from "Town, Region, Country".
func regionOnly(resolved string) string {
	parts := strings.Split(resolved, ",")
	if len(parts) < 3 {
		return ""
	}
	tail := make([]string, 0, len(parts)-1)
	for _, p := range parts[1:] {
		if p = strings.TrimSpace(p); p != "" {
			tail = append(tail, p)
		}
	}
	return strings.Join(tail, ", ")
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return strings.Trim(strings.TrimSpace(s), `."'`)
}
