package core

import (
	"fmt"
	"math"
)

// ValidateAsset validates an Asset according to domain rules.
//
// Validation rules:
//   - ID must not be empty
//   - MediaType must be photo or video
//   - Location, when present, must be in range
//   - DurationSeconds must not be negative
//
// NOT validated:
//   - CreatedAt (assets without capture time sort last)
//   - Path (externally managed assets have none)
func ValidateAsset(asset *Asset) error {
	if asset == nil {
		return fmt.Errorf("%w: asset is nil", ErrInvalidAsset)
	}

	if asset.ID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, ErrEmptyAssetID)
	}

	if asset.MediaType != MediaTypePhoto && asset.MediaType != MediaTypeVideo {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, ErrInvalidMediaType)
	}

	if asset.Location != nil {
		if err := ValidateCoordinate(asset.Location.Latitude, asset.Location.Longitude); err != nil {
			return fmt.Errorf("%w: %w", ErrInvalidAsset, err)
		}
	}

	if asset.DurationSeconds < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidAsset, ErrInvalidDuration)
	}

	return nil
}

// ValidateCoordinate checks that lat/lon are finite and within WGS84 bounds.
func ValidateCoordinate(lat, lon float64) error {
	if math.IsNaN(lat) || math.IsNaN(lon) || math.IsInf(lat, 0) || math.IsInf(lon, 0) {
		return ErrInvalidCoordinate
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return ErrInvalidCoordinate
	}
	return nil
}
