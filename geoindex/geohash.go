package geoindex

import "math"

const (
	base32Alphabet = "0123456789bcdefghjkmnpqrstuvwxyz"

	// MaxPrecision is the longest geohash produced by Encode.
	MaxPrecision = 12
)

var base32Index = func() [256]int8 {
	var idx [256]int8
	for i := range idx {
		idx[i] = -1
	}
	for i := 0; i < len(base32Alphabet); i++ {
		idx[base32Alphabet[i]] = int8(i)
	}
	return idx
}()

// Box is the latitude/longitude rectangle covered by a geohash cell.
type Box struct {
	MinLat, MaxLat float64
	MinLon, MaxLon float64
}

// Center returns the midpoint of the box.
func (b Box) Center() (lat, lon float64) {
	return (b.MinLat + b.MaxLat) / 2, (b.MinLon + b.MaxLon) / 2
}

// Contains reports whether the point lies inside the box, edges included.
func (b Box) Contains(lat, lon float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lon >= b.MinLon && lon <= b.MaxLon
}

// Encode returns the base-32 geohash of a point. Bits alternate between
// longitude and latitude, starting with longitude, five bits per character.
// Precision is clamped to 1..MaxPrecision.
func Encode(lat, lon float64, precision int) string {
	precision = max(1, min(precision, MaxPrecision))
	lat = math.Max(-90, math.Min(90, lat))
	lon = math.Max(-180, math.Min(180, lon))

	latLo, latHi := -90.0, 90.0
	lonLo, lonHi := -180.0, 180.0

	out := make([]byte, 0, precision)
	even := true
	bit, ch := 0, 0
	for len(out) < precision {
		if even {
			mid := (lonLo + lonHi) / 2
			if lon >= mid {
				ch = ch<<1 | 1
				lonLo = mid
			} else {
				ch <<= 1
				lonHi = mid
			}
		} else {
			mid := (latLo + latHi) / 2
			if lat >= mid {
				ch = ch<<1 | 1
				latLo = mid
			} else {
				ch <<= 1
				latHi = mid
			}
		}
		even = !even

		bit++
		if bit == 5 {
			out = append(out, base32Alphabet[ch])
			bit, ch = 0, 0
		}
	}
	return string(out)
}

// Bounds returns the cell rectangle of hash. Invalid characters stop the
// decoding, leaving the enclosing cell of the valid prefix.
func Bounds(hash string) Box {
	box := Box{MinLat: -90, MaxLat: 90, MinLon: -180, MaxLon: 180}
	even := true
	for i := 0; i < len(hash); i++ {
		v := base32Index[hash[i]]
		if v < 0 {
			break
		}
		for mask := 16; mask > 0; mask >>= 1 {
			set := int(v)&mask != 0
			if even {
				mid := (box.MinLon + box.MaxLon) / 2
				if set {
					box.MinLon = mid
				} else {
					box.MaxLon = mid
				}
			} else {
				mid := (box.MinLat + box.MaxLat) / 2
				if set {
					box.MinLat = mid
				} else {
					box.MaxLat = mid
				}
			}
			even = !even
		}
	}
	return box
}

// Decode returns the centre of the cell.
func Decode(hash string) (lat, lon float64) {
	return Bounds(hash).Center()
}

// Valid reports whether hash is non-empty and uses only geohash characters.
func Valid(hash string) bool {
	if hash == "" {
		return false
	}
	for i := 0; i < len(hash); i++ {
		if base32Index[hash[i]] < 0 {
			return false
		}
	}
	return true
}

// CellSize returns the height and width in degrees of cells at precision.
func CellSize(precision int) (latDeg, lonDeg float64) {
	bits := 5 * precision
	lonBits := (bits + 1) / 2
	latBits := bits / 2
	return 180 / math.Pow(2, float64(latBits)), 360 / math.Pow(2, float64(lonBits))
}

// Neighbors returns the up to eight cells surrounding hash at the same
// precision. Cells past the poles are dropped; longitude wraps.
func Neighbors(hash string) []string {
	precision := len(hash)
	lat, lon := Decode(hash)
	dLat, dLon := CellSize(precision)

	seen := map[string]bool{hash: true}
	out := make([]string, 0, 8)
	for _, dy := range []float64{1, 0, -1} {
		for _, dx := range []float64{-1, 0, 1} {
			if dx == 0 && dy == 0 {
				continue
			}
			nLat := lat + dy*dLat
			if nLat > 90 || nLat < -90 {
				continue
			}
			nLon := wrapLongitude(lon + dx*dLon)
			n := Encode(nLat, nLon, precision)
			if !seen[n] {
				seen[n] = true
				out = append(out, n)
			}
		}
	}
	return out
}

// Children returns the 32 cells one character longer than hash.
func Children(hash string) []string {
	out := make([]string, len(base32Alphabet))
	for i := 0; i < len(base32Alphabet); i++ {
		out[i] = hash + base32Alphabet[i:i+1]
	}
	return out
}

func wrapLongitude(lon float64) float64 {
	for lon >= 180 {
		lon -= 360
	}
	for lon < -180 {
		lon += 360
	}
	return lon
}

// PrecisionForRadius picks the geohash length whose cells roughly match a
// search radius in kilometres.
func PrecisionForRadius(radiusKm float64) int {
	switch {
	case radiusKm < 0.1:
		return 7
	case radiusKm < 1:
		return 6
	case radiusKm < 5:
		return 5
	case radiusKm < 40:
		return 4
	default:
		return 3
	}
}
