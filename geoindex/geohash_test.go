package geoindex

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncode_KnownValues(t *testing.T) {
	assert.Equal(t, "u4pruydqqvj", Encode(57.64911, 10.40744, 11))
	assert.Equal(t, "ezs42", Encode(42.605, -5.603, 5))
	assert.Equal(t, "s", Encode(0, 0, 1))
	assert.Equal(t, "7", Encode(-0.1, -0.1, 1))
}

func TestEncode_ClampsPrecision(t *testing.T) {
	assert.Len(t, Encode(10, 10, 0), 1)
	assert.Len(t, Encode(10, 10, 40), MaxPrecision)
}

func TestDecode_KnownValue(t *testing.T) {
	lat, lon := Decode("ezs42")
	assert.InDelta(t, 42.605, lat, 0.03)
	assert.InDelta(t, -5.603, lon, 0.03)
}

func TestRoundTrip_WithinCell(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 2000; i++ {
		lat := rng.Float64()*180 - 90
		lon := rng.Float64()*360 - 180
		precision := 1 + rng.Intn(MaxPrecision)

		hash := Encode(lat, lon, precision)
		box := Bounds(hash)
		require.True(t, box.Contains(lat, lon), "point %f,%f outside %s", lat, lon, hash)

		cLat, cLon := Decode(hash)
		require.True(t, box.Contains(cLat, cLon))
		require.Equal(t, hash, Encode(cLat, cLon, precision))
	}
}

func TestBounds_Prefix(t *testing.T) {
	outer := Bounds("sw8")
	inner := Bounds("sw8z")
	assert.GreaterOrEqual(t, inner.MinLat, outer.MinLat)
	assert.LessOrEqual(t, inner.MaxLat, outer.MaxLat)
	assert.GreaterOrEqual(t, inner.MinLon, outer.MinLon)
	assert.LessOrEqual(t, inner.MaxLon, outer.MaxLon)
}

func TestValid(t *testing.T) {
	assert.True(t, Valid("sw8z"))
	assert.False(t, Valid(""))
	assert.False(t, Valid("sw8a"))
	assert.False(t, Valid("SW8"))
}

func TestCellSize(t *testing.T) {
	lat, lon := CellSize(1)
	assert.Equal(t, 45.0, lat)
	assert.Equal(t, 45.0, lon)

	lat, lon = CellSize(2)
	assert.Equal(t, 5.625, lat)
	assert.Equal(t, 11.25, lon)
}

func TestNeighbors(t *testing.T) {
	hash := Encode(37.9838, 23.7275, 5)
	neighbors := Neighbors(hash)
	require.Len(t, neighbors, 8)
	assert.NotContains(t, neighbors, hash)

	dLat, dLon := CellSize(5)
	cLat, cLon := Decode(hash)
	for _, n := range neighbors {
		assert.Len(t, n, 5)
		nLat, nLon := Decode(n)
		assert.InDelta(t, cLat, nLat, dLat*1.01)
		assert.InDelta(t, cLon, nLon, dLon*1.01)
	}
	assert.Contains(t, neighbors, Encode(cLat+dLat, cLon, 5))
	assert.Contains(t, neighbors, Encode(cLat, cLon-dLon, 5))
}

func TestNeighbors_PoleAndDateLine(t *testing.T) {
	neighbors := Neighbors("zzzzzz")
	assert.Len(t, neighbors, 5, "cells north of the pole are dropped")

	lat, _ := Decode("zzzzzz")
	assert.Contains(t, neighbors, Encode(lat, -179.9999, 6), "longitude wraps")
}

func TestChildren(t *testing.T) {
	children := Children("sw8")
	require.Len(t, children, 32)
	parent := Bounds("sw8")
	for _, c := range children {
		lat, lon := Decode(c)
		assert.True(t, parent.Contains(lat, lon))
	}
}

func TestPrecisionForRadius(t *testing.T) {
	tests := []struct {
		radius float64
		want   int
	}{
		{0.05, 7},
		{0.1, 6},
		{0.5, 6},
		{1, 5},
		{4.9, 5},
		{5, 4},
		{39, 4},
		{40, 3},
		{500, 3},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, PrecisionForRadius(tt.radius), "radius %v", tt.radius)
	}
}
