package geoindex

import "errors"

var (
	// ErrAssetRepositoryRequired is returned when no asset repository is supplied.
	ErrAssetRepositoryRequired = errors.New("asset repository is required")

	// ErrBlobStoreRequired is returned when no blob store is supplied.
	ErrBlobStoreRequired = errors.New("blob store is required")

	// ErrInvalidPrecision is returned for a full precision outside MinPrecision..MaxPrecision.
	ErrInvalidPrecision = errors.New("invalid geohash precision")
)
