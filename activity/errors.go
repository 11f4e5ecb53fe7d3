package activity

import "errors"

var (
	// ErrAssetRepositoryRequired is returned when no asset repository is supplied.
	ErrAssetRepositoryRequired = errors.New("asset repository is required")

	// ErrBlobStoreRequired is returned when no blob store is supplied.
	ErrBlobStoreRequired = errors.New("blob store is required")

	// ErrClassifierRequired is returned when no visual classifier is supplied.
	ErrClassifierRequired = errors.New("visual classifier is required")

	// ErrDecoderRequired is returned when no media decoder is supplied.
	ErrDecoderRequired = errors.New("media decoder is required")
)
