package ipfs

import "errors"

var (
	// ErrUploadFailed means the pinning service did not acknowledge the upload
	// with a content identifier.
	ErrUploadFailed = errors.New("upload failed")
	// ErrResolutionFailed means a content identifier could not be resolved to
	// a gateway URL.
	ErrResolutionFailed = errors.New("resolution failed")
	// ErrFetchFailed means content could not be fetched or failed schema
	// validation at the gateway boundary.
	ErrFetchFailed = errors.New("fetch failed")
)
