package convert

import "errors"

var (
	// ErrUnsupportedFormat means the payload is not a word-processing document.
	ErrUnsupportedFormat = errors.New("unsupported document format")
	// ErrMalformedDocument means the payload claims a supported format but cannot be parsed.
	ErrMalformedDocument = errors.New("malformed document")
)
