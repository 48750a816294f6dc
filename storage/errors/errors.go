// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package errors

import "errors"

var (
	// ErrUnsupportedMediaType is returned when the declared MIME type
	// is not in the allowlist.
	ErrUnsupportedMediaType = errors.New("invalid MIME type: file type not allowed")

	// ErrPayloadTooLarge is returned when a file exceeds the size cap.
	ErrPayloadTooLarge = errors.New("file too large: max size exceeded")

	// ErrBlobNotFound is returned when a referenced blob does not exist.
	ErrBlobNotFound = errors.New("file not found")

	// ErrInvalidRef is returned for malformed or traversal-attempting references.
	ErrInvalidRef = errors.New("invalid blob reference")
)
