// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package provider

import "context"

// BlobProvider defines the interface for blob storage backends.
// Keys are storage-relative references of the form "<kind>/<filename>".
// The interface is provider-agnostic so the disk backend can later be
// swapped for an object store without touching the services.
type BlobProvider interface {
	// Put writes the blob at key. Existing keys are overwritten.
	Put(ctx context.Context, key string, data []byte) error

	// Delete removes the blob at key. Deleting a key that does not
	// exist is not an error; Delete is idempotent.
	Delete(ctx context.Context, key string) error

	// Exists reports whether a blob is stored at key.
	Exists(ctx context.Context, key string) (bool, error)

	// List returns all keys under the given kind prefix.
	List(ctx context.Context, kind string) ([]string, error)
}
