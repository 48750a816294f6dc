// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/qolzam/newsroom/storage/models"
)

// BlobStoreService validates and stores uploaded files and removes
// stored blobs by reference. References have the canonical form
// "<kind>/<filename>" and are what the metadata layer persists.
type BlobStoreService interface {
	// Store validates and writes a single upload under the given kind.
	Store(ctx context.Context, kind string, upload *models.Upload) (*models.StoredBlob, error)

	// StoreBatch validates all uploads first, then writes them. When a
	// write fails mid-batch, already written blobs are removed before
	// the error is returned.
	StoreBatch(ctx context.Context, kind string, uploads []*models.Upload) ([]*models.StoredBlob, error)

	// Remove deletes the blob at ref. Removing an absent blob succeeds.
	Remove(ctx context.Context, ref string) error

	// Exists reports whether a blob is stored at ref.
	Exists(ctx context.Context, ref string) (bool, error)
}
