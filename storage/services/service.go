// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"fmt"
	"math/rand"
	"path/filepath"
	"strings"
	"time"

	"github.com/qolzam/newsroom/internal/pkg/log"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	storageErrors "github.com/qolzam/newsroom/storage/errors"
	"github.com/qolzam/newsroom/storage/models"
	"github.com/qolzam/newsroom/storage/provider"
)

type service struct {
	provider provider.BlobProvider
	config   *platformconfig.UploadsConfig
}

// NewBlobStoreService creates a new blob store service backed by the
// given provider.
func NewBlobStoreService(blobProvider provider.BlobProvider, config *platformconfig.UploadsConfig) BlobStoreService {
	return &service{
		provider: blobProvider,
		config:   config,
	}
}

// Store validates and writes a single upload under the given kind.
func (s *service) Store(ctx context.Context, kind string, upload *models.Upload) (*models.StoredBlob, error) {
	if err := s.validate(upload); err != nil {
		return nil, err
	}
	return s.store(ctx, kind, upload)
}

// StoreBatch validates every upload before any write so a rejected
// file never leaves partial state behind. A failed write rolls back
// the blobs already stored in this batch.
func (s *service) StoreBatch(ctx context.Context, kind string, uploads []*models.Upload) ([]*models.StoredBlob, error) {
	for _, upload := range uploads {
		if err := s.validate(upload); err != nil {
			return nil, err
		}
	}

	stored := make([]*models.StoredBlob, 0, len(uploads))
	for _, upload := range uploads {
		blob, err := s.store(ctx, kind, upload)
		if err != nil {
			s.rollback(ctx, stored)
			return nil, err
		}
		stored = append(stored, blob)
	}
	return stored, nil
}

// Remove deletes the blob at ref. Absent blobs are treated as removed.
func (s *service) Remove(ctx context.Context, ref string) error {
	return s.provider.Delete(ctx, ref)
}

// Exists reports whether a blob is stored at ref.
func (s *service) Exists(ctx context.Context, ref string) (bool, error) {
	return s.provider.Exists(ctx, ref)
}

func (s *service) validate(upload *models.Upload) error {
	if !s.isMimeTypeAllowed(upload.ContentType) {
		return fmt.Errorf("%w: %s", storageErrors.ErrUnsupportedMediaType, upload.ContentType)
	}

	maxSize := int64(s.config.MaxFileSizeMB) * 1024 * 1024
	if int64(len(upload.Data)) > maxSize {
		return fmt.Errorf("%w: max %d MB", storageErrors.ErrPayloadTooLarge, s.config.MaxFileSizeMB)
	}
	return nil
}

// isMimeTypeAllowed checks if the MIME type is in the allowed list
func (s *service) isMimeTypeAllowed(mimeType string) bool {
	if len(s.config.AllowedMimeTypes) == 0 {
		return true
	}
	for _, allowed := range s.config.AllowedMimeTypes {
		if strings.EqualFold(mimeType, strings.TrimSpace(allowed)) {
			return true
		}
	}
	return false
}

func (s *service) store(ctx context.Context, kind string, upload *models.Upload) (*models.StoredBlob, error) {
	filename := generateFilename(upload.Field, upload.OriginalName)
	ref := kind + "/" + filename

	if err := s.provider.Put(ctx, ref, upload.Data); err != nil {
		return nil, fmt.Errorf("failed to store blob: %w", err)
	}

	return &models.StoredBlob{
		Ref:      ref,
		Filename: filename,
		Size:     int64(len(upload.Data)),
	}, nil
}

// rollback removes blobs written earlier in a failed batch. Failures
// here are logged and swallowed; the janitor will catch leftovers.
func (s *service) rollback(ctx context.Context, stored []*models.StoredBlob) {
	for _, blob := range stored {
		if err := s.provider.Delete(ctx, blob.Ref); err != nil {
			log.Error("Failed to roll back blob %s: %v", blob.Ref, err)
		}
	}
}

// generateFilename builds "<field>-<unixMillis>-<random9><ext>".
// The random suffix keeps concurrent uploads in the same millisecond
// from colliding.
func generateFilename(field, originalName string) string {
	if field == "" {
		field = "file"
	}
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%s-%d-%09d%s", field, time.Now().UnixMilli(), rand.Intn(1_000_000_000), ext)
}
