// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"

	"github.com/qolzam/newsroom/news/models"
)

// ErrVersionConflict is returned by Update when the row version changed
// since the caller loaded it. Callers re-read and retry.
var ErrVersionConflict = errors.New("news version conflict")

// NewsFilter narrows Find and Count queries.
type NewsFilter struct {
	OwnerUserId *uuid.UUID
	Search      string
}

// NewsRepository defines persistence operations for news items.
type NewsRepository interface {
	// Create inserts a new news row.
	Create(ctx context.Context, news *models.News) error

	// FindByID retrieves a news item by its ID.
	FindByID(ctx context.Context, id uuid.UUID) (*models.News, error)

	// FindByUser retrieves news owned by userID, newest first.
	FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.News, error)

	// Find retrieves news matching the filter, newest first.
	Find(ctx context.Context, filter NewsFilter, limit, offset int) ([]*models.News, error)

	// Count returns the number of news matching the filter.
	Count(ctx context.Context, filter NewsFilter) (int64, error)

	// Update writes the full field set if and only if the stored
	// version equals news.Version; the stored version is bumped.
	// Returns ErrVersionConflict when no row matched.
	Update(ctx context.Context, news *models.News) error

	// Delete removes the news row.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListImageRefs returns every image reference held by any news row.
	ListImageRefs(ctx context.Context) ([]string, error)
}
