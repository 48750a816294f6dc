// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/qolzam/newsroom/news/models"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// NewsService drives the news lifecycle. Every mutating operation takes
// the acting user explicitly and enforces ownership before any side
// effect. Files are always stored before metadata references them and
// metadata is deleted before its files.
type NewsService interface {
	// CreateNews stores the uploads, then creates the news row owned by
	// principalID with the refs attached in receipt order.
	CreateNews(ctx context.Context, principalID uuid.UUID, req *models.CreateNewsRequest, uploads []*storageModels.Upload) (*models.News, error)

	// UpdateNews merges non-nil patch fields into the news item.
	// Images are never modified here.
	UpdateNews(ctx context.Context, principalID, id uuid.UUID, patch *models.UpdateNewsRequest) (*models.News, error)

	// AddImages appends the uploads to the image list, all or nothing.
	AddImages(ctx context.Context, principalID, id uuid.UUID, uploads []*storageModels.Upload) (*models.News, error)

	// RemoveImage detaches ref from the item, then deletes its file.
	RemoveImage(ctx context.Context, principalID, id uuid.UUID, ref string) (*models.News, error)

	// DeleteNews removes the row, then its files best-effort.
	DeleteNews(ctx context.Context, principalID, id uuid.UUID) error

	// GetNews retrieves a single news item.
	GetNews(ctx context.Context, id uuid.UUID) (*models.News, error)

	// ListNews retrieves news matching the filter.
	ListNews(ctx context.Context, filter *models.NewsQueryFilter) (*models.NewsListResponse, error)

	// ListNewsByUser retrieves news owned by userID.
	ListNewsByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*models.NewsListResponse, error)
}
