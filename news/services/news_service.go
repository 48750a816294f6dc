// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	uuid "github.com/gofrs/uuid"
	"github.com/lib/pq"

	"github.com/qolzam/newsroom/internal/attachments"
	"github.com/qolzam/newsroom/internal/cache"
	"github.com/qolzam/newsroom/internal/ownership"
	"github.com/qolzam/newsroom/internal/pkg/log"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	newsErrors "github.com/qolzam/newsroom/news/errors"
	"github.com/qolzam/newsroom/news/models"
	"github.com/qolzam/newsroom/news/repository"
	storageModels "github.com/qolzam/newsroom/storage/models"
	storageServices "github.com/qolzam/newsroom/storage/services"
)

// newsKind is the blob kind news images are stored under.
const newsKind = "news"

// maxConflictRetries bounds the optimistic-concurrency retry loops.
const maxConflictRetries = 3

// newsService implements the NewsService interface
type newsService struct {
	repo         repository.NewsRepository
	blobStore    storageServices.BlobStoreService
	cacheService *cache.GenericCacheService
	config       *platformconfig.Config
}

// NewNewsService creates a new instance of the news service.
// cacheService may be nil; caching is then skipped entirely.
func NewNewsService(repo repository.NewsRepository, blobStore storageServices.BlobStoreService, cacheService *cache.GenericCacheService, cfg *platformconfig.Config) NewsService {
	return &newsService{
		repo:         repo,
		blobStore:    blobStore,
		cacheService: cacheService,
		config:       cfg,
	}
}

// CreateNews stores the uploads first so the saved row never references
// a file that is not on disk. A failed save leaves orphan files for the
// janitor at worst; best-effort cleanup runs immediately.
func (s *newsService) CreateNews(ctx context.Context, principalID uuid.UUID, req *models.CreateNewsRequest, uploads []*storageModels.Upload) (*models.News, error) {
	if err := attachments.CheckAdd(0, len(uploads), s.maxImages()); err != nil {
		return nil, err
	}

	stored, err := s.blobStore.StoreBatch(ctx, newsKind, uploads)
	if err != nil {
		return nil, err
	}

	refs := make(pq.StringArray, len(stored))
	for i, blob := range stored {
		refs[i] = blob.Ref
	}

	id, err := uuid.NewV4()
	if err != nil {
		s.cleanupRefs(ctx, refs)
		return nil, fmt.Errorf("failed to generate news id: %w", err)
	}

	news := &models.News{
		ObjectId:    id,
		OwnerUserId: principalID,
		Title:       req.Title,
		Excerpt:     req.Excerpt,
		Body:        req.Body,
		Images:      refs,
		Version:     0,
	}

	if err := s.repo.Create(ctx, news); err != nil {
		s.cleanupRefs(ctx, refs)
		return nil, fmt.Errorf("failed to create news: %w", err)
	}

	s.invalidateCache(ctx)
	return news, nil
}

// UpdateNews merges non-nil patch fields under the optimistic retry loop.
func (s *newsService) UpdateNews(ctx context.Context, principalID, id uuid.UUID, patch *models.UpdateNewsRequest) (*models.News, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		news, err := s.loadOwned(ctx, principalID, id)
		if err != nil {
			return nil, err
		}

		if patch.Title != nil {
			news.Title = *patch.Title
		}
		if patch.Excerpt != nil {
			news.Excerpt = *patch.Excerpt
		}
		if patch.Body != nil {
			news.Body = *patch.Body
		}

		err = s.repo.Update(ctx, news)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update news: %w", err)
		}

		s.invalidateCache(ctx)
		return news, nil
	}

	return nil, newsErrors.ErrConflict
}

// AddImages appends uploads to the image list. Files land on disk
// before the save; on a version conflict this batch is removed and the
// whole attempt re-reads, so a concurrent winner's refs stay intact.
func (s *newsService) AddImages(ctx context.Context, principalID, id uuid.UUID, uploads []*storageModels.Upload) (*models.News, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		news, err := s.loadOwned(ctx, principalID, id)
		if err != nil {
			return nil, err
		}

		if err := attachments.CheckAdd(len(news.Images), len(uploads), s.maxImages()); err != nil {
			return nil, err
		}

		stored, err := s.blobStore.StoreBatch(ctx, newsKind, uploads)
		if err != nil {
			return nil, err
		}

		for _, blob := range stored {
			news.Images = append(news.Images, blob.Ref)
		}

		err = s.repo.Update(ctx, news)
		if errors.Is(err, repository.ErrVersionConflict) {
			refs := make([]string, len(stored))
			for i, blob := range stored {
				refs[i] = blob.Ref
			}
			s.cleanupRefs(ctx, refs)
			continue
		}
		if err != nil {
			refs := make([]string, len(stored))
			for i, blob := range stored {
				refs[i] = blob.Ref
			}
			s.cleanupRefs(ctx, refs)
			return nil, fmt.Errorf("failed to save news images: %w", err)
		}

		s.invalidateCache(ctx)
		return news, nil
	}

	return nil, newsErrors.ErrConflict
}

// RemoveImage detaches ref from the item before touching the file, so
// a crash between the two leaves an orphan file, never a dangling ref.
func (s *newsService) RemoveImage(ctx context.Context, principalID, id uuid.UUID, ref string) (*models.News, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		news, err := s.loadOwned(ctx, principalID, id)
		if err != nil {
			return nil, err
		}

		if !news.HasImage(ref) {
			return nil, fmt.Errorf("%w: %s", newsErrors.ErrImageNotFound, ref)
		}

		kept := make(pq.StringArray, 0, len(news.Images)-1)
		for _, existing := range news.Images {
			if existing != ref {
				kept = append(kept, existing)
			}
		}
		news.Images = kept

		err = s.repo.Update(ctx, news)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to save news images: %w", err)
		}

		if err := s.blobStore.Remove(ctx, ref); err != nil {
			log.Error("Failed to delete image file %s: %v", ref, err)
		}

		s.invalidateCache(ctx)
		return news, nil
	}

	return nil, newsErrors.ErrConflict
}

// DeleteNews removes the metadata row first, then the files. A failed
// file delete leaves orphans for the janitor.
func (s *newsService) DeleteNews(ctx context.Context, principalID, id uuid.UUID) error {
	news, err := s.loadOwned(ctx, principalID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return newsErrors.ErrNewsNotFound
		}
		return fmt.Errorf("failed to delete news: %w", err)
	}

	s.cleanupRefs(ctx, news.Images)
	s.invalidateCache(ctx)
	return nil
}

// GetNews retrieves a single news item, served from cache when possible.
func (s *newsService) GetNews(ctx context.Context, id uuid.UUID) (*models.News, error) {
	cacheKey := "news:item:" + id.String()

	if s.cacheService != nil {
		var cached models.News
		if err := s.cacheService.GetCached(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newsErrors.ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to get news: %w", err)
	}

	if s.cacheService != nil {
		if err := s.cacheService.CacheData(ctx, cacheKey, news); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			log.Warn("Failed to cache news %s: %v", id.String(), err)
		}
	}

	return news, nil
}

// ListNews retrieves news matching the filter, served from cache when possible.
func (s *newsService) ListNews(ctx context.Context, filter *models.NewsQueryFilter) (*models.NewsListResponse, error) {
	var cacheKey string
	if s.cacheService != nil {
		params := map[string]interface{}{
			"page":   filter.Page,
			"limit":  filter.Limit,
			"search": filter.Search,
		}
		if filter.OwnerUserId != nil {
			params["owner"] = filter.OwnerUserId.String()
		}
		cacheKey = s.cacheService.GenerateHashKey("news:list", params)

		var cached models.NewsListResponse
		if err := s.cacheService.GetCached(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	repoFilter := repository.NewsFilter{
		OwnerUserId: filter.OwnerUserId,
		Search:      filter.Search,
	}
	offset := (filter.Page - 1) * filter.Limit

	items, err := s.repo.Find(ctx, repoFilter, filter.Limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list news: %w", err)
	}

	total, err := s.repo.Count(ctx, repoFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to count news: %w", err)
	}

	response := s.buildListResponse(items, total, filter.Page, filter.Limit)

	if s.cacheService != nil && cacheKey != "" {
		if err := s.cacheService.CacheData(ctx, cacheKey, response); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			log.Warn("Failed to cache news list: %v", err)
		}
	}

	return response, nil
}

// ListNewsByUser retrieves news owned by userID.
func (s *newsService) ListNewsByUser(ctx context.Context, userID uuid.UUID, page, limit int) (*models.NewsListResponse, error) {
	filter := &models.NewsQueryFilter{
		OwnerUserId: &userID,
		Page:        page,
		Limit:       limit,
	}
	return s.ListNews(ctx, filter)
}

// loadOwned loads the item and enforces ownership before any mutation.
func (s *newsService) loadOwned(ctx context.Context, principalID, id uuid.UUID) (*models.News, error) {
	news, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, newsErrors.ErrNewsNotFound
		}
		return nil, fmt.Errorf("failed to load news: %w", err)
	}

	if err := ownership.CheckOwner(news.OwnerUserId, principalID); err != nil {
		return nil, fmt.Errorf("%w: %v", newsErrors.ErrNewsOwnershipRequired, err)
	}

	return news, nil
}

func (s *newsService) maxImages() int {
	if s.config != nil && s.config.Uploads.MaxImagesPerNews > 0 {
		return s.config.Uploads.MaxImagesPerNews
	}
	return 5
}

func (s *newsService) publicRoute() string {
	if s.config != nil && s.config.Uploads.PublicRoute != "" {
		return s.config.Uploads.PublicRoute
	}
	return "/uploads"
}

func (s *newsService) buildListResponse(items []*models.News, total int64, page, limit int) *models.NewsListResponse {
	responses := make([]models.NewsResponse, len(items))
	for i, item := range items {
		responses[i] = item.ToResponse(s.publicRoute())
	}

	return &models.NewsListResponse{
		News:       responses,
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		HasMore:    int64(page*limit) < total,
	}
}

// cleanupRefs deletes stored files best-effort. Failures are logged;
// the janitor reconciles leftovers.
func (s *newsService) cleanupRefs(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.blobStore.Remove(ctx, ref); err != nil {
			log.Error("Failed to clean up blob %s: %v", ref, err)
		}
	}
}

func (s *newsService) invalidateCache(ctx context.Context) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.InvalidatePattern(ctx, "news:*"); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		log.Warn("Failed to invalidate news cache: %v", err)
	}
}
