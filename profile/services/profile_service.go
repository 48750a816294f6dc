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

	"github.com/qolzam/newsroom/internal/cache"
	"github.com/qolzam/newsroom/internal/pkg/log"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	profileErrors "github.com/qolzam/newsroom/profile/errors"
	"github.com/qolzam/newsroom/profile/models"
	"github.com/qolzam/newsroom/profile/repository"
	storageModels "github.com/qolzam/newsroom/storage/models"
	storageServices "github.com/qolzam/newsroom/storage/services"
)

// avatarsKind is the blob kind avatars are stored under.
const avatarsKind = "avatars"

// maxConflictRetries bounds the optimistic-concurrency retry loops.
const maxConflictRetries = 3

// profileService implements the ProfileService interface
type profileService struct {
	repo         repository.ProfileRepository
	blobStore    storageServices.BlobStoreService
	cacheService *cache.GenericCacheService
	config       *platformconfig.Config
}

// NewProfileService creates a new instance of the profile service.
// cacheService may be nil; caching is then skipped entirely.
func NewProfileService(repo repository.ProfileRepository, blobStore storageServices.BlobStoreService, cacheService *cache.GenericCacheService, cfg *platformconfig.Config) ProfileService {
	return &profileService{
		repo:         repo,
		blobStore:    blobStore,
		cacheService: cacheService,
		config:       cfg,
	}
}

// GetProfile retrieves a profile, served from cache when possible.
func (s *profileService) GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	cacheKey := "profile:item:" + id.String()

	if s.cacheService != nil {
		var cached models.Profile
		if err := s.cacheService.GetCached(ctx, cacheKey, &cached); err == nil {
			return &cached, nil
		}
	}

	profile, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cacheService != nil {
		if err := s.cacheService.CacheData(ctx, cacheKey, profile); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
			log.Warn("Failed to cache profile %s: %v", id.String(), err)
		}
	}

	return profile, nil
}

// UpdateProfile merges non-nil patch fields under the optimistic retry loop.
func (s *profileService) UpdateProfile(ctx context.Context, principalID uuid.UUID, patch *models.UpdateProfileRequest) (*models.Profile, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		profile, err := s.load(ctx, principalID)
		if err != nil {
			return nil, err
		}

		if patch.FirstName != nil {
			profile.FirstName = *patch.FirstName
		}
		if patch.LastName != nil {
			profile.LastName = *patch.LastName
		}
		if patch.Phone != nil {
			profile.Phone = *patch.Phone
		}
		if patch.Bio != nil {
			profile.Bio = *patch.Bio
		}
		if patch.SocialLink != nil {
			profile.SocialLink = *patch.SocialLink
		}

		err = s.repo.Update(ctx, profile)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update profile: %w", err)
		}

		s.invalidate(ctx, principalID)
		return profile, nil
	}

	return nil, profileErrors.ErrConflict
}

// SetAvatar stores the new file before any metadata change, then swaps
// the reference under the optimistic retry loop. The old file is
// removed best-effort once the swap is durable; an already absent old
// file is not an error.
func (s *profileService) SetAvatar(ctx context.Context, principalID uuid.UUID, upload *storageModels.Upload) (*models.Profile, error) {
	stored, err := s.blobStore.Store(ctx, avatarsKind, upload)
	if err != nil {
		return nil, err
	}

	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		profile, err := s.load(ctx, principalID)
		if err != nil {
			s.cleanupRef(ctx, stored.Ref)
			return nil, err
		}

		oldRef := profile.Avatar
		profile.Avatar = stored.Ref

		err = s.repo.Update(ctx, profile)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			s.cleanupRef(ctx, stored.Ref)
			return nil, fmt.Errorf("failed to save avatar: %w", err)
		}

		if oldRef != "" && oldRef != stored.Ref {
			s.cleanupRef(ctx, oldRef)
		}

		s.invalidate(ctx, principalID)
		return profile, nil
	}

	s.cleanupRef(ctx, stored.Ref)
	return nil, profileErrors.ErrConflict
}

// ClearAvatar resets the reference before touching the file, so a crash
// between the two leaves an orphan file, never a dangling reference.
func (s *profileService) ClearAvatar(ctx context.Context, principalID uuid.UUID) (*models.Profile, error) {
	for attempt := 0; attempt < maxConflictRetries; attempt++ {
		profile, err := s.load(ctx, principalID)
		if err != nil {
			return nil, err
		}

		if profile.Avatar == "" {
			return nil, profileErrors.ErrNoAvatarSet
		}

		oldRef := profile.Avatar
		profile.Avatar = ""

		err = s.repo.Update(ctx, profile)
		if errors.Is(err, repository.ErrVersionConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to clear avatar: %w", err)
		}

		s.cleanupRef(ctx, oldRef)
		s.invalidate(ctx, principalID)
		return profile, nil
	}

	return nil, profileErrors.ErrConflict
}

func (s *profileService) load(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	profile, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, profileErrors.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	return profile, nil
}

// cleanupRef deletes a stored file best-effort. Failures are logged;
// the janitor reconciles leftovers.
func (s *profileService) cleanupRef(ctx context.Context, ref string) {
	if err := s.blobStore.Remove(ctx, ref); err != nil {
		log.Error("Failed to clean up blob %s: %v", ref, err)
	}
}

func (s *profileService) invalidate(ctx context.Context, id uuid.UUID) {
	if s.cacheService == nil {
		return
	}
	if err := s.cacheService.InvalidateKey(ctx, "profile:item:"+id.String()); err != nil && !errors.Is(err, cache.ErrCacheDisabled) {
		log.Warn("Failed to invalidate profile cache: %v", err)
	}
}
