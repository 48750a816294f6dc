// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"

	"github.com/qolzam/newsroom/profile/models"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// ProfileService defines the profile business logic, including the
// avatar lifecycle. Every mutation acts on the caller's own profile.
type ProfileService interface {
	// GetProfile retrieves a profile by user id.
	GetProfile(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// UpdateProfile merges non-nil patch fields into the caller's profile.
	UpdateProfile(ctx context.Context, principalID uuid.UUID, patch *models.UpdateProfileRequest) (*models.Profile, error)

	// SetAvatar stores the upload, swaps the caller's avatar reference
	// to it and removes the previous file best-effort.
	SetAvatar(ctx context.Context, principalID uuid.UUID, upload *storageModels.Upload) (*models.Profile, error)

	// ClearAvatar resets the caller's avatar reference and removes the
	// file best-effort.
	ClearAvatar(ctx context.Context, principalID uuid.UUID) (*models.Profile, error)
}
