// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"

	"github.com/qolzam/newsroom/profile/models"
)

// ErrVersionConflict is returned by Update when the row was modified
// since it was read.
var ErrVersionConflict = errors.New("profile version conflict")

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	// FindByID retrieves a profile by user id. Returns sql.ErrNoRows
	// when the user does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error)

	// Update saves profile fields guarded by the version column.
	// Returns ErrVersionConflict when the stored version differs from
	// profile.Version; on success profile.Version is bumped in place.
	Update(ctx context.Context, profile *models.Profile) error

	// ListAvatarRefs returns every non-empty avatar reference across
	// all users. Used by the storage janitor.
	ListAvatarRefs(ctx context.Context) ([]string, error)
}
