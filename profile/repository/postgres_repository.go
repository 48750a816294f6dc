// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/qolzam/newsroom/internal/database/postgres"
	"github.com/qolzam/newsroom/profile/models"
)

// postgresRepository implements ProfileRepository using raw SQL queries
type postgresRepository struct {
	client *postgres.Client
}

// NewPostgresRepository creates a new PostgreSQL repository for profiles
func NewPostgresRepository(client *postgres.Client) ProfileRepository {
	return &postgresRepository{client: client}
}

// getExecutor returns either the transaction from context or the DB connection
func (r *postgresRepository) getExecutor(ctx context.Context) sqlx.ExtContext {
	if txVal := ctx.Value("tx"); txVal != nil {
		if tx, ok := txVal.(*sqlx.Tx); ok {
			return tx
		}
	}
	return r.client.DB()
}

const profileColumns = `id, email, first_name, last_name, phone, bio, social_link, avatar, version, created_at, updated_at`

// FindByID retrieves a profile by user ID
func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM users WHERE id = $1`

	var profile models.Profile
	err := sqlx.GetContext(ctx, r.getExecutor(ctx), &profile, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to find profile: %w", err)
	}
	return &profile, nil
}

// Update writes the mutable profile fields guarded by the optimistic
// version check. The row version is bumped in the same statement.
func (r *postgresRepository) Update(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()

	query := `
		UPDATE users
		SET first_name = :first_name,
		    last_name = :last_name,
		    phone = :phone,
		    bio = :bio,
		    social_link = :social_link,
		    avatar = :avatar,
		    version = version + 1,
		    updated_at = :updated_at
		WHERE id = :id AND version = :version`

	result, err := sqlx.NamedExecContext(ctx, r.getExecutor(ctx), query, profile)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read update result: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	profile.Version++
	return nil
}

// ListAvatarRefs returns every avatar reference held by any user row
func (r *postgresRepository) ListAvatarRefs(ctx context.Context) ([]string, error) {
	query := `SELECT avatar FROM users WHERE avatar <> ''`

	var refs []string
	if err := sqlx.SelectContext(ctx, r.getExecutor(ctx), &refs, query); err != nil {
		return nil, fmt.Errorf("failed to list avatar refs: %w", err)
	}
	return refs, nil
}
