// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package repository

import (
	"context"
	"errors"

	uuid "github.com/gofrs/uuid"

	"github.com/qolzam/newsroom/auth/models"
)

// ErrEmailExists is returned by Create when the email column's unique
// constraint rejects the row.
var ErrEmailExists = errors.New("email already exists")

// UserRepository defines the interface for account data operations
type UserRepository interface {
	// Create inserts a new user row. Returns ErrEmailExists when the
	// email is already taken.
	Create(ctx context.Context, user *models.User) error

	// FindByEmail retrieves a user by email. Returns sql.ErrNoRows
	// when no account matches.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID retrieves a user by id. Returns sql.ErrNoRows when no
	// account matches.
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
