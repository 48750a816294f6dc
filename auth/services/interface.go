// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	"github.com/qolzam/newsroom/auth/models"
)

// AuthService defines the account and token business logic
type AuthService interface {
	// Signup creates an account and issues its first access token.
	Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResult, error)

	// Login verifies credentials and issues an access token.
	Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error)
}
