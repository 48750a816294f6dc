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
	"strings"
	"time"

	uuid "github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	zxcvbn "github.com/nbutton23/zxcvbn-go"
	"golang.org/x/crypto/bcrypt"

	authErrors "github.com/qolzam/newsroom/auth/errors"
	"github.com/qolzam/newsroom/auth/models"
	"github.com/qolzam/newsroom/auth/repository"
	platformconfig "github.com/qolzam/newsroom/internal/platform/config"
	"github.com/qolzam/newsroom/internal/types"
)

// minPasswordScore is the lowest acceptable zxcvbn score (0..4).
const minPasswordScore = 2

// authService implements the AuthService interface
type authService struct {
	repo   repository.UserRepository
	config *platformconfig.Config
}

// NewAuthService creates a new instance of the auth service
func NewAuthService(repo repository.UserRepository, cfg *platformconfig.Config) AuthService {
	return &authService{
		repo:   repo,
		config: cfg,
	}
}

// Signup creates an account. The email unique constraint is the final
// arbiter; the strength gate scores the password against the user's
// own inputs so "myemail123" does not pass.
func (s *authService) Signup(ctx context.Context, req *models.SignupRequest) (*models.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	strength := zxcvbn.PasswordStrength(req.Password, []string{email, req.FirstName, req.LastName})
	if strength.Score < minPasswordScore {
		return nil, fmt.Errorf("%w: choose a longer or less predictable password", authErrors.ErrWeakPassword)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := uuid.NewV4()
	if err != nil {
		return nil, fmt.Errorf("failed to generate user id: %w", err)
	}

	user := &models.User{
		ObjectId:  id,
		Email:     email,
		Password:  string(hash),
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Version:   0,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, authErrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return s.issueToken(user)
}

// Login verifies credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *authService) Login(ctx context.Context, req *models.LoginRequest) (*models.AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, authErrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, authErrors.ErrInvalidCredentials
	}

	return s.issueToken(user)
}

// issueToken signs an ES256 access token carrying the user claim the
// JWT middleware expects.
func (s *authService) issueToken(user *models.User) (*models.AuthResult, error) {
	privateKey, err := jwt.ParseECPrivateKeyFromPEM([]byte(s.config.JWT.PrivateKey))
	if err != nil {
		return nil, fmt.Errorf("failed to parse EC private key: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.accessTTL())

	claims := jwt.MapClaims{
		types.ClaimKey: map[string]interface{}{
			types.HeaderUID: user.ObjectId.String(),
			"email":         user.Email,
			"displayName":   user.DisplayName(),
			"avatar":        user.Avatar,
			"createdDate":   user.CreatedAt.Unix(),
		},
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodES256, claims).SignedString(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &models.AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *authService) accessTTL() time.Duration {
	if s.config != nil && s.config.JWT.AccessTTL > 0 {
		return s.config.JWT.AccessTTL
	}
	return 24 * time.Hour
}
