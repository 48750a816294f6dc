// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/newsroom/profile/models"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// MockProfileRepository is a mock implementation of ProfileRepository for testing
type MockProfileRepository struct {
	mock.Mock
}

// FindByID mocks the FindByID method
func (m *MockProfileRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

// Update mocks the Update method
func (m *MockProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// ListAvatarRefs mocks the ListAvatarRefs method
func (m *MockProfileRepository) ListAvatarRefs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

// MockBlobStore is a mock implementation of the blob store for testing
type MockBlobStore struct {
	mock.Mock
}

// Store mocks the Store method
func (m *MockBlobStore) Store(ctx context.Context, kind string, upload *storageModels.Upload) (*storageModels.StoredBlob, error) {
	args := m.Called(ctx, kind, upload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storageModels.StoredBlob), args.Error(1)
}

// StoreBatch mocks the StoreBatch method
func (m *MockBlobStore) StoreBatch(ctx context.Context, kind string, uploads []*storageModels.Upload) ([]*storageModels.StoredBlob, error) {
	args := m.Called(ctx, kind, uploads)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storageModels.StoredBlob), args.Error(1)
}

// Remove mocks the Remove method
func (m *MockBlobStore) Remove(ctx context.Context, ref string) error {
	args := m.Called(ctx, ref)
	return args.Error(0)
}

// Exists mocks the Exists method
func (m *MockBlobStore) Exists(ctx context.Context, ref string) (bool, error) {
	args := m.Called(ctx, ref)
	return args.Bool(0), args.Error(1)
}
