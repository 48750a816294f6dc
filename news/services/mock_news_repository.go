// Copyright (c) 2024 Telar Social
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package services

import (
	"context"

	uuid "github.com/gofrs/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/qolzam/newsroom/news/models"
	"github.com/qolzam/newsroom/news/repository"
	storageModels "github.com/qolzam/newsroom/storage/models"
)

// MockNewsRepository is a mock implementation of NewsRepository for testing
type MockNewsRepository struct {
	mock.Mock
}

// Create mocks the Create method
func (m *MockNewsRepository) Create(ctx context.Context, news *models.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

// FindByID mocks the FindByID method
func (m *MockNewsRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.News, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.News), args.Error(1)
}

// FindByUser mocks the FindByUser method
func (m *MockNewsRepository) FindByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.News, error) {
	args := m.Called(ctx, userID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.News), args.Error(1)
}

// Find mocks the Find method
func (m *MockNewsRepository) Find(ctx context.Context, filter repository.NewsFilter, limit, offset int) ([]*models.News, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.News), args.Error(1)
}

// Count mocks the Count method
func (m *MockNewsRepository) Count(ctx context.Context, filter repository.NewsFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Update mocks the Update method
func (m *MockNewsRepository) Update(ctx context.Context, news *models.News) error {
	args := m.Called(ctx, news)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockNewsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// ListImageRefs mocks the ListImageRefs method
func (m *MockNewsRepository) ListImageRefs(ctx context.Context) ([]string, error) {
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
