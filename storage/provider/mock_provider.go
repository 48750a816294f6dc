package provider

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockBlobProvider is a mock implementation of BlobProvider for testing
type MockBlobProvider struct {
	mock.Mock
}

// Put mocks the Put method
func (m *MockBlobProvider) Put(ctx context.Context, key string, data []byte) error {
	args := m.Called(ctx, key, data)
	return args.Error(0)
}

// Delete mocks the Delete method
func (m *MockBlobProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

// Exists mocks the Exists method
func (m *MockBlobProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// List mocks the List method
func (m *MockBlobProvider) List(ctx context.Context, kind string) ([]string, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
