package testhelpers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/pageza/apitizers/backend/internal/storage"
)

// MockObjectStore is a mock implementation of storage.ObjectStore
type MockObjectStore struct {
	mock.Mock
}

func (m *MockObjectStore) Put(ctx context.Context, obj storage.Object) (string, error) {
	args := m.Called(ctx, obj)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStore) Delete(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
