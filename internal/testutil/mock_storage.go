//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/fireworks/internal/server/storage"
)

// MockTableStore 牌桌存储 mock
type MockTableStore struct {
	mock.Mock
}

func (m *MockTableStore) SaveTable(ctx context.Context, data *storage.TableData) error {
	args := m.Called(ctx, data)
	return args.Error(0)
}

func (m *MockTableStore) LoadTable(ctx context.Context, id string) (*storage.TableData, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.TableData), args.Error(1)
}

func (m *MockTableStore) DeleteTable(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockTableStore) ListTableIDs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}
