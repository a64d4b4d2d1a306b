package mocks

import (
	"context"

	"admanager-sync/core/gam"

	"github.com/stretchr/testify/mock"
)

// TargetingService is a mock implementation of gam.TargetingService
type TargetingService struct {
	mock.Mock
}

func (m *TargetingService) GetKeyByName(ctx context.Context, name string) (*gam.Key, error) {
	args := m.Called(ctx, name)
	if key, ok := args.Get(0).(*gam.Key); ok {
		return key, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TargetingService) CreateKey(ctx context.Context, name string) (*gam.Key, error) {
	args := m.Called(ctx, name)
	if key, ok := args.Get(0).(*gam.Key); ok {
		return key, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TargetingService) ListValues(ctx context.Context, stmt gam.Statement) (*gam.ValuePage, error) {
	args := m.Called(ctx, stmt)
	if page, ok := args.Get(0).(*gam.ValuePage); ok {
		return page, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TargetingService) CreateValues(ctx context.Context, values []gam.Value) ([]gam.Value, error) {
	args := m.Called(ctx, values)
	if created, ok := args.Get(0).([]gam.Value); ok {
		return created, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *TargetingService) DeactivateValues(ctx context.Context, stmt gam.Statement) (int, error) {
	args := m.Called(ctx, stmt)
	return args.Int(0), args.Error(1)
}
