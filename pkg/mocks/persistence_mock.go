// Package mocks provides testify mocks of the persistence contracts.
package mocks

import (
	"context"

	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/models"
	"github.com/berndgalter-lab/prompt-finder-sub000/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockAdapter is a mock implementation of persistence.Adapter interface.
type MockAdapter struct {
	mock.Mock
}

var _ persistence.Adapter = (*MockAdapter)(nil)

func (m *MockAdapter) List(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]string), args.Error(1)
}

func (m *MockAdapter) Get(ctx context.Context, name string) (models.Snapshot, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(models.Snapshot), args.Error(1)
}

func (m *MockAdapter) Save(ctx context.Context, name string, snapshot models.Snapshot) error {
	args := m.Called(ctx, name, snapshot)

	return args.Error(0)
}

func (m *MockAdapter) Delete(ctx context.Context, name string) error {
	args := m.Called(ctx, name)

	return args.Error(0)
}

func (m *MockAdapter) ExportAll(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockAdapter) ImportAll(ctx context.Context, blob []byte) error {
	args := m.Called(ctx, blob)

	return args.Error(0)
}

// MockPresetRepository is a mock implementation of persistence.PresetRepository interface.
type MockPresetRepository struct {
	mock.Mock
}

var _ persistence.PresetRepository = (*MockPresetRepository)(nil)

func (m *MockPresetRepository) Presets(ctx context.Context, ns persistence.Namespace) (models.PresetCollection, error) {
	args := m.Called(ctx, ns)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(models.PresetCollection), args.Error(1)
}

func (m *MockPresetRepository) PresetByName(ctx context.Context, ns persistence.Namespace, name string) (models.PresetEntry, error) {
	args := m.Called(ctx, ns, name)

	return args.Get(0).(models.PresetEntry), args.Error(1)
}

func (m *MockPresetRepository) SavePreset(ctx context.Context, ns persistence.Namespace, name string, entry models.PresetEntry) error {
	args := m.Called(ctx, ns, name, entry)

	return args.Error(0)
}

func (m *MockPresetRepository) DeletePreset(ctx context.Context, ns persistence.Namespace, name string) error {
	args := m.Called(ctx, ns, name)

	return args.Error(0)
}

func (m *MockPresetRepository) ImportPresets(ctx context.Context, ns persistence.Namespace, collection models.PresetCollection) (int, error) {
	args := m.Called(ctx, ns, collection)

	return args.Int(0), args.Error(1)
}

func (m *MockPresetRepository) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPresetRepository) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
