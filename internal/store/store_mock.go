package store

import (
	"context"
	"time"

	"github.com/huangsam/fitstar/internal/contract"
	"github.com/huangsam/fitstar/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetRunStore implements the StoreManager interface.
func (m *MockStoreManager) GetRunStore() contract.RunStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RunStore)
	return store
}

// GetWarehouse implements the StoreManager interface.
func (m *MockStoreManager) GetWarehouse() contract.Warehouse {
	ret := m.Called()
	warehouse, _ := ret.Get(0).(contract.Warehouse)
	return warehouse
}

// MockRunStore is a mock implementation of RunStore for testing.
type MockRunStore struct {
	mock.Mock
}

var _ contract.RunStore = &MockRunStore{} // Compile-time check

// BeginRun implements the RunStore interface.
func (m *MockRunStore) BeginRun(runKey string, startTime time.Time, output schema.OutputMode, configParams map[string]any) (int64, error) {
	args := m.Called(runKey, startTime, output, configParams)
	return args.Get(0).(int64), args.Error(1)
}

// RecordTableOutput implements the RunStore interface.
func (m *MockRunStore) RecordTableOutput(runID int64, file schema.OutputFile) error {
	args := m.Called(runID, file)
	return args.Error(0)
}

// EndRun implements the RunStore interface.
func (m *MockRunStore) EndRun(runID int64, endTime time.Time, totalRows int) error {
	args := m.Called(runID, endTime, totalRows)
	return args.Error(0)
}

// GetStatus implements the RunStore interface.
func (m *MockRunStore) GetStatus() (schema.RunStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.RunStatus), args.Error(1)
}

// GetAllRuns implements the RunStore interface.
func (m *MockRunStore) GetAllRuns() ([]schema.RunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.RunRecord)
	return runs, args.Error(1)
}

// GetAllRunTables implements the RunStore interface.
func (m *MockRunStore) GetAllRunTables() ([]schema.RunTableRecord, error) {
	args := m.Called()
	tables, _ := args.Get(0).([]schema.RunTableRecord)
	return tables, args.Error(1)
}

// Close implements the RunStore interface.
func (m *MockRunStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockWarehouse is a mock implementation of Warehouse for testing.
type MockWarehouse struct {
	mock.Mock
}

var _ contract.Warehouse = &MockWarehouse{} // Compile-time check

// Load implements the Warehouse interface.
func (m *MockWarehouse) Load(ctx context.Context, star *schema.StarSchema) error {
	args := m.Called(ctx, star)
	return args.Error(0)
}

// GetStatus implements the Warehouse interface.
func (m *MockWarehouse) GetStatus() (schema.WarehouseStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.WarehouseStatus), args.Error(1)
}

// Close implements the Warehouse interface.
func (m *MockWarehouse) Close() error {
	args := m.Called()
	return args.Error(0)
}
