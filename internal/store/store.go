// Package store persists build runs and loads star schemas into SQL databases.
package store

import (
	"sync"

	"github.com/huangsam/fitstar/internal/contract"
)

// StoreManager manages the run store and the warehouse.
type StoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	runs         contract.RunStore
	warehouse    contract.Warehouse
}

var _ contract.StoreManager = &StoreManager{} // Compile-time check

// GetRunStore returns the RunStore.
func (mgr *StoreManager) GetRunStore() contract.RunStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.runs
}

// GetWarehouse returns the Warehouse.
func (mgr *StoreManager) GetWarehouse() contract.Warehouse {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.warehouse
}
