package store

import (
	"testing"
)

// Validates that the interface and sentinel errors compile and are
// accessible to implementing packages.
func TestReconcileStoreInterfaceExists(t *testing.T) {
	_ = ErrCatalogRead
	_ = ErrOrderRead
	_ = ErrAccountRead

	var _ ReconcileStore
}
