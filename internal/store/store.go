package store

import (
	"context"
	"errors"

	"drop-reconcile-go/internal/models"
)

// Sentinel errors shared across store implementations.
var (
	ErrCatalogRead = errors.New("catalog read failed")
	ErrOrderRead   = errors.New("order read failed")
	ErrAccountRead = errors.New("account read failed")
)

// ReconcileStore defines the read surface the reconciliation engine
// needs from the off-chain catalog/order database.
type ReconcileStore interface {
	// --- Catalog ---
	GetCatalogItems(ctx context.Context) ([]models.CatalogItem, error)
	GetCatalogItemIds(ctx context.Context) ([]int64, error)

	// --- Accounts ---
	GetAccountsWithWallets(ctx context.Context) ([]models.Account, error)
	GetAccountByExternalId(ctx context.Context, externalUserId string) (*models.Account, error)

	// --- Orders ---
	CountRedeemedOrders(ctx context.Context, userId string, itemId int64) (int64, error)
	CountRefundedOrders(ctx context.Context, userId string, itemId int64) (int64, error)
	GetOrderEventsForUser(ctx context.Context, userId string) ([]models.OrderEvent, error)

	// --- Lifecycle ---
	Close()
}
