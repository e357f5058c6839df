package reconcile

import (
	"context"
	"fmt"
	"time"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DropWriter covers the contract-mutating calls the reconciler issues.
// Implemented by the ledger service; faked in tests.
type DropWriter interface {
	CreateDrop(ctx context.Context, params models.DropParams) error
	Mint(ctx context.Context, itemId int64, wallet string, amount int64) error
	Redeem(ctx context.Context, itemId int64, wallet string, amount int64) error
	Refund(ctx context.Context, itemId int64, wallet string, amount int64) error
}

// SyncStats summarizes one synchronization pass.
type SyncStats struct {
	ItemsProcessed      int
	DropsCreated        int
	PlaceholdersCreated int
	Failures            int
}

// Synchronizer walks the catalog in item-id order and creates one drop
// per row, filling id gaps with placeholder drops so the contract's
// sequential drop counter stays aligned with catalog item ids.
type Synchronizer struct {
	store  store.ReconcileStore
	drops  DropWriter
	logger *zap.Logger
}

func NewSynchronizer(st store.ReconcileStore, drops DropWriter, logger *zap.Logger) *Synchronizer {
	return &Synchronizer{store: st, drops: drops, logger: logger}
}

// Synchronize runs one catalog-to-ledger pass. Only a catalog read error
// aborts the pass; per-item ledger failures are logged and skipped, and
// the cursor stays behind a failed slot so the next item (or the next
// run) re-attempts it through the gap fill.
func (s *Synchronizer) Synchronize(ctx context.Context) (*SyncStats, error) {
	items, err := s.store.GetCatalogItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrCatalogRead, err)
	}

	stats := &SyncStats{}
	if len(items) == 0 {
		s.logger.Info("Catalog is empty, nothing to synchronize")
		return stats, nil
	}

	// cursor is the highest drop index known to exist on chain. The
	// contract's drop counter starts at zero, so gaps below the first
	// catalog id get placeholders too.
	var cursor int64
	for _, item := range items {
		stats.ItemsProcessed++

		if !s.fillGap(ctx, &cursor, item.ItemId, stats) {
			// Gap not fully filled; creating the real drop now would
			// land on the wrong index. The next run re-attempts.
			continue
		}

		if err := s.drops.CreateDrop(ctx, dropParamsFor(item)); err != nil {
			s.logger.Error("Failed to create drop",
				zap.Int64("item_id", item.ItemId),
				zap.String("operation", "createDrop"),
				zap.Error(err))
			stats.Failures++
			continue
		}
		cursor = item.ItemId
		stats.DropsCreated++
		s.logger.Info("Drop created", zap.Int64("item_id", item.ItemId))
	}

	return stats, nil
}

// fillGap creates placeholder drops for every index between the cursor
// and the item, advancing the cursor one successful slot at a time.
func (s *Synchronizer) fillGap(ctx context.Context, cursor *int64, itemId int64, stats *SyncStats) bool {
	for *cursor < itemId-1 {
		slot := *cursor + 1
		if err := s.drops.CreateDrop(ctx, placeholderDrop(time.Now().UTC())); err != nil {
			s.logger.Error("Failed to create placeholder drop",
				zap.Int64("index", slot),
				zap.Int64("item_id", itemId),
				zap.String("operation", "createDrop"),
				zap.Error(err))
			stats.Failures++
			return false
		}
		*cursor = slot
		stats.PlaceholdersCreated++
		s.logger.Info("Placeholder drop created", zap.Int64("index", slot))
	}
	return true
}

func dropParamsFor(item models.CatalogItem) models.DropParams {
	return models.DropParams{
		MaxUnits:      item.Supply,
		UnitPrice:     item.Price,
		IsOpenEdition: item.IsOpenEdition(),
		WindowStart:   item.WindowStart(),
		WindowEnd:     item.EndDate,
		MinimumUnits:  item.MinimumUnits,
	}
}

// placeholderDrop returns inert drop parameters that exist only to
// consume one index slot: a single unit at a nominal price with a window
// that closes a minute after creation.
func placeholderDrop(now time.Time) models.DropParams {
	return models.DropParams{
		MaxUnits:      1,
		UnitPrice:     decimal.New(1, -6),
		IsOpenEdition: false,
		WindowStart:   now,
		WindowEnd:     now.Add(time.Minute),
		MinimumUnits:  1,
	}
}
