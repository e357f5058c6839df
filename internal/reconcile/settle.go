package reconcile

import (
	"context"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"

	"go.uber.org/zap"
)

// BalanceReader reads on-chain balances for one wallet. An empty result
// means the read failed and the wallet must be skipped for the pass.
type BalanceReader interface {
	ReadBalances(ctx context.Context, wallet string, itemIds []int64) []int64
}

// SettleStats summarizes one settlement pass.
type SettleStats struct {
	AccountsProcessed int
	AccountsSkipped   int
	MintCalls         int
	RedeemCalls       int
	RefundCalls       int
	Failures          int
}

// Engine converges on-chain balances with off-chain entitlement, one
// (account, item) pair at a time, fully sequentially.
type Engine struct {
	store    store.ReconcileStore
	drops    DropWriter
	balances BalanceReader
	logger   *zap.Logger
}

func NewEngine(st store.ReconcileStore, drops DropWriter, balances BalanceReader, logger *zap.Logger) *Engine {
	return &Engine{store: st, drops: drops, balances: balances, logger: logger}
}

// Settle runs one settlement pass over the given accounts and item ids.
// Every per-account and per-pair failure is logged and skipped; the pass
// always reaches the last pair.
func (e *Engine) Settle(ctx context.Context, accounts []models.Account, itemIds []int64) *SettleStats {
	stats := &SettleStats{}

	for _, account := range accounts {
		observed := e.balances.ReadBalances(ctx, account.WalletAddress, itemIds)
		if len(observed) != len(itemIds) {
			// Unknown balances. Treating a failed read as zero would
			// re-mint units the wallet already holds.
			e.logger.Warn("Balance read failed, skipping account this pass",
				zap.String("user_id", account.UserId),
				zap.String("wallet", account.WalletAddress))
			stats.AccountsSkipped++
			continue
		}

		stats.AccountsProcessed++
		for i, itemId := range itemIds {
			e.settleItem(ctx, account, itemId, observed[i], stats)
		}
	}

	return stats
}

// settleItem brings one (account, item) pair into agreement: mint the
// shortfall between entitlement and the observed balance, then consume
// redeemed and refunded units. Mint must precede redeem and refund,
// which assume sufficient minted balance.
func (e *Engine) settleItem(ctx context.Context, account models.Account, itemId int64, observed int64, stats *SettleStats) {
	redeemed, err := e.store.CountRedeemedOrders(ctx, account.UserId, itemId)
	if err != nil {
		e.logger.Error("Failed to count redeemed orders",
			zap.String("user_id", account.UserId),
			zap.Int64("item_id", itemId),
			zap.String("operation", "countRedeemed"),
			zap.Error(err))
		stats.Failures++
		return
	}
	refunded, err := e.store.CountRefundedOrders(ctx, account.UserId, itemId)
	if err != nil {
		e.logger.Error("Failed to count refunded orders",
			zap.String("user_id", account.UserId),
			zap.Int64("item_id", itemId),
			zap.String("operation", "countRefunded"),
			zap.Error(err))
		stats.Failures++
		return
	}

	target := redeemed + refunded
	if target == 0 {
		return
	}

	// Mint only what is missing; a re-run over converged state must not
	// mint again.
	if shortfall := target - observed; shortfall > 0 {
		if err := e.drops.Mint(ctx, itemId, account.WalletAddress, shortfall); err != nil {
			e.logger.Error("Failed to mint",
				zap.String("user_id", account.UserId),
				zap.Int64("item_id", itemId),
				zap.Int64("amount", shortfall),
				zap.String("operation", "mint"),
				zap.Error(err))
			stats.Failures++
		} else {
			stats.MintCalls++
			e.logger.Info("Minted shortfall",
				zap.String("user_id", account.UserId),
				zap.Int64("item_id", itemId),
				zap.Int64("amount", shortfall))
		}
	}

	// A failed redeem must not suppress the refund attempt.
	if redeemed > 0 {
		if err := e.drops.Redeem(ctx, itemId, account.WalletAddress, redeemed); err != nil {
			e.logger.Error("Failed to redeem",
				zap.String("user_id", account.UserId),
				zap.Int64("item_id", itemId),
				zap.Int64("amount", redeemed),
				zap.String("operation", "redeem"),
				zap.Error(err))
			stats.Failures++
		} else {
			stats.RedeemCalls++
		}
	}
	if refunded > 0 {
		if err := e.drops.Refund(ctx, itemId, account.WalletAddress, refunded); err != nil {
			e.logger.Error("Failed to refund",
				zap.String("user_id", account.UserId),
				zap.Int64("item_id", itemId),
				zap.Int64("amount", refunded),
				zap.String("operation", "refund"),
				zap.Error(err))
			stats.Failures++
		} else {
			stats.RefundCalls++
		}
	}
}
