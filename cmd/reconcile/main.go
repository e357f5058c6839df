package main

import (
	"context"
	"fmt"

	"drop-reconcile-go/internal/common"
	"drop-reconcile-go/internal/config"
	"drop-reconcile-go/internal/reconcile"

	"go.uber.org/zap"
)

// Runs a full reconciliation pass: catalog synchronization first to
// establish the drop index space, then entitlement settlement.
func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	logger.Info("Starting full reconciliation")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	synchronizer := reconcile.NewSynchronizer(services.DbService, services.LedgerService, logger)
	syncStats, err := synchronizer.Synchronize(ctx)
	if err != nil {
		logger.Fatal("Catalog synchronization aborted", zap.Error(err))
	}
	logger.Info("Catalog synchronization completed",
		zap.Int("drops_created", syncStats.DropsCreated),
		zap.Int("placeholders_created", syncStats.PlaceholdersCreated),
		zap.Int("failures", syncStats.Failures))

	accounts, err := common.InitializeAccounts(ctx, services.DbService, "", logger)
	if err != nil {
		logger.Fatal("Failed to initialize accounts", zap.Error(err))
	}

	itemIds, err := services.DbService.GetCatalogItemIds(ctx)
	if err != nil {
		logger.Fatal("Failed to read catalog item ids", zap.Error(err))
	}

	engine := reconcile.NewEngine(services.DbService, services.LedgerService, services.LedgerService, logger)
	settleStats := engine.Settle(ctx, accounts, itemIds)

	common.PrintHeader("RECONCILIATION REPORT", common.DefaultWidth)
	fmt.Printf("Network:              %s\n", services.Network.Name)
	fmt.Printf("Drops created:        %d (%d placeholders)\n", syncStats.DropsCreated, syncStats.PlaceholdersCreated)
	fmt.Printf("Accounts settled:     %d (%d skipped)\n", settleStats.AccountsProcessed, settleStats.AccountsSkipped)
	fmt.Printf("Ledger calls:         %d mint / %d redeem / %d refund\n",
		settleStats.MintCalls, settleStats.RedeemCalls, settleStats.RefundCalls)
	fmt.Printf("Failures:             %d sync, %d settle\n", syncStats.Failures, settleStats.Failures)
	summary := fmt.Sprintf("SUMMARY: sync %d/%d items ok, settle %d accounts ok, %d total failures",
		syncStats.DropsCreated, syncStats.ItemsProcessed,
		settleStats.AccountsProcessed, syncStats.Failures+settleStats.Failures)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Full reconciliation completed",
		zap.Int("sync_failures", syncStats.Failures),
		zap.Int("settle_failures", settleStats.Failures))
}
