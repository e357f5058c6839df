package main

import (
	"context"
	"flag"
	"fmt"

	"drop-reconcile-go/internal/common"
	"drop-reconcile-go/internal/config"
	"drop-reconcile-go/internal/reconcile"

	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	externalIdFlag := flag.String("external-id", "", "Settle a single account by external user id (optional)")
	flag.Parse()

	logger.Info("Starting entitlement settlement")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		logger.Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	accounts, err := common.InitializeAccounts(ctx, services.DbService, *externalIdFlag, logger)
	if err != nil {
		logger.Fatal("Failed to initialize accounts", zap.Error(err))
	}

	itemIds, err := services.DbService.GetCatalogItemIds(ctx)
	if err != nil {
		logger.Fatal("Failed to read catalog item ids", zap.Error(err))
	}

	engine := reconcile.NewEngine(services.DbService, services.LedgerService, services.LedgerService, logger)
	stats := engine.Settle(ctx, accounts, itemIds)

	common.PrintHeader("ENTITLEMENT SETTLEMENT REPORT", common.DefaultWidth)
	fmt.Printf("Network:            %s\n", services.Network.Name)
	fmt.Printf("Accounts processed: %d\n", stats.AccountsProcessed)
	fmt.Printf("Accounts skipped:   %d\n", stats.AccountsSkipped)
	fmt.Printf("Mint calls:         %d\n", stats.MintCalls)
	fmt.Printf("Redeem calls:       %d\n", stats.RedeemCalls)
	fmt.Printf("Refund calls:       %d\n", stats.RefundCalls)
	fmt.Printf("Failures:           %d\n", stats.Failures)
	summary := fmt.Sprintf("SUMMARY: %d accounts settled (%d skipped), %d mint / %d redeem / %d refund calls, %d failures",
		stats.AccountsProcessed, stats.AccountsSkipped, stats.MintCalls, stats.RedeemCalls, stats.RefundCalls, stats.Failures)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Entitlement settlement completed",
		zap.Int("accounts_processed", stats.AccountsProcessed),
		zap.Int("accounts_skipped", stats.AccountsSkipped),
		zap.Int("mint_calls", stats.MintCalls),
		zap.Int("redeem_calls", stats.RedeemCalls),
		zap.Int("refund_calls", stats.RefundCalls),
		zap.Int("failures", stats.Failures))
}
