package main

import (
	"context"
	"flag"
	"fmt"

	"drop-reconcile-go/internal/common"
	"drop-reconcile-go/internal/config"
	"drop-reconcile-go/internal/models"

	"go.uber.org/zap"
)

type balanceStats struct {
	totalAccounts        int
	accountsWithBalances int
	totalUnits           int64
	readFailures         int
}

func printAccountHeader(account models.Account, itemCount int) {
	fmt.Printf("\n┌─ Account: %s\n", account.ExternalUserId)
	fmt.Printf("│  User ID: %s\n", account.UserId)
	fmt.Printf("│  Wallet:  %s\n", account.WalletAddress)
	fmt.Printf("│  Items:   %d\n", itemCount)
	common.PrintBoxSeparator(78)
}

func printBalances(itemIds []int64, balances []int64) int64 {
	var total int64
	for i, itemId := range itemIds {
		if balances[i] == 0 {
			continue
		}
		total += balances[i]
		symbol := common.BoxPrefix(i == len(itemIds)-1)
		fmt.Printf("%s item %-6d: %6d units\n", symbol, itemId, balances[i])
	}
	return total
}

func main() {
	ctx := context.Background()

	logger, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	// Parse command line flags
	externalIdFlag := flag.String("external-id", "", "Filter by specific external user id (optional)")
	flag.Parse()

	logger.Info("Starting on-chain balance query")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeReadOnlyServices(ctx, cfg)
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

	common.PrintHeader("ON-CHAIN BALANCE REPORT", common.DefaultWidth)

	stats := balanceStats{}
	for _, account := range accounts {
		stats.totalAccounts++

		balances := services.LedgerService.ReadBalances(ctx, account.WalletAddress, itemIds)
		if len(balances) != len(itemIds) {
			logger.Error("Balance read failed for account",
				zap.String("user_id", account.UserId),
				zap.String("wallet", account.WalletAddress))
			stats.readFailures++
			continue
		}

		printAccountHeader(account, len(itemIds))
		total := printBalances(itemIds, balances)
		if total > 0 {
			stats.accountsWithBalances++
			stats.totalUnits += total
		}
	}

	summary := fmt.Sprintf("SUMMARY: %d units across %d accounts (%d queried, %d read failures)",
		stats.totalUnits, stats.accountsWithBalances, stats.totalAccounts, stats.readFailures)
	common.PrintFooter(summary, common.DefaultWidth)

	logger.Info("Balance query completed",
		zap.Int("accounts_queried", stats.totalAccounts),
		zap.Int("accounts_with_balances", stats.accountsWithBalances),
		zap.Int64("total_units", stats.totalUnits),
		zap.Int("read_failures", stats.readFailures))
}
