package common

import (
	"context"
	"fmt"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"

	"go.uber.org/zap"
)

// InitializeAccounts retrieves wallet-holding accounts, optionally
// narrowed to a single external user id.
func InitializeAccounts(ctx context.Context, dbService store.ReconcileStore, externalIdFilter string, logger *zap.Logger) ([]models.Account, error) {
	var accounts []models.Account

	if externalIdFilter != "" {
		logger.Info("Looking up account by external id", zap.String("external_id", externalIdFilter))
		account, err := dbService.GetAccountByExternalId(ctx, externalIdFilter)
		if err != nil {
			return nil, fmt.Errorf("account not found: %w", err)
		}
		if account.WalletAddress == "" {
			return nil, fmt.Errorf("account %s has no wallet address", externalIdFilter)
		}
		accounts = append(accounts, *account)
	} else {
		allAccounts, err := dbService.GetAccountsWithWallets(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to get accounts: %w", err)
		}
		accounts = allAccounts
	}

	logger.Info("Retrieved accounts", zap.Int("count", len(accounts)))
	return accounts, nil
}
