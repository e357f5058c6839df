package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"
)

// GetAccountsWithWallets returns every account that has a wallet address.
// Accounts without a wallet cannot hold on-chain balances and are skipped
// by settlement entirely.
func (s *Service) GetAccountsWithWallets(ctx context.Context) ([]models.Account, error) {
	rows, err := s.db.QueryContext(ctx, queryGetAccountsWithWallets)
	if err != nil {
		return nil, fmt.Errorf("unable to query accounts: %w", err)
	}
	defer rows.Close()

	var accounts []models.Account
	for rows.Next() {
		var account models.Account
		err := rows.Scan(&account.UserId, &account.WalletAddress, &account.ExternalUserId, &account.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan account: %w", err)
		}
		accounts = append(accounts, account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}

	return accounts, nil
}

func (s *Service) GetAccountByExternalId(ctx context.Context, externalUserId string) (*models.Account, error) {
	var (
		account models.Account
		wallet  sql.NullString
	)
	err := s.db.QueryRowContext(ctx, queryGetAccountByExternalId, externalUserId).
		Scan(&account.UserId, &wallet, &account.ExternalUserId, &account.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: external id %s", store.ErrAccountRead, externalUserId)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to query account: %w", err)
	}
	account.WalletAddress = wallet.String

	return &account, nil
}
