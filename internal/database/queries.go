package database

const (
	// Catalog queries
	queryGetCatalogItems = `
		SELECT item_id, price, supply, minimum_units, drop_kind, created_at, start_date, end_date
		FROM catalog_items
		ORDER BY item_id ASC`

	queryGetCatalogItemIds = `
		SELECT item_id
		FROM catalog_items
		ORDER BY item_id ASC`

	queryInsertCatalogItem = `
		INSERT OR IGNORE INTO catalog_items (item_id, price, supply, minimum_units, drop_kind, created_at, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	// Account queries
	queryGetAccountsWithWallets = `
		SELECT user_id, wallet_address, external_user_id, created_at
		FROM accounts
		WHERE wallet_address IS NOT NULL AND wallet_address != ''
		ORDER BY created_at`

	queryGetAccountByExternalId = `
		SELECT user_id, wallet_address, external_user_id, created_at
		FROM accounts
		WHERE external_user_id = ?`

	queryInsertAccount = `
		INSERT OR IGNORE INTO accounts (user_id, wallet_address, external_user_id) VALUES (?, ?, ?)`

	// Order queries
	queryCountRedeemedOrders = `
		SELECT COUNT(*)
		FROM order_events
		WHERE user_id = ? AND item_id = ? AND redeemed = 1`

	queryCountRefundedOrders = `
		SELECT COUNT(*)
		FROM order_events
		WHERE user_id = ? AND item_id = ? AND refunded = 1`

	queryGetOrderEventsForUser = `
		SELECT order_id, item_id, user_id, redeemed, refunded, created_at
		FROM order_events
		WHERE user_id = ?
		ORDER BY created_at`

	queryInsertOrderEvent = `
		INSERT OR IGNORE INTO order_events (order_id, item_id, user_id, redeemed, refunded) VALUES (?, ?, ?, ?, ?)`
)
