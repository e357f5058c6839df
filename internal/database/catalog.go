package database

import (
	"context"
	"database/sql"
	"fmt"

	"drop-reconcile-go/internal/models"

	"github.com/shopspring/decimal"
)

// GetCatalogItems returns every catalog row ordered by item_id ascending.
// The explicit ORDER BY matters: the synchronizer's gap-filling cursor has
// undefined behavior on an unsorted catalog.
func (s *Service) GetCatalogItems(ctx context.Context) ([]models.CatalogItem, error) {
	rows, err := s.db.QueryContext(ctx, queryGetCatalogItems)
	if err != nil {
		return nil, fmt.Errorf("unable to query catalog: %w", err)
	}
	defer rows.Close()

	var items []models.CatalogItem
	for rows.Next() {
		item, err := scanCatalogItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog rows: %w", err)
	}

	return items, nil
}

// GetCatalogItemIds returns the ascending item_id sequence, used by the
// settlement engine to know which drop indices to inspect per account.
func (s *Service) GetCatalogItemIds(ctx context.Context) ([]int64, error) {
	rows, err := s.db.QueryContext(ctx, queryGetCatalogItemIds)
	if err != nil {
		return nil, fmt.Errorf("unable to query catalog ids: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("unable to scan catalog id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating catalog id rows: %w", err)
	}

	return ids, nil
}

func scanCatalogItem(rows *sql.Rows) (*models.CatalogItem, error) {
	var (
		item      models.CatalogItem
		price     string
		supply    sql.NullInt64
		startDate sql.NullTime
	)

	err := rows.Scan(&item.ItemId, &price, &supply, &item.MinimumUnits,
		(*string)(&item.DropKind), &item.CreatedAt, &startDate, &item.EndDate)
	if err != nil {
		return nil, fmt.Errorf("unable to scan catalog item: %w", err)
	}

	item.Price, err = decimal.NewFromString(price)
	if err != nil {
		return nil, fmt.Errorf("invalid price %q for item %d: %w", price, item.ItemId, err)
	}

	// NULL supply means unlimited, stored as 0
	if supply.Valid {
		item.Supply = supply.Int64
	}
	if startDate.Valid {
		start := startDate.Time
		item.StartDate = &start
	}

	return &item, nil
}
