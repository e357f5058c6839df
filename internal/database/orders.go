package database

import (
	"context"
	"fmt"

	"drop-reconcile-go/internal/models"
	"drop-reconcile-go/internal/store"
)

// CountRedeemedOrders returns how many order events for (user, item) are
// marked redeemed. Each row counts once; redeemed and refunded are
// mutually exclusive flags on a row.
func (s *Service) CountRedeemedOrders(ctx context.Context, userId string, itemId int64) (int64, error) {
	return s.countOrders(ctx, queryCountRedeemedOrders, userId, itemId)
}

// CountRefundedOrders returns how many order events for (user, item) are
// marked refunded.
func (s *Service) CountRefundedOrders(ctx context.Context, userId string, itemId int64) (int64, error) {
	return s.countOrders(ctx, queryCountRefundedOrders, userId, itemId)
}

func (s *Service) countOrders(ctx context.Context, query, userId string, itemId int64) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, query, userId, itemId).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: user %s item %d: %v", store.ErrOrderRead, userId, itemId, err)
	}
	return count, nil
}

func (s *Service) GetOrderEventsForUser(ctx context.Context, userId string) ([]models.OrderEvent, error) {
	rows, err := s.db.QueryContext(ctx, queryGetOrderEventsForUser, userId)
	if err != nil {
		return nil, fmt.Errorf("unable to query order events: %w", err)
	}
	defer rows.Close()

	var events []models.OrderEvent
	for rows.Next() {
		var event models.OrderEvent
		err := rows.Scan(&event.OrderId, &event.ItemId, &event.UserId, &event.Redeemed, &event.Refunded, &event.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("unable to scan order event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating order event rows: %w", err)
	}

	return events, nil
}
