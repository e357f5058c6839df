package database

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func insertOrderEvent(t *testing.T, service *Service, itemId int64, userId string, redeemed, refunded bool) {
	t.Helper()
	_, err := service.db.Exec(queryInsertOrderEvent, uuid.New().String(), itemId, userId, redeemed, refunded)
	if err != nil {
		t.Fatalf("Failed to insert order event: %v", err)
	}
}

func TestCountOrders(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	userId := "user1"

	for i := 0; i < 3; i++ {
		insertOrderEvent(t, service, 7, userId, true, false)
	}
	for i := 0; i < 2; i++ {
		insertOrderEvent(t, service, 7, userId, false, true)
	}
	// Neither redeemed nor refunded; contributes to no count.
	insertOrderEvent(t, service, 7, userId, false, false)
	// Different item.
	insertOrderEvent(t, service, 8, userId, true, false)

	redeemed, err := service.CountRedeemedOrders(ctx, userId, 7)
	if err != nil {
		t.Fatalf("CountRedeemedOrders failed: %v", err)
	}
	if redeemed != 3 {
		t.Errorf("Expected 3 redeemed, got %d", redeemed)
	}

	refunded, err := service.CountRefundedOrders(ctx, userId, 7)
	if err != nil {
		t.Fatalf("CountRefundedOrders failed: %v", err)
	}
	if refunded != 2 {
		t.Errorf("Expected 2 refunded, got %d", refunded)
	}
}

func TestCountOrders_OtherUserExcluded(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertOrderEvent(t, service, 7, "user1", true, false)
	insertOrderEvent(t, service, 7, "user2", true, false)

	redeemed, err := service.CountRedeemedOrders(ctx, "user1", 7)
	if err != nil {
		t.Fatalf("CountRedeemedOrders failed: %v", err)
	}
	if redeemed != 1 {
		t.Errorf("Expected 1 redeemed for user1, got %d", redeemed)
	}
}

func TestGetOrderEventsForUser(t *testing.T) {
	service, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	insertOrderEvent(t, service, 1, "user1", true, false)
	insertOrderEvent(t, service, 2, "user1", false, true)
	insertOrderEvent(t, service, 1, "user2", true, false)

	events, err := service.GetOrderEventsForUser(ctx, "user1")
	if err != nil {
		t.Fatalf("GetOrderEventsForUser failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	for _, event := range events {
		if event.UserId != "user1" {
			t.Errorf("Expected only user1 events, got %s", event.UserId)
		}
		if event.Redeemed && event.Refunded {
			t.Error("Event marked both redeemed and refunded")
		}
	}
}
