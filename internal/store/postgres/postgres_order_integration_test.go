package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"taaza/backend/internal/domain"
)

func TestOrderSequenceAndCreateOrder(t *testing.T) {
	databaseURL := os.Getenv("TAAZA_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("set TAAZA_TEST_DATABASE_URL to run postgres integration test")
	}

	ctx := context.Background()
	s, err := New(ctx, databaseURL)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	t.Cleanup(func() {
		_ = s.Close()
	})

	stamp := time.Now().UnixNano()
	orderDocID := fmt.Sprintf("order-it-%d", stamp)

	t.Cleanup(func() {
		_, _ = s.db.ExecContext(ctx, `DELETE FROM order_items WHERE order_id = $1`, orderDocID)
		_, _ = s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, orderDocID)
	})

	first, err := s.NextOrderSequence(ctx, domain.ChannelAdmin)
	if err != nil {
		t.Fatalf("first sequence: %v", err)
	}
	second, err := s.NextOrderSequence(ctx, domain.ChannelAdmin)
	if err != nil {
		t.Fatalf("second sequence: %v", err)
	}
	if second != first+1 {
		t.Fatalf("sequence must increment by one: %d then %d", first, second)
	}

	// Concurrent allocations must all be distinct.
	const n = 20
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seq, err := s.NextOrderSequence(ctx, domain.ChannelAdmin)
			if err != nil {
				t.Errorf("concurrent sequence: %v", err)
				return
			}
			results <- seq
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool, n)
	for seq := range results {
		if seq <= second {
			t.Fatalf("sequence went backwards: %d after %d", seq, second)
		}
		if seen[seq] {
			t.Fatalf("duplicate sequence %d", seq)
		}
		seen[seq] = true
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	created, err := s.CreateOrder(ctx, domain.Order{
		ID:            orderDocID,
		OrderID:       fmt.Sprintf("ADM-%s-%05d", now.Format("20060102"), second),
		Channel:       domain.ChannelAdmin,
		TotalPaise:    52000,
		PaymentMethod: domain.PaymentCash,
		Status:        domain.OrderStatusCompleted,
		WithReceipt:   true,
		CreatedAt:     now,
		Items: []domain.LineItem{
			{Name: "Chicken Curry Cut", Category: "chicken", Qty: 2, AmountPaise: 26000, WeightKg: 2, PricePerKgPaise: 26000, TotalPaise: 52000},
		},
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := s.GetOrder(ctx, created.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if got.OrderID != created.OrderID || got.TotalPaise != 52000 {
		t.Fatalf("order mismatch: %+v", got)
	}
	if len(got.Items) != 1 || got.Items[0].Name != "Chicken Curry Cut" {
		t.Fatalf("items mismatch: %+v", got.Items)
	}

	// Duplicate ids must be rejected, not silently replaced.
	if _, err := s.CreateOrder(ctx, *created); err == nil {
		t.Fatalf("expected duplicate order rejection")
	}
}
