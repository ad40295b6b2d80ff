package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"deal-scanner/models"
)

// Set POSTGRES_TEST_DSN to run these against a disposable database.
func testPostgres(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("POSTGRES_TEST_DSN")
	if dsn == "" {
		t.Skip("POSTGRES_TEST_DSN not set")
	}
	ps, err := NewPostgresStore(dsn)
	if err != nil {
		t.Fatalf("NewPostgresStore: %v", err)
	}
	t.Cleanup(func() { _ = ps.Close() })
	return ps
}

func TestPostgresTrackedRoundTrip(t *testing.T) {
	ps := testPostgres(t)
	ctx := context.Background()
	_, _ = ps.db.Exec(`DELETE FROM tracked_items WHERE id = 'test-4242'`)

	now := time.Now().UTC().Truncate(time.Second)
	item := models.TrackedItem{
		ID: "test-4242", Title: "Nikon D3500", CurrentPrice: decimal.RequireFromString("310.50"),
		EndTime: now.Add(time.Hour), UPC: "018208015566", LastChecked: now,
	}
	if err := ps.SaveTracked(ctx, item); err != nil {
		t.Fatalf("SaveTracked: %v", err)
	}
	item.CurrentPrice = decimal.RequireFromString("300")
	if err := ps.SaveTracked(ctx, item); err != nil {
		t.Fatalf("SaveTracked update: %v", err)
	}

	items, err := ps.ListTracked(ctx)
	if err != nil {
		t.Fatalf("ListTracked: %v", err)
	}
	var found *models.TrackedItem
	for i := range items {
		if items[i].ID == "test-4242" {
			found = &items[i]
		}
	}
	if found == nil {
		t.Fatal("tracked item not listed")
	}
	if !found.CurrentPrice.Equal(decimal.NewFromInt(300)) || found.UPC != "018208015566" {
		t.Errorf("item: got %+v", found)
	}
}

func TestPostgresRecordBaseline(t *testing.T) {
	ps := testPostgres(t)
	b := models.Baseline{Average: decimal.RequireFromString("123.45"), Count: 7}
	if err := ps.RecordBaseline(context.Background(), "test baseline title", b); err != nil {
		t.Fatalf("RecordBaseline: %v", err)
	}

	var avg decimal.Decimal
	var count int
	row := ps.db.QueryRow(`SELECT average, comp_count FROM baseline_averages WHERE title = $1`, "test baseline title")
	if err := row.Scan(&avg, &count); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !avg.Equal(b.Average) || count != 7 {
		t.Errorf("baseline: got %s over %d", avg, count)
	}
}
