package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"deal-scanner/models"
)

// PostgresStore keeps tracked items, baseline history and search results
// in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection to PostgreSQL, runs schema migrations,
// and returns a ready-to-use PostgresStore.
func NewPostgresStore(dsn string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: ping failed after retries: %w", err)
	}

	ps := &PostgresStore{db: db}
	if err := ps.migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: migrate: %w", err)
	}

	return ps, nil
}

func (ps *PostgresStore) migrate() error {
	_, err := ps.db.Exec(`
		CREATE TABLE IF NOT EXISTS tracked_items (
			id            TEXT          PRIMARY KEY,
			title         TEXT          NOT NULL,
			current_price NUMERIC(12,2) NOT NULL,
			end_time      TIMESTAMPTZ,
			upc           TEXT          NOT NULL DEFAULT '',
			ean           TEXT          NOT NULL DEFAULT '',
			gtin          TEXT          NOT NULL DEFAULT '',
			category_id   TEXT          NOT NULL DEFAULT '',
			last_checked  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS baseline_averages (
			title       TEXT          PRIMARY KEY,
			average     NUMERIC(12,2) NOT NULL,
			comp_count  INTEGER       NOT NULL,
			updated_at  TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS deal_results (
			id             SERIAL        PRIMARY KEY,
			query          TEXT          NOT NULL,
			item_url       TEXT          NOT NULL,
			title          TEXT          NOT NULL,
			current_price  NUMERIC(12,2) NOT NULL,
			avg_sold_price NUMERIC(12,2) NOT NULL,
			discount       INTEGER       NOT NULL,
			urgency        VARCHAR(16)   NOT NULL,
			synthetic      BOOLEAN       NOT NULL DEFAULT FALSE,
			created_at     TIMESTAMPTZ   NOT NULL DEFAULT NOW()
		);

		CREATE INDEX IF NOT EXISTS idx_tracked_items_end_time ON tracked_items(end_time);
		CREATE INDEX IF NOT EXISTS idx_deal_results_query     ON deal_results(query);
		CREATE INDEX IF NOT EXISTS idx_deal_results_discount  ON deal_results(discount);
	`)
	return err
}

// SaveTracked inserts item or replaces the stored record with the same id.
func (ps *PostgresStore) SaveTracked(ctx context.Context, item models.TrackedItem) error {
	var endTime interface{}
	if !item.EndTime.IsZero() {
		endTime = item.EndTime
	}

	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO tracked_items (id, title, current_price, end_time, upc, ean, gtin, category_id, last_checked)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			title         = EXCLUDED.title,
			current_price = EXCLUDED.current_price,
			end_time      = EXCLUDED.end_time,
			upc           = EXCLUDED.upc,
			ean           = EXCLUDED.ean,
			gtin          = EXCLUDED.gtin,
			category_id   = EXCLUDED.category_id,
			last_checked  = EXCLUDED.last_checked
	`, item.ID, item.Title, item.CurrentPrice, endTime, item.UPC, item.EAN, item.GTIN, item.CategoryID, item.LastChecked)
	if err != nil {
		return fmt.Errorf("postgres: save tracked %s: %w", item.ID, err)
	}
	return nil
}

// ListTracked retrieves every tracked item ordered by id.
func (ps *PostgresStore) ListTracked(ctx context.Context) ([]models.TrackedItem, error) {
	rows, err := ps.db.QueryContext(ctx, `
		SELECT id, title, current_price, end_time, upc, ean, gtin, category_id, last_checked
		FROM tracked_items
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("postgres: list tracked: %w", err)
	}
	defer rows.Close()

	items := make([]models.TrackedItem, 0)
	for rows.Next() {
		var it models.TrackedItem
		var endTime sql.NullTime
		if err := rows.Scan(
			&it.ID, &it.Title, &it.CurrentPrice, &endTime,
			&it.UPC, &it.EAN, &it.GTIN, &it.CategoryID, &it.LastChecked,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan row: %w", err)
		}
		if endTime.Valid {
			it.EndTime = endTime.Time.UTC()
		}
		it.LastChecked = it.LastChecked.UTC()
		items = append(items, it)
	}
	return items, rows.Err()
}

// RecordBaseline stores the latest baseline computed for title.
func (ps *PostgresStore) RecordBaseline(ctx context.Context, title string, b models.Baseline) error {
	if !b.Present() {
		return nil
	}
	_, err := ps.db.ExecContext(ctx, `
		INSERT INTO baseline_averages (title, average, comp_count, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (title) DO UPDATE SET
			average    = EXCLUDED.average,
			comp_count = EXCLUDED.comp_count,
			updated_at = EXCLUDED.updated_at
	`, title, b.Average, b.Count)
	if err != nil {
		return fmt.Errorf("postgres: record baseline: %w", err)
	}
	return nil
}

// WriteDeals batch-inserts the deals of one search.
func (ps *PostgresStore) WriteDeals(result models.DealResult) error {
	deals := result.Results
	const batchSize = 50
	for i := 0; i < len(deals); i += batchSize {
		end := i + batchSize
		if end > len(deals) {
			end = len(deals)
		}
		if err := ps.insertBatch(result.Query, result.Synthetic, deals[i:end]); err != nil {
			return fmt.Errorf("postgres: write deals: %w", err)
		}
	}
	return nil
}

func (ps *PostgresStore) insertBatch(query string, synthetic bool, batch []models.Deal) error {
	const cols = 8
	valueStrings := make([]string, 0, len(batch))
	valueArgs := make([]interface{}, 0, len(batch)*cols)

	for idx, d := range batch {
		base := idx * cols
		valueStrings = append(valueStrings,
			fmt.Sprintf("($%d,$%d,$%d,$%d,$%d,$%d,$%d,$%d)",
				base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8))
		valueArgs = append(valueArgs,
			query, d.ItemURL, d.Title, d.CurrentPrice, d.AvgSoldPrice, d.DiscountPercent, string(d.Urgency), synthetic)
	}

	stmt := fmt.Sprintf(`
		INSERT INTO deal_results (query, item_url, title, current_price, avg_sold_price, discount, urgency, synthetic)
		VALUES %s
	`, strings.Join(valueStrings, ","))

	_, err := ps.db.Exec(stmt, valueArgs...)
	return err
}

// Ping checks the database connection.
func (ps *PostgresStore) Ping(ctx context.Context) error {
	return ps.db.PingContext(ctx)
}

func (ps *PostgresStore) Close() error {
	return ps.db.Close()
}
