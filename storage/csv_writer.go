package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"deal-scanner/models"
)

// CSVWriter exports deal search results to a CSV file.
// It is safe for concurrent use.
type CSVWriter struct {
	mu     sync.Mutex
	file   *os.File
	writer *csv.Writer
}

// NewCSVWriter creates (or truncates) the CSV file at the given path and
// writes the header row. Intermediate directories are created automatically.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("csv: create file %q: %w", path, err)
	}

	w := csv.NewWriter(f)

	if err := w.Write([]string{
		"query", "item_id", "title", "current_price", "avg_sold_price", "discount",
		"savings", "urgency", "time_left", "end_time", "item_url", "synthetic",
	}); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("csv: write header: %w", err)
	}
	w.Flush()

	return &CSVWriter{file: f, writer: w}, nil
}

// WriteDeals appends one row per deal in result.
func (c *CSVWriter) WriteDeals(result models.DealResult) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range result.Results {
		endTime := ""
		if d.EndTime != nil {
			endTime = d.EndTime.UTC().Format(time.RFC3339)
		}
		row := []string{
			result.Query,
			d.ItemID,
			d.Title,
			d.CurrentPrice.StringFixed(2),
			d.AvgSoldPrice.StringFixed(2),
			strconv.Itoa(d.DiscountPercent),
			d.Savings.StringFixed(2),
			string(d.Urgency),
			d.TimeLeft,
			endTime,
			d.ItemURL,
			strconv.FormatBool(result.Synthetic),
		}
		if err := c.writer.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	c.writer.Flush()
	return c.writer.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.writer.Flush()
	return c.file.Close()
}
