package ebay

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"deal-scanner/models"
	"deal-scanner/utils"
)

func newTestFindingClient(t *testing.T, url string) *FindingClient {
	t.Helper()
	c, err := NewFindingClient(FindingOptions{
		Endpoint:       url,
		AppID:          "test-app",
		MaxRetries:     3,
		RetryBaseDelay: time.Millisecond,
		Logger:         utils.Discard(),
	})
	if err != nil {
		t.Fatalf("NewFindingClient: %v", err)
	}
	return c
}

func TestFindingClientEncodesRequest(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		got = map[string]string{
			"op":       q.Get("OPERATION-NAME"),
			"app":      q.Get("SECURITY-APPNAME"),
			"format":   q.Get("RESPONSE-DATA-FORMAT"),
			"keywords": q.Get("keywords"),
			"f0name":   q.Get("itemFilter(0).name"),
			"f0value":  q.Get("itemFilter(0).value(0)"),
			"f0param":  q.Get("itemFilter(0).paramValue"),
			"f1value1": q.Get("itemFilter(1).value(1)"),
			"entries":  q.Get("paginationInput.entriesPerPage"),
			"sort":     q.Get("sortOrder"),
		}
		w.Write([]byte(keywordsResponse))
	}))
	defer srv.Close()

	c := newTestFindingClient(t, srv.URL)
	res, err := c.Execute(context.Background(), Request{
		Operation: OpFindByKeywords,
		Keywords:  "iPhone",
		Filters: []models.Filter{
			{Name: FilterMaxPrice, Values: []string{"500"}, ParamName: "Currency", ParamValue: "USD"},
			models.NewFilter(FilterCondition, "New", "Used"),
		},
		Pagination: models.Pagination{EntriesPerPage: 50},
		SortOrder:  models.SortPricePlusShippingLowest,
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(res.Items) != 2 {
		t.Errorf("items: got %d, want 2", len(res.Items))
	}

	want := map[string]string{
		"op": "findItemsByKeywords", "app": "test-app", "format": "JSON",
		"keywords": "iPhone", "f0name": "MaxPrice", "f0value": "500", "f0param": "USD",
		"f1value1": "Used", "entries": "50", "sort": "PricePlusShippingLowest",
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("param %s: got %q, want %q", k, got[k], v)
		}
	}
}

func TestFindingClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(keywordsResponse))
	}))
	defer srv.Close()

	c := newTestFindingClient(t, srv.URL)
	if _, err := c.Execute(context.Background(), Request{Operation: OpFindByKeywords}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if calls != 3 {
		t.Errorf("calls: got %d, want 3", calls)
	}
}

func TestFindingClientCategorizesFailures(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		wantCalls int32
	}{
		{"rate limited", http.StatusTooManyRequests, 3},
		{"unauthorized", http.StatusUnauthorized, 1},
		{"server error", http.StatusInternalServerError, 3},
	}

	for _, tt := range tests {
		var calls int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			w.WriteHeader(tt.status)
		}))

		c := newTestFindingClient(t, srv.URL)
		_, err := c.Execute(context.Background(), Request{Operation: OpFindAdvanced})
		if !errors.Is(err, models.ErrUpstreamUnavailable) {
			t.Errorf("%s: got %v, want ErrUpstreamUnavailable", tt.name, err)
		}
		if calls != tt.wantCalls {
			t.Errorf("%s: calls got %d, want %d", tt.name, calls, tt.wantCalls)
		}
		srv.Close()
	}
}

func TestFindingClientWithoutAppID(t *testing.T) {
	c, err := NewFindingClient(FindingOptions{Endpoint: "https://svcs.example.invalid/v1"})
	if err != nil {
		t.Fatalf("NewFindingClient: %v", err)
	}
	if _, err := c.Execute(context.Background(), Request{Operation: OpFindAdvanced}); !errors.Is(err, models.ErrUpstreamUnavailable) {
		t.Errorf("Execute: got %v, want ErrUpstreamUnavailable", err)
	}
}

func TestNewFindingClientRejectsBadEndpoint(t *testing.T) {
	if _, err := NewFindingClient(FindingOptions{Endpoint: "not a url"}); err == nil {
		t.Error("expected error for invalid endpoint")
	}
}
