package main

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
)

func TestConfigureJSON(t *testing.T) {
	if decimal.MarshalJSONWithoutQuotes {
		t.Fatal("decimal encoding changed before configureJSON ran")
	}

	configureJSON()
	t.Cleanup(func() { decimal.MarshalJSONWithoutQuotes = false })

	got, err := json.Marshal(decimal.RequireFromString("149.99"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(got) != "149.99" {
		t.Errorf("Marshal = %s, want 149.99", got)
	}
}
