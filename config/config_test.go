package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("UNDERVALUE_RATIO", "")
	t.Setenv("MIN_DEAL_DISCOUNT", "")
	t.Setenv("CHECK_INTERVAL", "")

	cfg := Load()
	if cfg.UndervalueRatio != 0.6 {
		t.Errorf("UndervalueRatio: got %v, want 0.6", cfg.UndervalueRatio)
	}
	if cfg.MinDealDiscount != 20 {
		t.Errorf("MinDealDiscount: got %d, want 20", cfg.MinDealDiscount)
	}
	if cfg.CheckInterval != 5*time.Minute {
		t.Errorf("CheckInterval: got %v, want 5m", cfg.CheckInterval)
	}
	if cfg.KeepAlertsOnFailure {
		t.Error("KeepAlertsOnFailure should default to false")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("UNDERVALUE_RATIO", "0.5")
	t.Setenv("MIN_DEAL_DISCOUNT", "30")
	t.Setenv("CHECK_INTERVAL", "600")
	t.Setenv("ENDING_SOON_WINDOW", "15m")
	t.Setenv("KEEP_ALERTS_ON_FAILURE", "true")

	cfg := Load()
	if cfg.UndervalueRatio != 0.5 {
		t.Errorf("UndervalueRatio: got %v, want 0.5", cfg.UndervalueRatio)
	}
	if cfg.MinDealDiscount != 30 {
		t.Errorf("MinDealDiscount: got %d, want 30", cfg.MinDealDiscount)
	}
	if cfg.CheckInterval != 10*time.Minute {
		t.Errorf("CheckInterval: got %v, want 10m", cfg.CheckInterval)
	}
	if cfg.EndingSoonWindow != 15*time.Minute {
		t.Errorf("EndingSoonWindow: got %v, want 15m", cfg.EndingSoonWindow)
	}
	if !cfg.KeepAlertsOnFailure {
		t.Error("KeepAlertsOnFailure should be true")
	}
}

func TestLoadMarketplaceSettings(t *testing.T) {
	t.Setenv("EBAY_APP_ID", "scanner-app-1")
	t.Setenv("EBAY_GLOBAL_ID", "")
	t.Setenv("MARKETPLACE_BACKEND", "Browser")

	cfg := Load()
	if cfg.EbayAppID != "scanner-app-1" {
		t.Errorf("EbayAppID: got %q, want scanner-app-1", cfg.EbayAppID)
	}
	if cfg.EbayGlobalID != "EBAY-US" {
		t.Errorf("EbayGlobalID: got %q, want EBAY-US", cfg.EbayGlobalID)
	}
	if cfg.MarketplaceBackend != "browser" {
		t.Errorf("MarketplaceBackend: got %q, want browser", cfg.MarketplaceBackend)
	}
}

func TestGetEnvDurationFallsBackOnGarbage(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	if got := getEnvDuration("HTTP_TIMEOUT", time.Second); got != time.Second {
		t.Errorf("getEnvDuration: got %v, want 1s", got)
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5432", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "deals", PostgresSSLMode: "disable",
	}
	want := "host=db port=5432 user=u password=p dbname=deals sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
