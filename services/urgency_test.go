package services

import (
	"testing"
	"time"

	"deal-scanner/models"
)

func TestClassifyUrgency(t *testing.T) {
	tests := []struct {
		in   string
		want models.Urgency
	}{
		{"25 minutes", models.UrgencyCritical},
		{"29 minutes", models.UrgencyCritical},
		{"1 minute", models.UrgencyCritical},
		{"30 minutes", models.UrgencyHigh},
		{"45 minutes", models.UrgencyHigh},
		{"3h 10m", models.UrgencyHigh},
		{"5h", models.UrgencyHigh},
		{"2d 4h", models.UrgencyMedium},
		{"1d", models.UrgencyMedium},
		{"3 hours", models.UrgencyHigh},
		{"1 hour 20 minutes", models.UrgencyHigh},
		{"2 days", models.UrgencyMedium},
		{"1 day", models.UrgencyMedium},
		{"1 day 3 hours", models.UrgencyMedium},
		{"2d 4h left", models.UrgencyMedium},
		{"12m 30s left", models.UrgencyCritical},
		{"45 mins", models.UrgencyHigh},
		{"40s", models.UrgencyCritical},
		{"Ended", models.UrgencyMedium},
		{"", models.UrgencyLow},
		{"Unknown", models.UrgencyLow},
		{"soon-ish", models.UrgencyLow},
		{"3 months", models.UrgencyLow},
	}

	for _, tt := range tests {
		if got := ClassifyUrgency(tt.in); got != tt.want {
			t.Errorf("ClassifyUrgency(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestTimeLeft(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		end  time.Time
		want string
	}{
		{now.Add(-time.Minute), "Ended"},
		{now, "Ended"},
		{now.Add(25*time.Minute + 40*time.Second), "25 minutes"},
		{now.Add(3*time.Hour + 10*time.Minute), "3h 10m"},
		{now.Add(52*time.Hour + 30*time.Minute), "2d 4h"},
	}

	for _, tt := range tests {
		if got := TimeLeft(tt.end, now); got != tt.want {
			t.Errorf("TimeLeft(%v) = %q, want %q", tt.end.Sub(now), got, tt.want)
		}
	}
}

func TestTimeLeftRoundTripsThroughClassifier(t *testing.T) {
	now := time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)
	if got := ClassifyUrgency(TimeLeft(now.Add(10*time.Minute), now)); got != models.UrgencyCritical {
		t.Errorf("10 minutes left: got %s, want critical", got)
	}
	if got := ClassifyUrgency(TimeLeft(now.Add(26*time.Hour), now)); got != models.UrgencyMedium {
		t.Errorf("26 hours left: got %s, want medium", got)
	}
}
