package services

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"deal-scanner/models"
)

const timeLeftEnded = "Ended"

// durationPartRegexp matches one "<n> <unit>" component in compact ("2d",
// "3h", "10m") or spelled-out ("2 days", "3 hours", "10 minutes") form.
var durationPartRegexp = regexp.MustCompile(
	`(\d+)\s*(days?|d|hours?|hrs?|h|minutes?|mins?|m|seconds?|secs?|s)\b`)

// TimeLeft renders the time until end as a short descriptor:
// "Ended", "2d 4h", "3h 10m" or "25 minutes".
func TimeLeft(end, now time.Time) string {
	d := end.Sub(now)
	if d <= 0 {
		return timeLeftEnded
	}

	days := int(d / (24 * time.Hour))
	hours := int(d % (24 * time.Hour) / time.Hour)
	minutes := int(d % time.Hour / time.Minute)

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh", days, hours)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	default:
		return fmt.Sprintf("%d minutes", minutes)
	}
}

// ClassifyUrgency maps a time-left descriptor onto an urgency level by its
// components: any day part is medium, hours without days are high, and
// minutes alone are critical below 30 and high otherwise. "Ended" is
// medium. Empty or unrecognised descriptors are low.
func ClassifyUrgency(descriptor string) models.Urgency {
	s := strings.ToLower(strings.TrimSpace(descriptor))
	if s == strings.ToLower(timeLeftEnded) {
		return models.UrgencyMedium
	}

	parts := durationPartRegexp.FindAllStringSubmatch(s, -1)
	if len(parts) == 0 {
		return models.UrgencyLow
	}

	var days, hours bool
	minutes := 0
	for _, p := range parts {
		n, err := strconv.Atoi(p[1])
		if err != nil {
			return models.UrgencyLow
		}
		switch p[2][0] {
		case 'd':
			days = true
		case 'h':
			hours = true
		case 'm':
			minutes += n
		}
	}

	switch {
	case days:
		return models.UrgencyMedium
	case hours:
		return models.UrgencyHigh
	case minutes < 30:
		return models.UrgencyCritical
	default:
		return models.UrgencyHigh
	}
}
