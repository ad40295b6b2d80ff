package services

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"deal-scanner/models"
)

// AlertState holds the snapshot published by the most recent alert pass.
// Snapshots are swapped whole; nothing edits a published snapshot.
type AlertState struct {
	current       atomic.Pointer[models.AlertSnapshot]
	keepOnFailure bool
	now           func() time.Time
}

// NewAlertState returns a state holding an empty snapshot. With
// keepOnFailure set, a failed pass republishes the previous alerts instead
// of clearing them.
func NewAlertState(keepOnFailure bool) *AlertState {
	s := &AlertState{keepOnFailure: keepOnFailure, now: time.Now}
	s.current.Store(&models.AlertSnapshot{Alerts: []models.Alert{}})
	return s
}

// Load returns the latest snapshot. Its Alerts slice is never nil and
// must not be modified.
func (s *AlertState) Load() models.AlertSnapshot {
	return *s.current.Load()
}

// Replace publishes the result of one pass and returns it.
func (s *AlertState) Replace(alerts []models.Alert, failed bool) models.AlertSnapshot {
	if failed && s.keepOnFailure {
		alerts = s.current.Load().Alerts
	}

	snap := &models.AlertSnapshot{
		PassID:      uuid.New(),
		CompletedAt: s.now().UTC(),
		Alerts:      append(make([]models.Alert, 0, len(alerts)), alerts...),
		Failed:      failed,
	}
	s.current.Store(snap)
	return *snap
}
