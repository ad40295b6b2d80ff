package services

import (
	"sync"
	"testing"

	"github.com/google/uuid"

	"deal-scanner/models"
)

func TestAlertStateStartsEmpty(t *testing.T) {
	s := NewAlertState(false)
	snap := s.Load()
	if snap.Alerts == nil || len(snap.Alerts) != 0 {
		t.Errorf("initial alerts: got %#v, want empty non-nil", snap.Alerts)
	}
	if snap.PassID != uuid.Nil {
		t.Errorf("initial PassID: got %s, want nil uuid", snap.PassID)
	}
}

func TestAlertStateReplacesWholesale(t *testing.T) {
	s := NewAlertState(false)
	first := s.Replace([]models.Alert{{ItemID: "1"}, {ItemID: "2"}}, false)
	second := s.Replace([]models.Alert{{ItemID: "3"}}, false)

	if first.PassID == second.PassID {
		t.Error("each pass should get its own id")
	}
	got := s.Load()
	if len(got.Alerts) != 1 || got.Alerts[0].ItemID != "3" {
		t.Errorf("alerts: got %+v, want only item 3", got.Alerts)
	}

	s.Replace(nil, false)
	if got := s.Load().Alerts; got == nil || len(got) != 0 {
		t.Errorf("after empty pass: got %#v, want empty non-nil", got)
	}
}

func TestAlertStateCopiesInput(t *testing.T) {
	s := NewAlertState(false)
	in := []models.Alert{{ItemID: "1"}}
	s.Replace(in, false)
	in[0].ItemID = "changed"

	if got := s.Load().Alerts[0].ItemID; got != "1" {
		t.Errorf("published snapshot changed with caller slice: %q", got)
	}
}

func TestAlertStateFailurePolicy(t *testing.T) {
	overwrite := NewAlertState(false)
	overwrite.Replace([]models.Alert{{ItemID: "1"}}, false)
	snap := overwrite.Replace(nil, true)
	if !snap.Failed || len(snap.Alerts) != 0 {
		t.Errorf("overwrite policy: got %+v", snap)
	}

	keep := NewAlertState(true)
	keep.Replace([]models.Alert{{ItemID: "1"}}, false)
	snap = keep.Replace(nil, true)
	if !snap.Failed || len(snap.Alerts) != 1 || snap.Alerts[0].ItemID != "1" {
		t.Errorf("keep policy: got %+v", snap)
	}

	snap = keep.Replace(nil, false)
	if len(snap.Alerts) != 0 {
		t.Errorf("keep policy after successful empty pass: got %+v", snap.Alerts)
	}
}

func TestAlertStateConcurrentAccess(t *testing.T) {
	s := NewAlertState(false)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				s.Replace([]models.Alert{{ItemID: "a"}, {ItemID: "b"}}, false)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				if n := len(s.Load().Alerts); n != 0 && n != 2 {
					t.Errorf("partial snapshot with %d alerts", n)
				}
			}
		}()
	}
	wg.Wait()
}
