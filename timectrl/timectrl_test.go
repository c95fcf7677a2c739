package timectrl

import (
	"testing"
	"time"
)

var testStart = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func TestAdvance_MovesTimeAndFiresListeners(t *testing.T) {
	tc := NewTimeController(testStart, 3600)

	var gotTime time.Time
	var gotDelta time.Duration
	var calls int
	tc.AddListener(func(simTime time.Time, delta time.Duration) {
		gotTime, gotDelta = simTime, delta
		calls++
	})

	tc.Advance(2 * time.Hour)

	if want := testStart.Add(2 * time.Hour); !tc.Now().Equal(want) {
		t.Fatalf("Now = %v, want %v", tc.Now(), want)
	}
	if calls != 1 {
		t.Fatalf("listener calls = %d, want 1", calls)
	}
	if !gotTime.Equal(testStart.Add(2*time.Hour)) || gotDelta != 2*time.Hour {
		t.Fatalf("listener saw (%v, %v)", gotTime, gotDelta)
	}
}

func TestAdvance_IgnoresNonPositiveDelta(t *testing.T) {
	tc := NewTimeController(testStart, 3600)
	var calls int
	tc.AddListener(func(time.Time, time.Duration) { calls++ })

	tc.Advance(0)
	tc.Advance(-time.Hour)

	if !tc.Now().Equal(testStart) {
		t.Fatalf("Now = %v, want unchanged start", tc.Now())
	}
	if calls != 0 {
		t.Fatalf("listener calls = %d, want 0", calls)
	}
}

func TestPause_SuppressesAdvance(t *testing.T) {
	tc := NewTimeController(testStart, 3600)
	var calls int
	tc.AddListener(func(time.Time, time.Duration) { calls++ })

	tc.Pause()
	if !tc.Paused() {
		t.Fatalf("controller should report paused")
	}
	tc.Advance(time.Hour)
	if calls != 0 || !tc.Now().Equal(testStart) {
		t.Fatalf("paused advance should be a no-op: calls=%d now=%v", calls, tc.Now())
	}

	tc.Resume()
	tc.Advance(time.Hour)
	if calls != 1 {
		t.Fatalf("listener calls after resume = %d, want 1", calls)
	}
}

func TestAdvanceReal_ScalesByRate(t *testing.T) {
	tc := NewTimeController(testStart, 3600) // one simulated hour per real second

	tc.AdvanceReal(2 * time.Second)

	if want := testStart.Add(2 * time.Hour); !tc.Now().Equal(want) {
		t.Fatalf("Now = %v, want %v", tc.Now(), want)
	}
}

func TestSetRate_RejectsNonPositive(t *testing.T) {
	tc := NewTimeController(testStart, 3600)

	tc.SetRate(0)
	tc.SetRate(-5)
	if tc.Rate() != 3600 {
		t.Fatalf("rate = %v, want unchanged 3600", tc.Rate())
	}

	tc.SetRate(60)
	if tc.Rate() != 60 {
		t.Fatalf("rate = %v, want 60", tc.Rate())
	}
}

func TestReset_RewindsClock(t *testing.T) {
	tc := NewTimeController(testStart, 3600)
	tc.Advance(48 * time.Hour)

	newStart := testStart.Add(365 * 24 * time.Hour)
	tc.Reset(newStart)

	if !tc.Now().Equal(newStart) {
		t.Fatalf("Now = %v, want %v after reset", tc.Now(), newStart)
	}
}
