package sim

import (
	"fmt"
	"testing"
	"time"

	"github.com/signalsfoundry/planetary-defense-sim/model"
)

func TestEventLog_EvictsOldestAtCap(t *testing.T) {
	log := NewEventLog(3)
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	for i := 0; i < 5; i++ {
		log.Append(ts, model.EventSystem, model.SeverityInfo, "", fmt.Sprintf("entry %d", i))
	}

	if log.Len() != 3 {
		t.Fatalf("Len = %d, want capped 3", log.Len())
	}
	snap := log.Snapshot()
	if snap[0].Message != "entry 2" || snap[2].Message != "entry 4" {
		t.Fatalf("expected oldest entries evicted, got %q .. %q", snap[0].Message, snap[2].Message)
	}
}

func TestEventLog_SinkSeesEveryAppend(t *testing.T) {
	log := NewEventLog(10)
	var got []model.EventEntry
	log.SetSink(func(e model.EventEntry) { got = append(got, e) })

	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	log.Append(ts, model.EventDetection, model.SeverityInfo, "obj-1", "detected")
	log.Append(ts, model.EventImpact, model.SeverityCritical, "obj-1", "impact")

	if len(got) != 2 {
		t.Fatalf("sink calls = %d, want 2", len(got))
	}
	if got[1].Category != model.EventImpact || got[1].Severity != model.SeverityCritical {
		t.Fatalf("sink saw %+v", got[1])
	}
}

func TestEventLog_SnapshotIsACopy(t *testing.T) {
	log := NewEventLog(10)
	ts := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	log.Append(ts, model.EventSystem, model.SeverityInfo, "", "original")

	snap := log.Snapshot()
	snap[0].Message = "mutated"

	if log.Snapshot()[0].Message != "original" {
		t.Fatalf("snapshot mutation must not leak into the log")
	}
}

func TestEventLog_ClearEmptiesLog(t *testing.T) {
	log := NewEventLog(10)
	log.Append(time.Now(), model.EventSystem, model.SeverityInfo, "", "x")
	log.Clear()
	if log.Len() != 0 {
		t.Fatalf("Len after Clear = %d, want 0", log.Len())
	}
}
