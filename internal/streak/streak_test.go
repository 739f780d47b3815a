package streak

import (
	"testing"
	"time"
)

var now = time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC)

func TestBumpFirstRun(t *testing.T) {
	r := Bump("", 0, now)
	if r.StreakDays != 1 || !r.Changed {
		t.Fatalf("expected fresh streak of 1, got %+v", r)
	}
	if r.Marker != "2025-03-10" {
		t.Fatalf("expected marker 2025-03-10, got %s", r.Marker)
	}
}

func TestBumpSameDayIdempotent(t *testing.T) {
	r := Bump("2025-03-10", 4, now)
	if r.Changed {
		t.Fatalf("same-day bump should not change anything: %+v", r)
	}
	if r.StreakDays != 4 {
		t.Fatalf("streak drifted on same-day bump: %d", r.StreakDays)
	}
	// Re-running the unchanged result is a no-op too.
	r2 := Bump(r.Marker, r.StreakDays, now)
	if r2.Changed || r2.StreakDays != 4 {
		t.Fatalf("repeated same-day bump mutated state: %+v", r2)
	}
}

func TestBumpConsecutiveDay(t *testing.T) {
	r := Bump("2025-03-09", 4, now)
	if !r.Changed || r.StreakDays != 5 {
		t.Fatalf("expected streak 5, got %+v", r)
	}
	if r.Marker != "2025-03-10" {
		t.Fatalf("marker not advanced: %s", r.Marker)
	}
}

func TestBumpConsecutiveDayIgnoresHours(t *testing.T) {
	// 23:50 yesterday to 00:10 today is one calendar day even though under
	// an hour elapsed.
	late := time.Date(2025, 3, 10, 0, 10, 0, 0, time.UTC)
	r := Bump("2025-03-09", 2, late)
	if r.StreakDays != 3 {
		t.Fatalf("calendar-day comparison failed: %+v", r)
	}
}

func TestBumpBrokenStreak(t *testing.T) {
	r := Bump("2025-03-07", 12, now)
	if !r.Changed || r.StreakDays != 1 {
		t.Fatalf("expected reset to 1, got %+v", r)
	}
	if r.Marker != "2025-03-10" {
		t.Fatalf("marker not advanced after break: %s", r.Marker)
	}
}

func TestBumpGarbageMarker(t *testing.T) {
	r := Bump("not-a-date", 7, now)
	if !r.Changed || r.StreakDays != 1 {
		t.Fatalf("garbage marker should reset streak: %+v", r)
	}
}

func TestBumpAcrossMonthBoundary(t *testing.T) {
	day := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	r := Bump("2025-02-28", 9, day)
	if r.StreakDays != 10 {
		t.Fatalf("month boundary miscounted: %+v", r)
	}
}

func TestMarkerFor(t *testing.T) {
	if m := MarkerFor(now); m != "2025-03-10" {
		t.Fatalf("unexpected marker %s", m)
	}
}
