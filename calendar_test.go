package main

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 8, 0, 0, 0, time.UTC)
}

func TestResolveCalendarWeekday(t *testing.T) {
	// Tuesday 2025-06-10, ISO week 24
	rc := resolveCalendar(date(2025, time.June, 10), false, nil)

	if rc.Skip {
		t.Fatal("resolveCalendar() should not skip a plain weekday")
	}
	if rc.EffectiveDay != "Tisdag" {
		t.Errorf("EffectiveDay = %q, want %q", rc.EffectiveDay, "Tisdag")
	}
	if rc.EffectiveWeek != 24 {
		t.Errorf("EffectiveWeek = %d, want 24", rc.EffectiveWeek)
	}
}

func TestResolveCalendarWeekendAdvancesToMonday(t *testing.T) {
	tests := []struct {
		name     string
		now      time.Time
		wantWeek int
	}{
		{"saturday", date(2025, time.June, 14), 25},
		{"sunday", date(2025, time.June, 15), 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc := resolveCalendar(tt.now, false, nil)
			if rc.Skip {
				t.Fatal("resolveCalendar() should not skip a weekend")
			}
			if rc.EffectiveDay != "Måndag" {
				t.Errorf("EffectiveDay = %q, want %q", rc.EffectiveDay, "Måndag")
			}
			if rc.EffectiveWeek != tt.wantWeek {
				t.Errorf("EffectiveWeek = %d, want %d", rc.EffectiveWeek, tt.wantWeek)
			}
		})
	}
}

func TestResolveCalendarWeekendAcrossYearBoundary(t *testing.T) {
	// Saturday 2025-12-27 advances to Monday 2025-12-29, which is ISO
	// week 1 of 2026.
	rc := resolveCalendar(date(2025, time.December, 27), false, nil)

	if rc.EffectiveDay != "Måndag" {
		t.Errorf("EffectiveDay = %q, want %q", rc.EffectiveDay, "Måndag")
	}
	if rc.EffectiveWeek != 1 {
		t.Errorf("EffectiveWeek = %d, want 1", rc.EffectiveWeek)
	}
}

func TestResolveCalendarHolidaySkips(t *testing.T) {
	holidays := map[string]bool{"2025-12-25": true}

	rc := resolveCalendar(date(2025, time.December, 25), false, holidays)
	if !rc.Skip {
		t.Error("resolveCalendar() should skip a configured holiday")
	}
}

func TestResolveCalendarOverrideBypassesHoliday(t *testing.T) {
	holidays := map[string]bool{"2025-12-25": true}

	// Thursday 2025-12-25 with override: no skip, advanced to Monday
	// 2025-12-29 (ISO week 1 of 2026).
	rc := resolveCalendar(date(2025, time.December, 25), true, holidays)

	if rc.Skip {
		t.Fatal("resolveCalendar() should not skip when override is set")
	}
	if rc.EffectiveDay != "Måndag" {
		t.Errorf("EffectiveDay = %q, want %q", rc.EffectiveDay, "Måndag")
	}
	if rc.EffectiveWeek != 1 {
		t.Errorf("EffectiveWeek = %d, want 1", rc.EffectiveWeek)
	}
}

func TestResolveCalendarOverrideOnWeekday(t *testing.T) {
	// Tuesday 2025-06-10 with override advances to Monday 2025-06-16,
	// ISO week 25.
	rc := resolveCalendar(date(2025, time.June, 10), true, nil)

	if rc.EffectiveDay != "Måndag" {
		t.Errorf("EffectiveDay = %q, want %q", rc.EffectiveDay, "Måndag")
	}
	if rc.EffectiveWeek != 25 {
		t.Errorf("EffectiveWeek = %d, want 25", rc.EffectiveWeek)
	}
}
