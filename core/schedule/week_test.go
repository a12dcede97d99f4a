package schedule

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

func TestWeekSettingsParityOn(t *testing.T) {
	// 2026-01-05 is a Monday
	alternating := WeekSettings{WeekType: WeekModeAlternating, WeekInterval: 1, ReferenceDate: date("2026-01-05")}

	tests := []struct {
		name string
		ws   WeekSettings
		day  string
		want Parity
	}{
		{name: "none mode has no parity", ws: WeekSettings{WeekType: WeekModeNone}, day: "2026-01-05", want: ParityNone},
		{name: "zero settings have no parity", ws: WeekSettings{}, day: "2026-01-05", want: ParityNone},
		{name: "reference week is upper", ws: alternating, day: "2026-01-05", want: ParityUpper},
		{name: "whole week shares parity", ws: alternating, day: "2026-01-11", want: ParityUpper},
		{name: "next week flips", ws: alternating, day: "2026-01-12", want: ParityLower},
		{name: "two weeks later flips back", ws: alternating, day: "2026-01-19", want: ParityUpper},
		{name: "week before reference is lower", ws: alternating, day: "2026-01-04", want: ParityLower},
		{name: "two weeks before reference is upper", ws: alternating, day: "2025-12-22", want: ParityUpper},
		{
			name: "interval of two flips every other week",
			ws:   WeekSettings{WeekType: WeekModeAlternating, WeekInterval: 2, ReferenceDate: date("2026-01-05")},
			day:  "2026-01-12",
			want: ParityUpper,
		},
		{
			name: "interval of two flips on third week",
			ws:   WeekSettings{WeekType: WeekModeAlternating, WeekInterval: 2, ReferenceDate: date("2026-01-05")},
			day:  "2026-01-19",
			want: ParityLower,
		},
		{
			name: "mid-week reference anchors its whole week",
			ws:   WeekSettings{WeekType: WeekModeAlternating, WeekInterval: 1, ReferenceDate: date("2026-01-08")},
			day:  "2026-01-05",
			want: ParityUpper,
		},
		{
			name: "custom mode still derives binary parity",
			ws:   WeekSettings{WeekType: WeekModeCustom, WeekInterval: 1, ReferenceDate: date("2026-01-05"), CustomWeekNames: []string{"A", "B", "C"}},
			day:  "2026-01-12",
			want: ParityLower,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ws.ParityOn(date(tt.day)); got != tt.want {
				t.Errorf("ParityOn(%s) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestWeekSettingsParityOnDistantReference(t *testing.T) {
	// anchor left at the zero time, centuries away from the queried weeks
	ws := WeekSettings{WeekType: WeekModeAlternating, WeekInterval: 1}

	first := ws.ParityOn(date("2026-01-05"))
	second := ws.ParityOn(date("2026-01-12"))
	third := ws.ParityOn(date("2026-01-19"))
	if first == second {
		t.Errorf("consecutive weeks share parity %q, want alternation", first)
	}
	if third != first {
		t.Errorf("ParityOn() third week = %q, want %q", third, first)
	}
}

func TestWeekSettingsWeekNameOn(t *testing.T) {
	ws := WeekSettings{
		WeekType:        WeekModeCustom,
		WeekInterval:    1,
		ReferenceDate:   date("2026-01-05"),
		CustomWeekNames: []string{"A", "B", "C"},
	}

	tests := []struct {
		name string
		ws   WeekSettings
		day  string
		want string
	}{
		{name: "reference week uses first name", ws: ws, day: "2026-01-05", want: "A"},
		{name: "second week uses second name", ws: ws, day: "2026-01-12", want: "B"},
		{name: "names wrap around", ws: ws, day: "2026-01-26", want: "A"},
		{name: "weeks before reference wrap backwards", ws: ws, day: "2026-01-04", want: "C"},
		{
			name: "alternating mode uses parity name",
			ws:   WeekSettings{WeekType: WeekModeAlternating, WeekInterval: 1, ReferenceDate: date("2026-01-05")},
			day:  "2026-01-12",
			want: "lower",
		},
		{name: "none mode has no name", ws: WeekSettings{WeekType: WeekModeNone}, day: "2026-01-05", want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.ws.WeekNameOn(date(tt.day)); got != tt.want {
				t.Errorf("WeekNameOn(%s) = %q, want %q", tt.day, got, tt.want)
			}
		})
	}
}

func TestEventOccursOn(t *testing.T) {
	// 2026-01-06 is a Tuesday
	tuesday := date("2026-01-06")

	tests := []struct {
		name   string
		evt    Event
		day    time.Time
		parity Parity
		want   bool
	}{
		{
			name: "weekday mismatch",
			evt:  Event{Days: []string{"monday", "wednesday"}, WeekType: WeekTypeBoth},
			day:  tuesday, parity: ParityUpper,
			want: false,
		},
		{
			name: "both matches any parity",
			evt:  Event{Days: []string{"tuesday"}, WeekType: WeekTypeBoth},
			day:  tuesday, parity: ParityLower,
			want: true,
		},
		{
			name: "upper matches upper week",
			evt:  Event{Days: []string{"tuesday"}, WeekType: WeekTypeUpper},
			day:  tuesday, parity: ParityUpper,
			want: true,
		},
		{
			name: "upper skips lower week",
			evt:  Event{Days: []string{"tuesday"}, WeekType: WeekTypeUpper},
			day:  tuesday, parity: ParityLower,
			want: false,
		},
		{
			name: "lower skips upper week",
			evt:  Event{Days: []string{"tuesday"}, WeekType: WeekTypeLower},
			day:  tuesday, parity: ParityUpper,
			want: false,
		},
		{
			name: "upper matches when no alternation configured",
			evt:  Event{Days: []string{"tuesday"}, WeekType: WeekTypeUpper},
			day:  tuesday, parity: ParityNone,
			want: true,
		},
		{
			name: "custom never resolves onto dates",
			evt:  Event{Days: []string{"tuesday"}, WeekType: WeekTypeCustom},
			day:  tuesday, parity: ParityUpper,
			want: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.evt.OccursOn(tt.day, tt.parity); got != tt.want {
				t.Errorf("OccursOn() = %v, want %v", got, tt.want)
			}
		})
	}
}
