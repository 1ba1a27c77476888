package services

import (
	"testing"
	"time"
)

func TestDateAtLocationStripsTimeOfDay(t *testing.T) {
	location := time.FixedZone("UTC+3", 3*60*60)
	value := time.Date(2026, time.March, 14, 22, 45, 9, 120, location)

	normalized := DateAtLocation(value, location)
	expected := time.Date(2026, time.March, 14, 0, 0, 0, 0, location)
	if !normalized.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}

func TestDateAtLocationConvertsAcrossZones(t *testing.T) {
	tokyo := time.FixedZone("UTC+9", 9*60*60)
	// 23:30 UTC is already the next day in Tokyo.
	value := time.Date(2026, time.March, 14, 23, 30, 0, 0, time.UTC)

	normalized := DateAtLocation(value, tokyo)
	expected := time.Date(2026, time.March, 15, 0, 0, 0, 0, tokyo)
	if !normalized.Equal(expected) {
		t.Fatalf("expected %v, got %v", expected, normalized)
	}
}

func TestDayWindowIsHalfOpenDay(t *testing.T) {
	start, end := DayWindow(time.Date(2026, time.March, 14, 13, 0, 0, 0, time.UTC), time.UTC)
	if !start.Equal(time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2026, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}

func TestYesterdayWindowEndsAtTodayMidnight(t *testing.T) {
	now := time.Date(2026, time.March, 14, 0, 15, 0, 0, time.UTC)
	start, end := YesterdayWindow(now, time.UTC)
	if !start.Equal(time.Date(2026, time.March, 13, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected start %v", start)
	}
	if !end.Equal(time.Date(2026, time.March, 14, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected end %v", end)
	}
}
