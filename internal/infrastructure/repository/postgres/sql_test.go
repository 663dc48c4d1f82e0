package postgres

import (
	"database/sql"
	"testing"
	"time"
)

func TestIntPtrRoundTrip(t *testing.T) {
	t.Run("nil maps to invalid", func(t *testing.T) {
		got := intPtrToNullInt64(nil)
		if got.Valid {
			t.Fatalf("expected invalid NullInt64")
		}
		if nullInt64ToIntPtr(got) != nil {
			t.Fatalf("expected nil pointer back")
		}
	})

	t.Run("value survives round trip", func(t *testing.T) {
		in := -7
		got := nullInt64ToIntPtr(intPtrToNullInt64(&in))
		if got == nil || *got != -7 {
			t.Fatalf("expected -7, got %v", got)
		}
	})
}

func TestFloatPtrRoundTrip(t *testing.T) {
	in := 8.25
	got := nullFloat64ToFloatPtr(floatPtrToNullFloat64(&in))
	if got == nil || *got != 8.25 {
		t.Fatalf("expected 8.25, got %v", got)
	}
	if nullFloat64ToFloatPtr(sql.NullFloat64{}) != nil {
		t.Fatalf("expected nil for invalid NullFloat64")
	}
}

func TestTimePtrRoundTrip(t *testing.T) {
	at := time.Date(2026, 2, 8, 21, 0, 0, 0, time.UTC)
	got := nullTimeToTimePtr(timePtrToNullTime(&at))
	if got == nil || !got.Equal(at) {
		t.Fatalf("expected %v, got %v", at, got)
	}
	if nullTimeToTimePtr(sql.NullTime{}) != nil {
		t.Fatalf("expected nil for invalid NullTime")
	}
}

func TestOptionalString(t *testing.T) {
	if optionalString("") != nil {
		t.Fatalf("expected nil for empty string")
	}
	got := optionalString("boom")
	if got == nil || *got != "boom" {
		t.Fatalf("expected boom, got %v", got)
	}
}
