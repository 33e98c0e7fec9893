package utils

import (
	"testing"
	"time"
)

func TestParseISOLayouts(t *testing.T) {
	cases := []string{
		"2025-03-01T09:30:00Z",
		"2025-03-01T09:30:00+02:00",
		"2025-03-01T09:30:00.123456",
		"2025-03-01T09:30:00",
	}
	for _, ts := range cases {
		parsed := ParseISO(ts)
		if parsed.Year() != 2025 || parsed.Month() != time.March || parsed.Day() != 1 {
			t.Errorf("ParseISO(%q) = %v", ts, parsed)
		}
	}
}

func TestParseISOFallsBackToNow(t *testing.T) {
	before := time.Now().Add(-time.Second)
	parsed := ParseISO("not a timestamp")
	after := time.Now().Add(time.Second)
	if parsed.Before(before) || parsed.After(after) {
		t.Errorf("expected a mangled timestamp to fall back to now, got %v", parsed)
	}
}

func TestFormatISORoundTrip(t *testing.T) {
	original := time.Date(2025, 3, 1, 9, 30, 15, 123456000, time.UTC)
	formatted := FormatISO(original)
	if !ParseISO(formatted).Equal(original) {
		t.Errorf("round trip changed the time: %s -> %v", formatted, ParseISO(formatted))
	}
}

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("secret123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword(hash, "secret123") {
		t.Error("expected the password to verify")
	}
	if CheckPassword(hash, "wrong") {
		t.Error("expected a wrong password to fail")
	}
}

func TestHashPasswordTooShort(t *testing.T) {
	if _, err := HashPassword("abc"); err == nil {
		t.Error("expected an error for a short password")
	}
}
