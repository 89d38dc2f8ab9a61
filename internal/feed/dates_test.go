package feed

import (
	"strings"
	"testing"
)

func TestNormalizePubDate(t *testing.T) {
	got, err := NormalizePubDate("Mon, 25 Nov 2025 10:30:00 +0900")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// The wall clock keeps the feed-supplied offset.
	if got.Format("2006-01-02 15:04:05") != "2025-11-25 10:30:00" {
		t.Errorf("unexpected timestamp %s", got.Format("2006-01-02 15:04:05"))
	}
	_, offset := got.Zone()
	if offset != 9*60*60 {
		t.Errorf("expected +0900 offset preserved, got %d seconds", offset)
	}
}

func TestNormalizePubDateInvalid(t *testing.T) {
	cases := []string{
		"not a date",
		"",
		"2025-11-25 10:30:00",
		"25 Nov 2025",
	}
	for _, raw := range cases {
		if _, err := NormalizePubDate(raw); err == nil {
			t.Errorf("expected error for %q", raw)
		}
	}
}

func TestNormalizePubDateErrorCarriesInput(t *testing.T) {
	_, err := NormalizePubDate("not a date")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "not a date") {
		t.Errorf("expected offending input in error, got %q", err)
	}
}
