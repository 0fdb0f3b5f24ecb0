package env

import "testing"

func TestGet(t *testing.T) {
	t.Setenv("SHOPDESK_TEST_VALUE", "set")
	if got := Get("SHOPDESK_TEST_VALUE", "fallback"); got != "set" {
		t.Fatalf("Get = %q, want set", got)
	}
	if got := Get("SHOPDESK_TEST_MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get = %q, want fallback", got)
	}
}

func TestGetTreatsBlankAsUnset(t *testing.T) {
	t.Setenv("SHOPDESK_TEST_BLANK", "   ")
	if got := Get("SHOPDESK_TEST_BLANK", "fallback"); got != "fallback" {
		t.Fatalf("Get = %q, want fallback", got)
	}
}
