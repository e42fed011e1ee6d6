package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	if got := NormalizeE164("06 12345678", "NL"); got != "+31612345678" {
		t.Fatalf("expected +31612345678, got %q", got)
	}
	if got := NormalizeE164("  not a phone ", ""); got != "not a phone" {
		t.Fatalf("expected trimmed passthrough, got %q", got)
	}
	if got := NormalizeE164("", "NL"); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}
