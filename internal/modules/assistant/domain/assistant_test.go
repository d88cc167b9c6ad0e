package domain_test

import (
	"strings"
	"testing"

	"blockgarden/internal/modules/assistant/domain"
)

func TestManifestValidate(t *testing.T) {
	t.Parallel()
	m := domain.Manifest{
		Name:         "summarizer",
		Version:      "1.0.0",
		Binary:       "/bin/summarizer",
		SHA256:       strings.Repeat("a", 64),
		Enabled:      true,
		Capabilities: []domain.Capability{domain.CapabilitySummarize},
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("valid manifest rejected: %v", err)
	}
	m.Capabilities = []domain.Capability{"command"}
	if err := m.Validate(); err == nil {
		t.Fatalf("expected unknown capability error")
	}
	m.Capabilities = []domain.Capability{domain.CapabilityTip, domain.CapabilityTip}
	if err := m.Validate(); err == nil {
		t.Fatalf("expected duplicate capability error")
	}
	m.Capabilities = []domain.Capability{domain.CapabilityTip}
	m.SHA256 = strings.Repeat("A", 64)
	if err := m.Validate(); err == nil {
		t.Fatalf("expected uppercase checksum to be rejected")
	}
}

func TestPrepareSnippetsKeepsMultibyteRunes(t *testing.T) {
	t.Parallel()
	long := strings.Repeat("é", 70)
	out := domain.PrepareSnippets([]string{"", long, "  docs  "})
	if len(out) != 2 {
		t.Fatalf("expected two snippets, got %d", len(out))
	}
	if got := []rune(out[0]); len(got) != domain.MaxSnippetRunes || got[0] != 'é' {
		t.Fatalf("unexpected truncation %q", out[0])
	}
	if out[1] != "docs" {
		t.Fatalf("expected trimmed snippet, got %q", out[1])
	}
}
