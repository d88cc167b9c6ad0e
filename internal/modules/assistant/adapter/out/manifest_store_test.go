package out_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	assistantout "blockgarden/internal/modules/assistant/adapter/out"
)

func writeManifests(t *testing.T, base, raw string) {
	t.Helper()
	writeManifestFile(t, base, "plugins.json", raw)
}

func writeManifestFile(t *testing.T, base, name, raw string) {
	t.Helper()
	dir := filepath.Join(base, "plugins")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir plugins: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, name), []byte(raw), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestManifestStoreMissingFileIsEmpty(t *testing.T) {
	t.Parallel()
	manifests, err := assistantout.NewFileManifestStore(t.TempDir()).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 0 {
		t.Fatalf("expected no manifests, got %d", len(manifests))
	}
}

func TestManifestStoreResolvesRelativeBinary(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeManifests(t, base, `[{"name":"summarizer","version":"1.0.0","binary":"bin/summarizer","sha256":"aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa","enabled":true,"capabilities":["summarize","tip"]}]`)
	manifests, err := assistantout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if want := filepath.Join(base, "bin", "summarizer"); manifests[0].Binary != want {
		t.Fatalf("expected %s, got %s", want, manifests[0].Binary)
	}
}

func TestManifestStoreRejectsUnknownField(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeManifests(t, base, `[{"name":"summarizer","model":"large"}]`)
	if _, err := assistantout.NewFileManifestStore(base).Load(context.Background()); err == nil {
		t.Fatalf("expected unknown field error")
	}
}

func TestManifestStorePrefersYAML(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeManifests(t, base, `[{"name":"from-json"}]`)
	writeManifestFile(t, base, "plugins.yaml", `
- name: summarizer
  version: 1.0.0
  binary: /opt/summarizer
  enabled: true
  capabilities: [summarize]
`)
	manifests, err := assistantout.NewFileManifestStore(base).Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(manifests) != 1 || manifests[0].Name != "summarizer" || manifests[0].Binary != "/opt/summarizer" {
		t.Fatalf("unexpected manifests %+v", manifests)
	}
	if len(manifests[0].Capabilities) != 1 || manifests[0].Capabilities[0] != "summarize" {
		t.Fatalf("unexpected capabilities %+v", manifests[0].Capabilities)
	}
}

func TestManifestStoreRejectsDuplicateNames(t *testing.T) {
	t.Parallel()
	base := t.TempDir()
	writeManifestFile(t, base, "plugins.yaml", "- name: a\n- name: a\n")
	if _, err := assistantout.NewFileManifestStore(base).Load(context.Background()); err == nil {
		t.Fatalf("expected duplicate name error")
	}
}

func TestEnvCredentials(t *testing.T) {
	t.Setenv("BLOCKGARDEN_TEST_KEY", "secret")
	if !assistantout.NewEnvCredentials("BLOCKGARDEN_TEST_KEY").Present() {
		t.Fatalf("expected credential to be present")
	}
	t.Setenv("BLOCKGARDEN_TEST_KEY", "   ")
	if assistantout.NewEnvCredentials("BLOCKGARDEN_TEST_KEY").Present() {
		t.Fatalf("blank credential must not count")
	}
	if assistantout.NewEnvCredentials("").Present() {
		t.Fatalf("unnamed credential must not count")
	}
}
