package out

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"blockgarden/internal/modules/assistant/domain"
	assistantout "blockgarden/internal/modules/assistant/port/out"
)

// FileManifestStore reads the plugin list under <base>/plugins. plugins.yaml
// wins over plugins.json; neither file means no plugins.
type FileManifestStore struct {
	base string
}

func NewFileManifestStore(base string) assistantout.ManifestStore {
	return &FileManifestStore{base: base}
}

func (s *FileManifestStore) Load(_ context.Context) ([]domain.Manifest, error) {
	dir := filepath.Join(s.base, "plugins")
	for _, candidate := range []struct {
		name   string
		decode func([]byte) ([]domain.Manifest, error)
	}{
		{"plugins.yaml", decodeYAMLManifests},
		{"plugins.json", decodeJSONManifests},
	} {
		raw, err := os.ReadFile(filepath.Join(dir, candidate.name))
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", candidate.name, err)
		}
		manifests, err := candidate.decode(raw)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", candidate.name, err)
		}
		return s.resolve(manifests)
	}
	return []domain.Manifest{}, nil
}

func (s *FileManifestStore) resolve(manifests []domain.Manifest) ([]domain.Manifest, error) {
	seen := make(map[string]bool, len(manifests))
	for i, m := range manifests {
		if seen[m.Name] {
			return nil, fmt.Errorf("plugin %q declared twice", m.Name)
		}
		seen[m.Name] = true
		if m.Binary != "" && !filepath.IsAbs(m.Binary) {
			manifests[i].Binary = filepath.Join(s.base, m.Binary)
		}
	}
	return manifests, nil
}

func decodeYAMLManifests(raw []byte) ([]domain.Manifest, error) {
	var manifests []domain.Manifest
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&manifests); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return manifests, nil
}

func decodeJSONManifests(raw []byte) ([]domain.Manifest, error) {
	var manifests []domain.Manifest
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&manifests); err != nil {
		return nil, err
	}
	return manifests, nil
}
