package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"blockgarden/internal/modules/assistant/domain"
	"blockgarden/internal/modules/assistant/dto"
	assistantout "blockgarden/internal/modules/assistant/port/out"

	hclog "github.com/hashicorp/go-hclog"
)

// AssistantService turns session activity into short text through an
// out-of-process generator. Every failure degrades to a fixed reply.
type AssistantService struct {
	store       assistantout.ManifestStore
	host        assistantout.Host
	credentials assistantout.Credentials
	pluginName  string
	language    string
	logger      hclog.Logger
}

type Options struct {
	PluginName string
	Language   string
}

func NewAssistantService(store assistantout.ManifestStore, host assistantout.Host, credentials assistantout.Credentials, opts Options, logger hclog.Logger) *AssistantService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if opts.Language == "" {
		opts.Language = "en"
	}
	return &AssistantService{
		store:       store,
		host:        host,
		credentials: credentials,
		pluginName:  opts.PluginName,
		language:    opts.Language,
		logger:      logger.Named("assistant"),
	}
}

// Summarize returns the summary text and whether it is a fallback reply.
func (s *AssistantService) Summarize(ctx context.Context, snippets []string, language string) (string, bool) {
	if !s.credentialPresent() {
		return domain.FallbackMissingCredential, true
	}
	prepared := domain.PrepareSnippets(snippets)
	if len(prepared) == 0 {
		return domain.FallbackNoActivity, true
	}
	manifest, err := s.runnable(ctx, domain.CapabilitySummarize)
	if err != nil {
		s.logger.Warn("summarize unavailable", "plugin", s.pluginName, "error", err)
		return domain.FallbackSummaryError, true
	}
	text, err := s.host.Summarize(ctx, manifest, domain.SummaryRequest{Snippets: prepared, Language: s.pick(language)})
	if err != nil {
		s.logger.Warn("summarize failed", "plugin", s.pluginName, "error", err)
		return domain.FallbackSummaryError, true
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.FallbackEmptySummary, true
	}
	return text, false
}

// Tip returns a one-line encouragement for the given growth stage.
func (s *AssistantService) Tip(ctx context.Context, stage int, stageName string) (string, bool) {
	if !s.credentialPresent() {
		return domain.FallbackTipMissing, true
	}
	manifest, err := s.runnable(ctx, domain.CapabilityTip)
	if err != nil {
		s.logger.Warn("tip unavailable", "plugin", s.pluginName, "error", err)
		return domain.FallbackTipError, true
	}
	text, err := s.host.Tip(ctx, manifest, domain.TipRequest{Stage: stage, StageName: stageName, Language: s.language})
	if err != nil {
		s.logger.Warn("tip failed", "plugin", s.pluginName, "stage", stage, "error", err)
		return domain.FallbackTipError, true
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.FallbackTipError, true
	}
	return text, false
}

func (s *AssistantService) Doctor(ctx context.Context) ([]dto.DoctorResult, error) {
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	results := make([]dto.DoctorResult, 0, len(manifests))
	for _, m := range manifests {
		result := dto.DoctorResult{Name: m.Name, Selected: m.Name == s.pluginName}
		if err := m.Validate(); err != nil {
			result.Error = err.Error()
			results = append(results, result)
			continue
		}
		result.BinaryReachable = fileExists(m.Binary)
		if !result.BinaryReachable {
			result.Error = fmt.Sprintf("binary does not exist: %s", m.Binary)
			results = append(results, result)
			continue
		}
		result.ChecksumValid = checksumMatches(m.Binary, m.SHA256) == nil
		if !result.ChecksumValid {
			result.Error = "checksum mismatch"
			results = append(results, result)
			continue
		}
		if m.Enabled && s.host != nil {
			if err := s.host.CheckLifecycle(ctx, m); err != nil {
				result.Error = err.Error()
			} else {
				result.LifecycleOK = true
			}
		}
		results = append(results, result)
	}
	return results, nil
}

func (s *AssistantService) credentialPresent() bool {
	return s.credentials != nil && s.credentials.Present()
}

func (s *AssistantService) pick(language string) string {
	if strings.TrimSpace(language) == "" {
		return s.language
	}
	return language
}

func (s *AssistantService) runnable(ctx context.Context, capability domain.Capability) (domain.Manifest, error) {
	if s.store == nil || s.host == nil {
		return domain.Manifest{}, domain.ErrPluginNotFound
	}
	manifests, err := s.store.Load(ctx)
	if err != nil {
		return domain.Manifest{}, err
	}
	for _, m := range manifests {
		if m.Name != s.pluginName {
			continue
		}
		if err := m.Validate(); err != nil {
			return domain.Manifest{}, err
		}
		if !m.Enabled {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginDisabled, m.Name)
		}
		if !m.HasCapability(capability) {
			return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrCapabilityMissing, capability)
		}
		if err := checksumMatches(m.Binary, m.SHA256); err != nil {
			return domain.Manifest{}, err
		}
		return m, nil
	}
	return domain.Manifest{}, fmt.Errorf("%w: %s", domain.ErrPluginNotFound, s.pluginName)
}

func checksumMatches(path string, expected string) error {
	payload, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read plugin binary: %w", err)
	}
	hash := sha256.Sum256(payload)
	if hex.EncodeToString(hash[:]) != expected {
		return fmt.Errorf("%w: %s", domain.ErrChecksumMismatch, filepath.Base(path))
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
