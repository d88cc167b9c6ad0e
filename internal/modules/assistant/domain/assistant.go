package domain

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Fixed replies used whenever the text generator cannot answer.
const (
	FallbackMissingCredential = "API Key Missing: Cannot summarize."
	FallbackNoActivity        = "No activity detected."
	FallbackEmptySummary      = "Could not generate summary."
	FallbackSummaryError      = "Error generating summary."
	FallbackTipMissing        = "Keep focusing to grow your garden!"
	FallbackTipError          = "Stay focused and grow!"
)

const (
	MaxSnippets     = 15
	MaxSnippetRunes = 60
)

type Capability string

const (
	CapabilitySummarize Capability = "summarize"
	CapabilityTip       Capability = "tip"
)

var (
	ErrPluginNotFound    = errors.New("assistant plugin not found")
	ErrPluginDisabled    = errors.New("assistant plugin is disabled")
	ErrChecksumMismatch  = errors.New("assistant plugin checksum mismatch")
	ErrCapabilityMissing = errors.New("assistant plugin capability missing")
	ErrPluginTimeout     = errors.New("assistant plugin timeout")
)

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

type Manifest struct {
	Name         string       `json:"name" yaml:"name"`
	Version      string       `json:"version" yaml:"version"`
	Binary       string       `json:"binary" yaml:"binary"`
	SHA256       string       `json:"sha256" yaml:"sha256"`
	Enabled      bool         `json:"enabled" yaml:"enabled"`
	Capabilities []Capability `json:"capabilities" yaml:"capabilities"`
}

func (m Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("plugin name is required")
	}
	if m.Version == "" {
		return fmt.Errorf("plugin version is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("plugin binary path is required")
	}
	if !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("plugin sha256 must be lowercase 64-char hex")
	}
	if len(m.Capabilities) == 0 {
		return fmt.Errorf("plugin capabilities are required")
	}
	seen := map[Capability]struct{}{}
	for _, c := range m.Capabilities {
		if c != CapabilitySummarize && c != CapabilityTip {
			return fmt.Errorf("unknown capability: %s", c)
		}
		if _, ok := seen[c]; ok {
			return fmt.Errorf("duplicate capability: %s", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

func (m Manifest) HasCapability(capability Capability) bool {
	for _, c := range m.Capabilities {
		if c == capability {
			return true
		}
	}
	return false
}

type SummaryRequest struct {
	Snippets []string
	Language string
}

type TipRequest struct {
	Stage     int
	StageName string
	Language  string
}

// PrepareSnippets drops blank entries, truncates each to MaxSnippetRunes and
// keeps at most MaxSnippets.
func PrepareSnippets(snippets []string) []string {
	out := make([]string, 0, MaxSnippets)
	for _, s := range snippets {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if utf8.RuneCountInString(s) > MaxSnippetRunes {
			s = string([]rune(s)[:MaxSnippetRunes])
		}
		out = append(out, s)
		if len(out) == MaxSnippets {
			break
		}
	}
	return out
}
