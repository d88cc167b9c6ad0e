// Package markdown edits notes that mix YAML frontmatter, user text and
// generated blocks.
package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

const fence = "---\n"

// Document is a note split into its frontmatter and body.
type Document struct {
	Meta map[string]any
	Body string
}

// Parse splits content. Content without a leading fence is all body.
func Parse(content string) (Document, error) {
	if !strings.HasPrefix(content, fence) {
		return Document{Meta: map[string]any{}, Body: content}, nil
	}
	rest := strings.TrimPrefix(content, fence)
	idx := strings.Index(rest, "\n"+fence)
	if idx < 0 {
		return Document{}, fmt.Errorf("frontmatter is not closed")
	}
	meta := map[string]any{}
	if err := yaml.Unmarshal([]byte(rest[:idx]), &meta); err != nil {
		return Document{}, fmt.Errorf("decode frontmatter: %w", err)
	}
	return Document{Meta: meta, Body: rest[idx+1+len(fence):]}, nil
}

func (d Document) Render() (string, error) {
	var buf bytes.Buffer
	if len(d.Meta) > 0 {
		raw, err := yaml.Marshal(d.Meta)
		if err != nil {
			return "", fmt.Errorf("encode frontmatter: %w", err)
		}
		buf.WriteString(fence)
		buf.Write(raw)
		buf.WriteString(fence)
		if !strings.HasPrefix(d.Body, "\n") {
			buf.WriteByte('\n')
		}
	}
	buf.WriteString(d.Body)
	return buf.String(), nil
}

// Block is a generated region delimited by two marker lines.
type Block struct {
	Start string
	End   string
}

// Replace swaps the region's content, appending the region when absent.
func (b Block) Replace(body, generated string) string {
	region := b.Start + "\n" + generated + "\n" + b.End
	if start, end, ok := b.bounds(body); ok {
		return body[:start] + region + body[end:]
	}
	switch {
	case strings.TrimSpace(body) == "":
		return region + "\n"
	case strings.HasSuffix(body, "\n"):
		return body + "\n" + region + "\n"
	default:
		return body + "\n\n" + region + "\n"
	}
}

// Extract returns the region's content without the markers.
func (b Block) Extract(body string) (string, bool) {
	start, end, ok := b.bounds(body)
	if !ok {
		return "", false
	}
	inner := body[start+len(b.Start) : end-len(b.End)]
	return strings.Trim(inner, "\n"), true
}

func (b Block) bounds(body string) (int, int, bool) {
	start := strings.Index(body, b.Start)
	if start < 0 {
		return 0, 0, false
	}
	end := strings.Index(body[start:], b.End)
	if end < 0 {
		return 0, 0, false
	}
	return start, start + end + len(b.End), true
}
