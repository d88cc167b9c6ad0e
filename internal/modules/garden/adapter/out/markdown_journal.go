package out

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"blockgarden/internal/modules/garden/domain"
	gardenout "blockgarden/internal/modules/garden/port/out"
	"blockgarden/internal/platform/markdown"
)

const journalSchemaVersion = 1

var harvestsBlock = markdown.Block{
	Start: "<!-- blockgarden:harvests:start -->",
	End:   "<!-- blockgarden:harvests:end -->",
}

// MarkdownJournal keeps one note per day under dir. Text outside the
// managed block belongs to the user and is preserved.
type MarkdownJournal struct {
	dir string
}

func NewMarkdownJournal(dir string) gardenout.Journal {
	return &MarkdownJournal{dir: dir}
}

func (j *MarkdownJournal) Record(_ context.Context, day time.Time, items []domain.GardenItem) (string, error) {
	if err := os.MkdirAll(j.dir, 0o755); err != nil {
		return "", fmt.Errorf("create journal dir: %w", err)
	}
	path := filepath.Join(j.dir, day.Format("2006-01-02")+".md")

	doc := markdown.Document{
		Meta: map[string]any{},
		Body: fmt.Sprintf("# Garden %s\n", day.Format("Monday, 2 January 2006")),
	}
	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		doc, err = markdown.Parse(string(raw))
		if err != nil {
			return "", fmt.Errorf("parse journal %s: %w", path, err)
		}
	case !errors.Is(err, os.ErrNotExist):
		return "", fmt.Errorf("read journal: %w", err)
	}

	plants, animals := 0, 0
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if item.Type == domain.EntityAnimal {
			animals++
		} else {
			plants++
		}
		lines = append(lines, fmt.Sprintf("- %s %s (%s)", item.CompletedTime().In(day.Location()).Format("15:04"), item.Name, item.Type))
	}
	doc.Meta["schema_version"] = journalSchemaVersion
	doc.Meta["date"] = day.Format("2006-01-02")
	doc.Meta["harvests"] = len(items)
	doc.Meta["plants"] = plants
	doc.Meta["animals"] = animals

	doc.Body = harvestsBlock.Replace(doc.Body, strings.Join(lines, "\n"))
	rendered, err := doc.Render()
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, []byte(rendered), 0o644); err != nil {
		return "", fmt.Errorf("write journal: %w", err)
	}
	return path, nil
}
