package out

import (
	"context"

	"blockgarden/internal/modules/assistant/domain"
)

type ManifestStore interface {
	Load(ctx context.Context) ([]domain.Manifest, error)
}

type Host interface {
	CheckLifecycle(ctx context.Context, manifest domain.Manifest) error
	Summarize(ctx context.Context, manifest domain.Manifest, req domain.SummaryRequest) (string, error)
	Tip(ctx context.Context, manifest domain.Manifest, req domain.TipRequest) (string, error)
}

// Credentials reports whether the text generator may be called at all.
type Credentials interface {
	Present() bool
}
