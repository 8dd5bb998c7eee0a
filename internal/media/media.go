// Package media resolves the optional assets narrative segments ask for:
// illustrations, ambient sound, and speech. Fetches run after the transcript
// has already been published; results arrive as patches keyed by segment id
// and a failed fetch simply leaves the segment without its asset.
package media

import (
	"context"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

// Fetcher turns short natural-language prompts into opaque asset handles.
// Implementations must treat every failure as ordinary: the caller drops the
// asset and moves on.
type Fetcher interface {
	Illustration(ctx context.Context, prompt string) (string, error)
	Ambient(ctx context.Context, prompt string) (string, error)
	// Speech never affects game state; it exists for the narration toggle.
	Speech(ctx context.Context, text string, sender engine.Sender, tone string) (string, error)
}

// Patch carries one resolved asset back toward the session.
type Patch struct {
	SegmentID string
	Kind      engine.AssetKind
	Ref       string
}
