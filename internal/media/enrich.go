package media

import (
	"context"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

// Enricher fans asset requests out to the fetcher and funnels resolved
// patches back over a channel. Fetches for one turn may still be in flight
// when the next turn begins; that is fine, because patches only ever touch
// already-appended segments by id.
type Enricher struct {
	fetcher Fetcher
	patches chan Patch
}

func NewEnricher(fetcher Fetcher, buffer int) *Enricher {
	if buffer <= 0 {
		buffer = 16
	}
	return &Enricher{fetcher: fetcher, patches: make(chan Patch, buffer)}
}

// Patches is the stream of resolved assets.
func (e *Enricher) Patches() <-chan Patch { return e.patches }

// Enqueue starts one independent fetch per request. Failures and empty
// results are dropped silently; nothing here blocks the turn cycle.
func (e *Enricher) Enqueue(ctx context.Context, reqs []engine.AssetRequest) {
	if e == nil || e.fetcher == nil {
		return
	}
	for _, req := range reqs {
		go e.fetch(ctx, req)
	}
}

func (e *Enricher) fetch(ctx context.Context, req engine.AssetRequest) {
	var (
		ref string
		err error
	)
	switch req.Kind {
	case engine.AssetImage:
		ref, err = e.fetcher.Illustration(ctx, req.Prompt)
	case engine.AssetMusic:
		ref, err = e.fetcher.Ambient(ctx, req.Prompt)
	default:
		return
	}
	if err != nil || ref == "" {
		return
	}
	select {
	case e.patches <- Patch{SegmentID: req.SegmentID, Kind: req.Kind, Ref: ref}:
	case <-ctx.Done():
	}
}
