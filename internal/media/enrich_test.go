package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

type stubFetcher struct {
	illustration string
	ambient      string
	err          error
}

func (s *stubFetcher) Illustration(ctx context.Context, prompt string) (string, error) {
	return s.illustration, s.err
}
func (s *stubFetcher) Ambient(ctx context.Context, prompt string) (string, error) {
	return s.ambient, s.err
}
func (s *stubFetcher) Speech(ctx context.Context, text string, sender engine.Sender, tone string) (string, error) {
	return "", errors.New("not voiced")
}

func collectPatches(t *testing.T, e *Enricher, n int) []Patch {
	t.Helper()
	var out []Patch
	timeout := time.After(2 * time.Second)
	for len(out) < n {
		select {
		case p := <-e.Patches():
			out = append(out, p)
		case <-timeout:
			t.Fatalf("timed out waiting for patches, got %d want %d", len(out), n)
		}
	}
	return out
}

func TestEnricherDeliversPatches(t *testing.T) {
	e := NewEnricher(&stubFetcher{illustration: "img-ref", ambient: "snd-ref"}, 4)
	e.Enqueue(context.Background(), []engine.AssetRequest{
		{SegmentID: "seg-1", Kind: engine.AssetImage, Prompt: "the plaza"},
		{SegmentID: "seg-2", Kind: engine.AssetMusic, Prompt: "room tone"},
	})
	patches := collectPatches(t, e, 2)
	got := map[string]Patch{}
	for _, p := range patches {
		got[p.SegmentID] = p
	}
	if got["seg-1"].Ref != "img-ref" || got["seg-1"].Kind != engine.AssetImage {
		t.Fatalf("image patch wrong: %+v", got["seg-1"])
	}
	if got["seg-2"].Ref != "snd-ref" || got["seg-2"].Kind != engine.AssetMusic {
		t.Fatalf("music patch wrong: %+v", got["seg-2"])
	}
}

func TestEnricherDropsFailures(t *testing.T) {
	e := NewEnricher(&stubFetcher{err: errors.New("rate limited")}, 4)
	e.Enqueue(context.Background(), []engine.AssetRequest{
		{SegmentID: "seg-1", Kind: engine.AssetImage, Prompt: "x"},
	})
	select {
	case p := <-e.Patches():
		t.Fatalf("failed fetch must not produce a patch: %+v", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEnricherDropsEmptyRefs(t *testing.T) {
	e := NewEnricher(&stubFetcher{illustration: ""}, 4)
	e.Enqueue(context.Background(), []engine.AssetRequest{
		{SegmentID: "seg-1", Kind: engine.AssetImage, Prompt: "x"},
	})
	select {
	case p := <-e.Patches():
		t.Fatalf("empty ref must not produce a patch: %+v", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEnricherIgnoresUnknownKinds(t *testing.T) {
	e := NewEnricher(&stubFetcher{illustration: "img"}, 4)
	e.Enqueue(context.Background(), []engine.AssetRequest{
		{SegmentID: "seg-1", Kind: "hologram", Prompt: "x"},
	})
	select {
	case p := <-e.Patches():
		t.Fatalf("unknown kind must not produce a patch: %+v", p)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestEnqueueOnNilEnricherIsSafe(t *testing.T) {
	var e *Enricher
	e.Enqueue(context.Background(), []engine.AssetRequest{{SegmentID: "s", Kind: engine.AssetImage}})
}
