package director

import (
	"context"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

// WithFallback chains a primary director with exactly one fallback. Any
// primary failure (network, malformed output, schema violation) triggers the
// fallback; if both fail the fixed degraded reply is returned with a nil
// error, so the turn cycle always terminates in a renderable state.
func WithFallback(primary, fallback Director) Director {
	return &fallbackDirector{p: primary, f: fallback}
}

type fallbackDirector struct{ p, f Director }

func (d *fallbackDirector) NextTurn(ctx context.Context, req Request) (engine.TurnReply, error) {
	if d.p != nil {
		if reply, err := d.p.NextTurn(ctx, req); err == nil {
			return reply, nil
		}
	}
	if d.f != nil {
		if reply, err := d.f.NextTurn(ctx, req); err == nil {
			return reply, nil
		}
	}
	return Degraded(), nil
}
