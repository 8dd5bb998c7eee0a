package ui

import (
	"testing"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

func TestChoicesReadyGatedByReveal(t *testing.T) {
	m := model{session: engine.NewSession()}
	if m.choicesReady() {
		t.Fatalf("choices must stay hidden until the transcript is revealed")
	}
	m.shown = len(m.session.Transcript)
	if !m.choicesReady() {
		t.Fatalf("revealed idle session should accept input")
	}
	m.session.TurnInFlight = true
	if m.choicesReady() {
		t.Fatalf("in-flight turn should block input")
	}
	m.session.TurnInFlight = false
	m.session.GameOver = true
	if m.choicesReady() {
		t.Fatalf("finished session should block input")
	}
}

func TestRevealSkipsOnlyPacing(t *testing.T) {
	m := model{session: engine.NewSession()}
	before := len(m.session.Transcript)
	m.shown = len(m.session.Transcript)
	if len(m.session.Transcript) != before {
		t.Fatalf("reveal state must never touch the session")
	}
}
