package ui

import (
	"sort"

	"github.com/charmbracelet/lipgloss"

	"github.com/franklinbaldo/aleph-the-game/internal/engine"
)

type palette struct {
	Background lipgloss.Color
	Surface    lipgloss.Color
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Border     lipgloss.Color
	Warning    lipgloss.Color
	Narrator   lipgloss.Color
	Antagonist lipgloss.Color
	System     lipgloss.Color
	Player     lipgloss.Color
	BarFill    lipgloss.Color
	BarEmpty   lipgloss.Color
}

var palettes = map[string]palette{
	"phosphor": {
		Background: lipgloss.Color("#0b0f0b"),
		Surface:    lipgloss.Color("#14201a"),
		Text:       lipgloss.Color("#9ece6a"),
		Muted:      lipgloss.Color("#4f6b52"),
		Accent:     lipgloss.Color("#c3e88d"),
		Border:     lipgloss.Color("#2c4434"),
		Warning:    lipgloss.Color("#e0af68"),
		Narrator:   lipgloss.Color("#9ece6a"),
		Antagonist: lipgloss.Color("#f7768e"),
		System:     lipgloss.Color("#7dcfff"),
		Player:     lipgloss.Color("#c0caf5"),
		BarFill:    lipgloss.Color("#9ece6a"),
		BarEmpty:   lipgloss.Color("#1f2d25"),
	},
	"sepia": {
		Background: lipgloss.Color("#2b2218"),
		Surface:    lipgloss.Color("#3a2f21"),
		Text:       lipgloss.Color("#e8d8b8"),
		Muted:      lipgloss.Color("#9c8a6a"),
		Accent:     lipgloss.Color("#d4a94e"),
		Border:     lipgloss.Color("#5a4a33"),
		Warning:    lipgloss.Color("#cc6e3f"),
		Narrator:   lipgloss.Color("#e8d8b8"),
		Antagonist: lipgloss.Color("#cc6e3f"),
		System:     lipgloss.Color("#8fb573"),
		Player:     lipgloss.Color("#d4a94e"),
		BarFill:    lipgloss.Color("#d4a94e"),
		BarEmpty:   lipgloss.Color("#3a2f21"),
	},
	"midnight": {
		Background: lipgloss.Color("#16161e"),
		Surface:    lipgloss.Color("#1f1f2b"),
		Text:       lipgloss.Color("#c0caf5"),
		Muted:      lipgloss.Color("#565f89"),
		Accent:     lipgloss.Color("#bb9af7"),
		Border:     lipgloss.Color("#3b4261"),
		Warning:    lipgloss.Color("#e0af68"),
		Narrator:   lipgloss.Color("#c0caf5"),
		Antagonist: lipgloss.Color("#f7768e"),
		System:     lipgloss.Color("#7dcfff"),
		Player:     lipgloss.Color("#9ece6a"),
		BarFill:    lipgloss.Color("#bb9af7"),
		BarEmpty:   lipgloss.Color("#1f1f2b"),
	},
}

func paletteFor(name string) palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes["phosphor"]
}

func themeNames() []string {
	names := make([]string, 0, len(palettes))
	for k := range palettes {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func nextThemeName(current string) string {
	names := themeNames()
	if len(names) == 0 {
		return current
	}
	idx := 0
	for i, name := range names {
		if name == current {
			idx = i
			break
		}
	}
	return names[(idx+1)%len(names)]
}

func (p palette) senderColor(s engine.Sender) lipgloss.Color {
	switch s {
	case engine.SenderAntagonist:
		return p.Antagonist
	case engine.SenderSystem:
		return p.System
	case engine.SenderPlayer:
		return p.Player
	default:
		return p.Narrator
	}
}
