package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/franklinbaldo/aleph-the-game/internal/director"
	"github.com/franklinbaldo/aleph-the-game/internal/media"
	"github.com/franklinbaldo/aleph-the-game/internal/store"
	"github.com/franklinbaldo/aleph-the-game/internal/util"
)

// Run boots the TUI program and blocks until it exits.
func Run(ctx context.Context, db *store.DB, d director.Director, enr *media.Enricher, speaker media.Fetcher, cfg util.Config) error {
	m := initialModel(ctx, db, d, enr, speaker, cfg)
	program := tea.NewProgram(m, tea.WithContext(ctx))
	_, err := program.Run()
	return err
}
