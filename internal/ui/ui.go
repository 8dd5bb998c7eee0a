package ui

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/franklinbaldo/aleph-the-game/internal/director"
	"github.com/franklinbaldo/aleph-the-game/internal/engine"
	"github.com/franklinbaldo/aleph-the-game/internal/media"
	"github.com/franklinbaldo/aleph-the-game/internal/store"
	"github.com/franklinbaldo/aleph-the-game/internal/util"
)

const (
	viewMainMenu   = "main_menu"
	viewStory      = "story"
	viewSettings   = "settings"
	viewHelp       = "help"
	viewTranscript = "transcript"
)

const revealInterval = 450 * time.Millisecond

var languages = []string{"English", "Spanish", "Portuguese"}

// turnMsg carries one finished generation round trip.
type turnMsg struct {
	reply engine.TurnReply
	err   error
}

// patchMsg is one resolved asset forwarded from the enricher channel.
type patchMsg media.Patch

type revealMsg struct{}

type model struct {
	ctx      context.Context
	session  *engine.Session
	director director.Director
	enricher *media.Enricher
	speaker  media.Fetcher
	cfg      util.Config

	// persistence is best effort; the game runs fine with db == nil
	db       *store.DB
	runID    uuid.UUID
	archived int

	view      string
	theme     string
	language  string
	narration bool

	// shown counts transcript segments fully revealed; everything past it is
	// pending reveal pacing. Reveal state never touches the session.
	shown int

	toasts       []string
	customInput  string
	exportStatus string

	width, height    int
	scrollOffset     int
	maxScroll        int
	transcriptScroll int
}

func initialModel(ctx context.Context, db *store.DB, d director.Director, enr *media.Enricher, speaker media.Fetcher, cfg util.Config) model {
	m := model{
		ctx:      ctx,
		director: d,
		enricher: enr,
		speaker:  speaker,
		cfg:      cfg,
		db:       db,
		view:     viewMainMenu,
		theme:    "phosphor",
		language: cfg.Language,
	}
	if m.language == "" {
		m.language = "English"
	}
	m.narration = cfg.TTSEnabled
	if db != nil {
		if lang, narration, err := store.NewSettingsRepo(db).Get(ctx); err == nil {
			m.language = lang
			m.narration = narration
		}
	}
	return m
}

func (m model) Init() tea.Cmd {
	if m.enricher != nil {
		return waitForPatch(m.enricher.Patches())
	}
	return nil
}

func waitForPatch(ch <-chan media.Patch) tea.Cmd {
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return patchMsg(p)
	}
}

func revealTick() tea.Cmd {
	return tea.Tick(revealInterval, func(time.Time) tea.Msg { return revealMsg{} })
}

// startSession seeds a fresh playthrough and begins revealing the intro.
func (m *model) startSession() tea.Cmd {
	m.session = engine.NewSession()
	m.shown = 0
	m.toasts = nil
	m.customInput = ""
	m.exportStatus = ""
	m.scrollOffset = 0
	m.archived = 0
	m.runID = uuid.Nil
	if m.db != nil {
		if run, err := store.NewRunRepo(m.db).Create(m.ctx, m.language); err == nil {
			m.runID = run.ID
		}
	}
	m.archiveNew()
	m.view = viewStory
	return revealTick()
}

// submit arms the turn gate and dispatches the generation round trip.
func (m *model) submit(action string, sentiment engine.Sentiment) tea.Cmd {
	req, ok := m.session.BeginTurn(action, sentiment)
	if !ok {
		return nil
	}
	m.toasts = nil
	ctx, d, lang := m.ctx, m.director, m.language
	call := func() tea.Msg {
		reply, err := d.NextTurn(ctx, director.Request{Turn: req, Language: lang})
		return turnMsg{reply: reply, err: err}
	}
	// reveal the player's own segment while the reply is pending
	return tea.Batch(call, revealTick())
}

// archiveNew persists any transcript segments not yet written. Failures are
// swallowed; the archive is a convenience, not a dependency.
func (m *model) archiveNew() {
	if m.db == nil || m.runID == uuid.Nil || m.session == nil {
		return
	}
	segs := m.session.Transcript[m.archived:]
	if len(segs) == 0 {
		return
	}
	repo := store.NewSegmentRepo(m.db)
	if err := repo.BulkInsert(m.ctx, m.db, m.runID, m.archived, segs); err == nil {
		m.archived = len(m.session.Transcript)
	}
	_ = store.NewRunRepo(m.db).UpdateProgress(m.ctx, m.runID, m.session.Obsession, m.session.VisitCount, m.session.GameOver)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case revealMsg:
		if m.session == nil || m.shown >= len(m.session.Transcript) {
			return m, nil
		}
		seg := m.session.Transcript[m.shown]
		m.shown++
		m.scrollOffset = 1 << 30 // follow the tail while revealing
		var cmds []tea.Cmd
		if m.shown < len(m.session.Transcript) {
			cmds = append(cmds, revealTick())
		}
		if m.narration && m.speaker != nil {
			m.speakAsync(seg)
		}
		return m, tea.Batch(cmds...)
	case turnMsg:
		if m.session == nil {
			return m, nil
		}
		if msg.err != nil {
			m.session.AbortTurn()
			m.toasts = []string{"The vision slips away. Try again."}
			return m, nil
		}
		outcome := m.session.FinishTurn(msg.reply)
		m.toasts = outcome.Notices
		if m.enricher != nil {
			m.enricher.Enqueue(m.ctx, outcome.AssetRequests)
		}
		m.archiveNew()
		return m, revealTick()
	case patchMsg:
		if m.session != nil {
			m.session.ApplyAssetPatch(msg.SegmentID, msg.Kind, msg.Ref)
		}
		if m.enricher != nil {
			return m, waitForPatch(m.enricher.Patches())
		}
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m model) handleKey(k string) (tea.Model, tea.Cmd) {
	if k == "ctrl+c" {
		return m, tea.Quit
	}
	switch m.view {
	case viewMainMenu:
		switch k {
		case "1":
			cmd := m.startSession()
			return m, cmd
		case "2":
			m.view = viewSettings
		case "3":
			m.view = viewHelp
		case "q":
			return m, tea.Quit
		}
		return m, nil
	case viewSettings:
		switch k {
		case "g":
			m.cycleLanguage()
		case "n":
			m.toggleNarration()
		case "t":
			m.theme = nextThemeName(m.theme)
		case "esc", "q":
			if m.session != nil {
				m.view = viewStory
			} else {
				m.view = viewMainMenu
			}
		}
		return m, nil
	case viewHelp:
		if k == "esc" || k == "q" {
			if m.session != nil {
				m.view = viewStory
			} else {
				m.view = viewMainMenu
			}
		}
		return m, nil
	case viewTranscript:
		switch k {
		case "down", "j":
			m.transcriptScroll += 3
		case "up", "k":
			m.transcriptScroll -= 3
		case "pgdown":
			m.transcriptScroll += 12
		case "pgup":
			m.transcriptScroll -= 12
		case "home":
			m.transcriptScroll = 0
		case "esc", "q":
			m.view = viewStory
		}
		if m.transcriptScroll < 0 {
			m.transcriptScroll = 0
		}
		return m, nil
	case viewStory:
		return m.handleStoryKey(k)
	}
	return m, nil
}

func (m model) handleStoryKey(k string) (tea.Model, tea.Cmd) {
	if m.session == nil {
		m.view = viewMainMenu
		return m, nil
	}
	switch k {
	case "esc":
		m.view = viewMainMenu
		return m, nil
	case "tab":
		// skip the reveal pacing, never the content
		m.shown = len(m.session.Transcript)
		return m, nil
	case "ctrl+e":
		m.exportTranscript()
		return m, nil
	case "ctrl+t":
		m.transcriptScroll = 0
		m.view = viewTranscript
		return m, nil
	case "ctrl+s":
		m.view = viewSettings
		return m, nil
	case "enter":
		text := strings.TrimSpace(m.customInput)
		if text == "" || !m.choicesReady() {
			return m, nil
		}
		m.customInput = ""
		cmd := m.submit(text, engine.SentimentIntellectual)
		return m, cmd
	case "backspace":
		if len(m.customInput) > 0 {
			m.customInput = m.customInput[:len(m.customInput)-1]
		}
		return m, nil
	case "pgdown", "ctrl+f":
		m.scrollOffset += 8
		return m, nil
	case "pgup", "ctrl+b":
		m.scrollOffset -= 8
		return m, nil
	case "home":
		m.scrollOffset = 0
		return m, nil
	case "end":
		m.scrollOffset = m.maxScroll
		return m, nil
	}
	if len(k) == 1 && k[0] >= '1' && k[0] <= '9' && m.customInput == "" && m.choicesReady() {
		idx := int(k[0] - '1')
		if idx < len(m.session.Choices) {
			c := m.session.Choices[idx]
			cmd := m.submit(c.Text, c.Sentiment)
			return m, cmd
		}
		return m, nil
	}
	if isRuneInput(k) && m.choicesReady() {
		m.customInput += k
	} else if k == "space" && m.choicesReady() {
		m.customInput += " "
	}
	return m, nil
}

// choicesReady reports whether the player may act right now.
func (m *model) choicesReady() bool {
	s := m.session
	return s != nil && !s.GameOver && !s.TurnInFlight && m.shown >= len(s.Transcript)
}

func (m *model) cycleLanguage() {
	idx := 0
	for i, l := range languages {
		if l == m.language {
			idx = i
			break
		}
	}
	m.language = languages[(idx+1)%len(languages)]
	if m.db != nil {
		_ = store.NewSettingsRepo(m.db).Upsert(m.ctx, m.language, m.narration)
	}
}

func (m *model) toggleNarration() {
	m.narration = !m.narration
	if m.db != nil {
		_ = store.NewSettingsRepo(m.db).Upsert(m.ctx, m.language, m.narration)
	}
}

// speakAsync voices one revealed segment in the background. The result lands
// on disk; playback is left to the player's tooling.
func (m *model) speakAsync(seg engine.StorySegment) {
	if seg.Sender != engine.SenderNarrator && seg.Sender != engine.SenderAntagonist {
		return
	}
	ctx, speaker := m.ctx, m.speaker
	go func() {
		ref, err := speaker.Speech(ctx, strings.Join(seg.Lines, "\n"), seg.Sender, seg.Tone)
		if err != nil {
			return
		}
		_ = saveNarration(seg.ID, ref)
	}()
}

func saveNarration(segmentID, ref string) error {
	const prefix = "data:audio/mpeg;base64,"
	if !strings.HasPrefix(ref, prefix) {
		return fmt.Errorf("unexpected audio ref")
	}
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(ref, prefix))
	if err != nil {
		return err
	}
	dir := filepath.Join(os.Getenv("HOME"), ".aleph", "narration")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, segmentID+".mp3"), raw, 0o600)
}

func (m *model) exportTranscript() {
	if m.session == nil {
		m.exportStatus = "no-session"
		return
	}
	doc := engine.ExportTranscript(m.session.Transcript, m.session.Obsession)
	dir := filepath.Join(os.Getenv("HOME"), ".aleph", "exports")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		m.exportStatus = "err-mkdir"
		return
	}
	name := fmt.Sprintf("transcript_%s.md", time.Now().Format("20060102_150405"))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		m.exportStatus = "err-write"
		return
	}
	m.exportStatus = path
}

// Rendering ------------------------------------------------------------------

func (m model) View() string {
	switch m.view {
	case viewMainMenu:
		return m.renderMainMenu()
	case viewSettings:
		return m.renderSettings()
	case viewHelp:
		return m.renderHelp()
	case viewTranscript:
		return m.renderTranscript()
	default:
		return m.renderStoryLayout()
	}
}

func (m *model) renderMainMenu() string {
	p := paletteFor(m.theme)
	box := lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(p.Border).Padding(1, 2).Width(52)
	content := "THE ALEPH: INFINITE BORGES\n\n[1] New Session\n[2] Settings\n[3] Help\n\nQ Quit"
	return box.Render(content)
}

func (m *model) renderSettings() string {
	narration := "off"
	if m.narration {
		narration = "on"
	}
	return fmt.Sprintf("SETTINGS\n\nLanguage: %s (g cycle)\nNarration: %s (n toggle)\nTheme: %s (t cycle)\n\nEsc back\n",
		m.language, narration, m.theme)
}

func (m *model) renderHelp() string {
	return "HELP\n\nYou are Borges, mourning Beatriz Viterbo. Every year, on her birthday,\n" +
		"you return to her house on Calle Garay. Keep the obsession alive or the\n" +
		"story ends.\n\nControls: 1-9 choose a response | type + Enter for your own words |\n" +
		"Tab skip reveal | Ctrl+E export | Ctrl+T full transcript | Ctrl+S settings |\n" +
		"Esc menu | Ctrl+C quit.\n\nEsc returns.\n"
}

func (m *model) renderTranscript() string {
	doc := engine.ExportTranscript(m.session.Transcript, m.session.Obsession)
	renderer, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(m.contentWidth()))
	rendered := doc
	if err == nil {
		if out, rerr := renderer.Render(doc); rerr == nil {
			rendered = out
		}
	}
	lines := strings.Split(rendered, "\n")
	h := m.height
	if h <= 0 {
		h = 30
	}
	avail := h - 2
	if avail < 1 {
		avail = len(lines)
	}
	start := m.transcriptScroll
	if start > len(lines)-avail {
		start = len(lines) - avail
	}
	if start < 0 {
		start = 0
	}
	end := start + avail
	if end > len(lines) {
		end = len(lines)
	}
	return "TRANSCRIPT (Up/Down, PgUp/PgDn, Esc back)\n" + strings.Join(lines[start:end], "\n")
}

func (m *model) contentWidth() int {
	w := m.width
	if w <= 0 {
		w = 100
	}
	return w - 34
}

func (m *model) renderStoryLayout() string {
	w := m.width
	if w <= 0 {
		w = 100
	}
	sidebarWidth := 30
	if w < 90 {
		sidebarWidth = 24
	}
	mainWidth := w - sidebarWidth - 1

	top := m.renderTopBar()
	mainRaw := m.buildStory()
	lines := strings.Split(mainRaw, "\n")
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
	if m.scrollOffset > len(lines) {
		m.scrollOffset = len(lines)
	}
	viewLines := lines
	availHeight := m.height - 4
	if availHeight > 5 && len(lines) > availHeight {
		if m.scrollOffset+availHeight > len(lines) {
			m.scrollOffset = len(lines) - availHeight
		}
		viewLines = lines[m.scrollOffset : m.scrollOffset+availHeight]
		m.maxScroll = len(lines) - availHeight
	}
	p := paletteFor(m.theme)
	main := lipgloss.NewStyle().Width(mainWidth).Render(strings.Join(viewLines, "\n"))
	side := lipgloss.NewStyle().Width(sidebarWidth).Border(lipgloss.NormalBorder()).BorderForeground(p.Border).Padding(0, 1).Render(m.buildSidebar())
	body := lipgloss.JoinHorizontal(lipgloss.Top, main, side)
	bottom := m.renderBottomBar()
	return lipgloss.JoinVertical(lipgloss.Left, top, body, bottom)
}

func (m *model) renderTopBar() string {
	p := paletteFor(m.theme)
	s := m.session
	left := strings.Join([]string{
		"THE ALEPH",
		engine.VisibleTimestamp(s.Transcript, m.shown),
		fmt.Sprintf("Visits %d/%d", s.VisitCount, engine.VisitTarget),
	}, " • ")
	right := fmt.Sprintf("Obsession %s %d%%", bar(s.Obsession, p), s.Obsession)
	w := m.width
	if w <= 0 {
		w = 100
	}
	gap := w - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Render(left+strings.Repeat(" ", gap)) + right
}

func (m *model) renderBottomBar() string {
	p := paletteFor(m.theme)
	left := "[1-9] respond  [Enter] commit custom  [Tab] skip reveal  [Ctrl+E] export  [Ctrl+T] transcript  [Ctrl+S] settings  [Esc] menu"
	custom := "You> " + m.customInput
	if !m.choicesReady() {
		custom = "You> (wait)"
	}
	extra := ""
	if len(m.toasts) > 0 {
		extra = "  " + lipgloss.NewStyle().Foreground(p.Warning).Render(strings.Join(m.toasts, "  "))
	}
	if m.exportStatus != "" {
		extra += "  export:" + m.exportStatus
	}
	return lipgloss.NewStyle().Foreground(p.Muted).Render(left) + "\n" + custom + extra
}

func (m *model) buildStory() string {
	p := paletteFor(m.theme)
	s := m.session
	var b strings.Builder
	shown := m.shown
	if shown > len(s.Transcript) {
		shown = len(s.Transcript)
	}
	for _, seg := range s.Transcript[:shown] {
		style := lipgloss.NewStyle().Foreground(p.senderColor(seg.Sender))
		stamp := lipgloss.NewStyle().Foreground(p.Muted).Render("[" + seg.Timestamp + "]")
		switch seg.Sender {
		case engine.SenderAntagonist:
			b.WriteString(stamp + " " + style.Bold(true).Render("CARLOS ARGENTINO DANERI") + "\n")
		case engine.SenderSystem:
			b.WriteString(stamp + " " + style.Render("[SYSTEM]") + "\n")
		default:
			b.WriteString(stamp + "\n")
		}
		for _, line := range seg.Lines {
			b.WriteString(style.Render(line) + "\n")
		}
		if seg.ImageRef != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(p.Muted).Render("❖ illustration resolved") + "\n")
		}
		if seg.MusicRef != "" {
			b.WriteString(lipgloss.NewStyle().Foreground(p.Muted).Render("♪ ambience resolved") + "\n")
		}
		b.WriteString("\n")
	}
	if shown < len(s.Transcript) {
		b.WriteString(lipgloss.NewStyle().Foreground(p.Muted).Render("...") + "\n")
		return b.String()
	}
	if s.TurnInFlight {
		b.WriteString(lipgloss.NewStyle().Foreground(p.Muted).Italic(true).Render("the universe rearranges itself...") + "\n")
		return b.String()
	}
	if s.GameOver {
		b.WriteString(lipgloss.NewStyle().Foreground(p.Warning).Bold(true).Render("THE SESSION HAS ENDED") + "\n")
		b.WriteString(lipgloss.NewStyle().Foreground(p.Muted).Render("Ctrl+E export transcript  Esc menu") + "\n")
		return b.String()
	}
	for i, c := range s.Choices {
		b.WriteString(fmt.Sprintf("[%d] %s\n", i+1, c.Text))
	}
	return b.String()
}

func (m *model) buildSidebar() string {
	p := paletteFor(m.theme)
	s := m.session
	var b strings.Builder
	b.WriteString("OBSESSION\n")
	b.WriteString(fmt.Sprintf("%s %d%%\n\n", bar(s.Obsession, p), s.Obsession))
	b.WriteString(fmt.Sprintf("VISITS %d/%d\n\n", s.VisitCount, engine.VisitTarget))
	b.WriteString("OBJECTIVES\n")
	current, hasCurrent := s.Ledger.FirstIncomplete()
	for _, o := range s.Ledger {
		mark := "[ ]"
		if o.Completed {
			mark = "[x]"
		}
		line := mark + " " + o.Label
		if hasCurrent && o.ID == current.ID {
			line = lipgloss.NewStyle().Foreground(p.Accent).Render(line)
		} else if o.Completed {
			line = lipgloss.NewStyle().Foreground(p.Muted).Render(line)
		}
		b.WriteString(line + "\n")
	}
	b.WriteString(fmt.Sprintf("\n%d/%d complete\n", s.Ledger.CompletedCount(), len(s.Ledger)))
	return b.String()
}

func bar(v int, p palette) string {
	width := 10
	fill := int((float64(v)/100.0)*float64(width) + 0.5)
	if fill > width {
		fill = width
	}
	if fill < 0 {
		fill = 0
	}
	filled := lipgloss.NewStyle().Foreground(p.BarFill).Render(strings.Repeat("█", fill))
	empty := lipgloss.NewStyle().Foreground(p.BarEmpty).Render(strings.Repeat("·", width-fill))
	return filled + empty
}

func isRuneInput(s string) bool {
	runes := []rune(s)
	return len(runes) == 1 && runes[0] >= 32 && runes[0] < 127
}
