// Package tui provides the interactive Bubble Tea dashboard for runway.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/tui/components"
	"github.com/runwayhq/runway/internal/tui/theme"
)

// Options configure the dashboard.
type Options struct {
	Source      pipeline.Source
	Scenario    string // name or id of the scenario shown first
	Today       model.Date
	HorizonDays int
	Threshold   float64
}

// DataLoadedMsg is sent when every scenario has been projected.
type DataLoadedMsg struct {
	Results  []pipeline.LoadResult
	ActiveID string
	LoadTime time.Duration
	Err      error
}

// ProgressMsg reports projection progress across scenarios.
type ProgressMsg struct {
	Current int
	Total   int
}

// RefreshDataMsg is sent when a background reload completes.
type RefreshDataMsg struct {
	Results  []pipeline.LoadResult
	LoadTime time.Duration
	Err      error
}

const (
	tabOverview = iota
	tabFlows
	tabSources
	tabScenarios
	tabSettings
)

// App is the root Bubble Tea model.
type App struct {
	opts Options

	// Data
	results  []pipeline.LoadResult
	active   int
	loaded   bool
	loadTime time.Duration
	loadErr  error

	// Pre-computed for the active scenario
	flowDays []flowRow
	weeks    []pipeline.PeriodStats
	sources  []pipeline.SourceTotal

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	flows      table.Model
	scenCursor int
	settings   settingsState

	// First-run setup (huh form)
	setupForm *huh.Form
	setupVals SetupValues
	needSetup bool

	// Loading: channel-based progress subscription
	spinner     spinner.Model
	progress    int
	progressMax int
	loadSub     chan tea.Msg
	refreshing  bool
}

const (
	minTerminalWidth = 80
	compactWidth     = 120
	maxContentWidth  = 180
	minContentHeight = 5
)

// loadConfigOrDefault loads config, returning defaults on error so the
// dashboard can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// loadFileConfigOrDefault is loadConfigOrDefault without environment
// overrides, for values that get written back with config.Save.
func loadFileConfigOrDefault() config.Config {
	cfg, err := config.LoadFile()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	if opts.HorizonDays <= 0 {
		opts.HorizonDays = config.DefaultConfig().General.HorizonDays
	}

	return App{
		opts:      opts,
		needSetup: !config.Exists(),
		flows:     newFlowsTable(),
		spinner:   sp,
		loadSub:   make(chan tea.Msg, 1),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnableMouseCellMotion,
		loadDataCmd(a.opts, a.loadSub),
		a.spinner.Tick,
	)
}

func (a App) pipelineOptions() pipeline.Options {
	return pipeline.Options{Today: a.opts.Today, HorizonDays: a.opts.HorizonDays}
}

// current returns the active scenario's projection, if any.
func (a App) current() (pipeline.LoadResult, bool) {
	if a.active < 0 || a.active >= len(a.results) {
		return pipeline.LoadResult{}, false
	}
	lr := a.results[a.active]
	return lr, lr.Err == nil
}

// recompute refreshes the derived views for the active scenario.
func (a *App) recompute() {
	lr, ok := a.current()
	if !ok {
		a.flowDays, a.weeks, a.sources = nil, nil, nil
		a.flows.SetRows(nil)
		return
	}

	a.flowDays = buildFlowRows(lr.Result)
	a.weeks = pipeline.Rollup(lr.Result, pipeline.PeriodWeek)
	a.sources = pipeline.BreakdownBySource(lr.Input)
	a.flows.SetRows(flowTableRows(a.flowDays, moneyWidth(a.contentWidth())))
	if a.flows.Cursor() >= len(a.flowDays) {
		a.flows.SetCursor(max(len(a.flowDays)-1, 0))
	}
}

// selectScenario makes the result with the given id active, keeping the
// current selection when it is not found.
func (a *App) selectScenario(id string) {
	for i, lr := range a.results {
		if lr.Data.Scenario.ID == id {
			a.active = i
			a.scenCursor = i
			return
		}
	}
	if a.active >= len(a.results) {
		a.active = 0
	}
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resizeFlows()
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.results = msg.Results
		a.loadErr = msg.Err
		a.loaded = true
		a.loadTime = msg.LoadTime
		a.selectScenario(msg.ActiveID)
		a.recompute()

		if a.needSetup {
			a.setupVals = SetupValuesFrom(loadFileConfigOrDefault())
			a.setupForm = NewSetupForm(&a.setupVals, false)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case ProgressMsg:
		a.progress = msg.Current
		a.progressMax = msg.Total
		return a, waitForLoadMsg(a.loadSub)

	case spinner.TickMsg:
		if !a.loaded || a.refreshing {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case RefreshDataMsg:
		a.refreshing = false
		a.loadErr = msg.Err
		if msg.Err == nil {
			activeID := ""
			if lr, ok := a.current(); ok {
				activeID = lr.Data.Scenario.ID
			}
			a.results = msg.Results
			a.loadTime = msg.LoadTime
			a.selectScenario(activeID)
			a.recompute()
		}
		return a, nil
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		switch a.activeTab {
		case tabFlows:
			a.flows.MoveUp(1)
		case tabScenarios:
			a.scenCursor = max(a.scenCursor-1, 0)
		}
	case tea.MouseButtonWheelDown:
		switch a.activeTab {
		case tabFlows:
			a.flows.MoveDown(1)
		case tabScenarios:
			a.scenCursor = min(a.scenCursor+1, max(len(a.results)-1, 0))
		}
	case tea.MouseButtonLeft:
		if msg.Action == tea.MouseActionPress && msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
	}
	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}
	if !a.loaded {
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if a.activeTab == tabSettings && a.settings.editing {
		return a.updateSettingsInput(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabFlows:
		switch key {
		case "j", "down", "k", "up", "g", "home", "G", "end", "ctrl+d", "ctrl+u", "pgdown", "pgup":
			var cmd tea.Cmd
			a.flows, cmd = a.flows.Update(msg)
			return a, cmd
		}
	case tabScenarios:
		switch key {
		case "j", "down":
			a.scenCursor = min(a.scenCursor+1, max(len(a.results)-1, 0))
			return a, nil
		case "k", "up":
			a.scenCursor = max(a.scenCursor-1, 0)
			return a, nil
		case "enter":
			if a.scenCursor < len(a.results) {
				a.active = a.scenCursor
				a.recompute()
				a.activeTab = tabOverview
			}
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			a.settings.cursor = min(a.settings.cursor+1, settingsFieldCount-1)
			return a, nil
		case "k", "up":
			a.settings.cursor = max(a.settings.cursor-1, 0)
			return a, nil
		case "enter":
			return a.settingsStartEdit()
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "r":
		if !a.refreshing {
			a.refreshing = true
			return a, tea.Batch(refreshDataCmd(a.opts), a.spinner.Tick)
		}
		return a, nil
	case "[":
		if len(a.results) > 0 {
			a.active = (a.active - 1 + len(a.results)) % len(a.results)
			a.scenCursor = a.active
			a.recompute()
		}
		return a, nil
	case "]":
		if len(a.results) > 0 {
			a.active = (a.active + 1) % len(a.results)
			a.scenCursor = a.active
			a.recompute()
		}
		return a, nil
	case "left":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if r := []rune(key); len(r) == 1 {
		if idx := components.TabIdxByKey(r[0]); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		cfg := loadFileConfigOrDefault()
		if err := a.setupVals.Apply(&cfg); err == nil {
			_ = config.Save(cfg)
			theme.SetActive(cfg.Appearance.Theme)
			_ = cli.SetLocale(cfg.Appearance.Locale)
			a.opts.Threshold = cfg.Alerts.LowBalanceThreshold
		}
		a.needSetup = false
		a.setupForm = nil
		if cfg.General.HorizonDays != a.opts.HorizonDays {
			a.opts.HorizonDays = cfg.General.HorizonDays
			a.refreshing = true
			return a, refreshDataCmd(a.opts)
		}
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) isCompactLayout() bool {
	return a.contentWidth() < compactWidth
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}
	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}
	if !a.loaded {
		return a.viewLoading()
	}
	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}
	if a.showHelp {
		return a.viewHelp()
	}
	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  runway needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	countStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ runway"))
	b.WriteString(subtitleStyle.Render(" · cash-flow projection"))
	b.WriteString("\n\n")

	if a.progressMax > 0 {
		barW := min(max(a.width-30, 20), 40)
		pct := float64(a.progress) / float64(a.progressMax)
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Projecting scenarios\n\n"))
		b.WriteString(components.ProgressBar(pct, barW))
		b.WriteString("\n")
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progress))))
		b.WriteString(subtitleStyle.Render(" / "))
		b.WriteString(countStyle.Render(cli.FormatNumber(int64(a.progressMax))))
	} else {
		b.WriteString(a.spinner.View())
		b.WriteString(subtitleStyle.Render(" Loading scenarios..."))
	}

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	section := func(b *strings.Builder, title string, binds []struct{ key, desc string }) {
		b.WriteString(sectionStyle.Render(title))
		b.WriteString("\n")
		for _, bind := range binds {
			fmt.Fprintf(b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n\n")
	section(&b, "Navigation", []struct{ key, desc string }{
		{"o f s c x", "Jump to tab"},
		{"← →", "Previous / Next tab"},
		{"[ ]", "Previous / Next scenario"},
		{"j k", "Navigate lists"},
		{"g G", "Top / Bottom of flows"},
	})
	b.WriteString("\n")
	section(&b, "Actions", []struct{ key, desc string }{
		{"Enter", "Select scenario / Edit setting"},
		{"Esc", "Cancel"},
		{"r", "Reload from the database"},
		{"?", "Toggle help"},
		{"q", "Quit"},
	})
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + window pill
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)

	pill := pillStyle.Render(" ") + accentStyle.Render(fmt.Sprintf("%dd", a.opts.HorizonDays))
	if lr, ok := a.current(); ok {
		pill += pillStyle.Render(" │ ") + accentStyle.Render(lr.Data.Scenario.Name)
		if len(lr.Result.Series) > 0 {
			pill += pillStyle.Render(" │ from " + lr.Result.Series[0].Date.String())
		}
	}
	header := components.RenderTabBar(a.activeTab, w) +
		lipgloss.NewStyle().Background(t.Surface).Width(w).Render(pill)

	// 2. Status bar
	scenario := ""
	if lr, ok := a.current(); ok {
		scenario = lr.Data.Scenario.Name
	}
	statusBar := components.RenderStatusBar(w, scenario, fmt.Sprintf("%.1fs", a.loadTime.Seconds()), a.refreshing)

	// 3. Content zone
	contentH := max(h-lipgloss.Height(header)-lipgloss.Height(statusBar), minContentHeight)

	var content string
	switch {
	case a.loadErr != nil && len(a.results) == 0:
		content = components.ContentCard("Error", a.loadErr.Error(), cw)
	case a.activeTab == tabOverview:
		content = a.renderOverviewTab(cw)
	case a.activeTab == tabFlows:
		content = a.renderFlowsTab(cw, contentH)
	case a.activeTab == tabSources:
		content = a.renderSourcesTab(cw)
	case a.activeTab == tabScenarios:
		content = a.renderScenariosTab(cw)
	case a.activeTab == tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// ─── Loading ────────────────────────────────────────────────────

// loadDataCmd projects every scenario in a background goroutine, streaming
// ProgressMsg updates and a final DataLoadedMsg through sub.
func loadDataCmd(opts Options, sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		go func() {
			start := time.Now()

			// Non-blocking send so workers aren't stalled; the next update catches up.
			progressFn := func(current, total int) {
				select {
				case sub <- ProgressMsg{Current: current, Total: total}:
				default:
				}
			}

			ctx := context.Background()
			results, err := pipeline.LoadAll(ctx, opts.Source, pipeline.Options{
				Today:       opts.Today,
				HorizonDays: opts.HorizonDays,
			}, progressFn)

			activeID := ""
			if err == nil && opts.Scenario != "" {
				sc, rerr := opts.Source.ResolveScenario(ctx, opts.Scenario)
				if rerr != nil {
					err = rerr
				} else {
					activeID = sc.ID
				}
			}

			sub <- DataLoadedMsg{
				Results:  results,
				ActiveID: activeID,
				LoadTime: time.Since(start),
				Err:      err,
			}
		}()

		return <-sub
	}
}

// waitForLoadMsg blocks until the next message arrives from the loader goroutine.
func waitForLoadMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-sub
	}
}

// refreshDataCmd reloads every scenario without progress UI.
func refreshDataCmd(opts Options) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		results, err := pipeline.LoadAll(context.Background(), opts.Source, pipeline.Options{
			Today:       opts.Today,
			HorizonDays: opts.HorizonDays,
		}, nil)
		return RefreshDataMsg{Results: results, LoadTime: time.Since(start), Err: err}
	}
}

// ─── Helpers ────────────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes use the same widths as RenderTabBar.
func (a App) tabAtX(x int) int {
	pos := 0
	for i, tab := range components.Tabs {
		tabW := components.TabVisualWidth(tab, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW

		// Separator is one column between tabs.
		if i < len(components.Tabs)-1 {
			pos++
		}
	}
	return -1
}

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}
