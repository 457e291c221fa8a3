package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/runwayhq/runway/internal/cli"
	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/tui/components"
	"github.com/runwayhq/runway/internal/tui/theme"
)

const (
	settingsFieldTheme = iota
	settingsFieldHorizon
	settingsFieldThreshold
	settingsFieldLocale
	settingsFieldScenario
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	editing bool
	input   textinput.Model
	saved   bool  // flash "saved" message briefly
	saveErr error // non-nil if last save failed
}

func newSettingsInput() textinput.Model {
	ti := textinput.New()
	ti.CharLimit = 64
	ti.Width = 50
	ti.EchoMode = textinput.EchoNormal
	return ti
}

func (a App) settingsStartEdit() (tea.Model, tea.Cmd) {
	cfg := loadConfigOrDefault()
	a.settings.editing = true
	a.settings.saved = false

	ti := newSettingsInput()

	switch a.settings.cursor {
	case settingsFieldTheme:
		ti.Placeholder = strings.Join(theme.Names(), ", ")
		ti.SetValue(cfg.Appearance.Theme)
	case settingsFieldHorizon:
		ti.Placeholder = "150"
		ti.SetValue(strconv.Itoa(a.opts.HorizonDays))
	case settingsFieldThreshold:
		ti.Placeholder = "0 (daemon alerts below this balance)"
		ti.SetValue(strconv.FormatFloat(cfg.Alerts.LowBalanceThreshold, 'f', -1, 64))
	case settingsFieldLocale:
		ti.Placeholder = strings.Join(localeOptions, ", ")
		ti.SetValue(cfg.Appearance.Locale)
	case settingsFieldScenario:
		ti.Placeholder = "scenario name or id (empty for the first)"
		ti.SetValue(cfg.General.DefaultScenario)
	}

	ti.Focus()
	a.settings.input = ti
	return a, ti.Cursor.BlinkCmd()
}

func (a App) updateSettingsInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		cmd := a.settingsSave()
		a.settings.editing = false
		a.settings.saved = a.settings.saveErr == nil
		return a, cmd
	case "esc":
		a.settings.editing = false
		return a, nil
	}

	var cmd tea.Cmd
	a.settings.input, cmd = a.settings.input.Update(msg)
	return a, cmd
}

// settingsSave validates the edited value and writes the config file. A
// horizon change triggers a reload.
func (a *App) settingsSave() tea.Cmd {
	cfg := loadFileConfigOrDefault()
	val := strings.TrimSpace(a.settings.input.Value())
	var cmd tea.Cmd

	switch a.settings.cursor {
	case settingsFieldTheme:
		if !theme.Valid(val) {
			a.settings.saveErr = fmt.Errorf("unknown theme %q", val)
			return nil
		}
		cfg.Appearance.Theme = val
		theme.SetActive(val)
		a.flows.SetStyles(flowTableStyles())
	case settingsFieldHorizon:
		d, err := strconv.Atoi(val)
		if err != nil || d <= 0 {
			a.settings.saveErr = fmt.Errorf("horizon must be a positive number of days")
			return nil
		}
		cfg.General.HorizonDays = d
		if d != a.opts.HorizonDays {
			a.opts.HorizonDays = d
			a.refreshing = true
			cmd = refreshDataCmd(a.opts)
		}
	case settingsFieldThreshold:
		v, err := parseAmount(val)
		if err != nil {
			a.settings.saveErr = fmt.Errorf("threshold must be a number")
			return nil
		}
		cfg.Alerts.LowBalanceThreshold = v.InexactFloat64()
		a.opts.Threshold = cfg.Alerts.LowBalanceThreshold
	case settingsFieldLocale:
		if err := cli.SetLocale(val); err != nil {
			a.settings.saveErr = err
			return nil
		}
		cfg.Appearance.Locale = val
		a.recompute()
	case settingsFieldScenario:
		cfg.General.DefaultScenario = val
	}

	a.settings.saveErr = config.Save(cfg)
	return cmd
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	accentStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	type field struct {
		label string
		value string
	}

	defaultScenario := cfg.General.DefaultScenario
	if defaultScenario == "" {
		defaultScenario = "(first scenario)"
	}

	fields := []field{
		{"Theme", cfg.Appearance.Theme},
		{"Horizon Days", strconv.Itoa(a.opts.HorizonDays)},
		{"Alert Threshold", cli.FormatMoney(a.opts.Threshold)},
		{"Locale", cfg.Appearance.Locale},
		{"Default Scenario", defaultScenario},
	}

	var formBody strings.Builder
	for i, f := range fields {
		if a.settings.editing && i == a.settings.cursor {
			formBody.WriteString(markerStyle.Render("▸ "))
			formBody.WriteString(accentStyle.Render(fmt.Sprintf("%-18s ", f.label)))
			formBody.WriteString(a.settings.input.View())
			formBody.WriteString("\n")
			continue
		}

		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-18s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			formBody.WriteString(marker)
			formBody.WriteString(label)
			formBody.WriteString(value)
			usedWidth := lipgloss.Width(marker) + lipgloss.Width(label) + lipgloss.Width(value)
			if padLen := components.CardInnerWidth(cw) - usedWidth; padLen > 0 {
				formBody.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", padLen)))
			}
		} else {
			formBody.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			formBody.WriteString(labelStyle.Render(fmt.Sprintf("%-18s ", f.label+":")))
			formBody.WriteString(valueStyle.Render(f.value))
		}
		formBody.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		formBody.WriteString("\n")
		formBody.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		formBody.WriteString("\n")
		formBody.WriteString(greenStyle.Render("Saved!"))
	}

	formBody.WriteString("\n")
	formBody.WriteString(labelStyle.Render("[j/k] navigate  [Enter] edit  [Esc] cancel"))

	var infoBody strings.Builder
	infoBody.WriteString(labelStyle.Render("Database:         ") + valueStyle.Render(cfg.DBPath()) + "\n")
	infoBody.WriteString(labelStyle.Render("Scenarios loaded: ") + valueStyle.Render(cli.FormatNumber(int64(len(a.results)))) + "\n")
	infoBody.WriteString(labelStyle.Render("Load time:        ") + valueStyle.Render(fmt.Sprintf("%.1fs", a.loadTime.Seconds())) + "\n")
	infoBody.WriteString(labelStyle.Render("Config file:      ") + valueStyle.Render(config.ConfigPath()))

	var b strings.Builder
	b.WriteString(components.ContentCard("Settings", formBody.String(), cw))
	b.WriteString("\n")
	b.WriteString(components.ContentCard("General", infoBody.String(), cw))

	return b.String()
}
