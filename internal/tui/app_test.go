package tui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
)

func init() {
	lipgloss.SetColorProfile(termenv.TrueColor)
}

var testToday = model.NewDate(2026, time.March, 1)

func testResults() []pipeline.LoadResult {
	opts := pipeline.Options{Today: testToday, HorizonDays: 60}
	steady := model.ScenarioData{
		Scenario: model.Scenario{ID: "s1", Name: "Baseline"},
		Accounts: []model.Account{{ID: "a1", CurrentBalance: decimal.NewFromInt(1000)}},
		Paychecks: []model.Paycheck{{
			ID: "p1", Name: "Salary", Amount: decimal.NewFromInt(2000),
			Schedule: "biweekly", NextDate: testToday.AddDays(3),
		}},
		CreditCards: []model.CreditCard{{
			ID: "c1", Name: "Visa", NextDueDate: testToday.AddDays(10),
			NextDueAmount: decimal.NewFromInt(800), AvgFutureAmount: decimal.NewFromInt(600),
		}},
	}
	lean := model.ScenarioData{
		Scenario: model.Scenario{ID: "s2", Name: "Lean"},
		Accounts: []model.Account{{ID: "a2", CurrentBalance: decimal.NewFromInt(100)}},
		CreditCards: []model.CreditCard{{
			ID: "c2", Name: "Amex", NextDueDate: testToday.AddDays(5),
			NextDueAmount: decimal.NewFromInt(400), AvgFutureAmount: decimal.NewFromInt(400),
		}},
	}
	return []pipeline.LoadResult{pipeline.Run(steady, opts), pipeline.Run(lean, opts)}
}

func loadedApp(t *testing.T) App {
	t.Helper()
	a := NewApp(Options{Today: testToday, HorizonDays: 60})
	a.needSetup = false

	m, _ := a.Update(tea.WindowSizeMsg{Width: 140, Height: 45})
	m, cmd := m.Update(DataLoadedMsg{Results: testResults(), ActiveID: "s2", LoadTime: time.Second})
	assert.Nil(t, cmd)
	return m.(App)
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, a App, keys ...string) App {
	t.Helper()
	var m tea.Model = a
	for _, k := range keys {
		m, _ = m.Update(key(k))
	}
	return m.(App)
}

func TestDataLoaded_SelectsRequestedScenario(t *testing.T) {
	a := loadedApp(t)

	require.True(t, a.loaded)
	lr, ok := a.current()
	require.True(t, ok)
	assert.Equal(t, "Lean", lr.Data.Scenario.Name)
	assert.Equal(t, 1, a.scenCursor)
	assert.NotEmpty(t, a.flowDays)
	assert.NotEmpty(t, a.weeks)
	assert.Len(t, a.sources, 1)
}

func TestDataLoaded_UnknownScenarioFallsBackToFirst(t *testing.T) {
	a := NewApp(Options{Today: testToday, HorizonDays: 60})
	a.needSetup = false

	m, _ := a.Update(DataLoadedMsg{Results: testResults(), ActiveID: "missing"})
	lr, ok := m.(App).current()
	require.True(t, ok)
	assert.Equal(t, "Baseline", lr.Data.Scenario.Name)
}

func TestKeys_SwitchTabs(t *testing.T) {
	a := loadedApp(t)

	assert.Equal(t, tabFlows, press(t, a, "f").activeTab)
	assert.Equal(t, tabSources, press(t, a, "s").activeTab)
	assert.Equal(t, tabScenarios, press(t, a, "c").activeTab)
	assert.Equal(t, tabSettings, press(t, a, "x").activeTab)
	assert.Equal(t, tabOverview, press(t, a, "f", "o").activeTab)
	assert.Equal(t, tabSettings, press(t, a, "left").activeTab)
	assert.Equal(t, tabFlows, press(t, a, "right").activeTab)
}

func TestKeys_CycleScenarios(t *testing.T) {
	a := loadedApp(t)

	a = press(t, a, "]")
	lr, _ := a.current()
	assert.Equal(t, "Baseline", lr.Data.Scenario.Name)

	a = press(t, a, "[")
	lr, _ = a.current()
	assert.Equal(t, "Lean", lr.Data.Scenario.Name)
}

func TestScenariosTab_EnterSelects(t *testing.T) {
	a := loadedApp(t)

	a = press(t, a, "c", "k", "enter")
	lr, ok := a.current()
	require.True(t, ok)
	assert.Equal(t, "Baseline", lr.Data.Scenario.Name)
	assert.Equal(t, tabOverview, a.activeTab)
	assert.Equal(t, len(a.flowDays), len(a.flows.Rows()))
}

func TestHelpToggle(t *testing.T) {
	a := loadedApp(t)

	a = press(t, a, "?")
	assert.True(t, a.showHelp)
	assert.Contains(t, a.View(), "Keyboard Shortcuts")

	// Any key closes help without acting on it.
	a = press(t, a, "f")
	assert.False(t, a.showHelp)
	assert.Equal(t, tabOverview, a.activeTab)
}

func TestKeysIgnoredUntilLoaded(t *testing.T) {
	a := NewApp(Options{Today: testToday})
	m, cmd := a.Update(key("f"))
	assert.Nil(t, cmd)
	assert.Equal(t, tabOverview, m.(App).activeTab)
}

func TestRefreshKeepsActiveScenario(t *testing.T) {
	a := loadedApp(t)
	a.refreshing = true

	results := testResults()
	results[0], results[1] = results[1], results[0]
	m, _ := a.Update(RefreshDataMsg{Results: results, LoadTime: time.Millisecond})
	a = m.(App)

	assert.False(t, a.refreshing)
	assert.Equal(t, 0, a.active)
	lr, _ := a.current()
	assert.Equal(t, "Lean", lr.Data.Scenario.Name)
}

func TestView_RendersEveryTab(t *testing.T) {
	a := loadedApp(t)

	cases := []struct {
		key  string
		want string
	}{
		{"o", "Projected Balance"},
		{"f", "Flows · Lean"},
		{"s", "Sources · Lean"},
		{"c", "Scenarios (2)"},
		{"x", "Alert Threshold"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			view := press(t, a, tc.key).View()
			assert.Contains(t, view, tc.want)
			assert.Equal(t, 45, len(strings.Split(view, "\n")))
		})
	}
}

func TestView_TooNarrow(t *testing.T) {
	a := loadedApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.(App).View(), "Terminal too narrow")
}

func TestChartDateLabels(t *testing.T) {
	lr := testResults()[0]
	labels := chartDateLabels(lr.Result.Series)

	require.Len(t, labels, len(lr.Result.Series))
	assert.Equal(t, "Mar 1", labels[0])
	assert.Equal(t, "Apr", labels[31])
	assert.Equal(t, "Apr 30", labels[len(labels)-1])
	assert.Empty(t, labels[5])
}
