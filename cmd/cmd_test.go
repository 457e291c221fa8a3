package cmd

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runwayhq/runway/internal/config"
	"github.com/runwayhq/runway/internal/model"
	"github.com/runwayhq/runway/internal/pipeline"
	"github.com/runwayhq/runway/internal/projection"
)

func TestParseMoney(t *testing.T) {
	d, err := parseMoney("amount", " $1,250.50 ")
	require.NoError(t, err)
	assert.Equal(t, "1250.5", d.String())

	d, err = parseMoney("amount", "-40")
	require.NoError(t, err)
	assert.Equal(t, "-40", d.String())

	_, err = parseMoney("amount", "")
	assert.EqualError(t, err, "--amount is required")

	_, err = parseMoney("amount", "ten")
	assert.ErrorContains(t, err, "parsing --amount")
}

func TestParseDateFlag(t *testing.T) {
	d, err := parseDateFlag("next", "2026-03-13")
	require.NoError(t, err)
	assert.Equal(t, model.NewDate(2026, 3, 13), d)

	d, err = parseDateFlag("next", "")
	require.NoError(t, err)
	assert.Equal(t, model.Today(), d)

	_, err = parseDateFlag("next", "03/13/2026")
	assert.ErrorContains(t, err, "parsing --next")
}

func TestEventDirection(t *testing.T) {
	assert.Equal(t, "inflow", eventDirection("Year-end Bonus"))
	assert.Equal(t, "outflow", eventDirection("Car repair"))
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"daemon", "--detach", "--addr", "127.0.0.1:9000", "--detach=true"})
	assert.Equal(t, []string{"daemon", "--addr", "127.0.0.1:9000"}, got)
}

func TestPIDAndStateFiles(t *testing.T) {
	pidFile := filepath.Join(t.TempDir(), "runwayd.pid")

	_, err := readPID(pidFile)
	require.Error(t, err)
	require.NoError(t, ensureDaemonNotRunning(pidFile))

	require.NoError(t, writePID(pidFile, 4242))
	pid, err := readPID(pidFile)
	require.NoError(t, err)
	assert.Equal(t, 4242, pid)

	want := daemonRuntimeState{PID: 4242, Addr: "127.0.0.1:8787", DBPath: "/tmp/runway.db"}
	require.NoError(t, writeState(statePath(pidFile), want))
	got, err := readState(statePath(pidFile))
	require.NoError(t, err)
	assert.Equal(t, want.PID, got.PID)
	assert.Equal(t, want.Addr, got.Addr)
	assert.Equal(t, want.DBPath, got.DBPath)
}

func TestDaemonSettingsFlagsOverrideConfig(t *testing.T) {
	defer func() {
		flagDaemonAddr, flagDaemonSchedule, flagDaemonEventsBuffer = "", "", 0
	}()

	cfg := config.DefaultConfig()
	assert.Equal(t, cfg.Daemon, daemonSettings(cfg))

	flagDaemonAddr = "0.0.0.0:9999"
	flagDaemonSchedule = "@every 1m"
	flagDaemonEventsBuffer = 10
	got := daemonSettings(cfg)
	assert.Equal(t, "0.0.0.0:9999", got.Addr)
	assert.Equal(t, "@every 1m", got.Schedule)
	assert.Equal(t, 10, got.EventsBuffer)
}

func TestMaskSecret(t *testing.T) {
	assert.Equal(t, "not set", maskSecret(""))
	assert.Equal(t, "****", maskSecret("hunter2"))
	assert.Equal(t, "ap...yz", maskSecret("app-password-xyz"))
}

func exportFixture() *pipeline.LoadResult {
	start := model.NewDate(2026, 3, 1)
	res := projection.Result{
		StartBalance: 100,
		Series: []projection.Point{
			{Date: start, Balance: 100},
			{Date: start.AddDays(1), Inflow: 50.5, Balance: 150.5},
			{Date: start.AddDays(2), Outflow: 200, Balance: -49.5},
		},
	}
	return &pipeline.LoadResult{
		Data:    model.ScenarioData{Scenario: model.Scenario{ID: "s1", Name: "Baseline"}},
		Result:  res,
		Summary: pipeline.Summarize(res),
	}
}

func TestWriteProjectionCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeProjectionCSV(&buf, exportFixture()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "date,inflow,outflow,balance", lines[0])
	assert.Equal(t, "2026-03-02,50.50,0.00,150.50", lines[2])
	assert.Equal(t, "2026-03-03,0.00,200.00,-49.50", lines[3])
}

func TestWriteProjectionJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeProjectionJSON(&buf, exportFixture()))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "Baseline", doc["scenario"])
	assert.Equal(t, "s1", doc["scenarioId"])
	assert.Contains(t, doc, "summary")
	assert.Contains(t, doc, "projection")
}
