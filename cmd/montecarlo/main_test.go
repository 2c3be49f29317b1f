package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wyfcoding/montecarlo/algorithm/finance"
	"github.com/wyfcoding/montecarlo/config"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestInitWritesLoadableConfig(t *testing.T) {
	dir := t.TempDir()
	for _, portfolio := range []bool{false, true} {
		path := filepath.Join(dir, "single.json")
		args := []string{"init", "--out", path}
		if portfolio {
			path = filepath.Join(dir, "portfolio.json")
			args = []string{"init", "--portfolio", "--out", path}
		}

		out, err := execute(t, args...)
		require.NoError(t, err)
		assert.Contains(t, out, path)

		cfg, err := config.LoadSimConfig(path)
		require.NoError(t, err)
		assert.Equal(t, portfolio, cfg.IsPortfolio())
		assert.NoError(t, cfg.Validate())
	}

	_, err := execute(t, "init", "--out", filepath.Join(dir, "single.json"))
	assert.Error(t, err)
	_, err = execute(t, "init", "--force", "--out", filepath.Join(dir, "single.json"))
	assert.NoError(t, err)
}

func smallConfig(t *testing.T, portfolio bool) string {
	t.Helper()
	cfg := config.ExampleSimConfig(portfolio)
	cfg.Horizon = 10
	cfg.NumPaths = 50
	path := filepath.Join(t.TempDir(), "sim.json")
	require.NoError(t, config.SaveSimConfig(cfg, path))
	return path
}

func TestRunSingleTable(t *testing.T) {
	out, err := execute(t, "run", "--sim", smallConfig(t, false))
	require.NoError(t, err)
	assert.Contains(t, out, "GBM: 50 paths x 10 steps")
	assert.Contains(t, out, "VaR 95%")
}

func TestRunSingleJSONIsDeterministic(t *testing.T) {
	path := smallConfig(t, false)

	first, err := execute(t, "run", "--sim", path, "--format", "json", "--concurrency", "1")
	require.NoError(t, err)
	second, err := execute(t, "run", "--sim", path, "--format", "json", "--concurrency", "4")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var stats finance.SimStats
	require.NoError(t, json.Unmarshal([]byte(first), &stats))
	assert.Equal(t, 50, stats.Paths)
}

func TestRunPortfolioTable(t *testing.T) {
	cfg := config.ExampleSimConfig(true)
	history := map[string][]float64{}
	for _, inst := range cfg.Portfolio.Instruments {
		history[inst.Symbol] = []float64{0.01, -0.004, 0.002, -0.003, 0.005}
	}
	data, err := json.Marshal(history)
	require.NoError(t, err)
	historyPath := filepath.Join(t.TempDir(), "history.json")
	require.NoError(t, os.WriteFile(historyPath, data, 0o644))

	out, err := execute(t, "run", "--sim", smallConfig(t, true), "--history", historyPath)
	require.NoError(t, err)
	assert.Contains(t, out, "portfolio: capital 100000.00\n")
	for _, inst := range cfg.Portfolio.Instruments {
		assert.Contains(t, out, inst.Symbol)
	}
	assert.Contains(t, out, "exp. P&L")
	assert.Contains(t, out, "total")
	assert.NotContains(t, out, "EXP. P&L")
}

func TestNewTableKeepsTitleAndCase(t *testing.T) {
	var buf bytes.Buffer
	title := "a title much wider than the two narrow columns below it"
	tbl := newTable(&buf, title)
	tbl.AppendHeader(table.Row{"k", "v"})
	tbl.AppendRow(table.Row{"a", "1"})
	tbl.AppendFooter(table.Row{"sum", "1"})
	tbl.Render()

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, title+"\n"), out)
	assert.Contains(t, out, " k ")
	assert.Contains(t, out, " sum ")
}

func TestRunErrors(t *testing.T) {
	_, err := execute(t, "run")
	assert.Error(t, err)

	_, err = execute(t, "run", "--sim", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = execute(t, "run", "--sim", smallConfig(t, false), "--format", "xml")
	assert.Error(t, err)
}

func TestEstimate(t *testing.T) {
	out, err := execute(t, "estimate", "--returns", "0.01,0.03")
	require.NoError(t, err)
	assert.Contains(t, out, "0.0200")
	assert.Contains(t, out, "observations")

	_, err = execute(t, "estimate", "--prices", "100,101,102")
	assert.NoError(t, err)

	_, err = execute(t, "estimate", "--returns", "0.01")
	assert.Error(t, err)

	_, err = execute(t, "estimate")
	assert.Error(t, err)
}
