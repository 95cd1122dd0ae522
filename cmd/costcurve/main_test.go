package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/abhimishr/gcam-core/config"
	"github.com/abhimishr/gcam-core/export"
	"github.com/abhimishr/gcam-core/export/sqlsink"
	"github.com/stretchr/testify/assert"
	"gopkg.in/yaml.v3"
)

func utWriteConfig(t *testing.T, dir string) string {
	cfg := config.Default()
	cfg.Output.Root = filepath.Join(dir, "output")
	cfg.Output.SQLitePath = filepath.Join(dir, "costs.db")
	cfg.Output.DocStoreRoot = filepath.Join(dir, "docs")

	d, err := yaml.Marshal(&cfg)
	assert.Nil(t, err)

	file := filepath.Join(dir, "config.yaml")
	assert.Nil(t, os.WriteFile(file, d, 0o600))

	return file
}

func utExecute(t *testing.T, args ...string) (string, error) {
	cmd := newRootCmd()

	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := utExecute(t, "version")
	assert.Nil(t, err)
	assert.Equal(t, "costcurve version "+version+"\n", out)
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	cfgFile := utWriteConfig(t, dir)
	metricsFile := filepath.Join(dir, "metrics.prom")

	out, err := utExecute(t, "run", filepath.Join("testdata", "policy.yaml"),
		"--config", cfgFile, "--metrics-file", metricsFile, "--snapshots", filepath.Join(dir, "snapshots"))
	assert.Nil(t, err)
	assert.True(t, strings.HasPrefix(out, "policy (ok)\n"), out)
	assert.Contains(t, out, "China")
	assert.Contains(t, out, "total")

	_, err = os.Stat(filepath.Join(dir, "output", "cost_curves_policy.xml"))
	assert.Nil(t, err)

	_, err = os.Stat(filepath.Join(dir, "docs", "documents.json"))
	assert.Nil(t, err)

	snapshots, err := os.ReadDir(filepath.Join(dir, "snapshots"))
	assert.Nil(t, err)
	assert.True(t, len(snapshots) > 0)

	m, err := os.ReadFile(metricsFile)
	assert.Nil(t, err)
	assert.Contains(t, string(m), "costcurve_trial_runs_total")

	sink, err := sqlsink.Open(filepath.Join(dir, "costs.db"))
	assert.Nil(t, err)
	defer func() {
		_ = sink.Close()
	}()

	values, err := sink.Values(context.Background(), "policy")
	assert.Nil(t, err)
	// 2 regions, 3 variables, 4 periods
	assert.Equal(t, 24, len(values))
	assert.Equal(t, export.VarPolicyCostUndisc, values[0].Variable)
}

func TestRunWithoutPolicy(t *testing.T) {
	dir := t.TempDir()

	out, err := utExecute(t, "run", filepath.Join("testdata", "reference.yaml"), "--config", utWriteConfig(t, dir))
	assert.Nil(t, err)
	assert.Equal(t, "reference: no policy market, nothing to cost\n", out)
}

func TestBatch(t *testing.T) {
	dir := t.TempDir()

	out, err := utExecute(t, "batch", filepath.Join("testdata", "policy.yaml"), filepath.Join("testdata", "reference.yaml"),
		"--config", utWriteConfig(t, dir), "--workers", "2")
	assert.Nil(t, err)
	assert.Contains(t, out, "policy (ok)")
	assert.Contains(t, out, "reference: no policy market")

	_, err = utExecute(t, "batch", filepath.Join("testdata", "missing.yaml"))
	assert.NotNil(t, err)
}
