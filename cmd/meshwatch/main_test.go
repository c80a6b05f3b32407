// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/meshwatch/internal/platform"
	"github.com/pdiddy/meshwatch/pkg/types"
)

type workspace struct {
	in, out, marker, config string
}

// newWorkspace lays out input/output directories, a shell exporter that
// writes its second argument and a config file pointing at them. The
// exporter also appends to a marker file so tests can count invocations.
func newWorkspace(t *testing.T, journal string) workspace {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script exporter requires a POSIX shell")
	}

	root := t.TempDir()
	ws := workspace{
		in:     filepath.Join(root, "c4d"),
		out:    filepath.Join(root, "gfx"),
		marker: filepath.Join(root, "calls.log"),
		config: filepath.Join(root, "meshwatch.yaml"),
	}
	require.NoError(t, os.MkdirAll(ws.in, 0o755))
	require.NoError(t, os.MkdirAll(ws.out, 0o755))

	exporter := filepath.Join(root, "exporter.sh")
	script := fmt.Sprintf("#!/bin/sh\necho \"$1 $2\" >> '%s'\nprintf mesh > \"$2\"\n", ws.marker)
	require.NoError(t, os.WriteFile(exporter, []byte(script), 0o755))

	cfg := fmt.Sprintf(`journal: '%s'
platforms:
  TestOS:
    input-dir: '%s'
    output-dir: '%s'
    converter: '%s'
`, journal, ws.in, ws.out, exporter)
	require.NoError(t, os.WriteFile(ws.config, []byte(cfg), 0o644))
	return ws
}

func (ws workspace) calls(t *testing.T) int {
	t.Helper()
	data, err := os.ReadFile(ws.marker)
	if os.IsNotExist(err) {
		return 0
	}
	require.NoError(t, err)
	return bytes.Count(data, []byte("\n"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeScene(t *testing.T, path string, mtime time.Time) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte("scene"), 0o644))
	require.NoError(t, os.Chtimes(path, mtime, mtime))
}

func TestOnce_ConvertsThenIdles(t *testing.T) {
	ws := newWorkspace(t, "")
	src := filepath.Join(ws.in, "foo.c4d")
	writeScene(t, src, time.Now().Add(-time.Hour))

	out, err := execute(t, "once", "--config", ws.config, "--platform", "TestOS")
	require.NoError(t, err)
	assert.Contains(t, out, "Converting: "+src+" -> "+filepath.Join(ws.out, "foo.boba"))
	assert.Contains(t, out, "Pass summary: 1 converted, 0 up to date (total: 1)")
	assert.Equal(t, 1, ws.calls(t))
	assert.FileExists(t, filepath.Join(ws.out, "foo.boba"))

	out, err = execute(t, "once", "--config", ws.config, "--platform", "TestOS")
	require.NoError(t, err)
	assert.NotContains(t, out, "Converting:")
	assert.Contains(t, out, "Pass summary: 0 converted, 1 up to date (total: 1)")
	assert.Equal(t, 1, ws.calls(t))
}

func TestUnknownPlatform_NoScan(t *testing.T) {
	ws := newWorkspace(t, "")
	writeScene(t, filepath.Join(ws.in, "foo.c4d"), time.Now().Add(-time.Hour))

	for _, args := range [][]string{
		{"--config", ws.config, "--platform", "Plan9"},
		{"once", "--config", ws.config, "--platform", "Plan9"},
	} {
		out, err := execute(t, args...)
		require.Error(t, err)
		assert.ErrorIs(t, err, platform.ErrUnknownPlatform)
		assert.Contains(t, err.Error(), "unknown system: Plan9")
		assert.Empty(t, out)
	}

	assert.Equal(t, 0, ws.calls(t), "no conversion may run after a configuration error")
	assert.NoFileExists(t, filepath.Join(ws.out, "foo.boba"))
}

// runMainEnv makes the test binary act as the meshwatch executable.
const runMainEnv = "GO_WANT_MESHWATCH_MAIN"

func TestExitStatusOnUnknownPlatform(t *testing.T) {
	if os.Getenv(runMainEnv) == "1" {
		os.Args = []string{"meshwatch", "--config", os.Getenv("GO_MESHWATCH_CONFIG"), "--platform", "Plan9"}
		main()
		return
	}

	cfgPath := filepath.Join(t.TempDir(), "meshwatch.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("journal: ''\n"), 0o644))

	cmd := exec.Command(os.Args[0], "-test.run=^TestExitStatusOnUnknownPlatform$")
	cmd.Env = append(os.Environ(), runMainEnv+"=1", "GO_MESHWATCH_CONFIG="+cfgPath)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	err := cmd.Run()
	var exitErr *exec.ExitError
	require.ErrorAs(t, err, &exitErr, "meshwatch must exit non-zero")
	assert.Equal(t, 1, exitErr.ExitCode())
	assert.Contains(t, stdout.String(), "unknown system: Plan9")
	assert.NotContains(t, stdout.String(), "Converting:")
}

func TestHistory(t *testing.T) {
	journalPath := filepath.Join(t.TempDir(), "journal.db")
	ws := newWorkspace(t, journalPath)
	writeScene(t, filepath.Join(ws.in, "a.c4d"), time.Now().Add(-time.Hour))
	writeScene(t, filepath.Join(ws.in, "b.c4d"), time.Now().Add(-time.Hour))

	_, err := execute(t, "once", "--config", ws.config, "--platform", "TestOS")
	require.NoError(t, err)

	out, err := execute(t, "history", "--config", ws.config, "--platform", "TestOS", "--json")
	require.NoError(t, err)

	var records []types.ConversionRecord
	require.NoError(t, json.Unmarshal([]byte(out), &records))
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, types.StaleMissing, r.Reason)
		assert.Equal(t, 0, r.ExitCode)
	}
}

func TestHistory_Disabled(t *testing.T) {
	ws := newWorkspace(t, "")
	_, err := execute(t, "history", "--config", ws.config, "--platform", "TestOS", "--json=false")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "journal is disabled")
}

func TestConfigCommand(t *testing.T) {
	ws := newWorkspace(t, "")
	out, err := execute(t, "config", "--config", ws.config, "--platform", "TestOS")
	require.NoError(t, err)
	assert.Contains(t, out, "platform: TestOS")
	assert.Contains(t, out, "input_dir: "+ws.in)
	assert.Contains(t, out, "interval: 1s")
	assert.Contains(t, out, "source_ext: .c4d")
}

func TestFormatHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, formatHistory(&buf, nil, false))
	assert.Equal(t, "No conversions recorded.\n", buf.String())

	buf.Reset()
	records := []types.ConversionRecord{{
		Source:    "/in/a-very-long-scene-name-that-needs-trimming.c4d",
		Output:    "/out/a.boba",
		Reason:    types.StaleNewer,
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Duration:  1234 * time.Millisecond,
		ExitCode:  2,
	}}
	require.NoError(t, formatHistory(&buf, records, false))
	assert.Contains(t, buf.String(), "a-very-long-scene-name-that...")
	assert.Contains(t, buf.String(), "newer")
	assert.Contains(t, buf.String(), "1.23s")
	assert.Contains(t, buf.String(), "1 conversions")
}
