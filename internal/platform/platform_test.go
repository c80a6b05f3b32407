// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/meshwatch/pkg/types"
)

func TestResolve(t *testing.T) {
	root := t.TempDir()
	in := filepath.Join(root, "c4d")
	out := filepath.Join(root, "gfx")
	require.NoError(t, os.MkdirAll(in, 0o755))
	require.NoError(t, os.MkdirAll(out, 0o755))
	notDir := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(notDir, []byte("x"), 0o644))

	tests := []struct {
		name    string
		table   Table
		host    string
		wantErr error
	}{
		{
			name:  "exact match",
			table: Table{"Linux": {InputDir: in, OutputDir: out, Converter: "/opt/exporter"}},
			host:  "Linux",
		},
		{
			name:  "case-folded key from config",
			table: Table{"linux": {InputDir: in, OutputDir: out, Converter: "/opt/exporter"}},
			host:  "Linux",
		},
		{
			name:    "unknown platform",
			table:   Table{"Windows": {InputDir: in, OutputDir: out, Converter: "x"}},
			host:    "Plan9",
			wantErr: ErrUnknownPlatform,
		},
		{
			name:    "missing input directory",
			table:   Table{"Linux": {OutputDir: out, Converter: "/opt/exporter"}},
			host:    "Linux",
			wantErr: ErrMissingDirectory,
		},
		{
			name:    "missing output directory",
			table:   Table{"Linux": {InputDir: in, Converter: "/opt/exporter"}},
			host:    "Linux",
			wantErr: ErrMissingDirectory,
		},
		{
			name:    "input directory does not exist",
			table:   Table{"Linux": {InputDir: filepath.Join(root, "gone"), OutputDir: out, Converter: "/opt/exporter"}},
			host:    "Linux",
			wantErr: ErrMissingDirectory,
		},
		{
			name:    "output path is a file",
			table:   Table{"Linux": {InputDir: in, OutputDir: notDir, Converter: "/opt/exporter"}},
			host:    "Linux",
			wantErr: ErrMissingDirectory,
		},
		{
			name:    "missing converter",
			table:   Table{"Linux": {InputDir: in, OutputDir: out}},
			host:    "Linux",
			wantErr: ErrMissingConverter,
		},
		{
			name:    "builtin darwin entry is unusable",
			table:   Builtin(),
			host:    "Darwin",
			wantErr: ErrMissingDirectory,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.table, tt.host)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, in, got.InputDir)
			assert.Equal(t, out, got.OutputDir)
			assert.Equal(t, "/opt/exporter", filepath.ToSlash(got.Converter))
		})
	}
}

func TestResolve_NormalizesPaths(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c4d"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "gfx"), 0o755))

	table := Table{"Linux": types.PlatformSettings{
		InputDir:  filepath.Join(root, "gfx", "..", "c4d") + string(filepath.Separator),
		OutputDir: filepath.Join(root, ".", "gfx"),
		Converter: "exporter",
	}}

	got, err := Resolve(table, "Linux")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "c4d"), got.InputDir)
	assert.Equal(t, filepath.Join(root, "gfx"), got.OutputDir)
	assert.Equal(t, "exporter", got.Converter, "bare converter names are left for PATH lookup")
}

func TestHasSeparator(t *testing.T) {
	assert.True(t, hasSeparator("/opt/exporter"))
	assert.True(t, hasSeparator("bin/exporter"))
	assert.False(t, hasSeparator("exporter"))
	if runtime.GOOS == "windows" {
		assert.True(t, hasSeparator(`bin\exporter.exe`))
	} else {
		assert.False(t, hasSeparator(`odd\name`), "backslash is a filename character on POSIX")
	}
}

func TestResolve_BackslashNameOnPOSIX(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("backslash is a separator on Windows")
	}
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "c4d"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "gfx"), 0o755))

	table := Table{"Linux": {
		InputDir:  filepath.Join(root, "c4d"),
		OutputDir: filepath.Join(root, "gfx"),
		Converter: `melange\exporter`,
	}}

	got, err := Resolve(table, "Linux")
	require.NoError(t, err)
	assert.Equal(t, `melange\exporter`, got.Converter)
}

func TestResolve_UnknownPlatformMessage(t *testing.T) {
	_, err := Resolve(Builtin(), "Plan9")
	require.Error(t, err)
	assert.Equal(t, "unknown system: Plan9", err.Error())
}

func TestNameForGOOS(t *testing.T) {
	assert.Equal(t, "Windows", nameForGOOS("windows"))
	assert.Equal(t, "Darwin", nameForGOOS("darwin"))
	assert.Equal(t, "Linux", nameForGOOS("linux"))
	assert.Equal(t, "freebsd", nameForGOOS("freebsd"))
	assert.NotEmpty(t, Detect())
}

func TestTableNames(t *testing.T) {
	assert.Equal(t, []string{"Darwin", "Windows"}, Builtin().Names())
}
