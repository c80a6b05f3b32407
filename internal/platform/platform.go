// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package platform maps host platform names to input/output directories
// and the converter executable, and resolves the entry for the running host.
package platform

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/pdiddy/meshwatch/pkg/types"
)

// Configuration errors. Resolve wraps one of these so callers can tell the
// kinds apart with errors.Is.
var (
	ErrUnknownPlatform  = errors.New("unknown system")
	ErrMissingDirectory = errors.New("unable to find directory")
	ErrMissingConverter = errors.New("unable to find converter")
)

// Table maps platform names to their settings.
type Table map[string]types.PlatformSettings

// Builtin returns the table used when the configuration does not provide one.
// Darwin has no directories configured and fails resolution.
func Builtin() Table {
	return Table{
		"Windows": {
			InputDir:  "d:/onedrive/tano/c4d",
			OutputDir: "d:/projects/tano/gfx",
			Converter: "D:/projects/melange_exporter/_win32/Release/exporter.exe",
		},
		"Darwin": {},
	}
}

// Names returns the platform names in the table, sorted.
func (t Table) Names() []string {
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// lookup finds name in the table. Names are compared without regard to case
// because configuration keys arrive case-folded.
func (t Table) lookup(name string) (types.PlatformSettings, bool) {
	if s, ok := t[name]; ok {
		return s, true
	}
	for k, s := range t {
		if strings.EqualFold(k, name) {
			return s, true
		}
	}
	return types.PlatformSettings{}, false
}

// Detect returns the platform name of the running host in the form used by
// the table keys: Windows, Darwin, Linux, or GOOS verbatim for anything else.
func Detect() string {
	return nameForGOOS(runtime.GOOS)
}

func nameForGOOS(goos string) string {
	switch goos {
	case "windows":
		return "Windows"
	case "darwin":
		return "Darwin"
	case "linux":
		return "Linux"
	default:
		return goos
	}
}

// Resolve selects the settings for name and checks that they are usable.
// The returned directories and converter path are absolute and cleaned.
func Resolve(t Table, name string) (types.PlatformSettings, error) {
	s, ok := t.lookup(name)
	if !ok {
		return types.PlatformSettings{}, fmt.Errorf("%w: %s", ErrUnknownPlatform, name)
	}

	if s.InputDir == "" || s.OutputDir == "" {
		return types.PlatformSettings{}, fmt.Errorf("%w; input: %s, output: %s",
			ErrMissingDirectory, orNone(s.InputDir), orNone(s.OutputDir))
	}

	inputDir, err := existingDir(s.InputDir)
	if err != nil {
		return types.PlatformSettings{}, err
	}
	outputDir, err := existingDir(s.OutputDir)
	if err != nil {
		return types.PlatformSettings{}, err
	}

	if s.Converter == "" {
		return types.PlatformSettings{}, ErrMissingConverter
	}
	conv := s.Converter
	if hasSeparator(conv) {
		if conv, err = filepath.Abs(conv); err != nil {
			return types.PlatformSettings{}, fmt.Errorf("%w: %s: %v", ErrMissingConverter, s.Converter, err)
		}
	}

	return types.PlatformSettings{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Converter: conv,
	}, nil
}

// existingDir normalizes dir and checks that it is a directory.
func existingDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMissingDirectory, dir, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrMissingDirectory, abs, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrMissingDirectory, abs)
	}
	return abs, nil
}

// hasSeparator reports whether path names a location rather than a bare
// executable name. A backslash only counts on Windows.
func hasSeparator(path string) bool {
	if strings.ContainsRune(path, '/') {
		return true
	}
	return filepath.Separator == '\\' && strings.ContainsRune(path, '\\')
}

func orNone(s string) string {
	if s == "" {
		return "None"
	}
	return s
}
