package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	cases := map[string]log.Level{
		"DEBUG":   log.DebugLevel,
		"debug":   log.DebugLevel,
		"INFO":    log.InfoLevel,
		"WARNING": log.WarnLevel,
		"warn":    log.WarnLevel,
		"ERROR":   log.ErrorLevel,
	}
	for in, want := range cases {
		got, err := parseLogLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
}

func TestParseLogLevelUnknown(t *testing.T) {
	_, err := parseLogLevel("LOUD")
	require.Error(t, err)
}

func TestValidateFlags(t *testing.T) {
	require.NoError(t, validateFlags(Config{List: true}))
	require.NoError(t, validateFlags(Config{Dashboards: []string{"custom-report"}}))
	require.Error(t, validateFlags(Config{List: true, Dashboards: []string{"custom-report"}}))
}

func TestOpenLogFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "export.log")
	require.NoError(t, os.WriteFile(path, []byte("first\n"), 0o644))

	f := openLogFile(path)
	require.NotNil(t, f)
	_, err := f.WriteString("second\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "first\nsecond\n", string(data))
}

func TestOpenLogFileFailure(t *testing.T) {
	require.Nil(t, openLogFile(filepath.Join(t.TempDir(), "missing", "export.log")))
}
