package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

// chdirTemp switches the process into a fresh temp directory for the
// duration of the test, since openStore always roots itself at the CWD.
func chdirTemp(t *testing.T) {
	t.Helper()

	dir := t.TempDir()
	prev, err := os.Getwd()
	require.NoError(t, err)

	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(prev))
	})
}

func TestRunVersion(t *testing.T) {
	require.Equal(t, 0, run([]string{"-V"}))
	require.Equal(t, 0, run([]string{"--version"}))
}

func TestRunNoArgsIsUsageError(t *testing.T) {
	require.Equal(t, 1, run(nil))
}

func TestRunUnknownCommand(t *testing.T) {
	require.Equal(t, 1, run([]string{"frob"}))
}

func TestRunSetGetRoundTrip(t *testing.T) {
	chdirTemp(t)

	require.Equal(t, 0, run([]string{"set", "foo", "bar"}))
	require.Equal(t, 0, run([]string{"get", "foo"}))
}

func TestRunGetMissingKeyExitsZero(t *testing.T) {
	chdirTemp(t)
	require.Equal(t, 0, run([]string{"get", "missing"}))
}

func TestRunRemoveMissingKeyExitsNonZero(t *testing.T) {
	chdirTemp(t)
	require.Equal(t, 1, run([]string{"rm", "missing"}))
}

func TestRunRemoveExistingKeySucceeds(t *testing.T) {
	chdirTemp(t)

	require.Equal(t, 0, run([]string{"set", "foo", "bar"}))
	require.Equal(t, 0, run([]string{"rm", "foo"}))
	require.Equal(t, 1, run([]string{"rm", "foo"}))
}

func TestRunMalformedArgsExitsNonZero(t *testing.T) {
	chdirTemp(t)

	require.Equal(t, 1, run([]string{"set", "onlykey"}))
	require.Equal(t, 1, run([]string{"get"}))
	require.Equal(t, 1, run([]string{"rm"}))
}
