//go:build integration && !windows

package rod_test

import (
	"syscall"
	"testing"
	"time"

	"github.com/fwojciec/docdex/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBrowserManager_Close_KillsLauncherProcess(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("requires Chrome")
	}

	manager, err := rod.NewBrowserManager()
	require.NoError(t, err)

	pid := manager.LauncherPID()
	require.NotZero(t, pid, "launcher PID should be set")

	// On Unix, FindProcess always succeeds, so signal 0 is used to probe.
	require.NoError(t, syscall.Kill(pid, syscall.Signal(0)), "launcher process should be running before Close()")

	require.NoError(t, manager.Close())
	require.NoError(t, manager.Close(), "second close is a no-op")

	time.Sleep(100 * time.Millisecond)

	assert.Error(t, syscall.Kill(pid, syscall.Signal(0)), "launcher process should be terminated after Close()")
	assert.Zero(t, manager.LauncherPID())
}
