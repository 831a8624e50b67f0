package companion

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireUnix(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("uses POSIX utilities")
	}
	for _, name := range []string{"sleep", "sh"} {
		if _, err := exec.LookPath(name); err != nil {
			t.Skipf("%s not available", name)
		}
	}
}

func TestStartEmptyIsNoop(t *testing.T) {
	var p Process
	require.NoError(t, p.Start(nil, nil))
	assert.False(t, p.Running())
	assert.Zero(t, p.PID())
	assert.NoError(t, p.Stop())
}

func TestStartMissingProgram(t *testing.T) {
	var p Process
	err := p.Start([]string{filepath.Join(t.TempDir(), "missing")}, nil)
	require.Error(t, err)
	assert.False(t, p.Running())
}

func TestStartStop(t *testing.T) {
	requireUnix(t)
	var p Process
	require.NoError(t, p.Start([]string{"sleep", "30"}, nil))
	require.True(t, p.Running())
	pid := p.PID()

	// A second start keeps the running process.
	require.NoError(t, p.Start([]string{"sleep", "30"}, nil))
	assert.Equal(t, pid, p.PID())

	require.NoError(t, p.Stop())
	assert.False(t, p.Running())
	assert.NoError(t, p.Stop())
}

func TestExitOnItsOwn(t *testing.T) {
	requireUnix(t)
	var p Process
	require.NoError(t, p.Start([]string{"sh", "-c", "exit 3"}, nil))
	require.Eventually(t, func() bool { return !p.Running() }, 5*time.Second, 10*time.Millisecond)
	assert.NoError(t, p.Stop())
}

func TestUpdateRestartsOnChange(t *testing.T) {
	requireUnix(t)
	var p Process
	t.Cleanup(func() { _ = p.Stop() })

	require.NoError(t, p.Update([]string{"sleep", "30"}, nil))
	first := p.PID()
	require.NotZero(t, first)

	require.NoError(t, p.Update([]string{"sleep", "30"}, nil))
	assert.Equal(t, first, p.PID())

	require.NoError(t, p.Update([]string{"sleep", "31"}, nil))
	assert.NotEqual(t, first, p.PID())
	assert.True(t, p.Running())

	require.NoError(t, p.Update(nil, nil))
	assert.False(t, p.Running())
}

func TestScriptRunsUnderInterpreterWithEnv(t *testing.T) {
	requireUnix(t)
	dir := t.TempDir()
	script := filepath.Join(dir, "hotkey.sh")
	out := filepath.Join(dir, "addr")
	require.NoError(t, os.WriteFile(script, []byte("echo \"$"+AddrEnv+"\" > \"$1\"\n"), 0o644))

	var p Process
	t.Cleanup(func() { _ = p.Stop() })
	require.NoError(t, p.Start([]string{script, out}, []string{AddrEnv + "=127.0.0.1:7865"}))

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(out)
		return err == nil && strings.TrimSpace(string(data)) == "127.0.0.1:7865"
	}, 5*time.Second, 10*time.Millisecond)
}
