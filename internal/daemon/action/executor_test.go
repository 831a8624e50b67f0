package action

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/models"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

type fakeOpener struct {
	urls  []string
	files []string
	err   error
}

func (o *fakeOpener) OpenURL(url string) error {
	o.urls = append(o.urls, url)
	return o.err
}

func (o *fakeOpener) OpenFile(path string) error {
	o.files = append(o.files, path)
	return o.err
}

type fakeSpawner struct {
	mu       sync.Mutex
	spawned  []Invocation
	startErr error
	exitErr  error
	done     chan struct{}
}

func (s *fakeSpawner) Spawn(inv Invocation, done func(error)) error {
	s.mu.Lock()
	s.spawned = append(s.spawned, inv)
	s.mu.Unlock()
	if s.startErr != nil {
		return s.startErr
	}
	go func() {
		done(s.exitErr)
		if s.done != nil {
			close(s.done)
		}
	}()
	return nil
}

type harness struct {
	exec      *Executor
	clipboard *fakeClipboard
	opener    *fakeOpener
	spawner   *fakeSpawner
	dismissed []string
}

func newHarness() *harness {
	h := &harness{
		clipboard: &fakeClipboard{},
		opener:    &fakeOpener{},
		spawner:   &fakeSpawner{},
	}
	h.exec = &Executor{
		Clipboard: h.clipboard,
		Opener:    h.opener,
		Spawner:   h.spawner,
		Dismiss:   func(window string) { h.dismissed = append(h.dismissed, window) },
	}
	return h
}

func TestExecuteURLExpandsQuery(t *testing.T) {
	h := newHarness()

	err := h.exec.Execute(Request{
		Window:      "w1",
		Destination: models.Destination{Name: "Example", Target: "https://example.com/s?q={query}", Kind: models.KindURL},
		Query:       "cats",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/s?q=cats"}, h.opener.urls)
	assert.Equal(t, []string{"w1"}, h.dismissed)
}

func TestExecuteCommandWithoutPlaceholderUsesInterpreter(t *testing.T) {
	h := newHarness()

	err := h.exec.Execute(Request{
		Destination: models.Destination{Name: "Script", Target: `C:\x\y.py`, Kind: models.KindCommand},
		Query:       "a",
	})
	require.NoError(t, err)
	require.Len(t, h.spawner.spawned, 1)
	inv := h.spawner.spawned[0]
	assert.Equal(t, `python "C:\x\y.py"`, inv.String())
	assert.Equal(t, "python", inv.Program)
	assert.Equal(t, []string{`C:\x\y.py`}, inv.Args)
	assert.False(t, inv.Shell)
	assert.Len(t, h.dismissed, 1)
}

func TestExecuteFileOpensTargetAsIs(t *testing.T) {
	h := newHarness()

	err := h.exec.Execute(Request{
		Destination: models.Destination{Name: "Notes", Target: "/home/me/{query}.md", Kind: models.KindFile},
		Query:       "x",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"/home/me/{query}.md"}, h.opener.files)
}

func TestExecuteClipboardFailureStillDispatches(t *testing.T) {
	h := newHarness()
	h.clipboard.err = errors.New("no display")

	err := h.exec.Execute(Request{
		Destination:     models.Destination{Name: "Example", Target: "https://example.com/?q=%s", Kind: models.KindURL},
		Query:           "a b",
		CopyToClipboard: true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://example.com/?q=a%20b"}, h.opener.urls)
	assert.Len(t, h.dismissed, 1)
}

func TestExecuteCopiesQueryFirst(t *testing.T) {
	h := newHarness()

	require.NoError(t, h.exec.Execute(Request{
		Destination:     models.Destination{Target: "https://example.com", Kind: models.KindURL},
		Query:           "copied",
		CopyToClipboard: true,
	}))
	assert.Equal(t, "copied", h.clipboard.text)
}

func TestExecuteDismissesOnFailure(t *testing.T) {
	h := newHarness()
	h.opener.err = errors.New("no handler")

	err := h.exec.Execute(Request{
		Destination: models.Destination{Target: "mailto:{query}", Kind: models.KindURL},
		Query:       "x",
	})
	var targetErr *DispatchTargetError
	require.ErrorAs(t, err, &targetErr)
	assert.Equal(t, "mailto:x", targetErr.Target)
	assert.Len(t, h.dismissed, 1)

	h.spawner.startErr = errors.New("not found")
	err = h.exec.Execute(Request{
		Destination: models.Destination{Target: "missing-tool", Kind: models.KindCommand},
	})
	var spawnErr *SpawnError
	require.ErrorAs(t, err, &spawnErr)
	assert.Len(t, h.dismissed, 2)
}

func TestExecuteDoesNotWaitForExit(t *testing.T) {
	h := newHarness()
	h.spawner.exitErr = errors.New("exit status 1")
	h.spawner.done = make(chan struct{})

	err := h.exec.Execute(Request{
		Destination: models.Destination{Name: "Fails", Target: "false", Kind: models.KindCommand},
	})
	require.NoError(t, err, "exit status is only logged")
	<-h.spawner.done
}

func TestBuildInvocation(t *testing.T) {
	tests := []struct {
		name    string
		target  string
		query   string
		line    string
		shell   bool
		program string
	}{
		{"bare executable", "/usr/bin/gedit", "q", "/usr/bin/gedit", false, "/usr/bin/gedit"},
		{"quoted script", `"/opt/my tools/run.sh"`, "q", `sh "/opt/my tools/run.sh"`, false, "sh"},
		{"placeholder literal", "notify-send {query}", "a b&c", "notify-send a b&c", true, ""},
		{"percent placeholder", "echo %s %s", "x", "echo x x", true, ""},
		{"placeholder with script", `/home/me/find.py --term {query}`, "cats", `python "/home/me/find.py" --term cats`, true, ""},
		{"quoted script placeholder", `"C:\my x\y.ps1" {query}`, "a", `powershell -ExecutionPolicy Bypass -File "C:\my x\y.ps1" a`, true, ""},
		{"command with arguments", "notify-send hello", "q", "notify-send hello", true, ""},
		{"script with arguments", "/home/me/tool.sh --flag x", "q", `sh "/home/me/tool.sh" --flag x`, true, ""},
		{"quoted script with arguments", `"/opt/my tools/run.py" -v`, "q", `python "/opt/my tools/run.py" -v`, true, ""},
		{"unknown extension with arguments", "/opt/app.bin --help", "q", "/opt/app.bin --help", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := BuildInvocation(tt.target, tt.query)
			assert.Equal(t, tt.line, inv.Line)
			assert.Equal(t, tt.shell, inv.Shell)
			if tt.shell {
				require.NotEmpty(t, inv.Args)
				assert.Equal(t, tt.line, inv.Args[len(inv.Args)-1])
			} else {
				assert.Equal(t, tt.program, inv.Program)
			}
		})
	}
}

func TestBuildInvocationExistingPathWithSpaces(t *testing.T) {
	path := filepath.Join(t.TempDir(), "my tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"), 0o755))

	inv := BuildInvocation(path, "q")
	assert.False(t, inv.Shell)
	assert.Equal(t, "sh", inv.Program)
	assert.Equal(t, []string{path}, inv.Args)
}

func TestInterpreterIgnoresCase(t *testing.T) {
	argv, ok := Interpreter(".PY")
	require.True(t, ok)
	assert.Equal(t, []string{"python"}, argv)

	argv, ok = Interpreter(".vbs")
	require.True(t, ok)
	assert.Equal(t, []string{"cscript", "//nologo"}, argv)

	_, ok = Interpreter(".exe")
	assert.False(t, ok)
}

func TestExpandURL(t *testing.T) {
	tests := []struct {
		target, query, want string
	}{
		{"https://x/?q={query}", "cats", "https://x/?q=cats"},
		{"https://x/?q={query}&r={query}", "a&b", "https://x/?q=a%26b&r=a%26b"},
		{"https://x/%s", "it's (ok)*!", "https://x/it's%20(ok)*!"},
		{"https://x/", "ignored", "https://x/"},
		{"https://x/?q={query}", "café/?", "https://x/?q=caf%C3%A9%2F%3F"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ExpandURL(tt.target, tt.query), tt.query)
	}
}
