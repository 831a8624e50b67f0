package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/config"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		path string
		want EventType
		ok   bool
	}{
		{"/x/" + config.CatalogFileName, EventCatalogChanged, true},
		{"/x/" + config.SettingsFileName, EventSettingsChanged, true},
		{"/x/" + config.InstanceFileName, 0, false},
		{"/x/.catalog.yaml.tmp123", 0, false},
	}
	for _, tt := range tests {
		got, ok := classify(tt.path)
		assert.Equal(t, tt.ok, ok, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}
}

func TestBurstOfWritesEmitsOneEvent(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	path := filepath.Join(dir, config.CatalogFileName)
	for i := range 5 {
		require.NoError(t, os.WriteFile(path, []byte{byte('a' + i)}, 0o644))
	}

	select {
	case ev := <-w.Events():
		assert.Equal(t, EventCatalogChanged, ev.Type)
		assert.Equal(t, path, ev.Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no event")
	}

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected second event %+v", ev)
	case <-time.After(3 * DebounceInterval):
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	w, err := New(dir)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	defer w.Stop()

	require.NoError(t, os.WriteFile(filepath.Join(dir, config.InstanceFileName), []byte("x"), 0o644))

	select {
	case ev := <-w.Events():
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(3 * DebounceInterval):
	}
}
