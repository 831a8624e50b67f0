package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/models"
)

func TestGlobalDirHonorsEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	got, err := GlobalDir()
	require.NoError(t, err)
	assert.Equal(t, dir, got)

	sock, err := GlobalSocketFile()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, SocketFileName), sock)
}

func TestLoadCatalogDefaultsAssignsIDs(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	catalog, err := LoadCatalog()
	require.NoError(t, err)
	require.Len(t, catalog.Destinations, 40)

	seen := make(map[string]bool)
	for _, d := range catalog.Destinations {
		require.NotEmpty(t, d.ID, d.Name)
		assert.False(t, seen[d.ID], "duplicate id %s", d.ID)
		seen[d.ID] = true
		assert.Equal(t, models.KindURL, d.Kind)
		assert.True(t, d.Enabled)
	}
}

func TestLoadCatalogPersistsAssignedIDs(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	first, err := LoadCatalog()
	require.NoError(t, err)
	second, err := LoadCatalog()
	require.NoError(t, err)

	require.Len(t, second.Destinations, len(first.Destinations))
	for i := range first.Destinations {
		assert.Equal(t, first.Destinations[i].ID, second.Destinations[i].ID)
	}
}

func TestLoadCatalogConcurrentFirstRunAgrees(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	const loaders = 8
	results := make([]*models.Catalog, loaders)
	errs := make([]error, loaders)
	var wg sync.WaitGroup
	for i := 0; i < loaders; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = LoadCatalog()
		}(i)
	}
	wg.Wait()

	onDisk, err := LoadCatalog()
	require.NoError(t, err)
	for i := range results {
		require.NoError(t, errs[i])
		require.Len(t, results[i].Destinations, len(onDisk.Destinations))
		for j, d := range results[i].Destinations {
			assert.Equal(t, onDisk.Destinations[j].ID, d.ID, d.Name)
		}
	}
}

func TestCreateYAMLKeepsExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.yaml")

	created, err := CreateYAML(path, map[string]string{"a": "first"})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = CreateYAML(path, map[string]string{"a": "second"})
	require.NoError(t, err)
	assert.False(t, created)

	var got map[string]string
	require.NoError(t, LoadYAML(path, &got))
	assert.Equal(t, "first", got["a"])

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestSaveCatalogRoundTripKeepsIDsAndKinds(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	catalog := &models.Catalog{
		Version: 1,
		Destinations: []models.Destination{
			{Name: "Notes", Target: "/home/me/notes.md", Kind: models.KindFile, Enabled: true},
			{Name: "Script", Target: "C:\\x\\y.py", Kind: models.KindCommand, Enabled: false, Category: "Tools"},
		},
	}
	require.NoError(t, SaveCatalog(catalog))
	id := catalog.Destinations[0].ID
	require.NotEmpty(t, id)

	loaded, err := LoadCatalog()
	require.NoError(t, err)
	require.Len(t, loaded.Destinations, 2)
	assert.Equal(t, id, loaded.Destinations[0].ID)
	assert.Equal(t, models.KindFile, loaded.Destinations[0].Kind)
	assert.Equal(t, models.KindCommand, loaded.Destinations[1].Kind)
	assert.Equal(t, models.UnsortedCategory, loaded.Destinations[0].CategoryName())
}

func TestLoadCatalogRejectsUnknownKind(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	data := "version: 1\ndestinations:\n  - name: x\n    target: y\n    kind: telnet\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFileName), []byte(data), 0o644))

	_, err := LoadCatalog()
	assert.Error(t, err)
}

func TestLoadSettingsNormalizesPartialFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)

	data := "trigger:\n  port: 50000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(data), 0o644))

	settings, err := LoadSettings()
	require.NoError(t, err)
	assert.Equal(t, 50000, settings.Trigger.Port)
	assert.Equal(t, 400, settings.Overlay.Width)
	assert.Equal(t, 8, settings.Appearance.IconsPerRow)
	assert.NotEmpty(t, settings.Terminal.Command)
}

func TestInstanceInfoLifecycle(t *testing.T) {
	t.Setenv(HomeEnv, t.TempDir())

	info, err := LoadInstanceInfo()
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, SaveInstanceInfo(models.NewInstanceInfo("/tmp/p.sock", "127.0.0.1:49152", 42)))
	info, err = LoadInstanceInfo()
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, 42, info.PID)
	assert.Equal(t, "/tmp/p.sock", info.Socket)

	require.NoError(t, RemoveInstanceInfo())
	require.NoError(t, RemoveInstanceInfo())
}
