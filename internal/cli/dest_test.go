package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/popsearch/popsearch/internal/config"
	"github.com/popsearch/popsearch/internal/models"
)

func TestNewDestination(t *testing.T) {
	tests := []struct {
		name    string
		dname   string
		target  string
		kind    string
		wantErr bool
		want    models.Kind
	}{
		{"url", "Google", "https://google.com/?q={query}", "url", false, models.KindURL},
		{"file", "Notes", "/home/me/notes.md", "file", false, models.KindFile},
		{"command alias", "Run", "echo {query}", "cmd", false, models.KindCommand},
		{"missing name", " ", "https://x", "url", true, 0},
		{"missing target", "X", "", "url", true, 0},
		{"url without scheme", "X", "example.com/?q={query}", "url", true, 0},
		{"unknown kind", "X", "https://x", "ftp", true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := newDestination(tt.dname, tt.target, tt.kind, "", "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Kind)
			assert.True(t, d.Enabled)
			assert.Equal(t, models.UnsortedCategory, d.CategoryName())
		})
	}
}

func TestDestCommandsEditCatalog(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())

	flagDestKind, flagDestCategory, flagDestIcon = "url", "Docs", "📘"
	require.NoError(t, runDestAdd(destAddCmd, []string{"Go Docs", "https://pkg.go.dev/search?q={query}"}))

	catalog, err := config.LoadCatalog()
	require.NoError(t, err)
	last := catalog.Destinations[len(catalog.Destinations)-1]
	assert.Equal(t, "Go Docs", last.Name)
	assert.Equal(t, "Docs", last.Category)
	require.NotEmpty(t, last.ID)

	require.NoError(t, runDestSetEnabled(last.ID, false))
	catalog, err = config.LoadCatalog()
	require.NoError(t, err)
	d, ok := catalog.Find(last.ID)
	require.True(t, ok)
	assert.False(t, d.Enabled)

	require.NoError(t, runDestRemove(destRemoveCmd, []string{last.ID}))
	catalog, err = config.LoadCatalog()
	require.NoError(t, err)
	_, ok = catalog.Find(last.ID)
	assert.False(t, ok)

	assert.Error(t, runDestRemove(destRemoveCmd, []string{last.ID}))
	assert.Error(t, runDestSetEnabled("missing", true))
}

func TestDestExportImport(t *testing.T) {
	t.Setenv(config.HomeEnv, t.TempDir())
	flagDestKind, flagDestCategory, flagDestIcon = "file", "", ""
	require.NoError(t, runDestAdd(destAddCmd, []string{"Notes", "/home/me/notes.md"}))

	file := filepath.Join(t.TempDir(), "export.yaml")
	require.NoError(t, runDestExport(destExportCmd, []string{file}))
	exported, err := config.LoadCatalog()
	require.NoError(t, err)

	t.Setenv(config.HomeEnv, t.TempDir())
	require.NoError(t, runDestImport(destImportCmd, []string{file}))
	imported, err := config.LoadCatalog()
	require.NoError(t, err)
	assert.Equal(t, exported.Destinations, imported.Destinations)

	assert.Error(t, runDestImport(destImportCmd, []string{filepath.Join(t.TempDir(), "missing.yaml")}))
}

func TestCategoryOrder(t *testing.T) {
	catalog := &models.Catalog{Destinations: []models.Destination{
		{Name: "a", Category: "Search"},
		{Name: "b"},
		{Name: "c", Category: "AI"},
		{Name: "d", Category: "Search"},
	}}
	assert.Equal(t, []string{"Search", models.UnsortedCategory, "AI"}, categoryOrder(catalog))
}

func TestLaunchRequest(t *testing.T) {
	cmd := rootCmd
	t.Cleanup(func() {
		flagSearch, flagSettings = "", false
		_ = cmd.Flags().Set("search", "")
		cmd.Flags().Lookup("search").Changed = false
	})

	req := launchRequest(cmd)
	assert.Nil(t, req.Search)
	assert.False(t, req.Settings)

	require.NoError(t, cmd.Flags().Set("search", ""))
	require.NoError(t, cmd.Flags().Set("settings", "true"))
	req = launchRequest(cmd)
	require.NotNil(t, req.Search)
	assert.Equal(t, "", *req.Search)
	assert.True(t, req.Settings)
}
