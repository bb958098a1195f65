package taxonomy

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Contains(t, cat.Categories.Expand("Markets"), "Markets — Sales")
	assert.Equal(t, []string{"Audit"}, cat.Categories.Expand("audit"))
	assert.Equal(t, []string{"africa", "americas", "asia", "europe", "oceania"}, cat.Continents.Keys())

	europe, ok := cat.Continents.Codes("europe")
	require.True(t, ok)
	assert.Contains(t, europe, "FR")
	assert.Contains(t, europe, "NO")
}

func writeCatalog(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taxonomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_File(t *testing.T) {
	path := writeCatalog(t, `
groups:
  - name: Desk
    children:
      - name: Flow
continents:
  europe: [fr]
`)
	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Desk — Flow"}, cat.Categories.Expand("desk"))

	codes, ok := cat.Continents.Codes("europe")
	require.True(t, ok)
	assert.Equal(t, []string{"FR"}, codes)
}

func TestLoad_Failures(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "malformed yaml", body: "groups: [\n"},
		{name: "no groups", body: "continents:\n  europe: [FR]\n"},
		{name: "unnamed group", body: "groups:\n  - children: [{name: X}]\ncontinents:\n  europe: [FR]\n"},
		{name: "no continents", body: "groups:\n  - name: Audit\n"},
		{name: "bad country code", body: "groups:\n  - name: Audit\ncontinents:\n  europe: [FRA]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeCatalog(t, tt.body))
			assert.Error(t, err)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
