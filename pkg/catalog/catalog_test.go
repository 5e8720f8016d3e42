package catalog_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/nycfoodgap/foodgap/pkg/catalog"
	_ "github.com/nycfoodgap/foodgap/pkg/dataset/foodgaps"
	_ "github.com/nycfoodgap/foodgap/pkg/dataset/ntas2020"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeCatalog(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "datasets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeCatalog(t, `
datasets:
  - id: ntas_2020
    input: data/raw/ntas_2020.json
  - id: food_supply_gaps
    input: data/raw/food_supply_gaps.json
    enabled: false
`)

	c, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, c.Datasets, 2)
	assert.Empty(t, c.Warnings)

	e, ok := c.Entry("ntas_2020")
	require.True(t, ok)
	assert.True(t, e.IsEnabled())

	e, ok = c.Entry("food_supply_gaps")
	require.True(t, ok)
	assert.False(t, e.IsEnabled())

	enabled := c.Enabled()
	require.Len(t, enabled, 1)
	assert.Equal(t, "ntas_2020", enabled[0].ID)
}

func TestLoadUnknownDatasetWarns(t *testing.T) {
	path := writeCatalog(t, `
datasets:
  - id: subway_entrances
    input: data/raw/subway.json
`)

	c, err := catalog.Load(path)
	require.NoError(t, err)
	require.Len(t, c.Warnings, 1)
	assert.Contains(t, c.Warnings[0], "subway_entrances")
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		errSub  string
	}{
		{
			name:    "empty catalog",
			content: "datasets: []\n",
			errSub:  "no datasets",
		},
		{
			name: "missing id",
			content: `
datasets:
  - input: data/raw/x.json
`,
			errSub: "no id",
		},
		{
			name: "missing input",
			content: `
datasets:
  - id: ntas_2020
`,
			errSub: "no input",
		},
		{
			name: "duplicate id",
			content: `
datasets:
  - id: ntas_2020
    input: a.json
  - id: ntas_2020
    input: b.json
`,
			errSub: "twice",
		},
		{
			name:    "malformed yaml",
			content: "datasets: [unclosed",
			errSub:  "parse",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeCatalog(t, tt.content)
			_, err := catalog.Load(path)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSub)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := catalog.Load("/nonexistent/datasets.yaml")
	require.Error(t, err)
}
