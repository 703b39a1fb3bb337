package catalog_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/HerbHall/cloudadvisor/internal/testutil"
	"github.com/HerbHall/cloudadvisor/pkg/catalog"
)

func TestCatalog_LoadsEmbedded(t *testing.T) {
	c := catalog.NewCatalog()
	entries, err := c.Entries(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Zero(t, c.Skipped(), "embedded catalog should have no malformed entries")

	names := make(map[string]bool, len(entries))
	for _, e := range entries {
		assert.True(t, e.Valid(), "entry %+v invalid", e)
		assert.NotEmpty(t, e.DocsURL, "%s has no docs URL", e.Name)
		assert.False(t, names[e.Name], "duplicate entry %q", e.Name)
		names[e.Name] = true
	}

	for _, want := range []string{"Power BI", "Microsoft Fabric", "Azure Functions", "Azure IoT Hub"} {
		assert.True(t, names[want], "embedded catalog missing %q", want)
	}
}

func TestCatalog_EntriesReturnsCopy(t *testing.T) {
	c := catalog.NewCatalog()
	first, err := c.Entries(context.Background())
	require.NoError(t, err)
	first[0].Name = "mutated"

	second, err := c.Entries(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Name)
}

func TestParse_SkipsMalformed(t *testing.T) {
	data := []byte(`
entries:
  - name: "  Azure Functions  "
    category: Compute
    docs: https://learn.microsoft.com/azure/azure-functions/
  - name: ""
    category: Compute
  - name: Nameless Category
    category: "   "
  - name: Power BI
    category: Analytics
    pros: [Rich visuals]
`)
	entries, skipped, err := catalog.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, 2, skipped)
	require.Len(t, entries, 2)
	assert.Equal(t, "Azure Functions", entries[0].Name)
	assert.Equal(t, []string{"Rich visuals"}, entries[1].Pros)
}

func TestParse_Errors(t *testing.T) {
	_, _, err := catalog.Parse([]byte("entries: [unterminated"))
	require.Error(t, err)

	_, skipped, err := catalog.Parse([]byte("entries:\n  - name: x\n"))
	assert.ErrorIs(t, err, catalog.ErrNoEntries)
	assert.Equal(t, 1, skipped)
}

func TestMarshal_RoundTripsThroughParse(t *testing.T) {
	in := []catalog.Entry{
		testutil.NewEntry("Azure Cosmos DB", catalog.CategoryDatabases,
			testutil.WithPricing("https://azure.microsoft.com/pricing/details/cosmos-db/"),
			testutil.WithOverview("Globally distributed NoSQL.", []string{"Multi-region"}, []string{"Cost"})),
	}
	data, err := catalog.Marshal(in)
	require.NoError(t, err)

	out, skipped, err := catalog.Parse(data)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	assert.Equal(t, in, out)
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")

	data, err := catalog.Marshal(testutil.SmallCatalog())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	entries, err := catalog.NewFileSource(path).Entries(context.Background())
	require.NoError(t, err)
	assert.Len(t, entries, len(testutil.SmallCatalog()))

	_, err = catalog.NewFileSource(filepath.Join(dir, "missing.yaml")).Entries(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestSanitize_CollapsesWhitespace(t *testing.T) {
	kept, skipped := catalog.Sanitize([]catalog.Entry{
		{Name: "  Azure\n\tFunctions ", Category: "AI +\n Machine Learning"},
		{Name: " \n ", Category: "Compute"},
	})
	assert.Equal(t, 1, skipped)
	require.Len(t, kept, 1)
	assert.Equal(t, "Azure Functions", kept[0].Name)
	assert.Equal(t, "AI + Machine Learning", kept[0].Category)
}

func TestFilterByCategory(t *testing.T) {
	entries := testutil.SmallCatalog()
	got := catalog.FilterByCategory(entries, "analytics")
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, catalog.CategoryAnalytics, e.Category)
	}
	assert.Empty(t, catalog.FilterByCategory(entries, "nonexistent"))
}

func TestCategories_FirstSeenOrder(t *testing.T) {
	got := catalog.Categories([]catalog.Entry{
		{Name: "a", Category: "Storage"},
		{Name: "b", Category: "Compute"},
		{Name: "c", Category: "Storage"},
	})
	assert.Equal(t, []string{"Storage", "Compute"}, got)
}

func TestSourceFunc(t *testing.T) {
	var src catalog.Source = catalog.SourceFunc(func(context.Context) ([]catalog.Entry, error) {
		return testutil.SmallCatalog(), nil
	})
	entries, err := src.Entries(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}
