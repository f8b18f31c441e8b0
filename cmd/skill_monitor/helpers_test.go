package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/skill-monitor/internal/config"
)

func withConfig(t *testing.T, c config.Config) {
	t.Helper()
	prev := cfg
	cfg = &c
	t.Cleanup(func() { cfg = prev })
}

func TestListingPaths(t *testing.T) {
	withConfig(t, config.Config{Listings: "data/listings"})

	paths, err := listingPaths([]string{"a.csv", "b.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.json"}, paths)

	paths, err = listingPaths(nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"data/listings"}, paths)
}

func TestListingPaths_NoCorpus(t *testing.T) {
	withConfig(t, config.Config{})

	_, err := listingPaths(nil)
	assert.ErrorContains(t, err, "no listing corpus")
}

func TestSnapshotPath(t *testing.T) {
	withConfig(t, config.Config{OutputDir: "out"})

	assert.Equal(t, "custom.json", snapshotPath("custom.json"))
	assert.Equal(t, filepath.Join("out", "market_snapshot.json"), snapshotPath(""))
}

func TestSortedKeys(t *testing.T) {
	assert.Equal(t, []string{"ana", "luis", "zoe"}, sortedKeys(map[string]int{"zoe": 1, "ana": 2, "luis": 3}))
	assert.Empty(t, sortedKeys(map[string]error{}))
}
