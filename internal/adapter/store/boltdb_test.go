package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stubconv/config"
	"stubconv/internal/domain"
)

func openStore(t *testing.T) *BoltStore {
	t.Helper()
	st, err := NewBoltStore(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestBoltStore_Blocks(t *testing.T) {
	st := openStore(t)

	_, found, err := st.Get("/stubs/Track.js")
	require.NoError(t, err)
	assert.False(t, found)

	block := domain.CachedBlock{
		Path:        "/stubs/Track.js",
		ContentHash: "abc",
		Block:       "declare class Track {\n}\n\n",
		ClassName:   "Track",
		Methods:     2,
	}
	require.NoError(t, st.Put(block))

	got, found, err := st.Get("/stubs/Track.js")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, block, got)

	paths, err := st.Paths()
	require.NoError(t, err)
	assert.Equal(t, []string{"/stubs/Track.js"}, paths)

	require.NoError(t, st.Delete("/stubs/Track.js"))
	_, found, err = st.Get("/stubs/Track.js")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestBoltStore_LastRun(t *testing.T) {
	st := openStore(t)

	stats := domain.ConvertStats{FilesConverted: 3, Classes: 3, Methods: 10}
	require.NoError(t, st.SetLastRun(stats))

	got, err := st.GetLastRun()
	require.NoError(t, err)
	assert.Equal(t, stats, got)
}

func TestBoltStore_Prepare(t *testing.T) {
	st := openStore(t)
	cfg := config.DefaultConfig()

	reason, err := st.Prepare(cfg)
	require.NoError(t, err)
	assert.Empty(t, reason)

	require.NoError(t, st.Put(domain.CachedBlock{Path: "a.js", ContentHash: "1"}))

	// unchanged config keeps the cache
	reason, err = st.Prepare(cfg)
	require.NoError(t, err)
	assert.Empty(t, reason)
	_, found, err := st.Get("a.js")
	require.NoError(t, err)
	assert.True(t, found)

	// a render-relevant change drops it
	cfg.Types.Overrides = map[string]string{"float": "number"}
	reason, err = st.Prepare(cfg)
	require.NoError(t, err)
	assert.Equal(t, "render configuration changed", reason)
	_, found, err = st.Get("a.js")
	require.NoError(t, err)
	assert.False(t, found)

	info, err := st.GetSchemaInfo()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, info.Version)
	assert.Equal(t, ComputeConfigHash(cfg), info.ConfigHash)
}

func TestCheckMigration_NewerSchema(t *testing.T) {
	st := openStore(t)
	require.NoError(t, st.SetSchemaInfo(&SchemaInfo{Version: CurrentSchemaVersion + 1}))

	result, err := st.CheckMigration(config.DefaultConfig())
	require.NoError(t, err)
	assert.True(t, result.NeedsRebuild)
}

func TestComputeConfigHash(t *testing.T) {
	a := config.DefaultConfig()
	b := config.DefaultConfig()
	assert.Equal(t, ComputeConfigHash(a), ComputeConfigHash(b))

	// output location and logging do not affect rendered blocks
	b.Convert.Output = "elsewhere.d.ts"
	b.Logging.Level = "debug"
	assert.Equal(t, ComputeConfigHash(a), ComputeConfigHash(b))

	b.Render.Indent = 2
	assert.NotEqual(t, ComputeConfigHash(a), ComputeConfigHash(b))
}
