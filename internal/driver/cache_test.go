package driver_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mocheck/internal/driver"
)

func TestOutcomeCacheRoundTrip(t *testing.T) {
	cache, err := driver.NewOutcomeCache(t.TempDir(), "v1")
	require.NoError(t, err)

	src := []byte(mismatchModel)
	_, ok, err := cache.Get(src)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Put("b.mo", src, 1))
	count, ok, err := cache.Get(src)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1, count)

	_, ok, err = cache.Get([]byte(validModel))
	require.NoError(t, err)
	assert.False(t, ok, "different content must miss")
}

func TestOutcomeCacheSaltSeparatesEntries(t *testing.T) {
	dir := t.TempDir()
	v1, err := driver.NewOutcomeCache(dir, "v1")
	require.NoError(t, err)
	v2, err := driver.NewOutcomeCache(dir, "v2")
	require.NoError(t, err)

	require.NoError(t, v1.Put("a.mo", []byte(validModel), 0))
	_, ok, err := v2.Get([]byte(validModel))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOutcomeCacheDropAll(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "cache")
	cache, err := driver.NewOutcomeCache(dir, "v1")
	require.NoError(t, err)
	require.NoError(t, cache.Put("a.mo", []byte(validModel), 0))

	require.NoError(t, cache.DropAll())
	_, ok, err := cache.Get([]byte(validModel))
	require.NoError(t, err)
	assert.False(t, ok)

	_, statErr := os.Stat(dir)
	assert.NoError(t, statErr, "cache dir is recreated")
}

func TestOpenOutcomeCacheHonoursXDG(t *testing.T) {
	base := t.TempDir()
	t.Setenv("XDG_CACHE_HOME", base)

	cache, err := driver.OpenOutcomeCache("mocheck", "v1")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "mocheck"), cache.Dir())
}

func TestNilOutcomeCache(t *testing.T) {
	var cache *driver.OutcomeCache
	require.NoError(t, cache.Put("a.mo", nil, 0))
	_, ok, err := cache.Get(nil)
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, cache.DropAll())
}
