package cache

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.t = f.t.Add(d)
}

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)}
}

func exerciseCache(t *testing.T, c Cache, clk *fakeClock) {
	t.Helper()

	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok, "empty cache must miss")

	require.NoError(t, c.Set("k", []byte("body-1")))
	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "body-1", string(got))

	require.NoError(t, c.Set("k", []byte("body-2")))
	got, ok, err = c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "body-2", string(got))

	clk.Advance(59 * time.Minute)
	_, ok, err = c.Get("k")
	require.NoError(t, err)
	assert.True(t, ok, "entry inside TTL")

	require.NoError(t, c.Set("fresh", []byte("x")))
	clk.Advance(time.Minute)
	_, ok, err = c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok, "entry at TTL must not be served")

	n, err := c.Purge()
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 1)

	_, ok, err = c.Get("fresh")
	require.NoError(t, err)
	assert.True(t, ok, "purge keeps fresh entries")
}

func TestMemoryCache(t *testing.T) {
	clk := newClock()
	c := NewMemoryCache(time.Hour, clk.Now)
	exerciseCache(t, c, clk)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_PurgeCounts(t *testing.T) {
	clk := newClock()
	c := NewMemoryCache(time.Minute, clk.Now)
	require.NoError(t, c.Set("a", []byte("1")))
	require.NoError(t, c.Set("b", []byte("2")))
	clk.Advance(2 * time.Minute)
	require.NoError(t, c.Set("c", []byte("3")))

	n, err := c.Purge()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 1, c.Len())
}

func TestMemoryCache_ReturnsCopy(t *testing.T) {
	c := NewMemoryCache(time.Hour, nil)
	body := []byte("abc")
	require.NoError(t, c.Set("k", body))
	body[0] = 'z'

	got, ok, err := c.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", string(got))
}

func TestSQLiteCache(t *testing.T) {
	clk := newClock()
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "cache", "econdash.db"), time.Hour, clk.Now)
	require.NoError(t, err)
	defer c.Close()

	exerciseCache(t, c, clk)
}

func TestSQLiteCache_SurvivesReopen(t *testing.T) {
	clk := newClock()
	path := filepath.Join(t.TempDir(), "econdash.db")

	c, err := NewSQLiteCache(path, time.Hour, clk.Now)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("persisted")))
	require.NoError(t, c.Close())

	c2, err := NewSQLiteCache(path, time.Hour, clk.Now)
	require.NoError(t, err)
	defer c2.Close()

	got, ok, err := c2.Get("k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "persisted", string(got))
}

func TestNew_PicksImplementation(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.IsType(t, &NoopCache{}, c)

	c, err = New(Options{TTL: time.Hour})
	require.NoError(t, err)
	assert.IsType(t, &MemoryCache{}, c)

	c, err = New(Options{TTL: time.Hour, SQLitePath: filepath.Join(t.TempDir(), "c.db")})
	require.NoError(t, err)
	assert.IsType(t, &SQLiteCache{}, c)
	require.NoError(t, c.Close())
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	require.NoError(t, c.Set("k", []byte("v")))
	_, ok, err := c.Get("k")
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := c.Purge()
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestSQLiteCache_ClosedReportsError(t *testing.T) {
	c, err := NewSQLiteCache(filepath.Join(t.TempDir(), "econdash.db"), time.Hour, nil)
	require.NoError(t, err)
	require.NoError(t, c.Set("k", []byte("v")))
	require.NoError(t, c.Close())

	_, ok, err := c.Get("k")
	assert.False(t, ok)
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Set("k", []byte("v")), ErrClosed)
	_, err = c.Purge()
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Close(), ErrClosed)
}
