package internal

import (
	"go/token"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tt "github.com/gnolang/fol/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	tmpDir := createTempDir(t, "cache-test")

	cacheDir := filepath.Join(tmpDir, "cache")
	cache, err := NewCache(cacheDir)
	require.NoError(t, err)

	t.Run("SaveAndLoad", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "test.fol")
		writeTestFile(t, filename, "P -> Q\n")

		results := []tt.Result{
			{
				Filename: filename,
				Line:     1,
				Input:    "P -> Q",
				Steps:    []tt.Step{{Transform: "remove-implications", Output: "!P | Q"}},
				Output:   "!P | Q",
			},
		}

		err := cache.Set(filename, results)
		assert.NoError(t, err)

		loaded, found := cache.Get(filename)
		assert.True(t, found)
		assert.Equal(t, results, loaded)

		// a fresh cache reads the same entries back from disk
		reopened, err := NewCache(cacheDir)
		require.NoError(t, err)
		loaded, found = reopened.Get(filename)
		assert.True(t, found)
		assert.Equal(t, results, loaded)
	})

	t.Run("NotFound", func(t *testing.T) {
		_, found := cache.Get("nonexistent.fol")
		assert.False(t, found)
	})

	t.Run("FileModified", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "modified.fol")
		writeTestFile(t, filename, "P\n")

		results := []tt.Result{{
			Filename: filename,
			Line:     1,
			Input:    "P &",
			Issue: &tt.Issue{
				Rule:     "parse-error",
				Filename: filename,
				Message:  "unexpected end of input",
				Start:    token.Position{Line: 1, Column: 4, Filename: filename},
				End:      token.Position{Line: 1, Column: 5, Filename: filename},
			},
		}}
		require.NoError(t, cache.Set(filename, results))

		writeTestFile(t, filename, "Q\n")

		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("Expired", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "expired.fol")
		writeTestFile(t, filename, "P\n")

		require.NoError(t, cache.Set(filename, []tt.Result{{Line: 1, Input: "P", Output: "P"}}))
		cache.SetMaxAge(time.Nanosecond)
		defer cache.SetMaxAge(defaultMaxAge)
		time.Sleep(time.Millisecond)

		_, found := cache.Get(filename)
		assert.False(t, found)
	})

	t.Run("InvalidateAll", func(t *testing.T) {
		filename := filepath.Join(tmpDir, "all.fol")
		writeTestFile(t, filename, "P\n")

		require.NoError(t, cache.Set(filename, []tt.Result{{Line: 1, Input: "P", Output: "P"}}))
		cache.InvalidateAll()

		_, found := cache.Get(filename)
		assert.False(t, found)
	})
}

func TestCacheDependencies(t *testing.T) {
	tmpDir := createTempDir(t, "cache-deps")

	config := filepath.Join(tmpDir, ".fol.yaml")
	writeTestFile(t, config, "name: fol\n")
	filename := filepath.Join(tmpDir, "test.fol")
	writeTestFile(t, filename, "P\n")

	cache, err := NewCache(filepath.Join(tmpDir, "cache"))
	require.NoError(t, err)
	require.NoError(t, cache.SetDependencies(config))

	require.NoError(t, cache.Set(filename, []tt.Result{{Line: 1, Input: "P", Output: "P"}}))
	_, found := cache.Get(filename)
	assert.True(t, found)

	writeTestFile(t, config, "name: fol\npipeline: [negate]\n")
	_, found = cache.Get(filename)
	assert.False(t, found)

	assert.Error(t, cache.SetDependencies(filepath.Join(tmpDir, "missing.yaml")))
}

func TestCacheConcurrency(t *testing.T) {
	tempDir := createTempDir(t, "cache-concurrency-test")

	cache, err := NewCache(filepath.Join(tempDir, "cache"))
	require.NoError(t, err)

	testFile := filepath.Join(tempDir, "test.fol")
	writeTestFile(t, testFile, "A.x P(x)\n")

	results := []tt.Result{{Filename: testFile, Line: 1, Input: "A.x P(x)", Output: "A.x P(x)"}}

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			assert.NoError(t, cache.Set(testFile, results))
		}()
		go func() {
			defer wg.Done()
			_, _ = cache.Get(testFile)
		}()
	}
	wg.Wait()

	loaded, found := cache.Get(testFile)
	assert.True(t, found)
	assert.Equal(t, results, loaded)
}

func writeTestFile(t *testing.T, filename string, content string) {
	t.Helper()
	err := os.WriteFile(filename, []byte(content), 0o644)
	require.NoError(t, err)
}
