package logger

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rotatedFiles(t *testing.T, logFile string) []string {
	t.Helper()
	matches, err := filepath.Glob(logFile + ".*")
	require.NoError(t, err)
	return matches
}

func TestNewRotatingWriter(t *testing.T) {
	t.Run("creates the file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")

		rw, err := NewRotatingWriter(logFile, 10, 7)
		require.NoError(t, err)
		defer rw.Close()

		_, err = os.Stat(logFile)
		assert.NoError(t, err)
	})

	t.Run("creates missing directories", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "nested", "dir", "test.log")

		rw, err := NewRotatingWriter(logFile, 10, 7)
		require.NoError(t, err)
		defer rw.Close()

		_, err = os.Stat(filepath.Dir(logFile))
		assert.NoError(t, err)
	})

	t.Run("appends to an existing file", func(t *testing.T) {
		logFile := filepath.Join(t.TempDir(), "test.log")
		require.NoError(t, os.WriteFile(logFile, []byte("existing\n"), 0644))

		rw, err := NewRotatingWriter(logFile, 10, 7)
		require.NoError(t, err)
		_, err = rw.Write([]byte("appended\n"))
		require.NoError(t, err)
		require.NoError(t, rw.Close())

		content, err := os.ReadFile(logFile)
		require.NoError(t, err)
		assert.Equal(t, "existing\nappended\n", string(content))
	})
}

func TestRotatingWriterRotates(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(logFile, 1, 0)
	require.NoError(t, err)
	defer rw.Close()

	rw.maxSize = 32

	_, err = rw.Write([]byte(strings.Repeat("a", 20) + "\n"))
	require.NoError(t, err)
	assert.Empty(t, rotatedFiles(t, logFile))

	_, err = rw.Write([]byte(strings.Repeat("b", 20) + "\n"))
	require.NoError(t, err)

	rotated := rotatedFiles(t, logFile)
	require.Len(t, rotated, 1)

	old, err := os.ReadFile(rotated[0])
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("a", 20)+"\n", string(old))

	current, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("b", 20)+"\n", string(current))
}

func TestRotatingWriterPrunesOldFiles(t *testing.T) {
	dir := t.TempDir()
	logFile := filepath.Join(dir, "test.log")

	stale := logFile + ".20200101-000000.000"
	fresh := logFile + ".20990101-000000.000"
	unrelated := filepath.Join(dir, "other.log.20200101-000000.000")
	for _, path := range []string{stale, fresh, unrelated} {
		require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	}
	old := time.Now().Add(-30 * 24 * time.Hour)
	require.NoError(t, os.Chtimes(stale, old, old))
	require.NoError(t, os.Chtimes(unrelated, old, old))

	rw, err := NewRotatingWriter(logFile, 10, 7)
	require.NoError(t, err)
	defer rw.Close()

	assert.NoFileExists(t, stale)
	assert.FileExists(t, fresh)
	assert.FileExists(t, unrelated)
}

func TestRotatingWriterClose(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(logFile, 10, 7)
	require.NoError(t, err)

	require.NoError(t, rw.Close())
	require.NoError(t, rw.Close())

	_, err = rw.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestRotatingWriterConcurrentWrites(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "test.log")

	rw, err := NewRotatingWriter(logFile, 10, 0)
	require.NoError(t, err)

	line := []byte("0123456789\n")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 10; j++ {
				_, _ = rw.Write(line)
			}
		}()
	}
	wg.Wait()
	require.NoError(t, rw.Close())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Len(t, content, 200*len(line))
}
