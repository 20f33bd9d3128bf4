package log

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRotatingFile_Rotates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "webcreds.log")

	rf, err := NewRotatingFile(path, 10, 2)
	require.NoError(t, err)
	defer rf.Close()

	for _, line := range []string{"aaaaaaaa\n", "bbbbbbbb\n", "cccccccc\n", "dddddddd\n"} {
		_, err := rf.Write([]byte(line))
		require.NoError(t, err)
	}

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "dddddddd\n", string(current))

	b1, err := os.ReadFile(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, "cccccccc\n", string(b1))

	b2, err := os.ReadFile(path + ".2")
	require.NoError(t, err)
	assert.Equal(t, "bbbbbbbb\n", string(b2))

	_, err = os.Stat(path + ".3")
	assert.True(t, os.IsNotExist(err))
}

func TestRotatingFile_Permissions(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webcreds.log")
	rf, err := NewRotatingFile(path, 1024, 1)
	require.NoError(t, err)
	require.NoError(t, rf.Close())

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestRotatingFile_NoBackups(t *testing.T) {
	path := filepath.Join(t.TempDir(), "webcreds.log")
	rf, err := NewRotatingFile(path, 4, 0)
	require.NoError(t, err)
	defer rf.Close()

	_, err = rf.Write([]byte("one\n"))
	require.NoError(t, err)
	_, err = rf.Write([]byte("two\n"))
	require.NoError(t, err)

	current, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "two\n", string(current))
	_, err = os.Stat(path + ".1")
	assert.True(t, os.IsNotExist(err))
}

func TestRotatingFile_Closed(t *testing.T) {
	rf, err := NewRotatingFile(filepath.Join(t.TempDir(), "x.log"), 10, 1)
	require.NoError(t, err)
	require.NoError(t, rf.Close())
	require.NoError(t, rf.Close())

	_, err = rf.Write([]byte("late"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestNewRotatingFile_BadSize(t *testing.T) {
	_, err := NewRotatingFile(filepath.Join(t.TempDir(), "x.log"), 0, 1)
	assert.Error(t, err)
}
