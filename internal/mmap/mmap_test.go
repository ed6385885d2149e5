package mmap

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_ReadClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.dat")
	content := []byte("memory mapped payload")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	for _, pattern := range []AccessPattern{AccessDefault, AccessSequential, AccessWillNeed} {
		m, err := Open(path, pattern)
		require.NoError(t, err)

		assert.Equal(t, len(content), m.Size())
		assert.Equal(t, content, m.Bytes())

		buf := make([]byte, 6)
		n, err := m.ReadAt(buf, 7)
		require.NoError(t, err)
		assert.Equal(t, 6, n)
		assert.Equal(t, "mapped", string(buf))

		require.NoError(t, m.Close())
		require.NoError(t, m.Close())
		assert.Nil(t, m.Bytes())
	}
}

func TestOpen_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.dat")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	m, err := Open(path, AccessSequential)
	require.NoError(t, err)
	defer m.Close()

	assert.Equal(t, 0, m.Size())
	assert.Empty(t, m.Bytes())

	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, io.EOF)
}

func TestOpen_Missing(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope"), AccessDefault)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestReadAt_Bounds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "file.dat")
	require.NoError(t, os.WriteFile(path, []byte("abcd"), 0o600))

	m, err := Open(path, AccessDefault)
	require.NoError(t, err)

	_, err = m.ReadAt(make([]byte, 1), -1)
	assert.ErrorIs(t, err, ErrInvalidOffset)

	n, err := m.ReadAt(make([]byte, 8), 2)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	require.NoError(t, m.Close())
	_, err = m.ReadAt(make([]byte, 1), 0)
	assert.ErrorIs(t, err, ErrClosed)
}
