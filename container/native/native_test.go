package native

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/arraybench/container"
	"github.com/hupe1980/arraybench/persistence"
)

func writeDataset(t *testing.T, b *Backend, path, name string, data []float64) {
	t.Helper()

	f, err := b.CreateFile(path)
	require.NoError(t, err)
	writeDatasetTo(t, b, f, name, data)
	require.NoError(t, b.Close(f))
}

func writeDatasetTo(t *testing.T, b *Backend, f container.ID, name string, data []float64) {
	t.Helper()

	space, err := b.CreateDataspace([]uint64{uint64(len(data))})
	require.NoError(t, err)
	ds, err := b.CreateDataset(f, name, container.Float64, space)
	require.NoError(t, err)
	require.NoError(t, b.Write(ds, data))

	require.NoError(t, b.Close(ds))
	require.NoError(t, b.Close(space))
}

func readDataset(t *testing.T, b *Backend, path, name string) []float64 {
	t.Helper()

	f, err := b.OpenFile(path)
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close(f)) }()

	ds, err := b.OpenDataset(f, name)
	require.NoError(t, err)
	defer func() { require.NoError(t, b.Close(ds)) }()

	dims, err := b.Extent(ds)
	require.NoError(t, err)
	out := make([]float64, container.Elements(dims))
	require.NoError(t, b.Read(ds, out))
	return out
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data []float64
	}{
		{"five", []float64{1, 2, 3, 4, 5}},
		{"empty", []float64{}},
		{"special", []float64{math.NaN(), math.Inf(1), math.Copysign(0, -1), math.MaxFloat64}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New()
			path := filepath.Join(t.TempDir(), "file.h5")

			writeDataset(t, b, path, "/mydata", tt.data)
			got := readDataset(t, b, path, "mydata")

			require.Len(t, got, len(tt.data))
			for i := range tt.data {
				assert.Equal(t, math.Float64bits(tt.data[i]), math.Float64bits(got[i]), "index %d", i)
			}
			assert.Equal(t, 0, b.objects.Len(), "identifiers leaked")
		})
	}
}

func TestLayout(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")
	writeDataset(t, b, path, "/mydata", []float64{1, 2, 3, 4, 5})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	h, err := persistence.DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(persistence.HeaderSize+40), h.DirOffset)
	assert.Equal(t, uint64(len(raw)), h.DirOffset+h.DirLength)
	assert.Contains(t, string(raw[h.DirOffset:]), `"name":"/mydata"`)
	assert.Contains(t, string(raw[h.DirOffset:]), `"dims":[5]`)
}

func TestEmptyDataset_Size(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")
	writeDataset(t, b, path, "/mydata", nil)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	h, err := persistence.DecodeHeader(raw)
	require.NoError(t, err)
	assert.Equal(t, uint64(persistence.HeaderSize), h.DirOffset, "no payload bytes")
}

func TestUnwrittenDatasetReadsZeros(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")

	space, err := b.CreateDataspace([]uint64{3})
	require.NoError(t, err)
	f, err := b.CreateFile(path)
	require.NoError(t, err)
	_, err = b.CreateDataset(f, "zeros", container.Float64, space)
	require.NoError(t, err)
	require.NoError(t, b.Close(f))

	assert.Equal(t, []float64{0, 0, 0}, readDataset(t, b, path, "/zeros"))
}

func TestCorruptPayload(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")
	writeDataset(t, b, path, "/mydata", []float64{1, 2, 3})

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	raw[persistence.HeaderSize] ^= 0xff
	require.NoError(t, os.WriteFile(path, raw, 0o600))

	f, err := b.OpenFile(path)
	require.NoError(t, err)
	defer b.Close(f)
	ds, err := b.OpenDataset(f, "/mydata")
	require.NoError(t, err)

	err = b.Read(ds, make([]float64, 3))
	assert.ErrorIs(t, err, container.ErrCorrupt)
}

func TestOpenFile_Errors(t *testing.T) {
	b := New()
	dir := t.TempDir()

	id, err := b.OpenFile(filepath.Join(dir, "missing"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.False(t, id.Valid())

	garbage := filepath.Join(dir, "garbage")
	require.NoError(t, os.WriteFile(garbage, []byte("not a container at all, definitely"), 0o600))
	id, err = b.OpenFile(garbage)
	require.ErrorIs(t, err, container.ErrCorrupt)
	assert.False(t, id.Valid())

	// A file whose writer never closed it has no header.
	unclosed := filepath.Join(dir, "unclosed")
	fid, err := b.CreateFile(unclosed)
	require.NoError(t, err)
	_, err = b.OpenFile(unclosed)
	assert.ErrorIs(t, err, container.ErrCorrupt)
	require.NoError(t, b.Close(fid))
}

func TestIdentifierChecks(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")

	space, err := b.CreateDataspace([]uint64{2})
	require.NoError(t, err)
	f, err := b.CreateFile(path)
	require.NoError(t, err)
	defer b.Close(f)

	_, err = b.CreateDataset(space, "x", container.Float64, space)
	assert.ErrorIs(t, err, container.ErrInvalidID)

	_, err = b.CreateDataset(f, "x", container.Float64, container.ID(999))
	assert.ErrorIs(t, err, container.ErrInvalidID)

	_, err = b.CreateDataset(f, "x", container.Datatype(42), space)
	assert.ErrorIs(t, err, container.ErrUnsupportedType)

	ds, err := b.CreateDataset(f, "x", container.Float64, space)
	require.NoError(t, err)
	_, err = b.CreateDataset(f, "/x", container.Float64, space)
	assert.ErrorIs(t, err, container.ErrExists)

	assert.ErrorIs(t, b.Write(ds, []float64{1}), container.ErrShape)
	assert.ErrorIs(t, b.Write(f, []float64{1, 2}), container.ErrInvalidID)

	_, err = b.OpenDataset(f, "nope")
	assert.ErrorIs(t, err, container.ErrNotFound)

	require.NoError(t, b.Close(ds))
	assert.ErrorIs(t, b.Close(ds), container.ErrInvalidID)
}

func TestCreateDataset_Oversized(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")

	f, err := b.CreateFile(path)
	require.NoError(t, err)

	for _, dims := range [][]uint64{
		{1 << 61},
		{1 << 60},
		{1 << 32, 1 << 32},
		{math.MaxUint64},
	} {
		space, err := b.CreateDataspace(dims)
		require.NoError(t, err)
		id, err := b.CreateDataset(f, "big", container.Float64, space)
		assert.ErrorIs(t, err, container.ErrShape, "dims=%v", dims)
		assert.False(t, id.Valid())
		require.NoError(t, b.Close(space))
	}

	writeDatasetTo(t, b, f, "/mydata", []float64{1, 2})
	require.NoError(t, b.Close(f))

	assert.Equal(t, []float64{1, 2}, readDataset(t, b, path, "/mydata"))
}

func TestReadOnly(t *testing.T) {
	b := New()
	path := filepath.Join(t.TempDir(), "file.h5")
	writeDataset(t, b, path, "/mydata", []float64{7})

	f, err := b.OpenFile(path)
	require.NoError(t, err)
	defer b.Close(f)

	ds, err := b.OpenDataset(f, "/mydata")
	require.NoError(t, err)
	assert.ErrorIs(t, b.Write(ds, []float64{8}), container.ErrReadOnly)

	space, err := b.CreateDataspace([]uint64{1})
	require.NoError(t, err)
	_, err = b.CreateDataset(f, "other", container.Float64, space)
	assert.ErrorIs(t, err, container.ErrReadOnly)
}
