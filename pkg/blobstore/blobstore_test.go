package blobstore

import (
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/membuf/pkg/membuf"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func finalizedBuffer(t *testing.T) []byte {
	t.Helper()
	w := membuf.NewWriter()
	w.AddString(0, "Earth")
	w.AddInt32(1, 100)
	return w.Finalize()
}

func TestStore_CreateAndRead(t *testing.T) {
	store := newTestStore(t)

	buf := finalizedBuffer(t)
	id, err := store.Create(buf)
	require.NoError(t, err)
	require.NotNil(t, id)

	got, err := store.Read(id)
	require.NoError(t, err)
	assert.Equal(t, buf, got)
}

func TestStore_Reader(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create(finalizedBuffer(t))
	require.NoError(t, err)

	r, err := store.Reader(id)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	name, err := r.LoadString(0)
	require.NoError(t, err)
	assert.Equal(t, "Earth", name)

	value, err := r.LoadInt32(1)
	require.NoError(t, err)
	assert.Equal(t, int32(100), value)
}

func TestStore_RejectsUnparseableBlob(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Create([]byte{1, 2, 3})
	require.Error(t, err)
	assert.ErrorIs(t, err, membuf.ErrMalformedHeader)
}

func TestStore_ReadUnknownID(t *testing.T) {
	store := newTestStore(t)

	id := ksuid.New()
	_, err := store.Read(&id)
	assert.ErrorIs(t, err, ErrBlobNotFound)

	_, err = store.Reader(&id)
	assert.ErrorIs(t, err, ErrBlobNotFound)
}

func TestStore_Stats(t *testing.T) {
	store := newTestStore(t)

	st, err := store.Stats()
	require.NoError(t, err)
	assert.Zero(t, st.Blobs)
	assert.Zero(t, st.BlobBytes)

	buf := finalizedBuffer(t)
	id, err := store.Create(buf)
	require.NoError(t, err)
	_, err = store.Create(buf)
	require.NoError(t, err)

	st, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, st.Blobs)
	assert.Equal(t, int64(2*len(buf)), st.BlobBytes)

	require.NoError(t, store.Delete(id))

	st, err = store.Stats()
	require.NoError(t, err)
	assert.Equal(t, 1, st.Blobs)
	assert.Equal(t, int64(len(buf)), st.BlobBytes)
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	id, err := store.Create(finalizedBuffer(t))
	require.NoError(t, err)

	require.NoError(t, store.Delete(id))

	_, err = store.Read(id)
	assert.ErrorIs(t, err, ErrBlobNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, store.Delete(id))
}
