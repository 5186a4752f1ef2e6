// Package blobstore persists finalized membuf buffers in a local pebble
// database, keyed by generated ksuid identifiers. Buffers are validated on
// the way in and handed back as lazy readers on the way out.
package blobstore

import (
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/membuf/pkg/membuf"
)

// ErrBlobNotFound is returned when no blob exists under the requested id.
var ErrBlobNotFound = errors.New("blobstore: blob not found")

// Store keeps finalized buffers in a pebble database.
type Store struct {
	db *pebble.DB
}

// Open opens (or creates) a store at path.
func Open(path string) (*Store, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("open blob store: %w", err)
	}
	return &Store{db: db}, nil
}

// Create stores data under a fresh id. The buffer must parse: a blob that
// cannot be read back has no business being stored.
func (s *Store) Create(data []byte) (*ksuid.KSUID, error) {
	if _, err := membuf.NewReader(data); err != nil {
		return nil, fmt.Errorf("rejecting blob: %w", err)
	}

	id := ksuid.New()
	if err := s.db.Set(id.Bytes(), data, pebble.NoSync); err != nil {
		return nil, fmt.Errorf("store blob %s: %w", id, err)
	}
	return &id, nil
}

// Read returns the stored buffer bytes. The returned slice is an owned
// copy; pebble reclaims its view once the lookup closes.
func (s *Store) Read(id *ksuid.KSUID) ([]byte, error) {
	data, closer, err := s.db.Get(id.Bytes())
	if err != nil {
		if errors.Is(err, pebble.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, id)
		}
		return nil, fmt.Errorf("read blob %s: %w", id, err)
	}
	defer closer.Close()

	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Reader returns a lazy reader over the stored buffer. The reader owns its
// backing bytes and can be used after the store is closed.
func (s *Store) Reader(id *ksuid.KSUID) (*membuf.Reader, error) {
	data, err := s.Read(id)
	if err != nil {
		return nil, err
	}
	r, err := membuf.NewReader(data)
	if err != nil {
		// Create validated the buffer, so a parse failure here means the
		// stored bytes were corrupted underneath us.
		return nil, fmt.Errorf("stored blob %s: %w", id, err)
	}
	return r, nil
}

// Stats summarizes the store's contents. BlobBytes counts stored buffer
// bytes; DiskUsage is pebble's on-disk footprint, which includes WAL and
// not-yet-compacted space.
type Stats struct {
	Blobs     int    `json:"blobs"`
	BlobBytes int64  `json:"blob_bytes"`
	DiskUsage uint64 `json:"disk_usage"`
}

// Stats walks the store and counts the blobs it holds.
func (s *Store) Stats() (Stats, error) {
	iter, err := s.db.NewIter(nil)
	if err != nil {
		return Stats{}, fmt.Errorf("stat blob store: %w", err)
	}
	defer iter.Close()

	var st Stats
	for iter.First(); iter.Valid(); iter.Next() {
		value, err := iter.ValueAndErr()
		if err != nil {
			return Stats{}, fmt.Errorf("stat blob store: %w", err)
		}
		st.Blobs++
		st.BlobBytes += int64(len(value))
	}
	if err := iter.Error(); err != nil {
		return Stats{}, fmt.Errorf("stat blob store: %w", err)
	}

	st.DiskUsage = s.db.Metrics().DiskSpaceUsage()
	return st, nil
}

// Delete removes the blob under id. Deleting an absent id is not an error.
func (s *Store) Delete(id *ksuid.KSUID) error {
	if err := s.db.Delete(id.Bytes(), pebble.NoSync); err != nil {
		return fmt.Errorf("delete blob %s: %w", id, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
