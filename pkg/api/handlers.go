package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/segmentio/ksuid"

	"github.com/ssargent/membuf/pkg/blobstore"
	"github.com/ssargent/membuf/pkg/membuf"
)

// Server holds the blob server state
type Server struct {
	store   BlobStore
	config  ServerConfig
	metrics *Metrics
}

// NewServer creates a new blob server
func NewServer(store BlobStore, config ServerConfig, metrics *Metrics) *Server {
	return &Server{
		store:   store,
		config:  config,
		metrics: metrics,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats()
	if err != nil {
		s.metrics.RecordHealthCheck(false)
		sendError(w, "Failed to stat blob store", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordHealthCheck(true)
	sendSuccess(w, map[string]interface{}{
		"status":     "healthy",
		"blobs":      stats.Blobs,
		"blob_bytes": stats.BlobBytes,
	})
}

// handleCreateBlob stores the request body as a finalized buffer. The body
// must parse as a buffer header; anything else is rejected up front.
func (s *Server) handleCreateBlob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.metrics.RecordBlobOperation("create", false, time.Since(start))
		sendError(w, "Failed to read request body", http.StatusBadRequest)
		return
	}

	id, err := s.store.Create(body)
	if err != nil {
		s.metrics.RecordBlobOperation("create", false, time.Since(start))
		if errors.Is(err, membuf.ErrMalformedHeader) {
			sendError(w, fmt.Sprintf("Not a valid buffer: %v", err), http.StatusBadRequest)
			return
		}
		sendError(w, "Failed to store blob", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordBlobOperation("create", true, time.Since(start))
	sendSuccess(w, map[string]string{"id": id.String()})
}

func blobID(r *http.Request) (*ksuid.KSUID, error) {
	id, err := ksuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// handleGetBlob returns the raw stored buffer.
func (s *Server) handleGetBlob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := blobID(r)
	if err != nil {
		sendError(w, "Invalid blob id", http.StatusBadRequest)
		return
	}

	data, err := s.store.Read(id)
	if err != nil {
		s.metrics.RecordBlobOperation("read", false, time.Since(start))
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			sendError(w, "Blob not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to read blob", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordBlobOperation("read", true, time.Since(start))
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	_, _ = w.Write(data)
}

func (s *Server) handleDeleteBlob(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := blobID(r)
	if err != nil {
		sendError(w, "Invalid blob id", http.StatusBadRequest)
		return
	}

	if err := s.store.Delete(id); err != nil {
		s.metrics.RecordBlobOperation("delete", false, time.Since(start))
		sendError(w, "Failed to delete blob", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordBlobOperation("delete", true, time.Since(start))
	sendSuccess(w, map[string]string{"id": id.String()})
}

// handleListFields reports a blob's descriptor table without touching its
// payload.
func (s *Server) handleListFields(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	id, err := blobID(r)
	if err != nil {
		sendError(w, "Invalid blob id", http.StatusBadRequest)
		return
	}

	reader, err := s.store.Reader(id)
	if err != nil {
		s.metrics.RecordBlobOperation("describe", false, time.Since(start))
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			sendError(w, "Blob not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to open blob", http.StatusInternalServerError)
		return
	}

	s.metrics.RecordBlobOperation("describe", true, time.Since(start))
	info := describe(reader)
	info.ID = id.String()
	sendSuccess(w, info)
}

// handleGetField lazily decodes one field of a stored blob. Only the
// requested field's bytes are examined.
func (s *Server) handleGetField(w http.ResponseWriter, r *http.Request) {
	id, err := blobID(r)
	if err != nil {
		sendError(w, "Invalid blob id", http.StatusBadRequest)
		return
	}

	keyParam, err := strconv.ParseInt(chi.URLParam(r, "key"), 10, 32)
	if err != nil {
		sendError(w, "Invalid field key", http.StatusBadRequest)
		return
	}
	key := int32(keyParam)

	reader, err := s.store.Reader(id)
	if err != nil {
		if errors.Is(err, blobstore.ErrBlobNotFound) {
			sendError(w, "Blob not found", http.StatusNotFound)
			return
		}
		sendError(w, "Failed to open blob", http.StatusInternalServerError)
		return
	}

	tag, ok := reader.TagOf(key)
	if !ok {
		sendError(w, fmt.Sprintf("No field %d in blob", key), http.StatusNotFound)
		return
	}

	var value interface{}
	switch tag {
	case membuf.TypeText:
		value, err = reader.LoadString(key)
	case membuf.TypeInt32:
		value, err = reader.LoadInt32(key)
	case membuf.TypeByteVector:
		value, err = reader.LoadBytes(key) // JSON renders bytes as base64
	case membuf.TypeUint64Vector:
		value, err = reader.LoadUint64s(key)
	case membuf.TypeNested:
		var sub *membuf.Reader
		if sub, err = reader.LoadReader(key); err == nil {
			value = describe(sub)
		}
	default:
		value, err = reader.LoadRaw(key, tag)
	}
	if err != nil {
		s.metrics.RecordFieldLoad(tag.String(), false)
		sendError(w, fmt.Sprintf("Failed to decode field %d: %v", key, err), http.StatusUnprocessableEntity)
		return
	}

	s.metrics.RecordFieldLoad(tag.String(), true)
	sendSuccess(w, map[string]interface{}{
		"key":   key,
		"type":  tag.String(),
		"value": value,
	})
}
