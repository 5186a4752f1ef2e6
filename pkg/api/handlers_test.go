package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/segmentio/ksuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ssargent/membuf/pkg/blobstore"
	"github.com/ssargent/membuf/pkg/membuf"
)

const testAPIKey = "test-key"

type envelope struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data"`
	Error   string                 `json:"error"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var e envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e))
	return e
}

func testBuffer() []byte {
	w := membuf.NewWriter()
	w.AddString(0, "Earth")
	w.AddInt32(1, 100)
	w.AddUint64s(2, []uint64{3, 1, 4})

	inner := membuf.NewWriter()
	inner.AddString(0, "X")
	w.AddWriter(3, inner)

	return w.Finalize()
}

func TestServer(t *testing.T) {
	store, err := blobstore.Open(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	// One router for the whole test: metrics register against the default
	// prometheus registry once per process.
	router := NewRouter(store, ServerConfig{APIKey: testAPIKey}, NewMetrics())

	do := func(method, path string, body []byte, withKey bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, bytes.NewReader(body))
		if withKey {
			req.Header.Set("X-API-Key", testAPIKey)
		}
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	buf := testBuffer()
	var blobURL string

	t.Run("requests without api key are rejected", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/health", nil, false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("X-API-Key", "wrong")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)

		// A wrong key of the right length is still rejected.
		req = httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
		req.Header.Set("X-API-Key", "test-kez")
		rec = httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.False(t, e.Success)
		assert.NotEmpty(t, e.Error)
	})

	t.Run("health", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/health", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.True(t, e.Success)
		assert.Equal(t, "healthy", e.Data["status"])
		assert.Equal(t, float64(0), e.Data["blobs"])
	})

	t.Run("create blob", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/v1/blobs", buf, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		require.True(t, e.Success)
		id, ok := e.Data["id"].(string)
		require.True(t, ok)
		require.NotEmpty(t, id)
		blobURL = "/api/v1/blobs/" + id
	})

	t.Run("create rejects junk", func(t *testing.T) {
		rec := do(http.MethodPost, "/api/v1/blobs", []byte{1, 2, 3}, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("health reports store stats", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/health", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.Equal(t, float64(1), e.Data["blobs"])
		assert.Equal(t, float64(len(buf)), e.Data["blob_bytes"])
	})

	t.Run("get blob returns stored bytes", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL, nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
		assert.Equal(t, buf, rec.Body.Bytes())
	})

	t.Run("list fields", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		require.True(t, e.Success)
		fields, ok := e.Data["fields"].([]interface{})
		require.True(t, ok)
		assert.Len(t, fields, 4)

		first, ok := fields[0].(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, "text", first["type"])
		assert.Equal(t, float64(len("Earth")), first["length"])
	})

	t.Run("get text field", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields/0", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.Equal(t, "text", e.Data["type"])
		assert.Equal(t, "Earth", e.Data["value"])
	})

	t.Run("get inline int field", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields/1", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.Equal(t, "int32", e.Data["type"])
		assert.Equal(t, float64(100), e.Data["value"])
	})

	t.Run("get word vector field", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields/2", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.Equal(t, []interface{}{float64(3), float64(1), float64(4)}, e.Data["value"])
	})

	t.Run("get nested field describes the sub-buffer", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields/3", nil, true)
		require.Equal(t, http.StatusOK, rec.Code)
		e := decodeEnvelope(t, rec)
		assert.Equal(t, "nested-buffer", e.Data["type"])
		sub, ok := e.Data["value"].(map[string]interface{})
		require.True(t, ok)
		assert.Len(t, sub["fields"], 1)
	})

	t.Run("unknown field is 404", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields/99", nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad field key is 400", func(t *testing.T) {
		rec := do(http.MethodGet, blobURL+"/fields/zero", nil, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown blob is 404", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/blobs/"+ksuid.New().String(), nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("bad blob id is 400", func(t *testing.T) {
		rec := do(http.MethodGet, "/api/v1/blobs/not-a-ksuid", nil, true)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("delete blob", func(t *testing.T) {
		rec := do(http.MethodDelete, blobURL, nil, true)
		require.Equal(t, http.StatusOK, rec.Code)

		rec = do(http.MethodGet, blobURL, nil, true)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
