package api

import (
	"encoding/json"
	"net/http"

	"github.com/segmentio/ksuid"

	"github.com/ssargent/membuf/pkg/blobstore"
	"github.com/ssargent/membuf/pkg/membuf"
)

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// sendSuccess writes data inside a success envelope.
func sendSuccess(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: true, Data: data})
}

// sendError writes message inside an error envelope with the given status.
func sendError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(APIResponse{Success: false, Error: message})
}

// ServerConfig holds configuration for the blob server
type ServerConfig struct {
	Port   int
	Bind   string
	APIKey string
}

// BlobStore defines the storage operations the server needs
type BlobStore interface {
	Create(data []byte) (*ksuid.KSUID, error)
	Read(id *ksuid.KSUID) ([]byte, error)
	Reader(id *ksuid.KSUID) (*membuf.Reader, error)
	Delete(id *ksuid.KSUID) error
	Stats() (blobstore.Stats, error)
}

// FieldInfo is one row of a blob's descriptor table as reported by the API
type FieldInfo struct {
	Key    int32  `json:"key"`
	Type   string `json:"type"`
	Offset int32  `json:"offset"`
	Length int32  `json:"length"`
}

// BlobInfo summarizes a stored blob's header
type BlobInfo struct {
	ID         string      `json:"id,omitempty"`
	Fields     []FieldInfo `json:"fields"`
	PayloadLen int         `json:"payload_len"`
}

func describe(r *membuf.Reader) BlobInfo {
	fields := make([]FieldInfo, 0, r.Len())
	for _, f := range r.Fields() {
		fields = append(fields, FieldInfo{
			Key:    f.Key,
			Type:   f.Tag.String(),
			Offset: f.Pos.Offset,
			Length: f.Pos.Length,
		})
	}
	return BlobInfo{Fields: fields, PayloadLen: r.PayloadLen()}
}
