package membuf

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
)

// Writer accumulates typed fields into a growable payload and a parallel
// descriptor table. Fields are append-only: once added they can be replaced
// by key but never removed or edited in place.
//
// A Writer is exclusively owned during the build phase and is not safe for
// concurrent use.
type Writer struct {
	table   []Field
	index   map[int32]int // key -> table slot, last write wins
	payload []byte
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{index: make(map[int32]int)}
}

// Len returns the number of fields recorded so far. Replacing a key does
// not add a field.
func (w *Writer) Len() int {
	return len(w.table)
}

func (w *Writer) add(key int32, tag TypeTag, pos Position, data []byte) {
	w.payload = append(w.payload, data...)
	f := Field{Key: key, Tag: tag, Pos: pos}
	if i, ok := w.index[key]; ok {
		// Last write wins: the descriptor slot is reused so the table
		// order stays stable. Bytes of the replaced field stay orphaned
		// in the payload; no descriptor points at them anymore.
		w.table[i] = f
		return
	}
	w.index[key] = len(w.table)
	w.table = append(w.table, f)
}

// addOutOfLine appends data to the payload and records a descriptor
// covering it. Offsets equal the payload length at call time, so field
// ranges never overlap.
func (w *Writer) addOutOfLine(key int32, tag TypeTag, data []byte) {
	pos := Position{Offset: int32(len(w.payload)), Length: int32(len(data))}
	w.add(key, tag, pos, data)
}

// AddString stores s as a text field.
func (w *Writer) AddString(key int32, s string) {
	w.addOutOfLine(key, TypeText, []byte(s))
}

// AddInt32 stores v inline: the descriptor's offset slot carries the value
// and the field contributes zero payload bytes.
func (w *Writer) AddInt32(key int32, v int32) {
	w.add(key, TypeInt32, Position{Offset: v, Length: 0}, nil)
}

// AddBytes stores b verbatim.
func (w *Writer) AddBytes(key int32, b []byte) {
	w.addOutOfLine(key, TypeByteVector, b)
}

// AddUint64s stores v as consecutive 8-byte words in native byte order.
func (w *Writer) AddUint64s(key int32, v []uint64) {
	data := make([]byte, len(v)*8)
	for i, word := range v {
		binary.NativeEndian.PutUint64(data[i*8:], word)
	}
	w.addOutOfLine(key, TypeUint64Vector, data)
}

// AddWriter finalizes inner and stores the result as a nested buffer.
// The field is a snapshot: additions to inner after this call do not
// affect it. Nesting depth is unbounded.
func (w *Writer) AddWriter(key int32, inner *Writer) {
	w.addOutOfLine(key, TypeNested, inner.Finalize())
}

// AddRaw stores already-encoded bytes under a caller-defined tag. The tag
// should be at or above LastPredefinedTag; decoding is the caller's
// business via Reader.LoadRaw.
func (w *Writer) AddRaw(key int32, tag TypeTag, b []byte) {
	w.addOutOfLine(key, tag, b)
}

// AddJSON marshals v and stores the document as a text field, readable
// with Reader.LoadJSON or Reader.LoadString.
func (w *Writer) AddJSON(key int32, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal field %d: %w", key, err)
	}
	w.addOutOfLine(key, TypeText, data)
	return nil
}

// Finalize serializes the descriptor table in table order, the sentinel
// and the payload into one self-describing buffer. It reads but never
// mutates the writer: repeated calls return byte-identical buffers, and a
// writer with zero fields still finalizes to a valid, empty buffer.
func (w *Writer) Finalize() []byte {
	out := make([]byte, len(w.table)*recordSize+4+len(w.payload))
	n := 0
	for _, f := range w.table {
		putInt32(out[n:], f.Pos.Offset)
		putInt32(out[n+4:], f.Pos.Length)
		putInt32(out[n+8:], int32(f.Tag))
		putInt32(out[n+12:], f.Key)
		n += recordSize
	}
	putInt32(out[n:], sentinel)
	copy(out[n+4:], w.payload)
	return out
}
