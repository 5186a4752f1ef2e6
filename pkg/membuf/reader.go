package membuf

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"unicode/utf8"
)

// Reader parses the descriptor table out of a finalized buffer and resolves
// fields lazily: constructing a reader touches only the header, and loading
// one field never depends on the size of the others.
//
// A Reader holds views into the buffer it was constructed from and must not
// outlive it. It is immutable after construction and therefore safe for
// concurrent loads.
type Reader struct {
	table   []Field
	index   map[int32]int
	payload []byte
}

// NewReader scans the descriptor table of buf up to the sentinel and
// retains the remainder as the payload. It fails with ErrMalformedHeader
// if buf cannot hold the first candidate offset, or if the table runs past
// the end of the buffer before the sentinel. Payload bytes are opaque here;
// they are only examined when a typed load asks for them.
func NewReader(buf []byte) (*Reader, error) {
	if len(buf) < 4 {
		return nil, fmt.Errorf("%w: %d byte buffer cannot hold an offset", ErrMalformedHeader, len(buf))
	}

	rest := buf
	var table []Field
	index := make(map[int32]int)
	for {
		if len(rest) < 4 {
			return nil, fmt.Errorf("%w: descriptor table is not terminated", ErrMalformedHeader)
		}
		offset := getInt32(rest)
		if offset == sentinel {
			rest = rest[4:]
			break
		}
		// The rest of this record plus the next candidate offset.
		if len(rest) < recordSize+4 {
			return nil, fmt.Errorf("%w: descriptor table runs past end of buffer", ErrMalformedHeader)
		}
		f := Field{
			Pos: Position{Offset: offset, Length: getInt32(rest[4:])},
			Tag: TypeTag(getInt32(rest[8:])),
			Key: getInt32(rest[12:]),
		}
		rest = rest[recordSize:]
		if i, ok := index[f.Key]; ok {
			table[i] = f
		} else {
			index[f.Key] = len(table)
			table = append(table, f)
		}
	}

	return &Reader{table: table, index: index, payload: rest}, nil
}

// Len returns the number of descriptors in the table.
func (r *Reader) Len() int {
	return len(r.table)
}

// PayloadLen returns the size of the payload in bytes.
func (r *Reader) PayloadLen() int {
	return len(r.payload)
}

// Fields returns a copy of the descriptor table in parse order.
func (r *Reader) Fields() []Field {
	return append([]Field(nil), r.table...)
}

// TagOf reports the type tag recorded for key.
func (r *Reader) TagOf(key int32) (TypeTag, bool) {
	i, ok := r.index[key]
	if !ok {
		return 0, false
	}
	return r.table[i].Tag, true
}

func (r *Reader) lookup(key int32, want TypeTag) (Field, error) {
	i, ok := r.index[key]
	if !ok {
		return Field{}, fmt.Errorf("%w: no field %d", ErrFieldUnknown, key)
	}
	f := r.table[i]
	if f.Tag != want {
		return Field{}, &TypeMismatchError{Actual: f.Tag, Requested: want}
	}
	return f, nil
}

// slice resolves a descriptor's byte range against the payload. A range
// that falls outside the payload means the header lied about it; that is a
// decode error, never a panic.
func (r *Reader) slice(pos Position) ([]byte, error) {
	lo, hi := int(pos.Offset), int(pos.Offset)+int(pos.Length)
	if pos.Offset < 0 || pos.Length < 0 || hi > len(r.payload) {
		return nil, fmt.Errorf("%w: [%d,%d) in %d byte payload", ErrFieldBounds, lo, hi, len(r.payload))
	}
	return r.payload[lo:hi:hi], nil
}

// LoadString decodes a text field. The bytes are validated as UTF-8 and
// rejected with ErrInvalidText if corrupt; the returned string is an owned
// copy of the one field.
func (r *Reader) LoadString(key int32) (string, error) {
	f, err := r.lookup(key, TypeText)
	if err != nil {
		return "", err
	}
	b, err := r.slice(f.Pos)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: field %d", ErrInvalidText, key)
	}
	return string(b), nil
}

// LoadInt32 decodes an inline integer field. The value lives in the
// descriptor's offset slot; the payload is not touched.
func (r *Reader) LoadInt32(key int32) (int32, error) {
	f, err := r.lookup(key, TypeInt32)
	if err != nil {
		return 0, err
	}
	return f.Pos.Offset, nil
}

// LoadBytes returns a byte-vector field as a subslice of the payload. The
// slice shares memory with the reader's buffer; copy it if it must survive
// the buffer.
func (r *Reader) LoadBytes(key int32) ([]byte, error) {
	f, err := r.lookup(key, TypeByteVector)
	if err != nil {
		return nil, err
	}
	return r.slice(f.Pos)
}

// LoadUint64s decodes a word-vector field. The field length must be a
// multiple of 8; words are read one at a time in native byte order rather
// than reinterpreting the slice in place.
func (r *Reader) LoadUint64s(key int32) ([]uint64, error) {
	f, err := r.lookup(key, TypeUint64Vector)
	if err != nil {
		return nil, err
	}
	b, err := r.slice(f.Pos)
	if err != nil {
		return nil, err
	}
	if len(b)%8 != 0 {
		return nil, fmt.Errorf("%w: field %d holds %d bytes", ErrVectorSize, key, len(b))
	}
	words := make([]uint64, len(b)/8)
	for i := range words {
		words[i] = binary.NativeEndian.Uint64(b[i*8:])
	}
	return words, nil
}

// LoadReader reconstructs a Reader from a nested-buffer field by running
// the full header parse on the field's byte range. The nested reader
// borrows transitively from the same root buffer.
func (r *Reader) LoadReader(key int32) (*Reader, error) {
	f, err := r.lookup(key, TypeNested)
	if err != nil {
		return nil, err
	}
	b, err := r.slice(f.Pos)
	if err != nil {
		return nil, err
	}
	return NewReader(b)
}

// LoadRaw returns the undecoded bytes of a field stored under a
// caller-defined tag, zero-copy.
func (r *Reader) LoadRaw(key int32, tag TypeTag) ([]byte, error) {
	f, err := r.lookup(key, tag)
	if err != nil {
		return nil, err
	}
	return r.slice(f.Pos)
}

// LoadJSON loads a text field and unmarshals the document into v. A parse
// failure surfaces as an error, never a panic.
func (r *Reader) LoadJSON(key int32, v interface{}) error {
	f, err := r.lookup(key, TypeText)
	if err != nil {
		return err
	}
	b, err := r.slice(f.Pos)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("unmarshal field %d: %w", key, err)
	}
	return nil
}
