package membuf

import "encoding/binary"

// TypeTag identifies the wire representation of a field and the rule used
// to decode it. Tags are plain integers compared for equality at decode
// time; there is no runtime registry.
type TypeTag int32

// Built-in field types. Caller-defined types start at LastPredefinedTag.
const (
	TypeText TypeTag = iota
	TypeInt32
	TypeByteVector
	TypeUint64Vector
	TypeNested

	// LastPredefinedTag is the boundary of the reserved tag space. Define
	// your own tags starting at this value:
	//
	//	const (
	//		TagThumbnail = membuf.LastPredefinedTag + iota
	//		TagWaveform
	//	)
	LastPredefinedTag
)

// String returns a human-readable name for the tag.
func (t TypeTag) String() string {
	switch t {
	case TypeText:
		return "text"
	case TypeInt32:
		return "int32"
	case TypeByteVector:
		return "bytes"
	case TypeUint64Vector:
		return "uint64-vector"
	case TypeNested:
		return "nested-buffer"
	default:
		return "user-defined"
	}
}

// sentinel terminates the descriptor table. It occupies the offset slot of
// what would otherwise be the next record; no valid offset ever equals it.
const sentinel int32 = 0x7AFECAFE

// recordSize is the encoded size of one descriptor:
// offset, length, type and key, 4 bytes each.
const recordSize = 16

// Position is a byte range into the payload. For inline types the offset
// slot carries the value itself and the length is always zero.
type Position struct {
	Offset int32
	Length int32
}

// Field is one entry of the descriptor table.
type Field struct {
	Key int32
	Tag TypeTag
	Pos Position
}

// The wire format uses the host machine's native byte order, like the
// payload words it describes. Buffers are not portable between machines of
// different endianness; that is a documented format limitation.
func putInt32(b []byte, v int32) {
	binary.NativeEndian.PutUint32(b, uint32(v))
}

func getInt32(b []byte) int32 {
	return int32(binary.NativeEndian.Uint32(b))
}
