// Package membuf encodes a set of heterogeneous, independently-typed fields
// into one contiguous byte buffer, and reconstructs individual fields on
// demand without parsing or copying the rest of the buffer.
//
// It targets payloads that are written once and read lazily, such as
// memory-mapped files or blobs pulled off the network, where the cost of
// accessing one field must not depend on the size of the others. Only the fixed-size
// descriptor table is parsed up front; field bytes stay untouched until a
// typed load asks for them.
//
// # Buffer Format
//
// A finalized buffer is a descriptor table, a sentinel and a payload:
//
//	[header: repeated { offset:i32, length:i32, type:i32, key:i32 } ]
//	[sentinel: i32 = 0x7AFECAFE]
//	[payload: raw bytes]
//
// Fields:
//   - offset: byte position of the field inside the payload. For inline
//     types this slot carries the value itself instead.
//   - length: field size in bytes (always 0 for inline types)
//   - type: TypeTag identifying the decode rule
//   - key: caller-chosen field identifier
//
// The table has no record count; it ends when an offset slot holds the
// sentinel. Everything after the sentinel's 4 bytes is the payload.
//
// All integers are 4-byte signed values in the host machine's native byte
// order, as are the words of uint64-vector fields. Buffers are therefore
// not portable between machines of different endianness. The format carries
// no checksum.
//
// # Usage
//
// Build a buffer once, then read any subset of it, in any order:
//
//	w := membuf.NewWriter()
//	w.AddString(0, "Earth")
//	w.AddInt32(1, 100)
//	w.AddUint64s(2, []uint64{3, 1, 4, 1, 5})
//	buf := w.Finalize()
//
//	r, err := membuf.NewReader(buf)
//	if err != nil {
//	    return err
//	}
//	name, err := r.LoadString(0)
//
// Writers nest: AddWriter stores a fully finalized buffer as a field, and
// Reader.LoadReader re-parses it into a sub-reader. Depth is unbounded.
//
// # Error Handling
//
// Loads fail with ErrFieldUnknown when the key has no descriptor and with
// a *TypeMismatchError (carrying both tags) when the descriptor's type
// differs from the requested one. NewReader fails with ErrMalformedHeader
// on truncated headers. Corrupt payloads surface as decode errors
// (ErrFieldBounds, ErrInvalidText, ErrVectorSize) rather than panics.
//
// # Thread Safety
//
// A Writer is exclusively owned while it is being built. A Reader is
// immutable after construction; concurrent loads against the same Reader
// are safe. Readers borrow from the buffer they were constructed from and
// must not outlive it.
package membuf
