//go:build fuzz
// +build fuzz

package membuf

import (
	"errors"
	"testing"
	"unicode/utf8"
)

// FuzzNewReader feeds arbitrary bytes through the full decode surface. A
// corrupt or adversarial buffer must fail with one of the documented error
// kinds, never panic.
func FuzzNewReader(f *testing.F) {
	f.Add([]byte{})
	f.Add(NewWriter().Finalize())

	seed := NewWriter()
	seed.AddString(0, "Earth")
	seed.AddInt32(1, 100)
	seed.AddUint64s(2, []uint64{1, 2, 3})
	inner := NewWriter()
	inner.AddString(0, "X")
	seed.AddWriter(3, inner)
	f.Add(seed.Finalize())

	f.Fuzz(func(t *testing.T, data []byte) {
		r, err := NewReader(data)
		if err != nil {
			if !errors.Is(err, ErrMalformedHeader) {
				t.Fatalf("NewReader failed with unexpected kind: %v", err)
			}
			return
		}

		for _, fd := range r.Fields() {
			key := fd.Key
			_, _ = r.LoadString(key)
			_, _ = r.LoadInt32(key)
			_, _ = r.LoadBytes(key)
			_, _ = r.LoadUint64s(key)
			if sub, err := r.LoadReader(key); err == nil {
				for _, sd := range sub.Fields() {
					_, _ = sub.LoadString(sd.Key)
				}
			}
		}
	})
}

// FuzzRoundTrip checks that whatever the writer accepts, the reader
// returns unchanged.
func FuzzRoundTrip(f *testing.F) {
	f.Add(int32(0), "Earth", []byte{1, 2, 3}, int32(100))
	f.Add(int32(-5), "", []byte{}, int32(-1))

	f.Fuzz(func(t *testing.T, key int32, text string, raw []byte, num int32) {
		if !utf8.ValidString(text) {
			t.Skip("hardened text decode rejects invalid UTF-8")
		}

		w := NewWriter()
		w.AddString(key, text)
		w.AddBytes(key+1, raw)
		w.AddInt32(key+2, num)

		r, err := NewReader(w.Finalize())
		if err != nil {
			t.Fatalf("NewReader failed: %v", err)
		}
		gotText, err := r.LoadString(key)
		if err != nil {
			t.Fatalf("LoadString failed: %v", err)
		}
		if gotText != text {
			t.Errorf("LoadString = %q, want %q", gotText, text)
		}
		gotRaw, err := r.LoadBytes(key + 1)
		if err != nil {
			t.Fatalf("LoadBytes failed: %v", err)
		}
		if string(gotRaw) != string(raw) {
			t.Errorf("LoadBytes = %v, want %v", gotRaw, raw)
		}
		gotNum, err := r.LoadInt32(key + 2)
		if err != nil {
			t.Fatalf("LoadInt32 failed: %v", err)
		}
		if gotNum != num {
			t.Errorf("LoadInt32 = %d, want %d", gotNum, num)
		}
	})
}
