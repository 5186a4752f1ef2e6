package membuf_test

import (
	"fmt"
	"log"

	"github.com/ssargent/membuf/pkg/membuf"
)

// Example_basic builds a buffer with a few fields and reads one back.
func Example_basic() {
	w := membuf.NewWriter()
	w.AddString(0, "Earth")
	w.AddInt32(1, 100)
	buf := w.Finalize()

	r, err := membuf.NewReader(buf)
	if err != nil {
		log.Fatal(err)
	}

	name, err := r.LoadString(0)
	if err != nil {
		log.Fatal(err)
	}
	population, err := r.LoadInt32(1)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Fields: %d\n", r.Len())
	fmt.Printf("Name: %s\n", name)
	fmt.Printf("Value: %d\n", population)
	// Output:
	// Fields: 2
	// Name: Earth
	// Value: 100
}

// Example_nested embeds one buffer inside another.
func Example_nested() {
	inner := membuf.NewWriter()
	inner.AddString(0, "X")

	outer := membuf.NewWriter()
	outer.AddWriter(0, inner)

	r, err := membuf.NewReader(outer.Finalize())
	if err != nil {
		log.Fatal(err)
	}
	sub, err := r.LoadReader(0)
	if err != nil {
		log.Fatal(err)
	}

	inner2, err := sub.LoadString(0)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(inner2)
	// Output:
	// X
}
