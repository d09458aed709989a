package reactive_test

import (
	"fmt"

	"github.com/vango-dev/lattice/pkg/reactive"
)

func Example_counter() {
	count := reactive.NewBinding(0)
	doubled := reactive.Map(count, func(v int) int { return v * 2 })
	label := reactive.Sprintf("Count: %d, Doubled: %d", count, doubled)

	g := label.Watch(func(s string) { fmt.Println(s) })
	defer g.Release()

	count.Set(count.Get() + 1)
	count.Update(func(v *int) { *v++ })
	count.Set(0)

	// Output:
	// Count: 1, Doubled: 2
	// Count: 2, Doubled: 4
	// Count: 0, Doubled: 0
}

func Example_greeting() {
	name := reactive.NewBinding("World")
	greeting := reactive.Sprintf("Hello, %s!", name)

	fmt.Println(greeting.Get())
	name.Set("Gopher")
	fmt.Println(greeting.Get())

	// Output:
	// Hello, World!
	// Hello, Gopher!
}

func ExampleZip() {
	a := reactive.NewBinding(1)
	b := reactive.Map(a, func(v int) int { return v * 2 })
	c := reactive.Map(reactive.Zip(a, b), func(p reactive.Pair[int, int]) int {
		return p.First + p.Second
	})

	g := c.Watch(func(v int) { fmt.Println("c =", v) })
	defer g.Release()

	a.Set(5)

	// Output:
	// c = 15
}
