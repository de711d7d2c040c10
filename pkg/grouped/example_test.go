package grouped_test

import (
	"fmt"

	"github.com/matzehuels/albumgrid/pkg/grouped"
)

func ExampleLayout() {
	sizes := []grouped.Size{{W: 100, H: 100}, {W: 100, H: 100}}
	items, err := grouped.Layout(sizes, grouped.Constraints{MaxWidth: 300, MinWidth: 50, Spacing: 8})
	if err != nil {
		panic(err)
	}
	for _, it := range items {
		g := it.Geometry
		fmt.Printf("%v,%v %vx%v %s\n", g.X, g.Y, g.Width, g.Height, it.Sides)
	}
	// Output:
	// 0,0 146x146 top|bottom|left
	// 154,0 146x146 top|right|bottom
}

func ExampleCompute() {
	sizes := make([]grouped.Size, 5)
	for i := range sizes {
		sizes[i] = grouped.Size{W: 1000, H: 1000}
	}
	res, err := grouped.Compute(sizes, grouped.Constraints{MaxWidth: 300, MinWidth: 50, Spacing: 8})
	if err != nil {
		panic(err)
	}
	fmt.Println("Strategy:", res.Strategy)
	fmt.Println("Rows:", res.Rows)
	fmt.Println("Bounds:", res.Width, "x", res.Height)
	// Output:
	// Strategy: row_partitions
	// Rows: [2 3]
	// Bounds: 300 x 249
}
