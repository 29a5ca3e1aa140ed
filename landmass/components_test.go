package landmass

import (
	"testing"

	"github.com/cheekybits/is"
)

func TestComponents(t *testing.T) {
	is := is.New(t)

	groups := components([]Polygon{
		square(1, 0, 0, 1, 1),
		square(2, 50, 50, 51, 51),
		square(3, 1, 0, 2, 1),
		square(4, 1.5, 0.5, 3, 3),
	})

	is.Equal(groups, [][]int{{0, 2, 3}, {1}})
}

func TestBoxIndexQuery(t *testing.T) {
	is := is.New(t)

	idx := newBoxIndex([]Polygon{
		square(1, 0, 0, 1, 1),
		square(2, 5, 5, 6, 6),
		square(3, 0.5, 0.5, 5.5, 0.75),
	})

	is.Equal(idx.Query(Bounds{MinX: 0.9, MinY: 0.6, MaxX: 1.1, MaxY: 0.7}), []int{0, 2})
	is.Equal(len(idx.Query(Bounds{MinX: 10, MinY: 10, MaxX: 11, MaxY: 11})), 0)
}
