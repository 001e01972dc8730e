package detection

// Component is a maximal 4-connected run of foreground pixels.
//
// Only the raw accumulators are stored; the shape measures used by marker
// selection are derived on demand. Components are immutable once returned
// by Label.
type Component struct {
	// ID is the resolved label of the component in the LabelMap.
	ID int `json:"id"`

	// Area is the number of pixels in the component (always > 0).
	Area int `json:"area"`

	// Bounding box, inclusive on both ends.
	MinX int `json:"min_x"`
	MinY int `json:"min_y"`
	MaxX int `json:"max_x"`
	MaxY int `json:"max_y"`

	// Coordinate sums used for the centroid.
	SumX int64 `json:"sum_x"`
	SumY int64 `json:"sum_y"`
}

// Width is the bounding-box width in pixels.
func (c Component) Width() int { return c.MaxX - c.MinX + 1 }

// Height is the bounding-box height in pixels.
func (c Component) Height() int { return c.MaxY - c.MinY + 1 }

// BoxArea is Width * Height.
func (c Component) BoxArea() int { return c.Width() * c.Height() }

// AspectRatio is Width / Height.
func (c Component) AspectRatio() float64 {
	return float64(c.Width()) / float64(c.Height())
}

// FillRatio is the share of the bounding box covered by the component.
func (c Component) FillRatio() float64 {
	return float64(c.Area) / float64(c.BoxArea())
}

// Centroid is the mean pixel coordinate of the component.
func (c Component) Centroid() Point {
	return Point{
		X: float64(c.SumX) / float64(c.Area),
		Y: float64(c.SumY) / float64(c.Area),
	}
}

// LabelMap assigns each pixel its component ID; 0 is background.
type LabelMap struct {
	Width  int
	Height int
	Labels []int32
}

// unionFind is an arena of parent pointers indexed by provisional label.
// Index 0 is reserved for background.
type unionFind struct {
	parent []int32
}

func newUnionFind(capacity int) *unionFind {
	uf := &unionFind{parent: make([]int32, 1, capacity)}
	return uf
}

// add allocates a fresh label that is its own root.
func (uf *unionFind) add() int32 {
	l := int32(len(uf.parent))
	uf.parent = append(uf.parent, l)
	return l
}

// find returns the root of a, halving the path as it walks.
func (uf *unionFind) find(a int32) int32 {
	for uf.parent[a] != a {
		uf.parent[a] = uf.parent[uf.parent[a]]
		a = uf.parent[a]
	}
	return a
}

// union attaches the root of b under the root of a.
func (uf *unionFind) union(a, b int32) {
	ra, rb := uf.find(a), uf.find(b)
	if ra != rb {
		uf.parent[rb] = ra
	}
}

// Label extracts the 4-connected components of a mask.
//
// Returns:
//   - LabelMap: per-pixel component IDs (0 = background).
//   - []Component: one record per component, in order of first appearance
//     when scanning rows top to bottom, left to right.
//
// # Algorithm
//
// Two-pass union-find labeling:
//
//  1. Raster pass: each foreground pixel inherits the label of its foreground
//     north or west neighbor. When both are labeled with different labels the
//     two classes are united. When neither is labeled a fresh label is allocated.
//  2. Resolution pass: every pixel label is replaced by its union-find root
//     and the root's area, bounding box and coordinate sums are accumulated.
//
// Every foreground pixel ends up in exactly one component, and no component
// has zero area.
func Label(mask BinaryMask) (LabelMap, []Component) {
	width, height := mask.Width, mask.Height
	labels := make([]int32, width*height)
	uf := newUnionFind(64)

	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			idx := row + x
			if mask.Bits[idx] == 0 {
				continue
			}

			var n, w int32
			if y > 0 {
				n = labels[idx-width]
			}
			if x > 0 {
				w = labels[idx-1]
			}

			switch {
			case n == 0 && w == 0:
				labels[idx] = uf.add()
			case w == 0:
				labels[idx] = n
			case n == 0:
				labels[idx] = w
			default:
				labels[idx] = n
				if n != w {
					uf.union(n, w)
				}
			}
		}
	}

	// slot maps a root label to its index in components (0 = unseen).
	slot := make([]int, len(uf.parent))
	components := make([]Component, 0)

	for i, l := range labels {
		if l == 0 {
			continue
		}
		root := uf.find(l)
		labels[i] = root

		x := i % width
		y := i / width

		s := slot[root]
		if s == 0 {
			components = append(components, Component{
				ID:   int(root),
				MinX: x,
				MinY: y,
				MaxX: x,
				MaxY: y,
			})
			s = len(components)
			slot[root] = s
		}

		c := &components[s-1]
		c.Area++
		if x < c.MinX {
			c.MinX = x
		}
		if x > c.MaxX {
			c.MaxX = x
		}
		if y < c.MinY {
			c.MinY = y
		}
		if y > c.MaxY {
			c.MaxY = y
		}
		c.SumX += int64(x)
		c.SumY += int64(y)
	}

	logger().Debug("labeled components",
		"provisional_labels", len(uf.parent)-1,
		"components", len(components))

	return LabelMap{Width: width, Height: height, Labels: labels}, components
}
