package vector

// BoundingBox is an axis-aligned rectangle carried as four explicit corners,
// so overlap/containment tests never need to recompute them.
type BoundingBox struct {
	TopLeft     Vector
	TopRight    Vector
	BottomLeft  Vector
	BottomRight Vector
}

// NewBoundingBox builds a BoundingBox from a center point and full
// width/height.
func NewBoundingBox(center Vector, width, height float64) BoundingBox {
	hw, hh := width/2, height/2
	return BoundingBox{
		TopLeft:     Vector{X: center.X - hw, Y: center.Y - hh},
		TopRight:    Vector{X: center.X + hw, Y: center.Y - hh},
		BottomLeft:  Vector{X: center.X - hw, Y: center.Y + hh},
		BottomRight: Vector{X: center.X + hw, Y: center.Y + hh},
	}
}

func (b BoundingBox) minX() float64 { return b.TopLeft.X }
func (b BoundingBox) maxX() float64 { return b.TopRight.X }
func (b BoundingBox) minY() float64 { return b.TopLeft.Y }
func (b BoundingBox) maxY() float64 { return b.BottomLeft.Y }

// Contains reports whether p lies within b, inclusive of the boundary.
func (b BoundingBox) Contains(p Vector) bool {
	return p.X >= b.minX() && p.X <= b.maxX() && p.Y >= b.minY() && p.Y <= b.maxY()
}

// Overlaps reports whether b and other overlap. Both the horizontal and
// vertical projections must overlap as closed intervals, per spec.md §3.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	horizontal := b.minX() <= other.maxX() && other.minX() <= b.maxX()
	vertical := b.minY() <= other.maxY() && other.minY() <= b.maxY()
	return horizontal && vertical
}
