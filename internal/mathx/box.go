package mathx

// Box is an axis-aligned bounding box used for broad-phase collision queries.
type Box struct {
	Min Vec3 `json:"min"`
	Max Vec3 `json:"max"`
}

// BoxAt builds a box centered on a point with the given half extents.
func BoxAt(center, half Vec3) Box {
	return Box{
		Min: center.Sub(half),
		Max: center.Add(half),
	}
}

// Intersects reports whether the boxes overlap on all three axes.
func (b Box) Intersects(o Box) bool {
	return b.Min.X <= o.Max.X && b.Max.X >= o.Min.X &&
		b.Min.Y <= o.Max.Y && b.Max.Y >= o.Min.Y &&
		b.Min.Z <= o.Max.Z && b.Max.Z >= o.Min.Z
}
