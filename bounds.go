package clip

import "github.com/chewxy/math32"

// BoundingSphere is a sphere bounding volume.
type BoundingSphere struct {
	Center Vector3
	Radius float32
}

// IntersectPlane classifies the sphere against p.
func (s BoundingSphere) IntersectPlane(p Plane) Intersection {
	d := p.DistanceTo(s.Center)
	switch {
	case d < -s.Radius:
		return Outside
	case d < s.Radius:
		return Intersecting
	default:
		return Inside
	}
}

// AxisAlignedBox is an axis-aligned box bounding volume described by its
// minimum and maximum corners.
type AxisAlignedBox struct {
	Min Vector3
	Max Vector3
}

// Center returns the box's center point.
func (b AxisAlignedBox) Center() Vector3 {
	return b.Min.Add(b.Max).Mul(0.5)
}

// IntersectPlane classifies the box against p by projecting the box's
// half-extents onto the plane normal.
func (b AxisAlignedBox) IntersectPlane(p Plane) Intersection {
	half := b.Max.Sub(b.Min).Mul(0.5)
	radius := half.X*math32.Abs(p.Normal.X) +
		half.Y*math32.Abs(p.Normal.Y) +
		half.Z*math32.Abs(p.Normal.Z)
	d := p.DistanceTo(b.Center())
	switch {
	case d < -radius:
		return Outside
	case d < radius:
		return Intersecting
	default:
		return Inside
	}
}
