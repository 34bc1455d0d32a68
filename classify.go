package clip

// Intersection classifies a bounding volume against a plane or against
// a whole clip region.
type Intersection int8

const (
	// Outside means the volume is entirely on the clipped side.
	Outside Intersection = -1
	// Intersecting means the volume straddles the boundary.
	Intersecting Intersection = 0
	// Inside means the volume is entirely on the kept side.
	Inside Intersection = 1
)

// String returns a human-readable name for the classification.
func (i Intersection) String() string {
	switch i {
	case Outside:
		return "Outside"
	case Intersecting:
		return "Intersecting"
	case Inside:
		return "Inside"
	default:
		return "Unknown"
	}
}

// BoundingVolume is implemented by volumes that can classify themselves
// against a single plane. BoundingSphere and AxisAlignedBox are provided;
// culling code with its own volume types implements this directly.
type BoundingVolume interface {
	// IntersectPlane classifies the volume against p: Inside when
	// entirely on the side the normal faces, Outside when entirely on
	// the other side, Intersecting when split by the plane.
	IntersectPlane(p Plane) Intersection
}

// ComputeIntersection classifies volume against the whole collection
// under the collection's combination mode.
//
// In intersection mode (the default) a volume is clipped only when every
// plane clips it, so the volume is Outside only if outside every plane
// and Inside as soon as one plane keeps it entirely. In union mode a
// single plane clipping the volume entirely is enough, so Outside from
// any plane returns immediately.
//
// Each plane is transformed by the collection's model matrix composed
// with extraTransform before classification; pass nil for no extra
// transform. The loop exits early as soon as the mode's decisive
// classification is seen, giving O(k) cost when a decisive plane is
// found at position k.
func (c *PlaneCollection) ComputeIntersection(volume BoundingVolume, extraTransform *Matrix4) Intersection {
	c.mustBeAlive()

	// With no planes nothing is clipped; in intersection mode a
	// non-empty set starts pessimistic and must be rescued by a plane.
	result := Inside
	if !c.unionClippingRegions && len(c.entries) > 0 {
		result = Outside
	}

	transform := c.modelMatrix
	if extraTransform != nil {
		transform = c.modelMatrix.Mul(*extraTransform)
	}

	for i := range c.entries {
		plane := c.entries[i].geometry().Transform(transform)
		value := volume.IntersectPlane(plane)
		if value == Intersecting {
			// A later plane may still produce a decisive verdict.
			result = Intersecting
		} else if c.unionClippingRegions {
			if value == Outside {
				return Outside
			}
		} else if value == Inside {
			return Inside
		}
	}
	return result
}
