package clip

// Plane is an oriented half-space in Hessian normal form: a point p lies
// on the plane when Dot(Normal, p) + Distance == 0. Points on the side
// the normal faces have positive signed distance and are kept; points on
// the other side are clipped.
//
// Plane is a pure value. Two planes compare equal when their normal and
// distance are bitwise equal, regardless of how they are tracked by a
// collection.
type Plane struct {
	// Normal is the plane's unit normal.
	Normal Vector3

	// Distance is the signed offset from the origin along the normal.
	// Negative values move the plane in the direction the normal faces.
	Distance float32
}

// NewPlane creates a plane from a unit normal and a signed distance.
// It panics if normal is not unit length; normalize before calling.
func NewPlane(normal Vector3, distance float32) Plane {
	if !normal.IsUnit() {
		panic("clip: plane normal must be unit length")
	}
	return Plane{Normal: normal, Distance: distance}
}

// PlaneFromPointNormal creates the plane through point with the given
// unit normal. It panics if normal is not unit length.
func PlaneFromPointNormal(point, normal Vector3) Plane {
	if !normal.IsUnit() {
		panic("clip: plane normal must be unit length")
	}
	return Plane{Normal: normal, Distance: -normal.Dot(point)}
}

// DistanceTo returns the signed distance from point to the plane.
// Positive means point is on the side the normal faces.
func (p Plane) DistanceTo(point Vector3) float32 {
	return p.Normal.Dot(point) + p.Distance
}

// Transform returns the plane transformed by m. A point on the plane and
// the normal are transformed separately; the normal is re-normalized and
// the distance recomputed, so m may contain uniform scale.
func (p Plane) Transform(m Matrix4) Plane {
	point := m.TransformPoint(p.Normal.Mul(-p.Distance))
	normal := m.TransformDirection(p.Normal).Normalize()
	return Plane{Normal: normal, Distance: -normal.Dot(point)}
}

// planeObserver receives change notifications from tracked planes.
// A PlaneCollection installs itself as the observer of every plane it
// tracks so mutations feed its dirty state.
type planeObserver interface {
	planeChanged(index int)
}

// detachedIndex marks a ClippingPlane that is not held by a collection.
const detachedIndex = -1

// ClippingPlane is a clipping plane tracked by a PlaneCollection.
// Mutating it through SetNormal or SetDistance notifies the owning
// collection, which is what enables single-plane partial texture updates.
//
// A ClippingPlane belongs to at most one collection at a time.
type ClippingPlane struct {
	normal   Vector3
	distance float32

	// index is the plane's position in the owning collection, or
	// detachedIndex. While attached it always equals the plane's
	// current position in the collection's sequence.
	index    int
	observer planeObserver
}

// NewClippingPlane creates a detached tracked plane from a unit normal
// and a signed distance. It panics if normal is not unit length.
func NewClippingPlane(normal Vector3, distance float32) *ClippingPlane {
	if !normal.IsUnit() {
		panic("clip: plane normal must be unit length")
	}
	return &ClippingPlane{normal: normal, distance: distance, index: detachedIndex}
}

// Normal returns the plane's unit normal.
func (p *ClippingPlane) Normal() Vector3 { return p.normal }

// Distance returns the plane's signed distance from the origin.
func (p *ClippingPlane) Distance() float32 { return p.distance }

// Plane returns the plane's geometric value.
func (p *ClippingPlane) Plane() Plane {
	return Plane{Normal: p.normal, Distance: p.distance}
}

// Index returns the plane's position in the owning collection, or -1 if
// the plane is detached.
func (p *ClippingPlane) Index() int { return p.index }

// SetNormal replaces the plane's normal and notifies the owning
// collection, if any. It panics if normal is not unit length.
func (p *ClippingPlane) SetNormal(normal Vector3) {
	if !normal.IsUnit() {
		panic("clip: plane normal must be unit length")
	}
	if p.normal == normal {
		return
	}
	p.normal = normal
	p.notify()
}

// SetDistance replaces the plane's signed distance and notifies the
// owning collection, if any.
func (p *ClippingPlane) SetDistance(distance float32) {
	if p.distance == distance {
		return
	}
	p.distance = distance
	p.notify()
}

func (p *ClippingPlane) notify() {
	if p.observer != nil {
		p.observer.planeChanged(p.index)
	}
}

// attach links the plane to a collection at the given index.
func (p *ClippingPlane) attach(index int, observer planeObserver) {
	p.index = index
	p.observer = observer
}

// detach clears the plane's index and observer.
func (p *ClippingPlane) detach() {
	p.index = detachedIndex
	p.observer = nil
}
