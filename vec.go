package clip

import "github.com/chewxy/math32"

// Vector3 represents a 3D vector or point with float32 components,
// matching the precision planes are encoded with on the GPU.
type Vector3 struct {
	X, Y, Z float32
}

// V3 is a convenience function to create a Vector3.
func V3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns the sum of two vectors.
func (v Vector3) Add(w Vector3) Vector3 {
	return Vector3{X: v.X + w.X, Y: v.Y + w.Y, Z: v.Z + w.Z}
}

// Sub returns the difference of two vectors.
func (v Vector3) Sub(w Vector3) Vector3 {
	return Vector3{X: v.X - w.X, Y: v.Y - w.Y, Z: v.Z - w.Z}
}

// Mul returns the vector scaled by a scalar.
func (v Vector3) Mul(s float32) Vector3 {
	return Vector3{X: v.X * s, Y: v.Y * s, Z: v.Z * s}
}

// Neg returns the negation of the vector.
func (v Vector3) Neg() Vector3 {
	return Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Dot returns the dot product of two vectors.
func (v Vector3) Dot(w Vector3) float32 {
	return v.X*w.X + v.Y*w.Y + v.Z*w.Z
}

// Cross returns the cross product of two vectors.
func (v Vector3) Cross(w Vector3) Vector3 {
	return Vector3{
		X: v.Y*w.Z - v.Z*w.Y,
		Y: v.Z*w.X - v.X*w.Z,
		Z: v.X*w.Y - v.Y*w.X,
	}
}

// Length returns the length (magnitude) of the vector.
func (v Vector3) Length() float32 {
	return math32.Sqrt(v.Dot(v))
}

// LengthSq returns the squared length of the vector.
// This is faster than Length when you only need to compare magnitudes.
func (v Vector3) LengthSq() float32 {
	return v.Dot(v)
}

// Normalize returns the vector scaled to unit length.
// The zero vector is returned unchanged.
func (v Vector3) Normalize() Vector3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Mul(1 / l)
}

// IsUnit reports whether the vector has unit length within a small
// tolerance. Plane normals are required to be unit vectors.
func (v Vector3) IsUnit() bool {
	return math32.Abs(v.LengthSq()-1) < 1e-5
}
