package clip

import "golang.org/x/image/math/f32"

// Matrix4 is a 4x4 transformation matrix backed by [f32.Mat4] storage.
// Elements are indexed first by row then column, i.e. m[4*r+c].
type Matrix4 f32.Mat4

// Matrix4Identity returns the identity transformation.
func Matrix4Identity() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Matrix4FromTranslation returns a matrix that translates by t.
func Matrix4FromTranslation(t Vector3) Matrix4 {
	return Matrix4{
		1, 0, 0, t.X,
		0, 1, 0, t.Y,
		0, 0, 1, t.Z,
		0, 0, 0, 1,
	}
}

// Matrix4FromScale returns a matrix that scales by s along each axis.
func Matrix4FromScale(s Vector3) Matrix4 {
	return Matrix4{
		s.X, 0, 0, 0,
		0, s.Y, 0, 0,
		0, 0, s.Z, 0,
		0, 0, 0, 1,
	}
}

// Mul returns the matrix product m × n, the transform that applies n
// first and then m.
func (m Matrix4) Mul(n Matrix4) Matrix4 {
	var out Matrix4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[4*r+c] = m[4*r+0]*n[0*4+c] +
				m[4*r+1]*n[1*4+c] +
				m[4*r+2]*n[2*4+c] +
				m[4*r+3]*n[3*4+c]
		}
	}
	return out
}

// TransformPoint transforms a position by the matrix (w = 1).
// The transform is assumed affine; no perspective divide is applied.
func (m Matrix4) TransformPoint(v Vector3) Vector3 {
	return Vector3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z + m[3],
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z + m[7],
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z + m[11],
	}
}

// TransformDirection transforms a direction by the matrix (w = 0),
// ignoring any translation component.
func (m Matrix4) TransformDirection(v Vector3) Vector3 {
	return Vector3{
		X: m[0]*v.X + m[1]*v.Y + m[2]*v.Z,
		Y: m[4]*v.X + m[5]*v.Y + m[6]*v.Z,
		Z: m[8]*v.X + m[9]*v.Y + m[10]*v.Z,
	}
}

// IsIdentity reports whether m is exactly the identity transformation.
func (m Matrix4) IsIdentity() bool {
	return m == Matrix4Identity()
}
