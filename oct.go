package clip

import "github.com/chewxy/math32"

// Octahedral normal encoding: a unit vector is projected onto the
// octahedron |x|+|y|+|z| = 1, the lower half is folded onto the upper,
// and the result quantized to two 16-bit coordinates. Each coordinate is
// split into a high and low byte so the quantized texture layout can
// carry a normal in one RGBA8 texel.

// octRange is the quantization range of one octahedral coordinate.
const octRange = 65535

// signNotZero returns 1 for non-negative values and -1 otherwise, so the
// fold in octEncode never multiplies by zero.
func signNotZero(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}

// octEncode compresses a unit vector to two 16-bit octahedral
// coordinates.
func octEncode(v Vector3) (x, y uint16) {
	l1 := math32.Abs(v.X) + math32.Abs(v.Y) + math32.Abs(v.Z)
	px := v.X / l1
	py := v.Y / l1
	if v.Z < 0 {
		ox, oy := px, py
		px = (1 - math32.Abs(oy)) * signNotZero(ox)
		py = (1 - math32.Abs(ox)) * signNotZero(oy)
	}
	return quantizeOct(px), quantizeOct(py)
}

// quantizeOct maps an octahedral coordinate from [-1, 1] to [0, octRange].
func quantizeOct(v float32) uint16 {
	q := math32.Floor((v*0.5+0.5)*octRange + 0.5)
	if q < 0 {
		q = 0
	} else if q > octRange {
		q = octRange
	}
	return uint16(q)
}

// octDecode reconstructs a unit vector from two 16-bit octahedral
// coordinates. It is the inverse of octEncode up to quantization error.
func octDecode(xe, ye uint16) Vector3 {
	x := float32(xe)/octRange*2 - 1
	y := float32(ye)/octRange*2 - 1
	z := 1 - math32.Abs(x) - math32.Abs(y)
	if z < 0 {
		ox := x
		x = (1 - math32.Abs(y)) * signNotZero(ox)
		y = (1 - math32.Abs(ox)) * signNotZero(y)
	}
	return Vector3{X: x, Y: y, Z: z}.Normalize()
}

// octEncodeBytes packs a unit vector into 4 bytes: the high and low byte
// of each 16-bit octahedral coordinate.
func octEncodeBytes(v Vector3) [4]byte {
	x, y := octEncode(v)
	return [4]byte{
		byte(x >> 8), byte(x),
		byte(y >> 8), byte(y),
	}
}

// octDecodeBytes is the inverse of octEncodeBytes.
func octDecodeBytes(b [4]byte) Vector3 {
	x := uint16(b[0])<<8 | uint16(b[1])
	y := uint16(b[2])<<8 | uint16(b[3])
	return octDecode(x, y)
}
