package clip

import (
	"encoding/binary"
	"math"

	"github.com/gogpu/gputypes"
)

// Layout selects the binary encoding of a plane in the backing texture.
// The layout is chosen when the texture is allocated, from the device's
// float-texture capability, and stays fixed until the next reallocation.
type Layout uint8

const (
	// LayoutFloat stores one plane per RGBA32Float texel:
	// (normal.x, normal.y, normal.z, distance).
	LayoutFloat Layout = iota

	// LayoutQuantized stores one plane per two RGBA8Unorm texels:
	// texel 0 carries the octahedral-encoded normal, texel 1 the
	// IEEE-754 bits of the float32 distance. Used when the device
	// cannot sample float textures.
	LayoutQuantized
)

// String returns a human-readable name for the layout.
func (l Layout) String() string {
	switch l {
	case LayoutFloat:
		return "Float"
	case LayoutQuantized:
		return "Quantized"
	default:
		return "Unknown"
	}
}

// TexelsPerPlane returns how many texture pixels one plane occupies.
func (l Layout) TexelsPerPlane() int {
	if l == LayoutQuantized {
		return 2
	}
	return 1
}

// TextureFormat returns the texture format the layout encodes for.
func (l Layout) TextureFormat() gputypes.TextureFormat {
	if l == LayoutQuantized {
		return gputypes.TextureFormatRGBA8Unorm
	}
	return gputypes.TextureFormatRGBA32Float
}

// bytesPerTexel returns the size of one texel in the layout's format.
func (l Layout) bytesPerTexel() int {
	if l == LayoutQuantized {
		return 4
	}
	return 16
}

// bytesPerPlane returns the encoded size of one plane.
func (l Layout) bytesPerPlane() int {
	return l.TexelsPerPlane() * l.bytesPerTexel()
}

// packPlane encodes p into dst at the given plane slot. Both layouts
// write little-endian, matching the WGSL decode in the shader package.
func (l Layout) packPlane(dst []byte, slot int, p Plane) {
	off := slot * l.bytesPerPlane()
	switch l {
	case LayoutFloat:
		binary.LittleEndian.PutUint32(dst[off+0:], math.Float32bits(p.Normal.X))
		binary.LittleEndian.PutUint32(dst[off+4:], math.Float32bits(p.Normal.Y))
		binary.LittleEndian.PutUint32(dst[off+8:], math.Float32bits(p.Normal.Z))
		binary.LittleEndian.PutUint32(dst[off+12:], math.Float32bits(p.Distance))
	case LayoutQuantized:
		oct := octEncodeBytes(p.Normal)
		copy(dst[off:off+4], oct[:])
		binary.LittleEndian.PutUint32(dst[off+4:], math.Float32bits(p.Distance))
	}
}

// unpackPlane decodes the plane at the given slot. The distance always
// round-trips exactly; under LayoutQuantized the normal is reconstructed
// within octahedral quantization tolerance.
func (l Layout) unpackPlane(src []byte, slot int) Plane {
	off := slot * l.bytesPerPlane()
	switch l {
	case LayoutFloat:
		return Plane{
			Normal: Vector3{
				X: math.Float32frombits(binary.LittleEndian.Uint32(src[off+0:])),
				Y: math.Float32frombits(binary.LittleEndian.Uint32(src[off+4:])),
				Z: math.Float32frombits(binary.LittleEndian.Uint32(src[off+8:])),
			},
			Distance: math.Float32frombits(binary.LittleEndian.Uint32(src[off+12:])),
		}
	case LayoutQuantized:
		var oct [4]byte
		copy(oct[:], src[off:off+4])
		return Plane{
			Normal:   octDecodeBytes(oct),
			Distance: math.Float32frombits(binary.LittleEndian.Uint32(src[off+4:])),
		}
	default:
		return Plane{}
	}
}
