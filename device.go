package clip

import "github.com/gogpu/gputypes"

// Device provides GPU texture access from the host application.
//
// This interface is the integration point between clip and GPU frameworks:
// the host implements Device (or uses backend/wgpu) and passes it to
// [PlaneCollection.Update]. clip RECEIVES the device from the host, it
// does not create one, so plane textures share the application's GPU
// resources.
type Device interface {
	// AllocateTexture creates a 2-D texture for encoded plane data.
	// The texture's contents are undefined until uploaded.
	AllocateTexture(desc TextureDescriptor) (Texture, error)

	// MaxTextureWidth returns the device's maximum 2-D texture
	// dimension, the widest row the resolution planner may use.
	MaxTextureWidth() uint32

	// SupportsFloatTextures reports whether RGBA32Float textures can
	// be sampled. When false, planes are encoded in the quantized
	// RGBA8 layout instead.
	SupportsFloatTextures() bool
}

// TextureDescriptor describes a plane-data texture to allocate.
type TextureDescriptor struct {
	// Label is an optional debug name.
	Label string

	// Width and Height are the texture dimensions in texels.
	Width  uint32
	Height uint32

	// Format is the texel format, one of RGBA32Float (LayoutFloat)
	// or RGBA8Unorm (LayoutQuantized).
	Format gputypes.TextureFormat
}

// Texture is a GPU texture holding encoded plane data. It is owned
// exclusively by the PlaneCollection that allocated it.
type Texture interface {
	// Width returns the texture width in texels.
	Width() uint32

	// Height returns the texture height in texels.
	Height() uint32

	// Format returns the texel format.
	Format() gputypes.TextureFormat

	// UploadFull replaces the entire texture contents. data holds
	// Width×Height texels in the texture's format, row by row.
	UploadFull(data []byte) error

	// UploadRegion replaces the rectangle (x, y, width, height) with
	// data, which holds width×height texels. Used for single-plane
	// partial updates.
	UploadRegion(data []byte, x, y, width, height uint32) error

	// Destroy releases the GPU resource. The texture must not be
	// used afterwards.
	Destroy()
}
