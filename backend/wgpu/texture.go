//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

// Texture is a HAL-backed plane data texture. It implements
// clip.Texture.
//
// Uploads go through the queue the texture was allocated with. Destroy
// is idempotent and safe to call concurrently with uploads.
type Texture struct {
	mu sync.RWMutex

	halTexture hal.Texture
	device     hal.Device
	queue      hal.Queue

	width, height uint32
	format        gputypes.TextureFormat
	destroyed     bool
}

// Width returns the texture width in texels.
func (t *Texture) Width() uint32 { return t.width }

// Height returns the texture height in texels.
func (t *Texture) Height() uint32 { return t.height }

// Format returns the texel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// UploadFull replaces the entire texture contents.
func (t *Texture) UploadFull(data []byte) error {
	return t.upload(data, 0, 0, t.width, t.height)
}

// UploadRegion replaces the rectangle (x, y, width, height) with data.
func (t *Texture) UploadRegion(data []byte, x, y, width, height uint32) error {
	return t.upload(data, x, y, width, height)
}

func (t *Texture) upload(data []byte, x, y, width, height uint32) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.destroyed {
		return ErrTextureDestroyed
	}

	tb := texelBytes(t.format)
	if want := int(width) * int(height) * int(tb); len(data) != want {
		return fmt.Errorf("wgpu: upload of %d bytes for %dx%d region, want %d",
			len(data), width, height, want)
	}

	dst := &hal.ImageCopyTexture{
		Texture:  t.halTexture,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: x, Y: y, Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  width * tb,
		RowsPerImage: height,
	}
	size := &hal.Extent3D{
		Width:              width,
		Height:             height,
		DepthOrArrayLayers: 1,
	}
	t.queue.WriteTexture(dst, data, layout, size)
	return nil
}

// Destroy releases the HAL texture. It is idempotent.
func (t *Texture) Destroy() {
	t.mu.Lock()
	if t.destroyed {
		t.mu.Unlock()
		return
	}
	t.destroyed = true
	halTex := t.halTexture
	t.halTexture = nil
	t.mu.Unlock()

	if halTex != nil {
		t.device.DestroyTexture(halTex)
	}
}
