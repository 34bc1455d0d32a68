//go:build !nogpu

// Package wgpu adapts a gogpu/wgpu HAL device to the clip.Device
// interface, so plane collections can encode into textures owned by the
// application's existing GPU context.
package wgpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/clip"
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	types "github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNilProvider is returned when a nil device provider is passed.
	ErrNilProvider = errors.New("wgpu: nil DeviceProvider")

	// ErrNilDevice is returned when a nil HAL device is passed.
	ErrNilDevice = errors.New("wgpu: HAL device is nil")

	// ErrNilQueue is returned when a nil HAL queue is passed.
	ErrNilQueue = errors.New("wgpu: HAL queue is nil")

	// ErrNoHALProvider is returned by FromProvider when the provider
	// does not expose HAL device access.
	ErrNoHALProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrUnsupportedFormat is returned for texture formats outside the
	// plane encoding layouts.
	ErrUnsupportedFormat = errors.New("wgpu: unsupported texture format")

	// ErrTextureDestroyed is returned when uploading to a destroyed
	// texture.
	ErrTextureDestroyed = errors.New("wgpu: texture has been destroyed")
)

// Device implements clip.Device on top of a gogpu/wgpu HAL device and
// queue. The device and queue are borrowed, not owned: destroying them
// remains the caller's responsibility.
type Device struct {
	device hal.Device
	queue  hal.Queue
	limits types.Limits

	floatTextures bool
}

// Option configures a Device.
type Option func(*Device)

// WithLimits overrides the device limits used for texture sizing.
// Without this option types.DefaultLimits() is assumed.
func WithLimits(limits types.Limits) Option {
	return func(d *Device) {
		d.limits = limits
	}
}

// WithoutFloatTextures forces the quantized RGBA8 plane encoding even
// when the device could sample float textures. Mainly useful for
// exercising the quantized path on desktop hardware.
func WithoutFloatTextures() Option {
	return func(d *Device) {
		d.floatTextures = false
	}
}

// NewDevice wraps a HAL device and queue for plane texture allocation.
func NewDevice(device hal.Device, queue hal.Queue, opts ...Option) (*Device, error) {
	if device == nil {
		return nil, ErrNilDevice
	}
	if queue == nil {
		return nil, ErrNilQueue
	}
	d := &Device{
		device:        device,
		queue:         queue,
		limits:        types.DefaultLimits(),
		floatTextures: true,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// FromContext wraps a gpucontext device provider, the integration point
// window systems hand out. The provider must also expose HAL access via
// HalDevice() any and HalQueue() any; providers that cannot share their
// HAL handles are rejected with ErrNoHALProvider.
func FromContext(provider gpucontext.DeviceProvider, opts ...Option) (*Device, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return FromProvider(provider, opts...)
}

// FromProvider wraps a shared GPU context. The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue,
// the shape gpucontext device providers expose.
func FromProvider(provider any, opts ...Option) (*Device, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return NewDevice(device, queue, opts...)
}

// AllocateTexture creates a 2-D sampled texture for encoded plane data.
func (d *Device) AllocateTexture(desc clip.TextureDescriptor) (clip.Texture, error) {
	format, err := halFormat(desc.Format)
	if err != nil {
		return nil, err
	}
	if desc.Width == 0 || desc.Height == 0 {
		return nil, fmt.Errorf("wgpu: invalid texture size %dx%d", desc.Width, desc.Height)
	}

	halTex, err := d.device.CreateTexture(&hal.TextureDescriptor{
		Label: desc.Label,
		Size: hal.Extent3D{
			Width:              desc.Width,
			Height:             desc.Height,
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        format,
		Usage:         types.TextureUsageTextureBinding | types.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: create texture: %w", err)
	}

	clip.Logger().Debug("wgpu: allocated plane texture",
		"label", desc.Label, "width", desc.Width, "height", desc.Height)
	return &Texture{
		halTexture: halTex,
		device:     d.device,
		queue:      d.queue,
		width:      desc.Width,
		height:     desc.Height,
		format:     desc.Format,
	}, nil
}

// MaxTextureWidth returns the device's maximum 2-D texture dimension.
func (d *Device) MaxTextureWidth() uint32 {
	return d.limits.MaxTextureDimension2D
}

// SupportsFloatTextures reports whether RGBA32Float plane textures can
// be sampled on this device.
func (d *Device) SupportsFloatTextures() bool {
	return d.floatTextures
}

// halFormat maps a plane texture format to the HAL format enum.
func halFormat(f gputypes.TextureFormat) (types.TextureFormat, error) {
	switch f {
	case gputypes.TextureFormatRGBA32Float:
		return types.TextureFormatRGBA32Float, nil
	case gputypes.TextureFormatRGBA8Unorm:
		return types.TextureFormatRGBA8Unorm, nil
	default:
		return types.TextureFormatRGBA8Unorm, fmt.Errorf("%w: %v", ErrUnsupportedFormat, f)
	}
}

// texelBytes returns the byte size of one texel in f.
func texelBytes(f gputypes.TextureFormat) uint32 {
	if f == gputypes.TextureFormatRGBA32Float {
		return 16
	}
	return 4
}
