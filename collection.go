package clip

import "fmt"

// RGBA is a straight-alpha color with float32 channels, used for the
// cosmetic edge highlight applied where geometry is cut by a plane.
type RGBA struct {
	R, G, B, A float32
}

// planeEntry is one slot in a collection's plane sequence: either a
// tracked ClippingPlane or an untracked geometric value.
type planeEntry struct {
	// tracked is non-nil for planes that report their mutations.
	tracked *ClippingPlane

	// plane is the geometry of an untracked entry; unused otherwise.
	plane Plane
}

// geometry returns the entry's current geometric value.
func (e *planeEntry) geometry() Plane {
	if e.tracked != nil {
		return e.tracked.Plane()
	}
	return e.plane
}

// PlaneCollection is an ordered collection of clipping planes. It owns
// the GPU texture the planes are encoded into and keeps it current with
// a per-frame Update call.
//
// PlaneCollection is NOT safe for concurrent use: mutate it and call
// Update from the same render thread.
type PlaneCollection struct {
	entries []planeEntry

	enabled              bool
	modelMatrix          Matrix4
	unionClippingRegions bool

	// Cosmetic pass-through for renderers; never read by clip itself.
	edgeColor RGBA
	edgeWidth float32

	dirty dirtyTracker

	// hasUntracked is set when an untracked plane is added and never
	// cleared, even if that plane is later removed: once positional
	// change tracking has been bypassed, this collection does full
	// re-encodes forever.
	hasUntracked bool

	// Encoded texture state. layout is fixed while texture is live.
	layout   Layout
	texture  Texture
	buffer   []byte
	texWidth int // texels per row
	capacity int // total texels allocated

	owner     any
	destroyed bool
}

// NewPlaneCollection creates an empty, enabled collection with an
// identity model matrix and intersection-mode combination, then applies
// the given options.
func NewPlaneCollection(opts ...Option) *PlaneCollection {
	c := &PlaneCollection{
		enabled:     true,
		modelMatrix: Matrix4Identity(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// mustBeAlive panics if the collection has been destroyed. Every
// operation except IsDestroyed goes through this check.
func (c *PlaneCollection) mustBeAlive() {
	if c.destroyed {
		panic("clip: use of destroyed PlaneCollection")
	}
}

// planeChanged implements planeObserver for tracked planes.
func (c *PlaneCollection) planeChanged(index int) {
	c.dirty.markIndex(index)
}

// Len returns the number of planes in the collection.
func (c *PlaneCollection) Len() int {
	c.mustBeAlive()
	return len(c.entries)
}

// Add appends a tracked plane to the collection, assigns its index and
// installs the collection as its change observer. It panics if p is nil
// or already attached to a collection.
func (c *PlaneCollection) Add(p *ClippingPlane) {
	c.mustBeAlive()
	if p == nil {
		panic("clip: Add of nil ClippingPlane")
	}
	if p.observer != nil {
		panic("clip: ClippingPlane is already in a collection")
	}
	index := len(c.entries)
	p.attach(index, c)
	c.entries = append(c.entries, planeEntry{tracked: p})
	c.dirty.markIndex(index)
}

// AddPlane appends an untracked plane value.
//
// Untracked planes exist for compatibility with code that works in plain
// geometric values. Because their mutations cannot be observed, adding
// one permanently switches the collection to full re-encodes on every
// update, even if the plane is later removed.
func (c *PlaneCollection) AddPlane(p Plane) {
	c.mustBeAlive()
	index := len(c.entries)
	c.entries = append(c.entries, planeEntry{plane: p})
	if !c.hasUntracked {
		c.hasUntracked = true
		Logger().Debug("clip: untracked plane added, partial updates disabled")
	}
	c.dirty.markIndex(index)
}

// Get returns the geometric value of the plane at index. It panics if
// index is out of range.
func (c *PlaneCollection) Get(index int) Plane {
	c.mustBeAlive()
	if index < 0 || index >= len(c.entries) {
		panic(fmt.Sprintf("clip: plane index %d out of range [0, %d)", index, len(c.entries)))
	}
	return c.entries[index].geometry()
}

// Contains reports whether the collection holds a plane value-equal to
// p, regardless of how that plane is tracked.
func (c *PlaneCollection) Contains(p Plane) bool {
	c.mustBeAlive()
	for i := range c.entries {
		if c.entries[i].geometry() == p {
			return true
		}
	}
	return false
}

// Remove removes the first plane value-equal to p and reports whether
// one was found. A tracked match is detached; all subsequent planes
// shift down one position and are renumbered, which invalidates
// positional dirty state and forces a full re-encode.
func (c *PlaneCollection) Remove(p Plane) bool {
	c.mustBeAlive()
	for i := range c.entries {
		if c.entries[i].geometry() != p {
			continue
		}
		if t := c.entries[i].tracked; t != nil {
			t.detach()
		}
		c.entries = append(c.entries[:i], c.entries[i+1:]...)
		for j := i; j < len(c.entries); j++ {
			if t := c.entries[j].tracked; t != nil {
				t.index = j
			}
		}
		c.dirty.markAll()
		return true
	}
	return false
}

// RemoveAll detaches every tracked plane and empties the collection.
func (c *PlaneCollection) RemoveAll() {
	c.mustBeAlive()
	for i := range c.entries {
		if t := c.entries[i].tracked; t != nil {
			t.detach()
		}
	}
	c.entries = c.entries[:0]
	c.dirty.markAll()
}

// Enabled reports whether clipping is applied by the renderer.
func (c *PlaneCollection) Enabled() bool {
	c.mustBeAlive()
	return c.enabled
}

// SetEnabled toggles whether clipping is applied by the renderer.
// The encoded texture is kept current either way.
func (c *PlaneCollection) SetEnabled(enabled bool) {
	c.mustBeAlive()
	c.enabled = enabled
}

// ModelMatrix returns the transform from plane space to the space
// volumes are classified in.
func (c *PlaneCollection) ModelMatrix() Matrix4 {
	c.mustBeAlive()
	return c.modelMatrix
}

// SetModelMatrix replaces the collection's transform. The matrix is
// applied at classification and shading time, not baked into the
// texture, so no re-encode is needed.
func (c *PlaneCollection) SetModelMatrix(m Matrix4) {
	c.mustBeAlive()
	c.modelMatrix = m
}

// UnionClippingRegions reports the combination mode: true combines the
// per-plane clip regions with a union, false (the default) with an
// intersection.
func (c *PlaneCollection) UnionClippingRegions() bool {
	c.mustBeAlive()
	return c.unionClippingRegions
}

// SetUnionClippingRegions switches the combination mode.
func (c *PlaneCollection) SetUnionClippingRegions(union bool) {
	c.mustBeAlive()
	c.unionClippingRegions = union
}

// EdgeColor returns the cosmetic cut-edge highlight color.
func (c *PlaneCollection) EdgeColor() RGBA {
	c.mustBeAlive()
	return c.edgeColor
}

// SetEdgeColor sets the cosmetic cut-edge highlight color.
func (c *PlaneCollection) SetEdgeColor(color RGBA) {
	c.mustBeAlive()
	c.edgeColor = color
}

// EdgeWidth returns the cosmetic cut-edge highlight width.
func (c *PlaneCollection) EdgeWidth() float32 {
	c.mustBeAlive()
	return c.edgeWidth
}

// SetEdgeWidth sets the cosmetic cut-edge highlight width.
func (c *PlaneCollection) SetEdgeWidth(width float32) {
	c.mustBeAlive()
	c.edgeWidth = width
}

// Layout returns the binary layout planes are currently encoded in.
// Meaningful once Update has allocated a texture.
func (c *PlaneCollection) Layout() Layout {
	c.mustBeAlive()
	return c.layout
}

// PlaneTexture returns the texture holding the encoded planes, or nil
// before the first Update. The collection retains ownership.
func (c *PlaneCollection) PlaneTexture() Texture {
	c.mustBeAlive()
	return c.texture
}

// layoutFor picks the encoding layout a device supports.
func layoutFor(device Device) Layout {
	if device.SupportsFloatTextures() {
		return LayoutFloat
	}
	return LayoutQuantized
}

// Update brings the plane texture up to date. Call it once per frame
// before rendering.
//
// Update resizes the texture when the plane count has outgrown it (or
// shrunk far below it), re-encodes what changed since the last call and
// uploads it: nothing when clean, a single plane's texels when exactly
// one tracked plane changed, the whole sequence otherwise. Once dirty
// state is clean, Update is an idempotent no-op, so calling it again in
// the same frame is safe but wasteful.
//
// Resource allocation failures from the device are returned to the
// caller; the collection's CPU-side state is unchanged in that case.
func (c *PlaneCollection) Update(device Device) error {
	c.mustBeAlive()
	if device == nil {
		panic("clip: Update with nil Device")
	}

	layout := c.layout
	if c.texture == nil {
		layout = layoutFor(device)
	}
	needed := len(c.entries) * layout.TexelsPerPlane()

	if c.texture == nil || !keepCapacity(c.capacity, needed) {
		// Reallocation is the one point where the layout choice may
		// be revisited against current device capability.
		layout = layoutFor(device)
		needed = len(c.entries) * layout.TexelsPerPlane()
		if err := c.reallocate(device, layout, needed); err != nil {
			return err
		}
	}

	// Untracked planes mutate invisibly: any pending change means the
	// whole sequence must be treated as stale.
	if c.hasUntracked && !c.dirty.isClean() {
		c.dirty.markAll()
	}

	switch {
	case c.dirty.isClean():
		return nil
	case c.dirty.isAll():
		if err := c.uploadFull(); err != nil {
			return err
		}
	default:
		if err := c.uploadOne(c.dirty.index); err != nil {
			return err
		}
	}

	c.dirty.reset()
	return nil
}

// reallocate replaces the texture and backing buffer, sized for twice
// the immediate need. Old contents are discarded, so a full re-encode is
// forced regardless of prior dirty state.
func (c *PlaneCollection) reallocate(device Device, layout Layout, needed int) error {
	width, height := textureResolution(growthTarget(needed), int(device.MaxTextureWidth()))
	texture, err := device.AllocateTexture(TextureDescriptor{
		Label:  "clip plane data",
		Width:  uint32(width),
		Height: uint32(height),
		Format: layout.TextureFormat(),
	})
	if err != nil {
		return fmt.Errorf("clip: allocate plane texture: %w", err)
	}
	if c.texture != nil {
		c.texture.Destroy()
	}
	c.texture = texture
	c.layout = layout
	c.texWidth = width
	c.capacity = width * height
	c.buffer = make([]byte, c.capacity*layout.bytesPerTexel())
	c.dirty.markAll()
	Logger().Debug("clip: reallocated plane texture",
		"width", width, "height", height,
		"layout", layout.String(), "planes", len(c.entries))
	return nil
}

// uploadFull re-encodes every plane and uploads the whole texture.
func (c *PlaneCollection) uploadFull() error {
	for i := range c.entries {
		c.layout.packPlane(c.buffer, i, c.entries[i].geometry())
	}
	if err := c.texture.UploadFull(c.buffer); err != nil {
		return fmt.Errorf("clip: upload plane texture: %w", err)
	}
	return nil
}

// uploadOne re-encodes the single plane at index and uploads only its
// texels.
func (c *PlaneCollection) uploadOne(index int) error {
	tpp := c.layout.TexelsPerPlane()
	texel := index * tpp
	x := texel % c.texWidth
	y := texel / c.texWidth

	if x+tpp > c.texWidth {
		// The plane's texels straddle a row boundary; a rectangular
		// region can't cover them, so upload everything.
		Logger().Warn("clip: partial update straddles row boundary, uploading full texture",
			"index", index)
		return c.uploadFull()
	}

	c.layout.packPlane(c.buffer, index, c.entries[index].geometry())
	start := texel * c.layout.bytesPerTexel()
	end := start + tpp*c.layout.bytesPerTexel()
	if err := c.texture.UploadRegion(c.buffer[start:end],
		uint32(x), uint32(y), uint32(tpp), 1); err != nil {
		return fmt.Errorf("clip: upload plane %d: %w", index, err)
	}
	return nil
}

// Clone copies the collection's planes and settings into target,
// creating one when target is nil, and returns it. Target planes are
// fresh tracked instances linked to the target's own change tracking;
// source plane identities are never shared. GPU resources are not
// copied: the clone re-encodes into its own texture on its first Update.
func (c *PlaneCollection) Clone(target *PlaneCollection) *PlaneCollection {
	c.mustBeAlive()
	if target == nil {
		target = NewPlaneCollection()
	} else {
		target.mustBeAlive()
	}
	if target == c {
		return target
	}

	// Shrink: detach surplus target planes.
	for i := len(c.entries); i < len(target.entries); i++ {
		if t := target.entries[i].tracked; t != nil {
			t.detach()
		}
	}
	if len(target.entries) > len(c.entries) {
		target.entries = target.entries[:len(c.entries)]
	}

	// Copy geometry, reusing the target's tracked planes where
	// present and allocating fresh ones elsewhere.
	for i := range c.entries {
		g := c.entries[i].geometry()
		if i < len(target.entries) && target.entries[i].tracked != nil {
			t := target.entries[i].tracked
			t.normal = g.Normal
			t.distance = g.Distance
		} else {
			fresh := &ClippingPlane{normal: g.Normal, distance: g.Distance}
			fresh.attach(i, target)
			if i < len(target.entries) {
				target.entries[i] = planeEntry{tracked: fresh}
			} else {
				target.entries = append(target.entries, planeEntry{tracked: fresh})
			}
		}
	}

	target.enabled = c.enabled
	target.modelMatrix = c.modelMatrix
	target.unionClippingRegions = c.unionClippingRegions
	target.edgeColor = c.edgeColor
	target.edgeWidth = c.edgeWidth
	// Degradation is permanent per instance and transfers with the
	// copied sequence; it never resets on the target.
	target.hasUntracked = target.hasUntracked || c.hasUntracked
	target.dirty.markAll()
	return target
}

// SetOwner attaches collection to the owner's slot, enforcing exclusive
// ownership. Attaching the collection already in the slot is a no-op.
// Attaching a different collection destroys the one previously in the
// slot. A collection can only ever be owned once: attaching an
// already-owned collection to another slot panics.
//
// Pass a nil collection to detach and destroy whatever the slot holds.
func SetOwner(collection *PlaneCollection, owner any, slot **PlaneCollection) {
	if slot == nil {
		panic("clip: SetOwner with nil slot")
	}
	if collection == *slot {
		return
	}
	if prev := *slot; prev != nil {
		prev.Destroy()
	}
	if collection != nil {
		if collection.owner != nil {
			panic("clip: PlaneCollection already has an owner")
		}
		collection.owner = owner
	}
	*slot = collection
}

// Destroy releases the collection's GPU texture and marks the collection
// destroyed. Afterwards only IsDestroyed may be called; any other
// operation panics.
func (c *PlaneCollection) Destroy() {
	c.mustBeAlive()
	if c.texture != nil {
		c.texture.Destroy()
		c.texture = nil
	}
	c.buffer = nil
	c.destroyed = true
}

// IsDestroyed reports whether Destroy has been called.
func (c *PlaneCollection) IsDestroyed() bool {
	return c.destroyed
}
