package clip

import (
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
)

type regionUpload struct {
	x, y, width, height uint32
	bytes               int
}

type fakeTexture struct {
	width, height uint32
	format        gputypes.TextureFormat
	data          []byte

	fullUploads   int
	regionUploads []regionUpload
	destroyed     bool
}

func (t *fakeTexture) texelBytes() int {
	if t.format == gputypes.TextureFormatRGBA32Float {
		return 16
	}
	return 4
}

func (t *fakeTexture) Width() uint32                  { return t.width }
func (t *fakeTexture) Height() uint32                 { return t.height }
func (t *fakeTexture) Format() gputypes.TextureFormat { return t.format }
func (t *fakeTexture) Destroy()                       { t.destroyed = true }

func (t *fakeTexture) UploadFull(data []byte) error {
	if len(data) != int(t.width*t.height)*t.texelBytes() {
		return errors.New("short upload")
	}
	copy(t.data, data)
	t.fullUploads++
	return nil
}

func (t *fakeTexture) UploadRegion(data []byte, x, y, width, height uint32) error {
	tb := t.texelBytes()
	rowBytes := int(width) * tb
	for row := uint32(0); row < height; row++ {
		dst := (int(y+row)*int(t.width) + int(x)) * tb
		copy(t.data[dst:dst+rowBytes], data[int(row)*rowBytes:])
	}
	t.regionUploads = append(t.regionUploads, regionUpload{x, y, width, height, len(data)})
	return nil
}

type fakeDevice struct {
	maxWidth      uint32
	floatTextures bool
	allocated     []*fakeTexture
	allocErr      error
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{maxWidth: 4096, floatTextures: true}
}

func (d *fakeDevice) AllocateTexture(desc TextureDescriptor) (Texture, error) {
	if d.allocErr != nil {
		return nil, d.allocErr
	}
	tex := &fakeTexture{
		width:  desc.Width,
		height: desc.Height,
		format: desc.Format,
	}
	tex.data = make([]byte, int(desc.Width*desc.Height)*tex.texelBytes())
	d.allocated = append(d.allocated, tex)
	return tex, nil
}

func (d *fakeDevice) MaxTextureWidth() uint32     { return d.maxWidth }
func (d *fakeDevice) SupportsFloatTextures() bool { return d.floatTextures }

func (d *fakeDevice) last(t *testing.T) *fakeTexture {
	t.Helper()
	if len(d.allocated) == 0 {
		t.Fatal("no texture allocated")
	}
	return d.allocated[len(d.allocated)-1]
}

func TestUpdateAllocatesAndEncodes(t *testing.T) {
	dev := newFakeDevice()
	p0 := NewClippingPlane(V3(1, 0, 0), 1)
	p1 := NewClippingPlane(V3(0, 1, 0), 2)
	c := NewPlaneCollection(WithPlanes(p0, p1))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if c.PlaneTexture() == nil {
		t.Fatal("PlaneTexture() = nil after Update")
	}
	if c.Layout() != LayoutFloat {
		t.Errorf("Layout() = %v, want LayoutFloat", c.Layout())
	}

	tex := dev.last(t)
	if tex.format != gputypes.TextureFormatRGBA32Float {
		t.Errorf("format = %v, want RGBA32Float", tex.format)
	}
	if tex.fullUploads != 1 {
		t.Errorf("fullUploads = %d, want 1", tex.fullUploads)
	}
	// 2 planes, doubled for growth headroom.
	if tex.width*tex.height != 4 {
		t.Errorf("capacity = %d texels, want 4", tex.width*tex.height)
	}
	if got := LayoutFloat.unpackPlane(tex.data, 0); got != p0.Plane() {
		t.Errorf("encoded plane 0 = %v, want %v", got, p0.Plane())
	}
	if got := LayoutFloat.unpackPlane(tex.data, 1); got != p1.Plane() {
		t.Errorf("encoded plane 1 = %v, want %v", got, p1.Plane())
	}
}

func TestUpdateCleanIsNoop(t *testing.T) {
	dev := newFakeDevice()
	c := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 0)))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)
	if err := c.Update(dev); err != nil {
		t.Fatalf("second Update() = %v", err)
	}
	if tex.fullUploads != 1 || len(tex.regionUploads) != 0 {
		t.Errorf("clean Update uploaded: full=%d regions=%d",
			tex.fullUploads, len(tex.regionUploads))
	}
	if len(dev.allocated) != 1 {
		t.Errorf("clean Update reallocated: %d textures", len(dev.allocated))
	}
}

func TestUpdateSinglePlanePartial(t *testing.T) {
	dev := newFakeDevice()
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 0)
	c := NewPlaneCollection(WithPlanes(p0, p1))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)

	p1.SetDistance(7)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if tex.fullUploads != 1 {
		t.Errorf("fullUploads = %d, want 1 (second update should be partial)", tex.fullUploads)
	}
	if len(tex.regionUploads) != 1 {
		t.Fatalf("regionUploads = %v, want one", tex.regionUploads)
	}
	up := tex.regionUploads[0]
	if up.x != 1 || up.y != 0 || up.width != 1 || up.height != 1 {
		t.Errorf("region = %+v, want x=1 y=0 w=1 h=1", up)
	}
	if got := LayoutFloat.unpackPlane(tex.data, 1); got.Distance != 7 {
		t.Errorf("encoded distance = %v, want 7", got.Distance)
	}
}

func TestUpdateTwoChangedPlanesFull(t *testing.T) {
	dev := newFakeDevice()
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 0)
	c := NewPlaneCollection(WithPlanes(p0, p1))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)

	p0.SetDistance(1)
	p1.SetDistance(2)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if tex.fullUploads != 2 {
		t.Errorf("fullUploads = %d, want 2", tex.fullUploads)
	}
	if len(tex.regionUploads) != 0 {
		t.Errorf("regionUploads = %v, want none", tex.regionUploads)
	}
}

func TestUpdateQuantizedLayout(t *testing.T) {
	dev := newFakeDevice()
	dev.floatTextures = false
	p := NewClippingPlane(V3(0, 0, 1), -3.5)
	c := NewPlaneCollection(WithPlanes(p))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if c.Layout() != LayoutQuantized {
		t.Fatalf("Layout() = %v, want LayoutQuantized", c.Layout())
	}
	tex := dev.last(t)
	if tex.format != gputypes.TextureFormatRGBA8Unorm {
		t.Errorf("format = %v, want RGBA8Unorm", tex.format)
	}
	got := LayoutQuantized.unpackPlane(tex.data, 0)
	if got.Distance != -3.5 {
		t.Errorf("decoded distance = %v, want -3.5", got.Distance)
	}
	if got.Normal.Dot(V3(0, 0, 1)) < 1-1e-6 {
		t.Errorf("decoded normal = %v, want ~(0,0,1)", got.Normal)
	}
}

func TestUpdateQuantizedPartialRegion(t *testing.T) {
	dev := newFakeDevice()
	dev.floatTextures = false
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 0)
	c := NewPlaneCollection(WithPlanes(p0, p1))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)

	// Plane 1 occupies texels 2..3 of the single-row texture.
	p1.SetDistance(5)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if len(tex.regionUploads) != 1 {
		t.Fatalf("regionUploads = %v, want one", tex.regionUploads)
	}
	up := tex.regionUploads[0]
	if up.x != 2 || up.y != 0 || up.width != 2 || up.height != 1 {
		t.Errorf("region = %+v, want x=2 y=0 w=2 h=1", up)
	}
	if got := LayoutQuantized.unpackPlane(tex.data, 1); got.Distance != 5 {
		t.Errorf("encoded distance = %v, want 5", got.Distance)
	}
}

func TestUpdateRowStraddleFallsBackToFull(t *testing.T) {
	// Width 3, quantized planes take 2 texels: plane 1 sits at texels
	// 2..3, crossing the row boundary.
	dev := newFakeDevice()
	dev.floatTextures = false
	dev.maxWidth = 3
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 0)
	c := NewPlaneCollection(WithPlanes(p0, p1))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)
	if tex.width != 3 {
		t.Fatalf("width = %d, want 3", tex.width)
	}

	p1.SetDistance(9)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if len(tex.regionUploads) != 0 {
		t.Errorf("regionUploads = %v, want none (straddling plane)", tex.regionUploads)
	}
	if tex.fullUploads != 2 {
		t.Errorf("fullUploads = %d, want 2", tex.fullUploads)
	}
	if got := LayoutQuantized.unpackPlane(tex.data, 1); got.Distance != 9 {
		t.Errorf("encoded distance = %v, want 9", got.Distance)
	}
}

func TestUpdateGrowsAndShrinks(t *testing.T) {
	dev := newFakeDevice()
	c := NewPlaneCollection()
	defer c.Destroy()

	planes := make([]*ClippingPlane, 0, 5)
	for i := 0; i < 2; i++ {
		p := NewClippingPlane(V3(1, 0, 0), float32(i))
		planes = append(planes, p)
		c.Add(p)
	}
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	first := dev.last(t)
	if first.width*first.height != 4 {
		t.Fatalf("capacity = %d, want 4", first.width*first.height)
	}

	// Two more planes still fit the doubled allocation.
	for i := 2; i < 4; i++ {
		p := NewClippingPlane(V3(1, 0, 0), float32(i))
		planes = append(planes, p)
		c.Add(p)
	}
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if len(dev.allocated) != 1 {
		t.Fatalf("grew within capacity but reallocated: %d textures", len(dev.allocated))
	}

	// A fifth plane exceeds capacity and forces a reallocation.
	p := NewClippingPlane(V3(1, 0, 0), 4)
	planes = append(planes, p)
	c.Add(p)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if len(dev.allocated) != 2 {
		t.Fatalf("allocated = %d textures, want 2", len(dev.allocated))
	}
	if !first.destroyed {
		t.Error("outgrown texture was not destroyed")
	}
	second := dev.last(t)
	if second.width*second.height != 10 {
		t.Errorf("capacity = %d, want 10", second.width*second.height)
	}
	for i := range planes {
		if got := LayoutFloat.unpackPlane(second.data, i); got.Distance != float32(i) {
			t.Errorf("plane %d distance = %v, want %d", i, got.Distance, i)
		}
	}

	// Dropping back to one plane leaves the texture 10x oversized, which
	// is beyond the 4x keep window.
	for _, p := range planes[1:] {
		c.Remove(p.Plane())
	}
	if c.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", c.Len())
	}
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if len(dev.allocated) != 3 {
		t.Fatalf("shrink did not reallocate: %d textures", len(dev.allocated))
	}
	if !second.destroyed {
		t.Error("oversized texture was not destroyed")
	}
	third := dev.last(t)
	if third.width*third.height != 2 {
		t.Errorf("capacity after shrink = %d, want 2", third.width*third.height)
	}
}

func TestUpdateAllocationError(t *testing.T) {
	dev := newFakeDevice()
	dev.allocErr = errors.New("out of memory")
	c := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 0)))
	defer c.Destroy()

	err := c.Update(dev)
	if err == nil {
		t.Fatal("Update() = nil, want error")
	}
	if !errors.Is(err, dev.allocErr) {
		t.Errorf("Update() = %v, want wrapped %v", err, dev.allocErr)
	}
	if c.PlaneTexture() != nil {
		t.Error("failed Update left a texture behind")
	}

	// The collection recovers once allocation succeeds.
	dev.allocErr = nil
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() after recovery = %v", err)
	}
	if c.PlaneTexture() == nil {
		t.Error("PlaneTexture() = nil after successful retry")
	}
}

func TestAddAssignsIndexes(t *testing.T) {
	c := NewPlaneCollection()
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 0)
	c.Add(p0)
	c.Add(p1)
	if p0.Index() != 0 || p1.Index() != 1 {
		t.Errorf("indexes = %d, %d, want 0, 1", p0.Index(), p1.Index())
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}
	if got := c.Get(1); got != p1.Plane() {
		t.Errorf("Get(1) = %v, want %v", got, p1.Plane())
	}
}

func TestAddAttachedPlanePanics(t *testing.T) {
	c1 := NewPlaneCollection()
	c2 := NewPlaneCollection()
	p := NewClippingPlane(V3(1, 0, 0), 0)
	c1.Add(p)
	defer func() {
		if recover() == nil {
			t.Error("Add of an attached plane did not panic")
		}
	}()
	c2.Add(p)
}

func TestGetOutOfRangePanics(t *testing.T) {
	c := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 0)))
	defer func() {
		if recover() == nil {
			t.Error("Get(1) on one-plane collection did not panic")
		}
	}()
	c.Get(1)
}

func TestContains(t *testing.T) {
	c := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 2)))
	c.AddPlane(NewPlane(V3(0, 1, 0), 3))

	if !c.Contains(NewPlane(V3(1, 0, 0), 2)) {
		t.Error("Contains missed a tracked plane")
	}
	if !c.Contains(NewPlane(V3(0, 1, 0), 3)) {
		t.Error("Contains missed an untracked plane")
	}
	if c.Contains(NewPlane(V3(1, 0, 0), 99)) {
		t.Error("Contains reported a plane that is not present")
	}
}

func TestRemoveRenumbers(t *testing.T) {
	c := NewPlaneCollection()
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 1)
	p2 := NewClippingPlane(V3(0, 0, 1), 2)
	c.Add(p0)
	c.Add(p1)
	c.Add(p2)

	if !c.Remove(p1.Plane()) {
		t.Fatal("Remove returned false for a present plane")
	}
	if c.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", c.Len())
	}
	if p1.Index() != detachedIndex {
		t.Errorf("removed plane Index() = %d, want %d", p1.Index(), detachedIndex)
	}
	if p0.Index() != 0 || p2.Index() != 1 {
		t.Errorf("indexes after removal = %d, %d, want 0, 1", p0.Index(), p2.Index())
	}
	if c.Remove(NewPlane(V3(0, 1, 0), 1)) {
		t.Error("Remove returned true for an absent plane")
	}
}

func TestRemoveForcesFullUpload(t *testing.T) {
	dev := newFakeDevice()
	p0 := NewClippingPlane(V3(1, 0, 0), 0)
	p1 := NewClippingPlane(V3(0, 1, 0), 1)
	p2 := NewClippingPlane(V3(0, 0, 1), 2)
	c := NewPlaneCollection(WithPlanes(p0, p1, p2))
	defer c.Destroy()

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)

	c.Remove(p1.Plane())
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if tex.fullUploads != 2 || len(tex.regionUploads) != 0 {
		t.Errorf("after Remove: full=%d regions=%d, want a full upload",
			tex.fullUploads, len(tex.regionUploads))
	}
	if got := LayoutFloat.unpackPlane(tex.data, 1); got != p2.Plane() {
		t.Errorf("shifted plane = %v, want %v", got, p2.Plane())
	}
}

func TestRemoveAll(t *testing.T) {
	c := NewPlaneCollection()
	p := NewClippingPlane(V3(1, 0, 0), 0)
	c.Add(p)
	c.AddPlane(NewPlane(V3(0, 1, 0), 1))

	c.RemoveAll()
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if p.Index() != detachedIndex {
		t.Errorf("Index() = %d after RemoveAll, want %d", p.Index(), detachedIndex)
	}
}

func TestUntrackedPlaneDisablesPartialUpdates(t *testing.T) {
	dev := newFakeDevice()
	tracked := NewClippingPlane(V3(1, 0, 0), 0)
	c := NewPlaneCollection(WithPlanes(tracked))
	defer c.Destroy()
	c.AddPlane(NewPlane(V3(0, 1, 0), 1))

	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)

	// Even a single tracked-plane change must re-encode everything now.
	tracked.SetDistance(5)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	if tex.fullUploads != 2 || len(tex.regionUploads) != 0 {
		t.Errorf("full=%d regions=%d, want full uploads only",
			tex.fullUploads, len(tex.regionUploads))
	}

	// The degradation outlives the untracked plane.
	if !c.Remove(NewPlane(V3(0, 1, 0), 1)) {
		t.Fatal("Remove of untracked plane returned false")
	}
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tracked.SetDistance(6)
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex = dev.last(t)
	if len(tex.regionUploads) != 0 {
		t.Error("partial updates resumed after untracked plane removal")
	}
}

func TestSettersAndOptions(t *testing.T) {
	m := Matrix4FromTranslation(V3(1, 2, 3))
	c := NewPlaneCollection(
		WithEnabled(false),
		WithModelMatrix(m),
		WithUnionClippingRegions(true),
		WithEdgeColor(RGBA{1, 0, 0, 1}),
		WithEdgeWidth(2),
	)
	if c.Enabled() {
		t.Error("Enabled() = true, want false")
	}
	if c.ModelMatrix() != m {
		t.Errorf("ModelMatrix() = %v", c.ModelMatrix())
	}
	if !c.UnionClippingRegions() {
		t.Error("UnionClippingRegions() = false, want true")
	}
	if c.EdgeColor() != (RGBA{1, 0, 0, 1}) {
		t.Errorf("EdgeColor() = %v", c.EdgeColor())
	}
	if c.EdgeWidth() != 2 {
		t.Errorf("EdgeWidth() = %v", c.EdgeWidth())
	}

	c.SetEnabled(true)
	c.SetUnionClippingRegions(false)
	c.SetModelMatrix(Matrix4Identity())
	c.SetEdgeColor(RGBA{})
	c.SetEdgeWidth(0)
	if !c.Enabled() || c.UnionClippingRegions() || !c.ModelMatrix().IsIdentity() {
		t.Error("setters did not update state")
	}
}

func TestClone(t *testing.T) {
	t.Run("into nil target", func(t *testing.T) {
		src := NewPlaneCollection(
			WithPlanes(NewClippingPlane(V3(1, 0, 0), 1)),
			WithUnionClippingRegions(true),
			WithEdgeWidth(3),
		)
		src.SetEnabled(false)

		clone := src.Clone(nil)
		if clone == src {
			t.Fatal("Clone returned the source")
		}
		if clone.Len() != 1 || clone.Get(0) != src.Get(0) {
			t.Errorf("clone planes = %d, %v", clone.Len(), clone.Get(0))
		}
		if clone.Enabled() || !clone.UnionClippingRegions() || clone.EdgeWidth() != 3 {
			t.Error("clone did not copy settings")
		}
		if clone.PlaneTexture() != nil {
			t.Error("clone shares GPU state")
		}
	})

	t.Run("reuses target planes", func(t *testing.T) {
		src := NewPlaneCollection(WithPlanes(
			NewClippingPlane(V3(1, 0, 0), 1),
			NewClippingPlane(V3(0, 1, 0), 2),
		))
		existing := NewClippingPlane(V3(0, 0, 1), 9)
		target := NewPlaneCollection(WithPlanes(existing))

		got := src.Clone(target)
		if got != target {
			t.Fatal("Clone did not return the target")
		}
		if target.Len() != 2 {
			t.Fatalf("target Len() = %d, want 2", target.Len())
		}
		if existing.Plane() != src.Get(0) {
			t.Errorf("reused plane = %v, want %v", existing.Plane(), src.Get(0))
		}
		if existing.Index() != 0 {
			t.Errorf("reused plane Index() = %d, want 0", existing.Index())
		}
	})

	t.Run("shrinks target", func(t *testing.T) {
		src := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 1)))
		extra := NewClippingPlane(V3(0, 0, 1), 9)
		target := NewPlaneCollection(WithPlanes(
			NewClippingPlane(V3(0, 1, 0), 5),
			extra,
		))

		src.Clone(target)
		if target.Len() != 1 {
			t.Fatalf("target Len() = %d, want 1", target.Len())
		}
		if extra.Index() != detachedIndex {
			t.Errorf("surplus plane Index() = %d, want %d", extra.Index(), detachedIndex)
		}
	})

	t.Run("mutating the clone leaves the source alone", func(t *testing.T) {
		srcPlane := NewClippingPlane(V3(1, 0, 0), 1)
		src := NewPlaneCollection(WithPlanes(srcPlane))

		clone := src.Clone(nil)
		clone.RemoveAll()
		if src.Len() != 1 || srcPlane.Index() != 0 {
			t.Error("mutating clone affected source")
		}
	})

	t.Run("carries untracked degradation", func(t *testing.T) {
		src := NewPlaneCollection()
		src.AddPlane(NewPlane(V3(1, 0, 0), 1))
		clone := src.Clone(nil)
		if !clone.hasUntracked {
			t.Error("clone dropped the untracked-plane degradation")
		}
	})
}

func TestSetOwner(t *testing.T) {
	t.Run("attach and replace", func(t *testing.T) {
		dev := newFakeDevice()
		first := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 0)))
		if err := first.Update(dev); err != nil {
			t.Fatalf("Update() = %v", err)
		}
		firstTex := dev.last(t)

		type model struct{ clipping *PlaneCollection }
		var m model
		SetOwner(first, &m, &m.clipping)
		if m.clipping != first {
			t.Fatal("slot does not hold the collection")
		}

		// Same collection again is a no-op.
		SetOwner(first, &m, &m.clipping)
		if first.IsDestroyed() {
			t.Fatal("re-attaching the same collection destroyed it")
		}

		// A different collection destroys the previous one.
		second := NewPlaneCollection()
		SetOwner(second, &m, &m.clipping)
		if !first.IsDestroyed() {
			t.Error("replaced collection was not destroyed")
		}
		if !firstTex.destroyed {
			t.Error("replaced collection's texture was not destroyed")
		}
		if m.clipping != second {
			t.Error("slot does not hold the new collection")
		}

		// Nil detaches and destroys.
		SetOwner(nil, &m, &m.clipping)
		if !second.IsDestroyed() {
			t.Error("detached collection was not destroyed")
		}
		if m.clipping != nil {
			t.Error("slot not cleared")
		}
	})

	t.Run("second owner panics", func(t *testing.T) {
		c := NewPlaneCollection()
		var slot1, slot2 *PlaneCollection
		SetOwner(c, "owner1", &slot1)
		slot1 = nil // simulate the first owner forgetting to release
		defer func() {
			if recover() == nil {
				t.Error("SetOwner on an owned collection did not panic")
			}
		}()
		SetOwner(c, "owner2", &slot2)
	})
}

func TestDestroy(t *testing.T) {
	dev := newFakeDevice()
	c := NewPlaneCollection(WithPlanes(NewClippingPlane(V3(1, 0, 0), 0)))
	if err := c.Update(dev); err != nil {
		t.Fatalf("Update() = %v", err)
	}
	tex := dev.last(t)

	if c.IsDestroyed() {
		t.Fatal("IsDestroyed() = true before Destroy")
	}
	c.Destroy()
	if !c.IsDestroyed() {
		t.Error("IsDestroyed() = false after Destroy")
	}
	if !tex.destroyed {
		t.Error("Destroy did not release the texture")
	}

	defer func() {
		if recover() == nil {
			t.Error("operation on destroyed collection did not panic")
		}
	}()
	c.Len()
}
