// Package clip maintains ordered collections of clipping planes for GPU
// renderers in the GoGPU ecosystem.
//
// # Overview
//
// A clipping plane is an oriented half-space: geometry on the positive side
// of the plane is kept, geometry on the negative side is clipped away. A
// [PlaneCollection] holds an ordered set of such planes, encodes them into a
// compact texture for shader access, and answers spatial classification
// queries ("is this bounding volume inside, outside, or straddling the
// combined clip region?") for CPU-side culling.
//
// # Quick Start
//
//	planes := clip.NewPlaneCollection(
//	    clip.WithPlanes(
//	        clip.NewClippingPlane(clip.Vector3{X: 0, Y: 0, Z: 1}, 0),
//	    ),
//	)
//
//	// Once per frame, re-encode changed planes and upload them.
//	if err := planes.Update(device); err != nil {
//	    log.Fatal(err)
//	}
//
//	// Cull against the combined clip region.
//	sphere := clip.BoundingSphere{Center: clip.Vector3{Z: 5}, Radius: 1}
//	if planes.ComputeIntersection(sphere, nil) == clip.Outside {
//	    // skip drawing
//	}
//
// # Incremental updates
//
// The collection tracks which planes changed between frames. When exactly
// one tracked plane moved, Update re-encodes and uploads only that plane's
// texels; any larger change (two planes, a removal, a reallocation) falls
// back to a full re-encode. Mutating a plane through its setters is what
// feeds this tracking; planes added through [PlaneCollection.AddPlane] are
// untracked and permanently disable the partial-update path.
//
// # Texture layouts
//
// Planes are encoded in one of two binary layouts, chosen per device: an
// RGBA32Float layout (one texel per plane) when the device supports float
// textures, and a quantized RGBA8 layout (two texels per plane, octahedral
// normal encoding) otherwise. The shader package generates the matching
// WGSL decode functions.
//
// # Concurrency
//
// PlaneCollection is not safe for concurrent use. It is designed for a
// single-threaded render loop: mutate between frames, call Update once per
// frame.
package clip
