// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package clip

// Option configures a PlaneCollection at construction.
type Option func(*PlaneCollection)

// WithPlanes adds the given tracked planes to the collection.
func WithPlanes(planes ...*ClippingPlane) Option {
	return func(c *PlaneCollection) {
		for _, p := range planes {
			c.Add(p)
		}
	}
}

// WithEnabled sets whether clipping is initially applied. The default
// is enabled.
func WithEnabled(enabled bool) Option {
	return func(c *PlaneCollection) {
		c.enabled = enabled
	}
}

// WithModelMatrix sets the transform from plane space to the space
// volumes are classified in. The default is the identity.
func WithModelMatrix(m Matrix4) Option {
	return func(c *PlaneCollection) {
		c.modelMatrix = m
	}
}

// WithUnionClippingRegions selects union combination of the per-plane
// clip regions. The default is intersection.
func WithUnionClippingRegions(union bool) Option {
	return func(c *PlaneCollection) {
		c.unionClippingRegions = union
	}
}

// WithEdgeColor sets the cosmetic cut-edge highlight color.
func WithEdgeColor(color RGBA) Option {
	return func(c *PlaneCollection) {
		c.edgeColor = color
	}
}

// WithEdgeWidth sets the cosmetic cut-edge highlight width in pixels.
func WithEdgeWidth(width float32) Option {
	return func(c *PlaneCollection) {
		c.edgeWidth = width
	}
}
