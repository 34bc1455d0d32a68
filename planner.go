package clip

// Texture sizing policy. These are pure functions so the growth behavior
// is testable without a device.

// textureResolution maps a required texel count to 2-D texture
// dimensions, filling rows up to maxWidth before growing downward.
// Both dimensions are at least 1.
func textureResolution(texels, maxWidth int) (width, height int) {
	if texels < 1 {
		texels = 1
	}
	if maxWidth < 1 {
		maxWidth = 1
	}
	width = texels
	if width > maxWidth {
		width = maxWidth
	}
	height = (texels + width - 1) / width
	if height < 1 {
		height = 1
	}
	return width, height
}

// keepCapacity reports whether an existing allocation of capacity texels
// can keep serving needed texels. The allocation is kept while it is
// large enough and not more than 4x oversized; outside that window the
// texture is reallocated, amortizing growth and reclaiming memory after
// large shrinks.
func keepCapacity(capacity, needed int) bool {
	if needed < 1 {
		needed = 1
	}
	return capacity >= needed && capacity <= 4*needed
}

// growthTarget returns the texel count a reallocation should plan for:
// twice the immediate need, leaving headroom for planes added in later
// frames.
func growthTarget(needed int) int {
	if needed < 1 {
		needed = 1
	}
	return 2 * needed
}
