// Copyright 2026 The gogpu Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package shader generates the WGSL fragment-stage code that applies a
// clipping plane collection on the GPU.
//
// The generated function reads encoded planes from the texture a
// clip.PlaneCollection keeps current, decodes them per the collection's
// layout, and discards clipped fragments. The signed distance to the
// nearest clip boundary is returned so renderers can draw an edge
// highlight.
package shader

import (
	"fmt"
	"strings"

	"github.com/gogpu/clip"
	"github.com/gogpu/naga"
)

// Source returns a WGSL snippet defining clip_planes_apply, the
// fragment-stage clipping function for the given layout, plane count
// and combination mode.
//
// The snippet is self-contained and meant to be concatenated into a
// larger fragment shader that binds the plane texture and calls
//
//	let edge = clip_planes_apply(planes, clip_matrix, position);
//
// with position in the same space clip_matrix maps planes into.
// clip_matrix is the collection's model matrix composed with any view
// transform, uploaded as a uniform each frame.
func Source(layout clip.Layout, planeCount int, union bool) string {
	var b strings.Builder
	b.WriteString(header)
	if layout == clip.LayoutQuantized {
		b.WriteString(quantizedDecode)
	} else {
		b.WriteString(floatDecode)
	}
	fmt.Fprintf(&b, applyTemplate, planeCount, combineBody(union))
	return b.String()
}

const header = `// Generated clipping plane support. Do not edit.

fn clip_sign_not_zero(v: f32) -> f32 {
    return select(-1.0, 1.0, v >= 0.0);
}

// Re-derives the plane after the clip matrix moves it: transform a
// point on the plane and the normal separately, then recompute the
// plane constant.
fn clip_plane_transform(plane: vec4<f32>, m: mat4x4<f32>) -> vec4<f32> {
    let point = (m * vec4<f32>(plane.xyz * -plane.w, 1.0)).xyz;
    let normal = normalize((m * vec4<f32>(plane.xyz, 0.0)).xyz);
    return vec4<f32>(normal, -dot(normal, point));
}
`

// floatDecode reads one RGBA32Float texel per plane.
const floatDecode = `
// Reads the plane at index: xyz is the unit normal, w the distance.
fn clip_plane_decode(planes: texture_2d<f32>, index: u32) -> vec4<f32> {
    let width = u32(textureDimensions(planes).x);
    let coord = vec2<i32>(i32(index % width), i32(index / width));
    return textureLoad(planes, coord, 0);
}
`

// quantizedDecode reads two RGBA8Unorm texels per plane: an octahedral
// encoded normal followed by the raw float32 distance bits.
const quantizedDecode = `
fn clip_unpack_u32(texel: vec4<f32>) -> u32 {
    let b = vec4<u32>(round(texel * 255.0));
    return b.x | (b.y << 8u) | (b.z << 16u) | (b.w << 24u);
}

fn clip_oct_decode(x: f32, y: f32) -> vec3<f32> {
    var v = vec3<f32>(x, y, 1.0 - abs(x) - abs(y));
    if (v.z < 0.0) {
        let fx = (1.0 - abs(v.y)) * clip_sign_not_zero(v.x);
        let fy = (1.0 - abs(v.x)) * clip_sign_not_zero(v.y);
        v = vec3<f32>(fx, fy, v.z);
    }
    return normalize(v);
}

// Reads the plane at index: xyz is the unit normal, w the distance.
fn clip_plane_decode(planes: texture_2d<f32>, index: u32) -> vec4<f32> {
    let width = u32(textureDimensions(planes).x);
    let texel = index * 2u;
    let oct_coord = vec2<i32>(i32(texel % width), i32(texel / width));
    let dist_coord = vec2<i32>(i32((texel + 1u) % width), i32((texel + 1u) / width));

    // Each 16-bit octahedral coordinate is split high byte then low byte.
    let oct = round(textureLoad(planes, oct_coord, 0) * 255.0);
    let ox = (oct.x * 256.0 + oct.y) / 65535.0 * 2.0 - 1.0;
    let oy = (oct.z * 256.0 + oct.w) / 65535.0 * 2.0 - 1.0;
    let normal = clip_oct_decode(ox, oy);

    let dist = bitcast<f32>(clip_unpack_u32(textureLoad(planes, dist_coord, 0)));
    return vec4<f32>(normal, dist);
}
`

// applyTemplate expects the plane count and the per-plane combine body.
const applyTemplate = `
// Discards the fragment at position when it is clipped, and returns the
// signed distance to the nearest clip boundary for edge highlighting.
fn clip_planes_apply(planes: texture_2d<f32>, clip_matrix: mat4x4<f32>, position: vec3<f32>) -> f32 {
    let count = %du;
    var edge = 3.402823466e+38;
    var kept = count == 0u;
    for (var i = 0u; i < count; i = i + 1u) {
        let plane = clip_plane_transform(clip_plane_decode(planes, i), clip_matrix);
        let d = dot(position, plane.xyz) + plane.w;
%s        edge = min(edge, abs(d));
    }
    if (!kept) {
        discard;
    }
    return edge;
}
`

// combineBody returns the per-plane keep decision for the mode.
func combineBody(union bool) string {
	if union {
		// Union of clip regions: any clipping plane discards.
		return `        if (d < 0.0) {
            discard;
        }
        kept = true;
`
	}
	// Intersection of clip regions: kept unless every plane clips.
	return `        if (d >= 0.0) {
            kept = true;
        }
`
}

// Compile compiles WGSL source to SPIR-V words via naga.
func Compile(source string) ([]uint32, error) {
	spirvBytes, err := naga.Compile(source)
	if err != nil {
		return nil, fmt.Errorf("shader: compile failed: %w", err)
	}

	// SPIR-V is little-endian 32-bit words.
	words := make([]uint32, len(spirvBytes)/4)
	for i := range words {
		words[i] = uint32(spirvBytes[i*4]) |
			uint32(spirvBytes[i*4+1])<<8 |
			uint32(spirvBytes[i*4+2])<<16 |
			uint32(spirvBytes[i*4+3])<<24
	}
	return words, nil
}
