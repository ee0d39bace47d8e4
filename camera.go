// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package graphview

import "math"

// Camera is a 2D planar camera: a similarity transform (translate, uniform
// zoom, rotation) followed by an orthographic projection of the viewport.
//
// World units scaled by Zoom are pixels. The renderer receives both the
// projection matrix and the zoom as separate values; nothing downstream has
// to recover the zoom from a matrix entry.
type Camera struct {
	centerX, centerY float32
	zoom             float32
	rotation         float32
	width, height    int
}

// NewCamera returns a camera looking at (cx, cy) with zoom 1.
func NewCamera(cx, cy float32, width, height int) Camera {
	return Camera{centerX: cx, centerY: cy, zoom: 1, width: max(width, 1), height: max(height, 1)}
}

// Center returns the world point at the middle of the viewport.
func (c Camera) Center() (x, y float32) { return c.centerX, c.centerY }

// Zoom returns the number of pixels per world unit.
func (c Camera) Zoom() float32 { return c.zoom }

// Rotation returns the view rotation in radians.
func (c Camera) Rotation() float32 { return c.rotation }

// Size returns the viewport size in pixels.
func (c Camera) Size() (width, height int) { return c.width, c.height }

// View returns the world-to-view matrix.
func (c Camera) View() Mat4 {
	return RotateZ4(c.rotation).
		Mul(Scale4(c.zoom)).
		Mul(Translate4(-c.centerX, -c.centerY, 0))
}

// Projection returns the world-to-clip matrix.
func (c Camera) Projection() Mat4 {
	hw := float32(c.width) / 2
	hh := float32(c.height) / 2
	return Ortho(-hw, hw, -hh, hh, -1, 1).Mul(c.View())
}

// Resize changes the viewport size, keeping center and zoom.
func (c *Camera) Resize(width, height int) {
	c.width = max(width, 1)
	c.height = max(height, 1)
}

// SetZoom sets the zoom directly. Non-positive values are ignored.
func (c *Camera) SetZoom(z float32) {
	if z > 0 {
		c.zoom = z
	}
}

// Pan moves the view by a drag of (dx, dy) pixels, y pointing down.
func (c *Camera) Pan(dx, dy float32) {
	wx, wy := c.unrotate(dx, -dy)
	c.centerX -= wx / c.zoom
	c.centerY -= wy / c.zoom
}

// ZoomAt scales the zoom by factor while keeping the world point under the
// pixel (px, py) fixed on screen.
func (c *Camera) ZoomAt(factor, px, py float32) {
	if factor <= 0 {
		return
	}
	wx, wy := c.ScreenToWorld(px, py)
	c.zoom *= factor
	vx, vy := c.unrotate(px-float32(c.width)/2, float32(c.height)/2-py)
	c.centerX = wx - vx/c.zoom
	c.centerY = wy - vy/c.zoom
}

// Rotate adds angle radians to the view rotation around the view center.
func (c *Camera) Rotate(angle float32) {
	c.rotation += angle
}

// ScreenToWorld converts a pixel position (origin top-left, y down) to world
// coordinates.
func (c Camera) ScreenToWorld(px, py float32) (x, y float32) {
	vx, vy := c.unrotate(px-float32(c.width)/2, float32(c.height)/2-py)
	return c.centerX + vx/c.zoom, c.centerY + vy/c.zoom
}

// WorldToScreen converts world coordinates to a pixel position.
func (c Camera) WorldToScreen(x, y float32) (px, py float32) {
	v := c.View().Transform(x, y, 0, 1)
	return v[0] + float32(c.width)/2, float32(c.height)/2 - v[1]
}

// Fit centers the camera on the box and picks the zoom that shows all of it,
// leaving margin (a fraction of the viewport, 0..1) free around it.
func (c *Camera) Fit(minX, minY, maxX, maxY, margin float32) {
	c.centerX = (minX + maxX) / 2
	c.centerY = (minY + maxY) / 2
	c.rotation = 0
	dx, dy := maxX-minX, maxY-minY
	if dx <= 0 && dy <= 0 {
		c.zoom = 1
		return
	}
	fill := 1 - max(0, min(margin, 0.9))
	zx := float32(math.Inf(1))
	if dx > 0 {
		zx = float32(c.width) / dx
	}
	zy := float32(math.Inf(1))
	if dy > 0 {
		zy = float32(c.height) / dy
	}
	c.zoom = min(zx, zy) * fill
}

// unrotate applies the inverse view rotation to a view-space vector.
func (c Camera) unrotate(x, y float32) (float32, float32) {
	if c.rotation == 0 {
		return x, y
	}
	sin, cos := math.Sincos(float64(-c.rotation))
	s, co := float32(sin), float32(cos)
	return x*co - y*s, x*s + y*co
}
