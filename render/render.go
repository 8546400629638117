// seehuhn.de/go/raster - a 2D rendering library
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package render turns the polylines rayoptics.Trace produces into pixels
// and PDF pages, for debugging a scene rather than for any production
// imaging pipeline. It is not a general-purpose vector rasterizer: paths
// are always open polylines (ray traces never close on themselves), so
// there is no fill, no dashing, and no miter joins to get right — only
// round caps and round joins, stamped the way benchmark_test.go's
// addCircleToVector stamps a circle, at every vertex of every stroke.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"golang.org/x/image/vector"

	"seehuhn.de/go/geom/rect"

	"github.com/lumenforge/rayoptics"
)

// DefaultStrokeWidthMM is the ray-line width used when a Canvas does not
// set one explicitly.
const DefaultStrokeWidthMM = 0.25

// bezierCircleK is the cubic-Bezier control-point factor for approximating
// a circular arc of a quarter turn, same constant benchmark_test.go uses
// to stamp round caps/joins in the teacher's vector.Rasterizer benchmark.
const bezierCircleK = 0.5522847498

// Canvas rasterizes a scene's traced polylines onto a fixed-size pixel
// buffer. Viewport is in scene (mm) coordinates; Width/Height are the
// output size in pixels. Create one Canvas per image; it holds no state
// between Render calls.
type Canvas struct {
	Viewport      rect.Rect
	Width, Height int
	StrokeWidthMM float64
	Background    color.RGBA
}

// NewCanvas returns a Canvas with DefaultStrokeWidthMM and an opaque black
// background, ready to Render into. scene.BoundingBox is a natural source
// for viewport.
func NewCanvas(viewport rect.Rect, width, height int) *Canvas {
	return &Canvas{
		Viewport:      viewport,
		Width:         width,
		Height:        height,
		StrokeWidthMM: DefaultStrokeWidthMM,
		Background:    color.RGBA{0, 0, 0, 255},
	}
}

// scale returns device pixels per scene millimeter along x and y. The two
// can differ if Width/Height don't match the viewport's aspect ratio;
// toDevice applies them independently rather than forcing a uniform scale.
func (c *Canvas) scale() (sx, sy float64) {
	w := c.Viewport.URx - c.Viewport.LLx
	h := c.Viewport.URy - c.Viewport.LLy
	if w <= 0 || h <= 0 {
		return 1, 1
	}
	return float64(c.Width) / w, float64(c.Height) / h
}

// toDevice maps a scene-space point into device pixel coordinates. The
// optics frame is y-up; images are y-down, so the y axis is flipped.
func (c *Canvas) toDevice(v rayoptics.Vector) (float32, float32) {
	sx, sy := c.scale()
	x := (v.X - c.Viewport.LLx) * sx
	y := float64(c.Height) - (v.Y-c.Viewport.LLy)*sy
	return float32(x), float32(y)
}

// Render rasterizes every polyline onto a fresh image.RGBA, each stroked in
// its own color at its own terminal-intensity alpha (rayoptics.Polyline.RGBA),
// composited over Background.
func (c *Canvas) Render(polylines []rayoptics.Polyline) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, c.Width, c.Height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c.Background), image.Point{}, draw.Src)

	width := c.StrokeWidthMM
	if width <= 0 {
		width = DefaultStrokeWidthMM
	}
	sx, sy := c.scale()
	halfWidth := float32(width / 2 * (sx + sy) / 2)

	for _, pl := range polylines {
		c.strokeInto(img, pl, halfWidth)
	}
	return img
}

// strokeInto rasterizes one polyline's coverage mask with x/image/vector
// (the same rasterizer benchmark_test.go exercises directly) and composites
// it over dst through a uniform color scaled by the polyline's alpha.
func (c *Canvas) strokeInto(dst *image.RGBA, pl rayoptics.Polyline, halfWidth float32) {
	if len(pl.Points) < 2 || pl.RGBA[3] == 0 || halfWidth <= 0 {
		return
	}

	r := vector.NewRasterizer(c.Width, c.Height)
	prev, hasPrev := rayoptics.Vector{}, false
	for _, p := range pl.Points {
		if hasPrev {
			ax, ay := c.toDevice(prev)
			bx, by := c.toDevice(p)
			addStrokeQuad(r, ax, ay, bx, by, halfWidth)
			addRoundCap(r, bx, by, halfWidth)
		} else {
			ax, ay := c.toDevice(p)
			addRoundCap(r, ax, ay, halfWidth)
		}
		prev, hasPrev = p, true
	}

	mask := image.NewAlpha(image.Rect(0, 0, c.Width, c.Height))
	r.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})

	alpha := pl.RGBA[3]
	for i, v := range mask.Pix {
		mask.Pix[i] = uint8(uint16(v) * uint16(alpha) / 255)
	}

	src := image.NewUniform(color.RGBA{pl.RGBA[0], pl.RGBA[1], pl.RGBA[2], 255})
	draw.DrawMask(dst, dst.Bounds(), src, image.Point{}, mask, image.Point{}, draw.Over)
}

// addStrokeQuad adds the rectangle swept by a segment of half-width hw,
// the open-path analogue of stroke.go's addStrokeSegment: a unit tangent
// and its 90 degree left normal, offset to either side.
func addStrokeQuad(r *vector.Rasterizer, ax, ay, bx, by, hw float32) {
	dx, dy := bx-ax, by-ay
	length := float32(hypot(dx, dy))
	if length < 1e-6 {
		return
	}
	tx, ty := dx/length, dy/length
	nx, ny := -ty, tx

	r.MoveTo(ax+nx*hw, ay+ny*hw)
	r.LineTo(bx+nx*hw, by+ny*hw)
	r.LineTo(bx-nx*hw, by-ny*hw)
	r.LineTo(ax-nx*hw, ay-ny*hw)
	r.ClosePath()
}

// addRoundCap stamps a full circle of radius r at (cx, cy), the join/cap
// geometry stroke.go's addCap/addJoin build per corner for round styles,
// simplified here to one disc per vertex since overlapping discs and
// quads under the nonzero-winding fill used by vector.Rasterizer produce
// the same round-jointed outline as an explicit join arc would.
func addRoundCap(r *vector.Rasterizer, cx, cy, radius float32) {
	kr := bezierCircleK * radius
	r.MoveTo(cx, cy-radius)
	r.CubeTo(cx+kr, cy-radius, cx+radius, cy-kr, cx+radius, cy)
	r.CubeTo(cx+radius, cy+kr, cx+kr, cy+radius, cx, cy+radius)
	r.CubeTo(cx-kr, cy+radius, cx-radius, cy+kr, cx-radius, cy)
	r.CubeTo(cx-radius, cy-kr, cx-kr, cy-radius, cx, cy-radius)
	r.ClosePath()
}

func hypot(x, y float32) float64 {
	fx, fy := float64(x), float64(y)
	return math.Sqrt(fx*fx + fy*fy)
}
