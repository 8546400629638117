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

package render

import (
	"seehuhn.de/go/geom/matrix"
	"seehuhn.de/go/pdf"
	"seehuhn.de/go/pdf/document"
	"seehuhn.de/go/pdf/graphics"
	"seehuhn.de/go/pdf/graphics/color"

	"seehuhn.de/go/geom/rect"

	"github.com/lumenforge/rayoptics"
)

// ExportPDF writes a single-page PDF snapshot of polylines to path, one
// vector stroke per ray polyline, in its RGB color scaled by its
// terminal-intensity alpha. The strokes themselves are opaque; over the
// black background the scaling darkens dim rays. Unlike Canvas.Render this is a true vector
// rasterization-free export: Ghostscript or any PDF viewer supplies the
// antialiasing, the way testcases/genpdf/main.go generates the teacher's
// own reference images.
func ExportPDF(path string, polylines []rayoptics.Polyline, viewport rect.Rect, strokeWidthMM float64) error {
	width := viewport.URx - viewport.LLx
	height := viewport.URy - viewport.LLy
	if width <= 0 || height <= 0 {
		width, height = 1, 1
	}
	if strokeWidthMM <= 0 {
		strokeWidthMM = DefaultStrokeWidthMM
	}

	paper := &pdf.Rectangle{URx: width, URy: height}
	page, err := document.CreateSinglePage(path, paper, pdf.V1_7, nil)
	if err != nil {
		return err
	}

	// Black background, matching the teacher's reference-image convention
	// (page.go's coverage semantics: 0 = no coverage, 255 = full).
	page.SetFillColor(color.DeviceGray(0))
	page.Rectangle(0, 0, width, height)
	page.Fill()

	// The optics frame has its origin at Viewport's lower-left with y up;
	// PDF user space already has y up, so only the origin needs shifting.
	page.Transform(matrix.Matrix{1, 0, 0, 1, -viewport.LLx, -viewport.LLy})

	page.SetLineWidth(strokeWidthMM)
	page.SetLineCap(graphics.LineCapRound)
	page.SetLineJoin(graphics.LineJoinRound)

	for _, pl := range polylines {
		if len(pl.Points) < 2 || pl.RGBA[3] == 0 {
			continue
		}
		alpha := float64(pl.RGBA[3]) / 255
		page.SetStrokeColor(color.DeviceRGB(
			float64(pl.RGBA[0])/255*alpha,
			float64(pl.RGBA[1])/255*alpha,
			float64(pl.RGBA[2])/255*alpha,
		))
		page.MoveTo(pl.Points[0].X, pl.Points[0].Y)
		for _, p := range pl.Points[1:] {
			page.LineTo(p.X, p.Y)
		}
		page.Stroke()
	}

	return page.Close()
}
