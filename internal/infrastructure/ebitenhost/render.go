package ebitenhost

import (
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/younwookim/arcamini/internal/domain/gfx"
	"github.com/younwookim/arcamini/internal/domain/resource"
)

// renderer draws decoded ops. Color, line width and clip persist across the
// batches of a frame and are reset by begin.
type renderer struct {
	host   *Host
	screen *ebiten.Image
	target *ebiten.Image

	color     color.NRGBA
	lineWidth float32
}

func (r *renderer) begin(screen *ebiten.Image) {
	r.screen = screen
	r.target = screen
	r.color = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	r.lineWidth = 1
}

func (r *renderer) Color(rgba uint32) {
	r.color = unpackColor(rgba)
}

func (r *renderer) LineWidth(w float32) {
	r.lineWidth = w
}

// ClipRect restricts drawing to a sub-image of the screen. A negative width
// or height disables clipping.
func (r *renderer) ClipRect(x, y, w, h int32) {
	if w < 0 || h < 0 {
		r.target = r.screen
		return
	}
	r.target = r.screen.SubImage(clipBounds(x, y, w, h, r.screen.Bounds())).(*ebiten.Image)
}

// clipBounds is the clip rectangle limited to bounds. Sums are taken in int
// so large values cannot wrap.
func clipBounds(x, y, w, h int32, bounds image.Rectangle) image.Rectangle {
	return image.Rect(int(x), int(y), int(x)+int(w), int(y)+int(h)).Intersect(bounds)
}

func (r *renderer) FillRect(x, y, w, h float32) {
	vector.DrawFilledRect(r.target, x, y, w, h, r.color, false)
}

func (r *renderer) DrawRect(x, y, w, h float32) {
	vector.StrokeRect(r.target, x, y, w, h, r.lineWidth, r.color, true)
}

func (r *renderer) DrawLine(x1, y1, x2, y2 float32) {
	vector.StrokeLine(r.target, x1, y1, x2, y2, r.lineWidth, r.color, true)
}

func (r *renderer) DrawImage(img resource.Handle, x, y, rot, scale float32, flip int32) {
	e, ok := entry[*imageEntry](r.host, img)
	if !ok {
		return
	}
	m := imageTransform(e.centerX, e.centerY, x, y, rot, scale, flip)
	size := e.img.Bounds().Size()
	if !rotatedBounds(size.X, size.Y, m).Overlaps(r.target.Bounds()) {
		return
	}
	op := &ebiten.DrawImageOptions{GeoM: m, Filter: e.filter}
	r.target.DrawImage(e.img, op)
}

func (r *renderer) FillText(font resource.Handle, x, y float32, s string, align uint32) {
	e, ok := entry[*fontEntry](r.host, font)
	if !ok {
		return
	}
	op := &text.DrawOptions{}
	op.PrimaryAlign, op.SecondaryAlign = textAlign(align)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(r.color)
	text.Draw(r.target, s, e.face, op)
}

// imageTransform places an image so its center point lands on (x, y) after
// flipping, scaling and rotating by rot radians around it.
func imageTransform(centerX, centerY, x, y, rot, scale float32, flip int32) ebiten.GeoM {
	var m ebiten.GeoM
	m.Translate(-float64(centerX), -float64(centerY))
	sx, sy := float64(scale), float64(scale)
	if flip&gfx.FlipX != 0 {
		sx = -sx
	}
	if flip&gfx.FlipY != 0 {
		sy = -sy
	}
	m.Scale(sx, sy)
	if rot != 0 {
		m.Rotate(float64(rot))
	}
	m.Translate(float64(x), float64(y))
	return m
}

// textAlign splits align bits into horizontal and vertical alignment
func textAlign(align uint32) (text.Align, text.Align) {
	h, v := text.AlignStart, text.AlignStart
	switch align & 0x3 {
	case gfx.AlignCenter:
		h = text.AlignCenter
	case gfx.AlignRight:
		h = text.AlignEnd
	}
	switch align & 0xC {
	case gfx.AlignMiddle:
		v = text.AlignCenter
	case gfx.AlignBottom:
		v = text.AlignEnd
	}
	return h, v
}

// unpackColor converts 0xRRGGBBAA to a color
func unpackColor(rgba uint32) color.NRGBA {
	return color.NRGBA{
		R: uint8(rgba >> 24),
		G: uint8(rgba >> 16),
		B: uint8(rgba >> 8),
		A: uint8(rgba),
	}
}

// rotatedBounds is used to skip images that are entirely off screen
func rotatedBounds(w, h int, m ebiten.GeoM) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range [][2]float64{{0, 0}, {float64(w), 0}, {0, float64(h)}, {float64(w), float64(h)}} {
		x, y := m.Apply(p[0], p[1])
		minX, minY = math.Min(minX, x), math.Min(minY, y)
		maxX, maxY = math.Max(maxX, x), math.Max(maxY, y)
	}
	return image.Rect(int(math.Floor(minX)), int(math.Floor(minY)), int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
