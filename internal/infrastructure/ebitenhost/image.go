package ebitenhost

import (
	"bytes"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"path"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"

	"github.com/younwookim/arcamini/internal/domain/resource"
)

type imageEntry struct {
	img *ebiten.Image
	// pivot in pixels
	centerX, centerY float32
	filter           ebiten.Filter
}

// LoadImage implements resource.Backend. SVG files are rasterized at scale;
// other formats ignore it.
func (h *Host) LoadImage(name string, scale, centerX, centerY float32, filter resource.Filter) (resource.Handle, error) {
	data, err := h.read(name)
	if err != nil {
		return resource.Invalid, err
	}

	var img image.Image
	if strings.EqualFold(path.Ext(name), ".svg") {
		img, err = rasterizeSVG(string(data), scale)
	} else {
		img, _, err = image.Decode(bytes.NewReader(data))
	}
	if err != nil {
		return resource.Invalid, fmt.Errorf("failed to decode %s: %w", name, err)
	}
	return h.addImage(ebiten.NewImageFromImage(img), centerX, centerY, filter), nil
}

// CreateImage implements resource.Backend. pixels holds width*height
// non-premultiplied RGBA values.
func (h *Host) CreateImage(pixels []byte, width, height int, centerX, centerY float32, filter resource.Filter) (resource.Handle, error) {
	if width <= 0 || height <= 0 || len(pixels) < width*height*4 {
		return resource.Invalid, fmt.Errorf("invalid image data %dx%d (%d bytes)", width, height, len(pixels))
	}
	img := &image.NRGBA{
		Pix:    pixels[:width*height*4],
		Stride: width * 4,
		Rect:   image.Rect(0, 0, width, height),
	}
	return h.addImage(ebiten.NewImageFromImage(img), centerX, centerY, filter), nil
}

// CreateVectorImage implements resource.Backend
func (h *Host) CreateVectorImage(markup string, scale, centerX, centerY float32) (resource.Handle, error) {
	img, err := rasterizeSVG(markup, scale)
	if err != nil {
		return resource.Invalid, err
	}
	return h.addImage(ebiten.NewImageFromImage(img), centerX, centerY, resource.FilterLinear), nil
}

// TileGrid implements resource.Backend. Each cell of the parent is inset by
// border pixels on every side; tiles inherit the parent's relative center.
func (h *Host) TileGrid(parent resource.Handle, tilesX, tilesY, border uint16) (resource.Handle, error) {
	p, ok := entry[*imageEntry](h, parent)
	if !ok {
		return resource.Invalid, fmt.Errorf("tile grid parent %d is not an image", parent)
	}
	rects, err := tileRects(p.img.Bounds(), int(tilesX), int(tilesY), int(border))
	if err != nil {
		return resource.Invalid, err
	}

	size := p.img.Bounds().Size()
	relX, relY := p.centerX/float32(size.X), p.centerY/float32(size.Y)

	first := resource.Handle(len(h.entries))
	for _, rect := range rects {
		tile := p.img.SubImage(rect).(*ebiten.Image)
		h.add(&imageEntry{
			img:     tile,
			centerX: relX * float32(rect.Dx()),
			centerY: relY * float32(rect.Dy()),
			filter:  p.filter,
		})
	}
	return first, nil
}

func (h *Host) addImage(img *ebiten.Image, centerX, centerY float32, filter resource.Filter) resource.Handle {
	size := img.Bounds().Size()
	return h.add(&imageEntry{
		img:     img,
		centerX: centerX * float32(size.X),
		centerY: centerY * float32(size.Y),
		filter:  ebitenFilter(filter),
	})
}

func ebitenFilter(f resource.Filter) ebiten.Filter {
	if f == resource.FilterNearest {
		return ebiten.FilterNearest
	}
	return ebiten.FilterLinear
}

// tileRects splits bounds into a row-major grid of cells, each inset by border
func tileRects(bounds image.Rectangle, tilesX, tilesY, border int) ([]image.Rectangle, error) {
	if tilesX <= 0 || tilesY <= 0 {
		return nil, fmt.Errorf("tile grid %dx%d is empty", tilesX, tilesY)
	}
	cellW, cellH := bounds.Dx()/tilesX, bounds.Dy()/tilesY
	if cellW <= 2*border || cellH <= 2*border {
		return nil, fmt.Errorf("tile grid %dx%d with border %d does not fit %v", tilesX, tilesY, border, bounds.Size())
	}

	rects := make([]image.Rectangle, 0, tilesX*tilesY)
	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			x := bounds.Min.X + tx*cellW
			y := bounds.Min.Y + ty*cellH
			rects = append(rects, image.Rect(x+border, y+border, x+cellW-border, y+cellH-border))
		}
	}
	return rects, nil
}

// rasterizeSVG renders SVG markup at scale times its view box size
func rasterizeSVG(markup string, scale float32) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse svg: %w", err)
	}
	if scale <= 0 {
		scale = 1
	}
	w := int(icon.ViewBox.W*float64(scale) + 0.5)
	h := int(icon.ViewBox.H*float64(scale) + 0.5)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has an empty view box")
	}

	icon.SetTarget(0, 0, float64(w), float64(h))
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	scanner := rasterx.NewScannerGV(w, h, img, img.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1)
	return img, nil
}
