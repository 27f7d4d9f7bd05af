package demo

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/domain/gfx"
	"github.com/younwookim/arcamini/internal/domain/resource"
)

// object counts selectable with the vertical axis
var stressCounts = []int{100, 200, 400, 500, 1000, 2000, 4000, 8000, 16000, 32000}

const (
	sheetCols  = 6
	sheetRows  = 5
	sheetCell  = 32
	lineHeight = 24
)

type sprite struct {
	image      resource.Handle
	color      uint32
	x, y       float32
	velX, velY float32
	rot        float32
	velRot     float32
	id         int
}

// Stress draws thousands of moving sprites to measure batch throughput.
type Stress struct {
	env *scene.Env

	sprites []sprite
	count   int

	now    float64
	frames int
	fps    string
}

// NewStress creates the stress test scene. Its sprite sheet is generated,
// so it needs no resource files.
func NewStress(env *scene.Env) scene.Scene {
	return &Stress{env: env, count: stressCounts[1]}
}

func (s *Stress) Enter([]string) error {
	if s.env.Resources == nil {
		return fmt.Errorf("stress test needs resources")
	}
	s.env.Window.SetClearColor(0x224466FF)

	w, h := sheetCols*sheetCell, sheetRows*sheetCell
	sheet := s.env.Resources.CreateImage(spriteSheet(), w, h, 0.5, 0.5, resource.FilterLinear)
	first := s.env.Resources.TileGrid(sheet, sheetCols, sheetRows, 2)
	if !first.Valid() {
		return fmt.Errorf("failed to create sprite sheet")
	}

	rng := rand.New(rand.NewPCG(3, 4))
	winW, winH := s.env.Window.Width(), s.env.Window.Height()
	s.sprites = make([]sprite, stressCounts[len(stressCounts)-1])
	for i := range s.sprites {
		s.sprites[i] = newSprite(rng, i, first, winW, winH)
	}
	s.now, s.frames, s.fps = 0, 0, ""
	return nil
}

func newSprite(rng *rand.Rand, seed int, first resource.Handle, winW, winH int) sprite {
	const speed = 32
	sp := sprite{
		x:    float32(rng.IntN(winW)),
		y:    float32(rng.IntN(winH)),
		velX: float32(rng.IntN(2*speed) - speed),
		velY: float32(rng.IntN(2*speed) - speed),
		id:   seed,
	}
	switch seed % 3 {
	case 0:
		sp.image = first + sheetCols*sheetRows - 1 // circle
		sp.color = rng.Uint32() | 0x3F
	case 1:
		sp.image = first + sheetCols*sheetRows - 2 // square
		sp.color = rng.Uint32() | 0x3F
	default:
		sp.image = first + resource.Handle((seed/3)%(sheetCols*sheetRows-2))
		sp.color = 0xFFFFFFFF
		sp.rot = rng.Float32() * 2 * math.Pi
		sp.velRot = rng.Float32()*math.Pi - math.Pi/2
	}
	return sp
}

func (s *Stress) Input(ev scene.Event) error {
	if ev.Kind == scene.EventButton && ev.ID == buttonStart && ev.Value > 0 {
		s.env.Scenes.SwitchScene(MenuScene)
		return nil
	}
	if ev.Kind != scene.EventAxis || ev.ID != 1 {
		return nil
	}
	i := indexOf(stressCounts, s.count)
	switch {
	case ev.Value == -1 && i > 0:
		s.count = stressCounts[i-1]
	case ev.Value == 1 && i < len(stressCounts)-1:
		s.count = stressCounts[i+1]
	}
	return nil
}

func (s *Stress) Update(dt float64) (bool, error) {
	const r = 48 * math.Sqrt2
	winW, winH := float32(s.env.Window.Width()), float32(s.env.Window.Height())
	fdt := float32(dt)

	for i := range s.sprites[:s.count] {
		sp := &s.sprites[i]
		sp.x += sp.velX * fdt
		sp.y += sp.velY * fdt
		sp.rot += sp.velRot * fdt

		if (sp.id+s.frames)%15 != 0 {
			continue
		}
		switch {
		case sp.x > winW+r:
			sp.x = -r
		case sp.x < -r:
			sp.x = winW + r
		}
		switch {
		case sp.y > winH+r:
			sp.y = -r
		case sp.y < -r:
			sp.y = winH + r
		}
	}

	s.frames++
	prev := s.now
	s.now += dt
	if int(s.now) != int(prev) {
		s.fps = fmt.Sprintf("%dfps", s.frames)
		s.frames = 0
	}
	return true, nil
}

func (s *Stress) Draw(ctx *gfx.Context) error {
	for _, sp := range s.sprites[:s.count] {
		ctx.Color(sp.color)
		ctx.DrawImage(sp.image, sp.x, sp.y, sp.rot, 1, gfx.FlipNone)
	}

	ctx.Color(0x7F)
	ctx.FillRect(0, 97, 115, float32(len(stressCounts)*lineHeight))
	for i, n := range stressCounts {
		if n == s.count {
			ctx.Color(0xFFFFFFFF)
		} else {
			ctx.Color(0xFFFFFF7F)
		}
		ctx.FillText(0, 0, float32(100+i*lineHeight), fmt.Sprint(n), gfx.AlignLeft)
	}

	w, h := float32(s.env.Window.Width()), float32(s.env.Window.Height())
	ctx.Color(0x7F)
	ctx.FillRect(0, h-lineHeight-2, w, lineHeight+2)
	ctx.Color(0xFFFFFFFF)
	ctx.FillText(0, 0, h-20, "arcamini graphics performance test", gfx.AlignLeft)
	ctx.Color(0xFF5555FF)
	ctx.FillText(0, w-60, h-20, s.fps, gfx.AlignLeft)
	return nil
}

// Count returns the number of sprites drawn per frame
func (s *Stress) Count() int {
	return s.count
}

func indexOf(xs []int, v int) int {
	for i, x := range xs {
		if x == v {
			return i
		}
	}
	return -1
}

// spriteSheet generates the RGBA pixels of a 6x5 sheet: colored tiles, then
// a white square and a white circle in the last two cells.
func spriteSheet() []byte {
	w, h := sheetCols*sheetCell, sheetRows*sheetCell
	pix := make([]byte, w*h*4)
	last := sheetCols*sheetRows - 1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			tile := (y/sheetCell)*sheetCols + x/sheetCell
			cx, cy := x%sheetCell, y%sheetCell
			var r, g, b, a byte
			switch tile {
			case last:
				dx, dy := float64(cx)-sheetCell/2+0.5, float64(cy)-sheetCell/2+0.5
				if dx*dx+dy*dy <= (sheetCell/2-2)*(sheetCell/2-2) {
					r, g, b, a = 0xFF, 0xFF, 0xFF, 0xFF
				}
			case last - 1:
				r, g, b, a = 0xFF, 0xFF, 0xFF, 0xFF
			default:
				// horizontal stripes, like a flag
				hue := uint32(tile) * 0x9E3779B9
				if (cy*3/sheetCell)%2 == 0 {
					r, g, b = byte(hue>>24), byte(hue>>16), byte(hue>>8)
				} else {
					r, g, b = 0xFF, 0xFF, 0xFF
				}
				a = 0xFF
			}
			i := (y*w + x) * 4
			pix[i], pix[i+1], pix[i+2], pix[i+3] = r, g, b, a
		}
	}
	return pix
}
