package demo

import (
	"fmt"
	"math/rand/v2"
	"slices"
	"strconv"

	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/domain/gfx"
)

// SnakeStep is the time between two snake moves in seconds
const SnakeStep = 0.1

type cell struct {
	x, y int
}

// Snake is the classic snake game on a grid fitted to the window.
type Snake struct {
	env    *scene.Env
	beeper *Beeper
	rng    *rand.Rand

	cols, rows int
	size       float32

	body  []cell
	food  cell
	dir   cell
	score int
	over  bool
	delay float64
}

// NewSnake creates the snake scene. Food placement is seeded so that
// recorded sessions replay identically.
func NewSnake(env *scene.Env) scene.Scene {
	return &Snake{
		env:    env,
		beeper: NewBeeper(env),
		rng:    rand.New(rand.NewPCG(1, 2)),
	}
}

func (s *Snake) Enter([]string) error {
	w, h := s.env.Window.Width(), s.env.Window.Height()
	scale := max(h/240, 1)
	grid := 10 * scale
	s.cols, s.rows = w/grid, h/grid
	if s.cols < 2 || s.rows < 2 {
		return fmt.Errorf("window %dx%d too small for snake", w, h)
	}
	s.size = float32(grid)
	s.reset()
	return nil
}

func (s *Snake) reset() {
	s.body = []cell{{s.cols / 2, s.rows / 2}}
	s.dir = cell{1, 0}
	s.score = 0
	s.over = false
	s.delay = 0
	s.placeFood()
}

func (s *Snake) placeFood() {
	s.food = cell{s.rng.IntN(s.cols), s.rng.IntN(s.rows)}
}

func (s *Snake) Input(ev scene.Event) error {
	if s.over && ev.Kind == scene.EventButton && ev.Value > 0 {
		if ev.ID == buttonStart {
			s.env.Scenes.SwitchScene(MenuScene, strconv.Itoa(s.score))
			return nil
		}
		s.reset()
		return nil
	}
	if ev.Kind == scene.EventAxis && abs32(ev.Value) > 0.5 {
		v := 1
		if ev.Value < 0 {
			v = -1
		}
		if ev.ID%2 == 0 {
			s.dir = cell{v, 0}
		} else {
			s.dir = cell{0, v}
		}
	}
	return nil
}

func (s *Snake) Update(dt float64) (bool, error) {
	s.beeper.Update(dt)
	s.delay += dt
	if s.delay < SnakeStep || s.over {
		return true, nil
	}
	s.delay = 0

	head := cell{s.body[0].x + s.dir.x, s.body[0].y + s.dir.y}
	if head.x < 0 || head.x >= s.cols || head.y < 0 || head.y >= s.rows || slices.Contains(s.body, head) {
		s.gameOver()
		return true, nil
	}

	s.body = slices.Insert(s.body, 0, head)
	if head == s.food {
		s.score++
		s.beeper.Beep(660, 0.05, 0.3, 0.5, 0)
		s.placeFood()
	} else {
		s.body = s.body[:len(s.body)-1]
	}
	return true, nil
}

func (s *Snake) gameOver() {
	s.over = true
	s.beeper.Play(Note{Freq: 220, Duration: 0.1, Vol: 0.6}, Note{Freq: 110, Duration: 0.25})
	if s.env.Storage == nil {
		return
	}
	best, _ := strconv.Atoi(s.env.Storage.Get(HighScoreKey))
	if s.score > best {
		s.env.Storage.Set(HighScoreKey, strconv.Itoa(s.score))
	}
}

func (s *Snake) Draw(ctx *gfx.Context) error {
	g := s.size
	ctx.Color(0x202020FF)
	ctx.FillRect(0, 0, g*float32(s.cols), g*float32(s.rows))

	ctx.Color(0x00FF00FF)
	for _, c := range s.body {
		ctx.FillRect(float32(c.x)*g, float32(c.y)*g, g, g)
	}
	ctx.Color(0xFF0000FF)
	ctx.FillRect(float32(s.food.x)*g, float32(s.food.y)*g, g, g)

	ctx.Color(0xFFFFFFFF)
	ctx.FillText(0, g, 2*g, fmt.Sprintf("Score:%d", s.score), gfx.AlignLeft)
	if s.over {
		w, h := float32(s.env.Window.Width()), float32(s.env.Window.Height())
		ctx.FillText(0, w/2, h/2, "GAME OVER", gfx.AlignCenter|gfx.AlignMiddle)
	}
	return nil
}

// Score returns the number of eaten food items
func (s *Snake) Score() int {
	return s.score
}

// Over reports whether the snake crashed
func (s *Snake) Over() bool {
	return s.over
}
