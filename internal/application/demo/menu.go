package demo

import (
	"fmt"

	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/domain/gfx"
	"github.com/younwookim/arcamini/internal/domain/resource"
)

const titleSVG = `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 320 80">
<rect x="4" y="4" width="312" height="72" rx="12" fill="#ffffff" fill-opacity="0.2"/>
<circle cx="40" cy="40" r="24" fill="#ffcc00"/>
<circle cx="280" cy="40" r="24" fill="#00ccff"/>
<rect x="76" y="30" width="168" height="20" rx="10" fill="#ffffff"/>
</svg>`

var menuItems = []string{SnakeScene, StressScene, "exit"}

// Menu is the title screen listing the other demos.
type Menu struct {
	env    *scene.Env
	beeper *Beeper

	title resource.Handle
	font  resource.Handle

	sel       int
	prevY     float32
	running   bool
	lastScore string
}

// NewMenu creates the menu scene
func NewMenu(env *scene.Env) scene.Scene {
	m := &Menu{env: env, beeper: NewBeeper(env), title: resource.Invalid}
	if env.Resources != nil {
		m.title = env.Resources.VectorImage(titleSVG, 1, 0.5, 0.5)
		m.font = env.Resources.Font("", 32)
	}
	return m
}

func (m *Menu) Enter(args []string) error {
	m.running = true
	m.sel = 0
	m.prevY = 0
	m.lastScore = ""
	if len(args) > 0 {
		m.lastScore = args[0]
	}
	return nil
}

func (m *Menu) Input(ev scene.Event) error {
	switch ev.Kind {
	case scene.EventAxis:
		if ev.ID != 1 {
			return nil
		}
		if m.prevY == 0 && ev.Value != 0 {
			m.move(ev.Value)
		}
		m.prevY = ev.Value
	case scene.EventButton:
		if ev.Value == 0 {
			return nil
		}
		switch ev.ID {
		case buttonA:
			return m.trigger()
		case buttonStart:
			m.running = false
		}
	}
	return nil
}

func (m *Menu) Update(dt float64) (bool, error) {
	m.beeper.Update(dt)
	return m.running, nil
}

func (m *Menu) Draw(ctx *gfx.Context) error {
	w, h := float32(m.env.Window.Width()), float32(m.env.Window.Height())

	ctx.Color(0xFF4080FF)
	ctx.FillRect(0, 0, w, h)
	ctx.Color(0xFFFFFFFF)
	if m.title.Valid() {
		ctx.DrawImage(m.title, w/2, h*0.3, 0, 1, gfx.FlipNone)
	}

	for i, item := range menuItems {
		if i == m.sel {
			ctx.Color(0xFFFFFFFF)
		} else {
			ctx.Color(0xFFFFFF80)
		}
		ctx.FillText(m.font, w/2, h/2+40*float32(i+1), item, gfx.AlignCenter|gfx.AlignMiddle)
	}

	ctx.Color(0xFFFFFFC0)
	ctx.FillText(0, 8, h-8, m.scoreLine(), gfx.AlignLeft|gfx.AlignBottom)
	return nil
}

// Selected returns the highlighted menu entry
func (m *Menu) Selected() string {
	return menuItems[m.sel]
}

func (m *Menu) scoreLine() string {
	best := "0"
	if m.env.Storage != nil {
		if v := m.env.Storage.Get(HighScoreKey); v != "" {
			best = v
		}
	}
	if m.lastScore != "" {
		return fmt.Sprintf("score %s  best %s", m.lastScore, best)
	}
	return "best " + best
}

func (m *Menu) move(dir float32) {
	freq := 120.0
	if dir < 0 {
		freq = 60
		m.sel--
	} else {
		m.sel++
	}
	m.sel = (m.sel + len(menuItems)) % len(menuItems)
	m.beeper.Beep(freq*4, 0.05, 0.2, 0.5, 0)
}

func (m *Menu) trigger() error {
	item := menuItems[m.sel]
	if item == "exit" {
		m.running = false
		return nil
	}
	m.beeper.Beep(880, 0.08, 0.3, 0.5, 0)
	m.env.Scenes.SwitchScene(item)
	return nil
}
