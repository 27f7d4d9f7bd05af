package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/younwookim/arcamini/internal/application/state"
	"github.com/younwookim/arcamini/internal/domain/gfx"
)

// mockScene is a test double implementing every capability
type mockScene struct {
	name  string
	trace *[]string

	enterArgs     []string
	enterCalled   int
	inputCalled   int
	updateCalled  int
	drawCalled    int
	leaveCalled   int
	updateResult  bool
	enterErr      error
	inputErr      error
	updateErr     error
	drawErr       error
	leaveErr      error
	panicOnUpdate bool
	onUpdate      func()
}

func (m *mockScene) log(what string) {
	if m.trace != nil {
		*m.trace = append(*m.trace, m.name+"."+what)
	}
}

func (m *mockScene) Enter(args []string) error {
	m.enterCalled++
	m.enterArgs = args
	m.log("enter")
	return m.enterErr
}

func (m *mockScene) Input(ev Event) error {
	m.inputCalled++
	m.log("input")
	return m.inputErr
}

func (m *mockScene) Update(dt float64) (bool, error) {
	m.updateCalled++
	m.log("update")
	if m.onUpdate != nil {
		m.onUpdate()
	}
	if m.panicOnUpdate {
		panic("boom")
	}
	return m.updateResult, m.updateErr
}

func (m *mockScene) Draw(ctx *gfx.Context) error {
	m.drawCalled++
	m.log("draw")
	ctx.Color(0xFFFFFFFF)
	ctx.FillRect(0, 0, 10, 10)
	return m.drawErr
}

func (m *mockScene) Leave() error {
	m.leaveCalled++
	m.log("leave")
	return m.leaveErr
}

// drawOnly exposes a single capability
type drawOnly struct {
	drawCalled int
}

func (d *drawOnly) Draw(ctx *gfx.Context) error {
	d.drawCalled++
	ctx.FillText(0, 1, 1, "hi", gfx.AlignLeft)
	return nil
}

// countingExecutor counts batches handed to the renderer
type countingExecutor struct {
	batches int
	ops     int
}

func (e *countingExecutor) ExecuteBatch(ops []byte, strings []byte) {
	e.batches++
	counts, _ := gfx.Count(ops)
	for _, n := range counts {
		e.ops += n
	}
}

func newTestController(scenes map[string]Scene) (*Controller, *countingExecutor) {
	r := NewRegistry()
	for name, s := range scenes {
		s := s
		r.Register(name, func(*Env) Scene { return s })
	}
	exec := &countingExecutor{}
	return NewController(r, exec, &Env{}), exec
}

func TestController_InitialState(t *testing.T) {
	c, _ := newTestController(nil)

	assert.True(t, c.Running())
	assert.Equal(t, state.NoScene, c.State())
	assert.True(t, c.Update(1.0/60), "no scene keeps running")
}

func TestController_SwitchSceneEntersWithArgs(t *testing.T) {
	a := &mockScene{name: "a", updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a})

	c.SwitchScene("a.py", "current_time", "3.0")

	assert.Equal(t, state.SceneActive, c.State())
	assert.Equal(t, 1, a.enterCalled)
	assert.Equal(t, []string{"current_time", "3.0"}, a.enterArgs)
	cur, name := c.Current()
	assert.Same(t, a, cur)
	assert.Equal(t, "a", name)
}

func TestController_EnterWithoutArgsGetsEmptySlice(t *testing.T) {
	a := &mockScene{name: "a"}
	c, _ := newTestController(map[string]Scene{"a": a})

	c.SwitchScene("a")

	assert.NotNil(t, a.enterArgs)
	assert.Empty(t, a.enterArgs)
}

func TestController_LeaveBeforeEnter(t *testing.T) {
	var trace []string
	a := &mockScene{name: "a", trace: &trace, updateResult: true}
	b := &mockScene{name: "b", trace: &trace, updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a, "b": b})

	c.SwitchScene("a")
	c.SwitchScene("b")

	assert.Equal(t, []string{"a.enter", "a.leave", "b.enter"}, trace)
	assert.True(t, c.Running())
}

func TestController_SwitchToEmptyStops(t *testing.T) {
	var trace []string
	a := &mockScene{name: "a", trace: &trace, updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a})

	c.SwitchScene("a")
	c.SwitchScene("")

	assert.False(t, c.Running())
	assert.Equal(t, state.NoScene, c.State())
	assert.Equal(t, []string{"a.enter", "a.leave"}, trace)

	c.Shutdown()
	assert.Equal(t, 1, a.leaveCalled, "leave runs exactly once")
}

func TestController_UnknownSceneStops(t *testing.T) {
	a := &mockScene{name: "a", updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a})

	c.SwitchScene("a")
	c.SwitchScene("missing")

	assert.False(t, c.Running())
	assert.Equal(t, 1, a.leaveCalled)
	assert.Equal(t, state.NoScene, c.State())
}

func TestController_LeaveFailureStopsButCompletesTransition(t *testing.T) {
	a := &mockScene{name: "a", leaveErr: assert.AnError}
	b := &mockScene{name: "b"}
	c, _ := newTestController(map[string]Scene{"a": a, "b": b})

	c.SwitchScene("a")
	c.SwitchScene("b")

	assert.False(t, c.Running())
	assert.Equal(t, 1, b.enterCalled)
	_, name := c.Current()
	assert.Equal(t, "b", name)
}

func TestController_ScenesAreCachedByName(t *testing.T) {
	created := 0
	r := NewRegistry()
	r.Register("a", func(*Env) Scene {
		created++
		return &mockScene{name: "a", updateResult: true}
	})
	r.Register("b", func(*Env) Scene { return &mockScene{name: "b"} })
	c := NewController(r, &countingExecutor{}, nil)

	c.SwitchScene("a")
	first, _ := c.Current()
	c.SwitchScene("b")
	c.SwitchScene("a.py")
	second, _ := c.Current()

	assert.Equal(t, 1, created)
	assert.Same(t, first, second)
	assert.Equal(t, 2, first.(*mockScene).enterCalled)
}

func TestController_FactoryReceivesEnv(t *testing.T) {
	var got *Env
	r := NewRegistry().Register("a", func(env *Env) Scene {
		got = env
		return &drawOnly{}
	})
	env := &Env{}
	c := NewController(r, &countingExecutor{}, env)

	c.SwitchScene("a")

	require.NotNil(t, got)
	assert.Same(t, env, got)
	assert.Same(t, c, got.Scenes)
}

func TestController_FactoryPanicStops(t *testing.T) {
	r := NewRegistry().Register("bad", func(*Env) Scene { panic("syntax error") })
	c := NewController(r, &countingExecutor{}, nil)

	assert.NotPanics(t, func() { c.SwitchScene("bad") })
	assert.False(t, c.Running())
	assert.Equal(t, state.NoScene, c.State())
}

func TestController_FactoryNilStops(t *testing.T) {
	r := NewRegistry().Register("nil", func(*Env) Scene { return nil })
	c := NewController(r, &countingExecutor{}, nil)

	c.SwitchScene("nil")

	assert.False(t, c.Running())
	assert.Equal(t, state.NoScene, c.State())
}

func TestController_EnterFailureStops(t *testing.T) {
	a := &mockScene{name: "a", enterErr: assert.AnError}
	c, _ := newTestController(map[string]Scene{"a": a})

	c.SwitchScene("a")

	assert.False(t, c.Running())
	assert.Equal(t, state.SceneActive, c.State(), "scene stays bound for the final leave")
	c.Shutdown()
	assert.Equal(t, 1, a.leaveCalled)
}

func TestController_FrameOrdering(t *testing.T) {
	var trace []string
	a := &mockScene{name: "a", trace: &trace, updateResult: true}
	c, exec := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")
	trace = trace[:0]

	c.Input(Event{Kind: EventButton, Device: 0, ID: 0, Value: 1})
	c.Input(Event{Kind: EventAxis, Device: 0, ID: 1, Value: -1})
	assert.True(t, c.Update(1.0/60))
	c.Draw()

	assert.Equal(t, []string{"a.input", "a.input", "a.update", "a.draw"}, trace)
	assert.Equal(t, 1, exec.batches)
	assert.Equal(t, 2, exec.ops)
	assert.True(t, c.Gfx().Empty())
}

func TestController_UpdateReturningFalseStops(t *testing.T) {
	a := &mockScene{name: "a", updateResult: false}
	c, _ := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	assert.False(t, c.Update(0.016))
	assert.False(t, c.Running())
}

func TestController_UpdateErrorStopsAndSuppressesDraw(t *testing.T) {
	a := &mockScene{name: "a", updateErr: assert.AnError}
	c, exec := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	assert.NotPanics(t, func() {
		assert.False(t, c.Update(0.016))
	})
	c.Draw()
	c.Update(0.016)
	c.Draw()

	assert.False(t, c.Running())
	assert.Equal(t, 1, a.updateCalled)
	assert.Equal(t, 0, a.drawCalled, "no draw after a failed update")
	assert.Equal(t, 0, exec.batches)
}

func TestController_UpdatePanicIsContained(t *testing.T) {
	a := &mockScene{name: "a", panicOnUpdate: true}
	c, _ := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	assert.NotPanics(t, func() { c.Update(0.016) })
	assert.False(t, c.Running())
}

func TestController_DrawFailureStillFlushes(t *testing.T) {
	a := &mockScene{name: "a", updateResult: true, drawErr: assert.AnError}
	c, exec := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	c.Draw()

	assert.False(t, c.Running())
	assert.Equal(t, 1, exec.batches, "partial batch is flushed")
	assert.Equal(t, 2, exec.ops)
	assert.True(t, c.Gfx().Empty())
}

func TestController_InputFailureStops(t *testing.T) {
	a := &mockScene{name: "a", updateResult: true, inputErr: assert.AnError}
	c, _ := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	c.Input(Event{Kind: EventButton})
	c.Input(Event{Kind: EventButton})

	assert.False(t, c.Running())
	assert.Equal(t, 1, a.inputCalled)
}

func TestController_MissingCapabilitiesAreNoops(t *testing.T) {
	d := &drawOnly{}
	c, exec := newTestController(map[string]Scene{"d": d})
	c.SwitchScene("d")

	c.Input(Event{Kind: EventAxis})
	assert.True(t, c.Update(0.016))
	c.Draw()
	c.Shutdown()

	assert.Equal(t, 1, d.drawCalled)
	assert.Equal(t, 1, exec.batches)
	assert.False(t, c.Running())
}

func TestController_SceneWithoutUpdateKeepsRunning(t *testing.T) {
	d := &drawOnly{}
	c, exec := newTestController(map[string]Scene{"d": d})
	c.SwitchScene("d")

	for i := 0; i < 10; i++ {
		require.True(t, c.Update(1.0/60))
		c.Draw()
	}

	assert.True(t, c.Running())
	assert.Equal(t, 10, d.drawCalled)
	assert.Equal(t, 10, exec.batches)
}

func TestController_EmptyDrawSkipsBackend(t *testing.T) {
	type idle struct{}
	c, exec := newTestController(map[string]Scene{"idle": &idle{}})
	c.SwitchScene("idle")

	c.Draw()

	assert.Equal(t, 0, exec.batches)
}

func TestController_SwitchFromUpdate(t *testing.T) {
	var trace []string
	a := &mockScene{name: "a", trace: &trace, updateResult: true}
	b := &mockScene{name: "b", trace: &trace, updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a, "b": b})
	a.onUpdate = func() { c.SwitchScene("b", "from-a") }
	c.SwitchScene("a")

	assert.True(t, c.Update(0.016))
	c.Draw()

	assert.Equal(t, []string{"a.enter", "a.update", "a.leave", "b.enter", "b.draw"}, trace)
	assert.Equal(t, []string{"from-a"}, b.enterArgs)
}

func TestController_ShutdownLeavesOnce(t *testing.T) {
	a := &mockScene{name: "a", updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	c.Shutdown()
	c.Shutdown()

	assert.Equal(t, 1, a.leaveCalled)
	assert.False(t, c.Running())
	assert.Equal(t, state.NoScene, c.State())
}

func TestController_StopKeepsSceneForShutdown(t *testing.T) {
	a := &mockScene{name: "a", updateResult: true}
	c, _ := newTestController(map[string]Scene{"a": a})
	c.SwitchScene("a")

	c.Stop()
	c.Input(Event{})
	c.Draw()

	assert.Equal(t, 0, a.inputCalled)
	assert.Equal(t, 0, a.drawCalled)
	assert.Equal(t, state.SceneActive, c.State())

	c.Shutdown()
	assert.Equal(t, 1, a.leaveCalled)
}
