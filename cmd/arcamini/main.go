package main

import (
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb"
	"github.com/davecgh/go-spew/spew"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
	"github.com/ttacon/chalk"

	"github.com/younwookim/arcamini/internal/application/demo"
	"github.com/younwookim/arcamini/internal/application/game"
	"github.com/younwookim/arcamini/internal/application/input"
	"github.com/younwookim/arcamini/internal/application/replay"
	"github.com/younwookim/arcamini/internal/application/scene"
	"github.com/younwookim/arcamini/internal/domain/resource"
	"github.com/younwookim/arcamini/internal/infrastructure/archive"
	"github.com/younwookim/arcamini/internal/infrastructure/config"
	"github.com/younwookim/arcamini/internal/infrastructure/ebitenhost"
	"github.com/younwookim/arcamini/internal/infrastructure/headless"
	"github.com/younwookim/arcamini/internal/infrastructure/storage"
)

// startFile names the initial scene inside a resource archive
const startFile = "main.scene"

type options struct {
	width      int
	height     int
	fullscreen bool
	configPath string
	record     string
	replay     string
	debug      bool
	scene      string

	archive string
	args    []string
}

func parseFlags(args []string) (*options, error) {
	opts := &options{}
	fset := flag.NewFlagSet("arcamini", flag.ContinueOnError)
	fset.IntVar(&opts.width, "w", 0, "Window width (overrides config)")
	fset.IntVar(&opts.height, "h", 0, "Window height (overrides config)")
	fset.BoolVar(&opts.fullscreen, "f", false, "Start in fullscreen mode")
	fset.StringVar(&opts.configPath, "config", "", "Runtime config file (default: embedded runtime.json)")
	fset.StringVar(&opts.record, "record", "", "Record input to file (e.g., -record replay.json)")
	fset.StringVar(&opts.replay, "replay", "", "Replay a recorded session without a window")
	fset.BoolVar(&opts.debug, "debug", false, "Show the debug overlay")
	fset.StringVar(&opts.scene, "scene", "", "Initial scene (default: main.scene of the archive, else menu)")
	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), "usage: arcamini [flags] [archive] [scene args...]\n")
		fset.PrintDefaults()
	}

	if err := fset.Parse(args); err != nil {
		return nil, err
	}
	rest := fset.Args()
	if len(rest) > 0 {
		opts.archive, opts.args = rest[0], rest[1:]
	}
	return opts, nil
}

// loadConfig reads the runtime config and applies flag overrides
func loadConfig(opts *options) (*config.RuntimeConfig, error) {
	var (
		cfg *config.RuntimeConfig
		err error
	)
	if opts.configPath != "" {
		if _, err := os.Stat(opts.configPath); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		cfg, err = config.NewLoader(filepath.Dir(opts.configPath)).Load(filepath.Base(opts.configPath))
	} else {
		fsys, subErr := fs.Sub(configFS, "configs")
		if subErr != nil {
			return nil, fmt.Errorf("failed to get config subfs: %w", subErr)
		}
		cfg, err = config.NewFSLoader(fsys, "configs").LoadRuntime()
	}
	if err != nil {
		return nil, err
	}
	if opts.width > 0 {
		cfg.Window.Width = opts.width
	}
	if opts.height > 0 {
		cfg.Window.Height = opts.height
	}
	if opts.fullscreen {
		cfg.Window.Fullscreen = true
	}
	if opts.debug {
		cfg.Debug = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// initialScene picks the scene to start: the -scene flag, the archive's
// start file, then the menu
func initialScene(opts *options, arc *archive.Archive) string {
	if opts.scene != "" {
		return opts.scene
	}
	if arc != nil && arc.Exists(startFile) {
		if text, err := arc.Text(startFile); err == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return demo.MenuScene
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		os.Exit(2)
	}
	if err := run(opts); err != nil {
		log.Fatalf("%s%+v%s", chalk.Red, err, chalk.Reset)
	}
}

func run(opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	var arc *archive.Archive
	if opts.archive != "" {
		if arc, err = archive.Open(opts.archive); err != nil {
			return err
		}
		defer func() { _ = arc.Close() }()
	}

	registry := demo.Register(scene.NewRegistry())

	if opts.replay != "" {
		return runReplay(cfg, arc, registry, opts.replay)
	}
	return runWindow(cfg, arc, registry, opts)
}

func runWindow(cfg *config.RuntimeConfig, arc *archive.Archive, registry *scene.Registry, opts *options) error {
	name := initialScene(opts, arc)

	var files ebitenhost.Files
	if arc != nil {
		files = arc
	}
	host, err := ebitenhost.New(*cfg, files)
	if err != nil {
		return err
	}

	store, err := storage.Open(cfg.Storage.Dir, cfg.Storage.AppName, scene.Normalize(name))
	if err != nil {
		return err
	}

	env := &scene.Env{
		Window:    host,
		Audio:     host,
		Resources: resource.NewManager(host),
		Storage:   store,
	}
	ctrl := scene.NewController(registry, host, env)

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(scene.Normalize(name))
	ebiten.SetTPS(cfg.Window.TPS)
	ebiten.SetVsyncEnabled(cfg.Window.VSync)
	ebiten.SetFullscreen(cfg.Window.Fullscreen)
	// frames without a logic update keep the previous image
	ebiten.SetScreenClearedEveryFrame(false)
	if !cfg.Window.ShowCursor {
		ebiten.SetCursorMode(ebiten.CursorModeHidden)
	}

	var snapshot map[string]string
	if opts.record != "" {
		snapshot = store.Snapshot()
	}

	ctrl.SwitchScene(name, opts.args...)
	if !ctrl.Running() {
		return errors.Errorf("scene %q failed to start", name)
	}

	g := game.New(ctrl, host, input.NewPoller(&input.EbitenSource{}, cfg.Input), cfg.Window.Width, cfg.Window.Height)
	g.SetDT(1.0 / float64(cfg.Window.TPS))
	g.SetDebug(cfg.Debug)

	var rec *replay.Recorder
	if opts.record != "" {
		rec = replay.NewRecorder(name, opts.args)
		rec.SetStorage(snapshot)
		g.SetRecorder(rec)
		log.Printf("Recording enabled: %s", opts.record)
	}

	runErr := ebiten.RunGame(g)
	g.Shutdown()

	if rec != nil {
		if err := rec.Save(opts.record); err != nil {
			log.Printf("Failed to save recording: %v", err)
		} else {
			log.Printf("Recording saved: %s (%d frames)", opts.record, rec.FrameCount())
		}
	}
	return runErr
}

// replayResult summarizes a headless replay
type replayResult struct {
	frames  int
	total   int
	batches int
	ops     int
	invalid int
	byOp    map[string]int
	texts   []string
}

func runReplay(cfg *config.RuntimeConfig, arc *archive.Archive, registry *scene.Registry, path string) error {
	data, err := replay.LoadReplay(path)
	if err != nil {
		return err
	}
	bar := pb.New(len(data.Frames))
	bar.SetWidth(80)
	bar.Start()
	res, err := replaySession(cfg, arc, registry, data, func(int) { bar.Increment() })
	bar.Finish()
	if err != nil {
		return err
	}
	log.Printf("[replay] %s: %d/%d frames, %d batches, %d ops, %d invalid",
		data.Script, res.frames, res.total, res.batches, res.ops, res.invalid)
	if cfg.Debug {
		log.Printf("[replay] ops by kind:\n%s", spew.Sdump(res.byOp))
	}
	return nil
}

// replaySession plays data through a headless backend. Storage is kept in
// memory, seeded with the recorded data, so replays never touch saved data.
func replaySession(cfg *config.RuntimeConfig, arc *archive.Archive, registry *scene.Registry, data *replay.ReplayData, progress func(int)) (replayResult, error) {
	var files headless.Files
	if arc != nil {
		files = arc
	}
	backend := headless.New(cfg.Window.Width, cfg.Window.Height, files)
	player := replay.NewReplayer(*data)
	env := &scene.Env{
		Window:    backend,
		Audio:     backend,
		Resources: resource.NewManager(backend),
		Storage:   storage.NewMemoryStore(player.Storage()),
	}
	ctrl := scene.NewController(registry, backend, env)

	name, args := player.Script()
	ctrl.SwitchScene(name, args...)
	if !ctrl.Running() {
		return replayResult{}, errors.Errorf("scene %q failed to start", name)
	}

	frames := game.Replay(ctrl, player, progress)
	stats := backend.Stats()
	res := replayResult{frames: frames, total: len(data.Frames), batches: stats.Batches, invalid: stats.Invalid, texts: stats.Texts}
	res.byOp = make(map[string]int, len(stats.Ops))
	for op, n := range stats.Ops {
		res.ops += n
		res.byOp[op.String()] = n
	}
	return res, nil
}
