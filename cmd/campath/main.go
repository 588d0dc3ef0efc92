package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"github.com/Carmen-Shannon/campath/config"
	"github.com/Carmen-Shannon/campath/engine"
	"github.com/Carmen-Shannon/campath/engine/animator"
	"github.com/Carmen-Shannon/campath/engine/camera"
	"github.com/Carmen-Shannon/campath/engine/loader"
	"github.com/Carmen-Shannon/campath/engine/preview"
	"github.com/Carmen-Shannon/campath/engine/rig"
	"github.com/Carmen-Shannon/campath/engine/store"
	"github.com/google/uuid"
)

const usage = `usage: campath [-config file] [-db dsn] [-dir yamldir] <command> [args]

commands:
  import [-replace] <file.yaml>   store a path authored in YAML
  list                            list stored paths
  delete <id>                     delete a stored path
  play [-every n] <id> [ticks]    play a path headlessly, logging resolved poses
  preview <id>                    bake and print per-segment lengths
`

var errUsage = errors.New("bad usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
		}
		log.Fatalf("campath: %v", err)
	}
}

// app holds the collaborators shared by every subcommand.
type app struct {
	cfg    config.Config
	loader loader.Loader
	out    io.Writer
	close  func()
}

func run(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("campath", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	configFile := fs.String("config", "", "YAML configuration file")
	dsn := fs.String("db", "", "sqlite database (overrides store.dsn)")
	dir := fs.String("dir", "", "YAML path directory (overrides store.yaml_dir)")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: missing command", errUsage)
	}

	cfg, err := config.Load(*configFile)
	if err != nil {
		return err
	}
	if *dsn != "" {
		cfg.Store.DSN = *dsn
	}
	if *dir != "" {
		cfg.Store.YAMLDir = *dir
	}

	a, err := newApp(cfg, out)
	if err != nil {
		return err
	}
	defer a.close()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "import":
		return a.importPath(ctx, rest)
	case "list":
		return a.list(ctx)
	case "delete":
		return a.delete(ctx, rest)
	case "play":
		return a.play(ctx, rest)
	case "preview":
		return a.preview(ctx, rest)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newApp(cfg config.Config, out io.Writer) (*app, error) {
	if cfg.Store.YAMLDir != "" {
		if err := os.MkdirAll(cfg.Store.YAMLDir, 0o755); err != nil {
			return nil, fmt.Errorf("create path directory: %w", err)
		}
		return &app{
			cfg:    cfg,
			loader: loader.NewLoader(loader.BackendTypeYAML, loader.WithDirectory(cfg.Store.YAMLDir)),
			out:    out,
			close:  func() {},
		}, nil
	}

	db, err := store.Open(cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	return &app{
		cfg:    cfg,
		loader: loader.NewLoader(loader.BackendTypeSQLite, loader.WithStore(store.NewPathStore(db.DB))),
		out:    out,
		close:  func() { db.Close() },
	}, nil
}

func (a *app) importPath(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	replace := fs.Bool("replace", false, "replace an existing path with the same id")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: import takes one file", errUsage)
	}

	file := fs.Arg(0)
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("open %s: %w", file, err)
	}
	defer f.Close()

	id := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	p, err := loader.DecodeYAML(f, id)
	if err != nil {
		return err
	}
	p.Touch(uuid.New())

	if *replace {
		if err := a.loader.Delete(ctx, p.ID()); err != nil && !errors.Is(err, loader.ErrNotFound) {
			return err
		}
	}
	if err := a.loader.Save(ctx, p); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "imported %s (version %d, %d keyframes, %d ticks)\n", p.ID(), p.Version(), p.Len(), p.Length())
	return nil
}

func (a *app) list(ctx context.Context) error {
	ids, err := a.loader.List(ctx)
	if err != nil {
		return err
	}
	for _, id := range ids {
		p, err := a.loader.Load(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "%s\tv%d\t%d keyframes\t%d ticks\tnative=%t\n", id, p.Version(), p.Len(), p.Length(), p.Native())
	}
	return nil
}

func (a *app) delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: delete takes one id", errUsage)
	}
	if err := a.loader.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return nil
}

func (a *app) play(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	every := fs.Int("every", 1, "print the pose every n ticks")
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() < 1 || fs.NArg() > 2 || *every < 1 {
		return fmt.Errorf("%w: play takes an id and an optional tick count", errUsage)
	}

	p, err := a.loader.Load(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	ticks := int64(p.Length() + 1)
	if fs.NArg() == 2 {
		n, err := strconv.ParseInt(fs.Arg(1), 10, 64)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: bad tick count %q", errUsage, fs.Arg(1))
		}
		ticks = n
	}

	ac := a.cfg.Animator
	anim := animator.NewAnimator(
		animator.WithPath(p),
		animator.WithLoop(ac.Loop),
		animator.WithAutoReset(ac.AutoReset),
		animator.WithConstantSpeed(ac.ConstantSpeed),
		animator.WithQuaternionRotation(ac.UseQuaternions()),
		animator.WithArcSamples(ac.ArcSamples),
		animator.WithExitFadeTicks(ac.ExitFadeTicks),
	)
	cc := a.cfg.Camera
	r := rig.NewRig(
		rig.WithAnimator(anim),
		rig.WithCamera(camera.NewCamera(
			camera.WithBaseFov(cc.BaseFov),
			camera.WithAspect(cc.Aspect),
			camera.WithNear(cc.Near),
			camera.WithFar(cc.Far),
		)),
	)
	if !anim.Play() {
		return fmt.Errorf("path %q cannot be played", p.ID())
	}

	var count int64
	e := engine.NewEngine(
		engine.WithRig(r),
		engine.WithTickRate(a.cfg.TickRate),
		engine.WithRenderFrameLimit(a.cfg.FrameLimit),
		engine.WithProfiling(a.cfg.Profiling),
		engine.WithMaxTicks(ticks),
		engine.WithTickCallback(func(float32) {
			count++
			if count%int64(*every) != 0 && count != ticks {
				return
			}
			pose, ok := anim.Sample(0)
			if !ok {
				pose = r.LastPose()
			}
			fmt.Fprintf(a.out, "tick %d t=%d state=%s pos=(%.3f, %.3f, %.3f) rot=(%.2f, %.2f, %.2f) fov=%.2f\n",
				count, anim.Time(), anim.State(),
				pose.Position[0], pose.Position[1], pose.Position[2],
				pose.Rotation[0], pose.Rotation[1], pose.Rotation[2], pose.Fov)
		}),
	)
	e.Run(ctx)
	return nil
}

func (a *app) preview(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: preview takes one id", errUsage)
	}
	p, err := a.loader.Load(ctx, args[0])
	if err != nil {
		return err
	}

	b := preview.NewBaker(
		preview.WithWorkers(a.cfg.Preview.Workers),
		preview.WithStepsPerSegment(a.cfg.Preview.StepsPerSegment),
		preview.WithArcSamples(a.cfg.Animator.ArcSamples),
	)
	pv, err := b.Bake(p)
	if err != nil {
		return err
	}
	for _, s := range pv.Segments {
		fmt.Fprintf(a.out, "%d -> %d\t%s\t%.3f\n", s.From, s.To, s.Shape, s.Length)
	}
	fmt.Fprintf(a.out, "total\t%.3f over %d points\n", pv.Length, len(pv.Points()))
	return nil
}
