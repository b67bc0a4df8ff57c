// Command orreryctl records, replays, inspects and previews orrery command
// logs.
//
//	orreryctl [-config file] replay [-mode parallel] [-preview] scene.yaml
//	orreryctl [-config file] run [-record out.json] [-preview] scene.lua
//	orreryctl [-config file] inspect scene.json
//	orreryctl [-config file] convert scene.json scene.yaml
//	orreryctl [-config file] play timeline.yaml
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/phanxgames/orrery"
	"github.com/phanxgames/orrery/preview"
	"github.com/phanxgames/orrery/script"
)

const usage = `usage: orreryctl [-config file] <command> [flags] [args]

commands:
  replay   replay a command log into a headless engine
  run      run a Lua scene script
  inspect  list the instructions of a command log
  convert  re-encode a command log (format by extension)
  play     run a timeline script
`

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "orreryctl: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, out io.Writer) error {
	fs := flag.NewFlagSet("orreryctl", flag.ContinueOnError)
	configPath := fs.String("config", os.Getenv("ORRERY_CONFIG"), "TOML config file")
	fs.Usage = func() { fmt.Fprint(fs.Output(), usage) }
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return errors.New("missing command")
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logger, err := cfg.newLogger()
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	a := newApp(cfg, logger, out)
	stop := a.serveMetrics()
	defer stop()

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "replay":
		return a.replay(rest)
	case "run":
		return a.runScript(rest)
	case "inspect":
		return a.inspect(rest)
	case "convert":
		return a.convert(rest)
	case "play":
		return a.play(rest)
	}
	fs.Usage()
	return fmt.Errorf("unknown command %q", cmd)
}

type app struct {
	cfg     config
	log     *zap.Logger
	reg     *prometheus.Registry
	metrics *orrery.Metrics
	out     io.Writer
}

func newApp(cfg config, logger *zap.Logger, out io.Writer) *app {
	reg := prometheus.NewRegistry()
	return &app{
		cfg:     cfg,
		log:     logger,
		reg:     reg,
		metrics: orrery.NewMetrics(reg),
		out:     out,
	}
}

// serveMetrics exposes the registry on the configured address, if any, and
// returns a function that shuts the server down.
func (a *app) serveMetrics() func() {
	if a.cfg.MetricsAddr == "" {
		return func() {}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(a.reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: a.cfg.MetricsAddr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Warn("metrics server stopped", zap.Error(err))
		}
	}()
	a.log.Info("serving metrics", zap.String("addr", a.cfg.MetricsAddr))
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func (a *app) newEngine() *orrery.Engine {
	return orrery.New(orrery.Config{
		Logger:    a.log,
		Backend:   orrery.NewMemoryBackend(),
		Metrics:   a.metrics,
		DebugMode: a.cfg.Debug,
	})
}

func (a *app) newReplayer() *orrery.Replayer {
	return orrery.NewReplayer(orrery.WithReplayLogger(a.log), orrery.WithReplayMetrics(a.metrics))
}

func (a *app) preview(e *orrery.Engine, title string) error {
	g := preview.New(e,
		preview.WithSize(a.cfg.Preview.Width, a.cfg.Preview.Height),
		preview.WithPixelsPerUnit(a.cfg.Preview.PixelsPerUnit),
		preview.WithLabels(a.cfg.Preview.Labels),
	)
	return preview.Run(g, title)
}

func (a *app) replay(args []string) error {
	fs := flag.NewFlagSet("replay", flag.ContinueOnError)
	mode := fs.String("mode", a.cfg.ReplayMode, "sequential or parallel")
	show := fs.Bool("preview", false, "open a preview window after replaying")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("replay: want one log file")
	}
	m, err := orrery.ParseReplayMode(*mode)
	if err != nil {
		return err
	}
	log, err := orrery.LoadFile(fs.Arg(0))
	if err != nil {
		return err
	}

	e := a.newEngine()
	rep := a.newReplayer().Replay(log, e, m)
	fmt.Fprintf(a.out, "%s replay: %d executed, %d skipped\n", rep.Mode, rep.Executed, rep.Skipped)
	for _, err := range rep.Errors {
		fmt.Fprintf(a.out, "  %v\n", err)
	}
	a.printScene(e)
	if *show {
		return a.preview(e, "orrery: "+filepath.Base(fs.Arg(0)))
	}
	return nil
}

func (a *app) runScript(args []string) error {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	record := fs.String("record", "", "record the script into this log file instead of executing it")
	show := fs.Bool("preview", false, "open a preview window after running")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("run: want one script file")
	}
	path := fs.Arg(0)

	e := a.newEngine()
	opts := []script.Option{script.WithLogger(a.log), script.WithChunkName(filepath.Base(path))}
	if *record == "" {
		if err := script.RunFile(e, path, opts...); err != nil {
			return err
		}
		a.printScene(e)
		if *show {
			return a.preview(e, "orrery: "+filepath.Base(path))
		}
		return nil
	}

	rec := orrery.NewRecorder(e)
	if err := rec.Start(); err != nil {
		return err
	}
	runErr := script.RunFile(rec, path, opts...)
	log, _ := rec.Stop()
	if runErr != nil {
		return runErr
	}
	if err := orrery.SaveFile(*record, log); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "recorded %d instructions to %s\n", log.Len(), *record)
	return nil
}

func (a *app) inspect(args []string) error {
	if len(args) != 1 {
		return errors.New("inspect: want one log file")
	}
	log, err := orrery.LoadFile(args[0])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "session %s recorded %s, %d instructions\n",
		log.Session(), log.RecordedAt().Format(time.RFC3339), log.Len())

	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tbucket\tinstruction")
	counts := make(map[orrery.Bucket]int)
	for i, in := range log.All() {
		b := orrery.BucketOf(in.Op())
		counts[b]++
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, b, in)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "camera %d, object %d, component %d, other %d\n",
		counts[orrery.BucketCamera], counts[orrery.BucketObject],
		counts[orrery.BucketComponent], counts[orrery.BucketOther])
	return nil
}

func (a *app) convert(args []string) error {
	if len(args) != 2 {
		return errors.New("convert: want input and output files")
	}
	log, err := orrery.LoadFile(args[0])
	if err != nil {
		return err
	}
	if err := orrery.SaveFile(args[1], log); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "wrote %d instructions to %s\n", log.Len(), args[1])
	return nil
}

func (a *app) play(args []string) error {
	fs := flag.NewFlagSet("play", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("play: want one timeline file")
	}
	path := fs.Arg(0)
	format, err := orrery.FormatFromPath(path)
	if err != nil {
		return err
	}
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	s, err := orrery.ParseTimelineScript(f, format)
	f.Close()
	if err != nil {
		return err
	}

	e := a.newEngine()
	tl := orrery.NewTimeline(e)
	if err := tl.AddScript(s, filepath.Dir(path)); err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	err = tl.RunAll(ctx)
	a.printScene(e)
	return err
}

// printScene writes one line per node: id, name, parent and world position.
func (a *app) printScene(e *orrery.Engine) {
	w := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "id\tname\tparent\tposition\tcomponents")
	for _, id := range e.ObjectIDs() {
		n, ok := e.Object(id)
		if !ok {
			continue
		}
		parent := "-"
		if n.Parent != nil {
			parent = n.Parent.ID.String()
		}
		p := n.WorldPosition()
		fmt.Fprintf(w, "%s\t%s\t%s\t(%g, %g, %g)\t%v\n", n.ID, n.Name, parent, p[0], p[1], p[2], n.ComponentNames())
	}
	_ = w.Flush()
}
