package main

import (
	"context"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/delaneyj/swapparty/internal/report"
	"github.com/delaneyj/swapparty/object"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const durationKey = "duration"

var (
	widgetMeta = object.NewMetaType("Widget", nil, "clicked", "resized")
	sceneMeta  = object.NewMetaType("Scene", nil, "changed")
)

func dumpCommand() *cli.Command {
	return &cli.Command{
		Name:   "dump",
		Usage:  "Build a small scene, swap two widgets and print the tree before and after",
		Flags:  commonFlags(),
		Action: dump,
	}
}

func demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "Run timers on a live dispatcher and swap their owners halfway through",
		Flags: commonFlags(
			&cli.DurationFlag{
				Name:  durationKey,
				Usage: "How long to run the dispatcher",
				Value: time.Second,
			},
		),
		Action: demo,
	}
}

type scene struct {
	root, left, right *object.Object
}

func buildScene(ctx context.Context, g *object.Graph) (*scene, error) {
	root, err := g.New(ctx, sceneMeta, nil)
	if err != nil {
		return nil, err
	}
	root.SetName("scene")

	s := &scene{root: root}
	for _, side := range []struct {
		name string
		dst  **object.Object
	}{
		{"left", &s.left},
		{"right", &s.right},
	} {
		w, err := g.New(ctx, widgetMeta, root)
		if err != nil {
			return nil, err
		}
		w.SetName(side.name)
		w.SetProperty("side", side.name)
		label, err := g.New(ctx, object.ObjectMeta, w)
		if err != nil {
			return nil, err
		}
		label.SetName(side.name + ".label")
		*side.dst = w
	}

	clicked := widgetMeta.SignalIndex("clicked")
	if _, err := g.Connect(s.left, clicked, s.right, func(object.Event) {}); err != nil {
		return nil, err
	}
	if _, err := g.Connect(s.right, object.AllSignals, root, func(object.Event) {}); err != nil {
		return nil, err
	}
	return s, nil
}

func dump(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	g := e.graph()
	s, err := buildScene(ctx, g)
	if err != nil {
		return err
	}

	report.WriteTree(os.Stdout, "before", report.Build(s.root))
	if err := g.Swap(ctx, s.left, s.right); err != nil {
		return fmt.Errorf("swap %d <-> %d: %w", s.left.ID(), s.right.ID(), err)
	}
	report.WriteTree(os.Stdout, "after", report.Build(s.root))
	return nil
}

func demo(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	runFor := cmd.Duration(durationKey)
	if runFor <= 0 {
		return fmt.Errorf("--%s must be positive", durationKey)
	}

	th := object.NewThread("main")
	ctx = object.WithThread(ctx, th)
	g := e.graph()
	s, err := buildScene(ctx, g)
	if err != nil {
		return err
	}

	var fired atomic.Int64
	for _, w := range []*object.Object{s.left, s.right} {
		tag := w.Name()
		w.OnTimer(func(ev object.TimerEvent) {
			fired.Add(1)
			e.log.Debug().
				Int("timer", ev.ID).
				Uint64("object", ev.Object.ID()).
				Str("name", ev.Object.Name()).
				Str("handler", tag).
				Msg("timer fired")
		})
	}
	if _, err := s.left.StartTimer(runFor/10, object.PreciseTimer); err != nil {
		return err
	}
	if _, err := s.right.StartTimer(runFor/4, object.CoarseTimer); err != nil {
		return err
	}

	runCtx, cancel := context.WithTimeout(ctx, runFor)
	defer cancel()
	eg, egctx := errgroup.WithContext(runCtx)
	eg.Go(func() error {
		return th.Dispatcher().Run(egctx, e.cfg.Dispatcher.Resolution)
	})
	eg.Go(func() error {
		select {
		case <-egctx.Done():
			return nil
		case <-time.After(runFor / 2):
		}
		report.WriteTree(os.Stdout, "before", report.Build(s.root))
		if err := g.Swap(ctx, s.left, s.right); err != nil {
			return err
		}
		report.WriteTree(os.Stdout, "after", report.Build(s.root))
		return nil
	})
	if err := eg.Wait(); err != nil {
		return err
	}

	e.log.Info().
		Int64("fired", fired.Load()).
		Dur("ran", runFor).
		Msg("demo finished")
	return nil
}
