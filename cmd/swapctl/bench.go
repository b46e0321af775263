package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/delaneyj/swapparty/object"
	"github.com/dustin/go-humanize"
	"github.com/jamiealquiza/tachymeter"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"
)

const (
	pairsKey   = "pairs"
	workersKey = "workers"
	itersKey   = "iters"
)

var benchMeta = object.NewMetaType("BenchNode", nil, "tick")

func benchCommand() *cli.Command {
	return &cli.Command{
		Name:  "bench",
		Usage: "Measure swap and emit latency under concurrent load",
		Flags: commonFlags(
			&cli.UintFlag{
				Name:  pairsKey,
				Usage: "Number of connected object pairs",
				Value: 64,
			},
			&cli.UintFlag{
				Name:  workersKey,
				Usage: "Concurrent workers, 0 for one per CPU",
			},
			&cli.UintFlag{
				Name:  itersKey,
				Usage: "Operations per worker",
				Value: 1_000,
			},
		),
		Action: bench,
	}
}

type benchPair struct {
	a, b *object.Object
}

func bench(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	pairs := int(cmd.Uint(pairsKey))
	workers := int(cmd.Uint(workersKey))
	iters := int(cmd.Uint(itersKey))
	if workers == 0 {
		workers = runtime.NumCPU()
	}
	if pairs < 1 || iters < 1 {
		return fmt.Errorf("pairs and iters must be positive")
	}

	g := e.graph()
	tick := benchMeta.SignalIndex("tick")
	var delivered atomic.Int64
	ps := make([]benchPair, pairs)
	for i := range ps {
		a, err := g.New(ctx, benchMeta, nil)
		if err != nil {
			return err
		}
		b, err := g.New(ctx, benchMeta, nil)
		if err != nil {
			return err
		}
		if _, err := g.Connect(a, tick, b, func(object.Event) { delivered.Add(1) }); err != nil {
			return err
		}
		ps[i] = benchPair{a: a, b: b}
	}

	e.log.Info().
		Int("pairs", pairs).
		Int("workers", workers).
		Int("iters", iters).
		Int("stripes", g.Pool().Size()).
		Str("guard", g.GuardStrategy().String()).
		Msg("bench starting")

	swaps := make([][]time.Duration, workers)
	emits := make([][]time.Duration, workers)
	var rejected atomic.Int64

	start := time.Now()
	eg, egctx := errgroup.WithContext(ctx)
	for w := range workers {
		eg.Go(func() error {
			sw := make([]time.Duration, 0, iters)
			em := make([]time.Duration, 0, iters)
			for i := range iters {
				p := ps[(w+i)%pairs]

				t0 := time.Now()
				err := g.Swap(egctx, p.a, p.b)
				sw = append(sw, time.Since(t0))
				switch {
				case err == nil:
				case object.IsRejection(err):
					rejected.Add(1)
				default:
					return err
				}

				t0 = time.Now()
				p.a.Emit(tick, i)
				em = append(em, time.Since(t0))
			}
			swaps[w] = sw
			emits[w] = em
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return err
	}
	elapsed := time.Since(start)

	tbl := table.NewWriter()
	tbl.SetTitle(fmt.Sprintf("swap bench: %d pairs, %d workers", pairs, workers))
	tbl.SetOutputMirror(os.Stdout)
	tbl.AppendHeader(table.Row{"op", "count", "avg", "min", "p75", "p99", "max", "ops/s"})
	for _, op := range []struct {
		name    string
		samples [][]time.Duration
	}{
		{"swap", swaps},
		{"emit", emits},
	} {
		tach := tachymeter.New(&tachymeter.Config{Size: workers * iters})
		for _, s := range op.samples {
			for _, d := range s {
				tach.AddTime(d)
			}
		}
		tach.SetWallTime(elapsed)
		calc := tach.Calc()
		tbl.AppendRow(table.Row{
			op.name,
			humanize.Comma(int64(calc.Count)),
			calc.Time.Avg,
			calc.Time.Min,
			calc.Time.P75,
			calc.Time.P99,
			calc.Time.Max,
			humanize.Comma(int64(calc.Rate.Second)),
		})
	}
	tbl.AppendFooter(table.Row{"delivered", humanize.Comma(delivered.Load()), "", "", "", "", "rejected", humanize.Comma(rejected.Load())})
	tbl.Render()

	e.log.Info().Dur("elapsed", elapsed).Msg("bench finished")
	return nil
}
