package main

import (
	"context"
	"fmt"
	"math"
	"os"
	"slices"
	"strings"

	"github.com/delaneyj/swapparty/lockpool"
	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"
)

const (
	objectsKey = "objects"
	stripesKey = "stripes"
	topKey     = "top"
)

func stripesCommand() *cli.Command {
	return &cli.Command{
		Name:  "stripes",
		Usage: "Show how sequential identities spread over the lock stripes",
		Flags: commonFlags(
			&cli.UintFlag{
				Name:  objectsKey,
				Usage: "Number of identities to hash",
				Value: 100_000,
			},
			&cli.UintFlag{
				Name:  stripesKey,
				Usage: "Stripe count, 0 uses the configured pool size",
			},
			&cli.UintFlag{
				Name:  topKey,
				Usage: "Busiest stripes to list",
				Value: 10,
			},
		),
		Action: stripes,
	}
}

func stripes(ctx context.Context, cmd *cli.Command) error {
	e, err := setup(cmd)
	if err != nil {
		return err
	}
	size := int(cmd.Uint(stripesKey))
	if size == 0 {
		size = e.cfg.PoolSize
	}
	n := int(cmd.Uint(objectsKey))
	if n == 0 {
		return fmt.Errorf("--%s must be positive", objectsKey)
	}
	pool := lockpool.New(size)

	ids := make([]uint64, n)
	for i := range ids {
		ids[i] = uint64(i + 1)
	}
	counts := pool.Distribution(ids...)

	type stripe struct {
		index, count int
	}
	all := make([]stripe, len(counts))
	empty := 0
	for i, c := range counts {
		all[i] = stripe{index: i, count: c}
		if c == 0 {
			empty++
		}
	}
	slices.SortFunc(all, func(a, b stripe) int {
		if a.count != b.count {
			return b.count - a.count
		}
		return a.index - b.index
	})

	mean := float64(n) / float64(pool.Size())
	var variance float64
	for _, c := range counts {
		d := float64(c) - mean
		variance += d * d
	}
	stddev := math.Sqrt(variance / float64(pool.Size()))

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"stripe", "objects", "vs mean", "load"})
	top := min(int(cmd.Uint(topKey)), len(all))
	peak := 1
	if len(all) > 0 && all[0].count > 0 {
		peak = all[0].count
	}
	for _, s := range all[:top] {
		table.Append([]string{
			fmt.Sprint(s.index),
			humanize.Comma(int64(s.count)),
			fmt.Sprintf("%+.1f%%", 100*(float64(s.count)-mean)/mean),
			strings.Repeat("#", 20*s.count/peak),
		})
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d stripes", pool.Size()),
		humanize.Comma(int64(n)),
		fmt.Sprintf("sd %.2f", stddev),
		fmt.Sprintf("%d empty", empty),
	})
	table.Render()
	return nil
}
