package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/victornm/drawboard/internal/domain"
	"github.com/victornm/drawboard/internal/draw"
	"github.com/victornm/drawboard/internal/event"
	"github.com/victornm/drawboard/internal/loop"
	"github.com/victornm/drawboard/internal/random"
)

type drawOptions struct {
	candidates []string
	duration   time.Duration
	seed       uint64
	quiet      bool
	loop       loop.Config
}

func newDrawCmd() *cobra.Command {
	var o drawOptions

	cmd := &cobra.Command{
		Use:   "draw",
		Short: "Run one lucky draw in the terminal",
		Example: `  drawboard draw --candidates kim,lee,park
  drawboard draw --candidates kim,lee,park --duration 3s --seed 42`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := setupLogger("warn"); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			winner, err := runDraw(ctx, cmd.OutOrStdout(), o)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "winner: %s\n", winner)
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&o.candidates, "candidates", nil, "comma separated candidates")
	cmd.Flags().DurationVar(&o.duration, "duration", draw.LuckyDrawDuration, "how long the roulette spins")
	cmd.Flags().Uint64Var(&o.seed, "seed", 0, "seed for a reproducible draw; 0 seeds from the OS")
	cmd.Flags().BoolVarP(&o.quiet, "quiet", "q", false, "print the winner only")
	_ = cmd.MarkFlagRequired("candidates")

	return cmd
}

// printer writes every preview change as a line, the way a terminal roulette
// would show it.
type printer struct {
	mu  sync.Mutex
	w   io.Writer
	off bool
}

func (p *printer) Publish(_ context.Context, e event.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.off {
		return
	}

	switch e := e.(type) {
	case domain.EventDrawStarted:
		fmt.Fprintf(p.w, "drawing among %d candidates\n", len(e.Candidates))
	case domain.EventDrawPreviewed:
		fmt.Fprintf(p.w, "  %s\n", e.Candidate)
	}
}

func runDraw(ctx context.Context, out io.Writer, o drawOptions) (string, error) {
	opts := draw.Preset(domain.VariantLucky)
	if o.duration > 0 {
		opts.Duration = o.duration
	}
	if o.seed != 0 {
		opts.Rand = random.NewSeeded(o.seed)
	}
	opts.Observer = &printer{w: out, off: o.quiet}

	revealed := make(chan string, 1)
	r := draw.NewRunner(draw.RunnerConfig{
		Engine:   draw.NewEngine(opts),
		Loop:     o.loop,
		OnReveal: func(_ context.Context, winner string) { revealed <- winner },
	})
	defer r.Close()

	r.Add(o.candidates...)
	r.SetAllActive(true)

	if err := r.StartDraw(ctx); err != nil {
		return "", err
	}

	select {
	case w := <-revealed:
		return w, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
