package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"lottie-catalog/sequence"
)

// DemoCmd handles the `demo` command, which plays the staged loading sequence
// in the terminal.
type DemoCmd struct {
	out    io.Writer
	stages func() *sequence.Stages
}

// NewDemoCmd creates a demo command using the default stage timings
func NewDemoCmd(out io.Writer) *DemoCmd {
	return &DemoCmd{out: out, stages: sequence.DefaultStages}
}

// Execute prints each stage with a bar until the requested number of cycles
// has completed or ctx is cancelled.
func (c *DemoCmd) Execute(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	fs.SetOutput(c.out)
	cycles := fs.Int("cycles", 1, "number of full cycles to play, 0 plays until interrupted")
	if err := fs.Parse(args); err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	completed := 0
	err := c.stages().Run(runCtx, func(u sequence.StageUpdate) {
		fmt.Fprintf(c.out, "[%-20s] %d/%d %s\n", strings.Repeat("#", int(u.Fraction*20)), u.Index+1, u.Total, u.Label)
		if u.Index == u.Total-1 {
			completed++
			if *cycles > 0 && completed >= *cycles {
				cancel()
			}
		}
	})
	if errors.Is(err, context.Canceled) && ctx.Err() == nil {
		return nil
	}
	return err
}
