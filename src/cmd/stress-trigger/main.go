package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/spf13/cobra"

	"cleave/src/singleinstance"
)

type stressOptions struct {
	n         int
	deadline  time.Duration
	portStart int
	portEnd   int
}

type counts struct {
	ok, missed, failed int32
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	opts := &stressOptions{}
	cmd := newRootCmd(opts, os.Stdout)
	return cmd.Execute()
}

func newRootCmd(opts *stressOptions, out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "stress-trigger",
		Short:         "Fire concurrent capture triggers at a running cleave-daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			r := singleinstance.PortRange{Start: opts.portStart, End: opts.portEnd}
			c := fire(*opts, singleinstance.NewClient(r))
			fmt.Fprintf(out, "launched=%d ok=%d missed=%d err=%d\n", opts.n, c.ok, c.missed, c.failed)
			return nil
		},
	}

	cmd.Flags().IntVar(&opts.n, "n", 50, "number of clients to launch")
	cmd.Flags().DurationVar(&opts.deadline, "deadline", 5*time.Second, "per-client timeout")
	cmd.Flags().IntVar(&opts.portStart, "port-start", singleinstance.DefaultPortStart, "first resident port")
	cmd.Flags().IntVar(&opts.portEnd, "port-end", singleinstance.DefaultPortEnd, "last resident port")

	return cmd
}

// fire sends opts.n capture triggers concurrently. missed counts clients
// that found no resident.
func fire(opts stressOptions, client singleinstance.Client) counts {
	var (
		wg sync.WaitGroup
		c  counts
	)
	for i := 0; i < opts.n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ctx, cancel := context.WithTimeout(context.Background(), opts.deadline)
			defer cancel()
			delegated, _, err := client.Send(ctx, singleinstance.Capture)
			switch {
			case err != nil:
				atomic.AddInt32(&c.failed, 1)
			case delegated:
				atomic.AddInt32(&c.ok, 1)
			default:
				atomic.AddInt32(&c.missed, 1)
			}
		}()
	}
	wg.Wait()
	return c
}
