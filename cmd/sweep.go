package main

import (
	"context"
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hentity/fretty/internal/audio"
	"github.com/hentity/fretty/internal/pitch"
)

type sweepResult struct {
	note     string
	expected float64
	detected float64
	name     string
	err      error
}

func newSweepCmd(opts *options) *cobra.Command {
	var (
		rate      int
		size      int
		harmonics int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Synthesize every note in the table and detect each one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if harmonics < 1 {
				return fmt.Errorf("harmonics must be at least 1, got %d", harmonics)
			}
			if err := checkBufferFlags(rate, size); err != nil {
				return err
			}

			logger, err := opts.newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			detector, err := opts.newDetector(logger)
			if err != nil {
				return err
			}

			results, err := runSweep(cmd.Context(), detector, pitch.NoteNames(), harmonics, rate, size)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "NOTE\tEXPECTED\tDETECTED\tNAME")
			misses := 0
			for _, r := range results {
				if r.err != nil {
					misses++
					fmt.Fprintf(w, "%s\t%.2f\t-\t%v\n", r.note, r.expected, r.err)
					continue
				}
				fmt.Fprintf(w, "%s\t%.2f\t%.2f\t%s\n", r.note, r.expected, r.detected, r.name)
			}
			fmt.Fprintf(w, "\n%d of %d notes detected\n", len(results)-misses, len(results))
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&rate, "rate", defaultSampleRate, "sample rate (Hz)")
	cmd.Flags().IntVar(&size, "size", defaultSampleRate, "buffer length in samples")
	cmd.Flags().IntVar(&harmonics, "harmonics", 3, "number of partials per tone")
	return cmd
}

// runSweep analyzes one synthesized tone per note name concurrently.
// Results keep the order of names.
func runSweep(ctx context.Context, detector *pitch.Detector, names []string, harmonics, rate, size int) ([]sweepResult, error) {
	results := make([]sweepResult, len(names))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, note := range names {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			expected, _ := pitch.NoteToFrequency(note)
			buffer := audio.Synthesize(audio.Harmonics(expected, harmonics), rate, size, 0)

			r := sweepResult{note: note, expected: expected}
			detected, err := detector.DetectPitch(buffer)
			if err != nil {
				r.err = err
			} else {
				r.detected, r.name = detected.Frequency, detected.Name
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
