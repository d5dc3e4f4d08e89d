package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hentity/fretty/internal/audio"
	"github.com/hentity/fretty/internal/pitch"
)

func newDetectCmd(opts *options) *cobra.Command {
	var (
		freq      float64
		rate      int
		size      int
		harmonics int
	)

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Synthesize a test tone and detect its pitch",
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

			buffer := audio.Synthesize(audio.Harmonics(freq, harmonics), rate, size, 0)
			f, err := detector.Fundamental(buffer)
			if err != nil {
				return fmt.Errorf("detect %.2f Hz tone: %w", freq, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Fundamental frequency: %.2f Hz\n", f)
			if name, ref, ok := pitch.NearestNote(f); ok {
				fmt.Fprintf(out, "Note: %s (%+.1f cents)\n", name, pitch.Cents(f, ref))
			} else {
				fmt.Fprintln(out, "Note: none")
			}
			return nil
		},
	}

	cmd.Flags().Float64Var(&freq, "freq", 440, "tone frequency (Hz)")
	cmd.Flags().IntVar(&rate, "rate", defaultSampleRate, "sample rate (Hz)")
	cmd.Flags().IntVar(&size, "size", defaultSampleRate, "buffer length in samples")
	cmd.Flags().IntVar(&harmonics, "harmonics", 1, "number of partials, including the fundamental")
	return cmd
}
