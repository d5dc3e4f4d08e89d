package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hentity/fretty/internal/pitch"
)

func newNoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "note NAME",
		Short: "Print the frequency of a note such as A4 or C#3",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, ok := pitch.NoteToFrequency(args[0])
			if !ok {
				return fmt.Errorf("unknown note %q", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %.2f Hz\n", args[0], freq)
			return nil
		},
	}
}

func newFreqCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "freq HZ",
		Short: "Print the note nearest to a frequency",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			freq, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("parse frequency: %w", err)
			}
			name, ok := pitch.FrequencyToNote(freq)
			if !ok {
				return fmt.Errorf("%.2f Hz: %w", freq, pitch.ErrNoNote)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.2f Hz: %s\n", freq, name)
			return nil
		},
	}
}
