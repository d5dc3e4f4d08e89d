package main

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hentity/fretty/internal/audio"
	"github.com/hentity/fretty/internal/pitch"
	"github.com/hentity/fretty/internal/ui"
)

const (
	channels = 1

	levelInterval = 200 * time.Millisecond // How often to update the level meter
	pollInterval  = 50 * time.Millisecond
	noteInterval  = 80 * time.Millisecond // Minimum spacing of note updates to prevent flicker

	silenceDB = -30.0 // Buffers quieter than this clear the display

	// Note stabilization
	stabilizationDelay = 300 * time.Millisecond // Delay after volume increase before registering note
	volumeRiseDB       = 3.0                    // Level jump that marks a note onset
	volumeRiseFloorDB  = -40.0

	amplificationLevel = 8.0
)

type listenFlags struct {
	bufferSize int
	sampleRate int
	tone       float64
	harmonics  int
}

func newListenCmd(opts *options) *cobra.Command {
	var lf listenFlags

	cmd := &cobra.Command{
		Use:   "listen",
		Short: "Detect notes live from the default input device",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkBufferFlags(lf.sampleRate, lf.bufferSize); err != nil {
				return err
			}
			if lf.tone > 0 && lf.harmonics < 1 {
				return fmt.Errorf("harmonics must be at least 1, got %d", lf.harmonics)
			}

			logger, err := opts.newLogger()
			if err != nil {
				return err
			}
			defer logger.Sync()

			// The terminal belongs to the UI; keep logs off stderr unless redirected
			if opts.logFile == "" {
				logger = zap.NewNop()
			}

			detector, err := opts.newDetector(logger)
			if err != nil {
				return err
			}

			capturer, err := newCapturer(lf, logger)
			if err != nil {
				return err
			}
			if err := capturer.Start(); err != nil {
				return fmt.Errorf("start audio capture: %w", err)
			}
			defer capturer.Stop()

			p := tea.NewProgram(ui.NewModel("Fretty - Note Detector"), tea.WithAltScreen())

			stop := startAnalysis(cmd.Context(), capturer, detector, p, logger)
			_, err = p.Run()
			// The loop must be gone before the deferred capturer.Stop.
			stop()
			if err != nil {
				return fmt.Errorf("run ui: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&lf.bufferSize, "buffer-size", defaultBufferSize, "samples per analysis buffer")
	cmd.Flags().IntVar(&lf.sampleRate, "rate", defaultSampleRate, "capture sample rate (Hz)")
	cmd.Flags().Float64Var(&lf.tone, "tone", 0, "use a synthetic tone at this frequency instead of the microphone")
	cmd.Flags().IntVar(&lf.harmonics, "harmonics", 3, "partials in the synthetic tone")
	return cmd
}

func newCapturer(lf listenFlags, logger *zap.Logger) (audio.Capturer, error) {
	if lf.tone > 0 {
		return audio.NewToneCapturer(audio.Harmonics(lf.tone, lf.harmonics), lf.bufferSize, lf.sampleRate), nil
	}

	capturer, err := audio.NewPortAudioCapturer(lf.bufferSize, lf.sampleRate, channels, logger)
	if err != nil {
		return nil, fmt.Errorf("create audio capturer: %w", err)
	}
	// Increase audio input sensitivity
	capturer.SetAmplification(amplificationLevel)
	return capturer, nil
}

// sender receives UI messages; *tea.Program implements it.
type sender interface {
	Send(msg tea.Msg)
}

// startAnalysis runs analyzeLoop in the background. The returned function
// cancels the loop and waits for it to return.
func startAnalysis(ctx context.Context, capturer audio.Capturer, detector *pitch.Detector, p sender, logger *zap.Logger) (stop func()) {
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	go func() {
		defer close(done)
		analyzeLoop(ctx, capturer, detector, p, logger)
	}()
	return func() {
		cancel()
		<-done
	}
}

// onsetGate holds off pitch detection while the attack of a new note settles.
type onsetGate struct {
	lastDB   float64
	rising   bool
	riseTime time.Time
}

func newOnsetGate() *onsetGate {
	return &onsetGate{lastDB: -100}
}

// ready reports whether a buffer at level db, seen at now, may be analyzed.
func (g *onsetGate) ready(db float64, now time.Time) bool {
	rose := db > g.lastDB+volumeRiseDB && db > volumeRiseFloorDB
	g.lastDB = db

	if rose && !g.rising {
		g.rising = true
		g.riseTime = now
		return false
	}
	if g.rising && now.Sub(g.riseTime) < stabilizationDelay {
		return false
	}
	g.rising = false
	return true
}

// silence records a quiet buffer so the next note counts as an onset.
func (g *onsetGate) silence(db float64) {
	g.lastDB = db
	g.rising = false
}

// analyzeLoop polls the capturer and forwards levels and notes to the UI
// until ctx is cancelled. Each buffer is analyzed independently.
func analyzeLoop(ctx context.Context, capturer audio.Capturer, detector *pitch.Detector, p sender, logger *zap.Logger) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	gate := newOnsetGate()
	var lastLevel, lastNote time.Time
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		buffer, err := capturer.GetBuffer()
		if err != nil || len(buffer.Samples) == 0 {
			continue
		}

		rms, db := audio.Level(buffer)
		if time.Since(lastLevel) > levelInterval {
			p.Send(ui.UpdateAudioLevelMsg{RMS: rms, DB: db})
			lastLevel = time.Now()
		}

		if db < silenceDB {
			gate.silence(db)
			p.Send(ui.ClearNoteMsg{})
			continue
		}
		if !gate.ready(db, time.Now()) {
			continue
		}

		note, err := detector.DetectPitch(buffer)
		if err != nil {
			logger.Debug("no note", zap.Error(err), zap.Float64("db", db))
			p.Send(ui.ClearNoteMsg{})
			continue
		}

		// Only send note updates at reasonable intervals to prevent flicker
		if time.Since(lastNote) > noteInterval {
			p.Send(ui.UpdateNoteMsg(*note))
			lastNote = time.Now()
		}
	}
}
