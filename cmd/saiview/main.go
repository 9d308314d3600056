//go:build !headless

// Command saiview plays audio and shows its stabilized auditory image live.
//
// Usage:
//
//	saiview [flags]
//
// Frames advance with the playback position, so the picture follows what
// is heard. With -mute the clock is a ticker at the segment rate. With
// -exit the window closes once the last segment has been shown.
//
// Examples:
//
//	saiview -wav speech.wav
//	saiview -pulse-hz 125 -duration 10 -scale 4
//	saiview -tone 440 -mute
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/cwbudde/algo-sai/display/window"
	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/dsp/signal"
	dspwindow "github.com/cwbudde/algo-sai/dsp/window"
	"github.com/cwbudde/algo-sai/internal/audioio"
	"github.com/cwbudde/algo-sai/pipeline"
	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	wavPath := flag.String("wav", "", "input WAV file (mono or mixed down)")
	toneHz := flag.Float64("tone", 0, "generate a sine tone at this frequency")
	pulseHz := flag.Float64("pulse-hz", 0, "generate a pulse train at this rate")
	duration := flag.Float64("duration", 5, "generated signal length in seconds")
	rate := flag.Float64("rate", 16000, "sample rate for generated signals")
	segment := flag.Int("segment", 256, "segment width in samples")
	scale := flag.Int("scale", 3, "window scale factor")
	mute := flag.Bool("mute", false, "do not play the audio")
	openLoop := flag.Bool("open-loop", false, "disable filterbank gain control")
	exit := flag.Bool("exit", false, "close the window when the input ends")
	normalize := flag.Float64("normalize", 0, "rescale the input to this peak amplitude (0 = off)")
	triggerWindow := flag.String("trigger-window", dspwindow.TypeSineSquared.String(),
		"trigger search weighting: sine-squared or rectangular")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: saiview [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays audio and shows its stabilized auditory image.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	trigger, err := dspwindow.ParseType(*triggerWindow)
	if err != nil {
		fail(err)
	}
	clip, err := loadInput(*wavPath, *toneHz, *pulseHz, *duration, *rate, logger)
	if err != nil {
		fail(err)
	}
	if *normalize > 0 {
		if err := signal.Normalize(clip.Samples, *normalize); err != nil {
			fail(err)
		}
	}

	var win *window.Window
	p, err := pipeline.New(clip.SampleRate, *segment,
		pipeline.WithLogger(logger),
		pipeline.WithOpenLoop(*openLoop),
		pipeline.WithTriggerWindow(trigger),
		pipeline.WithSurfaceAllocator(window.Allocator(*scale, "saiview", func(w *window.Window) {
			win = w
		})),
	)
	if err != nil {
		fail(err)
	}

	stream := audioio.NewStream(clip.Samples)
	var clock func() int
	if *mute {
		clock = tickerClock(clip.SampleRate)
	} else {
		player, err := startPlayback(int(clip.SampleRate), stream)
		if err != nil {
			fail(err)
		}
		defer player.Close()
		clock = stream.Position
	}

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		produce(win.Done(), p, clip.Samples, clock, logger)
	}()
	if *exit {
		win.OnUpdate(closeWhen(finished))
	}

	if err := win.Run(); err != nil {
		fail(err)
	}
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}

func loadInput(wavPath string, toneHz, pulseHz, duration, rate float64, logger *slog.Logger) (audioio.Clip, error) {
	if wavPath != "" {
		f, err := os.Open(wavPath)
		if err != nil {
			return audioio.Clip{}, err
		}
		defer f.Close()
		return audioio.LoadWAV(f, logger)
	}

	n := int(duration * rate)
	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(rate)})

	var (
		samples []float64
		err     error
	)
	switch {
	case pulseHz > 0:
		samples, err = gen.PulseTrain(pulseHz, 0.5, n)
	case toneHz > 0:
		samples, err = gen.Sine(toneHz, 0.3, n)
	default:
		return audioio.Clip{}, errors.New("no input: give -wav, -tone or -pulse-hz")
	}
	if err != nil {
		return audioio.Clip{}, err
	}
	return audioio.Clip{SampleRate: rate, Samples: samples}, nil
}

func startPlayback(sampleRate int, stream *audioio.Stream) (*oto.Player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   20 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("audio: %w", err)
	}
	<-ready

	player := ctx.NewPlayer(stream)
	player.Play()
	return player, nil
}

// tickerClock returns a sample position that advances with wall time.
func tickerClock(sampleRate float64) func() int {
	start := time.Now()
	return func() int {
		return int(time.Since(start).Seconds() * sampleRate)
	}
}

// closeWhen returns an update hook that ends the window loop once done is
// closed.
func closeWhen(done <-chan struct{}) func() error {
	return func() error {
		select {
		case <-done:
			return ebiten.Termination
		default:
			return nil
		}
	}
}

// produce feeds every segment whose last sample the clock has passed until
// the input ends or stop is closed. It owns the pipeline; the window only
// reads the flipped front buffer.
func produce(stop <-chan struct{}, p *pipeline.Pipeline, samples []float64, clock func() int, logger *slog.Logger) {
	width := p.Config().SegmentWidth
	segments, err := signal.Segments(samples, width)
	if err != nil {
		logger.Error("split input", "err", err)
		return
	}

	period := time.Duration(p.Config().SegmentDuration() * float64(time.Second))
	ticker := time.NewTicker(period / 2)
	defer ticker.Stop()

	next := 0
	for next < len(segments) {
		select {
		case <-stop:
			return
		case <-ticker.C:
		}

		for next < len(segments) && min((next+1)*width, len(samples)) <= clock() {
			if err := p.ProcessSegment(segments[next]); err != nil {
				logger.Error("process segment", "segment", next, "err", err)
				return
			}
			next++
		}
	}
	logger.Debug("input finished", "segments", p.Segments())
}
