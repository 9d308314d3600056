// Command saiplot renders stabilized auditory images to PNG files without
// opening a window.
//
// Usage:
//
//	saiplot [flags]
//
// The input is a WAV file (-wav) or a generated test signal (-tone,
// -pulse-hz, -noise). -normalize rescales the input to a peak amplitude
// before processing. Every -every-th segment is written to
// <out>/frame_NNNNN.png.
//
// Examples:
//
//	saiplot -wav speech.wav -out frames
//	saiplot -pulse-hz 125 -duration 1 -every 4 -scale 3
//	saiplot -tone 440 -frames 1 -out .
//	saiplot -wav speech.wav -normalize 0.5 -trigger-window rectangular
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cwbudde/algo-sai/display"
	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/dsp/signal"
	"github.com/cwbudde/algo-sai/dsp/window"
	"github.com/cwbudde/algo-sai/internal/audioio"
	"github.com/cwbudde/algo-sai/pipeline"
)

type options struct {
	wavPath  string
	toneHz   float64
	pulseHz  float64
	noise    bool
	duration float64
	rate     float64
	segment  int
	every    int
	frames   int
	scale    int
	outDir   string
	openLoop bool
	verbose  bool

	normalize     float64
	triggerWindow window.Type
}

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var o options
	fs := flag.NewFlagSet("saiplot", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&o.wavPath, "wav", "", "input WAV file (mono or mixed down)")
	fs.Float64Var(&o.toneHz, "tone", 0, "generate a sine tone at this frequency")
	fs.Float64Var(&o.pulseHz, "pulse-hz", 0, "generate a pulse train at this rate")
	fs.BoolVar(&o.noise, "noise", false, "generate white noise")
	fs.Float64Var(&o.duration, "duration", 0.5, "generated signal length in seconds")
	fs.Float64Var(&o.rate, "rate", 16000, "sample rate for generated signals")
	fs.IntVar(&o.segment, "segment", 256, "segment width in samples")
	fs.IntVar(&o.every, "every", 1, "write every n-th frame")
	fs.IntVar(&o.frames, "frames", 0, "stop after writing this many frames (0 = all)")
	fs.IntVar(&o.scale, "scale", 2, "integer upscaling factor")
	fs.StringVar(&o.outDir, "out", "frames", "output directory")
	fs.BoolVar(&o.openLoop, "open-loop", false, "disable filterbank gain control")
	fs.BoolVar(&o.verbose, "v", false, "debug logging")
	fs.Float64Var(&o.normalize, "normalize", 0, "rescale the input to this peak amplitude (0 = off)")
	triggerWindow := fs.String("trigger-window", window.TypeSineSquared.String(),
		"trigger search weighting: sine-squared or rectangular")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: saiplot [flags]\n\n")
		fmt.Fprintf(stderr, "Renders stabilized auditory images to PNG files.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return o, err
	}

	if o.every < 1 {
		return o, fmt.Errorf("-every must be >= 1: %d", o.every)
	}
	if o.frames < 0 {
		return o, fmt.Errorf("-frames must be >= 0: %d", o.frames)
	}
	if o.normalize < 0 {
		return o, fmt.Errorf("-normalize must be >= 0: %g", o.normalize)
	}
	t, err := window.ParseType(*triggerWindow)
	if err != nil {
		return o, err
	}
	o.triggerWindow = t
	return o, nil
}

func run(args []string, stdout, stderr io.Writer) error {
	o, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if o.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	clip, err := loadInput(o, logger)
	if err != nil {
		return err
	}
	if o.normalize > 0 {
		if err := signal.Normalize(clip.Samples, o.normalize); err != nil {
			return err
		}
	}

	p, err := pipeline.New(clip.SampleRate, o.segment,
		pipeline.WithLogger(logger),
		pipeline.WithOpenLoop(o.openLoop),
		pipeline.WithTriggerWindow(o.triggerWindow),
	)
	if err != nil {
		return err
	}
	mem, ok := p.Surface().(*display.Memory)
	if !ok {
		return fmt.Errorf("unexpected surface %T", p.Surface())
	}

	if err := os.MkdirAll(o.outDir, 0o755); err != nil {
		return err
	}

	segments, err := signal.Segments(clip.Samples, o.segment)
	if err != nil {
		return err
	}

	written := 0
	for i, seg := range segments {
		if err := p.ProcessSegment(seg); err != nil {
			return err
		}
		if i%o.every != 0 {
			continue
		}

		path := filepath.Join(o.outDir, fmt.Sprintf("frame_%05d.png", i))
		if err := writeFrame(path, mem, o.scale); err != nil {
			return err
		}
		written++
		if o.frames > 0 && written >= o.frames {
			break
		}
	}

	fmt.Fprintf(stdout, "%d segments, %d frames written to %s (%dx%d, scale %d)\n",
		p.Segments(), written, o.outDir, mem.Width(), mem.Height(), o.scale)
	return nil
}

func loadInput(o options, logger *slog.Logger) (audioio.Clip, error) {
	if o.wavPath != "" {
		f, err := os.Open(o.wavPath)
		if err != nil {
			return audioio.Clip{}, err
		}
		defer f.Close()
		return audioio.LoadWAV(f, logger)
	}

	n := int(o.duration * o.rate)
	gen := signal.NewGenerator([]core.ProcessorOption{core.WithSampleRate(o.rate)})

	var (
		samples []float64
		err     error
	)
	switch {
	case o.pulseHz > 0:
		samples, err = gen.PulseTrain(o.pulseHz, 1, n)
	case o.noise:
		samples, err = gen.WhiteNoise(0.3, n)
	case o.toneHz > 0:
		samples, err = gen.Sine(o.toneHz, 0.3, n)
	default:
		return audioio.Clip{}, errors.New("no input: give -wav, -tone, -pulse-hz or -noise")
	}
	if err != nil {
		return audioio.Clip{}, err
	}
	logger.Debug("generated input", "samples", n, "sample_rate", o.rate)
	return audioio.Clip{SampleRate: o.rate, Samples: samples}, nil
}

func writeFrame(path string, mem *display.Memory, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := display.WriteSnapshotPNG(f, mem.Snapshot(), scale); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
