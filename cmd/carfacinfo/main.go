// Command carfacinfo prints the channel layout of the cochlear filterbank.
//
// Usage:
//
//	carfacinfo [flags]
//
// For every channel it lists the pole frequency, the stage damping and the
// measured cascade response (peak, gain, -3 dB bandwidth and Q).
//
// Examples:
//
//	carfacinfo
//	carfacinfo -rate 44100 -fft 16384
//	carfacinfo -plot responses.png -every 4
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/cwbudde/algo-sai/dsp/carfac"
	"github.com/cwbudde/algo-sai/measure/response"
)

type options struct {
	rate     float64
	fftSize  int
	plotPath string
	every    int
	dampZeta float64
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

func run(args []string, stdout, stderr io.Writer) error {
	var o options
	fs := flag.NewFlagSet("carfacinfo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Float64Var(&o.rate, "rate", 16000, "sample rate in Hz")
	fs.IntVar(&o.fftSize, "fft", 8192, "FFT size for response measurement (power of two)")
	fs.StringVar(&o.plotPath, "plot", "", "write response curves to this PNG/SVG/PDF file")
	fs.IntVar(&o.every, "every", 4, "plot every n-th channel")
	fs.Float64Var(&o.dampZeta, "zeta", 0, "override the initial stage damping (0 = default)")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: carfacinfo [flags]\n\n")
		fmt.Fprintf(stderr, "Prints filterbank channel properties.\n\n")
		fmt.Fprintf(stderr, "Flags:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if o.every < 1 {
		return fmt.Errorf("-every must be >= 1: %d", o.every)
	}

	car := carfac.DefaultCARParams()
	if o.dampZeta > 0 {
		car.MinZeta = o.dampZeta
		car.MaxZeta = max(car.MaxZeta, o.dampZeta)
	}

	bank, err := carfac.New(1, o.rate, car, carfac.DefaultIHCParams(), carfac.DefaultAGCParams())
	if err != nil {
		return err
	}
	chans, err := response.Measure(bank.Coefficients(), o.rate, response.WithFFTSize(o.fftSize))
	if err != nil {
		return err
	}

	printTable(stdout, bank, chans)

	if o.plotPath != "" {
		if err := plotResponses(o.plotPath, chans, o.every); err != nil {
			return err
		}
		fmt.Fprintf(stdout, "\nplot written to %s\n", o.plotPath)
	}
	return nil
}

func printTable(w io.Writer, bank *carfac.CARFAC, chans []response.Channel) {
	fmt.Fprintf(w, "Filterbank: %d channels at %g Hz\n\n", bank.NumChannels(), bank.SampleRate())

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Ch\tPole (Hz)\tZeta\tPeak (Hz)\tGain (dB)\t-3dB BW (Hz)\tQ\t")
	fmt.Fprintln(tw, "--\t---------\t----\t---------\t---------\t------------\t-\t")

	poles := bank.PoleFrequencies()
	damping := bank.Damping()
	for i, ch := range chans {
		fmt.Fprintf(tw, "%d\t%.1f\t%.3f\t%.1f\t%.2f\t%.1f\t%.2f\t\n",
			i, poles[i], damping[i], ch.PeakHz, ch.PeakGainDB, ch.BandwidthHz(), ch.Q())
	}
	tw.Flush()
}
