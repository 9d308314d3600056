package main

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-sai/dsp/core"
	"github.com/cwbudde/algo-sai/measure/response"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

// floorDB clips the curves so the log axis stays readable.
const floorDB = -60.0

func plotResponses(path string, chans []response.Channel, every int) error {
	p := plot.New()
	p.Title.Text = "Filterbank channel responses"
	p.X.Label.Text = "Frequency (Hz)"
	p.Y.Label.Text = "Gain (dB)"
	p.X.Scale = plot.LogScale{}
	p.X.Tick.Marker = plot.LogTicks{Prec: -1}
	p.Y.Min = floorDB
	p.Add(plotter.NewGrid())

	for i := 0; i < len(chans); i += every {
		ch := chans[i]
		pts := make(plotter.XYs, 0, len(ch.Power)-1)
		for k := 1; k < len(ch.Power); k++ {
			db := math.Max(floorDB, core.PowerToDB(ch.Power[k]))
			pts = append(pts, plotter.XY{X: float64(k) * ch.BinHz, Y: db})
		}

		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("channel %d: %w", i, err)
		}
		line.Width = vg.Points(1)
		line.Color = plotutil.Color(i / every)
		p.Add(line)
	}

	if err := p.Save(10*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("save plot: %w", err)
	}
	return nil
}
