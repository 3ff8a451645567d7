/*
DESCRIPTION
  report.go provides charting and summary statistics of a traffic session's
  time series.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package report charts and summarises the time series of traffic sessions.
package report

import (
	"errors"
	"fmt"
	"image/color"
	"io"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ausocean/traffic/traffic"
)

// ErrNoData is returned when charting an empty time series.
var ErrNoData = errors.New("no snapshots to chart")

// Chart dimensions.
const (
	width  = 10 * vg.Inch
	height = 5 * vg.Inch
)

var (
	vehicleColor   = color.RGBA{G: 0x80, A: 0xff}
	busColor       = color.RGBA{B: 0xff, A: 0xff}
	violationColor = color.RGBA{R: 0xff, G: 0xa5, A: 0xff}
)

// Chart returns a line chart of the vehicle, bus and violation counts of
// series against the wall clock time of each snapshot.
func Chart(series []traffic.Snapshot) (*plot.Plot, error) {
	if len(series) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = "Traffic Statistics Over Time"
	p.X.Label.Text = "Time"
	p.Y.Label.Text = "Count"
	p.Y.Min = 0

	labels := make([]string, len(series))
	vehicles := make(plotter.XYs, len(series))
	buses := make(plotter.XYs, len(series))
	violations := make(plotter.XYs, len(series))
	for i, s := range series {
		x := float64(i)
		labels[i] = s.Label
		vehicles[i] = plotter.XY{X: x, Y: float64(s.Vehicles)}
		buses[i] = plotter.XY{X: x, Y: float64(s.Buses)}
		violations[i] = plotter.XY{X: x, Y: float64(s.Violations)}
	}
	p.NominalX(labels...)

	for _, l := range []struct {
		name string
		pts  plotter.XYs
		c    color.Color
	}{
		{"Vehicles", vehicles, vehicleColor},
		{"Buses", buses, busColor},
		{"Violations", violations, violationColor},
	} {
		line, err := plotter.NewLine(l.pts)
		if err != nil {
			return nil, fmt.Errorf("could not create %s line: %w", l.name, err)
		}
		line.Color = l.c
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(l.name, line)
	}
	p.Legend.Top = true
	p.Legend.Left = true
	p.Add(plotter.NewGrid())

	return p, nil
}

// Save writes a chart of series to path. The image format is taken from the
// extension of path.
func Save(series []traffic.Snapshot, path string) error {
	p, err := Chart(series)
	if err != nil {
		return err
	}
	return p.Save(width, height, path)
}

// Write writes a PNG chart of series to w.
func Write(w io.Writer, series []traffic.Snapshot) error {
	p, err := Chart(series)
	if err != nil {
		return err
	}
	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("could not create chart writer: %w", err)
	}
	_, err = wt.WriteTo(w)
	return err
}

// Rate describes the number of detections added per snapshot interval.
type Rate struct {
	Mean   float64
	StdDev float64
}

// Rates summarises how a session's counts grew between snapshots.
type Rates struct {
	Intervals  int
	Vehicles   Rate
	Buses      Rate
	Violations Rate
}

// RatesOf returns the per interval rates of series. The first interval runs
// from the start of the session to the first snapshot.
func RatesOf(series []traffic.Snapshot) Rates {
	r := Rates{Intervals: len(series)}
	if len(series) == 0 {
		return r
	}

	v := make([]float64, len(series))
	b := make([]float64, len(series))
	x := make([]float64, len(series))
	var prev traffic.Snapshot
	for i, s := range series {
		v[i] = float64(s.Vehicles - prev.Vehicles)
		b[i] = float64(s.Buses - prev.Buses)
		x[i] = float64(s.Violations - prev.Violations)
		prev = s
	}

	r.Vehicles = rateOf(v)
	r.Buses = rateOf(b)
	r.Violations = rateOf(x)
	return r
}

func rateOf(d []float64) Rate {
	if len(d) == 1 {
		return Rate{Mean: d[0]}
	}
	m, s := stat.MeanStdDev(d, nil)
	return Rate{Mean: m, StdDev: s}
}
