/*
DESCRIPTION
  display.go provides the overlay drawn on processed frames: an outline for
  each detection and the signal, count and density readout.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package display renders processed frames with their detections.
package display

import (
	"fmt"
	"image"
	"image/color"

	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/traffic/traffic"
)

// Outline thickness in pixels.
const thickness = 2

// Readout colours.
var (
	signalRed   = color.RGBA{R: 0xff, A: 0xff}
	signalGreen = color.RGBA{G: 0xff, A: 0xff}
	white       = color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	orange      = color.RGBA{R: 0xff, G: 0xc8, A: 0xff}
	yellow      = color.RGBA{R: 0xff, G: 0xff, A: 0xff}
	azure       = color.RGBA{G: 0xc8, B: 0xff, A: 0xff}
)

// Window shows processed frames.
type Window interface {
	Show(f *frame.Frame, r *traffic.Result)
	Close() error
}

// Line is one line of the readout.
type Line struct {
	Text  string
	Color color.RGBA
	Scale float64 // Font scale.
}

// Lines returns the readout lines for r. The signal line is drawn in the
// signal's colour and slightly larger than the counts.
func Lines(r *traffic.Result) []Line {
	return []Line{
		{Text: fmt.Sprintf("Light: %s", r.Signal), Color: SignalColor(r.Signal), Scale: 0.8},
		{Text: fmt.Sprintf("Vehicles: %d", r.Vehicles), Color: white, Scale: 0.7},
		{Text: fmt.Sprintf("Buses: %d", r.Buses), Color: orange, Scale: 0.7},
		{Text: fmt.Sprintf("Violations: %d", r.Violations), Color: yellow, Scale: 0.7},
		{Text: fmt.Sprintf("Density: %s", r.Density), Color: azure, Scale: 0.7},
	}
}

// SignalColor returns the colour the readout of signal s is drawn in.
func SignalColor(s traffic.Signal) color.RGBA {
	if s == traffic.Red {
		return signalRed
	}
	return signalGreen
}

// Annotate draws the outline of each detection of r onto a copy of f.
func Annotate(f *frame.Frame, r *traffic.Result) *frame.Frame {
	dst := &frame.Frame{Width: f.Width, Height: f.Height, Pix: append([]uint8(nil), f.Pix...)}
	for _, a := range r.Annotations {
		outline(dst, a.Rect, a.Color)
	}
	return dst
}

// outline draws the border of rect, clipped to the frame.
func outline(f *frame.Frame, rect image.Rectangle, c color.Color) {
	t := thickness
	if rect.Dx() < 2*t || rect.Dy() < 2*t {
		f.Fill(rect.Intersect(f.Bounds()), c)
		return
	}
	for _, r := range []image.Rectangle{
		image.Rect(rect.Min.X, rect.Min.Y, rect.Max.X, rect.Min.Y+t),
		image.Rect(rect.Min.X, rect.Max.Y-t, rect.Max.X, rect.Max.Y),
		image.Rect(rect.Min.X, rect.Min.Y, rect.Min.X+t, rect.Max.Y),
		image.Rect(rect.Max.X-t, rect.Min.Y, rect.Max.X, rect.Max.Y),
	} {
		f.Fill(r.Intersect(f.Bounds()), c)
	}
}
