//go:build debug && withcv
// +build debug,withcv

/*
DESCRIPTION
  Displays processed frames and their detections in an OpenCV window.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package display

import (
	"image"

	"gocv.io/x/gocv"

	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/traffic/traffic"
)

// cvWindow is an OpenCV window.
type cvWindow struct {
	window *gocv.Window
}

// New creates a window with the given title.
func New(name string) Window {
	return &cvWindow{window: gocv.NewWindow(name)}
}

// Close frees resources used by gocv.
func (d *cvWindow) Close() error {
	return d.window.Close()
}

// Show displays f with the detections and readout of r.
func (d *cvWindow) Show(f *frame.Frame, r *traffic.Result) {
	im, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return
	}
	defer im.Close()

	// Draw detections. Colours are given to OpenCV in BGR order.
	for _, a := range r.Annotations {
		c := a.Color
		c.R, c.B = c.B, c.R
		gocv.Rectangle(&im, a.Rect, c, thickness)
	}

	// Draw readout.
	for i, l := range Lines(r) {
		c := l.Color
		c.R, c.B = c.B, c.R
		gocv.PutText(&im, l.Text, image.Pt(20, 40+30*i), gocv.FontHersheySimplex, l.Scale, c, 2)
	}

	d.window.IMShow(im)
	d.window.WaitKey(1)
}
