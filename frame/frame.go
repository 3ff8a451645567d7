/*
DESCRIPTION
  frame.go provides the fixed size BGR raster handed to the detection core
  for each time step, and the normalisation of decoded images into it.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package frame provides the video frame type consumed by the traffic
// detection core.
package frame

import (
	"errors"
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
)

// Frame dimensions. Every frame handed to the core must be this size.
const (
	Width    = 640
	Height   = 360
	Channels = 3
)

// ErrMalformed is wrapped by errors describing a frame with unexpected
// dimensions or channel layout.
var ErrMalformed = errors.New("malformed frame")

// Frame is an 8 bit, 3 channel raster with interleaved BGR samples, the same
// layout as an OpenCV CV_8UC3 matrix.
type Frame struct {
	Width  int
	Height int
	Pix    []uint8
}

// New returns a zeroed (black) frame of the standard size.
func New() *Frame {
	return &Frame{Width: Width, Height: Height, Pix: make([]uint8, Width*Height*Channels)}
}

// Validate returns an error wrapping ErrMalformed if f is not a standard size
// BGR frame.
func (f *Frame) Validate() error {
	if f == nil {
		return fmt.Errorf("nil frame: %w", ErrMalformed)
	}
	if f.Width != Width || f.Height != Height {
		return fmt.Errorf("got %dx%d, want %dx%d: %w", f.Width, f.Height, Width, Height, ErrMalformed)
	}
	if len(f.Pix) != Width*Height*Channels {
		return fmt.Errorf("got %d bytes of pixel data, want %d: %w", len(f.Pix), Width*Height*Channels, ErrMalformed)
	}
	return nil
}

// Bounds returns the rectangle covered by the frame.
func (f *Frame) Bounds() image.Rectangle { return image.Rect(0, 0, f.Width, f.Height) }

// At returns the colour of the pixel at (x, y).
func (f *Frame) At(x, y int) color.RGBA {
	i := (y*f.Width + x) * Channels
	return color.RGBA{R: f.Pix[i+2], G: f.Pix[i+1], B: f.Pix[i], A: 0xff}
}

// Set sets the pixel at (x, y) to c.
func (f *Frame) Set(x, y int, c color.Color) {
	r, g, b, _ := c.RGBA()
	i := (y*f.Width + x) * Channels
	f.Pix[i] = uint8(b >> 8)
	f.Pix[i+1] = uint8(g >> 8)
	f.Pix[i+2] = uint8(r >> 8)
}

// Fill sets every pixel inside r to c.
func (f *Frame) Fill(r image.Rectangle, c color.Color) {
	r = r.Intersect(f.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			f.Set(x, y, c)
		}
	}
}

// RGBA converts the frame into an image for rendering.
func (f *Frame) RGBA() *image.RGBA {
	img := image.NewRGBA(f.Bounds())
	for i, j := 0, 0; i < len(f.Pix); i, j = i+Channels, j+4 {
		img.Pix[j] = f.Pix[i+2]
		img.Pix[j+1] = f.Pix[i+1]
		img.Pix[j+2] = f.Pix[i]
		img.Pix[j+3] = 0xff
	}
	return img
}

// FromImage scales img to the standard frame size using bilinear
// interpolation and converts it to BGR.
func FromImage(img image.Image) *Frame {
	dst := image.NewRGBA(image.Rect(0, 0, Width, Height))
	if img.Bounds().Size() == dst.Bounds().Size() {
		draw.Draw(dst, dst.Bounds(), img, img.Bounds().Min, draw.Src)
	} else {
		draw.BiLinear.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	}

	f := New()
	for i, j := 0, 0; j < len(dst.Pix); i, j = i+Channels, j+4 {
		f.Pix[i] = dst.Pix[j+2]
		f.Pix[i+1] = dst.Pix[j+1]
		f.Pix[i+2] = dst.Pix[j]
	}
	return f
}
