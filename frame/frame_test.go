/*
DESCRIPTION
  frame_test.go provides testing for frame validation and normalisation.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package frame

import (
	"errors"
	"image"
	"image/color"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		frame   *Frame
		wantErr bool
	}{
		{name: "standard", frame: New()},
		{name: "nil", frame: nil, wantErr: true},
		{name: "wrong width", frame: &Frame{Width: 320, Height: Height, Pix: make([]uint8, 320*Height*Channels)}, wantErr: true},
		{name: "wrong height", frame: &Frame{Width: Width, Height: 480, Pix: make([]uint8, Width*480*Channels)}, wantErr: true},
		{name: "single channel", frame: &Frame{Width: Width, Height: Height, Pix: make([]uint8, Width*Height)}, wantErr: true},
	}

	for _, test := range tests {
		err := test.frame.Validate()
		if test.wantErr != errors.Is(err, ErrMalformed) {
			t.Errorf("unexpected error for %q: %v", test.name, err)
		}
	}
}

func TestSetAt(t *testing.T) {
	f := New()
	want := color.RGBA{R: 10, G: 20, B: 30, A: 0xff}
	f.Set(5, 7, want)

	got := f.At(5, 7)
	if got != want {
		t.Errorf("unexpected colour: got %v want %v", got, want)
	}

	// Samples are stored blue first.
	i := (7*Width + 5) * Channels
	if f.Pix[i] != 30 || f.Pix[i+1] != 20 || f.Pix[i+2] != 10 {
		t.Errorf("unexpected byte order: %v", f.Pix[i:i+3])
	}
}

func TestFromImage(t *testing.T) {
	red := color.RGBA{R: 0xff, A: 0xff}
	tests := []struct {
		name string
		size image.Point
	}{
		{name: "native", size: image.Pt(Width, Height)},
		{name: "hd", size: image.Pt(1280, 720)},
		{name: "small", size: image.Pt(160, 90)},
	}

	for _, test := range tests {
		img := image.NewRGBA(image.Rectangle{Max: test.size})
		for y := 0; y < test.size.Y; y++ {
			for x := 0; x < test.size.X; x++ {
				img.Set(x, y, red)
			}
		}

		f := FromImage(img)
		err := f.Validate()
		if err != nil {
			t.Errorf("normalised frame invalid for %q: %v", test.name, err)
			continue
		}
		if got := f.At(Width/2, Height/2); got != red {
			t.Errorf("unexpected centre colour for %q: got %v want %v", test.name, got, red)
		}
	}
}

func TestRGBARoundTrip(t *testing.T) {
	f := New()
	c := color.RGBA{R: 200, G: 100, B: 50, A: 0xff}
	f.Fill(image.Rect(10, 10, 20, 20), c)

	g := FromImage(f.RGBA())
	if got := g.At(15, 15); got != c {
		t.Errorf("unexpected colour: got %v want %v", got, c)
	}
	if got := g.At(0, 0); got != (color.RGBA{A: 0xff}) {
		t.Errorf("unexpected background colour: %v", got)
	}
}
