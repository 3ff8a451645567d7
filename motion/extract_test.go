/*
DESCRIPTION
  extract_test.go provides testing for the pure Go blob extractor.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import (
	"image"
	"image/color"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// mask returns a 200x200 mask with the given rectangles set to foreground
// and the holes cleared back to background.
func mask(fill []image.Rectangle, holes []image.Rectangle) *image.Gray {
	m := image.NewGray(image.Rect(0, 0, 200, 200))
	set := func(r image.Rectangle, v uint8) {
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				m.SetGray(x, y, color.Gray{Y: v})
			}
		}
	}
	for _, r := range fill {
		set(r, foreground)
	}
	for _, r := range holes {
		set(r, 0)
	}
	return m
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		fill  []image.Rectangle
		holes []image.Rectangle
		want  []Blob
	}{
		{
			name: "empty",
		},
		{
			name: "speck",
			fill: []image.Rectangle{image.Rect(50, 50, 53, 53)},
		},
		{
			name: "thin line",
			fill: []image.Rectangle{image.Rect(20, 100, 180, 102)},
		},
		{
			name: "rectangle",
			fill: []image.Rectangle{image.Rect(10, 20, 50, 50)},
			want: []Blob{{Rect: image.Rect(10, 20, 50, 50), Area: 1200}},
		},
		{
			name: "rectangle with speck",
			fill: []image.Rectangle{image.Rect(10, 20, 50, 50), image.Rect(100, 100, 102, 102)},
			want: []Blob{{Rect: image.Rect(10, 20, 50, 50), Area: 1200}},
		},
		{
			name: "raster order",
			fill: []image.Rectangle{image.Rect(100, 10, 130, 30), image.Rect(10, 60, 40, 90)},
			want: []Blob{
				{Rect: image.Rect(100, 10, 130, 30), Area: 600},
				{Rect: image.Rect(10, 60, 40, 90), Area: 900},
			},
		},
		{
			name: "diagonal neighbours",
			fill: []image.Rectangle{image.Rect(10, 10, 20, 20), image.Rect(20, 20, 30, 30)},
			want: []Blob{{Rect: image.Rect(10, 10, 30, 30), Area: 200}},
		},
		{
			name:  "ring",
			fill:  []image.Rectangle{image.Rect(100, 100, 160, 160)},
			holes: []image.Rectangle{image.Rect(110, 110, 150, 150)},
			want:  []Blob{{Rect: image.Rect(100, 100, 160, 160), Area: 3600}},
		},
	}

	o := NewOpening(5)
	for _, test := range tests {
		got := slices.Collect(o.Extract(mask(test.fill, test.holes)))
		if !cmp.Equal(got, test.want) {
			t.Errorf("unexpected blobs for %q\n%s", test.name, cmp.Diff(test.want, got))
		}
	}
}

func TestExtractNested(t *testing.T) {
	m := mask(
		[]image.Rectangle{image.Rect(100, 100, 160, 160)},
		[]image.Rectangle{image.Rect(110, 110, 150, 150)},
	)

	// A block inside the ring's hole is not an external region.
	for y := 125; y < 135; y++ {
		for x := 125; x < 135; x++ {
			m.SetGray(x, y, color.Gray{Y: foreground})
		}
	}

	got := slices.Collect(NewOpening(5).Extract(m))
	want := []Blob{{Rect: image.Rect(100, 100, 160, 160), Area: 3600}}
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected blobs\n%s", cmp.Diff(want, got))
	}
}

func TestExtractStop(t *testing.T) {
	m := mask([]image.Rectangle{image.Rect(10, 10, 30, 30), image.Rect(60, 60, 90, 90)}, nil)

	var n int
	for range NewOpening(5).Extract(m) {
		n++
		break
	}
	if n != 1 {
		t.Errorf("unexpected number of blobs before stopping: %d", n)
	}
}

func TestPacked(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 6, 4))
	for i := range m.Pix {
		m.Pix[i] = uint8(i)
	}

	got := packed(m)
	if !cmp.Equal(got, m.Pix) {
		t.Errorf("contiguous mask changed\n%s", cmp.Diff(m.Pix, got))
	}

	// A sub image keeps the parent's stride.
	sub := m.SubImage(image.Rect(1, 1, 4, 3)).(*image.Gray)
	want := []byte{7, 8, 9, 13, 14, 15}
	got = packed(sub)
	if !cmp.Equal(got, want) {
		t.Errorf("unexpected pixels for sub image\n%s", cmp.Diff(want, got))
	}
}
