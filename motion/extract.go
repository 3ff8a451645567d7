/*
DESCRIPTION
  extract.go provides a pure Go blob extractor. Noise is removed from the
  foreground mask with a morphological opening and the external connected
  regions of what remains are reported as blobs.

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
	"iter"

	"github.com/disintegration/gift"
)

// Labels used while scanning a mask.
const (
	unseen  = iota // Foreground, or background enclosed by foreground, not yet visited.
	outside        // Background connected to the mask border.
	visited        // Part of a reported blob.
)

// Opening is an Extractor that erodes then dilates the mask with a square
// kernel before finding regions.
type Opening struct {
	g *gift.GIFT
}

// NewOpening returns an Opening extractor with a kernel of size k by k.
func NewOpening(k int) *Opening {
	g := gift.New(gift.Minimum(k, false), gift.Maximum(k, false))
	g.SetParallelization(false)
	return &Opening{g: g}
}

// Extract implements Extractor. A region is the 8-connected foreground
// together with any holes it encloses; regions lying inside another region's
// hole are part of that region. Blobs are yielded in raster order of their
// first pixel.
func (o *Opening) Extract(mask *image.Gray) iter.Seq[Blob] {
	return func(yield func(Blob) bool) {
		clean := image.NewGray(o.g.Bounds(mask.Bounds()))
		o.g.Draw(clean, mask)
		scan(clean, yield)
	}
}

// scan labels the regions of m and yields a blob for each.
func scan(m *image.Gray, yield func(Blob) bool) {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if w == 0 || h == 0 {
		return
	}
	fg := func(x, y int) bool { return m.Pix[y*m.Stride+x] != 0 }

	label := make([]uint8, w*h)
	var stack []int

	// Flood the background from the border. Background is 4-connected so
	// that diagonal gaps in 8-connected foreground still enclose a hole.
	seed := func(x, y int) {
		i := y*w + x
		if label[i] == unseen && !fg(x, y) {
			label[i] = outside
			stack = append(stack, i)
		}
	}
	for x := 0; x < w; x++ {
		seed(x, 0)
		seed(x, h-1)
	}
	for y := 0; y < h; y++ {
		seed(0, y)
		seed(w-1, y)
	}
	for len(stack) > 0 {
		i := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		x, y := i%w, i/w
		if x > 0 {
			seed(x-1, y)
		}
		if x < w-1 {
			seed(x+1, y)
		}
		if y > 0 {
			seed(x, y-1)
		}
		if y < h-1 {
			seed(x, y+1)
		}
	}

	// Everything not reached is foreground or enclosed by it.
	for start := range label {
		if label[start] != unseen {
			continue
		}

		label[start] = visited
		stack = append(stack[:0], start)
		x0, y0 := start%w, start/w
		r := image.Rect(x0, y0, x0+1, y0+1)
		var area int

		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			area++

			x, y := i%w, i/w
			r = r.Union(image.Rect(x, y, x+1, y+1))
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					j := ny*w + nx
					if label[j] == unseen {
						label[j] = visited
						stack = append(stack, j)
					}
				}
			}
		}

		if !yield(Blob{Rect: r.Add(m.Rect.Min), Area: float64(area)}) {
			return
		}
	}
}
