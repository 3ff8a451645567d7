/*
DESCRIPTION
  A background model that uses a difference method looking at each individual
  pixel to determine what is background and what is foreground. The background
  is a running average of past frames.

AUTHORS
  Ella Pietraroia <ella@ausocean.org>

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

	"github.com/ausocean/traffic/frame"
)

// Basic is a background model that provides basic foreground detection via a
// difference method.
type Basic struct {
	bg     []float32 // Running average of each sample.
	alpha  float32   // Weight given to the newest frame.
	thresh float32   // Intensity difference beyond which a pixel is foreground.
}

// NewBasic returns a pointer to a new Basic model. The background adapts
// over roughly history frames.
func NewBasic(history int, threshold float64) *Basic {
	if history < 1 {
		history = 1
	}
	return &Basic{alpha: 1 / float32(history), thresh: float32(threshold)}
}

// Close implements BackgroundModel.
func (bm *Basic) Close() error { return nil }

// Update implements BackgroundModel. A pixel is foreground when any of its
// channels differs from the background by more than the threshold.
func (bm *Basic) Update(f *frame.Frame) (*image.Gray, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}

	mask := image.NewGray(f.Bounds())

	// First frame must be set as the first background image.
	if bm.bg == nil {
		bm.bg = make([]float32, len(f.Pix))
		for i, v := range f.Pix {
			bm.bg[i] = float32(v)
		}
		return mask, nil
	}

	for p := range mask.Pix {
		var moving bool
		for c := p * frame.Channels; c < (p+1)*frame.Channels; c++ {
			v := float32(f.Pix[c])
			if absDiff(v, bm.bg[c]) > bm.thresh {
				moving = true
			}

			// Update background image.
			bm.bg[c] += bm.alpha * (v - bm.bg[c])
		}
		if moving {
			mask.Pix[p] = foreground
		}
	}
	return mask, nil
}

// Returns the absolute value of the difference of two float32 numbers.
func absDiff(a, b float32) float32 {
	if a < b {
		return b - a
	}
	return a - b
}
