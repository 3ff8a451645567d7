/*
NAME
  motion.go

AUTHORS
  Scott Barnard <scott@ausocean.org>
  Ella Pietraroia <ella@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package motion separates moving foreground from a learned background and
// reduces the foreground to bounding regions (blobs).
//
// Two capabilities are provided, each behind an interface so that
// implementations may be swapped without touching their users:
// a BackgroundModel turns frames into foreground masks, and an Extractor
// turns masks into blobs. Pure Go implementations are always available;
// building with the withcv tag substitutes OpenCV (gocv) implementations.
package motion

import (
	"image"
	"iter"

	"github.com/ausocean/traffic/frame"
)

// BackgroundModel is an adaptive per pixel estimate of the static scene.
type BackgroundModel interface {
	// Update learns from f and returns a mask, the same size as f, in which
	// non-zero pixels are foreground. Frames that fail frame.Validate are
	// rejected without touching the model.
	Update(f *frame.Frame) (*image.Gray, error)

	// Close frees any resources held by the model.
	Close() error
}

// Extractor finds blobs in a foreground mask.
type Extractor interface {
	// Extract cleans mask of noise and returns the external connected
	// foreground regions in discovery order. The sequence is single use.
	Extract(mask *image.Gray) iter.Seq[Blob]
}

// Blob is one connected foreground region of a single frame.
type Blob struct {
	Rect image.Rectangle // Bounding box.
	Area float64         // Area of the region in pixels, holes included.
}

// packed returns the pixels of m with no padding between rows, copying them
// only if m's stride differs from its width.
func packed(m *image.Gray) []byte {
	w, h := m.Rect.Dx(), m.Rect.Dy()
	if m.Stride == w {
		return m.Pix[:w*h]
	}
	pix := make([]byte, 0, w*h)
	for y := 0; y < h; y++ {
		pix = append(pix, m.Pix[y*m.Stride:y*m.Stride+w]...)
	}
	return pix
}
