//go:build withcv
// +build withcv

/*
DESCRIPTION
  Background models and blob extraction using OpenCV through gocv. MOG uses
  the Mixture of Gaussians method and KNN the K-nearest neighbours method to
  separate foreground from background.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import (
	"fmt"
	"image"
	"iter"

	"gocv.io/x/gocv"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/utils/logging"
)

// NewBackgroundModel returns the background model selected by c.Background.
func NewBackgroundModel(c config.Config) (BackgroundModel, error) {
	switch c.Background {
	case config.BackgroundMOG:
		// Shadows are detected, and since they are marked with a non-zero
		// value they remain foreground.
		bs := gocv.NewBackgroundSubtractorMOG2WithParams(int(c.BackgroundHistory), c.BackgroundThreshold, true)
		c.Logger.Debug("using OpenCV MOG background model", "history", c.BackgroundHistory, "threshold", c.BackgroundThreshold)
		return &cvModel{bs: &bs}, nil
	case config.BackgroundKNN:
		bs := gocv.NewBackgroundSubtractorKNNWithParams(int(c.BackgroundHistory), c.BackgroundThreshold, true)
		c.Logger.Debug("using OpenCV KNN background model", "history", c.BackgroundHistory, "threshold", c.BackgroundThreshold)
		return &cvModel{bs: &bs}, nil
	case config.BackgroundBasic:
		c.Logger.Debug("using basic background model", "history", c.BackgroundHistory, "threshold", c.BackgroundThreshold)
		return NewBasic(int(c.BackgroundHistory), c.BackgroundThreshold), nil
	default:
		return nil, fmt.Errorf("unknown background model: %d", c.Background)
	}
}

// NewExtractor returns an OpenCV blob extractor using a kernel of
// c.MorphKernel pixels.
func NewExtractor(c config.Config) Extractor {
	k := int(c.MorphKernel)
	return &cvExtractor{knl: gocv.GetStructuringElement(gocv.MorphRect, image.Pt(k, k)), log: c.Logger}
}

// subtractor is satisfied by the gocv background subtractors.
type subtractor interface {
	Apply(src gocv.Mat, dst *gocv.Mat)
	Close() error
}

// cvModel is a BackgroundModel backed by an OpenCV background subtractor.
type cvModel struct {
	bs subtractor
}

// Close frees resources used by gocv. It has to be done manually,
// due to gocv using c-go.
func (m *cvModel) Close() error {
	return m.bs.Close()
}

// Update implements BackgroundModel.
func (m *cvModel) Update(f *frame.Frame) (*image.Gray, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}

	img, err := gocv.NewMatFromBytes(f.Height, f.Width, gocv.MatTypeCV8UC3, f.Pix)
	if err != nil {
		return nil, fmt.Errorf("could not create matrix from frame: %w", err)
	}
	defer img.Close()

	imgDelta := gocv.NewMat()
	defer imgDelta.Close()

	// Seperate foreground and background.
	m.bs.Apply(img, &imgDelta)

	return &image.Gray{
		Pix:    imgDelta.ToBytes(),
		Stride: imgDelta.Cols(),
		Rect:   image.Rect(0, 0, imgDelta.Cols(), imgDelta.Rows()),
	}, nil
}

// cvExtractor is an Extractor using OpenCV morphology and contour finding.
type cvExtractor struct {
	knl gocv.Mat // Structuring element for the opening.
	log logging.Logger
}

// Close frees the structuring element.
func (e *cvExtractor) Close() error {
	return e.knl.Close()
}

// Extract implements Extractor.
func (e *cvExtractor) Extract(mask *image.Gray) iter.Seq[Blob] {
	return func(yield func(Blob) bool) {
		w, h := mask.Rect.Dx(), mask.Rect.Dy()
		imgDelta, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8U, packed(mask))
		if err != nil {
			e.log.Error("could not create matrix from mask", "error", err.Error(), "width", w, "height", h)
			return
		}
		defer imgDelta.Close()

		// Remove noise.
		clean := gocv.NewMat()
		defer clean.Close()
		gocv.MorphologyEx(imgDelta, &clean, gocv.MorphOpen, e.knl)

		contours := gocv.FindContours(clean, gocv.RetrievalExternal, gocv.ChainApproxSimple)
		defer contours.Close()

		for i := 0; i < contours.Size(); i++ {
			c := contours.At(i)
			b := Blob{Rect: gocv.BoundingRect(c).Add(mask.Rect.Min), Area: gocv.ContourArea(c)}
			if !yield(b) {
				return
			}
		}
	}
}
