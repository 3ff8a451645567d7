//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Provides the pure Go background models and extractor when built without
  OpenCV, as is the case for Circle-CI.

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
	"errors"
	"fmt"

	"github.com/ausocean/traffic/config"
)

// NewBackgroundModel returns the background model selected by c.Background.
// The KNN model requires OpenCV and is unavailable in this build.
func NewBackgroundModel(c config.Config) (BackgroundModel, error) {
	switch c.Background {
	case config.BackgroundMOG:
		c.Logger.Debug("using MOG background model", "history", c.BackgroundHistory, "threshold", c.BackgroundThreshold)
		return NewMOG(int(c.BackgroundHistory), c.BackgroundThreshold), nil
	case config.BackgroundKNN:
		return nil, errors.New("KNN background model requires a build with the withcv tag")
	case config.BackgroundBasic:
		c.Logger.Debug("using basic background model", "history", c.BackgroundHistory, "threshold", c.BackgroundThreshold)
		return NewBasic(int(c.BackgroundHistory), c.BackgroundThreshold), nil
	default:
		return nil, fmt.Errorf("unknown background model: %d", c.Background)
	}
}

// NewExtractor returns an Opening extractor using a kernel of c.MorphKernel
// pixels.
func NewExtractor(c config.Config) Extractor {
	return NewOpening(int(c.MorphKernel))
}
