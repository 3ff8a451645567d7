//go:build !withcv
// +build !withcv

/*
DESCRIPTION
  Replaces the OpenCV video source for builds without OpenCV. Only MJPEG input
  can be read by such builds.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package video provides a Source for video files decoded by OpenCV.
package video

import (
	"errors"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/utils/logging"
)

// ErrNoOpenCV is returned when a video is started by a build without OpenCV.
var ErrNoOpenCV = errors.New("video input requires a build with the withcv tag")

// Video stands in for the OpenCV video source. It cannot be started.
type Video struct {
	log logging.Logger
}

// New returns a new Video source.
func New(l logging.Logger) *Video { return &Video{log: l} }

// Name returns the name of the device.
func (v *Video) Name() string { return "Video" }

// Set does nothing.
func (v *Video) Set(c config.Config) error { return nil }

// Start always returns ErrNoOpenCV.
func (v *Video) Start() error { return ErrNoOpenCV }

// Stop does nothing.
func (v *Video) Stop() error { return nil }

// IsRunning always returns false.
func (v *Video) IsRunning() bool { return false }

// Next always returns ErrNoOpenCV.
func (v *Video) Next() (*frame.Frame, error) { return nil, ErrNoOpenCV }
