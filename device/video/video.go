//go:build withcv
// +build withcv

/*
DESCRIPTION
  video.go provides an implementation of the Source interface for video files
  in any container OpenCV can read.

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
	"fmt"
	"image"
	"io"
	"sync"
	"time"

	"gocv.io/x/gocv"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/utils/logging"
)

// Video is a frame source reading a video file through OpenCV.
type Video struct {
	vc        *gocv.VideoCapture
	img       gocv.Mat
	tick      *time.Ticker
	path      string
	loop      bool
	fps       uint
	isRunning bool
	log       logging.Logger
	set       bool
	mu        sync.Mutex
}

// New returns a new Video source.
func New(l logging.Logger) *Video { return &Video{log: l} }

// Name returns the name of the device.
func (v *Video) Name() string {
	return "Video"
}

// Set uses the InputPath, Loop and FileFPS fields of c.
func (v *Video) Set(c config.Config) error {
	v.path = c.InputPath
	v.loop = c.Loop
	v.fps = c.FileFPS
	v.set = true
	return nil
}

// Start opens the video file.
func (v *Video) Start() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if !v.set {
		return errors.New("video has not been set with config")
	}

	var err error
	v.vc, err = gocv.VideoCaptureFile(v.path)
	if err != nil {
		return fmt.Errorf("failed to open video file: %w", err)
	}
	if !v.vc.IsOpened() {
		v.vc.Close()
		v.vc = nil
		return fmt.Errorf("could not open video file: %s", v.path)
	}
	v.img = gocv.NewMat()
	if v.fps != 0 {
		v.tick = time.NewTicker(time.Second / time.Duration(v.fps))
	}
	v.isRunning = true
	return nil
}

// Stop closes the video capture and frees the frame buffer. Stopping a
// source that is not running does nothing.
func (v *Video) Stop() error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vc == nil {
		return nil
	}
	if v.tick != nil {
		v.tick.Stop()
		v.tick = nil
	}
	v.img.Close()
	err := v.vc.Close()
	v.vc = nil
	v.isRunning = false
	if err != nil {
		return fmt.Errorf("could not close video capture device: %w", err)
	}
	return nil
}

// Next reads the next frame of the video and scales it to the working
// resolution.
func (v *Video) Next() (*frame.Frame, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.vc == nil {
		return nil, errors.New("video is closed, source not started")
	}

	ok := v.vc.Read(&v.img)
	if (!ok || v.img.Empty()) && v.loop {
		v.log.Info("looping input file")
		v.vc.Set(gocv.VideoCapturePosFrames, 0)
		ok = v.vc.Read(&v.img)
	}
	if !ok || v.img.Empty() {
		return nil, io.EOF
	}

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(v.img, &resized, image.Pt(frame.Width, frame.Height), 0, 0, gocv.InterpolationLinear)

	if v.tick != nil {
		<-v.tick.C
	}
	return &frame.Frame{Width: frame.Width, Height: frame.Height, Pix: resized.ToBytes()}, nil
}

// IsRunning is used to determine if the video source is running.
func (v *Video) IsRunning() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.vc != nil && v.isRunning
}
