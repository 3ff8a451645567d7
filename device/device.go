/*
DESCRIPTION
  device.go provides Source, an interface that describes a configurable
  video source that can be started and stopped from which frames may be
  obtained.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package device provides an interface and implementations for video sources
// that can be started and stopped from which frames can be obtained.
package device

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/device/file"
	"github.com/ausocean/traffic/device/video"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/utils/logging"
)

// Source describes a configurable source of video frames.
type Source interface {
	// Name returns the name of the Source.
	Name() string

	// Set allows for configuration of the Source using a Config struct. An
	// implementation should specify what fields are considered.
	Set(c config.Config) error

	// Start will start the Source; after which the Next method may be called
	// to obtain frames.
	Start() error

	// Stop will stop the Source and release its input. From this point calls
	// to Next will no longer be successful.
	Stop() error

	// IsRunning is used to determine if the source is running.
	IsRunning() bool

	// Next returns the next frame, scaled to the working resolution. It
	// returns io.EOF once the input is exhausted.
	Next() (*frame.Frame, error)
}

// New returns an unconfigured Source able to read the input at path. MJPEG
// files are read natively; other containers are handed to the OpenCV backed
// video source.
func New(path string, l logging.Logger) Source {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mjpeg", ".mjpg", ".jpeg", ".jpg":
		return file.New(l)
	default:
		return video.New(l)
	}
}

// Open returns a started Source reading the input named by c.InputPath.
func Open(c config.Config) (Source, error) {
	if c.InputPath == "" {
		return nil, fmt.Errorf("no input path")
	}

	s := New(c.InputPath, c.Logger)
	err := s.Set(c)
	if err != nil {
		return nil, fmt.Errorf("could not set %s source: %w", s.Name(), err)
	}

	err = s.Start()
	if err != nil {
		return nil, fmt.Errorf("could not start %s source: %w", s.Name(), err)
	}
	c.Logger.Info("source started", "name", s.Name(), "path", c.InputPath)
	return s, nil
}
