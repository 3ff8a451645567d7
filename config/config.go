/*
NAME
  config.go

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package config contains the configuration settings for a traffic
// monitoring session.
package config

import (
	"errors"
	"fmt"

	"github.com/ausocean/utils/logging"
)

// The different background models.
const (
	BackgroundMOG = iota
	BackgroundKNN
	BackgroundBasic
)

// ErrOutOfRange is wrapped by errors returned from Validate when a field that
// has been set holds a value outside its permitted range.
var ErrOutOfRange = errors.New("config value out of range")

// Config provides parameters relevant to a traffic monitoring session. The
// detection fields are fixed for the lifetime of a session; a new session
// must be started to change them.
type Config struct {
	// Logger holds an implementation of the Logger interface. This must be
	// set for a session to work correctly.
	Logger logging.Logger

	// LogLevel is the logging verbosity level.
	// Valid values are defined by enums from the logger package: logging.Debug,
	// logging.Info, logging.Warning logging.Error, logging.Fatal.
	LogLevel int8

	// SensitivityThreshold is the minimum blob area in pixels that counts as
	// a detection. Blobs with an area less than or equal to this are discarded.
	SensitivityThreshold uint

	// SignalPeriod is the number of frames the simulated signal spends in
	// each of its green and red phases.
	SignalPeriod uint

	Background          uint8   // Background model used to separate foreground from background.
	BackgroundHistory   uint    // Length of the background model's history in frames.
	BackgroundThreshold float64 // Squared distance, in variances, beyond which a pixel is foreground (MOG, KNN).
	MorphKernel         uint    // Size of the square kernel used to remove noise from the foreground mask.
	SnapshotInterval    uint    // Number of frames between time series snapshots.

	// InputPath is the location of the video to process. MJPEG files are read
	// natively, other containers require a build with OpenCV.
	InputPath string

	Loop    bool // If true will restart reading of input after an io.EOF.
	FileFPS uint // Defines the rate at which frames from a file source are processed; 0 is unpaced.

	LogPath        string // Path of the rotated log file.
	PlotPath       string // If set, a chart of the time series is written here at the end of a session.
	DBPath         string // If set, sessions and snapshots are recorded in this SQLite database.
	MetricsAddress string // If set, Prometheus metrics are served at this address.
}

// Validate checks for any errors in the config fields and defaults settings
// if particular parameters have not been defined. The first field found to be
// out of range is returned as an error wrapping ErrOutOfRange.
func (c *Config) Validate() error {
	for _, v := range Variables {
		if v.Validate == nil {
			continue
		}
		err := v.Validate(c)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", v.Name, err)
		}
	}
	return nil
}

// Update takes a map of configuration variable names and their corresponding
// values, parses the string values and converting into correct type, and then
// sets the config struct fields as appropriate.
func (c *Config) Update(vars map[string]string) {
	for _, value := range Variables {
		if v, ok := vars[value.Name]; ok && value.Update != nil {
			value.Update(c, v)
		}
	}
}

func (c *Config) LogInvalidField(name string, def interface{}) {
	c.Logger.Info(name+" bad or unset, defaulting", name, def)
}
