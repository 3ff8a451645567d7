/*
DESCRIPTION
  variables.go contains a list of structs that provide a variable Name, type in
  a string format, a function for updating the variable in the Config struct
  from a string, and finally, a validation function to check the validity of the
  corresponding field value in the Config.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ausocean/utils/logging"
)

// Config map Keys.
const (
	KeyBackground           = "Background"
	KeyBackgroundHistory    = "BackgroundHistory"
	KeyBackgroundThreshold  = "BackgroundThreshold"
	KeyDBPath               = "DBPath"
	KeyFileFPS              = "FileFPS"
	KeyInputPath            = "InputPath"
	KeyLogging              = "logging"
	KeyLogPath              = "LogPath"
	KeyLoop                 = "Loop"
	KeyMetricsAddress       = "MetricsAddress"
	KeyMorphKernel          = "MorphKernel"
	KeyPlotPath             = "PlotPath"
	KeySensitivityThreshold = "SensitivityThreshold"
	KeySignalPeriod         = "SignalPeriod"
	KeySnapshotInterval     = "SnapshotInterval"
)

// Config map parameter types.
const (
	typeString = "string"
	typeUint   = "uint"
	typeBool   = "bool"
	typeFloat  = "float"
)

// Default variable values.
const (
	defaultSensitivityThreshold = 900
	defaultSignalPeriod         = 200
	defaultBackground           = BackgroundMOG
	defaultBackgroundHistory    = 100
	defaultBackgroundThreshold  = 50.0
	defaultMorphKernel          = 5
	defaultSnapshotInterval     = 60
	defaultFileFPS              = 0
	defaultLogPath              = "trafficmon.log"
)

// Permitted ranges of the detection settings.
const (
	MinSensitivityThreshold = 500
	MaxSensitivityThreshold = 3000
	MinSignalPeriod         = 100
	MaxSignalPeriod         = 400
)

// Variables describes the variables that can be used for session control.
// These structs provide the name and type of variable, a function for updating
// this variable in a Config, and a function for validating the value of the variable.
var Variables = []struct {
	Name     string
	Type     string
	Update   func(*Config, string)
	Validate func(*Config) error
}{
	{
		Name: KeyBackground,
		Type: "enum:MOG,KNN,Basic",
		Update: func(c *Config, v string) {
			c.Background = parseEnum(
				KeyBackground,
				v,
				map[string]uint8{
					"mog":   BackgroundMOG,
					"knn":   BackgroundKNN,
					"basic": BackgroundBasic,
				},
				c,
			)
		},
		Validate: func(c *Config) error {
			switch c.Background {
			case BackgroundMOG, BackgroundKNN, BackgroundBasic:
			default:
				c.LogInvalidField(KeyBackground, defaultBackground)
				c.Background = defaultBackground
			}
			return nil
		},
	},
	{
		Name:   KeyBackgroundHistory,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.BackgroundHistory = parseUint(KeyBackgroundHistory, v, c) },
		Validate: func(c *Config) error {
			c.BackgroundHistory = lessThanOrEqual(KeyBackgroundHistory, c.BackgroundHistory, 0, c, defaultBackgroundHistory)
			return nil
		},
	},
	{
		Name:   KeyBackgroundThreshold,
		Type:   typeFloat,
		Update: func(c *Config, v string) { c.BackgroundThreshold = parseFloat(KeyBackgroundThreshold, v, c) },
		Validate: func(c *Config) error {
			if c.BackgroundThreshold <= 0 {
				c.LogInvalidField(KeyBackgroundThreshold, defaultBackgroundThreshold)
				c.BackgroundThreshold = defaultBackgroundThreshold
			}
			return nil
		},
	},
	{
		Name:   KeyDBPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.DBPath = v },
	},
	{
		Name:   KeyFileFPS,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.FileFPS = parseUint(KeyFileFPS, v, c) },
	},
	{
		Name:   KeyInputPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.InputPath = v },
	},
	{
		Name: KeyLogging,
		Type: "enum:Debug,Info,Warning,Error,Fatal",
		Update: func(c *Config, v string) {
			switch v {
			case "Debug":
				c.LogLevel = logging.Debug
			case "Info":
				c.LogLevel = logging.Info
			case "Warning":
				c.LogLevel = logging.Warning
			case "Error":
				c.LogLevel = logging.Error
			case "Fatal":
				c.LogLevel = logging.Fatal
			default:
				c.Logger.Warning("invalid Logging param", "value", v)
			}
		},
	},
	{
		Name:   KeyLogPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.LogPath = v },
		Validate: func(c *Config) error {
			if c.LogPath == "" {
				c.LogPath = defaultLogPath
			}
			return nil
		},
	},
	{
		Name:   KeyLoop,
		Type:   typeBool,
		Update: func(c *Config, v string) { c.Loop = parseBool(KeyLoop, v, c) },
	},
	{
		Name:   KeyMetricsAddress,
		Type:   typeString,
		Update: func(c *Config, v string) { c.MetricsAddress = v },
	},
	{
		Name:   KeyMorphKernel,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.MorphKernel = parseUint(KeyMorphKernel, v, c) },
		Validate: func(c *Config) error {
			c.MorphKernel = lessThanOrEqual(KeyMorphKernel, c.MorphKernel, 0, c, defaultMorphKernel)
			return nil
		},
	},
	{
		Name:   KeyPlotPath,
		Type:   typeString,
		Update: func(c *Config, v string) { c.PlotPath = v },
	},
	{
		Name:   KeySensitivityThreshold,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SensitivityThreshold = parseRanged(KeySensitivityThreshold, v, c) },
		Validate: func(c *Config) error {
			if c.SensitivityThreshold == 0 {
				c.LogInvalidField(KeySensitivityThreshold, defaultSensitivityThreshold)
				c.SensitivityThreshold = defaultSensitivityThreshold
			}
			return inRange(c.SensitivityThreshold, MinSensitivityThreshold, MaxSensitivityThreshold)
		},
	},
	{
		Name:   KeySignalPeriod,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SignalPeriod = parseRanged(KeySignalPeriod, v, c) },
		Validate: func(c *Config) error {
			if c.SignalPeriod == 0 {
				c.LogInvalidField(KeySignalPeriod, defaultSignalPeriod)
				c.SignalPeriod = defaultSignalPeriod
			}
			return inRange(c.SignalPeriod, MinSignalPeriod, MaxSignalPeriod)
		},
	},
	{
		Name:   KeySnapshotInterval,
		Type:   typeUint,
		Update: func(c *Config, v string) { c.SnapshotInterval = parseUint(KeySnapshotInterval, v, c) },
		Validate: func(c *Config) error {
			c.SnapshotInterval = lessThanOrEqual(KeySnapshotInterval, c.SnapshotInterval, 0, c, defaultSnapshotInterval)
			return nil
		},
	},
}

func parseUint(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected unsigned int for param %s", n), "value", v)
	}
	return uint(_v)
}

// parseRanged parses a range checked unsigned value. A value that is not a
// positive integer is returned as math.MaxUint so that Validate rejects it
// rather than substituting the default.
func parseRanged(n, v string, c *Config) uint {
	_v, err := strconv.ParseUint(v, 10, 64)
	if err != nil || _v == 0 {
		c.Logger.Warning(fmt.Sprintf("expected positive int for param %s", n), "value", v)
		return math.MaxUint
	}
	return uint(_v)
}

func parseFloat(n, v string, c *Config) float64 {
	_v, err := strconv.ParseFloat(v, 64)
	if err != nil {
		c.Logger.Warning(fmt.Sprintf("expected float for param %s", n), "value", v)
	}
	return _v
}

func parseBool(n, v string, c *Config) (b bool) {
	switch strings.ToLower(v) {
	case "true":
		b = true
	case "false":
		b = false
	default:
		c.Logger.Warning(fmt.Sprintf("expect bool for param %s", n), "value", v)
	}
	return
}

func parseEnum(n, v string, enums map[string]uint8, c *Config) uint8 {
	_v, ok := enums[strings.ToLower(v)]
	if !ok {
		c.Logger.Warning(fmt.Sprintf("invalid value for %s param", n), "value", v)
		return 0xff
	}
	return _v
}

func lessThanOrEqual(n string, v, cmp uint, c *Config, def uint) uint {
	if v <= cmp {
		c.LogInvalidField(n, def)
		return def
	}
	return v
}

func inRange(v, min, max uint) error {
	if v < min || v > max {
		return fmt.Errorf("%d not in [%d, %d]: %w", v, min, max, ErrOutOfRange)
	}
	return nil
}
