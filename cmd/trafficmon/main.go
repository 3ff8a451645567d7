/*
DESCRIPTION
  trafficmon counts vehicles, buses and red signal violations in traffic
  camera video, charting and recording the counts of each video processed.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package trafficmon is a command line traffic monitor.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/device"
	"github.com/ausocean/traffic/display"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/traffic/metrics"
	"github.com/ausocean/traffic/report"
	"github.com/ausocean/traffic/store"
	"github.com/ausocean/traffic/traffic"
	"github.com/ausocean/utils/logging"
)

// Current software version.
const version = "v0.1.0"

// Logging configuration.
const (
	logPath      = "trafficmon.log"
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logSuppress  = true
)

// Flags that set config variables, by variable name.
var flagKeys = map[string]string{
	"input":       config.KeyInputPath,
	"sensitivity": config.KeySensitivityThreshold,
	"period":      config.KeySignalPeriod,
	"background":  config.KeyBackground,
	"plot":        config.KeyPlotPath,
	"db":          config.KeyDBPath,
	"metrics":     config.KeyMetricsAddress,
	"log":         config.KeyLogPath,
	"verbosity":   config.KeyLogging,
	"loop":        config.KeyLoop,
	"fps":         config.KeyFileFPS,
}

func main() {
	os.Exit(run(os.Args[1:]))
}

// run runs trafficmon with the given command line arguments and returns the
// exit code.
func run(args []string) int {
	fs := flag.NewFlagSet("trafficmon", flag.ContinueOnError)
	var (
		showVersion = fs.Bool("version", false, "show version")
		cfgPath     = fs.String("config", "", "path of TOML config file")
		watchDir    = fs.String("watch", "", "directory watched for new videos, each processed as a new session")
		framesDir   = fs.String("frames", "", "directory annotated snapshot frames are written to")
	)
	fs.String("input", "", "video file to process")
	fs.Uint("sensitivity", 0, fmt.Sprintf("minimum blob area counted as a detection (%d-%d)", config.MinSensitivityThreshold, config.MaxSensitivityThreshold))
	fs.Uint("period", 0, fmt.Sprintf("frames in each signal phase (%d-%d)", config.MinSignalPeriod, config.MaxSignalPeriod))
	fs.String("background", "", "background model: MOG, KNN or Basic")
	fs.String("plot", "", "path the chart of counts over time is written to")
	fs.String("db", "", "path of the SQLite session database")
	fs.String("metrics", "", "address Prometheus metrics are served on, e.g. :9090")
	fs.String("log", logPath, "path of the log file")
	fs.String("verbosity", "Info", "logging verbosity: Debug, Info, Warning, Error or Fatal")
	fs.Bool("loop", false, "loop the input video")
	fs.Uint("fps", 0, "rate at which frames are read, 0 for as fast as possible")
	err := fs.Parse(args)
	if err != nil {
		return 2
	}

	if *showVersion {
		fmt.Println(version)
		return 0
	}

	vars := make(map[string]string)
	if *cfgPath != "" {
		vars, err = config.Load(*cfgPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	// Flags given on the command line take precedence over the config file.
	fs.Visit(func(f *flag.Flag) {
		if k, ok := flagKeys[f.Name]; ok {
			vars[k] = f.Value.String()
		}
	})

	path := logPath
	if p := vars[config.KeyLogPath]; p != "" {
		path = p
	}

	// Create lumberjack logger to handle logging to file.
	fileLog := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	defer fileLog.Close()

	log := logging.New(logging.Info, io.MultiWriter(fileLog, os.Stderr), logSuppress)

	cfg := config.Config{Logger: log}
	cfg.Update(vars)
	log.SetLevel(cfg.LogLevel)
	log.Info("starting trafficmon", "version", version)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := &monitor{log: log, framesDir: *framesDir, window: display.New("trafficmon")}
	defer m.window.Close()

	if cfg.MetricsAddress != "" {
		m.metrics = metrics.New()
		go func() {
			err := m.metrics.Serve(ctx, cfg.MetricsAddress, log)
			if err != nil {
				log.Error("metrics server failed", "error", err.Error())
			}
		}()
	}

	if cfg.DBPath != "" {
		db, err := store.Open(cfg.DBPath)
		if err != nil {
			log.Error("could not open database", "error", err.Error())
			return 1
		}
		defer db.Close()
		m.db = db
	}

	if *watchDir != "" {
		err := m.watch(ctx, *watchDir, cfg)
		if err != nil {
			log.Error("watch failed", "error", err.Error())
			return 1
		}
		return 0
	}

	_, err = m.process(ctx, cfg)
	if err != nil {
		log.Error("processing failed", "error", err.Error())
		return 1
	}
	return 0
}

// monitor holds the outputs shared by the sessions of a run of trafficmon.
type monitor struct {
	log       logging.Logger
	db        *store.DB
	metrics   *metrics.Metrics
	window    display.Window
	framesDir string
}

// process runs a session over the video at c.InputPath and records its
// results.
func (m *monitor) process(ctx context.Context, c config.Config) (traffic.Summary, error) {
	s, err := traffic.New(c)
	if err != nil {
		return traffic.Summary{}, fmt.Errorf("could not start session: %w", err)
	}
	c = s.Config()

	src, err := device.Open(c)
	if err != nil {
		_, eerr := s.End()
		if eerr != nil {
			m.log.Error("could not end session", "error", eerr.Error())
		}
		return traffic.Summary{}, fmt.Errorf("could not open input: %w", err)
	}

	if m.db != nil {
		err = m.db.StartSession(s.ID(), c.SensitivityThreshold, c.SignalPeriod, s.Started())
		if err != nil {
			m.log.Error("could not record session start", "error", err.Error())
		}
	}

	last := time.Now()
	sum, err := traffic.Run(ctx, src, s, func(f *frame.Frame, r *traffic.Result) error {
		now := time.Now()
		if m.metrics != nil {
			m.metrics.Observe(r, now.Sub(last))
		}
		last = now

		m.window.Show(f, r)

		if r.Snapshot == nil {
			return nil
		}
		m.log.Info("snapshot", "time", r.Snapshot.Label, "frame", r.Frame, "vehicles", r.Vehicles, "buses", r.Buses, "violations", r.Violations, "signal", r.Signal.String(), "density", r.Density.String())
		if m.db != nil {
			err := m.db.AddSnapshot(s.ID(), *r.Snapshot)
			if err != nil {
				m.log.Error("could not record snapshot", "error", err.Error())
			}
		}
		if m.framesDir != "" {
			err := writeFrame(filepath.Join(m.framesDir, fmt.Sprintf("%s-%06d.jpg", s.ID(), r.Frame)), display.Annotate(f, r))
			if err != nil {
				m.log.Warning("could not write frame", "error", err.Error())
			}
		}
		return nil
	})

	rates := report.RatesOf(sum.Series)
	m.log.Info("session summary",
		"input", c.InputPath,
		"frames", sum.Counters.Frame,
		"vehicles", sum.Counters.Vehicles,
		"buses", sum.Counters.Buses,
		"violations", sum.Counters.Violations,
		"density", traffic.DensityOf(sum.Counters.Total()).String(),
		"vehiclesPerInterval", rates.Vehicles.Mean,
		"busesPerInterval", rates.Buses.Mean,
		"violationsPerInterval", rates.Violations.Mean,
	)

	if c.PlotPath != "" && len(sum.Series) != 0 {
		perr := report.Save(sum.Series, c.PlotPath)
		if perr != nil {
			m.log.Error("could not save plot", "error", perr.Error())
		} else {
			m.log.Info("plot saved", "path", c.PlotPath)
		}
	}

	if m.db != nil {
		derr := m.db.EndSession(sum)
		if derr != nil {
			m.log.Error("could not record session end", "error", derr.Error())
		}
	}

	return sum, err
}

// writeFrame writes f to path as a JPEG image.
func writeFrame(path string, f *frame.Frame) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	err = jpeg.Encode(file, f.RGBA(), nil)
	if err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// sessionPlotPath returns the plot path for a session over input when many
// videos are processed, e.g. plot.png becomes plot-input.png.
func sessionPlotPath(plot, input string) string {
	if plot == "" {
		return ""
	}
	ext := filepath.Ext(plot)
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	return strings.TrimSuffix(plot, ext) + "-" + base + ext
}
