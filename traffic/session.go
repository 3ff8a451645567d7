/*
NAME
  session.go

DESCRIPTION
  session.go provides Session, which classifies the blobs found in each frame
  of a video, maintains the running counts of vehicles, buses and signal
  violations, and records a time series of those counts.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package traffic provides the detection core of the traffic monitor: a
// session that turns video frames into vehicle, bus and violation counts.
package traffic

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/traffic/motion"
	"github.com/ausocean/utils/logging"
)

// Layout of snapshot time labels.
const timeLabel = "15:04:05"

// Session errors.
var (
	ErrSessionEnded = errors.New("session has ended")
	errNoLogger     = errors.New("config has no logger")
)

// Counters are the running totals of a session. Vehicles, Buses and
// Violations never decrease and Frame increases by one per processed frame.
type Counters struct {
	Vehicles   int
	Buses      int
	Violations int
	Frame      int
}

// Total returns the number of vehicles and buses detected so far.
func (c Counters) Total() int { return c.Vehicles + c.Buses }

// Detections are the counts contributed by a single frame.
type Detections struct {
	Vehicles   int
	Buses      int
	Violations int
}

// Annotation describes a detection to be drawn by a renderer.
type Annotation struct {
	Rect     image.Rectangle
	Area     float64
	Category Category
	Color    color.RGBA
}

// Snapshot is one entry of a session's time series.
type Snapshot struct {
	Time       time.Time
	Label      string // Wall clock time formatted as hh:mm:ss.
	Frame      int
	Vehicles   int
	Buses      int
	Violations int
}

// Result is the outcome of processing one frame.
type Result struct {
	Counters
	Signal      Signal
	Density     Density
	Detected    Detections
	Annotations []Annotation
	Snapshot    *Snapshot // Non-nil if this frame added to the time series.
}

// Summary describes a finished session.
type Summary struct {
	ID                   uuid.UUID
	SensitivityThreshold uint
	SignalPeriod         uint
	Counters             Counters
	Series               []Snapshot
	Started              time.Time
	Ended                time.Time
}

// Option is a functional option for New.
type Option func(*Session) error

// WithBackgroundModel sets the background model used by the session in place
// of the one selected by the config.
func WithBackgroundModel(m motion.BackgroundModel) Option {
	return func(s *Session) error {
		if m == nil {
			return errors.New("nil background model")
		}
		s.bg = m
		return nil
	}
}

// WithExtractor sets the blob extractor used by the session in place of the
// one selected by the config.
func WithExtractor(e motion.Extractor) Option {
	return func(s *Session) error {
		if e == nil {
			return errors.New("nil extractor")
		}
		s.ext = e
		return nil
	}
}

// WithClock sets the function used to timestamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Session) error {
		if now == nil {
			return errors.New("nil clock")
		}
		s.now = now
		return nil
	}
}

// Session holds the state of one run over a single video. A Session is not
// safe for concurrent use.
type Session struct {
	id  uuid.UUID
	cfg config.Config
	log logging.Logger
	now func() time.Time

	bg  motion.BackgroundModel
	ext motion.Extractor

	counters Counters
	series   []Snapshot
	started  time.Time
	ended    time.Time
}

// New validates c and starts a new session. Nothing is allocated if c is
// invalid.
func New(c config.Config, opts ...Option) (*Session, error) {
	if c.Logger == nil {
		return nil, errNoLogger
	}
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("could not validate config: %w", err)
	}

	s := &Session{id: uuid.New(), cfg: c, log: c.Logger, now: time.Now}
	for _, opt := range opts {
		err := opt(s)
		if err != nil {
			return nil, err
		}
	}

	if s.bg == nil {
		s.bg, err = motion.NewBackgroundModel(c)
		if err != nil {
			return nil, fmt.Errorf("could not create background model: %w", err)
		}
	}
	if s.ext == nil {
		s.ext = motion.NewExtractor(c)
	}

	s.started = s.now()
	s.log.Info("session started", "id", s.id.String(), "sensitivity", c.SensitivityThreshold, "period", c.SignalPeriod)
	return s, nil
}

// ID returns the session's unique identifier.
func (s *Session) ID() uuid.UUID { return s.id }

// Config returns a copy of the session's validated config.
func (s *Session) Config() config.Config { return s.cfg }

// Started returns the time the session started.
func (s *Session) Started() time.Time { return s.started }

// Counters returns the current running totals.
func (s *Session) Counters() Counters { return s.counters }

// Series returns a copy of the time series recorded so far.
func (s *Session) Series() []Snapshot { return slices.Clone(s.series) }

// Process runs the detection pipeline on f and updates the session's counters.
// A frame that fails validation is rejected with an error wrapping
// frame.ErrMalformed and leaves the counters untouched; counters are only
// updated once all of a frame's blobs have been classified.
func (s *Session) Process(f *frame.Frame) (*Result, error) {
	if !s.ended.IsZero() {
		return nil, ErrSessionEnded
	}

	err := f.Validate()
	if err != nil {
		return nil, fmt.Errorf("frame rejected: %w", err)
	}

	mask, err := s.bg.Update(f)
	if err != nil {
		return nil, fmt.Errorf("could not update background model: %w", err)
	}

	idx := s.counters.Frame + 1
	sig := SignalAt(idx, int(s.cfg.SignalPeriod))

	var (
		det Detections
		ann []Annotation
	)
	for b := range s.ext.Extract(mask) {
		if b.Area <= float64(s.cfg.SensitivityThreshold) {
			continue
		}

		cat := Classify(b.Area)
		switch cat {
		case Vehicle:
			det.Vehicles++
		case Bus:
			det.Buses++
		}
		if sig == Red {
			det.Violations++
		}
		ann = append(ann, Annotation{Rect: b.Rect, Area: b.Area, Category: cat, Color: cat.Color()})
	}

	s.counters.Frame = idx
	s.counters.Vehicles += det.Vehicles
	s.counters.Buses += det.Buses
	s.counters.Violations += det.Violations

	r := &Result{
		Counters:    s.counters,
		Signal:      sig,
		Density:     DensityOf(s.counters.Total()),
		Detected:    det,
		Annotations: ann,
	}

	if idx%int(s.cfg.SnapshotInterval) == 0 {
		now := s.now()
		snap := Snapshot{
			Time:       now,
			Label:      now.Format(timeLabel),
			Frame:      idx,
			Vehicles:   s.counters.Vehicles,
			Buses:      s.counters.Buses,
			Violations: s.counters.Violations,
		}
		s.series = append(s.series, snap)
		r.Snapshot = &snap
		s.log.Debug("snapshot recorded", "frame", idx, "vehicles", snap.Vehicles, "buses", snap.Buses, "violations", snap.Violations)
	}

	return r, nil
}

// End finishes the session, frees the resources of its background model and
// extractor, and returns a summary. Calling End again returns the same
// summary.
func (s *Session) End() (Summary, error) {
	if !s.ended.IsZero() {
		return s.summary(), nil
	}
	s.ended = s.now()

	var errs []error
	err := s.bg.Close()
	if err != nil {
		errs = append(errs, fmt.Errorf("could not close background model: %w", err))
	}
	if c, ok := s.ext.(io.Closer); ok {
		err = c.Close()
		if err != nil {
			errs = append(errs, fmt.Errorf("could not close extractor: %w", err))
		}
	}

	s.log.Info("session ended",
		"id", s.id.String(),
		"frames", s.counters.Frame,
		"vehicles", s.counters.Vehicles,
		"buses", s.counters.Buses,
		"violations", s.counters.Violations,
	)
	return s.summary(), errors.Join(errs...)
}

func (s *Session) summary() Summary {
	return Summary{
		ID:                   s.id,
		SensitivityThreshold: s.cfg.SensitivityThreshold,
		SignalPeriod:         s.cfg.SignalPeriod,
		Counters:             s.counters,
		Series:               slices.Clone(s.series),
		Started:              s.started,
		Ended:                s.ended,
	}
}
