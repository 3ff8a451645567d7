/*
DESCRIPTION
  run.go provides Run, which drives a session with the frames of a source
  until the source is exhausted or the run is cancelled.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package traffic

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ausocean/traffic/frame"
)

// Source is a started source of frames. Next returns io.EOF once the input is
// exhausted.
type Source interface {
	Next() (*frame.Frame, error)
	Stop() error
}

// Run passes the frames of src through s, calling fn, if non-nil, with each
// frame and its result. Run owns src and s: src is stopped and s is ended
// before Run returns, whatever the outcome.
//
// Cancelling ctx stops the run at the next frame boundary. Cancellation and
// exhaustion of the source are normal ends and do not return an error.
func Run(ctx context.Context, src Source, s *Session, fn func(*frame.Frame, *Result) error) (Summary, error) {
	runErr := run(ctx, src, s, fn)

	err := src.Stop()
	if err != nil {
		s.log.Error("could not stop source", "error", err.Error())
		if runErr == nil {
			runErr = fmt.Errorf("could not stop source: %w", err)
		}
	}

	sum, err := s.End()
	if err != nil && runErr == nil {
		runErr = fmt.Errorf("could not end session: %w", err)
	}
	return sum, runErr
}

func run(ctx context.Context, src Source, s *Session, fn func(*frame.Frame, *Result) error) error {
	for {
		select {
		case <-ctx.Done():
			s.log.Info("run stopped", "frame", s.counters.Frame)
			return nil
		default:
		}

		f, err := src.Next()
		if errors.Is(err, io.EOF) {
			s.log.Info("input exhausted", "frame", s.counters.Frame)
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not read frame: %w", err)
		}

		r, err := s.Process(f)
		if err != nil {
			return fmt.Errorf("could not process frame %d: %w", s.counters.Frame+1, err)
		}

		if fn == nil {
			continue
		}
		err = fn(f, r)
		if err != nil {
			return err
		}
	}
}
