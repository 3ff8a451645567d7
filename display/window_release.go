//go:build !debug || !withcv
// +build !debug !withcv

/*
DESCRIPTION
  Replaces the OpenCV window for builds without the debug and withcv tags.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package display

import (
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/traffic/traffic"
)

// nopWindow shows nothing.
type nopWindow struct{}

// New returns a window that shows nothing.
func New(name string) Window { return nopWindow{} }

// Close does nothing.
func (nopWindow) Close() error { return nil }

// Show does nothing.
func (nopWindow) Show(f *frame.Frame, r *traffic.Result) {}
