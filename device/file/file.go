/*
DESCRIPTION
  file.go provides an implementation of the Source interface for MJPEG files.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package file provides an implementation of Source for MJPEG files.
package file

import (
	"bytes"
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"sync"
	"time"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/utils/logging"

	mjpeg "github.com/ausocean/traffic/codec/jpeg"
)

// MJPEG is a frame source reading a file holding a sequence of JPEG images.
type MJPEG struct {
	f         *os.File
	lex       *mjpeg.Lexer
	tick      *time.Ticker
	path      string
	loop      bool
	fps       uint
	isRunning bool
	log       logging.Logger
	set       bool
	mu        sync.Mutex
}

// New returns a new MJPEG source.
func New(l logging.Logger) *MJPEG { return &MJPEG{log: l} }

// NewWith returns a new MJPEG with required params provided i.e. the Set
// method does not need to be called.
func NewWith(l logging.Logger, path string, loop bool, fps uint) *MJPEG {
	return &MJPEG{log: l, path: path, loop: loop, fps: fps, set: true}
}

// Name returns the name of the device.
func (m *MJPEG) Name() string {
	return "File"
}

// Set uses the InputPath, Loop and FileFPS fields of c.
func (m *MJPEG) Set(c config.Config) error {
	m.path = c.InputPath
	m.loop = c.Loop
	m.fps = c.FileFPS
	m.set = true
	return nil
}

// Start will open the file at the configured path.
func (m *MJPEG) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	var err error
	if !m.set {
		return errors.New("MJPEG has not been set with config")
	}
	m.f, err = os.Open(m.path)
	if err != nil {
		return fmt.Errorf("could not open media file: %w", err)
	}
	m.lex = mjpeg.NewLexer(m.f, m.log)
	if m.fps != 0 {
		m.tick = time.NewTicker(time.Second / time.Duration(m.fps))
	}
	m.isRunning = true
	return nil
}

// Stop will close the file such that any further reads will fail. Stopping a
// source that is not running does nothing.
func (m *MJPEG) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil
	}
	if m.tick != nil {
		m.tick.Stop()
		m.tick = nil
	}
	err := m.f.Close()
	m.f = nil
	m.lex = nil
	m.isRunning = false
	return err
}

// Next returns the next image of the file as a frame. If Start has not been
// called, or Start has been called and Stop has since been called, an error
// is returned. At the end of the file, Next returns io.EOF unless looping,
// in which case it continues from the start of the file.
func (m *MJPEG) Next() (*frame.Frame, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.f == nil {
		return nil, errors.New("MJPEG file is closed, source not started")
	}

	img, err := m.lex.Next()
	if err == io.EOF && m.loop {
		m.log.Info("looping input file")
		// In the case that we reach end of file but loop is true, we want to
		// seek to start and keep reading from there.
		_, err = m.f.Seek(0, io.SeekStart)
		if err != nil {
			return nil, fmt.Errorf("could not seek to start of file for input loop: %w", err)
		}
		m.lex = mjpeg.NewLexer(m.f, m.log)

		// Now that we've seeked to start, let's try reading again.
		img, err = m.lex.Next()
	}
	if err == io.EOF {
		return nil, io.EOF
	}
	if err != nil {
		return nil, fmt.Errorf("could not lex image: %w", err)
	}

	decoded, err := jpeg.Decode(bytes.NewReader(img))
	if err != nil {
		return nil, fmt.Errorf("could not decode image: %w", err)
	}

	if m.tick != nil {
		<-m.tick.C
	}
	return frame.FromImage(decoded), nil
}

// IsRunning is used to determine if the MJPEG device is running.
func (m *MJPEG) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.f != nil && m.isRunning
}
