/*
DESCRIPTION
  file_test.go tests the MJPEG file source.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package file

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/traffic/frame"
	"github.com/ausocean/utils/logging"
)

// writeMJPEG writes n solid 320x180 images to a file in a temporary directory
// and returns its path.
func writeMJPEG(t *testing.T, n int) string {
	t.Helper()
	var buf bytes.Buffer
	for i := 0; i < n; i++ {
		img := image.NewRGBA(image.Rect(0, 0, 320, 180))
		draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{R: 200, G: 40, B: 40, A: 0xff}}, image.Point{}, draw.Src)
		err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95})
		if err != nil {
			t.Fatalf("could not encode image: %v", err)
		}
	}
	path := filepath.Join(t.TempDir(), "clip.mjpeg")
	err := os.WriteFile(path, buf.Bytes(), 0o644)
	if err != nil {
		t.Fatalf("could not write clip: %v", err)
	}
	return path
}

func TestNext(t *testing.T) {
	d := New((*logging.TestLogger)(t))
	err := d.Set(config.Config{InputPath: writeMJPEG(t, 3)})
	if err != nil {
		t.Fatalf("could not set device: %v", err)
	}

	err = d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}
	defer d.Stop()

	for i := 0; i < 3; i++ {
		f, err := d.Next()
		if err != nil {
			t.Fatalf("did not expect error for frame %d: %v", i, err)
		}
		err = f.Validate()
		if err != nil {
			t.Fatalf("invalid frame %d: %v", i, err)
		}
		c := f.At(frame.Width/2, frame.Height/2)
		if c.R < 150 || c.G > 90 || c.B > 90 {
			t.Errorf("unexpected colour for frame %d: %v", i, c)
		}
	}

	_, err = d.Next()
	if err != io.EOF {
		t.Errorf("did not get expected EOF: %v", err)
	}
}

func TestLoop(t *testing.T) {
	d := NewWith((*logging.TestLogger)(t), writeMJPEG(t, 2), true, 0)
	err := d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}
	defer d.Stop()

	for i := 0; i < 7; i++ {
		_, err := d.Next()
		if err != nil {
			t.Fatalf("did not expect error for frame %d: %v", i, err)
		}
	}
}

func TestPacing(t *testing.T) {
	const fps = 50
	d := NewWith((*logging.TestLogger)(t), writeMJPEG(t, 5), false, fps)
	err := d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}
	defer d.Stop()

	start := time.Now()
	for i := 0; i < 5; i++ {
		_, err := d.Next()
		if err != nil {
			t.Fatalf("did not expect error for frame %d: %v", i, err)
		}
	}
	if d := time.Since(start); d < 4*time.Second/fps {
		t.Errorf("frames not paced: 5 frames in %v", d)
	}
}

func TestIsRunning(t *testing.T) {
	d := NewWith((*logging.TestLogger)(t), writeMJPEG(t, 1), false, 0)

	_, err := d.Next()
	if err == nil {
		t.Error("expected error reading from source that has not started")
	}

	err = d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}

	if !d.IsRunning() {
		t.Error("device isn't running, when it should be")
	}

	err = d.Stop()
	if err != nil {
		t.Error(err.Error())
	}

	if d.IsRunning() {
		t.Error("device is running, when it should not be")
	}

	err = d.Stop()
	if err != nil {
		t.Errorf("did not expect error stopping twice: %v", err)
	}
}

func TestBadInput(t *testing.T) {
	d := New((*logging.TestLogger)(t))
	err := d.Start()
	if err == nil {
		t.Error("expected error starting unset source")
	}

	path := filepath.Join(t.TempDir(), "bad.mjpeg")
	err = os.WriteFile(path, []byte{0xff, 0xd8, 'n', 'o', 't', 0xff, 0xd9}, 0o644)
	if err != nil {
		t.Fatalf("could not write file: %v", err)
	}
	d = NewWith((*logging.TestLogger)(t), path, false, 0)
	err = d.Start()
	if err != nil {
		t.Fatalf("could not start device %v", err)
	}
	defer d.Stop()

	_, err = d.Next()
	if err == nil || errors.Is(err, io.EOF) {
		t.Errorf("expected decode error, got: %v", err)
	}
}
