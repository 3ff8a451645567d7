/*
DESCRIPTION
  device_test.go tests source selection and opening.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package device

import (
	"bytes"
	"image"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/ausocean/traffic/config"
	"github.com/ausocean/utils/logging"
)

func TestNew(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "clip.mjpeg", want: "File"},
		{path: "CLIP.MJPG", want: "File"},
		{path: "dir/clip.jpg", want: "File"},
		{path: "traffic.mp4", want: "Video"},
		{path: "traffic.avi", want: "Video"},
		{path: "noext", want: "Video"},
	}

	for _, test := range tests {
		got := New(test.path, (*logging.TestLogger)(t)).Name()
		if got != test.want {
			t.Errorf("unexpected source for %q: got %s want %s", test.path, got, test.want)
		}
	}
}

func TestOpen(t *testing.T) {
	log := (*logging.TestLogger)(t)

	_, err := Open(config.Config{Logger: log})
	if err == nil {
		t.Error("expected error for empty input path")
	}

	_, err = Open(config.Config{Logger: log, InputPath: filepath.Join(t.TempDir(), "missing.mp4")})
	if err == nil {
		t.Error("expected error for missing video")
	}

	var buf bytes.Buffer
	err = jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 64, 36)), nil)
	if err != nil {
		t.Fatalf("could not encode image: %v", err)
	}
	path := filepath.Join(t.TempDir(), "clip.mjpeg")
	err = os.WriteFile(path, buf.Bytes(), 0o644)
	if err != nil {
		t.Fatalf("could not write clip: %v", err)
	}

	s, err := Open(config.Config{Logger: log, InputPath: path})
	if err != nil {
		t.Fatalf("could not open source: %v", err)
	}
	if !s.IsRunning() {
		t.Error("source not running after open")
	}

	_, err = s.Next()
	if err != nil {
		t.Errorf("did not expect error: %v", err)
	}
	_, err = s.Next()
	if err != io.EOF {
		t.Errorf("did not get expected EOF: %v", err)
	}

	err = s.Stop()
	if err != nil {
		t.Errorf("could not stop source: %v", err)
	}
}
