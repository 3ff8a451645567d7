/*
DESCRIPTION
  watch.go provides watching of a directory for new videos, each of which is
  processed as a new session.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ausocean/traffic/config"
)

// Time a new file's size must be unchanged before it is processed.
const settleTime = time.Second

// Extensions of files processed when watching.
var videoExts = map[string]bool{
	".mjpeg": true,
	".mjpg":  true,
	".mp4":   true,
	".avi":   true,
	".mkv":   true,
	".mov":   true,
}

func isVideo(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// watch processes each video created in dir until ctx is cancelled. Videos
// are processed one at a time in the order they appear.
func (m *monitor) watch(ctx context.Context, dir string, c config.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("could not create watcher: %w", err)
	}
	defer w.Close()

	err = w.Add(dir)
	if err != nil {
		return fmt.Errorf("could not watch %s: %w", dir, err)
	}
	m.log.Info("watching for videos", "dir", dir)

	for {
		select {
		case <-ctx.Done():
			m.log.Info("stopped watching", "dir", dir)
			return nil

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			m.log.Warning("watch error", "error", err.Error())

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Create) || !isVideo(ev.Name) {
				continue
			}

			err := settle(ctx, ev.Name)
			if err != nil {
				m.log.Warning("skipping video", "path", ev.Name, "error", err.Error())
				continue
			}

			vc := c
			vc.InputPath = ev.Name
			vc.Loop = false
			vc.PlotPath = sessionPlotPath(c.PlotPath, ev.Name)
			m.log.Info("new video", "path", ev.Name)
			_, err = m.process(ctx, vc)
			if err != nil {
				m.log.Error("could not process video", "path", ev.Name, "error", err.Error())
			}
		}
	}
}

// settle waits until the file at path has stopped growing.
func settle(ctx context.Context, path string) error {
	var last int64 = -1
	for {
		fi, err := os.Stat(path)
		if err != nil {
			return err
		}
		if fi.Size() == last && last > 0 {
			return nil
		}
		last = fi.Size()

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(settleTime):
		}
	}
}
