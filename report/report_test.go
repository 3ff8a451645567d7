/*
DESCRIPTION
  report_test.go provides testing for session charts and rates.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ausocean/traffic/traffic"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

var series = []traffic.Snapshot{
	{Label: "12:00:02", Frame: 60, Vehicles: 2, Buses: 0, Violations: 1},
	{Label: "12:00:04", Frame: 120, Vehicles: 4, Buses: 1, Violations: 1},
	{Label: "12:00:06", Frame: 180, Vehicles: 6, Buses: 3, Violations: 4},
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.png")
	err := Save(series, path)
	if err != nil {
		t.Fatalf("could not save chart: %v", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("could not read chart: %v", err)
	}
	if !bytes.HasPrefix(b, pngMagic) {
		t.Error("chart is not a PNG")
	}
}

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, series[:1])
	if err != nil {
		t.Fatalf("could not write chart: %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), pngMagic) {
		t.Error("chart is not a PNG")
	}

	err = Write(&buf, nil)
	if !errors.Is(err, ErrNoData) {
		t.Errorf("did not get expected error: %v", err)
	}
}

func TestRatesOf(t *testing.T) {
	tests := []struct {
		name   string
		series []traffic.Snapshot
		want   Rates
	}{
		{
			name: "empty",
		},
		{
			name:   "single",
			series: series[:1],
			want:   Rates{Intervals: 1, Vehicles: Rate{Mean: 2}, Violations: Rate{Mean: 1}},
		},
		{
			name:   "full",
			series: series,
			want: Rates{
				Intervals:  3,
				Vehicles:   Rate{Mean: 2},
				Buses:      Rate{Mean: 1, StdDev: 1},
				Violations: Rate{Mean: 4.0 / 3, StdDev: 1.5275252316519468},
			},
		},
	}

	for _, test := range tests {
		got := RatesOf(test.series)
		if !cmp.Equal(got, test.want, cmp.Comparer(func(a, b float64) bool { return a-b < 1e-9 && b-a < 1e-9 })) {
			t.Errorf("unexpected rates for %q\n%s", test.name, cmp.Diff(test.want, got))
		}
	}
}
