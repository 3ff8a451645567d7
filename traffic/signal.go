/*
DESCRIPTION
  signal.go provides the simulated traffic signal, the density label and the
  size based classification of blobs.

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package traffic

import "image/color"

// Signal is the state of the simulated traffic light.
type Signal int

const (
	Green Signal = iota
	Red
)

func (s Signal) String() string {
	switch s {
	case Green:
		return "GREEN"
	case Red:
		return "RED"
	default:
		return "UNKNOWN"
	}
}

// SignalAt returns the signal state at the given frame index when each phase
// lasts period frames. The cycle starts green at frame 0.
func SignalAt(frame, period int) Signal {
	if frame%(2*period) < period {
		return Green
	}
	return Red
}

// Density is a coarse occupancy label.
type Density int

const (
	Low Density = iota
	Medium
	High
)

// Density thresholds on the cumulative number of detections.
const (
	mediumDensity = 10
	highDensity   = 30
)

func (d Density) String() string {
	switch d {
	case Low:
		return "LOW"
	case Medium:
		return "MEDIUM"
	case High:
		return "HIGH"
	default:
		return "UNKNOWN"
	}
}

// DensityOf returns the density label for a cumulative detection total.
func DensityOf(total int) Density {
	switch {
	case total < mediumDensity:
		return Low
	case total < highDensity:
		return Medium
	default:
		return High
	}
}

// Category is the class assigned to a detected blob.
type Category int

const (
	Vehicle Category = iota
	Bus
)

// BusArea is the blob area in pixels at and above which a detection is a bus.
// It does not depend on the sensitivity threshold.
const BusArea = 3000

// Classify returns the category of a blob with the given area.
func Classify(area float64) Category {
	if area < BusArea {
		return Vehicle
	}
	return Bus
}

func (c Category) String() string {
	switch c {
	case Vehicle:
		return "vehicle"
	case Bus:
		return "bus"
	default:
		return "unknown"
	}
}

// Color returns the outline colour used to draw detections of category c.
func (c Category) Color() color.RGBA {
	if c == Bus {
		return color.RGBA{B: 0xff, A: 0xff}
	}
	return color.RGBA{G: 0xff, A: 0xff}
}
