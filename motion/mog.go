/*
DESCRIPTION
  A background model that uses the adaptive Mixture of Gaussians method (MoG)
  to determine what is background and what is foreground. Each pixel is
  described by a small, weighted set of Gaussian modes whose number adapts to
  the scene.

AUTHORS
  Scott Barnard <scott@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package motion

import (
	"image"

	"github.com/ausocean/traffic/frame"
)

// MOG model constants. These match the defaults of OpenCV's
// BackgroundSubtractorMOG2 so that both builds behave alike.
const (
	mogModes     = 5    // Maximum number of modes per pixel.
	mogBgRatio   = 0.9  // Weight of the modes that make up the background.
	mogGenThresh = 9.0  // Squared distance, in variances, for a sample to match a mode.
	mogVarInit   = 15.0 // Variance of a new mode.
	mogVarMin    = 4.0  // Minimum mode variance.
	mogVarMax    = 75.0 // Maximum mode variance.
	mogCT        = 0.05 // Complexity reduction prior.
	foreground   = 0xff // Mask value of a foreground pixel.
)

// MOG is a background model using the adaptive Mixture of Gaussians method.
// Its memory use is fixed by the frame size.
type MOG struct {
	history int     // Number of frames after which the learning rate is constant.
	thresh  float32 // Squared distance, in variances, beyond which a pixel is foreground.
	n       int     // Frames seen, capped at history.

	modes    []uint8   // Modes in use per pixel.
	weight   []float32 // Mode weights, mogModes per pixel, heaviest first.
	variance []float32 // Mode variances, mogModes per pixel.
	mean     []float32 // Mode means, mogModes*frame.Channels per pixel.
}

// NewMOG returns a new MOG model with the given history length and variance
// threshold.
func NewMOG(history int, threshold float64) *MOG {
	const pixels = frame.Width * frame.Height
	if history < 1 {
		history = 1
	}
	return &MOG{
		history:  history,
		thresh:   float32(threshold),
		modes:    make([]uint8, pixels),
		weight:   make([]float32, pixels*mogModes),
		variance: make([]float32, pixels*mogModes),
		mean:     make([]float32, pixels*mogModes*frame.Channels),
	}
}

// Close implements BackgroundModel. MOG holds no external resources.
func (m *MOG) Close() error { return nil }

// Update implements BackgroundModel.
func (m *MOG) Update(f *frame.Frame) (*image.Gray, error) {
	err := f.Validate()
	if err != nil {
		return nil, err
	}

	if m.n < m.history {
		m.n++
	}
	lr := 2 * m.n
	if lr > m.history {
		lr = m.history
	}
	alpha := 1 / float32(lr)

	mask := image.NewGray(f.Bounds())
	for p := range m.modes {
		px := f.Pix[p*frame.Channels : (p+1)*frame.Channels]
		if !m.apply(p, px, alpha) {
			mask.Pix[p] = foreground
		}
	}
	return mask, nil
}

// apply updates the modes of pixel p with the sample px and reports whether
// the sample is background.
func (m *MOG) apply(p int, px []uint8, alpha float32) bool {
	w := m.weight[p*mogModes : (p+1)*mogModes]
	v := m.variance[p*mogModes : (p+1)*mogModes]
	mu := m.mean[p*mogModes*frame.Channels : (p+1)*mogModes*frame.Channels]
	b, g, r := float32(px[0]), float32(px[1]), float32(px[2])
	alpha1 := 1 - alpha
	prune := -alpha * mogCT

	var (
		fits, background bool
		total            float32
	)

	n := int(m.modes[p])
	kept := n
	for k := 0; k < n; k++ {
		weight := alpha1*w[k] + prune
		at := k

		if !fits {
			mk := mu[k*3 : k*3+3]
			d0, d1, d2 := mk[0]-b, mk[1]-g, mk[2]-r
			dist2 := d0*d0 + d1*d1 + d2*d2

			if total < mogBgRatio && dist2 < m.thresh*v[k] {
				background = true
			}

			if dist2 < mogGenThresh*v[k] {
				fits = true
				weight += alpha
				rate := alpha / weight
				mk[0] -= rate * d0
				mk[1] -= rate * d1
				mk[2] -= rate * d2
				nv := v[k] + rate*(dist2-v[k])
				switch {
				case nv < mogVarMin:
					nv = mogVarMin
				case nv > mogVarMax:
					nv = mogVarMax
				}
				v[k] = nv

				// Only the matched mode got heavier, so move it up past
				// any lighter modes.
				for ; at > 0 && weight >= w[at-1]; at-- {
					swapModes(w, v, mu, at, at-1)
				}
			}
		}

		if weight < -prune {
			weight = 0
			kept--
		}
		w[at] = weight
		total += weight
	}

	if total > 0 {
		for k := 0; k < n; k++ {
			w[k] /= total
		}
	}
	n = kept

	if !fits {
		// Replace the weakest mode, or add one if there is room.
		k := mogModes - 1
		if n < mogModes {
			k = n
			n++
		}
		if n == 1 {
			w[k] = 1
		} else {
			w[k] = alpha
			for i := 0; i < n-1; i++ {
				w[i] *= alpha1
			}
		}
		mu[k*3], mu[k*3+1], mu[k*3+2] = b, g, r
		v[k] = mogVarInit

		for ; k > 0 && alpha >= w[k-1]; k-- {
			swapModes(w, v, mu, k, k-1)
		}
	}

	m.modes[p] = uint8(n)
	return background
}

func swapModes(w, v, mu []float32, i, j int) {
	w[i], w[j] = w[j], w[i]
	v[i], v[j] = v[j], v[i]
	for c := 0; c < frame.Channels; c++ {
		mu[i*3+c], mu[j*3+c] = mu[j*3+c], mu[i*3+c]
	}
}
