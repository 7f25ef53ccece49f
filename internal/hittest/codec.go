// Package hittest finds the shape under a point by drawing every shape into
// an offscreen raster in a color that encodes its index.
package hittest

import (
	"image/color"
	"sort"
)

// NoHit is the index encoded by the background
const NoHit = -1

// maxEncoded is the largest i+1 a 24-bit color holds
const maxEncoded = 1<<24 - 1

// Encode maps index i to an opaque color. NoHit encodes as black; indices
// too large for 24 bits clamp to white and negative ones to black.
func Encode(i int) color.RGBA {
	n := i + 1
	if n < 0 {
		n = 0
	}
	if n > maxEncoded {
		return color.RGBA{R: 255, G: 255, B: 255, A: 255}
	}
	b := n / 65536
	g := (n - b*65536) / 256
	r := n - b*65536 - g*256
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 255}
}

// Decode is the inverse of Encode. Alpha is ignored.
func Decode(c color.RGBA) int {
	return int(c.R) + int(c.G)*256 + int(c.B)*65536 - 1
}

// Decoder accepts an index from a window of samples only when a quorum of
// them decode to it.
type Decoder struct {
	Quorum int
}

// DefaultDecoder wants 5 of the 9 samples of a 3x3 window to agree
var DefaultDecoder = Decoder{Quorum: 5}

// Decode returns the index at least Quorum samples agree on. Background
// samples never win, so a low quorum still finds a shape next to a large
// background run. It reports no hit when no index has a quorum.
func (d Decoder) Decode(samples []color.RGBA) (int, bool) {
	if len(samples) == 0 || d.Quorum < 1 {
		return NoHit, false
	}
	indices := make([]int, len(samples))
	for i, c := range samples {
		indices[i] = Decode(c)
	}
	sort.Ints(indices)

	run := 1
	for i := 1; i <= len(indices); i++ {
		if i < len(indices) && indices[i] == indices[i-1] {
			run++
			continue
		}
		if run >= d.Quorum && indices[i-1] != NoHit {
			return indices[i-1], true
		}
		run = 1
	}
	return NoHit, false
}
