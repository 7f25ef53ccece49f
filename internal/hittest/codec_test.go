package hittest

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	for i := -1; i <= 1000; i++ {
		assert.Equal(t, i, Decode(Encode(i)), "index %d", i)
	}
	for _, i := range []int{65535, 65536, 1 << 20, maxEncoded - 1} {
		assert.Equal(t, i, Decode(Encode(i)), "index %d", i)
	}
}

func TestEncodeLayout(t *testing.T) {
	tests := []struct {
		name  string
		index int
		want  color.RGBA
	}{
		{name: "background", index: NoHit, want: color.RGBA{A: 255}},
		{name: "zero", index: 0, want: color.RGBA{R: 1, A: 255}},
		{name: "green carry", index: 255, want: color.RGBA{G: 1, A: 255}},
		{name: "blue carry", index: 65535, want: color.RGBA{B: 1, A: 255}},
		{name: "mixed", index: 70000, want: color.RGBA{R: 0x71, G: 0x11, B: 1, A: 255}},
		{name: "too large clamps", index: 1 << 24, want: color.RGBA{R: 255, G: 255, B: 255, A: 255}},
		{name: "negative clamps", index: -7, want: color.RGBA{A: 255}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Encode(tt.index))
		})
	}
}

func TestDecoderQuorum(t *testing.T) {
	seven := Encode(7)
	noise := []color.RGBA{Encode(1), Encode(2), Encode(3), Encode(NoHit)}

	t.Run("five of nine agree", func(t *testing.T) {
		samples := append([]color.RGBA{seven, seven, seven, seven, seven}, noise...)
		idx, ok := DefaultDecoder.Decode(samples)
		assert.True(t, ok)
		assert.Equal(t, 7, idx)
	})

	t.Run("order does not matter", func(t *testing.T) {
		samples := []color.RGBA{noise[0], seven, noise[1], seven, seven, noise[2], seven, noise[3], seven}
		idx, ok := DefaultDecoder.Decode(samples)
		assert.True(t, ok)
		assert.Equal(t, 7, idx)
	})

	t.Run("four is not enough", func(t *testing.T) {
		samples := append([]color.RGBA{seven, seven, seven, seven, Encode(8)}, noise...)
		idx, ok := DefaultDecoder.Decode(samples)
		assert.False(t, ok)
		assert.Equal(t, NoHit, idx)
	})

	t.Run("background quorum is no hit", func(t *testing.T) {
		bg := color.RGBA{}
		samples := []color.RGBA{bg, bg, bg, bg, bg, bg, seven, seven, seven}
		_, ok := DefaultDecoder.Decode(samples)
		assert.False(t, ok)
	})

	t.Run("low quorum prefers a shape over the background", func(t *testing.T) {
		bg := color.RGBA{}
		samples := []color.RGBA{bg, bg, bg, bg, bg, seven, seven, seven, Encode(2)}
		idx, ok := Decoder{Quorum: 3}.Decode(samples)
		assert.True(t, ok)
		assert.Equal(t, 7, idx)
	})

	t.Run("empty window", func(t *testing.T) {
		_, ok := DefaultDecoder.Decode(nil)
		assert.False(t, ok)
	})
}
