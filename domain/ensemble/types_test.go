package ensemble

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNumber(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
		ok   bool
	}{
		{name: "integer", text: "3", want: 3, ok: true},
		{name: "float", text: "-2.5e3", want: -2500, ok: true},
		{name: "nan", text: "NaN", want: math.NaN(), ok: true},
		{name: "lower nan", text: "nan", want: math.NaN(), ok: true},
		{name: "empty", text: "", ok: false},
		{name: "text", text: "red", ok: false},
		{name: "inf", text: "inf", ok: false},
		{name: "signed infinity", text: "+Infinity", ok: false},
		{name: "overflow", text: "1e400", ok: false},
		{name: "hex float", text: "0x1p3", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseNumber(tt.text)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			if math.IsNaN(tt.want) {
				assert.True(t, math.IsNaN(got))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}
