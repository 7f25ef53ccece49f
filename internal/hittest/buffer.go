package hittest

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"

	"gocinema/internal/geom"
)

// circleK is the cubic control distance approximating a quarter circle
const circleK = 0.5522847498

// Buffer is an offscreen pick raster. Shapes are drawn in the color of
// their slot, their position in the draw queue; Pick maps a decoded slot
// back to the row it was drawn for.
type Buffer struct {
	img     *image.RGBA
	ras     *vector.Rasterizer
	decoder Decoder
	window  int
	queue   []int
}

// Option configures a Buffer
type Option func(*Buffer)

// WithDecoder sets the quorum decoder
func WithDecoder(d Decoder) Option {
	return func(b *Buffer) { b.decoder = d }
}

// WithWindow sets the odd side length of the sampled window
func WithWindow(n int) Option {
	return func(b *Buffer) {
		if n > 0 && n%2 == 1 {
			b.window = n
		}
	}
}

// NewBuffer creates a cleared w x h raster
func NewBuffer(w, h int, opts ...Option) *Buffer {
	b := &Buffer{decoder: DefaultDecoder, window: 3}
	for _, opt := range opts {
		opt(b)
	}
	b.Resize(w, h)
	return b
}

// Resize replaces the raster with a cleared one of the new size
func (b *Buffer) Resize(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	ras := vector.NewRasterizer(w, h)
	ras.DrawOp = draw.Over
	b.img, b.ras, b.queue = img, ras, nil
}

// Bounds returns the raster size
func (b *Buffer) Bounds() image.Rectangle { return b.img.Bounds() }

// Image exposes the raster, mostly for debugging
func (b *Buffer) Image() *image.RGBA { return b.img }

// Reset clears the raster to the background and installs the draw queue
func (b *Buffer) Reset(queue []int) {
	draw.Draw(b.img, b.img.Bounds(), image.Transparent, image.Point{}, draw.Src)
	b.queue = append([]int(nil), queue...)
}

// Queue returns the rows in draw order
func (b *Buffer) Queue() []int { return append([]int(nil), b.queue...) }

// StrokePath strokes path with the given width in slot's color. Cubics are
// flattened into short straight pieces and joints are rounded.
func (b *Buffer) StrokePath(path geom.Path, width float64, slot int) {
	if path.HasNaN() || width <= 0 {
		return
	}
	hw := width / 2
	b.begin()
	for _, line := range path.Polylines(8) {
		for i := 1; i < len(line); i++ {
			b.quad(line[i-1], line[i], hw)
		}
		if len(line) > 2 {
			for _, pt := range line[1 : len(line)-1] {
				b.circle(pt, hw)
			}
		}
	}
	b.paint(slot)
}

// FillCircle fills a disc in slot's color
func (b *Buffer) FillCircle(center geom.Point, radius float64, slot int) {
	if math.IsNaN(center.X) || math.IsNaN(center.Y) || radius <= 0 {
		return
	}
	b.begin()
	b.circle(center, radius)
	b.paint(slot)
}

func (b *Buffer) begin() {
	b.ras.Reset(b.img.Bounds().Dx(), b.img.Bounds().Dy())
}

// paint composites the accumulated shape over the raster. Covered pixels
// take the slot color exactly; only the anti-aliased rim is blended.
func (b *Buffer) paint(slot int) {
	b.ras.Draw(b.img, b.img.Bounds(), image.NewUniform(Encode(slot)), image.Point{})
}

// quad adds the rectangle of half width hw around segment pq. All subpaths
// share one winding direction so overlaps never cancel out.
func (b *Buffer) quad(p, q geom.Point, hw float64) {
	dx, dy := q.X-p.X, q.Y-p.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	nx, ny := -dy/length*hw, dx/length*hw

	b.ras.MoveTo(float32(p.X+nx), float32(p.Y+ny))
	b.ras.LineTo(float32(p.X-nx), float32(p.Y-ny))
	b.ras.LineTo(float32(q.X-nx), float32(q.Y-ny))
	b.ras.LineTo(float32(q.X+nx), float32(q.Y+ny))
	b.ras.ClosePath()
}

func (b *Buffer) circle(c geom.Point, r float64) {
	k := r * circleK
	x, y := float32(c.X), float32(c.Y)
	rf, kf := float32(r), float32(k)

	b.ras.MoveTo(x+rf, y)
	b.ras.CubeTo(x+rf, y+kf, x+kf, y+rf, x, y+rf)
	b.ras.CubeTo(x-kf, y+rf, x-rf, y+kf, x-rf, y)
	b.ras.CubeTo(x-rf, y-kf, x-kf, y-rf, x, y-rf)
	b.ras.CubeTo(x+kf, y-rf, x+rf, y-kf, x+rf, y)
	b.ras.ClosePath()
}

// Samples returns the window of pixels centered on (x, y). Pixels outside
// the raster read as background.
func (b *Buffer) Samples(x, y int) []color.RGBA {
	half := b.window / 2
	out := make([]color.RGBA, 0, b.window*b.window)
	bounds := b.img.Bounds()
	for j := y - half; j <= y+half; j++ {
		for i := x - half; i <= x+half; i++ {
			if !image.Pt(i, j).In(bounds) {
				out = append(out, color.RGBA{})
				continue
			}
			out = append(out, b.img.RGBAAt(i, j))
		}
	}
	return out
}

// PickSlot decodes the window at (x, y) into a draw queue position
func (b *Buffer) PickSlot(x, y int) (int, bool) {
	return b.decoder.Decode(b.Samples(x, y))
}

// Pick returns the row drawn under (x, y)
func (b *Buffer) Pick(x, y int) (int, bool) {
	slot, ok := b.PickSlot(x, y)
	if !ok || slot < 0 || slot >= len(b.queue) {
		return NoHit, false
	}
	return b.queue[slot], true
}
