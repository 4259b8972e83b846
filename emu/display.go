package emu

// Display dimensions in pixels.
const (
	ScreenWidth  = 64
	ScreenHeight = 32
)

// DisplayBytes is the size of a packed display snapshot: one bit per
// pixel, row-major, MSB first within each byte.
const DisplayBytes = ScreenWidth * ScreenHeight / 8

// Display is the 64x32 monochrome frame buffer. Pixels are toggled with
// XOR semantics by the draw instruction; the buffer holds no rendering
// logic and no history beyond the current on/off state. It is owned and
// mutated exclusively by the engine; renderers read it via Pixel or
// Snapshot.
type Display struct {
	pixels [ScreenHeight][ScreenWidth]bool
}

func NewDisplay() *Display {
	return &Display{}
}

// TogglePixel flips the pixel at (x, y) and reports whether it was ON
// before the flip, i.e. whether the toggle erased a lit pixel. This is
// the collision signal used by the draw instruction. Coordinates must
// already be wrapped into [0,63]x[0,31] by the caller.
func (d *Display) TogglePixel(x, y int) bool {
	collided := d.pixels[y][x]
	d.pixels[y][x] = !d.pixels[y][x]
	return collided
}

// Pixel reports whether the pixel at (x, y) is ON.
func (d *Display) Pixel(x, y int) bool {
	return d.pixels[y][x]
}

// Clear turns every pixel OFF.
func (d *Display) Clear() {
	d.pixels = [ScreenHeight][ScreenWidth]bool{}
}

// Snapshot packs the pixel grid into buf, which must be at least
// DisplayBytes long. Used by save states and headless renderers.
func (d *Display) Snapshot(buf []byte) {
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			idx := y*ScreenWidth + x
			if d.pixels[y][x] {
				buf[idx/8] |= 0x80 >> (idx % 8)
			} else {
				buf[idx/8] &^= 0x80 >> (idx % 8)
			}
		}
	}
}

// Restore unpacks a Snapshot-format buffer into the pixel grid.
func (d *Display) Restore(buf []byte) {
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			idx := y*ScreenWidth + x
			d.pixels[y][x] = buf[idx/8]&(0x80>>(idx%8)) != 0
		}
	}
}
