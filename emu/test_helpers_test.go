package emu

import (
	"io"
	"log/slog"
)

// assemble packs instruction words into a big-endian program image,
// high byte at the lower address, ready for Engine.Load.
func assemble(words ...uint16) []byte {
	program := make([]byte, 0, len(words)*2)
	for _, w := range words {
		program = append(program, byte(w>>8), byte(w))
	}
	return program
}

// newTestEngine returns an engine with the given program loaded and a
// fixed random seed so Cxnn is reproducible.
func newTestEngine(words ...uint16) *Engine {
	e := NewEngine()
	e.Seed(1, 2)
	e.SetLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	if len(words) > 0 {
		if err := e.Load(assemble(words...)); err != nil {
			panic(err)
		}
	}
	return e
}

// litPixels counts the number of ON pixels in the display.
func litPixels(d *Display) int {
	count := 0
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			if d.Pixel(x, y) {
				count++
			}
		}
	}
	return count
}
