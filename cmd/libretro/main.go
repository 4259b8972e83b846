package main

import (
	"github.com/spectrevert/evip/adapter"
	libretro "github.com/user-none/eblitui/libretro"
)

// Every retropad control maps to one key of the 16-key hex pad, so a
// frontend can reach the full keypad without keyboard passthrough. The
// d-pad covers 2/4/6/8, which most action games use for direction, and
// the face buttons cover 5 and 0, the usual fire keys.
func init() {
	libretro.RegisterFactory(&adapter.Factory{}, []libretro.RetropadMapping{
		{RetroID: libretro.JoypadB, BitID: 0x0},
		{RetroID: libretro.JoypadX, BitID: 0x1},
		{RetroID: libretro.JoypadUp, BitID: 0x2},
		{RetroID: libretro.JoypadY, BitID: 0x3},
		{RetroID: libretro.JoypadLeft, BitID: 0x4},
		{RetroID: libretro.JoypadA, BitID: 0x5},
		{RetroID: libretro.JoypadRight, BitID: 0x6},
		{RetroID: libretro.JoypadL, BitID: 0x7},
		{RetroID: libretro.JoypadDown, BitID: 0x8},
		{RetroID: libretro.JoypadR, BitID: 0x9},
		{RetroID: libretro.JoypadSelect, BitID: 0xA},
		{RetroID: libretro.JoypadStart, BitID: 0xB},
		{RetroID: libretro.JoypadL2, BitID: 0xC},
		{RetroID: libretro.JoypadR2, BitID: 0xD},
		{RetroID: libretro.JoypadL3, BitID: 0xE},
		{RetroID: libretro.JoypadR3, BitID: 0xF},
	})
}

func main() {}
