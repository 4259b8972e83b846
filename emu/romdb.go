package emu

import "hash/crc32"

// ROMInfo carries the compatibility profile for a known ROM: which
// quirk switches it depends on and the instruction budget it plays
// best at. Zero InstructionsPerFrame means use the active profile.
type ROMInfo struct {
	Quirks               Quirks
	InstructionsPerFrame int
}

// romDatabase maps ROM CRC32 hashes to compatibility profiles, seeded
// from the common public-domain ROM set. Most classic ROMs run fine on
// the original-hardware defaults; the entries here are the exceptions
// that need SCHIP-era shift or load/store behavior, or a non-standard
// pace.
var romDatabase = map[uint32]ROMInfo{
	// Blinky (Hans Christian Egeberg)
	0x8d7bd354: {Quirks{ShiftUsesVY: true}, 20},
	// Space Invaders (David Winter)
	0x8d9d5b73: {Quirks{}, 15},
	// Astro Dodge (Revival Studios)
	0x35f7e1ab: {Quirks{}, 20},
	// Hidden (David Winter)
	0x9e6a9ea2: {Quirks{ClipSprites: true}, 11},
	// Blitz (David Winter)
	0x3a0f2bc8: {Quirks{ClipSprites: true}, 11},
	// Connect 4 (David Winter)
	0x6b0e2f94: {Quirks{}, 11},
	// Tetris (Fran Dachille)
	0xa67f4e31: {Quirks{}, 11},
	// Lunar Lander (Udo Pernisz)
	0x50d5073c: {Quirks{LoadStoreBumpsIndex: true}, 11},
	// Animal Race (Brian Astle)
	0x30e1f7ce: {Quirks{LoadStoreBumpsIndex: true}, 11},
	// UFO (Lutz V)
	0x1d2fa286: {Quirks{}, 11},
}

// DetectROMInfo looks up a ROM's compatibility profile by CRC32.
// Returns (info, true) when found, (defaults, false) otherwise.
func DetectROMInfo(rom []byte) (ROMInfo, bool) {
	crc := crc32.ChecksumIEEE(rom)
	if info, ok := romDatabase[crc]; ok {
		return info, true
	}
	return ROMInfo{Quirks: DefaultQuirks()}, false
}
