package emu

// Quirks selects between historical interpreter revisions where the
// instruction set is ambiguous. Interpreters diverged on a handful of
// instructions over the years (COSMAC VIP vs SCHIP and friends) and
// ROMs assume one side or the other. The zero value is the behavior
// most of the surviving ROM corpus expects.
type Quirks struct {
	// ShiftUsesVY makes 8xy6/8xyE copy VY into VX before shifting,
	// as the original interpreter did. Off: VX is shifted in place.
	ShiftUsesVY bool

	// LoadStoreBumpsIndex makes Fx55/Fx65 leave the index register
	// incremented by x+1, matching the original interpreter's memory
	// pointer walk. Off: the index register is untouched.
	LoadStoreBumpsIndex bool

	// JumpUsesVX makes Bnnn jump to nnn + VX (where x is the high
	// nibble of nnn) instead of nnn + V0, an SCHIP misreading that
	// some ROMs depend on.
	JumpUsesVX bool

	// ClipSprites makes Dxyn clip sprites at the display edges
	// instead of wrapping them to the opposite side. Only the start
	// coordinate wraps; rows and columns past the edge are dropped.
	ClipSprites bool
}

// DefaultQuirks returns the behavior most ROMs expect.
func DefaultQuirks() Quirks {
	return Quirks{}
}
