package emu

import emucore "github.com/user-none/eblitui/api"

// Region is an alias for emucore.Region so internal code compiles unchanged.
type Region = emucore.Region

const (
	RegionNTSC = emucore.RegionNTSC
	RegionPAL  = emucore.RegionPAL
)

// ClockProfile paces the interpreter: how many instructions run per
// frame and how many frames per second. The timers are locked to the
// frame rate, so FPS is always 60 regardless of region; only the
// instruction budget varies between profiles.
type ClockProfile struct {
	InstructionsPerFrame int
	FPS                  int
}

// StandardClock approximates the original interpreter's pace of around
// 660 instructions per second. Most classic ROMs are tuned for it.
var StandardClock = ClockProfile{
	InstructionsPerFrame: 11,
	FPS:                  60,
}

// TurboClock is for later-era ROMs that expect a faster interpreter.
var TurboClock = ClockProfile{
	InstructionsPerFrame: 30,
	FPS:                  60,
}

// GetClockForRegion returns the pacing profile for a region. The
// machine has no PAL variant; both regions run the standard 60Hz clock
// and the function exists for frontend interface parity.
func GetClockForRegion(r Region) ClockProfile {
	return StandardClock
}

// DefaultRegion returns the region used when none is specified.
func DefaultRegion() Region {
	return RegionNTSC
}

// DetectRegionFromROM exists for the CoreFactory contract. CHIP-8 ROMs
// carry no region information, so detection never succeeds.
func DetectRegionFromROM(rom []byte) (Region, bool) {
	return RegionNTSC, false
}
