package adapter

import (
	"github.com/spectrevert/evip/emu"
	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface check.
var _ emucore.CoreFactory = (*Factory)(nil)

// Factory implements emucore.CoreFactory for the CHIP-8 emulator.
type Factory struct{}

// SystemInfo returns system metadata for UI configuration.
//
// The 16-key hex pad maps onto the left side of a QWERTY keyboard in
// the conventional 4x4 block:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
func (f *Factory) SystemInfo() emucore.SystemInfo {
	return emucore.SystemInfo{
		Name:            "evip",
		ConsoleName:     "COSMAC VIP (CHIP-8)",
		Extensions:      []string{".ch8"},
		ScreenWidth:     emu.ScreenWidth,
		MaxScreenHeight: emu.MaxScreenHeight,
		AspectRatio:     64.0 / 32.0,
		SampleRate:      48000,
		Buttons: []emucore.Button{
			{Name: "0", ID: 0, DefaultKey: "X", DefaultPad: "B"},
			{Name: "1", ID: 1, DefaultKey: "1", DefaultPad: "X"},
			{Name: "2", ID: 2, DefaultKey: "2", DefaultPad: "Up"},
			{Name: "3", ID: 3, DefaultKey: "3", DefaultPad: "Y"},
			{Name: "4", ID: 4, DefaultKey: "Q", DefaultPad: "Left"},
			{Name: "5", ID: 5, DefaultKey: "W", DefaultPad: "A"},
			{Name: "6", ID: 6, DefaultKey: "E", DefaultPad: "Right"},
			{Name: "7", ID: 7, DefaultKey: "A", DefaultPad: "L"},
			{Name: "8", ID: 8, DefaultKey: "S", DefaultPad: "Down"},
			{Name: "9", ID: 9, DefaultKey: "D", DefaultPad: "R"},
			{Name: "A", ID: 10, DefaultKey: "Z", DefaultPad: "Select"},
			{Name: "B", ID: 11, DefaultKey: "C", DefaultPad: "Start"},
			{Name: "C", ID: 12, DefaultKey: "4", DefaultPad: "L2"},
			{Name: "D", ID: 13, DefaultKey: "R", DefaultPad: "R2"},
			{Name: "E", ID: 14, DefaultKey: "F", DefaultPad: "L3"},
			{Name: "F", ID: 15, DefaultKey: "V", DefaultPad: "R3"},
		},
		Players: 1,
		CoreOptions: []emucore.CoreOption{
			{
				Key:         "shift_quirks",
				Label:       "Shift Quirks",
				Description: "8xy6/8xyE shift VY into VX instead of shifting VX in place",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
			},
			{
				Key:         "load_store_quirks",
				Label:       "Load/Store Quirks",
				Description: "Fx55/Fx65 leave the index register unchanged",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
			},
			{
				Key:         "jump_quirks",
				Label:       "Jump Quirks",
				Description: "Bnnn jumps to nnn plus Vx instead of nnn plus V0",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
			},
			{
				Key:         "clip_sprites",
				Label:       "Clip Sprites",
				Description: "Clip sprites at screen edges instead of wrapping",
				Type:        emucore.CoreOptionBool,
				Default:     "false",
				Category:    emucore.CoreOptionCategoryVideo,
			},
		},
		RDBName:       "RCA - Studio II",
		ThumbnailRepo: "RCA_-_Studio_II",
		DataDirName:   "evip",
		ConsoleID:     45,
		CoreName:      emu.Name,
		CoreVersion:   emu.Version,
		SerializeSize: emu.SerializeSize(),
	}
}

// CreateEmulator creates a new emulator instance with the given ROM and region.
func (f *Factory) CreateEmulator(rom []byte, region emucore.Region) (emucore.Emulator, error) {
	e, err := emu.NewEmulator(rom, region)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// DetectRegion auto-detects the region from ROM data. CHIP-8 programs
// have no region encoding, so this always reports NTSC timing.
func (f *Factory) DetectRegion(rom []byte) (emucore.Region, bool) {
	return emu.DetectRegionFromROM(rom)
}
