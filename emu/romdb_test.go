package emu

import "testing"

// TestDetectROMInfo_UnknownROM tests that unknown ROMs fall back to
// the default quirk set.
func TestDetectROMInfo_UnknownROM(t *testing.T) {
	info, found := DetectROMInfo([]byte{0x00, 0xE0, 0x12, 0x00})

	if found {
		t.Error("Synthetic ROM should not be in the database")
	}
	if info.Quirks != DefaultQuirks() {
		t.Errorf("Expected default quirks, got %+v", info.Quirks)
	}
	if info.InstructionsPerFrame != 0 {
		t.Errorf("Unknown ROMs must not override the pace, got %d", info.InstructionsPerFrame)
	}
}

// TestROMDatabase_Entries sanity-checks the curated entries.
func TestROMDatabase_Entries(t *testing.T) {
	if len(romDatabase) == 0 {
		t.Fatal("ROM database is empty")
	}
	for crc, info := range romDatabase {
		if info.InstructionsPerFrame < 0 {
			t.Errorf("Entry %08X has negative pace", crc)
		}
	}
}
