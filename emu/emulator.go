package emu

import (
	"encoding/binary"
	"errors"
	"hash/crc32"
	"strconv"

	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks.
var _ emucore.Emulator = (*Emulator)(nil)
var _ emucore.SaveStater = (*Emulator)(nil)
var _ emucore.MemoryInspector = (*Emulator)(nil)
var _ emucore.MemoryMapper = (*Emulator)(nil)

// Core identification for frontends.
const (
	Name    = "evip"
	Version = "0.9.0"
)

const (
	MaxScreenHeight = ScreenHeight
	sampleRate      = 48000

	// beepFrequency is the tone played while the sound timer runs.
	// The real hardware produced a single fixed-pitch tone.
	beepFrequency = 440.0
)

// Save state format constants
const (
	stateVersion    = 1
	stateMagic      = "eVIPSaveStat"
	stateHeaderSize = 22 // magic(12) + version(2) + romCRC(4) + dataCRC(4)
)

// palette maps the monochrome display onto RGBA pixels.
type palette struct {
	on  [4]uint8
	off [4]uint8
}

var palettes = map[string]palette{
	"white": {on: [4]uint8{0xFF, 0xFF, 0xFF, 0xFF}, off: [4]uint8{0x00, 0x00, 0x00, 0xFF}},
	"green": {on: [4]uint8{0x3F, 0xFF, 0x3F, 0xFF}, off: [4]uint8{0x00, 0x20, 0x00, 0xFF}},
	"amber": {on: [4]uint8{0xFF, 0xB0, 0x00, 0xFF}, off: [4]uint8{0x20, 0x10, 0x00, 0xFF}},
}

// Emulator wraps the interpreter core with the frame-oriented surface
// frontends consume: a 60Hz RunFrame, an RGBA framebuffer, packed
// button input, beep audio and save states.
type Emulator struct {
	engine *Engine
	clock  ClockProfile
	region Region
	romCRC uint32

	// RGBA view of the display, rebuilt once per frame.
	framebuffer []byte
	colors      palette

	// Beep synthesis state and pre-allocated audio output buffer.
	tonePhase   float64
	audioBuffer []int16
}

// NewEmulator creates and initializes the emulator components.
func NewEmulator(rom []byte, region Region) (Emulator, error) {
	engine := NewEngine()
	if err := engine.Load(rom); err != nil {
		return Emulator{}, err
	}

	clock := GetClockForRegion(region)
	if info, ok := DetectROMInfo(rom); ok {
		engine.SetQuirks(info.Quirks)
		if info.InstructionsPerFrame > 0 {
			clock.InstructionsPerFrame = info.InstructionsPerFrame
		}
	}

	e := Emulator{
		engine:      engine,
		clock:       clock,
		region:      region,
		romCRC:      crc32.ChecksumIEEE(rom),
		framebuffer: make([]byte, ScreenWidth*ScreenHeight*4),
		colors:      palettes["white"],
		// Pre-allocate audio buffer: 800 stereo sample pairs at 48kHz/60fps
		audioBuffer: make([]int16, 0, 2*sampleRate/60),
	}
	e.renderFramebuffer()
	return e, nil
}

// Engine exposes the interpreter core, e.g. for debuggers or for
// installing a beep hook.
func (e *Emulator) Engine() *Engine {
	return e.engine
}

// RunFrame executes one 60Hz frame of emulation: the profile's
// instruction budget, one timer decrement pass, audio for the frame
// and the RGBA framebuffer rebuild.
func (e *Emulator) RunFrame() {
	for i := 0; i < e.clock.InstructionsPerFrame; i++ {
		e.engine.Step()
	}
	e.engine.TickTimers()

	e.renderAudio()
	e.renderFramebuffer()
}

// renderAudio fills the frame's audio buffer: a square wave while the
// sound timer is running, silence otherwise. Output is 16-bit stereo
// PCM, attenuated so the mono tone duplicated into both channels does
// not double perceived loudness.
func (e *Emulator) renderAudio() {
	e.audioBuffer = e.audioBuffer[:0]

	samples := sampleRate / e.clock.FPS
	if !e.engine.SoundActive() {
		e.tonePhase = 0
		for i := 0; i < samples; i++ {
			e.audioBuffer = append(e.audioBuffer, 0, 0)
		}
		return
	}

	// ~12.5% of full scale: loud enough to register, quiet enough not
	// to clip when mixed by the frontend.
	const amplitude = int16(4096)

	step := beepFrequency / sampleRate
	for i := 0; i < samples; i++ {
		sample := amplitude
		if e.tonePhase >= 0.5 {
			sample = -sample
		}
		e.audioBuffer = append(e.audioBuffer, sample, sample)
		e.tonePhase += step
		if e.tonePhase >= 1.0 {
			e.tonePhase -= 1.0
		}
	}
}

// renderFramebuffer converts the monochrome display into RGBA pixels.
func (e *Emulator) renderFramebuffer() {
	d := e.engine.Display()
	i := 0
	for y := 0; y < ScreenHeight; y++ {
		for x := 0; x < ScreenWidth; x++ {
			c := e.colors.off
			if d.Pixel(x, y) {
				c = e.colors.on
			}
			copy(e.framebuffer[i:i+4], c[:])
			i += 4
		}
	}
}

// GetFramebuffer returns raw RGBA pixel data for the current frame.
func (e *Emulator) GetFramebuffer() []byte {
	return e.framebuffer
}

// GetFramebufferStride returns the stride (bytes per row) of the framebuffer.
func (e *Emulator) GetFramebufferStride() int {
	return ScreenWidth * 4
}

// GetActiveHeight returns the display height. The machine has a single
// fixed video mode.
func (e *Emulator) GetActiveHeight() int {
	return ScreenHeight
}

// GetAudioSamples returns the frame's audio as 16-bit stereo PCM.
func (e *Emulator) GetAudioSamples() []int16 {
	return e.audioBuffer
}

// SetInput unpacks a button bitmask into keypad state. Bit i maps to
// hex key i. The machine has a single keypad, so only player 0 input
// is consumed.
func (e *Emulator) SetInput(player int, buttons uint32) {
	if player != 0 {
		return
	}
	for key := 0; key < KeyCount; key++ {
		e.engine.SetKey(key, buttons&(1<<key) != 0)
	}
}

// GetRegion returns the emulator's region setting.
func (e *Emulator) GetRegion() Region {
	return e.region
}

// SetRegion updates the region. The machine's timers are locked to
// 60Hz, so this only records the frontend's choice; the instruction
// budget is controlled by the clock profile and core options.
func (e *Emulator) SetRegion(region Region) {
	e.region = region
}

// GetTiming returns FPS and line count for frontends.
func (e *Emulator) GetTiming() emucore.Timing {
	return emucore.Timing{
		FPS:       e.clock.FPS,
		Scanlines: ScreenHeight,
	}
}

// SetOption applies a core option change identified by key.
func (e *Emulator) SetOption(key string, value string) {
	q := e.engine.Quirks()
	switch key {
	case "shift_quirks":
		q.ShiftUsesVY = value == "true"
		e.engine.SetQuirks(q)
	case "load_store_quirks":
		q.LoadStoreBumpsIndex = value == "true"
		e.engine.SetQuirks(q)
	case "jump_quirks":
		q.JumpUsesVX = value == "true"
		e.engine.SetQuirks(q)
	case "clip_sprites":
		q.ClipSprites = value == "true"
		e.engine.SetQuirks(q)
	case "cycles_per_frame":
		if n, err := strconv.Atoi(value); err == nil && n > 0 {
			e.clock.InstructionsPerFrame = n
		}
	case "palette":
		if p, ok := palettes[value]; ok {
			e.colors = p
			e.renderFramebuffer()
		}
	}
}

// Close releases any resources held by the emulator.
func (e *Emulator) Close() {}

// =============================================================================
// Save State Serialization
// =============================================================================

// SerializeSize returns the total size in bytes needed for a save state.
func SerializeSize() int {
	// Header: 22 bytes
	// Memory: 4096 bytes
	// Registers: 16 V + 2 index + 2 PC
	// Stack: 1 SP + 32 entries
	// Timers: 2 bytes
	// Keypad: 2 byte bitmask
	// Wait sub-state: 1 flag + 1 register + 2 byte held bitmask
	// Display: 256 bytes packed

	return stateHeaderSize + // 22
		MemorySize + // 4096
		RegisterCount + // V registers
		2 + // index
		2 + // PC
		1 + // SP
		StackDepth*2 + // stack
		2 + // delay + sound timers
		2 + // keypad bitmask
		1 + // awaitingKey
		1 + // awaitReg
		2 + // heldAtWait bitmask
		DisplayBytes // display
}

// Serialize creates a save state and returns it as a byte slice.
// The random source is not part of the state; a restored machine
// diverges only at the first Cxnn, the one nondeterministic
// instruction.
func (e *Emulator) Serialize() ([]byte, error) {
	size := SerializeSize()
	data := make([]byte, size)

	// Write header
	copy(data[0:12], stateMagic)
	binary.LittleEndian.PutUint16(data[12:14], stateVersion)
	binary.LittleEndian.PutUint32(data[14:18], e.romCRC)
	// Data CRC will be written at the end

	offset := stateHeaderSize
	offset = e.serializeEngine(data, offset)
	e.serializeDisplay(data, offset)

	// Calculate and write data CRC32 (over everything after header)
	dataCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	binary.LittleEndian.PutUint32(data[18:22], dataCRC)

	return data, nil
}

// Deserialize restores emulator state from a save state byte slice.
func (e *Emulator) Deserialize(data []byte) error {
	if err := e.VerifyState(data); err != nil {
		return err
	}

	offset := stateHeaderSize
	offset = e.deserializeEngine(data, offset)
	e.deserializeDisplay(data, offset)
	e.renderFramebuffer()

	return nil
}

// VerifyState checks if a save state is valid without loading it.
func (e *Emulator) VerifyState(data []byte) error {
	expectedSize := SerializeSize()
	if len(data) < expectedSize {
		return errors.New("save state too short")
	}

	if string(data[0:12]) != stateMagic {
		return errors.New("invalid save state magic")
	}

	version := binary.LittleEndian.Uint16(data[12:14])
	if version > stateVersion {
		return errors.New("unsupported save state version")
	}

	romCRC := binary.LittleEndian.Uint32(data[14:18])
	if romCRC != e.romCRC {
		return errors.New("save state is for a different ROM")
	}

	expectedCRC := binary.LittleEndian.Uint32(data[18:22])
	actualCRC := crc32.ChecksumIEEE(data[stateHeaderSize:])
	if expectedCRC != actualCRC {
		return errors.New("save state data is corrupted")
	}

	return nil
}

// serializeEngine writes interpreter state to the data buffer
func (e *Emulator) serializeEngine(data []byte, offset int) int {
	eng := e.engine

	copy(data[offset:], eng.memory[:])
	offset += MemorySize

	copy(data[offset:], eng.v[:])
	offset += RegisterCount

	binary.LittleEndian.PutUint16(data[offset:], eng.index)
	offset += 2

	binary.LittleEndian.PutUint16(data[offset:], eng.pc)
	offset += 2

	data[offset] = eng.sp
	offset++

	for _, addr := range eng.stack {
		binary.LittleEndian.PutUint16(data[offset:], addr)
		offset += 2
	}

	data[offset] = eng.delayTimer
	offset++
	data[offset] = eng.soundTimer
	offset++

	binary.LittleEndian.PutUint16(data[offset:], packKeyBits(eng.keys))
	offset += 2

	if eng.awaitingKey {
		data[offset] = 1
	} else {
		data[offset] = 0
	}
	offset++
	data[offset] = eng.awaitReg
	offset++

	binary.LittleEndian.PutUint16(data[offset:], packKeyBits(eng.heldAtWait))
	offset += 2

	return offset
}

// deserializeEngine reads interpreter state from the data buffer
func (e *Emulator) deserializeEngine(data []byte, offset int) int {
	eng := e.engine

	copy(eng.memory[:], data[offset:offset+MemorySize])
	offset += MemorySize

	copy(eng.v[:], data[offset:offset+RegisterCount])
	offset += RegisterCount

	eng.index = binary.LittleEndian.Uint16(data[offset:])
	offset += 2

	eng.pc = binary.LittleEndian.Uint16(data[offset:])
	offset += 2

	eng.sp = data[offset]
	offset++

	for i := range eng.stack {
		eng.stack[i] = binary.LittleEndian.Uint16(data[offset:])
		offset += 2
	}

	eng.delayTimer = data[offset]
	offset++
	eng.soundTimer = data[offset]
	offset++

	eng.keys = unpackKeyBits(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	eng.awaitingKey = data[offset] != 0
	offset++
	eng.awaitReg = data[offset]
	offset++

	eng.heldAtWait = unpackKeyBits(binary.LittleEndian.Uint16(data[offset:]))
	offset += 2

	return offset
}

// serializeDisplay writes the packed display to the data buffer
func (e *Emulator) serializeDisplay(data []byte, offset int) int {
	e.engine.Display().Snapshot(data[offset : offset+DisplayBytes])
	return offset + DisplayBytes
}

// deserializeDisplay reads the packed display from the data buffer
func (e *Emulator) deserializeDisplay(data []byte, offset int) int {
	e.engine.Display().Restore(data[offset : offset+DisplayBytes])
	return offset + DisplayBytes
}

func packKeyBits(keys [KeyCount]bool) uint16 {
	var bits uint16
	for i, pressed := range keys {
		if pressed {
			bits |= 1 << i
		}
	}
	return bits
}

func unpackKeyBits(bits uint16) [KeyCount]bool {
	var keys [KeyCount]bool
	for i := range keys {
		keys[i] = bits&(1<<i) != 0
	}
	return keys
}

// =============================================================================
// MemoryInspector interface
// =============================================================================

// ReadMemory reads from a flat address into buf and returns the number
// of bytes read. The machine has a single flat 4KB space, exposed
// as-is (font at 0x000, program from 0x200).
func (e *Emulator) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := addr + uint32(i)
		if cur >= MemorySize {
			return count
		}
		buf[i] = e.engine.memory[cur]
		count++
	}
	return count
}

// =============================================================================
// MemoryMapper interface
// =============================================================================

// MemoryMap returns a list of available memory regions with sizes.
func (e *Emulator) MemoryMap() []emucore.MemoryRegion {
	return []emucore.MemoryRegion{
		{Type: emucore.MemorySystemRAM, Size: MemorySize},
	}
}

// ReadRegion returns a copy of the specified memory region.
func (e *Emulator) ReadRegion(regionType int) []byte {
	switch regionType {
	case emucore.MemorySystemRAM:
		out := make([]byte, MemorySize)
		copy(out, e.engine.memory[:])
		return out
	default:
		return nil
	}
}

// WriteRegion writes data to the specified memory region.
func (e *Emulator) WriteRegion(regionType int, data []byte) {
	switch regionType {
	case emucore.MemorySystemRAM:
		copy(e.engine.memory[:], data)
	}
}
