package emu

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
)

const (
	MemorySize    = 4096
	ProgramStart  = 0x200
	RegisterCount = 16
	StackDepth    = 16
	KeyCount      = 16

	// addrMask keeps every memory access inside the 12-bit address
	// space regardless of what a ROM loads into the index register.
	addrMask = MemorySize - 1

	flagRegister = 0xF
)

// ErrProgramTooLarge is returned by Load when a program does not fit
// between ProgramStart and the end of memory.
var ErrProgramTooLarge = errors.New("program exceeds available memory")

// Engine is the CHIP-8 interpreter core: memory, registers, call stack,
// timers, keypad state and the display buffer, advanced one instruction
// at a time. It is single-threaded; one Tick is one atomic unit of work
// and all state is owned exclusively by the engine instance.
type Engine struct {
	memory [MemorySize]uint8
	// v holds the 16 general-purpose registers. v[0xF] doubles as the
	// flag register for carry/borrow/collision; instructions that set
	// the flag write it only after all operand reads are done.
	v     [RegisterCount]uint8
	index uint16
	pc    uint16
	stack [StackDepth]uint16
	sp    uint8

	delayTimer uint8
	soundTimer uint8

	// keys is mutated only via SetKey; the instruction stream reads it.
	keys [KeyCount]bool

	// Fx0A suspension sub-state. While waiting, Step re-checks the
	// keypad instead of fetching, and heldAtWait masks keys that were
	// already down when the wait began so only a fresh press resumes.
	awaitingKey bool
	awaitReg    uint8
	heldAtWait  [KeyCount]bool

	display *Display
	quirks  Quirks
	rng     *rand.Rand
	beep    func()
	log     *slog.Logger
}

// NewEngine creates an engine with the font table loaded, PC at the
// program start and original-hardware quirks.
func NewEngine() *Engine {
	e := &Engine{
		display: NewDisplay(),
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		log:     slog.Default(),
	}
	e.Reset()
	return e
}

// Reset fully re-initializes the machine: memory zeroed and font
// reloaded, registers, stack, timers, keypad and wait sub-state
// cleared, display blanked, PC back at ProgramStart. Nothing is ever
// partially reset.
func (e *Engine) Reset() {
	e.memory = [MemorySize]uint8{}
	copy(e.memory[:], fontSet[:])
	e.v = [RegisterCount]uint8{}
	e.index = 0
	e.pc = ProgramStart
	e.stack = [StackDepth]uint16{}
	e.sp = 0
	e.delayTimer = 0
	e.soundTimer = 0
	e.keys = [KeyCount]bool{}
	e.awaitingKey = false
	e.awaitReg = 0
	e.heldAtWait = [KeyCount]bool{}
	e.display.Clear()
}

// Load copies a program verbatim into memory starting at ProgramStart.
// The font region below 0x200 is never touched.
func (e *Engine) Load(program []byte) error {
	if len(program) > MemorySize-ProgramStart {
		return fmt.Errorf("%w: %d bytes, max %d", ErrProgramTooLarge, len(program), MemorySize-ProgramStart)
	}
	copy(e.memory[ProgramStart:], program)
	return nil
}

// SetKey records a key press or release for hex key index (0x0-0xF).
// The engine never polls input devices; frontends push state here.
func (e *Engine) SetKey(index int, pressed bool) {
	e.keys[index&0x0F] = pressed
}

// SetQuirks selects the compatibility behavior for ambiguous
// instructions. Takes effect on the next instruction.
func (e *Engine) SetQuirks(q Quirks) {
	e.quirks = q
}

// Quirks returns the active compatibility switches.
func (e *Engine) Quirks() Quirks {
	return e.quirks
}

// SetBeepFunc installs the hook fired when the sound timer transitions
// from 1 to 0. Fired exactly once per transition.
func (e *Engine) SetBeepFunc(fn func()) {
	e.beep = fn
}

// SetLogger replaces the diagnostic channel used for unrecognized
// opcodes and call stack faults.
func (e *Engine) SetLogger(log *slog.Logger) {
	e.log = log
}

// Seed re-seeds the random source used by Cxnn. Tests use this to make
// the one nondeterministic instruction reproducible.
func (e *Engine) Seed(seed1, seed2 uint64) {
	e.rng = rand.New(rand.NewPCG(seed1, seed2))
}

// Display exposes the frame buffer for read-only renderer access.
func (e *Engine) Display() *Display {
	return e.display
}

// SoundActive reports whether the sound timer is running, i.e. whether
// the machine's tone should currently be audible.
func (e *Engine) SoundActive() bool {
	return e.soundTimer > 0
}

// Tick performs exactly one fetch-decode-execute cycle followed by one
// timer decrement pass. It never fails: malformed instructions are
// logged and skipped, so the loop stays tickable indefinitely.
func (e *Engine) Tick() {
	e.Step()
	e.TickTimers()
}

// Step runs the fetch-decode-execute half of a tick. While the engine
// is suspended on Fx0A it re-checks the keypad instead, without
// fetching or advancing PC; a fresh key press stores the key index and
// normal fetching resumes on the next Step.
func (e *Engine) Step() {
	if e.awaitingKey {
		e.pollAwaitedKey()
		return
	}
	word := e.fetch()
	e.execute(Decode(word))
}

// TickTimers runs the timer half of a tick: both timers decrement if
// nonzero, clamped at zero, and the beep hook fires on the sound
// timer's 1 to 0 transition.
func (e *Engine) TickTimers() {
	if e.delayTimer > 0 {
		e.delayTimer--
	}
	if e.soundTimer > 0 {
		e.soundTimer--
		if e.soundTimer == 0 && e.beep != nil {
			e.beep()
		}
	}
}

// fetch reads the big-endian instruction word at PC and advances PC by
// 2 before execution, so jumps and calls override the advanced value.
func (e *Engine) fetch() uint16 {
	hi := e.memory[e.pc&addrMask]
	lo := e.memory[(e.pc+1)&addrMask]
	e.pc += 2
	return uint16(hi)<<8 | uint16(lo)
}

// pollAwaitedKey scans for a key that has gone down since the Fx0A that
// suspended the engine. Keys already held when the wait began do not
// count until they have been released.
func (e *Engine) pollAwaitedKey() {
	for i, pressed := range e.keys {
		if pressed && !e.heldAtWait[i] {
			e.v[e.awaitReg] = uint8(i)
			e.awaitingKey = false
			return
		}
		if !pressed {
			e.heldAtWait[i] = false
		}
	}
}

// skip advances PC past the next instruction.
func (e *Engine) skip() {
	e.pc += 2
}

func (e *Engine) execute(in Instruction) {
	switch in.Op {
	case OpClear:
		e.display.Clear()

	case OpReturn:
		if e.sp == 0 {
			e.log.Warn("call stack underflow, return ignored", "pc", fmt.Sprintf("%03X", e.pc-2))
			return
		}
		e.sp--
		e.pc = e.stack[e.sp]

	case OpJump:
		e.pc = in.NNN

	case OpCall:
		if int(e.sp) >= StackDepth {
			e.log.Warn("call stack overflow, call ignored",
				"pc", fmt.Sprintf("%03X", e.pc-2), "target", fmt.Sprintf("%03X", in.NNN))
			return
		}
		e.stack[e.sp] = e.pc
		e.sp++
		e.pc = in.NNN

	case OpSkipEqImm:
		if e.v[in.X] == in.NN {
			e.skip()
		}

	case OpSkipNeImm:
		if e.v[in.X] != in.NN {
			e.skip()
		}

	case OpSkipEqReg:
		if e.v[in.X] == e.v[in.Y] {
			e.skip()
		}

	case OpLoadImm:
		e.v[in.X] = in.NN

	case OpAddImm:
		e.v[in.X] += in.NN // wraps mod 256, no flag

	case OpMove:
		e.v[in.X] = e.v[in.Y]

	case OpOr:
		e.v[in.X] |= e.v[in.Y]

	case OpAnd:
		e.v[in.X] &= e.v[in.Y]

	case OpXor:
		e.v[in.X] ^= e.v[in.Y]

	case OpAdd:
		sum := uint16(e.v[in.X]) + uint16(e.v[in.Y])
		e.v[in.X] = uint8(sum)
		// Flag last: X or Y may be VF itself.
		if sum > 0xFF {
			e.v[flagRegister] = 1
		} else {
			e.v[flagRegister] = 0
		}

	case OpSub:
		noBorrow := e.v[in.X] > e.v[in.Y]
		e.v[in.X] -= e.v[in.Y]
		e.v[flagRegister] = boolToFlag(noBorrow)

	case OpShiftRight:
		src := e.v[in.X]
		if e.quirks.ShiftUsesVY {
			src = e.v[in.Y]
		}
		e.v[in.X] = src >> 1
		e.v[flagRegister] = src & 0x01

	case OpSubReverse:
		noBorrow := e.v[in.Y] > e.v[in.X]
		e.v[in.X] = e.v[in.Y] - e.v[in.X]
		e.v[flagRegister] = boolToFlag(noBorrow)

	case OpShiftLeft:
		src := e.v[in.X]
		if e.quirks.ShiftUsesVY {
			src = e.v[in.Y]
		}
		e.v[in.X] = src << 1
		e.v[flagRegister] = src >> 7

	case OpSkipNeReg:
		if e.v[in.X] != e.v[in.Y] {
			e.skip()
		}

	case OpLoadIndex:
		e.index = in.NNN

	case OpJumpOffset:
		offset := e.v[0]
		if e.quirks.JumpUsesVX {
			offset = e.v[in.X]
		}
		e.pc = (in.NNN + uint16(offset)) & addrMask

	case OpRandom:
		e.v[in.X] = uint8(e.rng.UintN(256)) & in.NN

	case OpDraw:
		e.draw(in)

	case OpSkipKeyPressed:
		if e.keys[e.v[in.X]&0x0F] {
			e.skip()
		}

	case OpSkipKeyReleased:
		if !e.keys[e.v[in.X]&0x0F] {
			e.skip()
		}

	case OpReadDelay:
		e.v[in.X] = e.delayTimer

	case OpWaitKey:
		e.awaitingKey = true
		e.awaitReg = in.X
		e.heldAtWait = e.keys

	case OpSetDelay:
		e.delayTimer = e.v[in.X]

	case OpSetSound:
		e.soundTimer = e.v[in.X]

	case OpAddIndex:
		e.index += uint16(e.v[in.X])

	case OpFontChar:
		e.index = uint16(e.v[in.X]&0x0F) * FontGlyphSize

	case OpStoreBCD:
		val := e.v[in.X]
		e.memory[e.index&addrMask] = val / 100
		e.memory[(e.index+1)&addrMask] = val / 10 % 10
		e.memory[(e.index+2)&addrMask] = val % 10

	case OpStoreRegs:
		for i := uint16(0); i <= uint16(in.X); i++ {
			e.memory[(e.index+i)&addrMask] = e.v[i]
		}
		if e.quirks.LoadStoreBumpsIndex {
			e.index += uint16(in.X) + 1
		}

	case OpLoadRegs:
		for i := uint16(0); i <= uint16(in.X); i++ {
			e.v[i] = e.memory[(e.index+i)&addrMask]
		}
		if e.quirks.LoadStoreBumpsIndex {
			e.index += uint16(in.X) + 1
		}

	default:
		// No state change; execution continues on the next tick.
		e.log.Warn("unrecognized opcode", "pc", fmt.Sprintf("%03X", e.pc-2), "opcode", fmt.Sprintf("%04X", in.Word))
	}
}

// draw XORs an n-row sprite at (VX, VY) into the display and collects
// the collision flag. The start coordinate always wraps; whether rows
// and columns past the edge wrap or clip is a quirk switch.
func (e *Engine) draw(in Instruction) {
	x := int(e.v[in.X]) % ScreenWidth
	y := int(e.v[in.Y]) % ScreenHeight

	collision := uint8(0)
	for row := 0; row < int(in.N); row++ {
		py := y + row
		if py >= ScreenHeight {
			if e.quirks.ClipSprites {
				break
			}
			py %= ScreenHeight
		}
		bits := e.memory[(e.index+uint16(row))&addrMask]
		for col := 0; col < 8; col++ {
			if bits&(0x80>>col) == 0 {
				continue
			}
			px := x + col
			if px >= ScreenWidth {
				if e.quirks.ClipSprites {
					continue
				}
				px %= ScreenWidth
			}
			if e.display.TogglePixel(px, py) {
				collision = 1
			}
		}
	}
	e.v[flagRegister] = collision
}

func boolToFlag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
