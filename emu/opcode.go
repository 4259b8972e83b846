package emu

import "fmt"

// Op identifies a decoded instruction. Decoding is separated from
// execution so the dispatch table can be tested without engine state.
type Op uint8

const (
	OpUnknown Op = iota
	OpClear            // 00E0
	OpReturn           // 00EE
	OpJump             // 1nnn
	OpCall             // 2nnn
	OpSkipEqImm        // 3xnn
	OpSkipNeImm        // 4xnn
	OpSkipEqReg        // 5xy0
	OpLoadImm          // 6xnn
	OpAddImm           // 7xnn
	OpMove             // 8xy0
	OpOr               // 8xy1
	OpAnd              // 8xy2
	OpXor              // 8xy3
	OpAdd              // 8xy4
	OpSub              // 8xy5
	OpShiftRight       // 8xy6
	OpSubReverse       // 8xy7
	OpShiftLeft        // 8xyE
	OpSkipNeReg        // 9xy0
	OpLoadIndex        // Annn
	OpJumpOffset       // Bnnn
	OpRandom           // Cxnn
	OpDraw             // Dxyn
	OpSkipKeyPressed   // Ex9E
	OpSkipKeyReleased  // ExA1
	OpReadDelay        // Fx07
	OpWaitKey          // Fx0A
	OpSetDelay         // Fx15
	OpSetSound         // Fx18
	OpAddIndex         // Fx1E
	OpFontChar         // Fx29
	OpStoreBCD         // Fx33
	OpStoreRegs        // Fx55
	OpLoadRegs         // Fx65
)

var opNames = map[Op]string{
	OpUnknown:         "???",
	OpClear:           "CLS",
	OpReturn:          "RET",
	OpJump:            "JP",
	OpCall:            "CALL",
	OpSkipEqImm:       "SE",
	OpSkipNeImm:       "SNE",
	OpSkipEqReg:       "SE",
	OpLoadImm:         "LD",
	OpAddImm:          "ADD",
	OpMove:            "LD",
	OpOr:              "OR",
	OpAnd:             "AND",
	OpXor:             "XOR",
	OpAdd:             "ADD",
	OpSub:             "SUB",
	OpShiftRight:      "SHR",
	OpSubReverse:      "SUBN",
	OpShiftLeft:       "SHL",
	OpSkipNeReg:       "SNE",
	OpLoadIndex:       "LD I",
	OpJumpOffset:      "JP V0",
	OpRandom:          "RND",
	OpDraw:            "DRW",
	OpSkipKeyPressed:  "SKP",
	OpSkipKeyReleased: "SKNP",
	OpReadDelay:       "LD Vx, DT",
	OpWaitKey:         "LD Vx, K",
	OpSetDelay:        "LD DT",
	OpSetSound:        "LD ST",
	OpAddIndex:        "ADD I",
	OpFontChar:        "LD F",
	OpStoreBCD:        "LD B",
	OpStoreRegs:       "LD [I]",
	OpLoadRegs:        "LD Vx, [I]",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "???"
}

// Instruction is a fully decoded instruction word. All operand fields
// are populated regardless of which ones the operation uses; register
// indices come from 4-bit nibbles and are therefore always in range.
type Instruction struct {
	Word uint16 // raw big-endian instruction word
	Op   Op
	X    uint8  // bits 8-11
	Y    uint8  // bits 4-7
	N    uint8  // bits 0-3
	NN   uint8  // bits 0-7
	NNN  uint16 // bits 0-11
}

func (in Instruction) String() string {
	return fmt.Sprintf("%s (%04X)", in.Op, in.Word)
}

// Decode splits an instruction word into its fields and classifies it.
// Decode is pure: it never touches engine state and maps every possible
// word to exactly one Op, with OpUnknown for patterns outside the
// instruction set.
func Decode(word uint16) Instruction {
	in := Instruction{
		Word: word,
		X:    uint8(word >> 8 & 0x0F),
		Y:    uint8(word >> 4 & 0x0F),
		N:    uint8(word & 0x000F),
		NN:   uint8(word & 0x00FF),
		NNN:  word & 0x0FFF,
	}

	switch word & 0xF000 {
	case 0x0000:
		// Only the low byte distinguishes 00E0 from 00EE. The rest of
		// the 0nnn family (machine-code call on the original hardware)
		// is not part of the instruction set.
		switch word & 0x00FF {
		case 0x00E0:
			in.Op = OpClear
		case 0x00EE:
			in.Op = OpReturn
		}
	case 0x1000:
		in.Op = OpJump
	case 0x2000:
		in.Op = OpCall
	case 0x3000:
		in.Op = OpSkipEqImm
	case 0x4000:
		in.Op = OpSkipNeImm
	case 0x5000:
		if in.N == 0 {
			in.Op = OpSkipEqReg
		}
	case 0x6000:
		in.Op = OpLoadImm
	case 0x7000:
		in.Op = OpAddImm
	case 0x8000:
		switch in.N {
		case 0x0:
			in.Op = OpMove
		case 0x1:
			in.Op = OpOr
		case 0x2:
			in.Op = OpAnd
		case 0x3:
			in.Op = OpXor
		case 0x4:
			in.Op = OpAdd
		case 0x5:
			in.Op = OpSub
		case 0x6:
			in.Op = OpShiftRight
		case 0x7:
			in.Op = OpSubReverse
		case 0xE:
			in.Op = OpShiftLeft
		}
	case 0x9000:
		if in.N == 0 {
			in.Op = OpSkipNeReg
		}
	case 0xA000:
		in.Op = OpLoadIndex
	case 0xB000:
		in.Op = OpJumpOffset
	case 0xC000:
		in.Op = OpRandom
	case 0xD000:
		in.Op = OpDraw
	case 0xE000:
		switch in.NN {
		case 0x9E:
			in.Op = OpSkipKeyPressed
		case 0xA1:
			in.Op = OpSkipKeyReleased
		}
	case 0xF000:
		switch in.NN {
		case 0x07:
			in.Op = OpReadDelay
		case 0x0A:
			in.Op = OpWaitKey
		case 0x15:
			in.Op = OpSetDelay
		case 0x18:
			in.Op = OpSetSound
		case 0x1E:
			in.Op = OpAddIndex
		case 0x29:
			in.Op = OpFontChar
		case 0x33:
			in.Op = OpStoreBCD
		case 0x55:
			in.Op = OpStoreRegs
		case 0x65:
			in.Op = OpLoadRegs
		}
	}

	return in
}
