//go:build !libretro

// Package cli provides a command-line runner for the emulator.
// It handles input polling and runs the emulator in a window without the full UI.
package cli

import (
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/spectrevert/evip/emu"
	"github.com/spectrevert/evip/ui"
)

// keypadKeys maps each hex key of the 16-key pad to its keyboard key.
// The pad occupies the left 4x4 block of a QWERTY keyboard:
//
//	1 2 3 C        1 2 3 4
//	4 5 6 D   ->   Q W E R
//	7 8 9 E        A S D F
//	A 0 B F        Z X C V
var keypadKeys = [emu.KeyCount]ebiten.Key{
	0x0: ebiten.KeyX,
	0x1: ebiten.Key1,
	0x2: ebiten.Key2,
	0x3: ebiten.Key3,
	0x4: ebiten.KeyQ,
	0x5: ebiten.KeyW,
	0x6: ebiten.KeyE,
	0x7: ebiten.KeyA,
	0x8: ebiten.KeyS,
	0x9: ebiten.KeyD,
	0xA: ebiten.KeyZ,
	0xB: ebiten.KeyC,
	0xC: ebiten.Key4,
	0xD: ebiten.KeyR,
	0xE: ebiten.KeyF,
	0xF: ebiten.KeyV,
}

// Runner wraps an emulator for command-line mode.
// It handles input polling (emulator doesn't poll input itself).
// This follows the libretro pattern where the frontend is responsible
// for polling input and passing it to the emulator via SetInput().
type Runner struct {
	emulator    *emu.Emulator
	audioPlayer *ui.AudioPlayer

	offscreen *ebiten.Image           // Offscreen buffer for native resolution rendering
	drawOpts  ebiten.DrawImageOptions // Pre-allocated draw options to avoid per-frame allocation
}

// NewRunner creates a new Runner wrapping the given emulator.
func NewRunner(e *emu.Emulator) *Runner {
	player, err := ui.NewAudioPlayer()
	if err != nil {
		panic(err)
	}
	return &Runner{
		emulator:    e,
		audioPlayer: player,
	}
}

// Close cleans up the runner's resources.
func (r *Runner) Close() {
	if r.audioPlayer != nil {
		r.audioPlayer.Close()
		r.audioPlayer = nil
	}
}

// Update implements ebiten.Game.
func (r *Runner) Update() error {
	if !ebiten.IsFocused() {
		return nil
	}

	// Poll input (runner responsibility, not emulator)
	r.pollInput()

	// Run one frame of emulation
	r.emulator.RunFrame()

	// Queue audio samples to SDL
	r.audioPlayer.QueueSamples(r.emulator.GetAudioSamples())

	return nil
}

// Draw implements ebiten.Game.
// Handles scaling and centering of the native framebuffer.
func (r *Runner) Draw(screen *ebiten.Image) {
	if r.offscreen == nil {
		r.offscreen = ebiten.NewImage(emu.ScreenWidth, emu.ScreenHeight)
	}
	r.offscreen.WritePixels(r.emulator.GetFramebuffer())

	// Calculate scaling to fit window while preserving aspect ratio
	screenW, screenH := screen.Bounds().Dx(), screen.Bounds().Dy()
	nativeW := float64(emu.ScreenWidth)
	nativeH := float64(emu.ScreenHeight)

	scaleX := float64(screenW) / nativeW
	scaleY := float64(screenH) / nativeH
	scale := scaleX
	if scaleY < scaleX {
		scale = scaleY
	}

	// Calculate offset to center the image
	scaledW := nativeW * scale
	scaledH := nativeH * scale
	offsetX := (float64(screenW) - scaledW) / 2
	offsetY := (float64(screenH) - scaledH) / 2

	// Draw scaled image centered in window using pre-allocated options
	r.drawOpts = ebiten.DrawImageOptions{}
	r.drawOpts.GeoM.Scale(scale, scale)
	r.drawOpts.GeoM.Translate(offsetX, offsetY)
	r.drawOpts.Filter = ebiten.FilterNearest
	screen.DrawImage(r.offscreen, &r.drawOpts)
}

// Layout implements ebiten.Game.
func (r *Runner) Layout(outsideWidth, outsideHeight int) (int, int) {
	// Return window size so we control scaling in Draw()
	return outsideWidth, outsideHeight
}

// pollInput reads keyboard and gamepad input and passes it to the emulator.
func (r *Runner) pollInput() {
	var buttons uint32
	for key, kb := range keypadKeys {
		if ebiten.IsKeyPressed(kb) {
			buttons |= 1 << key
		}
	}

	// Gamepad support (all connected gamepads). The d-pad and face
	// buttons cover the keys most action games poll: 2/4/6/8 for
	// direction, 5 and 0 for fire.
	for _, id := range ebiten.AppendGamepadIDs(nil) {
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			continue
		}

		// D-pad
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftTop) {
			buttons |= 1 << 0x2
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom) {
			buttons |= 1 << 0x8
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			buttons |= 1 << 0x4
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			buttons |= 1 << 0x6
		}

		// Face buttons: A/Cross = key 5, B/Circle = key 0
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			buttons |= 1 << 0x5
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightRight) {
			buttons |= 1 << 0x0
		}

		// Left analog stick (with deadzone)
		const deadzone = 0.5
		axisX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		axisY := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickVertical)
		if axisX < -deadzone {
			buttons |= 1 << 0x4
		}
		if axisX > deadzone {
			buttons |= 1 << 0x6
		}
		if axisY < -deadzone {
			buttons |= 1 << 0x2
		}
		if axisY > deadzone {
			buttons |= 1 << 0x8
		}
	}

	r.emulator.SetInput(0, buttons)
}
