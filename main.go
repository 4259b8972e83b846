//go:build !libretro

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/spectrevert/evip/cli"
	"github.com/spectrevert/evip/emu"
	"github.com/spectrevert/evip/romloader"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file")
	cycles := flag.Int("cycles", 0, "instructions per frame (0 = auto)")
	paletteFlag := flag.String("palette", "white", "display palette: white, green, or amber")
	shiftQuirks := flag.Bool("shift-quirks", false, "8xy6/8xyE shift VY into VX")
	loadStoreQuirks := flag.Bool("load-store-quirks", false, "Fx55/Fx65 leave the index register unchanged")
	jumpQuirks := flag.Bool("jump-quirks", false, "Bnnn jumps to nnn plus Vx instead of nnn plus V0")
	clipSprites := flag.Bool("clip-sprites", false, "clip sprites at screen edges instead of wrapping")
	flag.Parse()

	if *romPath == "" {
		fmt.Println("Usage: go run main.go -rom <romfile> [-cycles n] [-palette white|green|amber] [quirk flags]")
		os.Exit(1)
	}

	romData, _, err := romloader.LoadROM(*romPath)
	if err != nil {
		log.Fatalf("Failed to load ROM: %v", err)
	}

	region, _ := emu.DetectRegionFromROM(romData)
	e, err := emu.NewEmulator(romData, region)
	if err != nil {
		log.Fatalf("Failed to start emulator: %v", err)
	}

	e.SetOption("palette", *paletteFlag)
	e.SetOption("shift_quirks", strconv.FormatBool(*shiftQuirks))
	e.SetOption("load_store_quirks", strconv.FormatBool(*loadStoreQuirks))
	e.SetOption("jump_quirks", strconv.FormatBool(*jumpQuirks))
	e.SetOption("clip_sprites", strconv.FormatBool(*clipSprites))
	if *cycles > 0 {
		e.SetOption("cycles_per_frame", strconv.Itoa(*cycles))
	}

	timing := e.GetTiming()

	runner := cli.NewRunner(&e)
	defer runner.Close()

	ebiten.SetWindowSize(emu.ScreenWidth*10, emu.ScreenHeight*10)
	ebiten.SetWindowTitle("eVIP")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(emu.ScreenWidth, emu.ScreenHeight, -1, -1)
	ebiten.SetTPS(timing.FPS)

	if err := ebiten.RunGame(runner); err != nil {
		log.Fatal(err)
	}
}
