//go:build !libretro && !ios

package main

import (
	"flag"
	"log"

	"github.com/spectrevert/evip/adapter"
	"github.com/user-none/eblitui/standalone"
)

func main() {
	romPath := flag.String("rom", "", "path to ROM file (opens UI if not provided)")
	shiftQuirks := flag.Bool("shift-quirks", false, "8xy6/8xyE shift VY into VX")
	loadStoreQuirks := flag.Bool("load-store-quirks", false, "Fx55/Fx65 leave the index register unchanged")
	jumpQuirks := flag.Bool("jump-quirks", false, "Bnnn jumps to nnn plus Vx instead of nnn plus V0")
	clipSprites := flag.Bool("clip-sprites", false, "clip sprites at screen edges instead of wrapping")
	flag.Parse()

	factory := &adapter.Factory{}

	if *romPath != "" {
		options := map[string]string{}
		if *shiftQuirks {
			options["shift_quirks"] = "true"
		}
		if *loadStoreQuirks {
			options["load_store_quirks"] = "true"
		}
		if *jumpQuirks {
			options["jump_quirks"] = "true"
		}
		if *clipSprites {
			options["clip_sprites"] = "true"
		}
		if err := standalone.RunDirect(factory, *romPath, "auto", options); err != nil {
			log.Fatal(err)
		}
		return
	}

	if err := standalone.Run(factory); err != nil {
		log.Fatal(err)
	}
}
