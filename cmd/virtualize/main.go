// Command virtualize renders multichannel audio to binaural stereo through
// a multichannel HRIR.
//
// Usage:
//
//	virtualize [flags] <command> [args]
//
// Commands:
//
//	render        - Render a WAV, Ogg Vorbis or MP3 file to binaural stereo WAV
//	info          - Show how an HRIR is planned into a filter
//	convert-hrir  - Resample an HRIR to another sample rate
package main

import (
	"fmt"
	"os"

	"github.com/tphakala/go-virtual-surround/cmd/virtualize/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
