package cmd

import (
	"fmt"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/midifile"
	"github.com/comperml/pianoprep/render"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(renderCmd)
}

var renderCmd = &cobra.Command{
	Use:   "render <midi-file> <out.png>",
	Short: "Renders a midi file's pianoroll to a png",
	Long:  `Renders a midi file's pianoroll to a png`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 2 {
			panic("Need 2 args...")
		}
		renderFile(args[0], args[1])
	},
}

func renderFile(midiPath, pngPath string) {
	parsed, err := midifile.Read(midiPath)
	if err != nil {
		panic("Could not read midi file: " + err.Error())
	}
	roll, err := midifile.ToPianoroll(parsed, constants.BeatResolution)
	if err != nil {
		panic("Could not rasterize midi file: " + err.Error())
	}
	opts := render.Options{MinPitch: 0, MaxPitch: 127, BeatResolution: constants.BeatResolution}
	if err := render.WritePNG(roll, pngPath, opts); err != nil {
		panic("Could not render: " + err.Error())
	}
	fmt.Printf("Wrote %v (%v ticks)\n", pngPath, roll.NumTicks())
}
