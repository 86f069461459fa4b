package cmd

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pianoprep",
	Short: "Pianoroll data prep for the accompaniment model",
	Long: `Turns a MIDI corpus into paired left/right-hand pianoroll units for
training, and bundles the inspection tools that go with it (render, play,
report, serve).`,
}

func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}
