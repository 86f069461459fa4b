package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/comperml/pianoprep/dataset"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(inspectCmd)
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <shard.dat>",
	Short: "Inspects a unit shard",
	Long:  `Inspects a unit shard`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			panic("Need 1 arg...")
		}
		inspect(args[0])
	},
}

func inspect(path string) {
	shard := dataset.LoadShard(path)
	stats := dataset.Stats(shard, filepath.Base(path))

	fmt.Printf("songNum: %v\n", stats.SongNum)
	fmt.Printf("path: %v\n", shard.Path)
	fmt.Printf("numUnits: %v\n", stats.NumUnits)
	fmt.Printf("meanDensity: %v\n", stats.MeanDensity)
	for i, u := range shard.InputUnits {
		fmt.Printf("unit %v: input mean %v, comp mean %v\n", i, u.Mean(), shard.CompUnits[i].Mean())
	}
}
