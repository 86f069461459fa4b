package cmd

import (
	"math/rand"
	"strconv"
	"time"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/dataset"
	"github.com/spf13/cobra"
)

func init() {
	prepareCmd.Flags().IntVar(&prepareSeed, "seed", 0, "random seed for the left/right exchange (0 = time-based)")
	prepareCmd.Flags().Float64Var(&prepareThreshold, "threshold", 0, "drop units whose mean intensity is not above this")
	rootCmd.AddCommand(prepareCmd)
}

var prepareSeed int
var prepareThreshold float64

var prepareCmd = &cobra.Command{
	Use:   "prepare [maxNum]",
	Short: "Creates unit shards from the midi corpus",
	Long:  `Creates unit shards from the midi corpus`,
	Run: func(cmd *cobra.Command, args []string) {
		var maxNum int
		if len(args) == 1 {
			arg1, err := strconv.Atoi(args[0])
			if err != nil {
				panic(err)
			}
			maxNum = arg1
		}

		Prepare(maxNum)
	},
}

func Prepare(maxNum int) {
	seed := int64(prepareSeed)
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	opts := dataset.Options{MaxNum: maxNum, FilterThreshold: prepareThreshold}
	_, err := dataset.Prepare(constants.GetMediaDir(), constants.GetDatasetDir(), opts, rng)
	if err != nil {
		panic("Prepare failed: " + err.Error())
	}
}
