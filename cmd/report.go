package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/dataset"
	"github.com/comperml/pianoprep/util"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(reportCmd)
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Creates a report over the prepared dataset",
	Long:  `Creates a report over the prepared dataset`,
	Run: func(cmd *cobra.Command, args []string) {
		report()
	},
}

type datasetReport struct {
	numSongs      int
	numShards     int
	numUnits      int64
	unitsPerShard []int64
	meanDensity   float64
}

func analyzeDataset() datasetReport {
	var report datasetReport

	dir := constants.GetDatasetDir()
	manifest := dataset.LoadManifest(dir)
	report.numSongs = len(manifest.Songs)
	report.numShards = len(manifest.Shards)

	var densitySum float64
	for _, overview := range manifest.Shards {
		report.unitsPerShard = append(report.unitsPerShard, int64(overview.NumUnits))
		shard := dataset.LoadShard(filepath.Join(dir, overview.Filename))
		densitySum += dataset.Stats(shard, overview.Filename).MeanDensity
	}
	report.numUnits = int64(util.Sum(report.unitsPerShard))
	if report.numShards > 0 {
		report.meanDensity = densitySum / float64(report.numShards)
	}
	return report
}

func report() {
	r := analyzeDataset()
	fmt.Printf("report.numSongs: %v\n", r.numSongs)
	fmt.Printf("report.numShards: %v\n", r.numShards)
	fmt.Printf("report.numUnits: %v\n", r.numUnits)
	fmt.Printf("report.unitsPerShard: %v\n", r.unitsPerShard)
	fmt.Printf("report.meanDensity: %v\n", r.meanDensity)
}
