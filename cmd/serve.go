package cmd

import (
	"encoding/json"
	"fmt"
	"image/png"
	"log"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/bep/debounce"
	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/dataset"
	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/pianoroll"
	"github.com/comperml/pianoprep/render"
	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"
)

var serveManifest model.Manifest

// rescans arrive in bursts when someone re-syncs the corpus; coalesce them
var rescanDebounced = debounce.New(2 * time.Second)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serves dataset stats and unit renders",
	Long:  `Serves dataset stats and unit renders`,
	Run: func(cmd *cobra.Command, args []string) {
		serve()
	},
}

func LoadServeFiles() {
	serveManifest = dataset.LoadManifest(constants.GetDatasetDir())
}

func HandleShards(w http.ResponseWriter, r *http.Request) {
	res := make([]model.ShardStats, 0)
	for _, overview := range serveManifest.Shards {
		shard := dataset.LoadShard(filepath.Join(constants.GetDatasetDir(), overview.Filename))
		res = append(res, dataset.Stats(shard, overview.Filename))
	}
	json.NewEncoder(w).Encode(res)
}

func findOverview(filename string) (model.ShardOverview, bool) {
	for _, overview := range serveManifest.Shards {
		if overview.Filename == filename {
			return overview, true
		}
	}
	return model.ShardOverview{}, false
}

func HandleRender(w http.ResponseWriter, r *http.Request) {
	shardName := r.URL.Query().Get("shard")
	idx, err := strconv.Atoi(r.URL.Query().Get("unit"))
	if err != nil {
		http.Error(w, "unit must be an integer", 400)
		return
	}

	overview, ok := findOverview(shardName)
	if !ok {
		http.Error(w, "no such shard", 404)
		return
	}
	shard := dataset.LoadShard(filepath.Join(constants.GetDatasetDir(), overview.Filename))
	if idx < 0 || idx >= len(shard.InputUnits) {
		http.Error(w, fmt.Sprintf("unit must be in [0,%v)", len(shard.InputUnits)), 400)
		return
	}

	// the last unit has no successor; show a blank panel there
	inputNext := pianoroll.New(serveManifest.TicksPerUnit, serveManifest.NumPitches)
	compNext := inputNext
	if idx+1 < len(shard.InputUnits) {
		inputNext = shard.InputUnits[idx+1]
		compNext = shard.CompUnits[idx+1]
	}

	opts := render.Options{
		MinPitch:       serveManifest.MinPitch,
		MaxPitch:       serveManifest.MinPitch + serveManifest.NumPitches - 1,
		BeatResolution: constants.BeatResolution,
	}
	img, err := render.FourUnits(shard.InputUnits[idx], inputNext, shard.CompUnits[idx], compNext, opts)
	if err != nil {
		http.Error(w, err.Error(), 500)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	png.Encode(w, img)
}

func HandleRescan(w http.ResponseWriter, r *http.Request) {
	rescanDebounced(func() {
		Prepare(0)
		LoadServeFiles()
	})
	w.WriteHeader(http.StatusAccepted)
}

func serve() {
	LoadServeFiles()

	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/shards", HandleShards).Methods("GET")
	router.HandleFunc("/render", HandleRender).Methods("GET")
	router.HandleFunc("/rescan", HandleRescan).Methods("POST")
	log.Fatal(http.ListenAndServe(":8080", cors.Default().Handler(router)))
}
