package dataset

import (
	"fmt"
	"math/rand"
	"path/filepath"
	"sort"

	"github.com/comperml/pianoprep/constants"
	"github.com/comperml/pianoprep/db"
	"github.com/comperml/pianoprep/midifile"
	"github.com/comperml/pianoprep/model"
	"github.com/comperml/pianoprep/pianoroll"
	"github.com/comperml/pianoprep/unit"
	"github.com/comperml/pianoprep/util"
	"github.com/google/uuid"
)

const ManifestFilename = "manifest.dat"

// Options configures one corpus run. Zero values fall back to the dataset
// constants (full pitch range, middle-C partition, 4-beat units).
type Options struct {
	TicksPerUnit    int
	PartitionNote   int
	MinPitch        int
	MaxPitch        int
	FilterThreshold float64

	// MaxNum limits how many corpus files are processed; 0 means all.
	MaxNum int
}

func (o Options) withDefaults() Options {
	if o.TicksPerUnit == 0 {
		o.TicksPerUnit = constants.TicksPerUnit
	}
	if o.PartitionNote == 0 {
		o.PartitionNote = constants.PartitionNote
	}
	if o.MaxPitch == 0 {
		o.MaxPitch = 127
	}
	return o
}

func (o Options) numPitches() int {
	return o.MaxPitch - o.MinPitch + 1
}

// Shard holds one song's paired training units.
type Shard struct {
	SongNum    uint32
	Path       string
	InputUnits []pianoroll.Pianoroll
	CompUnits  []pianoroll.Pianoroll
}

func createSongNumMap(paths []string) model.SongNumToMidiPath {
	res := make(model.SongNumToMidiPath)
	for i, v := range paths {
		res[uint32(i)] = v
	}
	return res
}

func prepareSong(path string, opts Options, rng *rand.Rand) ([]unit.Unit, []unit.Unit, error) {
	parsed, err := midifile.Read(path)
	if err != nil {
		return nil, nil, err
	}
	roll, err := midifile.ToPianoroll(parsed, constants.BeatResolution)
	if err != nil {
		return nil, nil, err
	}
	if opts.MinPitch != 0 || opts.MaxPitch != 127 {
		roll, err = pianoroll.Crop(roll, opts.MinPitch, opts.MaxPitch)
		if err != nil {
			return nil, nil, err
		}
	}
	return unit.CreateUnits(roll, opts.numPitches(), opts.TicksPerUnit,
		opts.PartitionNote, opts.MinPitch, opts.FilterThreshold, rng)
}

// Prepare runs the whole pipeline: walk the corpus, rasterize and segment
// every song, write one uuid-named gob shard per song that produced units,
// and finish with a manifest tying song numbers to paths, unit counts and
// (when configured) metadata. Unparseable songs are skipped with a note.
func Prepare(corpusDir, outDir string, opts Options, rng *rand.Rand) (model.Manifest, error) {
	opts = opts.withDefaults()
	if opts.numPitches() < 1 || opts.MinPitch < 0 || opts.MaxPitch > 127 {
		return model.Manifest{}, pianoroll.RangeError{Param: "minPitch", Value: opts.MinPitch, Min: 0, Max: opts.MaxPitch}
	}

	util.RecreateDir(outDir)
	songNums := createSongNumMap(util.GatherAllMidiPaths(corpusDir, opts.MaxNum))

	manifest := model.Manifest{
		Songs:        make(map[uint32]model.SongInfo),
		TicksPerUnit: opts.TicksPerUnit,
		MinPitch:     opts.MinPitch,
		NumPitches:   opts.numPitches(),
	}

	keys := util.GetKeys(songNums)
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	for i, num := range keys {
		path := songNums[num]
		fmt.Printf("Processing %v of %v midi files\n", i+1, len(keys))

		input, comp, err := prepareSong(path, opts, rng)
		if err != nil {
			fmt.Printf("Skipping %v because: %v\n", path, err)
			continue
		}
		if len(input) == 0 {
			fmt.Printf("Skipping %v because no units survived filtering\n", path)
			continue
		}

		shard := Shard{SongNum: num, Path: path, InputUnits: input, CompUnits: comp}
		filename := uuid.New().String() + ".dat"
		util.CreateBinary(filepath.Join(outDir, filename), shard)

		manifest.Shards = append(manifest.Shards, model.ShardOverview{
			Filename: filename,
			SongNum:  num,
			NumUnits: len(input),
		})
		manifest.Songs[num] = model.SongInfo{Path: path, NumUnits: len(input)}
	}

	if db.Enabled() {
		attachMetadata(&manifest)
	}

	util.CreateBinary(filepath.Join(outDir, ManifestFilename), manifest)
	return manifest, nil
}

// attachMetadata looks corpus filenames up in the metadata table, batching
// to the DynamoDB BatchGetItem limit.
func attachMetadata(manifest *model.Manifest) {
	nums := util.GetKeys(manifest.Songs)
	for start := 0; start < len(nums); start += 10 {
		end := util.Min(start+10, len(nums))
		batch := nums[start:end]

		var filenames []string
		for _, num := range batch {
			filenames = append(filenames, filepath.Base(manifest.Songs[num].Path))
		}
		metadatas := db.GetSongMetadatas(filenames)
		for _, num := range batch {
			info := manifest.Songs[num]
			if md, ok := metadatas[filepath.Base(info.Path)]; ok {
				info.Metadata = &md
				manifest.Songs[num] = info
			}
		}
	}
}

func LoadShard(path string) Shard {
	return util.ReadBinaryOrPanic[Shard](path)
}

func LoadManifest(dir string) model.Manifest {
	return util.ReadBinaryOrPanic[model.Manifest](filepath.Join(dir, ManifestFilename))
}

// Stats summarizes a shard for reporting.
func Stats(shard Shard, filename string) model.ShardStats {
	var sum float64
	for _, u := range shard.InputUnits {
		sum += u.Mean()
	}
	var mean float64
	if len(shard.InputUnits) > 0 {
		mean = sum / float64(len(shard.InputUnits))
	}
	return model.ShardStats{
		Filename:    filename,
		SongNum:     shard.SongNum,
		NumUnits:    len(shard.InputUnits),
		MeanDensity: mean,
	}
}
