package constants

import "os"

// Dataset definitions. BeatResolution is set by the encoding of the lpd-5
// dataset and corresponds to the number of ticks per beat.
const NumMidiPitches = 128
const BeatResolution = 24
const BeatsPerUnit = 4
const TicksPerUnit = BeatsPerUnit * BeatResolution

// PartitionNote splits left- and right-hand accompaniments at middle C.
const PartitionNote = 60

// CompChannel is the MIDI channel accompaniment playback goes out on.
const CompChannel = 5

const DefaultBpm = 120.0

func GetDatasetDir() string {
	path := os.Getenv("DATASET_PATH")
	if path != "" {
		return path
	}
	return "./out"
}

func GetMediaDir() string {
	path := os.Getenv("MEDIA_PATH")
	if path != "" {
		return path
	}

	panic("MEDIA_PATH environment variable is not set!")
}

func GetSynthCommand() string {
	path := os.Getenv("SYNTH_PATH")
	if path != "" {
		return path
	}
	return "timidity"
}

func GetMetadataTable() string {
	table := os.Getenv("METADATA_TABLE")
	if table != "" {
		return table
	}
	return "pianoprep-metadata"
}
