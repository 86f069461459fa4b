package model

type SongNumToMidiPath = map[uint32]string

type SongMetadata struct {
	Artist  string
	Release string
	Title   string
	Year    uint
}

type SongInfo struct {
	Path     string
	NumUnits int
	Metadata *SongMetadata
}

type ShardOverview struct {
	Filename string
	SongNum  uint32
	NumUnits int
}

type Manifest struct {
	Songs        map[uint32]SongInfo
	Shards       []ShardOverview
	TicksPerUnit int
	MinPitch     int
	NumPitches   int
}
