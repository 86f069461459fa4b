package model

type ShardStats struct {
	Filename    string  `json:"filename"`
	SongNum     uint32  `json:"song_num"`
	NumUnits    int     `json:"num_units"`
	MeanDensity float64 `json:"mean_density"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
