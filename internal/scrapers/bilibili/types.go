package bilibili

// RelationStat is the data of /x/relation/stat.
type RelationStat struct {
	Mid       int64 `json:"mid"`
	Following int64 `json:"following"`
	Whisper   int64 `json:"whisper"`
	Black     int64 `json:"black"`
	Follower  int64 `json:"follower"`
}

type viewCount struct {
	View int64 `json:"view"`
}

// UpStat is the data of /x/space/upstat, it needs a logged in session.
type UpStat struct {
	Archive viewCount `json:"archive"`
	Article viewCount `json:"article"`
	Likes   int64     `json:"likes"`
}

// NavNum is the data of /x/space/navnum.
type NavNum struct {
	Video   int64 `json:"video"`
	Bangumi int64 `json:"bangumi"`
	Cinema  int64 `json:"cinema"`
	Article int64 `json:"article"`
	Album   int64 `json:"album"`
	Audio   int64 `json:"audio"`
	Opus    int64 `json:"opus"`
}
