package models

// PoseEntry is the catalog record of one indexed pose file.
type PoseEntry struct {
	ID         string
	File       string
	Version    float32
	FPS        float32
	Frames     int
	People     int
	Points     int
	Dims       int
	Components []string
	RunID      string
}

type SemanticHit struct {
	Entry PoseEntry
	Score float32
}

// Index progress and stages
type IndexStage string

const (
	IndexStageScan    IndexStage = "scan"
	IndexStageParse   IndexStage = "parse"
	IndexStageEmbed   IndexStage = "embed"
	IndexStageCatalog IndexStage = "catalog"
	IndexStageDone    IndexStage = "done"
)

// IndexProgress represents streaming progress updates for indexing
type IndexProgress struct {
	Stage         IndexStage
	TotalFiles    int
	ParsedFiles   int
	TotalPoses    int
	EmbeddedPoses int
	CurrentFile   string
	Message       string
	Percent       float32
}
