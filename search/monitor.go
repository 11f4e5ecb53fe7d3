package search

import "github.com/poiesic/glimpse/core"

// Stage names a step of the search pipeline.
type Stage string

const (
	StageLocation  Stage = "location"
	StageTrip      Stage = "trip"
	StageLabels    Stage = "labels"
	StageDate      Stage = "date"
	StagePeople    Stage = "people"
	StageSelf      Stage = "self"
	StageMediaType Stage = "media_type"
	StageActivity  Stage = "activity"
)

// SearchMonitor provides hooks to observe the search process.
// Implement this interface to trace each stage and its effect on the candidates.
type SearchMonitor interface {
	Start(searchID, query string)
	AfterParse(query *core.ParsedQuery)
	BeforeStage(stage Stage, candidates Candidates)
	AfterStage(stage Stage, candidates Candidates)
	SkippedStage(stage Stage, reason string)
	Finish(ids []core.AssetID)
}

// noopMonitor is a no-op implementation of SearchMonitor
type noopMonitor struct{}

var _ SearchMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_, _ string)                   {}
func (n *noopMonitor) AfterParse(_ *core.ParsedQuery)      {}
func (n *noopMonitor) BeforeStage(_ Stage, _ Candidates)   {}
func (n *noopMonitor) AfterStage(_ Stage, _ Candidates)    {}
func (n *noopMonitor) SkippedStage(_ Stage, _ string)      {}
func (n *noopMonitor) Finish(_ []core.AssetID)             {}
