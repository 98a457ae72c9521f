package core

// Event is an input to Engine.Dispatch.
type Event interface {
	isEvent()
}

// Phase events.
type (
	// SubmitName names the fort and leaves name entry.
	SubmitName struct{ Name string }
	// ContinueDraw leaves card draw and starts the build timer.
	ContinueDraw struct{}
	// BuildTimeUp ends the build phase. The scheduler emits it when the
	// build timer elapses; a player may send it early.
	BuildTimeUp struct{}
	// CompleteDefense resolves the siege and enters repair.
	CompleteDefense struct{}
	// AdvanceRepair leaves repair and starts the round-end timer.
	AdvanceRepair struct{}
	// RoundEndElapsed starts the next round.
	RoundEndElapsed struct{}
	// Tick polls the phase deadline against the engine clock.
	Tick struct{}
)

// Player actions.
type (
	SelectTool struct{ Tool Tool }
	PlaceAt    struct{ At Coord }
	PlacePath  struct{ Path []Coord }
	RepairTile struct{ Key Key }
	PlayCard   struct{ CardID string }
	// ToggleFreeBuilder flips the debug free builder mode.
	ToggleFreeBuilder struct{}
	AddResources      struct{ Amounts Amounts }
	SetUnderground    struct{ On bool }
	SetWallType       struct{ WallType WallType }
)

func (SubmitName) isEvent()        {}
func (ContinueDraw) isEvent()      {}
func (BuildTimeUp) isEvent()       {}
func (CompleteDefense) isEvent()   {}
func (AdvanceRepair) isEvent()     {}
func (RoundEndElapsed) isEvent()   {}
func (Tick) isEvent()              {}
func (SelectTool) isEvent()        {}
func (PlaceAt) isEvent()           {}
func (PlacePath) isEvent()         {}
func (RepairTile) isEvent()        {}
func (PlayCard) isEvent()          {}
func (ToggleFreeBuilder) isEvent() {}
func (AddResources) isEvent()      {}
func (SetUnderground) isEvent()    {}
func (SetWallType) isEvent()       {}
