package dto

type SnapshotOutput struct {
	State            string
	SecondsRemaining int
	Duration         int
	Fraction         float64
	Stage            int
	StageName        string
	StageTable       string
	SelectedEntityID string
	BlockID          int
	HasBlock         bool
}

type HarvestOutput struct {
	ItemID      string
	EntityID    string
	EntityType  string
	CompletedAt int64
	BlockID     int
	BlockMarked bool
	Reason      string
}

type TransitionOutput struct {
	Snapshot SnapshotOutput
	Harvest  *HarvestOutput
}

type EventOutput struct {
	Kind      string
	Remaining int
	Stage     int
	Harvest   *HarvestOutput
}
