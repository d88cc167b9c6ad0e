package domain

type EventKind string

const (
	EventTick      EventKind = "tick"
	EventHarvested EventKind = "harvested"
	EventReset     EventKind = "reset"
)

// Harvest describes a completed session.
type Harvest struct {
	ItemID      string
	EntityID    string
	EntityType  string
	CompletedAt int64
	BlockID     int
	BlockMarked bool
	Reason      CompletionReason
}

type Event struct {
	Kind      EventKind
	Remaining int
	Stage     int
	Harvest   *Harvest
}
