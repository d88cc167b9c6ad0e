package domain

import "time"

// Layout fixes the shape of a generated day.
type Layout struct {
	BlockMinutes int
	DayBlocks    int
}

func DefaultLayout() Layout {
	return Layout{BlockMinutes: 90, DayBlocks: 16}
}

// Grid decides where block 0 starts and which block is current.
type Grid interface {
	Name() string
	// Anchor is the minute of day block 0 is expected to start at.
	Anchor(now time.Time) int
	// CurrentIndex is the block containing now, in [0, dayBlocks).
	CurrentIndex(now time.Time, dayBlocks int) int
	// Day labels the planning day now falls in. An empty label means lists
	// are not tied to a date.
	Day(now time.Time) string
}

func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// CurrentSlotGrid starts the day at the slot containing now, so block 0 is
// always current.
type CurrentSlotGrid struct {
	BlockMinutes int
}

func (CurrentSlotGrid) Name() string { return "current-slot" }

func (g CurrentSlotGrid) Anchor(now time.Time) int {
	return (MinuteOfDay(now) / g.BlockMinutes) * g.BlockMinutes
}

func (CurrentSlotGrid) CurrentIndex(time.Time, int) int { return 0 }

func (CurrentSlotGrid) Day(time.Time) string { return "" }

// DayStartGrid pins block 0 to a fixed minute of day.
type DayStartGrid struct {
	BlockMinutes int
	Start        int
}

func (DayStartGrid) Name() string { return "day-start" }

func (g DayStartGrid) Anchor(time.Time) int { return g.Start }

func (g DayStartGrid) CurrentIndex(now time.Time, dayBlocks int) int {
	offset := (MinuteOfDay(now) - g.Start + minutesPerDay) % minutesPerDay
	idx := offset / g.BlockMinutes
	if idx >= dayBlocks {
		idx = dayBlocks - 1
	}
	return idx
}

// Day is the calendar date of the day that began at Start, so the hours
// after midnight and before Start still belong to the previous day.
func (g DayStartGrid) Day(now time.Time) string {
	return now.Add(-time.Duration(g.Start) * time.Minute).Format("2006-01-02")
}

// Generate lays out a fresh day of pending blocks. Start times keep
// counting past midnight; only their rendering wraps.
func Generate(grid Grid, layout Layout, now time.Time) []TimeBlock {
	anchor := grid.Anchor(now)
	current := grid.CurrentIndex(now, layout.DayBlocks)
	blocks := make([]TimeBlock, 0, layout.DayBlocks)
	for i := 0; i < layout.DayBlocks; i++ {
		start := anchor + i*layout.BlockMinutes
		blocks = append(blocks, TimeBlock{
			ID:        i,
			StartTime: ClockTime(start),
			EndTime:   ClockTime(start + layout.BlockMinutes),
			IsCurrent: i == current,
			Status:    StatusPending,
		})
	}
	return blocks
}

// Fresh reports whether a persisted list still belongs to the grid at now:
// block 0 must start within tolerance minutes of the anchor. Dates are
// compared separately through Grid.Day.
func Fresh(blocks []TimeBlock, grid Grid, now time.Time, tolerance int) bool {
	if len(blocks) == 0 {
		return false
	}
	diff := blocks[0].StartTime.MinuteOfDay() - grid.Anchor(now)
	if diff < 0 {
		diff = -diff
	}
	return diff < tolerance
}

// CurrentOf returns the index of the block flagged current, or -1.
func CurrentOf(blocks []TimeBlock) int {
	for i, b := range blocks {
		if b.IsCurrent {
			return i
		}
	}
	return -1
}

// Valid reports whether blocks have the shape Generate produces for layout.
func Valid(blocks []TimeBlock, layout Layout) bool {
	if len(blocks) != layout.DayBlocks {
		return false
	}
	for i, b := range blocks {
		if b.ID != i || b.Status.Validate() != nil {
			return false
		}
	}
	return true
}
