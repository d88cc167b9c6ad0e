package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

const minutesPerDay = 24 * 60

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusMissed    Status = "missed"
)

func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusMissed:
		return nil
	default:
		return fmt.Errorf("unsupported block status %q", string(s))
	}
}

// ClockTime is a minute offset from midnight. Values past 24:00 are kept
// for arithmetic and wrap only when rendered.
type ClockTime int

func (c ClockTime) MinuteOfDay() int {
	return ((int(c) % minutesPerDay) + minutesPerDay) % minutesPerDay
}

func (c ClockTime) String() string {
	m := c.MinuteOfDay()
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

func ParseClockTime(v string) (ClockTime, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(v), ":")
	if !ok {
		return 0, fmt.Errorf("clock time %q: expected HH:MM", v)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("clock time %q: invalid hour", v)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("clock time %q: invalid minute", v)
	}
	return ClockTime(h*60 + m), nil
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	parsed, err := ParseClockTime(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// TimeBlock is one slot of the day plan. Field names match the stored
// block list stored by the browser extension.
type TimeBlock struct {
	ID         int       `json:"id"`
	StartTime  ClockTime `json:"startTime"`
	EndTime    ClockTime `json:"endTime"`
	Activity   string    `json:"activity"`
	IsCurrent  bool      `json:"isCurrent"`
	Status     Status    `json:"status"`
	FocusScore *int      `json:"focusScore,omitempty"`
}

// Patch is a partial update; nil fields are left untouched.
type Patch struct {
	Activity   *string
	Status     *Status
	FocusScore *int
}

func (p Patch) Validate() error {
	if p.Status != nil {
		if err := p.Status.Validate(); err != nil {
			return err
		}
	}
	if p.FocusScore != nil && (*p.FocusScore < 0 || *p.FocusScore > 100) {
		return fmt.Errorf("focus score %d out of range 0..100", *p.FocusScore)
	}
	return nil
}

func (p Patch) Empty() bool {
	return p.Activity == nil && p.Status == nil && p.FocusScore == nil
}

func (p Patch) Apply(block TimeBlock) TimeBlock {
	if p.Activity != nil {
		block.Activity = *p.Activity
	}
	if p.Status != nil {
		block.Status = *p.Status
	}
	if p.FocusScore != nil {
		score := *p.FocusScore
		block.FocusScore = &score
	}
	return block
}

// Merge applies patch to the block with the given id. It reports false,
// and returns blocks untouched, when no block has that id.
func Merge(blocks []TimeBlock, id int, patch Patch) ([]TimeBlock, bool) {
	for i := range blocks {
		if blocks[i].ID != id {
			continue
		}
		out := append([]TimeBlock(nil), blocks...)
		out[i] = patch.Apply(out[i])
		return out, true
	}
	return blocks, false
}
