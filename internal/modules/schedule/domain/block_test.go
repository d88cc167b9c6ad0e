package domain_test

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"blockgarden/internal/modules/schedule/domain"
)

func at(h, m int) time.Time {
	return time.Date(2026, 3, 4, h, m, 0, 0, time.Local)
}

func TestGenerateCurrentSlotShapeForEveryMinute(t *testing.T) {
	t.Parallel()
	layout := domain.DefaultLayout()
	grid := domain.CurrentSlotGrid{BlockMinutes: layout.BlockMinutes}
	for minute := 0; minute < 24*60; minute++ {
		now := at(minute/60, minute%60)
		blocks := domain.Generate(grid, layout, now)
		if len(blocks) != 16 {
			t.Fatalf("minute %d: expected 16 blocks, got %d", minute, len(blocks))
		}
		anchor := (minute / 90) * 90
		current := 0
		for i, b := range blocks {
			if b.ID != i {
				t.Fatalf("minute %d: block %d has id %d", minute, i, b.ID)
			}
			if int(b.StartTime) != anchor+i*90 || int(b.EndTime)-int(b.StartTime) != 90 {
				t.Fatalf("minute %d: block %d spans %d..%d", minute, i, b.StartTime, b.EndTime)
			}
			if i > 0 && blocks[i-1].EndTime != b.StartTime {
				t.Fatalf("minute %d: blocks %d and %d are not contiguous", minute, i-1, i)
			}
			if b.Status != domain.StatusPending || b.Activity != "" || b.FocusScore != nil {
				t.Fatalf("minute %d: block %d is not blank pending: %+v", minute, i, b)
			}
			if b.IsCurrent {
				current++
			}
		}
		if current != 1 || !blocks[0].IsCurrent {
			t.Fatalf("minute %d: expected block 0 as only current block", minute)
		}
	}
}

func TestGenerateWrapsDisplayPastMidnight(t *testing.T) {
	t.Parallel()
	layout := domain.DefaultLayout()
	blocks := domain.Generate(domain.CurrentSlotGrid{BlockMinutes: 90}, layout, at(14, 30))
	if blocks[0].StartTime.String() != "13:30" {
		t.Fatalf("expected 13:30 anchor, got %s", blocks[0].StartTime)
	}
	if blocks[7].StartTime.String() != "00:00" {
		t.Fatalf("expected block 7 to wrap to 00:00, got %s", blocks[7].StartTime)
	}
	if blocks[15].EndTime.String() != "13:30" {
		t.Fatalf("expected day to close at 13:30, got %s", blocks[15].EndTime)
	}
}

func TestGenerateDayStartMarksContainingBlock(t *testing.T) {
	t.Parallel()
	layout := domain.DefaultLayout()
	grid := domain.DayStartGrid{BlockMinutes: 90, Start: 360}
	for minute := 0; minute < 24*60; minute += 7 {
		now := at(minute/60, minute%60)
		blocks := domain.Generate(grid, layout, now)
		if blocks[0].StartTime.String() != "06:00" {
			t.Fatalf("day-start block 0 must start at 06:00, got %s", blocks[0].StartTime)
		}
		idx := domain.CurrentOf(blocks)
		if idx < 0 {
			t.Fatalf("minute %d: no current block", minute)
		}
		start := blocks[idx].StartTime.MinuteOfDay()
		offset := (minute - start + 1440) % 1440
		if offset >= 90 {
			t.Fatalf("minute %d: current block %d (%s) does not contain now", minute, idx, blocks[idx].StartTime)
		}
	}
}

func TestDayStartGridDayBeginsAtStart(t *testing.T) {
	t.Parallel()
	grid := domain.DayStartGrid{BlockMinutes: 90, Start: 360}
	cases := map[time.Time]string{
		time.Date(2026, 3, 4, 6, 0, 0, 0, time.Local):   "2026-03-04",
		time.Date(2026, 3, 4, 23, 59, 0, 0, time.Local): "2026-03-04",
		time.Date(2026, 3, 5, 5, 59, 0, 0, time.Local):  "2026-03-04",
		time.Date(2026, 3, 5, 6, 0, 0, 0, time.Local):   "2026-03-05",
	}
	for now, want := range cases {
		if got := grid.Day(now); got != want {
			t.Fatalf("%s: expected day %s, got %s", now.Format("2006-01-02 15:04"), want, got)
		}
	}
	if got := (domain.CurrentSlotGrid{BlockMinutes: 90}).Day(time.Now()); got != "" {
		t.Fatalf("current-slot lists are not tied to a date, got %q", got)
	}
}

func TestFreshTolerance(t *testing.T) {
	t.Parallel()
	grid := domain.CurrentSlotGrid{BlockMinutes: 90}
	saved := []domain.TimeBlock{{ID: 0, StartTime: domain.ClockTime(13*60 + 30)}}
	cases := []struct {
		now  time.Time
		want bool
	}{
		{at(14, 0), true},
		{at(14, 59), true},
		{at(15, 0), false},
		{at(12, 0), false},
	}
	for _, tc := range cases {
		if got := domain.Fresh(saved, grid, tc.now, 5); got != tc.want {
			t.Fatalf("fresh at %s: got %v want %v", tc.now.Format("15:04"), got, tc.want)
		}
	}
	if domain.Fresh(nil, grid, at(14, 0), 5) {
		t.Fatalf("empty list is never fresh")
	}
	nearby := []domain.TimeBlock{{StartTime: domain.ClockTime(13*60 + 34)}}
	if !domain.Fresh(nearby, grid, at(14, 0), 5) {
		t.Fatalf("4 minutes off should be within tolerance")
	}
	off := []domain.TimeBlock{{StartTime: domain.ClockTime(13*60 + 35)}}
	if domain.Fresh(off, grid, at(14, 0), 5) {
		t.Fatalf("5 minutes off must be stale")
	}
}

func TestMergeOnlyTouchesTarget(t *testing.T) {
	t.Parallel()
	blocks := domain.Generate(domain.CurrentSlotGrid{BlockMinutes: 90}, domain.DefaultLayout(), at(9, 0))
	activity := "deep work"
	status := domain.StatusCompleted
	score := 100
	out, ok := domain.Merge(blocks, 3, domain.Patch{Activity: &activity, Status: &status, FocusScore: &score})
	if !ok {
		t.Fatalf("expected merge to find block 3")
	}
	for i := range out {
		if i == 3 {
			if out[i].Activity != activity || out[i].Status != status || *out[i].FocusScore != 100 {
				t.Fatalf("patch not applied: %+v", out[i])
			}
			continue
		}
		if out[i].Activity != "" || out[i].Status != domain.StatusPending || out[i].FocusScore != nil {
			t.Fatalf("block %d modified: %+v", i, out[i])
		}
	}
	if blocks[3].Activity != "" {
		t.Fatalf("input slice must not be mutated")
	}

	same, ok := domain.Merge(blocks, 99, domain.Patch{Activity: &activity})
	if ok || len(same) != len(blocks) || same[0].Activity != "" {
		t.Fatalf("unknown id must be a no-op")
	}
}

func TestPartialPatchKeepsOtherFields(t *testing.T) {
	t.Parallel()
	score := 40
	block := domain.TimeBlock{ID: 1, Activity: "reading", Status: domain.StatusActive, FocusScore: &score}
	status := domain.StatusMissed
	got := domain.Patch{Status: &status}.Apply(block)
	if got.Activity != "reading" || got.Status != domain.StatusMissed || *got.FocusScore != 40 {
		t.Fatalf("unexpected merge result: %+v", got)
	}
}

func TestPatchValidate(t *testing.T) {
	t.Parallel()
	bad := domain.Status("done")
	if err := (domain.Patch{Status: &bad}).Validate(); err == nil {
		t.Fatalf("expected invalid status error")
	}
	over := 101
	if err := (domain.Patch{FocusScore: &over}).Validate(); err == nil {
		t.Fatalf("expected out of range score error")
	}
	if !(domain.Patch{}).Empty() {
		t.Fatalf("zero patch should be empty")
	}
}

func TestTimeBlockJSONMatchesStoredShape(t *testing.T) {
	t.Parallel()
	raw := `[{"id":0,"startTime":"22:30","endTime":"00:00","activity":"","isCurrent":true,"status":"pending"},` +
		`{"id":1,"startTime":"00:00","endTime":"01:30","activity":"sleep","isCurrent":false,"status":"completed","focusScore":100}]`
	var blocks []domain.TimeBlock
	if err := json.Unmarshal([]byte(raw), &blocks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if blocks[0].StartTime.MinuteOfDay() != 22*60+30 || blocks[1].FocusScore == nil || *blocks[1].FocusScore != 100 {
		t.Fatalf("unexpected decode: %+v", blocks)
	}
	encoded, err := json.Marshal(blocks[0])
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(string(encoded), `"startTime":"22:30"`) || strings.Contains(string(encoded), "focusScore") {
		t.Fatalf("unexpected encoding %s", encoded)
	}
}

func TestParseClockTimeRejectsGarbage(t *testing.T) {
	t.Parallel()
	for _, v := range []string{"", "1230", "24:00", "12:60", "ab:cd"} {
		if _, err := domain.ParseClockTime(v); err == nil {
			t.Fatalf("expected error for %q", v)
		}
	}
}
