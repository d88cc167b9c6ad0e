package domain

import "time"

// GardenItem is one harvest. Timestamps are Unix milliseconds.
type GardenItem struct {
	ID          string     `json:"id"`
	EntityID    string     `json:"entityId"`
	Type        EntityType `json:"type"`
	Name        string     `json:"name"`
	PlantedAt   int64      `json:"plantedAt"`
	CompletedAt int64      `json:"completedAt"`
}

// Harvest builds the record for a session that finished at completedAt.
// PlantedAt is back-dated by the full session duration, whatever the
// session actually lasted.
func Harvest(id, entityID string, completedAt time.Time, sessionDuration time.Duration) GardenItem {
	done := completedAt.UnixMilli()
	return GardenItem{
		ID:          id,
		EntityID:    entityID,
		Type:        Classify(entityID),
		Name:        entityID,
		PlantedAt:   done - sessionDuration.Milliseconds(),
		CompletedAt: done,
	}
}

func (i GardenItem) CompletedTime() time.Time {
	return time.UnixMilli(i.CompletedAt)
}

type SpeciesCount struct {
	Species  Species
	Quantity int
}

// Count tallies history per species of type t. Catalog species come
// first, zero counts included; unknown ids follow in first-seen order.
func Count(history []GardenItem, t EntityType) []SpeciesCount {
	counts := map[string]int{}
	order := []string{}
	for _, item := range history {
		if item.Type != t {
			continue
		}
		if _, seen := counts[item.EntityID]; !seen {
			order = append(order, item.EntityID)
		}
		counts[item.EntityID]++
	}
	out := []SpeciesCount{}
	known := map[string]struct{}{}
	for _, s := range SpeciesOf(t) {
		known[s.ID] = struct{}{}
		out = append(out, SpeciesCount{Species: s, Quantity: counts[s.ID]})
	}
	for _, id := range order {
		if _, ok := known[id]; ok {
			continue
		}
		out = append(out, SpeciesCount{Species: Species{ID: id, Type: t, Label: id}, Quantity: counts[id]})
	}
	return out
}

// OnDay filters history to items completed on the local calendar day of day.
func OnDay(history []GardenItem, day time.Time) []GardenItem {
	y, m, d := day.Date()
	out := []GardenItem{}
	for _, item := range history {
		iy, im, id := item.CompletedTime().In(day.Location()).Date()
		if iy == y && im == m && id == d {
			out = append(out, item)
		}
	}
	return out
}
