package dto

import "time"

type PlantInput struct {
	EntityID    string
	CompletedAt time.Time
}

type ItemOutput struct {
	ID          string
	EntityID    string
	Type        string
	Name        string
	PlantedAt   time.Time
	CompletedAt time.Time
}

type SpeciesOutput struct {
	ID         string
	Type       string
	Label      string
	Selectable bool
}

type CountOutput struct {
	Species  SpeciesOutput
	Quantity int
}

type CollectionOutput struct {
	Type   string
	Name   string
	Counts []CountOutput
	Total  int
}

type StatsOutput struct {
	Harvests int
	Plants   int
	Animals  int
	Today    int
}
