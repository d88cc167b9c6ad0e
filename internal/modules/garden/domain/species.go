package domain

import "fmt"

type EntityType string

const (
	EntityPlant  EntityType = "PLANT"
	EntityAnimal EntityType = "ANIMAL"
)

func (t EntityType) Validate() error {
	switch t {
	case EntityPlant, EntityAnimal:
		return nil
	default:
		return fmt.Errorf("unsupported entity type %q", string(t))
	}
}

// Collection is the gallery name the entity type is shown under.
func (t EntityType) Collection() string {
	if t == EntityAnimal {
		return "pasture"
	}
	return "forest"
}

type Species struct {
	ID    string
	Type  EntityType
	Label string
	// Selectable species are offered for new sessions. The rest only
	// appear in histories written by earlier versions.
	Selectable bool
}

var catalog = []Species{
	{ID: "pine", Type: EntityPlant, Label: "Pine Tree", Selectable: true},
	{ID: "flower", Type: EntityPlant, Label: "Flower", Selectable: true},
	{ID: "carrot", Type: EntityPlant, Label: "Carrot", Selectable: true},
	{ID: "pumpkin", Type: EntityPlant, Label: "Pumpkin"},
	{ID: "cat", Type: EntityAnimal, Label: "Cat", Selectable: true},
	{ID: "dog", Type: EntityAnimal, Label: "Dog", Selectable: true},
	{ID: "rabbit", Type: EntityAnimal, Label: "Rabbit", Selectable: true},
	{ID: "bird", Type: EntityAnimal, Label: "Bird", Selectable: true},
	{ID: "chicken", Type: EntityAnimal, Label: "Chicken"},
	{ID: "pig", Type: EntityAnimal, Label: "Pig"},
	{ID: "cow", Type: EntityAnimal, Label: "Cow"},
}

// animals must list every animal id: anything missing classifies as a plant.
var animals = map[string]struct{}{
	"cat":     {},
	"dog":     {},
	"rabbit":  {},
	"bird":    {},
	"chicken": {},
	"pig":     {},
	"cow":     {},
}

func Classify(entityID string) EntityType {
	if _, ok := animals[entityID]; ok {
		return EntityAnimal
	}
	return EntityPlant
}

func Catalog() []Species {
	return append([]Species(nil), catalog...)
}

// SpeciesOf returns the catalog entries of one type, in catalog order.
func SpeciesOf(t EntityType) []Species {
	out := make([]Species, 0, len(catalog))
	for _, s := range catalog {
		if s.Type == t {
			out = append(out, s)
		}
	}
	return out
}

func Lookup(id string) (Species, bool) {
	for _, s := range catalog {
		if s.ID == id {
			return s, true
		}
	}
	return Species{}, false
}
