package domain

// StageTable maps elapsed fraction to one of four growth stages.
type StageTable struct {
	Name       string
	Thresholds [3]float64
}

const FinalStage = 3

var (
	FrontLoaded = StageTable{Name: "front-loaded", Thresholds: [3]float64{0.10, 0.40, 0.80}}
	Quartile    = StageTable{Name: "quartile", Thresholds: [3]float64{0.25, 0.50, 0.75}}
)

func StageTableByName(name string) (StageTable, bool) {
	switch name {
	case FrontLoaded.Name:
		return FrontLoaded, true
	case Quartile.Name:
		return Quartile, true
	default:
		return StageTable{}, false
	}
}

// Stage counts the thresholds reached by fraction.
func (t StageTable) Stage(fraction float64) int {
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	stage := 0
	for _, threshold := range t.Thresholds {
		if fraction >= threshold {
			stage++
		}
	}
	return stage
}

var stageNames = [...]string{"seed", "sprout", "growing", "grown"}

func StageName(stage int) string {
	if stage < 0 || stage >= len(stageNames) {
		return "unknown"
	}
	return stageNames[stage]
}
