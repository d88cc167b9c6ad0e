package dto

type BlockOutput struct {
	ID         int
	StartTime  string
	EndTime    string
	Activity   string
	IsCurrent  bool
	Selected   bool
	Status     string
	FocusScore *int
}

type DayOutput struct {
	Blocks       []BlockOutput
	CurrentIndex int
	Regenerated  bool
	Grid         string
}

type UpdateBlockInput struct {
	ID         int
	Activity   *string
	Status     *string
	FocusScore *int
}

type UpdateBlockOutput struct {
	Applied bool
	Day     DayOutput
}
