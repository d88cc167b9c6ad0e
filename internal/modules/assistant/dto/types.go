package dto

type SummarizeInput struct {
	Snippets []string
	Language string
}

type TipInput struct {
	Stage     int
	StageName string
}

type TextOutput struct {
	Text     string
	Fallback bool
}

type DoctorResult struct {
	Name            string
	BinaryReachable bool
	ChecksumValid   bool
	LifecycleOK     bool
	Selected        bool
	Error           string
}
