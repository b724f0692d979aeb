package response_models

// AnswerCount is one slice of a per-question frequency chart.
type AnswerCount struct {
	Value   string  `json:"value"`
	Count   int64   `json:"count"`
	Percent float64 `json:"percent"`
}

// QuestionBreakdown is the frequency distribution of one question,
// sorted by count descending.
type QuestionBreakdown struct {
	Key    string        `json:"key"`
	Prompt string        `json:"prompt"`
	Total  int64         `json:"total"`
	Items  []AnswerCount `json:"items"`
}

type DashboardReport struct {
	TotalResponses int64               `json:"total_responses"`
	Limit          int                 `json:"limit"`
	Breakdowns     []QuestionBreakdown `json:"breakdowns"`
	// ExtraBreakdowns covers answer keys found in stored rows that are
	// not part of the current catalog.
	ExtraBreakdowns []QuestionBreakdown `json:"extra_breakdowns,omitempty"`
}

// Persona is a simple content-ready segment derived from one answer
// set with string heuristics.
type Persona struct {
	Name  string `json:"name"`
	Angle string `json:"angle"`
	Hook  string `json:"hook"`
}

type PersonaCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type InsightsReport struct {
	TotalResponses int64          `json:"total_responses"`
	Personas       []PersonaCount `json:"personas"`
	TopHooks       []string       `json:"top_hooks"`
}
