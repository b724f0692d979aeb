package response_models

type ChatOption struct {
	Label  string `json:"label"`
	Action string `json:"action,omitempty"`
}

// ChatStepResponse is one turn of the conversation: the outcome of the
// last submission plus the question now awaiting an answer.
type ChatStepResponse struct {
	SessionToken  string       `json:"session_token"`
	Outcome       string       `json:"outcome"`
	Position      int          `json:"position"`
	TotalSteps    int          `json:"total_steps"`
	QuestionID    string       `json:"question_id,omitempty"`
	Bot           string       `json:"bot,omitempty"`
	Kind          string       `json:"kind,omitempty"`
	Options       []ChatOption `json:"options,omitempty"`
	Message       string       `json:"message,omitempty"`
	SchedulingURL string       `json:"scheduling_url,omitempty"`
	Completed     bool         `json:"completed"`
}
