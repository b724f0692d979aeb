package request_models

// SaveOnboardingRequest is the direct save endpoint used by the
// standalone "finalizar onboarding" page, where the e-mail is optional
// unless the caller demands it.
type SaveOnboardingRequest struct {
	Email        string            `json:"email,omitempty"`
	Answers      map[string]string `json:"answers"`
	RequireEmail bool              `json:"require_email,omitempty"`
}
