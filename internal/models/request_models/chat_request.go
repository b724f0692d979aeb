package request_models

type ChatSubmitRequest struct {
	SessionToken string `json:"session_token"`
	QuestionID   string `json:"question_id"`
	Value        string `json:"value"`
}

type ChatRestartRequest struct {
	SessionToken string `json:"session_token"`
}
