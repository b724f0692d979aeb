package db_models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AnswerJSON is the flat questionId -> answer snapshot stored as jsonb.
type AnswerJSON map[string]string

func (a AnswerJSON) Value() (driver.Value, error) {
	if a == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}

func (a *AnswerJSON) Scan(value interface{}) error {
	if value == nil {
		*a = AnswerJSON{}
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, a)
	case string:
		return json.Unmarshal([]byte(v), a)
	default:
		return fmt.Errorf("cannot scan %T into AnswerJSON", value)
	}
}

// OnboardingResponse is one completed (or completing) questionnaire.
// Depending on the deployment mode the row is keyed by normalized
// e-mail or by an opaque session token; anonymous saves leave both
// empty. Upserted rows keep their id and created_at, only the answers
// snapshot is overwritten.
type OnboardingResponse struct {
	BaseModel
	Email        *string    `gorm:"uniqueIndex" json:"email,omitempty"`
	SessionToken *string    `gorm:"uniqueIndex" json:"session_token,omitempty"`
	Answers      AnswerJSON `gorm:"type:jsonb;not null" json:"answers"`
}

func (OnboardingResponse) TableName() string { return "onboarding_questionnaire" }
