package flow

import (
	"strings"

	"upmoney/pkg/utils"
)

// Session holds the state of a single chat: where we are in the catalog
// and what has been answered so far. One submission is processed at a
// time; callers serialize access (see the session store).
type Session struct {
	Token    string
	Position int
	Answers  map[string]string
}

func NewSession(token string) *Session {
	return &Session{Token: token, Answers: make(map[string]string)}
}

// Terminal reports whether the flow is complete for the given catalog
// length. Position == len(catalog) is the sentinel.
func (s *Session) Terminal(catalogLen int) bool { return s.Position >= catalogLen }

// Outcome tags the result of a submission.
type Outcome string

const (
	// OutcomeAnswered means the value was recorded and the flow advanced.
	OutcomeAnswered Outcome = "answered"
	// OutcomeValidationFailed means the value was rejected with a
	// user-facing message; nothing changed.
	OutcomeValidationFailed Outcome = "validation_failed"
	// OutcomeRejected means the value was outside the allowed options.
	// That is a client bug, not user error; nothing changed.
	OutcomeRejected Outcome = "rejected"
	// OutcomeRestarted means the session was reset to the first question.
	OutcomeRestarted Outcome = "restarted"
	// OutcomeScheduling means the user picked the scheduling control.
	// The choice is not recorded and the position does not move.
	OutcomeScheduling Outcome = "open_scheduling"
	// OutcomeCompleted means the flow advanced past the last question.
	OutcomeCompleted Outcome = "completed"
)

// Result is what a submission produced. Next is the question now
// awaiting an answer (nil once terminal). When Persist is set the
// accumulated answers must be handed to the persistence gateway before
// Next is presented; Snapshot is a copy that is safe to use after the
// session moves on.
type Result struct {
	Outcome  Outcome
	Position int
	Next     *Question
	Message  string
	Persist  bool
	Snapshot map[string]string
}

// Engine sequences one catalog. It is stateless and safe to share
// across sessions.
type Engine struct {
	catalog *Catalog
}

func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

func (e *Engine) Catalog() *Catalog { return e.catalog }

func (e *Engine) TotalSteps() int { return e.catalog.Len() }

// CurrentQuestion returns the question the session is waiting on.
func (e *Engine) CurrentQuestion(s *Session) (*Question, bool) {
	return e.catalog.QuestionAt(s.Position)
}

// Restart resets the session from any state back to the first question.
func (e *Engine) Restart(s *Session) Result {
	s.Position = 0
	s.Answers = make(map[string]string)
	first, _ := e.catalog.QuestionAt(0)
	return Result{Outcome: OutcomeRestarted, Position: 0, Next: first}
}

// Submit validates rawValue for the question the session is currently
// on, records it, and advances the position applying skip rules. Every
// failure mode is a value: the engine never panics on bad input.
func (e *Engine) Submit(s *Session, questionID, rawValue string) Result {
	current, ok := e.catalog.QuestionAt(s.Position)
	if !ok {
		// Flow already finished; only an explicit restart moves it.
		return Result{Outcome: OutcomeRejected, Position: s.Position}
	}
	if questionID != current.ID {
		// Stale or out-of-order submission; re-present the question.
		return e.rejected(s, current)
	}

	var value string
	switch current.Kind {
	case KindEmail:
		norm := utils.NormalizeEmail(rawValue)
		if !utils.IsValidEmail(norm) {
			return Result{
				Outcome:  OutcomeValidationFailed,
				Position: s.Position,
				Next:     current,
				Message:  "E-mail inválido. Confira e tente novamente.",
			}
		}
		value = norm
	default:
		opt := current.option(strings.TrimSpace(rawValue))
		if opt == nil {
			return e.rejected(s, current)
		}
		switch opt.Action {
		case ActionRestart:
			return e.Restart(s)
		case ActionSchedule:
			// A terminal action, not an answer: nothing is recorded and
			// the position stays put.
			return Result{Outcome: OutcomeScheduling, Position: s.Position, Next: current}
		}
		value = opt.Label
	}

	s.Answers[current.ID] = value
	s.Position = e.advance(s.Position, s.Answers)

	res := Result{Outcome: OutcomeAnswered, Position: s.Position}
	if next, ok := e.catalog.QuestionAt(s.Position); ok {
		res.Next = next
	} else {
		res.Outcome = OutcomeCompleted
	}

	// The save must be requested before the closing step is rendered,
	// so abandoning at the last screen still leaves a record behind.
	if s.Position >= e.catalog.ClosingIndex() {
		res.Persist = true
		res.Snapshot = copyAnswers(s.Answers)
	}
	return res
}

func (e *Engine) rejected(s *Session, current *Question) Result {
	return Result{Outcome: OutcomeRejected, Position: s.Position, Next: current}
}

// advance computes the next position, applying at most one skip rule.
// Rules are evaluated in catalog order after the current submission has
// been merged, so a rule may key off the answer just given. Earliest
// matching rule wins.
func (e *Engine) advance(pos int, answers map[string]string) int {
	next := pos + 1
	q, ok := e.catalog.QuestionAt(next)
	if !ok {
		return next
	}
	for i := range e.catalog.Rules {
		r := &e.catalog.Rules[i]
		if r.Target == q.ID && r.matches(answers) {
			next++
			break
		}
	}
	return next
}

func copyAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
