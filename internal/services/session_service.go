package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"upmoney/internal/flow"
	"upmoney/internal/models/response_models"
	"upmoney/pkg/memcache"
	"upmoney/pkg/utils"
)

// DefaultSchedulingURL is where the closing step's schedule button
// points unless SCHEDULING_URL overrides it.
const DefaultSchedulingURL = "https://calendly.com/upmoney/meu-primeiro-dividendo"

const schedulingConfirmation = "Perfeito! ✅ Abri o link de agendamento pra você. Assim que escolher o horário, me avise no WhatsApp."

// outcomeStarted is only ever produced by StartSession; the engine has
// no notion of it.
const outcomeStarted = "started"

const persistTimeout = 10 * time.Second

type ChatServiceInterface interface {
	StartSession(ctx context.Context) (*response_models.ChatStepResponse, error)
	Submit(ctx context.Context, token, questionID, value string) (*response_models.ChatStepResponse, error)
	Restart(ctx context.Context, token string) (*response_models.ChatStepResponse, error)
}

// ChatService owns the live sessions and wires the flow engine to the
// persistence gateway. One submission per session is processed at a
// time; the store's per-session lock enforces that.
type ChatService struct {
	engine        *flow.Engine
	sessions      *memcache.SessionStore
	gateway       OnboardingServiceInterface
	schedulingURL string
}

func NewChatService(
	engine *flow.Engine,
	sessions *memcache.SessionStore,
	gateway OnboardingServiceInterface,
	schedulingURL string,
) ChatServiceInterface {
	if schedulingURL == "" {
		schedulingURL = DefaultSchedulingURL
	}
	return &ChatService{
		engine:        engine,
		sessions:      sessions,
		gateway:       gateway,
		schedulingURL: schedulingURL,
	}
}

func (s *ChatService) StartSession(ctx context.Context) (*response_models.ChatStepResponse, error) {
	sess := flow.NewSession(uuid.New().String())
	s.sessions.Put(sess)

	resp := &response_models.ChatStepResponse{
		SessionToken: sess.Token,
		Outcome:      outcomeStarted,
		Position:     0,
		TotalSteps:   s.engine.TotalSteps(),
	}
	if q, ok := s.engine.CurrentQuestion(sess); ok {
		fillQuestion(resp, q)
	}
	return resp, nil
}

func (s *ChatService) Submit(ctx context.Context, token, questionID, value string) (*response_models.ChatStepResponse, error) {
	sess, release, ok := s.sessions.Acquire(token)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	defer release()

	res := s.engine.Submit(sess, questionID, value)

	// Initiate the save before the next step is handed back, so the
	// closing question is never shown with nothing persisted behind it.
	if res.Persist {
		s.dispatchPersist(sess.Token, res.Snapshot)
	}

	resp := s.stepResponse(token, res)
	if res.Outcome == flow.OutcomeScheduling {
		resp.SchedulingURL = s.schedulingURL
		resp.Bot = schedulingConfirmation
	}
	return resp, nil
}

func (s *ChatService) Restart(ctx context.Context, token string) (*response_models.ChatStepResponse, error) {
	sess, release, ok := s.sessions.Acquire(token)
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	defer release()

	res := s.engine.Restart(sess)
	return s.stepResponse(token, res), nil
}

// dispatchPersist fires the save without blocking the conversation.
// The goroutine is launched before the caller renders the next step; a
// call still in flight when the user walks away may finish or fail on
// its own.
func (s *ChatService) dispatchPersist(token string, snapshot map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
		defer cancel()
		if err := s.gateway.SaveCompleted(ctx, token, snapshot); err != nil {
			log.Warn().Err(err).Str("session", token).Msg("onboarding save rejected")
		}
	}()
}

func (s *ChatService) stepResponse(token string, res flow.Result) *response_models.ChatStepResponse {
	resp := &response_models.ChatStepResponse{
		SessionToken: token,
		Outcome:      string(res.Outcome),
		Position:     res.Position,
		TotalSteps:   s.engine.TotalSteps(),
		Message:      res.Message,
		Completed:    res.Outcome == flow.OutcomeCompleted,
	}
	if res.Next != nil {
		fillQuestion(resp, res.Next)
	}
	return resp
}

func fillQuestion(resp *response_models.ChatStepResponse, q *flow.Question) {
	resp.QuestionID = q.ID
	resp.Bot = q.Prompt
	resp.Kind = string(q.Kind)
	for _, opt := range q.Options {
		resp.Options = append(resp.Options, response_models.ChatOption{
			Label:  opt.Label,
			Action: string(opt.Action),
		})
	}
}
