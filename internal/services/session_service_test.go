package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"upmoney/internal/flow"
	"upmoney/internal/models/db_models"
	"upmoney/internal/models/response_models"
	"upmoney/internal/services"
	"upmoney/pkg/memcache"
	"upmoney/pkg/utils"
)

// recordingGateway captures SaveCompleted calls on a channel so tests
// can wait for the async persist dispatch.
type recordingGateway struct {
	saved chan savedCall
	err   error
}

type savedCall struct {
	token   string
	answers map[string]string
}

func newRecordingGateway() *recordingGateway {
	return &recordingGateway{saved: make(chan savedCall, 4)}
}

func (g *recordingGateway) SaveCompleted(_ context.Context, token string, answers map[string]string) error {
	g.saved <- savedCall{token: token, answers: answers}
	return g.err
}

func (g *recordingGateway) Save(context.Context, string, map[string]string, bool) (*db_models.OnboardingResponse, error) {
	return nil, nil
}

func (g *recordingGateway) ListRecent(context.Context, int) ([]db_models.OnboardingResponse, error) {
	return nil, nil
}

func newChatService(t *testing.T, gateway services.OnboardingServiceInterface) services.ChatServiceInterface {
	t.Helper()
	engine := flow.NewEngine(flow.DefaultCatalog())
	return services.NewChatService(engine, memcache.NewSessionStore(time.Minute), gateway, "")
}

// answerStep submits the obvious value for the step the response asks
// for: the first answer option, or a fixed address on the e-mail step.
func answerStep(t *testing.T, svc services.ChatServiceInterface, resp *response_models.ChatStepResponse) *response_models.ChatStepResponse {
	t.Helper()
	value := ""
	if resp.Kind == string(flow.KindEmail) {
		value = "aluno@upmoney.com.br"
	} else {
		for _, opt := range resp.Options {
			if opt.Action == string(flow.ActionAnswer) {
				value = opt.Label
				break
			}
		}
	}
	if value == "" {
		t.Fatalf("step %q has nothing to answer", resp.QuestionID)
	}
	next, err := svc.Submit(context.Background(), resp.SessionToken, resp.QuestionID, value)
	if err != nil {
		t.Fatalf("Submit(%q) = %v", resp.QuestionID, err)
	}
	if next.Outcome != string(flow.OutcomeAnswered) {
		t.Fatalf("Submit(%q) outcome = %q", resp.QuestionID, next.Outcome)
	}
	return next
}

// driveToClosing walks a fresh session up to the closing step.
func driveToClosing(t *testing.T, svc services.ChatServiceInterface) *response_models.ChatStepResponse {
	t.Helper()
	resp, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession() = %v", err)
	}
	for i := 0; i < resp.TotalSteps; i++ {
		if resp.Position == resp.TotalSteps-1 {
			return resp
		}
		resp = answerStep(t, svc, resp)
	}
	t.Fatal("never reached the closing step")
	return nil
}

func TestStartSessionPresentsFirstQuestion(t *testing.T) {
	svc := newChatService(t, newRecordingGateway())
	resp, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatalf("StartSession() = %v", err)
	}
	if resp.SessionToken == "" {
		t.Error("no session token issued")
	}
	if resp.QuestionID != "welcome" || resp.Bot == "" {
		t.Errorf("first step = %q (%q), want the welcome prompt", resp.QuestionID, resp.Bot)
	}
	if resp.Position != 0 {
		t.Errorf("position = %d, want 0", resp.Position)
	}
}

func TestPersistDispatchedWhenClosingStepIsReached(t *testing.T) {
	gateway := newRecordingGateway()
	svc := newChatService(t, gateway)

	resp := driveToClosing(t, svc)
	if resp.QuestionID != "done" {
		t.Fatalf("closing step = %q, want done", resp.QuestionID)
	}

	select {
	case call := <-gateway.saved:
		if call.token != resp.SessionToken {
			t.Errorf("persisted token = %q, want %q", call.token, resp.SessionToken)
		}
		if call.answers["email"] != "aluno@upmoney.com.br" {
			t.Errorf("persisted e-mail = %q", call.answers["email"])
		}
		if call.answers["goal"] == "" {
			t.Error("persisted snapshot is missing early answers")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("SaveCompleted was never called")
	}
}

func TestPersistedSnapshotIsDetachedFromSession(t *testing.T) {
	gateway := newRecordingGateway()
	svc := newChatService(t, gateway)

	resp := driveToClosing(t, svc)
	call := <-gateway.saved
	snapshot := make(map[string]string, len(call.answers))
	for k, v := range call.answers {
		snapshot[k] = v
	}

	// Restarting wipes the live session; the captured snapshot must
	// still hold every answer.
	if _, err := svc.Restart(context.Background(), resp.SessionToken); err != nil {
		t.Fatalf("Restart() = %v", err)
	}
	if diff := cmp.Diff(snapshot, call.answers); diff != "" {
		t.Errorf("snapshot changed after restart:\n%s", diff)
	}
}

func TestSchedulingReturnsURLWithoutAdvancing(t *testing.T) {
	gateway := newRecordingGateway()
	svc := newChatService(t, gateway)
	resp := driveToClosing(t, svc)
	<-gateway.saved

	sched, err := svc.Submit(context.Background(), resp.SessionToken, "done", "📅 Agendar agora")
	if err != nil {
		t.Fatalf("Submit(schedule) = %v", err)
	}
	if sched.Outcome != string(flow.OutcomeScheduling) {
		t.Fatalf("outcome = %q, want open_scheduling", sched.Outcome)
	}
	if sched.SchedulingURL != services.DefaultSchedulingURL {
		t.Errorf("scheduling url = %q, want default", sched.SchedulingURL)
	}
	if sched.Position != resp.Position {
		t.Errorf("position moved from %d to %d", resp.Position, sched.Position)
	}

	select {
	case <-gateway.saved:
		t.Error("scheduling triggered a second persist")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestRestartResetsFlow(t *testing.T) {
	svc := newChatService(t, newRecordingGateway())
	start, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	resp := answerStep(t, svc, start)
	resp = answerStep(t, svc, resp)

	resp, err = svc.Restart(context.Background(), start.SessionToken)
	if err != nil {
		t.Fatalf("Restart() = %v", err)
	}
	if resp.Outcome != string(flow.OutcomeRestarted) {
		t.Errorf("outcome = %q, want restarted", resp.Outcome)
	}
	if resp.Position != 0 || resp.QuestionID != "welcome" {
		t.Errorf("restart landed on %q at %d, want welcome at 0", resp.QuestionID, resp.Position)
	}
}

func TestUnknownSessionToken(t *testing.T) {
	svc := newChatService(t, newRecordingGateway())

	if _, err := svc.Submit(context.Background(), "ghost", "welcome", "Começar"); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Errorf("Submit(ghost) = %v, want ErrSessionNotFound", err)
	}
	if _, err := svc.Restart(context.Background(), "ghost"); !errors.Is(err, utils.ErrSessionNotFound) {
		t.Errorf("Restart(ghost) = %v, want ErrSessionNotFound", err)
	}
}

func TestValidationFailureKeepsStep(t *testing.T) {
	svc := newChatService(t, newRecordingGateway())
	start, err := svc.StartSession(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	resp := start
	for resp.Kind != string(flow.KindEmail) {
		resp = answerStep(t, svc, resp)
	}

	failed, err := svc.Submit(context.Background(), resp.SessionToken, resp.QuestionID, "sem-arroba")
	if err != nil {
		t.Fatalf("Submit(bad e-mail) = %v", err)
	}
	if failed.Outcome != string(flow.OutcomeValidationFailed) {
		t.Fatalf("outcome = %q, want validation_failed", failed.Outcome)
	}
	if failed.Message == "" {
		t.Error("validation failure carries no user-facing message")
	}
	if failed.Position != resp.Position || failed.QuestionID != resp.QuestionID {
		t.Errorf("validation failure moved the flow to %q at %d", failed.QuestionID, failed.Position)
	}
}
