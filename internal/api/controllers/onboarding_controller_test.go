package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"upmoney/internal/models/db_models"
	"upmoney/internal/services"
	"upmoney/pkg/utils"
)

type stubOnboardingService struct {
	rec  *db_models.OnboardingResponse
	rows []db_models.OnboardingResponse
	err  error

	gotEmail   string
	gotLimit   int
	gotRequire bool
}

func (s *stubOnboardingService) SaveCompleted(context.Context, string, map[string]string) error {
	return s.err
}

func (s *stubOnboardingService) Save(_ context.Context, email string, _ map[string]string, requireEmail bool) (*db_models.OnboardingResponse, error) {
	s.gotEmail, s.gotRequire = email, requireEmail
	return s.rec, s.err
}

func (s *stubOnboardingService) ListRecent(_ context.Context, limit int) ([]db_models.OnboardingResponse, error) {
	s.gotLimit = limit
	return s.rows, s.err
}

func onboardingRouter(svc services.OnboardingServiceInterface) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := NewOnboardingController(svc)
	r := gin.New()
	r.POST("/onboarding/save", ctrl.Save)
	r.GET("/onboarding/recent", ctrl.Recent)
	return r
}

func TestOnboardingSave(t *testing.T) {
	email := "aluno@upmoney.com.br"
	svc := &stubOnboardingService{rec: &db_models.OnboardingResponse{Email: &email}}
	r := onboardingRouter(svc)

	w, resp := doJSON(t, r, http.MethodPost, "/onboarding/save", map[string]any{
		"email":         email,
		"answers":       map[string]string{"goal": "Organizar minhas finanças"},
		"require_email": true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if resp.Status != "success" {
		t.Errorf("envelope status = %q", resp.Status)
	}
	if svc.gotEmail != email || !svc.gotRequire {
		t.Errorf("service got (%q, require=%v)", svc.gotEmail, svc.gotRequire)
	}
}

func TestOnboardingSaveErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"missing email", utils.ErrEmailRequired, http.StatusBadRequest},
		{"invalid email", utils.ErrInvalidEmail, http.StatusBadRequest},
		{"no answers", utils.ErrNoAnswers, http.StatusBadRequest},
		{"store down", utils.ErrDatabaseError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := onboardingRouter(&stubOnboardingService{err: tt.err})
			w, _ := doJSON(t, r, http.MethodPost, "/onboarding/save", map[string]any{
				"answers": map[string]string{"goal": "x"},
			})
			if w.Code != tt.want {
				t.Errorf("status = %d, want %d", w.Code, tt.want)
			}
		})
	}
}

func TestOnboardingRecent(t *testing.T) {
	svc := &stubOnboardingService{rows: []db_models.OnboardingResponse{{}}}
	r := onboardingRouter(svc)

	if w := get(r, "/onboarding/recent"); w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if svc.gotLimit != 100 {
		t.Errorf("default limit = %d, want 100", svc.gotLimit)
	}

	if w := get(r, "/onboarding/recent?limit=25"); w.Code != http.StatusOK {
		t.Errorf("limit=25: status = %d", w.Code)
	}
	if svc.gotLimit != 25 {
		t.Errorf("limit = %d, want 25", svc.gotLimit)
	}

	if w := get(r, "/onboarding/recent?limit=abc"); w.Code != http.StatusBadRequest {
		t.Errorf("bad limit: status = %d, want 400", w.Code)
	}
}
