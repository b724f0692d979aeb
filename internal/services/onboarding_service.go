package services

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"upmoney/internal/models/db_models"
	"upmoney/internal/repositories"
	"upmoney/pkg/backup"
	"upmoney/pkg/utils"
)

// IdentityMode selects what a persisted record is keyed by.
type IdentityMode string

const (
	// IdentityModeEmail keys records by the normalized e-mail collected
	// in the chat. One row per e-mail, last write wins.
	IdentityModeEmail IdentityMode = "email"
	// IdentityModeSession keys records by the opaque session token.
	IdentityModeSession IdentityMode = "session"
	// IdentityModeAnonymous inserts a fresh row per completion.
	IdentityModeAnonymous IdentityMode = "anonymous"
)

func ParseIdentityMode(s string) IdentityMode {
	switch IdentityMode(s) {
	case IdentityModeSession:
		return IdentityModeSession
	case IdentityModeAnonymous:
		return IdentityModeAnonymous
	default:
		return IdentityModeEmail
	}
}

type OnboardingServiceInterface interface {
	// SaveCompleted persists a finished answer set from the chat flow.
	// A store failure is swallowed after writing the local fallback
	// snapshot; the chat must never stall on persistence.
	SaveCompleted(ctx context.Context, sessionToken string, answers map[string]string) error
	// Save is the direct save endpoint (admin page); store failures are
	// surfaced to the caller.
	Save(ctx context.Context, email string, answers map[string]string, requireEmail bool) (*db_models.OnboardingResponse, error)
	ListRecent(ctx context.Context, limit int) ([]db_models.OnboardingResponse, error)
}

type OnboardingService struct {
	repo    repositories.OnboardingRepositoryInterface
	backups *backup.Store
	mode    IdentityMode
}

func NewOnboardingService(
	repo repositories.OnboardingRepositoryInterface,
	backups *backup.Store,
	mode IdentityMode,
) OnboardingServiceInterface {
	return &OnboardingService{repo: repo, backups: backups, mode: mode}
}

func (s *OnboardingService) SaveCompleted(ctx context.Context, sessionToken string, answers map[string]string) error {
	if len(answers) == 0 {
		return utils.ErrNoAnswers
	}

	var identity *string
	var err error

	switch s.mode {
	case IdentityModeSession:
		identity = &sessionToken
		_, err = s.repo.UpsertBySessionToken(ctx, sessionToken, answers)

	case IdentityModeAnonymous:
		rec := &db_models.OnboardingResponse{Answers: answers}
		if email := utils.NormalizeEmail(answers["email"]); utils.IsValidEmail(email) {
			rec.Email = &email
			identity = &email
		}
		err = s.repo.Insert(ctx, rec)
		if errors.Is(err, utils.ErrDuplicateIdentity) && rec.Email != nil {
			_, err = s.repo.UpsertByEmail(ctx, *rec.Email, answers)
		}

	default: // IdentityModeEmail
		email := utils.NormalizeEmail(answers["email"])
		if !utils.IsValidEmail(email) {
			// Identity shape is checked before the store is touched.
			return utils.ErrInvalidEmail
		}
		identity = &email
		_, err = s.repo.UpsertByEmail(ctx, email, answers)
	}

	if err != nil {
		log.Warn().Err(err).Msg("remote save failed, writing local fallback snapshot")
		if werr := s.backups.Write(identity, answers); werr != nil {
			log.Error().Err(werr).Str("path", s.backups.Path()).Msg("fallback snapshot write failed")
		}
		// The session keeps going regardless of persistence outcome.
		return nil
	}
	return nil
}

func (s *OnboardingService) Save(ctx context.Context, email string, answers map[string]string, requireEmail bool) (*db_models.OnboardingResponse, error) {
	if len(answers) == 0 {
		return nil, utils.ErrNoAnswers
	}

	clean := utils.NormalizeEmail(email)
	if requireEmail && clean == "" {
		return nil, utils.ErrEmailRequired
	}
	if clean != "" && !utils.IsValidEmail(clean) {
		return nil, utils.ErrInvalidEmail
	}

	rec := &db_models.OnboardingResponse{Answers: answers}
	if clean != "" {
		rec.Email = &clean
	}

	err := s.repo.Insert(ctx, rec)
	if errors.Is(err, utils.ErrDuplicateIdentity) && clean != "" {
		// The e-mail already has a row; overwrite its answers in place.
		return s.repo.UpsertByEmail(ctx, clean, answers)
	}
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return rec, nil
}

func (s *OnboardingService) ListRecent(ctx context.Context, limit int) ([]db_models.OnboardingResponse, error) {
	if limit < 1 || limit > 5000 {
		return nil, utils.ErrInvalidLimit
	}
	rows, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return rows, nil
}
