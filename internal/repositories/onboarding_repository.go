package repositories

import (
	"context"
	"errors"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"upmoney/internal/models/db_models"
	"upmoney/pkg/utils"
)

type OnboardingRepositoryInterface interface {
	// UpsertByEmail keeps at most one row per e-mail; a re-submission
	// overwrites the previous answers snapshot in place.
	UpsertByEmail(ctx context.Context, email string, answers db_models.AnswerJSON) (*db_models.OnboardingResponse, error)
	UpsertBySessionToken(ctx context.Context, token string, answers db_models.AnswerJSON) (*db_models.OnboardingResponse, error)
	Insert(ctx context.Context, rec *db_models.OnboardingResponse) error
	// ListRecent returns the most recent rows, newest first.
	ListRecent(ctx context.Context, limit int) ([]db_models.OnboardingResponse, error)
}

type OnboardingRepository struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) *OnboardingRepository {
	return &OnboardingRepository{db: db}
}

func (r *OnboardingRepository) UpsertByEmail(ctx context.Context, email string, answers db_models.AnswerJSON) (*db_models.OnboardingResponse, error) {
	rec := &db_models.OnboardingResponse{Email: &email, Answers: answers}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *OnboardingRepository) UpsertBySessionToken(ctx context.Context, token string, answers db_models.AnswerJSON) (*db_models.OnboardingResponse, error) {
	rec := &db_models.OnboardingResponse{SessionToken: &token, Answers: answers}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "session_token"}},
			DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at"}),
		}).
		Create(rec).Error
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func (r *OnboardingRepository) Insert(ctx context.Context, rec *db_models.OnboardingResponse) error {
	err := r.db.WithContext(ctx).Create(rec).Error
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return utils.ErrDuplicateIdentity
	}
	return err
}

func (r *OnboardingRepository) ListRecent(ctx context.Context, limit int) ([]db_models.OnboardingResponse, error) {
	var rows []db_models.OnboardingResponse
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
