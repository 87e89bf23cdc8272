package postgres

import (
	"context"
	"errors"

	"github.com/sandy0637R/AI-Interviewer-Backend/internal/models"
	"github.com/sandy0637R/AI-Interviewer-Backend/internal/utils"
	"gorm.io/gorm"
)

type FeedbackArchiveRepo interface {
	Insert(ctx context.Context, rec *models.FeedbackRecord) error
	GetBySessionID(ctx context.Context, sessionID string) (*models.FeedbackRecord, error)
	LatestN(ctx context.Context, n int) ([]models.FeedbackRecord, error)
}

type feedbackArchiveRepo struct {
	db *gorm.DB
}

func NewFeedbackArchiveRepo(db *gorm.DB) FeedbackArchiveRepo {
	return &feedbackArchiveRepo{db: db}
}

func (r *feedbackArchiveRepo) Insert(ctx context.Context, rec *models.FeedbackRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *feedbackArchiveRepo) GetBySessionID(ctx context.Context, sessionID string) (*models.FeedbackRecord, error) {
	var rec models.FeedbackRecord
	err := r.db.WithContext(ctx).Where("session_id = ?", sessionID).Take(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.ErrNotFound
	}
	return &rec, err
}

func (r *feedbackArchiveRepo) LatestN(ctx context.Context, n int) ([]models.FeedbackRecord, error) {
	if n <= 0 {
		n = 20
	}
	var rows []models.FeedbackRecord
	err := r.db.WithContext(ctx).
		Order("completed_at DESC").
		Limit(n).
		Find(&rows).Error
	return rows, err
}
