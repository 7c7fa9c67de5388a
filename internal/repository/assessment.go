package repository

import (
	"context"
	"errors"
	"fmt"

	"ovra/internal/models"

	"gorm.io/gorm"
)

// AssessmentRepository defines persistence operations for assessments.
// The feature has no routes; the repository exists for data continuity
// and the seed tooling.
type AssessmentRepository interface {
	Create(ctx context.Context, assessment *models.Assessment) error
	GetByID(ctx context.Context, id uint) (*models.Assessment, error)
	ListActive(ctx context.Context) ([]models.Assessment, error)
	SaveResult(ctx context.Context, result *models.AssessmentResult) error
	GetResultsForUser(ctx context.Context, userID uint) ([]models.AssessmentResult, error)
}

type assessmentRepository struct {
	db *gorm.DB
}

// NewAssessmentRepository creates a new assessment repository instance.
func NewAssessmentRepository(db *gorm.DB) AssessmentRepository {
	return &assessmentRepository{db: db}
}

func (r *assessmentRepository) Create(ctx context.Context, assessment *models.Assessment) error {
	if err := r.db.WithContext(ctx).Create(assessment).Error; err != nil {
		return fmt.Errorf("failed to create assessment: %w", err)
	}
	return nil
}

func (r *assessmentRepository) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	var assessment models.Assessment
	if err := r.db.WithContext(ctx).First(&assessment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get assessment: %w", err)
	}
	return &assessment, nil
}

func (r *assessmentRepository) ListActive(ctx context.Context) ([]models.Assessment, error) {
	var assessments []models.Assessment
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("created_at DESC").
		Find(&assessments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assessments: %w", err)
	}
	return assessments, nil
}

func (r *assessmentRepository) SaveResult(ctx context.Context, result *models.AssessmentResult) error {
	if err := r.db.WithContext(ctx).Create(result).Error; err != nil {
		return fmt.Errorf("failed to save assessment result: %w", err)
	}
	return nil
}

func (r *assessmentRepository) GetResultsForUser(ctx context.Context, userID uint) ([]models.AssessmentResult, error) {
	var results []models.AssessmentResult
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get assessment results: %w", err)
	}
	return results, nil
}
