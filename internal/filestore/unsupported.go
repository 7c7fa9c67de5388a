package filestore

import (
	"context"

	"ovra/internal/models"
)

// The file backend does not persist direct messages or assessments.
// Reads report empty state so the rest of the app keeps working; writes
// fail loudly.

func errUnsupported(feature string) error {
	return models.NewValidationError(feature + " requires the Postgres storage backend")
}

type messageStore struct{}

func (messageStore) Create(ctx context.Context, message *models.Message) error {
	return errUnsupported("Direct messaging")
}

func (messageStore) GetBetweenUsers(ctx context.Context, userID1, userID2 uint, limit, offset int) ([]models.Message, error) {
	return []models.Message{}, nil
}

func (messageStore) MarkConversationRead(ctx context.Context, readerID, peerID uint) (int64, error) {
	return 0, nil
}

func (messageStore) GetConversations(ctx context.Context, userID uint) ([]models.Conversation, error) {
	return []models.Conversation{}, nil
}

func (messageStore) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return 0, nil
}

type assessmentStore struct{}

func (assessmentStore) Create(ctx context.Context, assessment *models.Assessment) error {
	return errUnsupported("Assessments")
}

func (assessmentStore) GetByID(ctx context.Context, id uint) (*models.Assessment, error) {
	return nil, nil
}

func (assessmentStore) ListActive(ctx context.Context) ([]models.Assessment, error) {
	return []models.Assessment{}, nil
}

func (assessmentStore) SaveResult(ctx context.Context, result *models.AssessmentResult) error {
	return errUnsupported("Assessments")
}

func (assessmentStore) GetResultsForUser(ctx context.Context, userID uint) ([]models.AssessmentResult, error) {
	return []models.AssessmentResult{}, nil
}
