package repository

import (
	"context"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type TriviaResponseRepository interface {
	// Create fails with gorm.ErrDuplicatedKey if the identity already answered
	// the trivia.
	Create(ctx context.Context, response *entity.TriviaResponse) error
	Get(ctx context.Context, identityID, triviaID string) (*entity.TriviaResponse, error)
	GetByIdentityIDs(ctx context.Context, identityIDs []string) ([]entity.TriviaResponse, error)
	GetByTriviaID(ctx context.Context, triviaID string) ([]entity.TriviaResponse, error)
	CountByIdentityIDs(ctx context.Context, identityIDs []string) ([]ParticipationCount, error)
}

type triviaResponseRepository struct{}

func NewTriviaResponseRepository() *triviaResponseRepository {
	return &triviaResponseRepository{}
}

func (r *triviaResponseRepository) Create(ctx context.Context, response *entity.TriviaResponse) error {
	return xcontext.DB(ctx).Create(response).Error
}

func (r *triviaResponseRepository) Get(
	ctx context.Context, identityID, triviaID string,
) (*entity.TriviaResponse, error) {
	var result entity.TriviaResponse
	err := xcontext.DB(ctx).
		Take(&result, "identity_id=? AND trivia_id=?", identityID, triviaID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *triviaResponseRepository) GetByIdentityIDs(
	ctx context.Context, identityIDs []string,
) ([]entity.TriviaResponse, error) {
	var result []entity.TriviaResponse
	err := xcontext.DB(ctx).
		Preload("Trivia").
		Preload("Question").
		Where("identity_id IN (?)", identityIDs).
		Order("answered_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *triviaResponseRepository) GetByTriviaID(
	ctx context.Context, triviaID string,
) ([]entity.TriviaResponse, error) {
	var result []entity.TriviaResponse
	err := xcontext.DB(ctx).
		Preload("Identity").
		Preload("Question").
		Where("trivia_id=?", triviaID).
		Order("answered_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *triviaResponseRepository) CountByIdentityIDs(
	ctx context.Context, identityIDs []string,
) ([]ParticipationCount, error) {
	result := []ParticipationCount{}
	if len(identityIDs) == 0 {
		return result, nil
	}

	err := xcontext.DB(ctx).Model(&entity.TriviaResponse{}).
		Select("identity_id, COUNT(*) AS count, COALESCE(SUM(points_awarded), 0) AS points").
		Where("identity_id IN (?)", identityIDs).
		Group("identity_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
