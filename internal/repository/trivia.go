package repository

import (
	"context"
	"time"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type TriviaRepository interface {
	Create(ctx context.Context, trivia *entity.Trivia) error
	CreateQuestions(ctx context.Context, questions []entity.TriviaQuestion) error
	GetByID(ctx context.Context, id string) (*entity.Trivia, error)

	// GetActive returns the active trivia whose window contains now. If many
	// windows overlap, the one started latest wins.
	GetActive(ctx context.Context, now time.Time) (*entity.Trivia, error)
	GetList(ctx context.Context) ([]entity.Trivia, error)
	GetQuestions(ctx context.Context, triviaID string) ([]entity.TriviaQuestion, error)
	GetQuestionByID(ctx context.Context, id string) (*entity.TriviaQuestion, error)
}

type triviaRepository struct{}

func NewTriviaRepository() *triviaRepository {
	return &triviaRepository{}
}

func (r *triviaRepository) Create(ctx context.Context, trivia *entity.Trivia) error {
	return xcontext.DB(ctx).Create(trivia).Error
}

func (r *triviaRepository) CreateQuestions(ctx context.Context, questions []entity.TriviaQuestion) error {
	if len(questions) == 0 {
		return nil
	}

	return xcontext.DB(ctx).Create(&questions).Error
}

func (r *triviaRepository) GetByID(ctx context.Context, id string) (*entity.Trivia, error) {
	var result entity.Trivia
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *triviaRepository) GetActive(ctx context.Context, now time.Time) (*entity.Trivia, error) {
	var result entity.Trivia
	err := xcontext.DB(ctx).
		Where("active=? AND window_start<=? AND window_end>=?", true, now, now).
		Order("window_start DESC").
		Take(&result).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *triviaRepository) GetList(ctx context.Context) ([]entity.Trivia, error) {
	var result []entity.Trivia
	if err := xcontext.DB(ctx).Order("window_start DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *triviaRepository) GetQuestions(ctx context.Context, triviaID string) ([]entity.TriviaQuestion, error) {
	var result []entity.TriviaQuestion
	err := xcontext.DB(ctx).
		Where("trivia_id=?", triviaID).
		Order("position ASC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *triviaRepository) GetQuestionByID(ctx context.Context, id string) (*entity.TriviaQuestion, error) {
	var result entity.TriviaQuestion
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}
