package repository

import (
	"context"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type ContestRepository interface {
	Create(ctx context.Context, contest *entity.Contest) error
	GetByID(ctx context.Context, id string) (*entity.Contest, error)
	GetByCode(ctx context.Context, code string) (*entity.Contest, error)
	GetList(ctx context.Context) ([]entity.Contest, error)
}

type contestRepository struct{}

func NewContestRepository() *contestRepository {
	return &contestRepository{}
}

func (r *contestRepository) Create(ctx context.Context, contest *entity.Contest) error {
	return xcontext.DB(ctx).Create(contest).Error
}

func (r *contestRepository) GetByID(ctx context.Context, id string) (*entity.Contest, error) {
	var result entity.Contest
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contestRepository) GetByCode(ctx context.Context, code string) (*entity.Contest, error) {
	var result entity.Contest
	if err := xcontext.DB(ctx).Take(&result, "code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *contestRepository) GetList(ctx context.Context) ([]entity.Contest, error) {
	var result []entity.Contest
	if err := xcontext.DB(ctx).Order("created_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}
