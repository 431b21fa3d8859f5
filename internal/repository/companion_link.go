package repository

import (
	"context"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

type CompanionLinkRepository interface {
	Create(ctx context.Context, link *entity.CompanionLink) error
	GetByPrincipalID(ctx context.Context, principalID string) (*entity.CompanionLink, error)
	GetByCompanionID(ctx context.Context, companionID string) (*entity.CompanionLink, error)
	GetByPrincipalIDs(ctx context.Context, principalIDs []string) ([]entity.CompanionLink, error)
}

type companionLinkRepository struct{}

func NewCompanionLinkRepository() *companionLinkRepository {
	return &companionLinkRepository{}
}

func (r *companionLinkRepository) Create(ctx context.Context, link *entity.CompanionLink) error {
	return xcontext.DB(ctx).Create(link).Error
}

func (r *companionLinkRepository) GetByPrincipalID(ctx context.Context, principalID string) (*entity.CompanionLink, error) {
	var result entity.CompanionLink
	if err := xcontext.DB(ctx).Take(&result, "principal_id=?", principalID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *companionLinkRepository) GetByCompanionID(ctx context.Context, companionID string) (*entity.CompanionLink, error) {
	var result entity.CompanionLink
	if err := xcontext.DB(ctx).Take(&result, "companion_id=?", companionID).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *companionLinkRepository) GetByPrincipalIDs(
	ctx context.Context, principalIDs []string,
) ([]entity.CompanionLink, error) {
	var result []entity.CompanionLink
	err := xcontext.DB(ctx).
		Preload("Companion").
		Find(&result, "principal_id IN (?)", principalIDs).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
