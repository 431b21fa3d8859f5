package repository

import (
	"context"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type IdentityStatistic struct {
	TotalIdentities int64
	TotalPoints     uint64
	AveragePoints   float64
	MaxPoints       uint64
}

type IdentityRepository interface {
	Create(ctx context.Context, identity *entity.Identity) error
	GetByID(ctx context.Context, id string) (*entity.Identity, error)
	GetByIDs(ctx context.Context, ids []string) ([]entity.Identity, error)
	GetByBiometricRef(ctx context.Context, ref string) (*entity.Identity, error)
	GetByEmail(ctx context.Context, email string) (*entity.Identity, error)
	GetByEmployeeCode(ctx context.Context, code string) (*entity.Identity, error)
	GetExistingBiometricRefs(ctx context.Context, refs []string) ([]string, error)
	GetList(ctx context.Context) ([]entity.Identity, error)
	GetLeaderboard(ctx context.Context, limit int) ([]entity.Identity, error)
	Statistic(ctx context.Context) (*IdentityStatistic, error)
	IncreasePoint(ctx context.Context, id string, points uint64) error
	MarkCompanion(ctx context.Context, id string) error
}

type identityRepository struct{}

func NewIdentityRepository() *identityRepository {
	return &identityRepository{}
}

func (r *identityRepository) Create(ctx context.Context, identity *entity.Identity) error {
	return xcontext.DB(ctx).Create(identity).Error
}

func (r *identityRepository) GetByID(ctx context.Context, id string) (*entity.Identity, error) {
	var result entity.Identity
	if err := xcontext.DB(ctx).Take(&result, "id=?", id).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *identityRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Identity, error) {
	var result []entity.Identity
	if err := xcontext.DB(ctx).Find(&result, "id IN (?)", ids).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *identityRepository) GetByBiometricRef(ctx context.Context, ref string) (*entity.Identity, error) {
	var result entity.Identity
	if err := xcontext.DB(ctx).Take(&result, "biometric_ref=?", ref).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (*entity.Identity, error) {
	var result entity.Identity
	if err := xcontext.DB(ctx).Take(&result, "email=?", email).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *identityRepository) GetByEmployeeCode(ctx context.Context, code string) (*entity.Identity, error) {
	var result entity.Identity
	if err := xcontext.DB(ctx).Take(&result, "employee_code=?", code).Error; err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *identityRepository) GetExistingBiometricRefs(ctx context.Context, refs []string) ([]string, error) {
	result := []string{}
	if len(refs) == 0 {
		return result, nil
	}

	err := xcontext.DB(ctx).Model(&entity.Identity{}).
		Where("biometric_ref IN (?)", refs).
		Pluck("biometric_ref", &result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *identityRepository) GetList(ctx context.Context) ([]entity.Identity, error) {
	var result []entity.Identity
	if err := xcontext.DB(ctx).Order("enrolled_at DESC").Find(&result).Error; err != nil {
		return nil, err
	}

	return result, nil
}

func (r *identityRepository) GetLeaderboard(ctx context.Context, limit int) ([]entity.Identity, error) {
	var result []entity.Identity
	err := xcontext.DB(ctx).
		Order("point_balance DESC").
		Order("enrolled_at ASC").
		Limit(limit).
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *identityRepository) Statistic(ctx context.Context) (*IdentityStatistic, error) {
	var result struct {
		Total int64
		Sum   float64
		Avg   float64
		Max   float64
	}

	err := xcontext.DB(ctx).Model(&entity.Identity{}).
		Select("COUNT(*) AS total, COALESCE(SUM(point_balance), 0) AS sum, " +
			"COALESCE(AVG(point_balance), 0) AS avg, COALESCE(MAX(point_balance), 0) AS max").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return &IdentityStatistic{
		TotalIdentities: result.Total,
		TotalPoints:     uint64(result.Sum),
		AveragePoints:   result.Avg,
		MaxPoints:       uint64(result.Max),
	}, nil
}

func (r *identityRepository) IncreasePoint(ctx context.Context, id string, points uint64) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Identity{}).
		Where("id=?", id).
		Update("point_balance", gorm.Expr("point_balance+?", points))
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *identityRepository) MarkCompanion(ctx context.Context, id string) error {
	tx := xcontext.DB(ctx).
		Model(&entity.Identity{}).
		Where("id=?", id).
		Update("is_companion", true)
	if tx.Error != nil {
		return tx.Error
	}

	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}
