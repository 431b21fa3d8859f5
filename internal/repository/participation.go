package repository

import (
	"context"

	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ParticipationCount struct {
	IdentityID string
	Count      int64
	Points     uint64
}

type ParticipationRepository interface {
	// Create fails with gorm.ErrDuplicatedKey if the identity already has a row
	// for the contest, or if the contest already has a winner.
	Create(ctx context.Context, participation *entity.Participation) error

	// Accumulate inserts the participation or, if a row for the same identity
	// and contest exists, adds its points to the existing row.
	Accumulate(ctx context.Context, participation *entity.Participation) error

	Get(ctx context.Context, identityID, contestID string) (*entity.Participation, error)
	GetWinner(ctx context.Context, contestID string) (*entity.Participation, error)
	GetByIdentityIDs(ctx context.Context, identityIDs []string) ([]entity.Participation, error)
	GetByContestID(ctx context.Context, contestID string) ([]entity.Participation, error)
	CountByContestID(ctx context.Context, contestID string) (int64, error)
	CountByIdentityIDs(ctx context.Context, identityIDs []string) ([]ParticipationCount, error)
}

type participationRepository struct{}

func NewParticipationRepository() *participationRepository {
	return &participationRepository{}
}

func (r *participationRepository) Create(ctx context.Context, participation *entity.Participation) error {
	return xcontext.DB(ctx).Create(participation).Error
}

func (r *participationRepository) Accumulate(ctx context.Context, participation *entity.Participation) error {
	return xcontext.DB(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "identity_id"}, {Name: "contest_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"points_awarded":   gorm.Expr("points_awarded + ?", participation.PointsAwarded),
			"match_confidence": participation.MatchConfidence,
			"awarded_at":       participation.AwardedAt,
			"updated_at":       participation.AwardedAt,
		}),
	}).Create(participation).Error
}

func (r *participationRepository) Get(
	ctx context.Context, identityID, contestID string,
) (*entity.Participation, error) {
	var result entity.Participation
	err := xcontext.DB(ctx).
		Take(&result, "identity_id=? AND contest_id=?", identityID, contestID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participationRepository) GetWinner(ctx context.Context, contestID string) (*entity.Participation, error) {
	var result entity.Participation
	err := xcontext.DB(ctx).
		Preload("Identity").
		Take(&result, "winner_slot=?", contestID).Error
	if err != nil {
		return nil, err
	}

	return &result, nil
}

func (r *participationRepository) GetByIdentityIDs(
	ctx context.Context, identityIDs []string,
) ([]entity.Participation, error) {
	var result []entity.Participation
	err := xcontext.DB(ctx).
		Preload("Contest").
		Where("identity_id IN (?)", identityIDs).
		Order("awarded_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) GetByContestID(
	ctx context.Context, contestID string,
) ([]entity.Participation, error) {
	var result []entity.Participation
	err := xcontext.DB(ctx).
		Preload("Identity").
		Where("contest_id=?", contestID).
		Order("awarded_at DESC").
		Find(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (r *participationRepository) CountByContestID(ctx context.Context, contestID string) (int64, error) {
	var result int64
	err := xcontext.DB(ctx).Model(&entity.Participation{}).
		Where("contest_id=?", contestID).
		Count(&result).Error
	if err != nil {
		return 0, err
	}

	return result, nil
}

func (r *participationRepository) CountByIdentityIDs(
	ctx context.Context, identityIDs []string,
) ([]ParticipationCount, error) {
	result := []ParticipationCount{}
	if len(identityIDs) == 0 {
		return result, nil
	}

	err := xcontext.DB(ctx).Model(&entity.Participation{}).
		Select("identity_id, COUNT(*) AS count, COALESCE(SUM(points_awarded), 0) AS points").
		Where("identity_id IN (?)", identityIDs).
		Group("identity_id").
		Scan(&result).Error
	if err != nil {
		return nil, err
	}

	return result, nil
}
