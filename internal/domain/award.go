package domain

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type awardResult struct {
	NewBalance  uint64
	PrincipalID string
}

// pointAwarder is the only writer of point balances.
type pointAwarder struct {
	identityRepo      repository.IdentityRepository
	companionLinkRepo repository.CompanionLinkRepository
	leaderboard       statistic.Leaderboard
	publisher         pubsub.Publisher
}

func newPointAwarder(
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
) *pointAwarder {
	return &pointAwarder{
		identityRepo:      identityRepo,
		companionLinkRepo: companionLinkRepo,
		leaderboard:       leaderboard,
		publisher:         publisher,
	}
}

// award increases the balance of identityID and mirrors the increase to its
// principal. ctx must carry the transaction of the matching ledger write.
func (a *pointAwarder) award(ctx context.Context, identityID string, points uint64) (*awardResult, error) {
	result := &awardResult{}
	if points == 0 {
		identity, err := a.identityRepo.GetByID(ctx, identityID)
		if err != nil {
			return nil, err
		}

		result.NewBalance = identity.PointBalance
		return result, nil
	}

	if err := a.identityRepo.IncreasePoint(ctx, identityID, points); err != nil {
		return nil, err
	}

	link, err := a.companionLinkRepo.GetByCompanionID(ctx, identityID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err == nil && link.PrincipalID != identityID {
		if err := a.identityRepo.IncreasePoint(ctx, link.PrincipalID, points); err != nil {
			return nil, err
		}
		result.PrincipalID = link.PrincipalID
	}

	identity, err := a.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		return nil, err
	}
	result.NewBalance = identity.PointBalance

	return result, nil
}

// notify runs after the award is committed. Its failures never undo the
// award, they are only logged.
func (a *pointAwarder) notify(ctx context.Context, event *model.PointAwardedEvent) {
	common.PromCounters[common.PointsAwardedTotal].WithLabelValues(event.Source).Add(float64(event.Points))

	if err := a.leaderboard.Invalidate(ctx); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot invalidate leaderboard: %v", err)
	}

	b, err := json.Marshal(event)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot marshal award event: %v", err)
		return
	}

	topic := xcontext.Configs(ctx).Kafka.Topic
	err = a.publisher.Publish(ctx, topic, &pubsub.Pack{Key: []byte(event.IdentityID), Msg: b})
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot publish award event: %v", err)
	}
}

func newAwardEvent(
	source, sourceID, identityID string, points uint64, result *awardResult, at time.Time,
) *model.PointAwardedEvent {
	return &model.PointAwardedEvent{
		IdentityID:  identityID,
		PrincipalID: result.PrincipalID,
		Source:      source,
		SourceID:    sourceID,
		Points:      points,
		NewBalance:  result.NewBalance,
		AwardedAt:   model.FormatTime(at),
	}
}
