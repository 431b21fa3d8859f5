package statistic

import (
	"context"
	"errors"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/facepass-lab/backend/pkg/xredis"
)

type Leaderboard interface {
	// Get returns the top identities by balance, ties broken by the earlier
	// enrollment. The result may be served from the cache.
	Get(ctx context.Context, limit int) (*model.GetLeaderboardResponse, error)

	// Invalidate drops every cached leaderboard.
	Invalidate(ctx context.Context) error
}

type leaderboard struct {
	identityRepo       repository.IdentityRepository
	companionLinkRepo  repository.CompanionLinkRepository
	participationRepo  repository.ParticipationRepository
	triviaResponseRepo repository.TriviaResponseRepository
	redisClient        xredis.Client
}

func New(
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	participationRepo repository.ParticipationRepository,
	triviaResponseRepo repository.TriviaResponseRepository,
	redisClient xredis.Client,
) *leaderboard {
	return &leaderboard{
		identityRepo:       identityRepo,
		companionLinkRepo:  companionLinkRepo,
		participationRepo:  participationRepo,
		triviaResponseRepo: triviaResponseRepo,
		redisClient:        redisClient,
	}
}

func (l *leaderboard) Get(ctx context.Context, limit int) (*model.GetLeaderboardResponse, error) {
	version, err := l.redisClient.Get(ctx, common.RedisKeyLeaderboardVersion())
	if err != nil {
		if !errors.Is(err, xredis.ErrNil) {
			xcontext.Logger(ctx).Warnf("Cannot get leaderboard version: %v", err)
		}
		version = "0"
	}

	key := common.RedisKeyLeaderboard(version, limit)
	cached := model.GetLeaderboardResponse{}
	if err := l.redisClient.GetObj(ctx, key, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, xredis.ErrNil) {
		xcontext.Logger(ctx).Warnf("Cannot get cached leaderboard: %v", err)
	}

	result, err := l.load(ctx, limit)
	if err != nil {
		return nil, err
	}

	ttl := xcontext.Configs(ctx).Leaderboard.CacheTTL.Duration
	if ttl > 0 {
		if err := l.redisClient.SetObj(ctx, key, result, ttl); err != nil {
			xcontext.Logger(ctx).Warnf("Cannot cache leaderboard: %v", err)
		}
	}

	return result, nil
}

func (l *leaderboard) Invalidate(ctx context.Context) error {
	_, err := l.redisClient.Incr(ctx, common.RedisKeyLeaderboardVersion())
	return err
}

func (l *leaderboard) load(ctx context.Context, limit int) (*model.GetLeaderboardResponse, error) {
	identities, err := l.identityRepo.GetLeaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}

	ids := []string{}
	for _, identity := range identities {
		ids = append(ids, identity.ID)
	}

	contestCounts, err := l.participationRepo.CountByIdentityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	triviaCounts, err := l.triviaResponseRepo.CountByIdentityIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	links, err := l.companionLinkRepo.GetByPrincipalIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	stat, err := l.identityRepo.Statistic(ctx)
	if err != nil {
		return nil, err
	}

	contestCountMap := toCountMap(contestCounts)
	triviaCountMap := toCountMap(triviaCounts)
	companionMap := map[string]model.ShortIdentity{}
	for _, link := range links {
		companionMap[link.PrincipalID] = model.ConvertShortIdentity(&link.Companion)
	}

	entries := []model.LeaderboardEntry{}
	for i := range identities {
		entry := model.LeaderboardEntry{
			Rank:         i + 1,
			Identity:     model.ConvertShortIdentity(&identities[i]),
			ContestCount: contestCountMap[identities[i].ID],
			TriviaCount:  triviaCountMap[identities[i].ID],
		}

		if companion, ok := companionMap[identities[i].ID]; ok {
			entry.Companion = &companion
		}

		entries = append(entries, entry)
	}

	return &model.GetLeaderboardResponse{
		Entries: entries,
		Statistic: model.Statistic{
			TotalIdentities: stat.TotalIdentities,
			TotalPoints:     stat.TotalPoints,
			AveragePoints:   stat.AveragePoints,
			MaxPoints:       stat.MaxPoints,
		},
	}, nil
}

func toCountMap(counts []repository.ParticipationCount) map[string]int64 {
	result := map[string]int64{}
	for _, c := range counts {
		result[c.IdentityID] = c.Count
	}

	return result
}
