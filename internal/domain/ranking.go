package domain

import (
	"context"
	"errors"

	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type RankingDomain interface {
	GetLeaderboard(context.Context, *model.GetLeaderboardRequest) (*model.GetLeaderboardResponse, error)
	GetHistory(context.Context, *model.GetHistoryRequest) (*model.GetHistoryResponse, error)
	GetAuditList(context.Context, *model.GetAuditListRequest) (*model.GetAuditListResponse, error)
}

type rankingDomain struct {
	identityRepo       repository.IdentityRepository
	participationRepo  repository.ParticipationRepository
	triviaResponseRepo repository.TriviaResponseRepository
	historyBuilder     *historyBuilder
	leaderboard        statistic.Leaderboard
}

func NewRankingDomain(
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	participationRepo repository.ParticipationRepository,
	triviaResponseRepo repository.TriviaResponseRepository,
	leaderboard statistic.Leaderboard,
) *rankingDomain {
	return &rankingDomain{
		identityRepo:       identityRepo,
		participationRepo:  participationRepo,
		triviaResponseRepo: triviaResponseRepo,
		historyBuilder: newHistoryBuilder(
			identityRepo, companionLinkRepo, participationRepo, triviaResponseRepo),
		leaderboard: leaderboard,
	}
}

func (d *rankingDomain) GetLeaderboard(
	ctx context.Context, req *model.GetLeaderboardRequest,
) (*model.GetLeaderboardResponse, error) {
	cfg := xcontext.Configs(ctx).Leaderboard
	if req.Limit == 0 {
		req.Limit = cfg.DefaultLimit
	}

	if req.Limit < 0 {
		return nil, errorx.New(errorx.BadRequest, "Limit must be positive")
	}

	if req.Limit > cfg.MaxLimit {
		return nil, errorx.New(errorx.BadRequest, "Exceed the maximum of limit (%d)", cfg.MaxLimit)
	}

	resp, err := d.leaderboard.Get(ctx, req.Limit)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get leaderboard: %v", err)
		return nil, errorx.Unknown
	}

	return resp, nil
}

func (d *rankingDomain) GetHistory(
	ctx context.Context, req *model.GetHistoryRequest,
) (*model.GetHistoryResponse, error) {
	if req.IdentityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Identity is required")
	}

	identity, err := d.identityRepo.GetByID(ctx, req.IdentityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found identity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get identity: %v", err)
		return nil, errorx.Unknown
	}

	h, err := d.historyBuilder.build(ctx, identity)
	if err != nil {
		return nil, err
	}

	return &model.GetHistoryResponse{
		Identity: model.ConvertIdentity(identity),
		History:  h.Entries,
		Summary:  h.Summary,
	}, nil
}

func (d *rankingDomain) GetAuditList(
	ctx context.Context, req *model.GetAuditListRequest,
) (*model.GetAuditListResponse, error) {
	identities, err := d.identityRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get identity list: %v", err)
		return nil, errorx.Unknown
	}

	ids := []string{}
	for _, identity := range identities {
		ids = append(ids, identity.ID)
	}

	contestCounts, err := d.participationRepo.CountByIdentityIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count participations: %v", err)
		return nil, errorx.Unknown
	}

	triviaCounts, err := d.triviaResponseRepo.CountByIdentityIDs(ctx, ids)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count trivia responses: %v", err)
		return nil, errorx.Unknown
	}

	contestMap := map[string]repository.ParticipationCount{}
	for _, c := range contestCounts {
		contestMap[c.IdentityID] = c
	}

	triviaMap := map[string]repository.ParticipationCount{}
	for _, c := range triviaCounts {
		triviaMap[c.IdentityID] = c
	}

	result := []model.AuditIdentity{}
	for i := range identities {
		id := identities[i].ID
		result = append(result, model.AuditIdentity{
			Identity:      model.ConvertIdentity(&identities[i]),
			ContestCount:  contestMap[id].Count,
			ContestPoints: contestMap[id].Points,
			TriviaCount:   triviaMap[id].Count,
			TriviaPoints:  triviaMap[id].Points,
		})
	}

	return &model.GetAuditListResponse{Identities: result}, nil
}
