package domain

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ContestDomain interface {
	Participate(context.Context, *model.ParticipateRequest) (*model.ParticipateResponse, error)
	Get(context.Context, *model.GetContestRequest) (*model.GetContestResponse, error)
	GetList(context.Context, *model.GetListContestRequest) (*model.GetListContestResponse, error)
	GetParticipants(
		context.Context, *model.GetContestParticipantsRequest,
	) (*model.GetContestParticipantsResponse, error)
}

type contestDomain struct {
	contestRepo       repository.ContestRepository
	participationRepo repository.ParticipationRepository
	faceResolver      *faceResolver
	pointAwarder      *pointAwarder
	sessionDomain     SessionDomain
	clock             dateutil.Clock
}

func NewContestDomain(
	contestRepo repository.ContestRepository,
	participationRepo repository.ParticipationRepository,
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	oracle recognition.Oracle,
	storage storage.Storage,
	sessionDomain SessionDomain,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
	clock dateutil.Clock,
) *contestDomain {
	return &contestDomain{
		contestRepo:       contestRepo,
		participationRepo: participationRepo,
		faceResolver:      newFaceResolver(identityRepo, oracle, storage),
		pointAwarder:      newPointAwarder(identityRepo, companionLinkRepo, leaderboard, publisher),
		sessionDomain:     sessionDomain,
		clock:             clock,
	}
}

func (d *contestDomain) Participate(
	ctx context.Context, req *model.ParticipateRequest,
) (*model.ParticipateResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, errorx.New(errorx.BadRequest, "Contest code is required")
	}

	photo, err := common.ReadPhoto(ctx, req.Photo)
	if err != nil {
		return nil, err
	}

	contest, err := d.contestRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return d.outcome(model.OutcomeContestNotFound, "", &model.ParticipateResponse{
				Message: "Contest not found",
			}), nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get contest: %v", err)
		return nil, errorx.Unknown
	}

	if !contest.Active {
		return d.outcome(model.OutcomeContestNotFound, string(contest.Mode), &model.ParticipateResponse{
			Message: "Contest is not active",
		}), nil
	}

	clientContest := model.ConvertContest(contest)
	identity, similarity, err := d.faceResolver.identify(ctx, photo)
	if err != nil {
		if errors.Is(err, errNotRegistered) {
			return d.outcome(model.OutcomeNotRegistered, string(contest.Mode), &model.ParticipateResponse{
				Message: "Face is not registered",
				Contest: &clientContest,
			}), nil
		}

		return nil, err
	}

	now, err := d.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current time: %v", err)
		return nil, errorx.Unknown
	}
	now = dateutil.Truncate(now)

	participation := &entity.Participation{
		Base:            entity.Base{ID: uuid.NewString()},
		IdentityID:      identity.ID,
		ContestID:       contest.ID,
		PointsAwarded:   contest.PointsAwarded,
		MatchConfidence: similarity,
		AwardedAt:       now,
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	switch contest.Mode {
	case entity.SingleWinner:
		participation.WinnerSlot = sql.NullString{String: contest.ID, Valid: true}
		err = d.participationRepo.Create(txCtx, participation)
	case entity.OnePerUser:
		err = d.participationRepo.Create(txCtx, participation)
	case entity.UnlimitedRepeatable:
		err = d.participationRepo.Accumulate(txCtx, participation)
	default:
		xcontext.Logger(ctx).Errorf("Invalid mode %s of contest %s", contest.Mode, contest.ID)
		return nil, errorx.Unknown
	}

	if err != nil {
		xcontext.WithRollbackDBTransaction(txCtx)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return d.duplicatedOutcome(ctx, contest, identity)
		}

		xcontext.Logger(ctx).Errorf("Cannot record participation: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.pointAwarder.award(txCtx, identity.ID, contest.PointsAwarded)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot award points of contest %s: %v", contest.ID, err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(txCtx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return d.duplicatedOutcome(ctx, contest, identity)
		}

		xcontext.Logger(ctx).Errorf("Cannot commit participation: %v", err)
		return nil, errorx.Unknown
	}

	d.pointAwarder.notify(ctx, newAwardEvent(
		model.AwardSourceContest, contest.ID, identity.ID, contest.PointsAwarded, result, now))

	resp := &model.ParticipateResponse{
		Message:         fmt.Sprintf("You earned %d points", contest.PointsAwarded),
		Contest:         &clientContest,
		PointsAwarded:   contest.PointsAwarded,
		NewBalance:      result.NewBalance,
		MatchConfidence: similarity,
		AwardedAt:       model.FormatTime(now),
	}

	identity.PointBalance = result.NewBalance
	resp.Identity = convertOptionalShortIdentity(identity)

	session, err := d.sessionDomain.RenewOrIssue(ctx, xcontext.SessionToken(ctx), identity.ID)
	if err != nil {
		// The award is already durable.
		xcontext.Logger(ctx).Warnf("Cannot renew session of %s: %v", identity.ID, err)
	} else {
		resp.Session = session
	}

	return d.outcome(model.OutcomeSuccess, string(contest.Mode), resp), nil
}

// duplicatedOutcome explains why a constrained write of identity into
// contest was rejected. It must run outside the failed transaction.
func (d *contestDomain) duplicatedOutcome(
	ctx context.Context, contest *entity.Contest, identity *entity.Identity,
) (*model.ParticipateResponse, error) {
	clientContest := model.ConvertContest(contest)
	clientIdentity := convertOptionalShortIdentity(identity)

	switch contest.Mode {
	case entity.SingleWinner:
		winner, err := d.participationRepo.GetWinner(ctx, contest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get winner of contest %s: %v", contest.ID, err)
			return nil, errorx.Unknown
		}

		if winner.IdentityID == identity.ID {
			return d.outcome(model.OutcomeAlreadyWon, string(contest.Mode), &model.ParticipateResponse{
				Message:       "You already won this contest",
				Contest:       &clientContest,
				Identity:      clientIdentity,
				PointsAwarded: winner.PointsAwarded,
				NewBalance:    identity.PointBalance,
				AwardedAt:     model.FormatTime(winner.AwardedAt),
			}), nil
		}

		return d.outcome(model.OutcomeContestExhausted, string(contest.Mode), &model.ParticipateResponse{
			Message:    fmt.Sprintf("This contest was already won by %s", winner.Identity.DisplayName),
			Contest:    &clientContest,
			Identity:   clientIdentity,
			NewBalance: identity.PointBalance,
			WinnerName: winner.Identity.DisplayName,
			AwardedAt:  model.FormatTime(winner.AwardedAt),
		}), nil

	case entity.OnePerUser:
		existing, err := d.participationRepo.Get(ctx, identity.ID, contest.ID)
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot get participation: %v", err)
			return nil, errorx.Unknown
		}

		return d.outcome(model.OutcomeAlreadyParticipated, string(contest.Mode), &model.ParticipateResponse{
			Message:       "You already participated in this contest",
			Contest:       &clientContest,
			Identity:      clientIdentity,
			PointsAwarded: existing.PointsAwarded,
			NewBalance:    identity.PointBalance,
			AwardedAt:     model.FormatTime(existing.AwardedAt),
		}), nil
	}

	xcontext.Logger(ctx).Errorf("Unexpected duplicated participation in contest %s", contest.ID)
	return nil, errorx.Unknown
}

func (d *contestDomain) outcome(
	outcome, mode string, resp *model.ParticipateResponse,
) *model.ParticipateResponse {
	common.PromCounters[common.ParticipationOutcomeTotal].WithLabelValues(mode, outcome).Inc()
	resp.Outcome = outcome
	return resp
}

func (d *contestDomain) Get(
	ctx context.Context, req *model.GetContestRequest,
) (*model.GetContestResponse, error) {
	contest, err := d.getByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	total, err := d.participationRepo.CountByContestID(ctx, contest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot count participations: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetContestResponse{
		Contest:           model.ConvertContest(contest),
		TotalParticipants: int(total),
	}

	if contest.Mode == entity.SingleWinner {
		winner, err := d.participationRepo.GetWinner(ctx, contest.ID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			xcontext.Logger(ctx).Errorf("Cannot get winner: %v", err)
			return nil, errorx.Unknown
		}

		if err == nil {
			resp.Winner = convertOptionalShortIdentity(&winner.Identity)
		}
	}

	return resp, nil
}

func (d *contestDomain) GetList(
	ctx context.Context, req *model.GetListContestRequest,
) (*model.GetListContestResponse, error) {
	contests, err := d.contestRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get contest list: %v", err)
		return nil, errorx.Unknown
	}

	clientContests := []model.Contest{}
	for i := range contests {
		clientContests = append(clientContests, model.ConvertContest(&contests[i]))
	}

	return &model.GetListContestResponse{Contests: clientContests}, nil
}

func (d *contestDomain) GetParticipants(
	ctx context.Context, req *model.GetContestParticipantsRequest,
) (*model.GetContestParticipantsResponse, error) {
	contest, err := d.getByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}

	participations, err := d.participationRepo.GetByContestID(ctx, contest.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get participations: %v", err)
		return nil, errorx.Unknown
	}

	clientContest := model.ConvertContest(contest)
	clientParticipations := []model.Participation{}
	for i := range participations {
		clientParticipations = append(clientParticipations, model.ConvertParticipation(
			&participations[i],
			clientContest,
			model.ConvertShortIdentity(&participations[i].Identity),
		))
	}

	return &model.GetContestParticipantsResponse{
		Contest:        clientContest,
		Participations: clientParticipations,
	}, nil
}

func (d *contestDomain) getByCode(ctx context.Context, code string) (*entity.Contest, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errorx.New(errorx.BadRequest, "Contest code is required")
	}

	contest, err := d.contestRepo.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found contest")
		}

		xcontext.Logger(ctx).Errorf("Cannot get contest: %v", err)
		return nil, errorx.Unknown
	}

	return contest, nil
}
