package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/facepass-lab/backend/internal/domain/scoring"
	"github.com/facepass-lab/backend/internal/domain/statistic"
	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/enum"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/pubsub"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TriviaDomain interface {
	GetActive(context.Context, *model.GetActiveTriviaRequest) (*model.GetActiveTriviaResponse, error)
	Answer(context.Context, *model.AnswerTriviaRequest) (*model.AnswerTriviaResponse, error)
	GetList(context.Context, *model.GetListTriviaRequest) (*model.GetListTriviaResponse, error)
	GetParticipants(
		context.Context, *model.GetTriviaParticipantsRequest,
	) (*model.GetTriviaParticipantsResponse, error)
}

type triviaDomain struct {
	triviaRepo         repository.TriviaRepository
	triviaResponseRepo repository.TriviaResponseRepository
	identityRepo       repository.IdentityRepository
	pointAwarder       *pointAwarder
	sessionDomain      SessionDomain
	clock              dateutil.Clock
}

func NewTriviaDomain(
	triviaRepo repository.TriviaRepository,
	triviaResponseRepo repository.TriviaResponseRepository,
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	sessionDomain SessionDomain,
	leaderboard statistic.Leaderboard,
	publisher pubsub.Publisher,
	clock dateutil.Clock,
) *triviaDomain {
	return &triviaDomain{
		triviaRepo:         triviaRepo,
		triviaResponseRepo: triviaResponseRepo,
		identityRepo:       identityRepo,
		pointAwarder:       newPointAwarder(identityRepo, companionLinkRepo, leaderboard, publisher),
		sessionDomain:      sessionDomain,
		clock:              clock,
	}
}

func (d *triviaDomain) GetActive(
	ctx context.Context, req *model.GetActiveTriviaRequest,
) (*model.GetActiveTriviaResponse, error) {
	now, err := d.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current time: %v", err)
		return nil, errorx.Unknown
	}

	resp := &model.GetActiveTriviaResponse{
		Questions:  []model.TriviaQuestion{},
		ServerTime: model.FormatTime(now),
	}

	trivia, err := d.triviaRepo.GetActive(ctx, now)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get active trivia: %v", err)
		return nil, errorx.Unknown
	}

	score, err := scoring.Score(now, trivia.WindowStart, trivia.WindowEnd, trivia.PointsMax, trivia.PointsMin)
	if err != nil {
		// The window was checked by the query, the trivia itself is broken.
		xcontext.Logger(ctx).Errorf("Cannot score trivia %s: %v", trivia.ID, err)
		return nil, errorx.Unknown
	}

	questions, err := d.triviaRepo.GetQuestions(ctx, trivia.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get questions: %v", err)
		return nil, errorx.Unknown
	}

	for i := range questions {
		resp.Questions = append(resp.Questions, model.ConvertTriviaQuestion(&questions[i]))
	}

	// The session is optional here, anonymous kiosks may preview the trivia.
	if token := xcontext.SessionToken(ctx); token != "" {
		if identityID, err := d.sessionDomain.Validate(ctx, token); err == nil {
			_, err := d.triviaResponseRepo.Get(ctx, identityID, trivia.ID)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				xcontext.Logger(ctx).Errorf("Cannot get trivia response: %v", err)
				return nil, errorx.Unknown
			}

			resp.AlreadyAnswered = err == nil
		}
	}

	clientTrivia := model.ConvertTrivia(trivia)
	resp.Trivia = &clientTrivia
	resp.CurrentScore = int(score)

	return resp, nil
}

func (d *triviaDomain) Answer(
	ctx context.Context, req *model.AnswerTriviaRequest,
) (*model.AnswerTriviaResponse, error) {
	token := xcontext.SessionToken(ctx)
	identityID, err := d.sessionDomain.Validate(ctx, token)
	if err != nil {
		return nil, err
	}

	if req.TriviaID == "" || req.QuestionID == "" {
		return nil, errorx.New(errorx.BadRequest, "Trivia and question are required")
	}

	label, err := enum.ToEnum[entity.AnswerLabel](strings.ToUpper(strings.TrimSpace(req.ChosenLabel)))
	if err != nil {
		return nil, errorx.New(errorx.BadRequest, "Answer must be one of A, B, C or D")
	}

	identity, err := d.identityRepo.GetByID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found identity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get identity: %v", err)
		return nil, errorx.Unknown
	}

	trivia, err := d.triviaRepo.GetByID(ctx, req.TriviaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found trivia")
		}

		xcontext.Logger(ctx).Errorf("Cannot get trivia: %v", err)
		return nil, errorx.Unknown
	}

	if !trivia.Active {
		return nil, errorx.New(errorx.TriviaInactive, "Trivia is not active")
	}

	_, err = d.triviaResponseRepo.Get(ctx, identity.ID, trivia.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyAnswered, "You already answered this trivia")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get trivia response: %v", err)
		return nil, errorx.Unknown
	}

	question, err := d.triviaRepo.GetQuestionByID(ctx, req.QuestionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get question: %v", err)
		return nil, errorx.Unknown
	}

	if err != nil || question.TriviaID != trivia.ID {
		return nil, errorx.New(errorx.QuestionMismatch, "Question does not belong to the trivia")
	}

	now, err := d.clock.Now(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get current time: %v", err)
		return nil, errorx.Unknown
	}
	now = dateutil.Truncate(now)

	score, err := scoring.Score(now, trivia.WindowStart, trivia.WindowEnd, trivia.PointsMax, trivia.PointsMin)
	if err != nil {
		switch {
		case errors.Is(err, scoring.ErrNotStarted):
			return nil, errorx.New(errorx.TriviaNotStarted, "Trivia has not started yet")
		case errors.Is(err, scoring.ErrClosed):
			return nil, errorx.New(errorx.TriviaClosed, "Trivia is closed")
		}

		xcontext.Logger(ctx).Errorf("Cannot score trivia %s: %v", trivia.ID, err)
		return nil, errorx.Unknown
	}

	isCorrect := label == question.CorrectLabel
	points := trivia.PointsMin
	if isCorrect {
		points = score
	}

	response := &entity.TriviaResponse{
		Base:          entity.Base{ID: uuid.NewString()},
		IdentityID:    identity.ID,
		TriviaID:      trivia.ID,
		QuestionID:    question.ID,
		ChosenLabel:   label,
		IsCorrect:     isCorrect,
		PointsAwarded: points,
		AnsweredAt:    now,
	}

	txCtx := xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(txCtx)

	if err := d.triviaResponseRepo.Create(txCtx, response); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyAnswered, "You already answered this trivia")
		}

		xcontext.Logger(ctx).Errorf("Cannot create trivia response: %v", err)
		return nil, errorx.Unknown
	}

	result, err := d.pointAwarder.award(txCtx, identity.ID, points)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot award points of trivia %s: %v", trivia.ID, err)
		return nil, errorx.Unknown
	}

	if err := xcontext.CommitDBTransaction(txCtx); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyAnswered, "You already answered this trivia")
		}

		xcontext.Logger(ctx).Errorf("Cannot commit trivia response: %v", err)
		return nil, errorx.Unknown
	}

	if points > 0 {
		d.pointAwarder.notify(ctx, newAwardEvent(
			model.AwardSourceTrivia, trivia.ID, identity.ID, points, result, now))
	}

	resp := &model.AnswerTriviaResponse{
		IsCorrect:     isCorrect,
		CorrectLabel:  string(question.CorrectLabel),
		PointsAwarded: points,
		NewBalance:    result.NewBalance,
	}

	session, err := d.sessionDomain.Renew(ctx, token)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot renew session of %s: %v", identity.ID, err)
	} else {
		resp.Session = session
	}

	return resp, nil
}

func (d *triviaDomain) GetList(
	ctx context.Context, req *model.GetListTriviaRequest,
) (*model.GetListTriviaResponse, error) {
	trivias, err := d.triviaRepo.GetList(ctx)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trivia list: %v", err)
		return nil, errorx.Unknown
	}

	clientTrivias := []model.Trivia{}
	for i := range trivias {
		clientTrivias = append(clientTrivias, model.ConvertTrivia(&trivias[i]))
	}

	return &model.GetListTriviaResponse{Trivias: clientTrivias}, nil
}

func (d *triviaDomain) GetParticipants(
	ctx context.Context, req *model.GetTriviaParticipantsRequest,
) (*model.GetTriviaParticipantsResponse, error) {
	if req.TriviaID == "" {
		return nil, errorx.New(errorx.BadRequest, "Trivia is required")
	}

	trivia, err := d.triviaRepo.GetByID(ctx, req.TriviaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found trivia")
		}

		xcontext.Logger(ctx).Errorf("Cannot get trivia: %v", err)
		return nil, errorx.Unknown
	}

	responses, err := d.triviaResponseRepo.GetByTriviaID(ctx, trivia.ID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get trivia responses: %v", err)
		return nil, errorx.Unknown
	}

	clientTrivia := model.ConvertTrivia(trivia)
	clientResponses := []model.TriviaResponse{}
	for i := range responses {
		clientResponses = append(clientResponses, model.ConvertTriviaResponse(
			&responses[i],
			clientTrivia,
			model.ConvertShortIdentity(&responses[i].Identity),
			model.ConvertTriviaQuestion(&responses[i].Question),
		))
	}

	return &model.GetTriviaParticipantsResponse{
		Trivia:    clientTrivia,
		Responses: clientResponses,
	}, nil
}
