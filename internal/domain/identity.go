package domain

import (
	"context"
	"errors"
	"strings"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"gorm.io/gorm"
)

type IdentityDomain interface {
	Enroll(context.Context, *model.EnrollRequest) (*model.EnrollResponse, error)
	Identify(context.Context, *model.IdentifyRequest) (*model.IdentifyResponse, error)
	GetProfileByPhoto(context.Context, *model.GetProfileByPhotoRequest) (*model.GetProfileResponse, error)
	GetProfileBySession(context.Context, *model.GetProfileBySessionRequest) (*model.GetProfileResponse, error)
	ValidateEmployeeCode(
		context.Context, *model.ValidateEmployeeCodeRequest,
	) (*model.ValidateEmployeeCodeResponse, error)
}

type identityDomain struct {
	identityRepo      repository.IdentityRepository
	companionLinkRepo repository.CompanionLinkRepository
	faceResolver      *faceResolver
	historyBuilder    *historyBuilder
	sessionDomain     SessionDomain
}

func NewIdentityDomain(
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	participationRepo repository.ParticipationRepository,
	triviaResponseRepo repository.TriviaResponseRepository,
	oracle recognition.Oracle,
	storage storage.Storage,
	sessionDomain SessionDomain,
) *identityDomain {
	return &identityDomain{
		identityRepo:      identityRepo,
		companionLinkRepo: companionLinkRepo,
		faceResolver:      newFaceResolver(identityRepo, oracle, storage),
		historyBuilder: newHistoryBuilder(
			identityRepo, companionLinkRepo, participationRepo, triviaResponseRepo),
		sessionDomain: sessionDomain,
	}
}

func (d *identityDomain) Enroll(
	ctx context.Context, req *model.EnrollRequest,
) (*model.EnrollResponse, error) {
	profile := identityProfile{
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		Phone:        req.Phone,
		EmployeeCode: req.EmployeeCode,
	}

	if err := d.faceResolver.validateProfile(ctx, &profile); err != nil {
		return nil, err
	}

	photo, err := common.ReadPhoto(ctx, req.Photo)
	if err != nil {
		return nil, err
	}

	e, err := d.faceResolver.prepare(ctx, photo, profile)
	if err != nil {
		return nil, err
	}

	if err := d.identityRepo.Create(ctx, e.identity); err != nil {
		d.faceResolver.discard(ctx, e)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, errorx.New(errorx.AlreadyExists, "Identity is already registered")
		}

		xcontext.Logger(ctx).Errorf("Cannot create identity: %v", err)
		return nil, errorx.Unknown
	}

	session, err := d.sessionDomain.Issue(ctx, e.identity.ID)
	if err != nil {
		return nil, err
	}

	xcontext.Logger(ctx).Infof("Enrolled identity %s", e.identity.ID)

	return &model.EnrollResponse{
		Identity: model.ConvertIdentity(e.identity),
		Session:  *session,
	}, nil
}

func (d *identityDomain) Identify(
	ctx context.Context, req *model.IdentifyRequest,
) (*model.IdentifyResponse, error) {
	photo, err := common.ReadPhoto(ctx, req.Photo)
	if err != nil {
		return nil, err
	}

	identity, similarity, err := d.faceResolver.identify(ctx, photo)
	if err != nil {
		if errors.Is(err, errNotRegistered) {
			return nil, errorx.New(errorx.NotFound, "Face is not registered")
		}

		return nil, err
	}

	return &model.IdentifyResponse{
		Identity:   model.ConvertIdentity(identity),
		Similarity: similarity,
	}, nil
}

func (d *identityDomain) GetProfileByPhoto(
	ctx context.Context, req *model.GetProfileByPhotoRequest,
) (*model.GetProfileResponse, error) {
	photo, err := common.ReadPhoto(ctx, req.Photo)
	if err != nil {
		return nil, err
	}

	identity, _, err := d.faceResolver.identify(ctx, photo)
	if err != nil {
		if errors.Is(err, errNotRegistered) {
			return nil, errorx.New(errorx.NotFound, "Face is not registered")
		}

		return nil, err
	}

	h, err := d.historyBuilder.build(ctx, identity)
	if err != nil {
		return nil, err
	}

	session, err := d.sessionDomain.Issue(ctx, identity.ID)
	if err != nil {
		return nil, err
	}

	resp := convertProfile(identity, h)
	resp.Session = session

	return resp, nil
}

func (d *identityDomain) GetProfileBySession(
	ctx context.Context, req *model.GetProfileBySessionRequest,
) (*model.GetProfileResponse, error) {
	identityID, err := d.sessionDomain.Validate(ctx, xcontext.SessionToken(ctx))
	if err != nil {
		return nil, err
	}

	if req.IdentityID != "" && req.IdentityID != identityID {
		return nil, errorx.New(errorx.PermissionDenied, "Session belongs to another identity")
	}

	identity, err := d.identityRepo.GetByID(ctx, identityID)
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

	return convertProfile(identity, h), nil
}

func (d *identityDomain) ValidateEmployeeCode(
	ctx context.Context, req *model.ValidateEmployeeCodeRequest,
) (*model.ValidateEmployeeCodeResponse, error) {
	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, errorx.New(errorx.BadRequest, "Employee code is required")
	}

	identity, err := d.identityRepo.GetByEmployeeCode(ctx, code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &model.ValidateEmployeeCodeResponse{Valid: false}, nil
		}

		xcontext.Logger(ctx).Errorf("Cannot get identity by employee code: %v", err)
		return nil, errorx.Unknown
	}

	_, err = d.companionLinkRepo.GetByPrincipalID(ctx, identity.ID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get companion link: %v", err)
		return nil, errorx.Unknown
	}

	return &model.ValidateEmployeeCodeResponse{
		Valid:        true,
		IdentityID:   identity.ID,
		DisplayName:  identity.DisplayName,
		HasCompanion: err == nil,
	}, nil
}
