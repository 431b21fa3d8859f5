package domain

import (
	"context"
	"errors"
	"time"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/entity"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/internal/repository"
	"github.com/facepass-lab/backend/pkg/dateutil"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/recognition"
	"github.com/facepass-lab/backend/pkg/storage"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CompanionDomain interface {
	Link(context.Context, *model.LinkCompanionRequest) (*model.LinkCompanionResponse, error)
	Get(context.Context, *model.GetCompanionRequest) (*model.GetCompanionResponse, error)

	// ResolvePrincipal returns the principal of a companion, or nil if
	// identityID is not a companion.
	ResolvePrincipal(ctx context.Context, identityID string) (*entity.Identity, error)

	// CompanionOf returns the companion of a principal, or nil.
	CompanionOf(ctx context.Context, principalID string) (*entity.Identity, error)
}

type companionDomain struct {
	identityRepo      repository.IdentityRepository
	companionLinkRepo repository.CompanionLinkRepository
	sessionDomain     SessionDomain
	faceResolver      *faceResolver
}

func NewCompanionDomain(
	identityRepo repository.IdentityRepository,
	companionLinkRepo repository.CompanionLinkRepository,
	oracle recognition.Oracle,
	storage storage.Storage,
	sessionDomain SessionDomain,
) *companionDomain {
	return &companionDomain{
		identityRepo:      identityRepo,
		companionLinkRepo: companionLinkRepo,
		sessionDomain:     sessionDomain,
		faceResolver:      newFaceResolver(identityRepo, oracle, storage),
	}
}

func (d *companionDomain) Link(
	ctx context.Context, req *model.LinkCompanionRequest,
) (*model.LinkCompanionResponse, error) {
	// Only the principal itself, holding a session, may register a companion.
	principalID, err := d.sessionDomain.Validate(ctx, xcontext.SessionToken(ctx))
	if err != nil {
		return nil, err
	}

	if req.PrincipalID != "" && req.PrincipalID != principalID {
		return nil, errorx.New(errorx.PermissionDenied, "Session belongs to another identity")
	}

	principal, err := d.identityRepo.GetByID(ctx, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found principal")
		}

		xcontext.Logger(ctx).Errorf("Cannot get principal: %v", err)
		return nil, errorx.Unknown
	}

	if principal.IsCompanion {
		return nil, errorx.New(errorx.BadRequest, "A companion cannot have a companion")
	}

	_, err = d.companionLinkRepo.GetByPrincipalID(ctx, principal.ID)
	if err == nil {
		return nil, errorx.New(errorx.AlreadyHasCompanion, "Principal already has a companion")
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		xcontext.Logger(ctx).Errorf("Cannot get companion link: %v", err)
		return nil, errorx.Unknown
	}

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

	companion := e.identity
	link := &entity.CompanionLink{
		Base:        entity.Base{ID: uuid.NewString()},
		PrincipalID: principal.ID,
		CompanionID: companion.ID,
		LinkedAt:    dateutil.Truncate(time.Now()),
	}

	if err := d.persist(ctx, companion, link); err != nil {
		d.faceResolver.discard(ctx, e)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either another request linked the principal first, or the
			// contact data was registered meanwhile.
			if _, err := d.companionLinkRepo.GetByPrincipalID(ctx, principal.ID); err == nil {
				return nil, errorx.New(errorx.AlreadyHasCompanion, "Principal already has a companion")
			}

			return nil, errorx.New(errorx.AlreadyExists, "Identity is already registered")
		}

		xcontext.Logger(ctx).Errorf("Cannot link companion: %v", err)
		return nil, errorx.Unknown
	}

	companion.IsCompanion = true
	xcontext.Logger(ctx).Infof("Linked companion %s to %s", companion.ID, principal.ID)

	return &model.LinkCompanionResponse{
		Principal: model.ConvertIdentity(principal),
		Companion: model.ConvertIdentity(companion),
	}, nil
}

// persist creates the companion identity and its link in one transaction.
func (d *companionDomain) persist(
	ctx context.Context, companion *entity.Identity, link *entity.CompanionLink,
) error {
	ctx = xcontext.WithDBTransaction(ctx)
	defer xcontext.WithRollbackDBTransaction(ctx)

	if err := d.identityRepo.Create(ctx, companion); err != nil {
		return err
	}

	if err := d.companionLinkRepo.Create(ctx, link); err != nil {
		return err
	}

	if err := d.identityRepo.MarkCompanion(ctx, companion.ID); err != nil {
		return err
	}

	return xcontext.CommitDBTransaction(ctx)
}

func (d *companionDomain) Get(
	ctx context.Context, req *model.GetCompanionRequest,
) (*model.GetCompanionResponse, error) {
	if req.IdentityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Identity is required")
	}

	if _, err := d.identityRepo.GetByID(ctx, req.IdentityID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errorx.New(errorx.NotFound, "Not found identity")
		}

		xcontext.Logger(ctx).Errorf("Cannot get identity: %v", err)
		return nil, errorx.Unknown
	}

	companion, err := d.CompanionOf(ctx, req.IdentityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get companion: %v", err)
		return nil, errorx.Unknown
	}

	principal, err := d.ResolvePrincipal(ctx, req.IdentityID)
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot get principal: %v", err)
		return nil, errorx.Unknown
	}

	return &model.GetCompanionResponse{
		Companion: convertOptionalIdentity(companion),
		Principal: convertOptionalIdentity(principal),
	}, nil
}

func (d *companionDomain) ResolvePrincipal(ctx context.Context, identityID string) (*entity.Identity, error) {
	link, err := d.companionLinkRepo.GetByCompanionID(ctx, identityID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return d.identityRepo.GetByID(ctx, link.PrincipalID)
}

func (d *companionDomain) CompanionOf(ctx context.Context, principalID string) (*entity.Identity, error) {
	link, err := d.companionLinkRepo.GetByPrincipalID(ctx, principalID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, err
	}

	return d.identityRepo.GetByID(ctx, link.CompanionID)
}
