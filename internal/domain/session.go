package domain

import (
	"context"
	"errors"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/pkg/authenticator"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/facepass-lab/backend/pkg/xredis"
)

// SessionClaims is embedded in every session token.
type SessionClaims struct {
	Kind string `json:"kind"`
}

const sessionKind = "biometric"

type SessionDomain interface {
	Issue(ctx context.Context, identityID string) (*model.Session, error)
	Validate(ctx context.Context, token string) (string, error)
	Renew(ctx context.Context, token string) (*model.Session, error)

	// RenewOrIssue renews token if it belongs to identityID, otherwise it
	// issues a new session for identityID.
	RenewOrIssue(ctx context.Context, token, identityID string) (*model.Session, error)

	ValidateSession(context.Context, *model.ValidateSessionRequest) (*model.ValidateSessionResponse, error)
}

type sessionDomain struct {
	tokenEngine authenticator.TokenEngine[SessionClaims]
	redisClient xredis.Client
}

func NewSessionDomain(
	tokenEngine authenticator.TokenEngine[SessionClaims],
	redisClient xredis.Client,
) *sessionDomain {
	return &sessionDomain{
		tokenEngine: tokenEngine,
		redisClient: redisClient,
	}
}

func (d *sessionDomain) Issue(ctx context.Context, identityID string) (*model.Session, error) {
	if identityID == "" {
		return nil, errorx.New(errorx.BadRequest, "Not allow empty identity")
	}

	token, err := d.tokenEngine.Generate(identityID, SessionClaims{Kind: sessionKind})
	if err != nil {
		xcontext.Logger(ctx).Errorf("Cannot generate session token: %v", err)
		return nil, errorx.Unknown
	}

	d.record(ctx, token)

	return convertSession(token), nil
}

func (d *sessionDomain) Validate(ctx context.Context, token string) (string, error) {
	t, err := d.verify(ctx, token)
	if err != nil {
		return "", err
	}

	return t.Subject, nil
}

func (d *sessionDomain) Renew(ctx context.Context, token string) (*model.Session, error) {
	t, err := d.verify(ctx, token)
	if err != nil {
		return nil, err
	}

	session, err := d.Issue(ctx, t.Subject)
	if err != nil {
		return nil, err
	}

	if err := d.redisClient.Del(ctx, common.RedisKeySession(t.ID)); err != nil {
		xcontext.Logger(ctx).Warnf("Cannot delete old session record: %v", err)
	}

	return session, nil
}

func (d *sessionDomain) RenewOrIssue(
	ctx context.Context, token, identityID string,
) (*model.Session, error) {
	if token != "" {
		if subject, err := d.Validate(ctx, token); err == nil && subject == identityID {
			return d.Renew(ctx, token)
		}
	}

	return d.Issue(ctx, identityID)
}

func (d *sessionDomain) ValidateSession(
	ctx context.Context, req *model.ValidateSessionRequest,
) (*model.ValidateSessionResponse, error) {
	t, err := d.verify(ctx, xcontext.SessionToken(ctx))
	if err != nil {
		return nil, err
	}

	return &model.ValidateSessionResponse{
		IdentityID: t.Subject,
		ExpiresAt:  model.FormatTime(t.ExpiresAt),
	}, nil
}

func (d *sessionDomain) verify(
	ctx context.Context, token string,
) (*authenticator.Token[SessionClaims], error) {
	if token == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Session is required")
	}

	t, err := d.tokenEngine.Verify(token)
	if err != nil {
		if errors.Is(err, authenticator.ErrTokenExpired) {
			return nil, errorx.New(errorx.TokenExpired, "Session expired")
		}

		xcontext.Logger(ctx).Debugf("Invalid session token: %v", err)
		return nil, errorx.New(errorx.Unauthenticated, "Invalid session")
	}

	if t.Object.Kind != sessionKind || t.Subject == "" {
		return nil, errorx.New(errorx.Unauthenticated, "Invalid session")
	}

	return t, nil
}

// record keeps a trace of the issued session. Validation never reads it.
func (d *sessionDomain) record(ctx context.Context, token *authenticator.Token[SessionClaims]) {
	ttl := token.ExpiresAt.Sub(token.IssuedAt)
	err := d.redisClient.Set(ctx, common.RedisKeySession(token.ID), token.Subject, ttl)
	if err != nil {
		xcontext.Logger(ctx).Warnf("Cannot record session: %v", err)
	}
}

func convertSession(token *authenticator.Token[SessionClaims]) *model.Session {
	return &model.Session{
		Token:      token.Value,
		IdentityID: token.Subject,
		IssuedAt:   model.FormatTime(token.IssuedAt),
		ExpiresAt:  model.FormatTime(token.ExpiresAt),
	}
}
