package domain

import (
	"context"
	"testing"
	"time"

	"github.com/facepass-lab/backend/internal/common"
	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/pkg/authenticator"
	"github.com/facepass-lab/backend/pkg/errorx"
	"github.com/facepass-lab/backend/pkg/testutil"
	"github.com/facepass-lab/backend/pkg/xcontext"
	"github.com/facepass-lab/backend/pkg/xredis"
	"github.com/stretchr/testify/require"
)

func Test_sessionDomain_IssueAndValidate(t *testing.T) {
	ctx := testutil.MockContext()

	recorded := map[string]string{}
	redisClient := &testutil.MockRedisClient{
		SetFunc: func(ctx context.Context, key, value string, ttl time.Duration) error {
			require.Equal(t, 24*time.Hour, ttl)
			recorded[key] = value
			return nil
		},
	}

	domain := NewSessionDomain(
		authenticator.NewTokenEngine[SessionClaims]("secret", 24*time.Hour), redisClient)

	session, err := domain.Issue(ctx, testutil.Identity1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, session.IdentityID)

	issuedAt, err := time.Parse(model.DefaultTimeLayout, session.IssuedAt)
	require.NoError(t, err)
	expiresAt, err := time.Parse(model.DefaultTimeLayout, session.ExpiresAt)
	require.NoError(t, err)
	require.Equal(t, 24*time.Hour, expiresAt.Sub(issuedAt))

	identityID, err := domain.Validate(ctx, session.Token)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, identityID)

	require.Len(t, recorded, 1)
	for _, v := range recorded {
		require.Equal(t, testutil.Identity1.ID, v)
	}
}

func Test_sessionDomain_Validate(t *testing.T) {
	ctx := testutil.MockContext()
	domain := NewSessionDomain(
		authenticator.NewTokenEngine[SessionClaims]("secret", 24*time.Hour), xredis.NewNoopClient())

	expiredEngine := authenticator.NewTokenEngine[SessionClaims]("secret", 24*time.Hour).
		WithNow(func() time.Time { return time.Now().Add(-25 * time.Hour) })
	expired, err := expiredEngine.Generate(testutil.Identity1.ID, SessionClaims{Kind: sessionKind})
	require.NoError(t, err)

	foreignEngine := authenticator.NewTokenEngine[SessionClaims]("other-secret", 24*time.Hour)
	foreign, err := foreignEngine.Generate(testutil.Identity1.ID, SessionClaims{Kind: sessionKind})
	require.NoError(t, err)

	otherKind, err := authenticator.NewTokenEngine[SessionClaims]("secret", time.Hour).
		Generate(testutil.Identity1.ID, SessionClaims{Kind: "unknown"})
	require.NoError(t, err)

	testCases := []struct {
		name  string
		token string
		code  errorx.Code
	}{
		{name: "empty", token: "", code: errorx.Unauthenticated},
		{name: "expired", token: expired.Value, code: errorx.TokenExpired},
		{name: "wrong signature", token: foreign.Value, code: errorx.Unauthenticated},
		{name: "garbage", token: "not-a-token", code: errorx.Unauthenticated},
		{name: "wrong kind", token: otherKind.Value, code: errorx.Unauthenticated},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.Validate(ctx, tt.token)
			requireErrorCode(t, err, tt.code)
		})
	}
}

func Test_sessionDomain_Renew(t *testing.T) {
	ctx := testutil.MockContext()

	deleted := []string{}
	redisClient := &testutil.MockRedisClient{
		DelFunc: func(ctx context.Context, key ...string) error {
			deleted = append(deleted, key...)
			return nil
		},
	}

	engine := authenticator.NewTokenEngine[SessionClaims]("secret", 24*time.Hour)
	domain := NewSessionDomain(engine, redisClient)

	old, err := engine.WithNow(func() time.Time { return time.Now().Add(-time.Hour) }).
		Generate(testutil.Identity1.ID, SessionClaims{Kind: sessionKind})
	require.NoError(t, err)
	engine.WithNow(time.Now)

	renewed, err := domain.Renew(ctx, old.Value)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, renewed.IdentityID)
	require.NotEqual(t, old.Value, renewed.Token)
	require.Equal(t, []string{common.RedisKeySession(old.ID)}, deleted)

	expiresAt, err := time.Parse(model.DefaultTimeLayout, renewed.ExpiresAt)
	require.NoError(t, err)
	require.True(t, expiresAt.After(old.ExpiresAt))
}

func Test_sessionDomain_RenewOrIssue(t *testing.T) {
	ctx := testutil.MockContext()
	domain := NewSessionDomain(
		authenticator.NewTokenEngine[SessionClaims]("secret", 24*time.Hour), xredis.NewNoopClient())

	other, err := domain.Issue(ctx, testutil.Identity2.ID)
	require.NoError(t, err)

	// A session of somebody else is never renewed for the caller.
	session, err := domain.RenewOrIssue(ctx, other.Token, testutil.Identity1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, session.IdentityID)

	session, err = domain.RenewOrIssue(ctx, "", testutil.Identity1.ID)
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, session.IdentityID)

	ctx = xcontext.WithSessionToken(ctx, session.Token)
	resp, err := domain.ValidateSession(ctx, &model.ValidateSessionRequest{})
	require.NoError(t, err)
	require.Equal(t, testutil.Identity1.ID, resp.IdentityID)
}
