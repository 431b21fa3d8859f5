package middleware

import (
	"context"
	"strings"

	"github.com/facepass-lab/backend/internal/model"
	"github.com/facepass-lab/backend/pkg/router"
	"github.com/facepass-lab/backend/pkg/session"
	"github.com/facepass-lab/backend/pkg/xcontext"
)

const SessionTokenHeader = "X-Session-Token"

type SessionResponse interface {
	SessionInfo() *model.Session
}

// LoadSession reads the session token from the Authorization header, the
// X-Session-Token header or the session cookie, in that order.
func LoadSession(store *session.Store) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		req := xcontext.HTTPRequest(ctx)

		token := ""
		if auth := req.Header.Get("Authorization"); auth != "" {
			scheme, value, found := strings.Cut(auth, " ")
			if found && strings.EqualFold(scheme, "Bearer") {
				token = strings.TrimSpace(value)
			}
		}

		if token == "" {
			token = strings.TrimSpace(req.Header.Get(SessionTokenHeader))
		}

		if token == "" && store != nil {
			token = store.Token(req)
		}

		if token == "" {
			return nil, nil
		}

		return xcontext.WithSessionToken(ctx, token), nil
	}
}

// SaveSession hands the session carried by the response back to the client
// as a header and, if a store is given, as a cookie.
func SaveSession(store *session.Store) router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		sessionResp, ok := xcontext.Response(ctx).(SessionResponse)
		if !ok {
			return nil, nil
		}

		info := sessionResp.SessionInfo()
		if info == nil || info.Token == "" {
			return nil, nil
		}

		w := xcontext.HTTPWriter(ctx)
		w.Header().Set(SessionTokenHeader, info.Token)

		if store != nil {
			if err := store.SaveToken(xcontext.HTTPRequest(ctx), w, info.Token); err != nil {
				// The token is still returned in the body and header.
				xcontext.Logger(ctx).Warnf("Cannot save session cookie: %v", err)
			}
		}

		return nil, nil
	}
}
