package middleware

import (
	"context"
	"strings"

	"github.com/plumehq/backend/pkg/errorx"
	"github.com/plumehq/backend/pkg/router"
	"github.com/plumehq/backend/pkg/xcontext"
)

// WithAuthentication resolves the bearer token (header first, cookie as
// a fallback) into the request user id. A missing or invalid token
// leaves the request anonymous; handlers that need a user pair this
// with Authenticate.
func WithAuthentication() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return nil, nil
		}

		accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, nil
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

// Authenticate rejects anonymous requests.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return nil, nil
	}
}

func extractToken(ctx context.Context) string {
	req := router.Request(ctx)

	if auth := req.Header.Get("Authorization"); auth != "" {
		if token, found := strings.CutPrefix(auth, "Bearer "); found {
			return token
		}

		return ""
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
