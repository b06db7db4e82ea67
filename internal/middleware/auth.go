package middleware

import (
	"context"
	"strings"

	"github.com/questbelief/backend/pkg/errorx"
	"github.com/questbelief/backend/pkg/router"
	"github.com/questbelief/backend/pkg/xcontext"
)

// WithAuthVerifier resolves the caller's identity from the bearer token
// (or the access token cookie) and attaches the user id to the context.
// An absent or invalid token is not an error here; Authenticate rejects
// anonymous callers on the routes that need one.
func WithAuthVerifier() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		token := extractToken(ctx)
		if token == "" {
			return ctx, nil
		}

		accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return ctx, nil
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}

func extractToken(ctx context.Context) string {
	req := xcontext.HTTPRequest(ctx)
	if req == nil {
		return ""
	}

	authorization := req.Header.Get("Authorization")
	if strings.HasPrefix(authorization, "Bearer ") {
		return strings.TrimPrefix(authorization, "Bearer ")
	}

	cookie, err := req.Cookie(xcontext.Configs(ctx).Auth.AccessTokenName)
	if err != nil {
		return ""
	}

	return cookie.Value
}
